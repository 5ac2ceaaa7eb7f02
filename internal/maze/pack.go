package maze

import (
	"fmt"

	"guardmind/internal/levels"
)

// FromPack turns a loaded level pack into a catalog and its challenge pool.
func FromPack(p levels.Pack) (Catalog, []Challenge, error) {
	lv := make([]Level, 0, len(p.LoadedLevels))
	for _, spec := range p.LoadedLevels {
		l, err := NewLevel(spec.Number, spec.Title, spec.Layout, spec.Tools)
		if err != nil {
			return Catalog{}, nil, fmt.Errorf("pack %s: %w", p.PackID, err)
		}
		lv = append(lv, l)
	}
	cat, err := NewCatalog(lv...)
	if err != nil {
		return Catalog{}, nil, fmt.Errorf("pack %s: %w", p.PackID, err)
	}
	challenges := make([]Challenge, 0, len(p.Challenges))
	for _, cs := range p.Challenges {
		c := Challenge{ID: cs.ID, Question: cs.Question}
		for _, o := range cs.Options {
			c.Options = append(c.Options, Option{Text: o.Text, Correct: o.Correct, Tool: o.Tool})
		}
		challenges = append(challenges, c)
	}
	return cat, challenges, nil
}
