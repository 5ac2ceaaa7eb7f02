package levels

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	PackKind               = "pack"
	LevelKind              = "level"
	SupportedSchemaVersion = 1
)

// Layout characters understood by the maze engine.
const (
	GlyphStart = 'S'
	GlyphPath  = '.'
	GlyphWall  = '#'
	GlyphTool  = 'T'
	GlyphExit  = 'E'
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,63}$`)

type Pack struct {
	Kind          string          `yaml:"kind"`
	SchemaVersion int             `yaml:"schema_version"`
	PackID        string          `yaml:"pack_id"`
	Name          string          `yaml:"name"`
	Version       string          `yaml:"version"`
	DescriptionMD string          `yaml:"description_md"`
	Levels        []PackLevelRef  `yaml:"levels"`
	Challenges    []ChallengeSpec `yaml:"challenges"`

	Path         string  `yaml:"-"`
	LoadedLevels []Level `yaml:"-"`
}

type PackLevelRef struct {
	LevelID string `yaml:"level_id"`
	Path    string `yaml:"path"`
	Enabled *bool  `yaml:"enabled"`
}

type ChallengeSpec struct {
	ID       string       `yaml:"id"`
	Question string       `yaml:"question"`
	Options  []OptionSpec `yaml:"options"`
}

type OptionSpec struct {
	Text    string `yaml:"text"`
	Correct bool   `yaml:"correct"`
	Tool    string `yaml:"tool"`
}

type Level struct {
	Kind          string   `yaml:"kind"`
	SchemaVersion int      `yaml:"schema_version"`
	LevelID       string   `yaml:"level_id"`
	Number        int      `yaml:"number"`
	Title         string   `yaml:"title"`
	SummaryMD     string   `yaml:"summary_md"`
	Layout        []string `yaml:"layout"`
	Tools         []string `yaml:"tools"`

	Path string `yaml:"-"`
}

func (p Pack) Validate() error {
	if p.Kind != PackKind {
		return fmt.Errorf("kind must be %q", PackKind)
	}
	if p.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if p.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported pack schema_version %d (max supported %d)", p.SchemaVersion, SupportedSchemaVersion)
	}
	if !idPattern.MatchString(p.PackID) {
		return fmt.Errorf("invalid pack_id %q", p.PackID)
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Version == "" {
		return fmt.Errorf("version is required")
	}
	seen := map[string]struct{}{}
	for _, l := range p.Levels {
		if l.LevelID == "" {
			return fmt.Errorf("levels[].level_id is required")
		}
		if _, ok := seen[l.LevelID]; ok {
			return fmt.Errorf("duplicate level_id %q in pack.yaml", l.LevelID)
		}
		seen[l.LevelID] = struct{}{}
	}
	seenChallenges := map[string]struct{}{}
	for _, c := range p.Challenges {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, ok := seenChallenges[c.ID]; ok {
			return fmt.Errorf("duplicate challenge id %q", c.ID)
		}
		seenChallenges[c.ID] = struct{}{}
	}
	return nil
}

func (c ChallengeSpec) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("challenges[].id is required")
	}
	if strings.TrimSpace(c.Question) == "" {
		return fmt.Errorf("challenge %q question is required", c.ID)
	}
	if len(c.Options) < 2 {
		return fmt.Errorf("challenge %q needs at least two options", c.ID)
	}
	correct := 0
	for _, o := range c.Options {
		if strings.TrimSpace(o.Text) == "" {
			return fmt.Errorf("challenge %q has an empty option", c.ID)
		}
		if o.Correct {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("challenge %q must have exactly one correct option, got %d", c.ID, correct)
	}
	return nil
}

func (l Level) Validate() error {
	if l.Kind != LevelKind {
		return fmt.Errorf("kind must be %q", LevelKind)
	}
	if l.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if l.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported level schema_version %d (max supported %d)", l.SchemaVersion, SupportedSchemaVersion)
	}
	if !idPattern.MatchString(l.LevelID) {
		return fmt.Errorf("invalid level_id %q", l.LevelID)
	}
	if l.Number < 1 {
		return fmt.Errorf("number must be >= 1")
	}
	if l.Title == "" {
		return fmt.Errorf("title is required")
	}
	if len(l.Layout) == 0 {
		return fmt.Errorf("layout must contain at least one row")
	}
	width := len(l.Layout[0])
	starts, exits, tools := 0, 0, 0
	for y, row := range l.Layout {
		if len(row) != width {
			return fmt.Errorf("layout row %d has width %d, want %d", y, len(row), width)
		}
		for x, ch := range row {
			switch ch {
			case GlyphStart:
				starts++
			case GlyphExit:
				exits++
			case GlyphTool:
				tools++
			case GlyphPath, GlyphWall:
			default:
				return fmt.Errorf("layout row %d col %d: unknown cell %q", y, x, ch)
			}
		}
	}
	if starts != 1 {
		return fmt.Errorf("layout must contain exactly one start cell, got %d", starts)
	}
	if exits == 0 {
		return fmt.Errorf("layout must contain at least one exit cell")
	}
	if tools != len(l.Tools) {
		return fmt.Errorf("layout has %d tool cells but %d tools are listed", tools, len(l.Tools))
	}
	seenTools := map[string]struct{}{}
	for _, t := range l.Tools {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("tools[] entries must be non-empty")
		}
		if _, ok := seenTools[t]; ok {
			return fmt.Errorf("duplicate tool %q", t)
		}
		seenTools[t] = struct{}{}
	}
	return nil
}
