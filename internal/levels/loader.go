package levels

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"gopkg.in/yaml.v3"
)

// BuiltinPackID is the pack shipped inside the binary.
const BuiltinPackID = "mind-maze"

//go:embed all:packs
var builtinFS embed.FS

var ErrPackNotFound = errors.New("pack not found")

type FSLoader struct{}

func NewLoader() *FSLoader { return &FSLoader{} }

// Builtin loads the packs embedded in the binary.
func Builtin(ctx context.Context) ([]Pack, error) {
	return NewLoader().LoadPacks(ctx, builtinFS, "packs")
}

func (l *FSLoader) LoadPacks(ctx context.Context, fsys fs.FS, root string) ([]Pack, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, err
	}

	packs := make([]Pack, 0)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		packPath := path.Join(root, entry.Name())
		packYAML := path.Join(packPath, "pack.yaml")
		if _, err := fs.Stat(fsys, packYAML); err != nil {
			continue
		}
		pack, err := readPack(fsys, packYAML)
		if err != nil {
			return nil, fmt.Errorf("load pack %s: %w", packPath, err)
		}
		pack.Path = packPath

		levels, err := l.readLevels(fsys, pack)
		if err != nil {
			return nil, err
		}
		if len(levels) == 0 {
			return nil, fmt.Errorf("pack %s has no levels", pack.PackID)
		}
		pack.LoadedLevels = levels
		packs = append(packs, pack)
	}

	sort.Slice(packs, func(i, j int) bool { return packs[i].PackID < packs[j].PackID })
	return packs, nil
}

func readPack(fsys fs.FS, file string) (Pack, error) {
	var pack Pack
	b, err := fs.ReadFile(fsys, file)
	if err != nil {
		return pack, err
	}
	if err := yaml.Unmarshal(b, &pack); err != nil {
		return pack, err
	}
	if err := pack.Validate(); err != nil {
		return pack, err
	}
	return pack, nil
}

func (l *FSLoader) readLevels(fsys fs.FS, pack Pack) ([]Level, error) {
	var (
		levels []Level
		err    error
	)
	if len(pack.Levels) > 0 {
		levels, err = l.readLevelsFromManifest(fsys, pack)
	} else {
		levels, err = l.readLevelsFromScan(fsys, pack)
	}
	if err != nil {
		return nil, err
	}
	sort.SliceStable(levels, func(i, j int) bool { return levels[i].Number < levels[j].Number })
	for i := 1; i < len(levels); i++ {
		if levels[i].Number == levels[i-1].Number {
			return nil, fmt.Errorf("pack %s: levels %s and %s share number %d", pack.PackID, levels[i-1].LevelID, levels[i].LevelID, levels[i].Number)
		}
	}
	return levels, nil
}

func (l *FSLoader) readLevelsFromManifest(fsys fs.FS, pack Pack) ([]Level, error) {
	levels := make([]Level, 0, len(pack.Levels))
	for _, ref := range pack.Levels {
		if ref.Enabled != nil && !*ref.Enabled {
			continue
		}
		levelDir := path.Join(pack.Path, ref.Path)
		levelYAML := path.Join(levelDir, "level.yaml")
		level, err := loadLevelFile(fsys, levelYAML)
		if err != nil {
			return nil, err
		}
		if level.LevelID != ref.LevelID {
			return nil, fmt.Errorf("level id mismatch for %s: manifest=%s file=%s", levelYAML, ref.LevelID, level.LevelID)
		}
		level.Path = levelDir
		levels = append(levels, level)
	}
	return levels, nil
}

func (l *FSLoader) readLevelsFromScan(fsys fs.FS, pack Pack) ([]Level, error) {
	levelRoot := path.Join(pack.Path, "levels")
	entries, err := fs.ReadDir(fsys, levelRoot)
	if err != nil {
		return nil, err
	}
	levels := make([]Level, 0)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		ly := path.Join(levelRoot, e.Name(), "level.yaml")
		if _, err := fs.Stat(fsys, ly); err != nil {
			continue
		}
		level, err := loadLevelFile(fsys, ly)
		if err != nil {
			return nil, err
		}
		level.Path = path.Dir(ly)
		levels = append(levels, level)
	}
	return levels, nil
}

func loadLevelFile(fsys fs.FS, file string) (Level, error) {
	var level Level
	b, err := fs.ReadFile(fsys, file)
	if err != nil {
		return level, err
	}
	if err := yaml.Unmarshal(b, &level); err != nil {
		return level, fmt.Errorf("parse %s: %w", file, err)
	}
	if err := level.Validate(); err != nil {
		return level, fmt.Errorf("validate %s: %w", file, err)
	}
	return level, nil
}

func (l *FSLoader) FindPack(packs []Pack, packID string) (Pack, error) {
	for _, p := range packs {
		if p.PackID == packID {
			return p, nil
		}
	}
	return Pack{}, fmt.Errorf("%w: %s", ErrPackNotFound, packID)
}
