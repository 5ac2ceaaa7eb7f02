package maze

import (
	"fmt"
	"sort"

	"guardmind/internal/levels"
)

type Level struct {
	Number int
	Title  string
	Cells  [][]Cell
	Tools  []string
	ToolAt map[Position]string
	Start  Position
}

// NewLevel builds a level from layout rows. Tool names are assigned to tool
// cells in reading order.
func NewLevel(number int, title string, layout []string, tools []string) (Level, error) {
	if len(layout) == 0 {
		return Level{}, fmt.Errorf("level %d: empty layout", number)
	}
	lv := Level{
		Number: number,
		Title:  title,
		Cells:  make([][]Cell, len(layout)),
		Tools:  append([]string(nil), tools...),
		ToolAt: map[Position]string{},
	}
	width := len(layout[0])
	starts := 0
	toolIdx := 0
	for y, row := range layout {
		if len(row) != width {
			return Level{}, fmt.Errorf("level %d: row %d is not %d wide", number, y, width)
		}
		lv.Cells[y] = make([]Cell, width)
		for x, ch := range row {
			var c Cell
			switch ch {
			case levels.GlyphStart:
				c = CellStart
				lv.Start = Position{X: x, Y: y}
				starts++
			case levels.GlyphPath:
				c = CellPath
			case levels.GlyphWall:
				c = CellWall
			case levels.GlyphTool:
				if toolIdx >= len(tools) {
					return Level{}, fmt.Errorf("level %d: more tool cells than tools", number)
				}
				c = CellTool
				lv.ToolAt[Position{X: x, Y: y}] = tools[toolIdx]
				toolIdx++
			case levels.GlyphExit:
				c = CellExit
			default:
				return Level{}, fmt.Errorf("level %d: unknown cell %q at %d,%d", number, ch, x, y)
			}
			lv.Cells[y][x] = c
		}
	}
	if starts != 1 {
		return Level{}, fmt.Errorf("level %d: want exactly one start, got %d", number, starts)
	}
	if toolIdx != len(tools) {
		return Level{}, fmt.Errorf("level %d: %d tools listed for %d tool cells", number, len(tools), toolIdx)
	}
	return lv, nil
}

func (l Level) Width() int {
	if len(l.Cells) == 0 {
		return 0
	}
	return len(l.Cells[0])
}

func (l Level) Height() int { return len(l.Cells) }

// At reports the cell at p and whether p lies inside the grid.
func (l Level) At(p Position) (Cell, bool) {
	if p.Y < 0 || p.Y >= len(l.Cells) || p.X < 0 || p.X >= len(l.Cells[p.Y]) {
		return CellWall, false
	}
	return l.Cells[p.Y][p.X], true
}

// Catalog is the ordered set of hand-authored levels for one play session.
type Catalog struct {
	levels []Level
}

func NewCatalog(lv ...Level) (Catalog, error) {
	if len(lv) == 0 {
		return Catalog{}, fmt.Errorf("catalog needs at least one level")
	}
	sorted := append([]Level(nil), lv...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Number == sorted[i-1].Number {
			return Catalog{}, fmt.Errorf("duplicate level number %d", sorted[i].Number)
		}
	}
	return Catalog{levels: sorted}, nil
}

func (c Catalog) Count() int { return len(c.levels) }

// Generate returns the layout for levelNumber. Unknown numbers fall back to the first level.
func (c Catalog) Generate(levelNumber int) Level {
	if i := c.index(levelNumber); i >= 0 {
		return c.levels[i]
	}
	if len(c.levels) == 0 {
		return Level{}
	}
	return c.levels[0]
}

func (c Catalog) index(levelNumber int) int {
	for i, l := range c.levels {
		if l.Number == levelNumber {
			return i
		}
	}
	return -1
}

func (c Catalog) at(i int) Level { return c.levels[i] }
