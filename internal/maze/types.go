package maze

import "strings"

// Cell is one square of a level grid. Cells never change once a level is built.
type Cell int

const (
	CellPath Cell = iota
	CellStart
	CellWall
	CellTool
	CellExit
)

func (c Cell) String() string {
	switch c {
	case CellStart:
		return "start"
	case CellWall:
		return "wall"
	case CellTool:
		return "tool"
	case CellExit:
		return "exit"
	default:
		return "path"
	}
}

type Position struct {
	X int
	Y int
}

type Direction int

const (
	Up Direction = iota + 1
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

func (d Direction) delta() (int, int, bool) {
	switch d {
	case Up:
		return 0, -1, true
	case Down:
		return 0, 1, true
	case Left:
		return -1, 0, true
	case Right:
		return 1, 0, true
	default:
		return 0, 0, false
	}
}

// ParseDirection accepts direction names, arrow key names and WASD/HJKL keys.
func ParseDirection(raw string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "up", "w", "k", "north":
		return Up, true
	case "down", "s", "j", "south":
		return Down, true
	case "left", "a", "h", "west":
		return Left, true
	case "right", "d", "l", "east":
		return Right, true
	default:
		return 0, false
	}
}

// Phase is the game state: instruction -> playing <-> challenge, playing -> complete.
type Phase int

const (
	PhaseInstruction Phase = iota
	PhasePlaying
	PhaseChallenge
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseChallenge:
		return "challenge"
	case PhaseComplete:
		return "complete"
	default:
		return "instruction"
	}
}

type Challenge struct {
	ID       string
	Question string
	Options  []Option
}

type Option struct {
	Text    string
	Correct bool
	Tool    string
}

// rewardsTool reports the tool granted by the challenge's correct option.
func (c Challenge) rewardsTool(tool string) bool {
	for _, o := range c.Options {
		if o.Correct && o.Tool == tool {
			return true
		}
	}
	return false
}

// SelectionMode decides which challenge a tool cell opens.
type SelectionMode int

const (
	// SelectByTool opens the unused challenge whose correct option grants the cell's tool.
	SelectByTool SelectionMode = iota
	// SelectFirstUnused opens the first unused challenge in pack order, whatever the tool.
	SelectFirstUnused
)

func ParseSelectionMode(raw string) (SelectionMode, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "by_tool", "by-tool", "tool":
		return SelectByTool, true
	case "first_unused", "first-unused", "first":
		return SelectFirstUnused, true
	default:
		return 0, false
	}
}

type MoveOutcome struct {
	Moved         bool
	Blocked       bool
	From          Position
	To            Position
	Cell          Cell
	ScoreDelta    int
	Challenge     *Challenge
	LevelAdvanced bool
	Level         int
	Completed     bool
}

type ChallengeOutcome struct {
	Answered      bool
	Correct       bool
	ScoreDelta    int
	ToolCollected string
}

type Snapshot struct {
	Phase      Phase
	Level      Level
	LevelIndex int
	LevelCount int
	Position   Position
	Score      int
	Tools      []string
	Challenge  *Challenge
}
