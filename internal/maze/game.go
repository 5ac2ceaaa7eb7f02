package maze

const (
	MoveReward   = 10
	CorrectBonus = 50
	WrongPenalty = 20
)

// Game is the Mind Maze state machine. It is not safe for concurrent use;
// the UI drives it from a single goroutine.
type Game struct {
	catalog    Catalog
	challenges []Challenge
	mode       SelectionMode

	levelIdx  int
	level     Level
	pos       Position
	score     int
	phase     Phase
	collected []string
	has       map[string]bool
	used      []bool
	current   int
}

type GameOption func(*Game)

func WithSelectionMode(mode SelectionMode) GameOption {
	return func(g *Game) { g.mode = mode }
}

func New(catalog Catalog, challenges []Challenge, opts ...GameOption) *Game {
	g := &Game{
		catalog:    catalog,
		challenges: append([]Challenge(nil), challenges...),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.reset()
	return g
}

func (g *Game) reset() {
	g.levelIdx = 0
	g.level = Level{}
	if g.catalog.Count() > 0 {
		g.level = g.catalog.at(0)
	}
	g.pos = g.level.Start
	g.score = 0
	g.phase = PhaseInstruction
	g.collected = nil
	g.has = map[string]bool{}
	g.used = make([]bool, len(g.challenges))
	g.current = -1
}

// Start leaves the instruction screen. It reports false in any other phase.
func (g *Game) Start() bool {
	if g.phase != PhaseInstruction {
		return false
	}
	g.phase = PhasePlaying
	return true
}

// Restart returns the game to its freshly constructed state.
func (g *Game) Restart() { g.reset() }

func (g *Game) Phase() Phase { return g.phase }

func (g *Game) Score() int { return g.score }

func (g *Game) Position() Position { return g.pos }

func (g *Game) LevelNumber() int { return g.level.Number }

func (g *Game) Collected() []string { return append([]string(nil), g.collected...) }

// Move steps one cell. Moves outside the playing phase, off the grid or into
// a wall leave the game untouched.
func (g *Game) Move(d Direction) MoveOutcome {
	out := MoveOutcome{From: g.pos, To: g.pos, Level: g.level.Number}
	if g.phase != PhasePlaying {
		return out
	}
	dx, dy, ok := d.delta()
	if !ok {
		return out
	}
	to := Position{X: g.pos.X + dx, Y: g.pos.Y + dy}
	cell, inside := g.level.At(to)
	if !inside || cell == CellWall {
		out.Blocked = true
		return out
	}

	g.pos = to
	g.score += MoveReward
	out.Moved = true
	out.To = to
	out.Cell = cell
	out.ScoreDelta = MoveReward

	switch cell {
	case CellTool:
		tool := g.level.ToolAt[to]
		if g.has[tool] {
			break
		}
		if idx := g.pickChallenge(tool); idx >= 0 {
			g.used[idx] = true
			g.current = idx
			g.phase = PhaseChallenge
			c := g.challenges[idx]
			out.Challenge = &c
		}
	case CellExit:
		if g.levelIdx+1 < g.catalog.Count() {
			g.levelIdx++
			g.level = g.catalog.at(g.levelIdx)
			g.pos = g.level.Start
			out.LevelAdvanced = true
			out.Level = g.level.Number
		} else {
			g.phase = PhaseComplete
			out.Completed = true
		}
	}
	return out
}

func (g *Game) pickChallenge(tool string) int {
	if g.mode == SelectByTool {
		bound := false
		for i, c := range g.challenges {
			if !c.rewardsTool(tool) {
				continue
			}
			bound = true
			if !g.used[i] {
				return i
			}
		}
		if bound {
			return -1
		}
	}
	for i := range g.challenges {
		if !g.used[i] {
			return i
		}
	}
	return -1
}

// Answer resolves the open challenge with the option at index. An index out
// of range is ignored and the challenge stays open.
func (g *Game) Answer(index int) ChallengeOutcome {
	var out ChallengeOutcome
	if g.phase != PhaseChallenge || g.current < 0 {
		return out
	}
	c := g.challenges[g.current]
	if index < 0 || index >= len(c.Options) {
		return out
	}
	opt := c.Options[index]
	out.Answered = true
	if opt.Correct {
		out.Correct = true
		out.ScoreDelta = CorrectBonus
		g.score += CorrectBonus
		if opt.Tool != "" && !g.has[opt.Tool] {
			g.has[opt.Tool] = true
			g.collected = append(g.collected, opt.Tool)
			out.ToolCollected = opt.Tool
		}
	} else {
		penalty := min(WrongPenalty, g.score)
		g.score -= penalty
		out.ScoreDelta = -penalty
	}
	g.current = -1
	g.phase = PhasePlaying
	return out
}

// ActiveChallenge returns the open challenge, if any.
func (g *Game) ActiveChallenge() (Challenge, bool) {
	if g.phase != PhaseChallenge || g.current < 0 {
		return Challenge{}, false
	}
	return g.challenges[g.current], true
}

func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Phase:      g.phase,
		Level:      g.level,
		LevelIndex: g.levelIdx,
		LevelCount: g.catalog.Count(),
		Position:   g.pos,
		Score:      g.score,
		Tools:      g.Collected(),
	}
	if c, ok := g.ActiveChallenge(); ok {
		s.Challenge = &c
	}
	return s
}
