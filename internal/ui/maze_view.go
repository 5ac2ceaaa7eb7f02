package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"guardmind/internal/maze"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Start   key.Binding
	Answer  key.Binding
	Restart key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Answer, k.Restart, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Start, k.Answer, k.Restart},
		{k.Help, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "w", "k"), key.WithHelp("↑/w", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "s", "j"), key.WithHelp("↓/s", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "a", "h"), key.WithHelp("←/a", "left")),
		Right:   key.NewBinding(key.WithKeys("right", "d", "l"), key.WithHelp("→/d", "right")),
		Start:   key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("enter", "start")),
		Answer:  key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "answer")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type scoreFrameMsg struct{}

const scoreFPS = 60

// MazeModel is the bubbletea screen for the Mind Maze.
type MazeModel struct {
	game   Engine
	ctrl   Controller
	theme  Theme
	ascii  bool
	motion string

	keys keyMap
	help help.Model
	bar  progress.Model

	spring    harmonica.Spring
	scorePos  float64
	scoreVel  float64
	animating bool

	flash    string
	flashOK  bool
	cols     int
	rows     int
	quitting bool
}

func NewMaze(game Engine, ctrl Controller, opts Options) *MazeModel {
	theme := ThemeForVariant(opts.StyleVariant)
	motion := strings.ToLower(strings.TrimSpace(opts.MotionLevel))
	if motion == "" {
		motion = "full"
	}
	m := &MazeModel{
		game:   game,
		ctrl:   ctrl,
		theme:  theme,
		ascii:  opts.ASCIIOnly,
		motion: motion,
		keys:   defaultKeyMap(),
		help:   help.New(),
		bar:    progress.New(progress.WithGradient(theme.BarFrom, theme.BarTo), progress.WithWidth(20)),
		cols:   100,
		rows:   30,
	}
	switch motion {
	case "reduced":
		m.spring = harmonica.NewSpring(harmonica.FPS(scoreFPS), 12.0, 1.0)
	default:
		m.spring = harmonica.NewSpring(harmonica.FPS(scoreFPS), 6.0, 0.7)
	}
	m.scorePos = float64(game.Snapshot().Score)
	return m
}

func (m *MazeModel) Init() tea.Cmd { return nil }

func (m *MazeModel) Quitting() bool { return m.quitting }

// DisplayedScore is the animated score currently drawn in the status bar.
func (m *MazeModel) DisplayedScore() int { return int(math.Round(m.scorePos)) }

func (m *MazeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case scoreFrameMsg:
		return m, m.stepScore()
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *MazeModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		if m.ctrl != nil {
			m.ctrl.OnQuit(m.game.Snapshot())
		}
		return tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}
	if key.Matches(msg, m.keys.Restart) {
		if m.ctrl != nil {
			m.ctrl.OnRestart(m.game.Snapshot())
		}
		m.game.Restart()
		m.flash = ""
		return m.retarget()
	}

	snap := m.game.Snapshot()
	switch snap.Phase {
	case maze.PhaseInstruction:
		if key.Matches(msg, m.keys.Start) && m.game.Start() && m.ctrl != nil {
			m.ctrl.OnStart(m.game.Snapshot())
		}
	case maze.PhasePlaying:
		if d, ok := m.direction(msg); ok {
			return m.move(d)
		}
	case maze.PhaseChallenge:
		if key.Matches(msg, m.keys.Answer) {
			return m.answer(int(msg.String()[0] - '1'))
		}
	}
	return nil
}

func (m *MazeModel) direction(msg tea.KeyMsg) (maze.Direction, bool) {
	switch {
	case key.Matches(msg, m.keys.Up):
		return maze.Up, true
	case key.Matches(msg, m.keys.Down):
		return maze.Down, true
	case key.Matches(msg, m.keys.Left):
		return maze.Left, true
	case key.Matches(msg, m.keys.Right):
		return maze.Right, true
	}
	return 0, false
}

func (m *MazeModel) move(d maze.Direction) tea.Cmd {
	out := m.game.Move(d)
	if !out.Moved {
		return nil
	}
	m.flash = ""
	switch {
	case out.Completed:
		if m.ctrl != nil {
			m.ctrl.OnComplete(m.game.Snapshot())
		}
	case out.LevelAdvanced:
		m.flash = fmt.Sprintf("Level %d reached.", out.Level)
		m.flashOK = true
		if m.ctrl != nil {
			m.ctrl.OnLevelAdvanced(m.game.Snapshot())
		}
	}
	return m.retarget()
}

func (m *MazeModel) answer(index int) tea.Cmd {
	out := m.game.Answer(index)
	if !out.Answered {
		return nil
	}
	m.flashOK = out.Correct
	switch {
	case out.Correct && out.ToolCollected != "":
		m.flash = fmt.Sprintf("Correct! +%d, you gained %s.", out.ScoreDelta, out.ToolCollected)
	case out.Correct:
		m.flash = fmt.Sprintf("Correct! +%d.", out.ScoreDelta)
	default:
		m.flash = fmt.Sprintf("Not quite. %d points.", out.ScoreDelta)
	}
	if m.ctrl != nil {
		m.ctrl.OnChallengeAnswered(out, m.game.Snapshot())
	}
	return m.retarget()
}

// retarget starts the score spring toward the game's current score.
func (m *MazeModel) retarget() tea.Cmd {
	target := float64(m.game.Snapshot().Score)
	if m.motion == "off" {
		m.scorePos, m.scoreVel = target, 0
		m.animating = false
		return nil
	}
	if m.animating {
		return nil
	}
	m.animating = true
	return scoreFrame()
}

func (m *MazeModel) stepScore() tea.Cmd {
	target := float64(m.game.Snapshot().Score)
	m.scorePos, m.scoreVel = m.spring.Update(m.scorePos, m.scoreVel, target)
	if math.Abs(m.scorePos-target) < 0.5 && math.Abs(m.scoreVel) < 0.5 {
		m.scorePos, m.scoreVel = target, 0
		m.animating = false
		return nil
	}
	return scoreFrame()
}

func scoreFrame() tea.Cmd {
	return tea.Tick(time.Second/scoreFPS, func(time.Time) tea.Msg { return scoreFrameMsg{} })
}

func (m *MazeModel) View() string {
	if m.quitting {
		return ""
	}
	mode := DetermineLayoutMode(m.cols, m.rows)
	if mode == LayoutTooSmall {
		return m.theme.Fail.Render("Terminal too small for the Mind Maze (need at least 60x20).")
	}

	snap := m.game.Snapshot()
	header := m.theme.Header.Render(fmt.Sprintf("Mind Maze  Level %d/%d  %s",
		snap.LevelIndex+1, snap.LevelCount, snap.Level.Title))
	status := m.theme.Status.Render(fmt.Sprintf("Score: %d   Tools: %d", m.DisplayedScore(), len(snap.Tools)))

	var body string
	switch snap.Phase {
	case maze.PhaseInstruction:
		body = m.theme.Overlay.Render(m.instructions())
	case maze.PhaseComplete:
		body = m.theme.Overlay.Render(m.completion(snap))
	default:
		grid := drawPanel(m.theme, "Maze", m.renderGrid(snap), m.ascii)
		side := drawPanel(m.theme, "Coping Tools", m.sidebar(snap), m.ascii)
		if mode == LayoutWide {
			body = lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", side)
		} else {
			body = lipgloss.JoinVertical(lipgloss.Left, grid, side)
		}
		if snap.Phase == maze.PhaseChallenge && snap.Challenge != nil {
			body = lipgloss.JoinVertical(lipgloss.Left, body, m.theme.Overlay.Render(m.challenge(*snap.Challenge)))
		}
	}

	parts := []string{header, status, body}
	if m.flash != "" {
		style := m.theme.Fail
		if m.flashOK {
			style = m.theme.Pass
		}
		parts = append(parts, style.Render(m.flash))
	}
	parts = append(parts, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *MazeModel) instructions() string {
	tool, exit := m.glyph(maze.CellTool), m.glyph(maze.CellExit)
	return strings.Join([]string{
		m.theme.Accent.Render("Welcome to the Mind Maze"),
		"",
		"Move with the arrow keys or WASD. Each step earns " + fmt.Sprint(maze.MoveReward) + " points.",
		fmt.Sprintf("Step on %s to face a challenge. A right answer earns %d points and a coping tool,", strings.TrimSpace(tool), maze.CorrectBonus),
		fmt.Sprintf("a wrong one costs up to %d.", maze.WrongPenalty),
		fmt.Sprintf("Reach %s to move on to the next level.", strings.TrimSpace(exit)),
		"",
		m.theme.Muted.Render("Press enter to begin."),
	}, "\n")
}

func (m *MazeModel) completion(snap maze.Snapshot) string {
	tools := "none"
	if len(snap.Tools) > 0 {
		tools = strings.Join(snap.Tools, ", ")
	}
	return strings.Join([]string{
		m.theme.Pass.Render("You made it through the Mind Maze!"),
		"",
		fmt.Sprintf("Final score: %d", snap.Score),
		"Coping tools: " + tools,
		"",
		m.theme.Muted.Render("Press r to play again or q to leave."),
	}, "\n")
}

func (m *MazeModel) challenge(c maze.Challenge) string {
	lines := []string{m.theme.Accent.Render(c.Question), ""}
	for i, o := range c.Options {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, o.Text))
	}
	return strings.Join(lines, "\n")
}

func (m *MazeModel) sidebar(snap maze.Snapshot) string {
	have := map[string]bool{}
	for _, t := range snap.Tools {
		have[t] = true
	}
	var lines []string
	found := 0
	for _, t := range snap.Level.Tools {
		if have[t] {
			found++
			lines = append(lines, m.theme.Pass.Render(m.check(true)+" "+t))
		} else {
			lines = append(lines, m.theme.Muted.Render(m.check(false)+" "+t))
		}
	}
	pct := 1.0
	if n := len(snap.Level.Tools); n > 0 {
		pct = float64(found) / float64(n)
	}
	lines = append(lines, "", m.bar.ViewAs(pct))
	if extra := len(snap.Tools) - found; extra > 0 {
		lines = append(lines, m.theme.Muted.Render(fmt.Sprintf("+%d from earlier levels", extra)))
	}
	return strings.Join(lines, "\n")
}

func (m *MazeModel) check(done bool) string {
	switch {
	case m.ascii && done:
		return "[x]"
	case m.ascii:
		return "[ ]"
	case done:
		return "✓"
	default:
		return "○"
	}
}

func (m *MazeModel) renderGrid(snap maze.Snapshot) string {
	have := map[string]bool{}
	for _, t := range snap.Tools {
		have[t] = true
	}
	lvl := snap.Level
	var b strings.Builder
	for y := 0; y < lvl.Height(); y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < lvl.Width(); x++ {
			p := maze.Position{X: x, Y: y}
			if p == snap.Position {
				b.WriteString(m.theme.Player.Render(m.playerGlyph()))
				continue
			}
			cell, _ := lvl.At(p)
			if cell == maze.CellTool && have[lvl.ToolAt[p]] {
				cell = maze.CellPath
			}
			b.WriteString(m.cellStyle(cell).Render(m.glyph(cell)))
		}
	}
	return b.String()
}

func (m *MazeModel) cellStyle(c maze.Cell) lipgloss.Style {
	switch c {
	case maze.CellWall:
		return m.theme.Wall
	case maze.CellTool:
		return m.theme.Tool
	case maze.CellExit:
		return m.theme.Exit
	default:
		return m.theme.Floor
	}
}

func (m *MazeModel) playerGlyph() string {
	if m.ascii {
		return "@ "
	}
	return "◉ "
}

func (m *MazeModel) glyph(c maze.Cell) string {
	if m.ascii {
		switch c {
		case maze.CellWall:
			return "##"
		case maze.CellTool:
			return "T "
		case maze.CellExit:
			return "E "
		default:
			return ". "
		}
	}
	switch c {
	case maze.CellWall:
		return "██"
	case maze.CellTool:
		return "✚ "
	case maze.CellExit:
		return "◎ "
	default:
		return "· "
	}
}

// RunMaze runs the maze screen until the player quits.
func RunMaze(m *MazeModel, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}
