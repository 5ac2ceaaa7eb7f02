package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"guardmind/internal/maze"
)

type mockController struct {
	starts    int
	answers   []maze.ChallengeOutcome
	advanced  []int
	completes []maze.Snapshot
	restarts  []maze.Snapshot
	quits     int
}

func (m *mockController) OnStart(maze.Snapshot) { m.starts++ }
func (m *mockController) OnChallengeAnswered(out maze.ChallengeOutcome, _ maze.Snapshot) {
	m.answers = append(m.answers, out)
}
func (m *mockController) OnLevelAdvanced(s maze.Snapshot) {
	m.advanced = append(m.advanced, s.Level.Number)
}
func (m *mockController) OnComplete(s maze.Snapshot) { m.completes = append(m.completes, s) }
func (m *mockController) OnRestart(s maze.Snapshot)  { m.restarts = append(m.restarts, s) }
func (m *mockController) OnQuit(maze.Snapshot)       { m.quits++ }

func newTestGame(t *testing.T) *maze.Game {
	t.Helper()
	one, err := maze.NewLevel(1, "Calm Start", []string{"S.T", "#.E"}, []string{"Deep Breathing"})
	if err != nil {
		t.Fatalf("level one: %v", err)
	}
	two, err := maze.NewLevel(2, "Second Wind", []string{"S.E"}, nil)
	if err != nil {
		t.Fatalf("level two: %v", err)
	}
	cat, err := maze.NewCatalog(one, two)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return maze.New(cat, []maze.Challenge{{
		ID:       "breathing",
		Question: "What helps when your chest feels tight?",
		Options: []maze.Option{
			{Text: "Hold your breath"},
			{Text: "Slow, deep breaths", Correct: true, Tool: "Deep Breathing"},
		},
	}})
}

func newTestModel(t *testing.T) (*MazeModel, *mockController) {
	t.Helper()
	ctrl := &mockController{}
	m := NewMaze(newTestGame(t), ctrl, Options{ASCIIOnly: true, MotionLevel: "off"})
	_, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, ctrl
}

func keyPress(m tea.Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func runePress(m tea.Model, s string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return cmd
}

func TestMazeStartsOnEnter(t *testing.T) {
	m, ctrl := newTestModel(t)
	if !strings.Contains(m.View(), "Press enter to begin") {
		t.Fatalf("expected instructions before start")
	}
	keyPress(m, tea.KeyRight)
	if m.game.Snapshot().Score != 0 {
		t.Fatalf("moves before start must be ignored")
	}
	keyPress(m, tea.KeyEnter)
	if ctrl.starts != 1 || m.game.Snapshot().Phase != maze.PhasePlaying {
		t.Fatalf("expected game to start, starts=%d", ctrl.starts)
	}
}

func TestMazeMoveAndChallengeFlow(t *testing.T) {
	m, ctrl := newTestModel(t)
	keyPress(m, tea.KeyEnter)

	runePress(m, "d")
	if m.DisplayedScore() != maze.MoveReward {
		t.Fatalf("expected score %d, got %d", maze.MoveReward, m.DisplayedScore())
	}
	keyPress(m, tea.KeyRight)
	snap := m.game.Snapshot()
	if snap.Phase != maze.PhaseChallenge || snap.Challenge == nil {
		t.Fatalf("expected challenge on tool cell, got %v", snap.Phase)
	}
	view := m.View()
	if !strings.Contains(view, "What helps when your chest feels tight?") || !strings.Contains(view, "2. Slow, deep breaths") {
		t.Fatalf("expected challenge overlay, got:\n%s", view)
	}

	runePress(m, "9")
	if m.game.Snapshot().Phase != maze.PhaseChallenge {
		t.Fatalf("out of range answer must keep the challenge open")
	}
	runePress(m, "2")
	if len(ctrl.answers) != 1 || !ctrl.answers[0].Correct || ctrl.answers[0].ToolCollected != "Deep Breathing" {
		t.Fatalf("unexpected answers %#v", ctrl.answers)
	}
	if got := m.DisplayedScore(); got != 2*maze.MoveReward+maze.CorrectBonus {
		t.Fatalf("unexpected score %d", got)
	}
	if !strings.Contains(m.View(), "you gained Deep Breathing") {
		t.Fatalf("expected success flash")
	}
}

func TestMazeAdvancesAndCompletes(t *testing.T) {
	m, ctrl := newTestModel(t)
	keyPress(m, tea.KeyEnter)
	for _, k := range []string{"d", "s", "d"} {
		runePress(m, k)
	}
	if len(ctrl.advanced) != 1 || ctrl.advanced[0] != 2 {
		t.Fatalf("expected advance to level 2, got %v", ctrl.advanced)
	}
	runePress(m, "l")
	runePress(m, "l")
	if len(ctrl.completes) != 1 {
		t.Fatalf("expected completion")
	}
	if !strings.Contains(m.View(), "You made it through the Mind Maze!") {
		t.Fatalf("expected completion screen")
	}

	runePress(m, "r")
	if len(ctrl.restarts) != 1 || ctrl.restarts[0].Phase != maze.PhaseComplete {
		t.Fatalf("expected restart with completed snapshot, got %#v", ctrl.restarts)
	}
	if snap := m.game.Snapshot(); snap.Phase != maze.PhaseInstruction || snap.Score != 0 {
		t.Fatalf("expected fresh game after restart, got %#v", snap)
	}
}

func TestMazeQuitNotifiesController(t *testing.T) {
	m, ctrl := newTestModel(t)
	cmd := runePress(m, "q")
	if cmd == nil || ctrl.quits != 1 || !m.Quitting() {
		t.Fatalf("expected quit command and callback")
	}
	if m.View() != "" {
		t.Fatalf("expected empty view after quit")
	}
}

func TestMazeViewTooSmall(t *testing.T) {
	m, _ := newTestModel(t)
	_, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(m.View(), "too small") {
		t.Fatalf("expected resize message")
	}
}

func TestMazeGridASCII(t *testing.T) {
	m, _ := newTestModel(t)
	keyPress(m, tea.KeyEnter)
	view := m.View()
	for _, want := range []string{"@ ", "T ", "##", "E "} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in grid:\n%s", want, view)
		}
	}
}

func TestScoreSpringSettles(t *testing.T) {
	ctrl := &mockController{}
	m := NewMaze(newTestGame(t), ctrl, Options{ASCIIOnly: true})
	keyPress(m, tea.KeyEnter)
	if cmd := keyPress(m, tea.KeyRight); cmd == nil {
		t.Fatalf("expected animation frame command")
	}
	for i := 0; i < 600 && m.animating; i++ {
		_, _ = m.Update(scoreFrameMsg{})
	}
	if m.animating || m.DisplayedScore() != maze.MoveReward {
		t.Fatalf("spring did not settle: animating=%v score=%d", m.animating, m.DisplayedScore())
	}
}
