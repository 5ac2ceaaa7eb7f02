package maze

import (
	"context"
	"testing"

	"guardmind/internal/levels"
)

var (
	breathing = Challenge{ID: "breathing", Question: "Your heart is racing.", Options: []Option{
		{Text: "Ignore it"},
		{Text: "Slow breaths", Correct: true, Tool: "Deep Breathing"},
	}}
	grounding = Challenge{ID: "grounding", Question: "You feel detached.", Options: []Option{
		{Text: "Name five things you can see", Correct: true, Tool: "Grounding"},
		{Text: "Scroll your phone"},
	}}
)

func testCatalog(t *testing.T) Catalog {
	t.Helper()
	one, err := NewLevel(1, "One", []string{"S.T", "#.E"}, []string{"Deep Breathing"})
	if err != nil {
		t.Fatalf("level one: %v", err)
	}
	two, err := NewLevel(2, "Two", []string{"ST.", "#.E"}, []string{"Grounding"})
	if err != nil {
		t.Fatalf("level two: %v", err)
	}
	cat, err := NewCatalog(two, one)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

func startedGame(t *testing.T, opts ...GameOption) *Game {
	t.Helper()
	g := New(testCatalog(t), []Challenge{breathing, grounding}, opts...)
	if !g.Start() {
		t.Fatalf("expected start from instruction phase")
	}
	return g
}

func moves(t *testing.T, g *Game, dirs ...Direction) {
	t.Helper()
	for _, d := range dirs {
		if out := g.Move(d); !out.Moved {
			t.Fatalf("move %s from %+v did not move", d, out.From)
		}
	}
}

func TestMoveIgnoredOutsidePlaying(t *testing.T) {
	g := New(testCatalog(t), []Challenge{breathing})
	if g.Phase() != PhaseInstruction {
		t.Fatalf("expected instruction phase, got %s", g.Phase())
	}
	out := g.Move(Right)
	if out.Moved || g.Score() != 0 || g.Position() != (Position{}) {
		t.Fatalf("move before start changed state: %+v score=%d", out, g.Score())
	}
	if !g.Start() || g.Start() {
		t.Fatalf("start should only succeed once")
	}
}

func TestBlockedMovesLeaveStateUnchanged(t *testing.T) {
	g := startedGame(t)
	for _, d := range []Direction{Up, Left, Down} {
		out := g.Move(d)
		if !out.Blocked || out.Moved {
			t.Fatalf("expected %s to be blocked, got %+v", d, out)
		}
	}
	if g.Position() != (Position{}) || g.Score() != 0 || g.Phase() != PhasePlaying {
		t.Fatalf("blocked moves changed state: pos=%+v score=%d phase=%s", g.Position(), g.Score(), g.Phase())
	}
	if out := g.Move(Direction(99)); out.Moved || out.Blocked {
		t.Fatalf("unknown direction should be a no-op: %+v", out)
	}
}

func TestMoveAddsReward(t *testing.T) {
	g := startedGame(t)
	out := g.Move(Right)
	if !out.Moved || out.ScoreDelta != MoveReward || g.Score() != MoveReward {
		t.Fatalf("unexpected outcome %+v score=%d", out, g.Score())
	}
	if g.Position() != (Position{X: 1, Y: 0}) {
		t.Fatalf("unexpected position %+v", g.Position())
	}
}

func TestToolCellOpensBoundChallenge(t *testing.T) {
	g := startedGame(t)
	moves(t, g, Right)
	out := g.Move(Right)
	if out.Challenge == nil || out.Challenge.ID != "breathing" {
		t.Fatalf("expected breathing challenge, got %+v", out.Challenge)
	}
	if g.Phase() != PhaseChallenge {
		t.Fatalf("expected challenge phase, got %s", g.Phase())
	}
	if g.Move(Left).Moved {
		t.Fatalf("moves must be ignored during a challenge")
	}

	res := g.Answer(1)
	if !res.Correct || res.ToolCollected != "Deep Breathing" {
		t.Fatalf("unexpected answer outcome %+v", res)
	}
	if g.Score() != 2*MoveReward+CorrectBonus {
		t.Fatalf("unexpected score %d", g.Score())
	}
	if g.Phase() != PhasePlaying {
		t.Fatalf("expected playing after answer, got %s", g.Phase())
	}

	moves(t, g, Left)
	out = g.Move(Right)
	if out.Challenge != nil || g.Phase() != PhasePlaying {
		t.Fatalf("collected tool should not reopen a challenge")
	}
	if got := g.Collected(); len(got) != 1 || got[0] != "Deep Breathing" {
		t.Fatalf("unexpected tools %v", got)
	}
}

func TestWrongAnswerPenaltyFloorsAtZero(t *testing.T) {
	lv, err := NewLevel(1, "Tiny", []string{"ST", ".E"}, []string{"Deep Breathing"})
	if err != nil {
		t.Fatalf("level: %v", err)
	}
	cat, err := NewCatalog(lv)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	g := New(cat, []Challenge{breathing})
	g.Start()
	moves(t, g, Right)
	res := g.Answer(0)
	if !res.Answered || res.Correct {
		t.Fatalf("expected wrong answer, got %+v", res)
	}
	if g.Score() != 0 || res.ScoreDelta != -MoveReward {
		t.Fatalf("expected score floored at zero, got score=%d delta=%d", g.Score(), res.ScoreDelta)
	}
	if len(g.Collected()) != 0 {
		t.Fatalf("wrong answer must not grant a tool")
	}

	moves(t, g, Left, Right)
	if g.Phase() != PhasePlaying {
		t.Fatalf("a discarded challenge must not be reissued, phase=%s", g.Phase())
	}
}

func TestAnswerOutOfRangeIsIgnored(t *testing.T) {
	g := startedGame(t)
	moves(t, g, Right, Right)
	before := g.Score()
	if res := g.Answer(7); res.Answered {
		t.Fatalf("out of range answer should be ignored")
	}
	if g.Phase() != PhaseChallenge || g.Score() != before {
		t.Fatalf("state changed after malformed answer")
	}
	if res := g.Answer(-1); res.Answered {
		t.Fatalf("negative answer should be ignored")
	}
}

func TestExitAdvancesThenCompletes(t *testing.T) {
	g := startedGame(t)
	moves(t, g, Right, Down)
	out := g.Move(Right)
	if !out.LevelAdvanced || out.Level != 2 {
		t.Fatalf("expected advance to level 2, got %+v", out)
	}
	if g.Position() != (Position{}) || g.LevelNumber() != 2 {
		t.Fatalf("expected level 2 start, got pos=%+v level=%d", g.Position(), g.LevelNumber())
	}
	if g.Score() != 3*MoveReward {
		t.Fatalf("unexpected score %d", g.Score())
	}

	out = g.Move(Right)
	if out.Challenge == nil || out.Challenge.ID != "grounding" {
		t.Fatalf("expected grounding challenge on level 2, got %+v", out.Challenge)
	}
	g.Answer(0)
	moves(t, g, Right)
	out = g.Move(Down)
	if !out.Completed || g.Phase() != PhaseComplete {
		t.Fatalf("expected completion, got %+v phase=%s", out, g.Phase())
	}
	final := g.Score()
	if g.Move(Up).Moved || g.Score() != final {
		t.Fatalf("moves after completion must be ignored")
	}
	snap := g.Snapshot()
	if snap.LevelIndex != 1 || snap.LevelCount != 2 || len(snap.Tools) != 1 || snap.Tools[0] != "Grounding" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestFirstUnusedModeIgnoresCellTool(t *testing.T) {
	g := startedGame(t, WithSelectionMode(SelectFirstUnused))
	moves(t, g, Right, Down, Right)
	out := g.Move(Right)
	if out.Challenge == nil || out.Challenge.ID != "breathing" {
		t.Fatalf("expected first unused challenge, got %+v", out.Challenge)
	}
	res := g.Answer(1)
	if res.ToolCollected != "Deep Breathing" {
		t.Fatalf("expected option tool to be granted, got %q", res.ToolCollected)
	}
}

func TestRestartResetsEverything(t *testing.T) {
	g := startedGame(t)
	moves(t, g, Right, Right)
	g.Answer(1)
	g.Restart()
	snap := g.Snapshot()
	if snap.Phase != PhaseInstruction || snap.Score != 0 || len(snap.Tools) != 0 || snap.LevelIndex != 0 {
		t.Fatalf("restart did not reset: %+v", snap)
	}
	g.Start()
	moves(t, g, Right)
	if out := g.Move(Right); out.Challenge == nil {
		t.Fatalf("challenges must be available again after restart")
	}
}

func TestGenerateFallsBackToFirstLevel(t *testing.T) {
	cat := testCatalog(t)
	if got := cat.Generate(2); got.Number != 2 {
		t.Fatalf("expected level 2, got %d", got.Number)
	}
	for _, n := range []int{0, 3, -1} {
		if got := cat.Generate(n); got.Number != 1 {
			t.Fatalf("level %d: expected fallback to 1, got %d", n, got.Number)
		}
	}
}

func TestNewLevelRejectsBadLayouts(t *testing.T) {
	cases := map[string][]string{
		"no start":  {"..E"},
		"two start": {"S.S", "..E"},
		"ragged":    {"S.", "..E"},
		"glyph":     {"S?E"},
		"tools":     {"STE"},
	}
	for name, layout := range cases {
		if _, err := NewLevel(1, name, layout, nil); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestParseDirection(t *testing.T) {
	for raw, want := range map[string]Direction{"up": Up, "K": Up, "s": Down, "h": Left, " East ": Right} {
		got, ok := ParseDirection(raw)
		if !ok || got != want {
			t.Fatalf("%q: got %v ok=%v", raw, got, ok)
		}
	}
	if _, ok := ParseDirection("sideways"); ok {
		t.Fatalf("expected unknown direction")
	}
}

// Every built-in level must let the player reach each tool and the exit.
func TestBuiltinPackIsSolvable(t *testing.T) {
	packs, err := levels.Builtin(context.Background())
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	pack, err := levels.NewLoader().FindPack(packs, levels.BuiltinPackID)
	if err != nil {
		t.Fatalf("find pack: %v", err)
	}
	cat, challenges, err := FromPack(pack)
	if err != nil {
		t.Fatalf("from pack: %v", err)
	}
	if cat.Count() != 3 {
		t.Fatalf("expected 3 levels, got %d", cat.Count())
	}
	for n := 1; n <= cat.Count(); n++ {
		lv := cat.Generate(n)
		seen := reachable(lv)
		for pos, tool := range lv.ToolAt {
			if !seen[pos] {
				t.Fatalf("level %d: tool %s at %+v unreachable", n, tool, pos)
			}
			bound := false
			for _, c := range challenges {
				if c.rewardsTool(tool) {
					bound = true
				}
			}
			if !bound {
				t.Fatalf("level %d: no challenge grants %s", n, tool)
			}
		}
		exit := false
		for pos := range seen {
			if c, _ := lv.At(pos); c == CellExit {
				exit = true
			}
		}
		if !exit {
			t.Fatalf("level %d: exit unreachable", n)
		}
	}
}

func reachable(lv Level) map[Position]bool {
	seen := map[Position]bool{lv.Start: true}
	queue := []Position{lv.Start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range []Direction{Up, Down, Left, Right} {
			dx, dy, _ := d.delta()
			next := Position{X: p.X + dx, Y: p.Y + dy}
			if c, ok := lv.At(next); !ok || c == CellWall || seen[next] {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return seen
}
