package ui

import (
	"strings"
	"testing"

	"guardmind/internal/cbt"
)

func TestRenderGardenAndFortress(t *testing.T) {
	if out := RenderGarden(DefaultTheme(), nil); !strings.Contains(out, "Nothing planted yet") {
		t.Fatalf("unexpected empty garden %q", out)
	}
	out := RenderGarden(DefaultTheme(), []cbt.Plant{{Flower: "*", Activity: "walk"}, {Flower: "+", Activity: "tea"}})
	if !strings.Contains(out, "Mindful Garden (2)") || !strings.Contains(out, "+  tea") {
		t.Fatalf("unexpected garden %q", out)
	}

	fort := RenderFortress(DefaultTheme(), 3, true)
	if !strings.Contains(fort, "Fortress Level: 3") || strings.Count(fort, "##") != 3 {
		t.Fatalf("unexpected fortress %q", fort)
	}
}

func TestRenderEscapeRoom(t *testing.T) {
	ex, err := cbt.Load()
	if err != nil {
		t.Fatalf("load exercises: %v", err)
	}
	room := cbt.NewEscapeRoom(ex.Rooms)
	room.Enter("joy")
	room.Solve(0)

	out := RenderEscapeRoom(DefaultTheme(), room)
	if !strings.Contains(out, "escaped!") || !strings.Contains(out, "Inventory: joy") {
		t.Fatalf("unexpected escape room %q", out)
	}
	if strings.Contains(out, "mastered your emotions") {
		t.Fatalf("room should not be finished yet")
	}
}
