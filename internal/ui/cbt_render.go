package ui

import (
	"fmt"
	"strings"

	"guardmind/internal/cbt"
)

func RenderGarden(theme Theme, plants []cbt.Plant) string {
	if len(plants) == 0 {
		return theme.Muted.Render("Nothing planted yet. Plant a mindful activity to start your garden.")
	}
	lines := make([]string, 0, len(plants)+1)
	lines = append(lines, theme.PanelTitle.Render(fmt.Sprintf("Mindful Garden (%d)", len(plants))))
	for _, p := range plants {
		lines = append(lines, fmt.Sprintf("%s  %s", p.Flower, p.Activity))
	}
	return strings.Join(lines, "\n")
}

// RenderFortress draws one block per fortress level.
func RenderFortress(theme Theme, level int, ascii bool) string {
	block := "▇▇ "
	if ascii {
		block = "## "
	}
	return theme.PanelTitle.Render(fmt.Sprintf("Fortress Level: %d", level)) + "\n" +
		theme.Accent.Render(strings.TrimRight(strings.Repeat(block, max(level, 1)), " "))
}

func RenderEscapeRoom(theme Theme, room *cbt.EscapeRoom) string {
	var b strings.Builder
	for _, r := range room.Rooms() {
		mark := theme.Pending.Render("locked")
		if room.IsEscaped(r.Name) {
			mark = theme.Pass.Render("escaped!")
		}
		fmt.Fprintf(&b, "%-8s %s\n", r.Name, mark)
	}
	if esc := room.Escaped(); len(esc) > 0 {
		fmt.Fprintf(&b, "Inventory: %s\n", strings.Join(esc, ", "))
	}
	if room.Done() {
		b.WriteString(theme.Pass.Render("You've escaped all rooms and mastered your emotions!"))
	}
	return strings.TrimRight(b.String(), "\n")
}
