package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// drawPanel boxes body under a title, sized to its widest line. Lines may
// carry ANSI styling; widths are measured with lipgloss.
func drawPanel(theme Theme, title, body string, ascii bool) string {
	lines := strings.Split(body, "\n")
	innerW := lipgloss.Width(title) + 4
	for _, l := range lines {
		innerW = max(innerW, lipgloss.Width(l)+2)
	}

	h, v := "─", "│"
	tl, tr, bl, br := "┌", "┐", "└", "┘"
	if ascii {
		h, v = "-", "|"
		tl, tr, bl, br = "+", "+", "+", "+"
	}

	top := tl + strings.Repeat(h, innerW) + tr
	if title != "" {
		t := " " + title + " "
		top = theme.PanelBorder.Render(tl+h) +
			theme.PanelTitle.Render(t) +
			theme.PanelBorder.Render(strings.Repeat(h, innerW-1-lipgloss.Width(t))+tr)
	} else {
		top = theme.PanelBorder.Render(top)
	}

	out := make([]string, 0, len(lines)+2)
	out = append(out, top)
	for _, l := range lines {
		pad := innerW - 1 - lipgloss.Width(l)
		out = append(out, theme.PanelBorder.Render(v)+" "+theme.PanelBody.Render(l)+strings.Repeat(" ", pad)+theme.PanelBorder.Render(v))
	}
	out = append(out, theme.PanelBorder.Render(bl+strings.Repeat(h, innerW)+br))
	return strings.Join(out, "\n")
}
