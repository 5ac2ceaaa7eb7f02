package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"guardmind/internal/api"
	"guardmind/internal/assessment"
	"guardmind/internal/state"
	"guardmind/internal/wellness"
)

// Markdown renders md for the terminal. Style is a glamour standard style
// name; "notty" gives plain output for pipes and tests.
func Markdown(md string, width int, style string) (string, error) {
	if style == "" {
		style = "dark"
	}
	if width <= 0 {
		width = 78
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

func bandStyle(theme Theme, band string) lipgloss.Style {
	b := strings.ToLower(band)
	switch {
	case strings.HasPrefix(b, "no "):
		return theme.Pass
	case strings.HasPrefix(b, "severe"), strings.HasPrefix(b, "moderately severe"):
		return theme.Fail
	default:
		return theme.Pending
	}
}

func RenderAssessment(theme Theme, res assessment.Result) string {
	if !res.Found {
		return theme.Fail.Render(res.Message)
	}
	head := fmt.Sprintf("%s  %s  %d/%d",
		theme.Accent.Render(res.Title),
		bandStyle(theme, res.Band).Render(res.Band),
		res.Total, res.Max)
	lines := strings.Split(strings.TrimRight(res.Message, "\n"), "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}
	body := make([]string, 0, len(lines))
	for i, l := range lines {
		if i == len(lines)-1 && l == assessment.Disclaimer {
			body = append(body, theme.Muted.Render(l))
			continue
		}
		body = append(body, l)
	}
	return head + "\n\n" + strings.Join(body, "\n")
}

func RenderMoodWeek(theme Theme, week wellness.Week) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(theme.PanelBorder).
		Headers("Day", "Mood")
	for day, name := range wellness.Days {
		mood := theme.Muted.Render("-")
		if m, ok := week.Get(day); ok {
			mood = moodStyle(theme, m).Render(m.String())
		}
		t.Row(name, mood)
	}

	sum := week.Summary()
	lines := []string{t.String(), ""}
	for _, m := range wellness.Moods {
		lines = append(lines, fmt.Sprintf("%-5s %3d%%", m.String(), sum.Percent(m)))
	}
	if sum.HasDominant {
		lines = append(lines, "", "Mostly "+moodStyle(theme, sum.Dominant).Render(sum.Dominant.String())+" this week.")
	} else {
		lines = append(lines, "", theme.Muted.Render("No moods recorded this week."))
	}
	return strings.Join(lines, "\n")
}

func moodStyle(theme Theme, m wellness.Mood) lipgloss.Style {
	switch m {
	case wellness.MoodGood:
		return theme.Pass
	case wellness.MoodBad:
		return theme.Fail
	default:
		return theme.Pending
	}
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// sparkline scales values between their min and max.
func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	var b strings.Builder
	for _, v := range values {
		i := 0
		if hi > lo {
			i = int((v - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[i])
	}
	return b.String()
}

func RenderDashboard(theme Theme, d api.Dashboard) string {
	bar := progress.New(progress.WithGradient(theme.BarFrom, theme.BarTo), progress.WithWidth(24))
	dims := d.CurrentMetrics.PsychologicalDimensions

	lines := []string{
		theme.Accent.Render("Health score") + fmt.Sprintf("  %.0f/100", d.CurrentMetrics.HealthScore),
		bar.ViewAs(clampUnit(d.CurrentMetrics.HealthScore / 100)),
		"",
		theme.PanelTitle.Render("Psychological dimensions"),
	}
	for _, dim := range []struct {
		name  string
		value float64
	}{
		{"Emotional stability", dims.EmotionalStability},
		{"Social engagement", dims.SocialEngagement},
		{"Cognitive flexibility", dims.CognitiveFlexibility},
		{"Stress resilience", dims.StressResilience},
	} {
		lines = append(lines, fmt.Sprintf("%-22s %s %3.0f", dim.name, bar.ViewAs(clampUnit(dim.value/100)), dim.value))
	}

	moods := make([]float64, 0, len(d.HistoricalData))
	for _, p := range d.HistoricalData {
		moods = append(moods, p.Mood)
	}
	lines = append(lines, "", theme.PanelTitle.Render("Trends"))
	lines = append(lines, seriesLine("Mood", moods))
	for _, s := range []struct {
		name   string
		points []api.SeriesPoint
	}{
		{"Sleep", d.SleepData},
		{"Stress", d.StressData},
		{"Activity", d.ActivityData},
	} {
		vals := make([]float64, 0, len(s.points))
		for _, p := range s.points {
			vals = append(vals, p.Value)
		}
		lines = append(lines, seriesLine(s.name, vals))
	}

	if len(d.Insights.Triggers) > 0 {
		lines = append(lines, "", theme.PanelTitle.Render("Triggers"), bullets(d.Insights.Triggers))
	}
	if len(d.Insights.CopingMechanisms) > 0 {
		lines = append(lines, "", theme.PanelTitle.Render("Coping mechanisms"), bullets(d.Insights.CopingMechanisms))
	}
	for _, group := range []struct {
		title string
		items []api.Insight
	}{
		{"Recommendations", d.Recommendations},
		{"AI insights", d.AIInsights},
	} {
		if len(group.items) == 0 {
			continue
		}
		lines = append(lines, "", theme.PanelTitle.Render(group.title))
		for _, in := range group.items {
			lines = append(lines, "• "+theme.Accent.Render(in.Title)+": "+in.Description)
		}
	}
	return strings.Join(lines, "\n")
}

func seriesLine(name string, vals []float64) string {
	if len(vals) == 0 {
		return fmt.Sprintf("%-9s no data", name)
	}
	return fmt.Sprintf("%-9s %s  latest %.1f", name, sparkline(vals), vals[len(vals)-1])
}

func bullets(items []string) string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, "• "+it)
	}
	return strings.Join(out, "\n")
}

func clampUnit(v float64) float64 {
	return min(1, max(0, v))
}

// History is the locally recorded progress shown by the history screen.
type History struct {
	Maze        state.MazeSummary
	LastRun     *state.LastMazeRun
	Assessments []state.AssessmentRecord
	Meditation  time.Duration
}

func RenderHistory(theme Theme, h History, now time.Time) string {
	lines := []string{
		theme.PanelTitle.Render("Mind Maze"),
		fmt.Sprintf("Runs %s  completions %s  best score %s  restarts %s",
			humanize.Comma(int64(h.Maze.Runs)),
			humanize.Comma(int64(h.Maze.Completions)),
			humanize.Comma(int64(h.Maze.BestScore)),
			humanize.Comma(int64(h.Maze.Restarts))),
	}
	if r := h.LastRun; r != nil {
		when := r.StartTS
		if !r.FinishedTS.IsZero() {
			when = r.FinishedTS
		}
		outcome := fmt.Sprintf("reached level %d", r.Level)
		if r.Completed {
			outcome = "completed"
		}
		lines = append(lines, theme.Muted.Render(fmt.Sprintf("Last run %s: %s with %d points",
			humanize.RelTime(when, now, "ago", "from now"), outcome, r.Score)))
	}

	lines = append(lines, "", theme.PanelTitle.Render("Assessments"))
	if len(h.Assessments) == 0 {
		lines = append(lines, theme.Muted.Render("No assessments taken yet."))
	}
	for _, a := range h.Assessments {
		lines = append(lines, fmt.Sprintf("%-16s %s %2d/%-2d  %s",
			a.Title,
			bandStyle(theme, a.Band).Render(a.Band),
			a.Total, a.Max,
			theme.Muted.Render(humanize.RelTime(a.TakenTS, now, "ago", "from now"))))
	}

	lines = append(lines, "", theme.PanelTitle.Render("Meditation"),
		"Total time "+wellness.FormatDuration(h.Meditation))
	return strings.Join(lines, "\n")
}

func relDate(raw string, now time.Time) string {
	t, ok := api.ParseTime(raw)
	if !ok {
		return raw
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func RenderJournal(theme Theme, entries []api.JournalEntry, now time.Time) string {
	if len(entries) == 0 {
		return theme.Muted.Render("Your journal is empty.")
	}
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, theme.Muted.Render(fmt.Sprintf("#%s  %s", e.ID, relDate(e.Date, now)))+"\n"+e.Content)
	}
	return strings.Join(blocks, "\n\n")
}

func RenderPosts(theme Theme, posts []api.Post, now time.Time) string {
	if len(posts) == 0 {
		return theme.Muted.Render("No posts yet. Be the first to share.")
	}
	blocks := make([]string, 0, len(posts))
	for _, p := range posts {
		head := theme.Accent.Render(p.Username) + theme.Muted.Render(fmt.Sprintf("  %s  #%s", relDate(p.Date, now), p.ID))
		if p.IsOwner {
			head += " " + theme.Info.Render("(you)")
		}
		lines := []string{head, p.Content}
		for _, r := range p.Replies {
			lines = append(lines, "  ↳ "+theme.Accent.Render(r.Username)+theme.Muted.Render("  "+relDate(r.Date, now)), "    "+r.Content)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func RenderChat(theme Theme, msgs []api.ChatMessage) string {
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		switch strings.ToLower(m.Sender) {
		case "user":
			lines = append(lines, theme.Accent.Render("you: ")+m.Text)
		default:
			lines = append(lines, theme.Info.Render("guardian: ")+m.Text)
		}
	}
	return strings.Join(lines, "\n")
}

func RenderChatHistory(theme Theme, chats []api.ChatSummary, now time.Time) string {
	if len(chats) == 0 {
		return theme.Muted.Render("No conversations yet.")
	}
	lines := make([]string, 0, len(chats))
	for _, c := range chats {
		lines = append(lines, fmt.Sprintf("#%s  %s", c.ID, theme.Muted.Render(relDate(c.CreatedAt, now))))
	}
	return strings.Join(lines, "\n")
}
