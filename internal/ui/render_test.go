package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"guardmind/internal/api"
	"guardmind/internal/assessment"
	"guardmind/internal/state"
	"guardmind/internal/wellness"
)

func TestMarkdownPlainStyle(t *testing.T) {
	out, err := Markdown("# Crisis Support\n\nCall **988** now.", 60, "notty")
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if !strings.Contains(out, "Crisis Support") || !strings.Contains(out, "988") {
		t.Fatalf("unexpected markdown output %q", out)
	}
}

func TestRenderAssessment(t *testing.T) {
	eng, err := assessment.NewEngine()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	res := eng.Score(assessment.Anxiety, assessment.Answers{0: 3, 1: 3})
	out := RenderAssessment(DefaultTheme(), res)
	if !strings.Contains(out, "Mild Anxiety") || !strings.Contains(out, "6/21") || !strings.Contains(out, assessment.Disclaimer) {
		t.Fatalf("unexpected assessment render:\n%s", out)
	}

	missing := RenderAssessment(DefaultTheme(), eng.ScoreTitle("Sleep Test", nil))
	if !strings.Contains(missing, assessment.NotFoundMessage) {
		t.Fatalf("expected not-found message, got %q", missing)
	}
}

func TestRenderMoodWeek(t *testing.T) {
	week := wellness.WeekFromMap(map[int]int{0: int(wellness.MoodGood), 1: int(wellness.MoodGood), 2: int(wellness.MoodBad)})
	out := RenderMoodWeek(DefaultTheme(), week)
	for _, want := range []string{"Sun", "Sat", "Good", "29%", "Mostly Good"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	empty := RenderMoodWeek(DefaultTheme(), wellness.Week{})
	if !strings.Contains(empty, "No moods recorded") {
		t.Fatalf("expected empty week note")
	}
}

func TestSparkline(t *testing.T) {
	if got := sparkline([]float64{1, 5, 9}); got != "▁▄█" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := sparkline([]float64{3, 3}); got != "▁▁" {
		t.Fatalf("flat series should stay at the floor, got %q", got)
	}
	if sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestRenderDashboard(t *testing.T) {
	d := api.Dashboard{
		CurrentMetrics: api.Metrics{
			HealthScore:             72,
			PsychologicalDimensions: api.Dimensions{EmotionalStability: 60, StressResilience: 140},
		},
		HistoricalData:  []api.MoodPoint{{Date: "2026-04-01", Mood: 3}, {Date: "2026-04-02", Mood: 7}},
		SleepData:       []api.SeriesPoint{{Label: "Mon", Value: 6.5}},
		Insights:        api.Insights{Triggers: []string{"Deadlines"}},
		Recommendations: []api.Insight{{Title: "Walk", Description: "Ten minutes outside."}},
	}
	out := RenderDashboard(DefaultTheme(), d)
	for _, want := range []string{"72/100", "Emotional stability", "latest 6.5", "Stress    no data", "Deadlines", "Walk: Ten minutes outside."} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestRenderHistory(t *testing.T) {
	now := time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)
	out := RenderHistory(DefaultTheme(), History{
		Maze: state.MazeSummary{Runs: 1200, Completions: 3, BestScore: 430},
		LastRun: &state.LastMazeRun{
			Score:      430,
			Completed:  true,
			StartTS:    now.Add(-3 * time.Hour),
			FinishedTS: now.Add(-2 * time.Hour),
		},
		Assessments: []state.AssessmentRecord{{Title: "Depression Test", Total: 22, Max: 27, Band: "Severe Depression", TakenTS: now.Add(-48 * time.Hour)}},
		Meditation:  95 * time.Second,
	}, now)
	for _, want := range []string{"Runs 1,200", "2 hours ago", "completed with 430 points", "Severe Depression", "22/27", "2 days ago", "01:35"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestRenderPosts(t *testing.T) {
	now := time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)
	out := RenderPosts(DefaultTheme(), []api.Post{{
		ID:       "p1",
		Content:  "Small wins count.",
		Username: "sam",
		Date:     "2026-05-10T11:00:00",
		IsOwner:  true,
		Replies:  []api.Reply{{ID: "r1", Content: "They do!", Username: "kai", Date: "not a date"}},
	}}, now)
	for _, want := range []string{"sam", "1 hour ago", "#p1", "(you)", "They do!", "not a date"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if !strings.Contains(RenderPosts(DefaultTheme(), nil, now), "No posts yet") {
		t.Fatalf("expected empty feed message")
	}
}

func TestRenderChat(t *testing.T) {
	out := RenderChat(DefaultTheme(), []api.ChatMessage{{Text: "hi", Sender: "user"}, {Text: "hello", Sender: "bot"}})
	if !strings.Contains(out, "you: hi") || !strings.Contains(out, "guardian: hello") {
		t.Fatalf("unexpected chat render %q", out)
	}
}

func TestMeditationTimerCountsOnlyWhileRunning(t *testing.T) {
	content, err := wellness.LoadContent()
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	m := NewMeditation(content, Options{ASCIIOnly: true})
	clock := time.Date(2026, time.May, 10, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}); cmd == nil || !m.Running() {
		t.Fatalf("expected timer to start")
	}
	clock = clock.Add(5 * time.Second)
	_, _ = m.Update(meditationTickMsg(clock))
	if m.Elapsed() != 5*time.Second {
		t.Fatalf("expected 5s elapsed, got %v", m.Elapsed())
	}
	if !strings.Contains(m.View(), "00:05") {
		t.Fatalf("expected clock in view:\n%s", m.View())
	}

	clock = clock.Add(3 * time.Second)
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if m.Running() || m.Elapsed() != 8*time.Second {
		t.Fatalf("expected pause at 8s, got running=%v elapsed=%v", m.Running(), m.Elapsed())
	}
	clock = clock.Add(time.Minute)
	_, _ = m.Update(meditationTickMsg(clock))
	if m.Elapsed() != 8*time.Second {
		t.Fatalf("paused timer must not advance, got %v", m.Elapsed())
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Fatalf("expected quit command")
	}
	if m.Elapsed() != 8*time.Second {
		t.Fatalf("quit while paused must keep elapsed, got %v", m.Elapsed())
	}
}
