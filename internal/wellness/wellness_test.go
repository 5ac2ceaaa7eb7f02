package wellness

import (
	"strings"
	"testing"
	"time"
)

func loadContent(t *testing.T) *Content {
	t.Helper()
	c, err := LoadContent()
	if err != nil {
		t.Fatalf("load content: %v", err)
	}
	return c
}

func TestBuiltinContent(t *testing.T) {
	c := loadContent(t)
	if len(c.Meditation) != 7 || len(c.Resources) != 6 || len(c.Helplines) != 5 || len(c.EmergencySteps) != 5 {
		t.Fatalf("unexpected content sizes: %d %d %d %d", len(c.Meditation), len(c.Resources), len(c.Helplines), len(c.EmergencySteps))
	}
	if c.CycleLength() != 90*time.Second {
		t.Fatalf("unexpected cycle %v", c.CycleLength())
	}
}

func TestStepAtCycles(t *testing.T) {
	c := loadContent(t)
	cases := []struct {
		elapsed time.Duration
		index   int
	}{
		{0, 0},
		{9 * time.Second, 0},
		{10 * time.Second, 1},
		{19 * time.Second, 2},
		{20 * time.Second, 3},
		{89 * time.Second, 6},
		{90 * time.Second, 0},
		{100 * time.Second, 1},
		{-time.Second, 0},
	}
	for _, tc := range cases {
		if got, _ := c.StepAt(tc.elapsed); got != tc.index {
			t.Fatalf("elapsed %v: expected step %d, got %d", tc.elapsed, tc.index, got)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{65 * time.Second, "01:05"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{-5 * time.Second, "00:00"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.d); got != tc.want {
			t.Fatalf("%v: expected %q, got %q", tc.d, tc.want, got)
		}
	}
}

func TestFilterResources(t *testing.T) {
	c := loadContent(t)
	if got := c.Filter(KindAll, ""); len(got) != 6 {
		t.Fatalf("expected all resources, got %d", len(got))
	}
	videos := c.Filter(KindVideo, "")
	if len(videos) != 3 {
		t.Fatalf("expected 3 videos, got %d", len(videos))
	}
	got := c.Filter(KindArticle, "  MENTAL health ")
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 5 {
		t.Fatalf("unexpected search result %#v", got)
	}
	if got := c.Filter(KindVideo, "sleep"); len(got) != 0 {
		t.Fatalf("expected no results, got %#v", got)
	}
	md := ResourcesMarkdown(c.Filter(KindVideo, "stress"))
	if !strings.Contains(md, "Stress Management Strategies") || !strings.Contains(md, "(https://www.youtube.com/watch?v=0fL-pn80s-c)") {
		t.Fatalf("unexpected markdown %q", md)
	}
}

func TestCrisisMarkdown(t *testing.T) {
	md := loadContent(t).CrisisMarkdown()
	for _, want := range []string{"Samaritans", "`116 123`", "5. Listen without judgment and offer reassurance"} {
		if !strings.Contains(md, want) {
			t.Fatalf("crisis markdown missing %q", want)
		}
	}
}

func TestWeekSummary(t *testing.T) {
	var w Week
	if err := w.Set(7, MoodGood); err == nil {
		t.Fatalf("expected day range error")
	}
	if err := w.Set(1, Mood(9)); err == nil {
		t.Fatalf("expected mood error")
	}
	if s := w.Summary(); s.HasDominant || s.Recorded != 0 {
		t.Fatalf("empty week should have no dominant mood: %#v", s)
	}
	_ = w.Set(0, MoodBad)
	_ = w.Set(1, MoodGood)
	_ = w.Set(2, MoodGood)
	_ = w.Set(2, MoodOkay)
	s := w.Summary()
	if s.Recorded != 3 || s.Counts[MoodBad] != 1 || s.Counts[MoodOkay] != 1 || s.Counts[MoodGood] != 1 {
		t.Fatalf("unexpected counts %#v", s)
	}
	if s.Dominant != MoodGood {
		t.Fatalf("ties should favour the positive mood, got %s", s.Dominant)
	}
	if s.Percent(MoodGood) != 14 {
		t.Fatalf("unexpected percent %d", s.Percent(MoodGood))
	}

	round := WeekFromMap(map[int]int{3: 0, 4: 0, 9: 2})
	if s := round.Summary(); s.Recorded != 2 || s.Dominant != MoodBad {
		t.Fatalf("unexpected summary from map %#v", s)
	}
}

func TestParseDayAndMood(t *testing.T) {
	for raw, want := range map[string]int{"sun": 0, "Monday": 1, "6": 6, " sat ": 6} {
		got, ok := ParseDay(raw)
		if !ok || got != want {
			t.Fatalf("%q: got %d ok=%v", raw, got, ok)
		}
	}
	for _, bad := range []string{"7", "mo", "funday"} {
		if _, ok := ParseDay(bad); ok {
			t.Fatalf("%q should not parse", bad)
		}
	}
	if m, ok := ParseMood("OK"); !ok || m != MoodOkay {
		t.Fatalf("unexpected mood %v", m)
	}
}

func TestShouldReset(t *testing.T) {
	wed := time.Date(2026, time.May, 6, 15, 0, 0, 0, time.UTC)
	if got := WeekStart(wed); !got.Equal(time.Date(2026, time.May, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected week start %v", got)
	}
	if ShouldReset(time.Date(2026, time.May, 4, 9, 0, 0, 0, time.UTC), wed) {
		t.Fatalf("same week should not reset")
	}
	if !ShouldReset(time.Date(2026, time.May, 2, 23, 0, 0, 0, time.UTC), wed) {
		t.Fatalf("previous week should reset")
	}
	if !ShouldReset(time.Time{}, wed) {
		t.Fatalf("never reset should reset")
	}
}
