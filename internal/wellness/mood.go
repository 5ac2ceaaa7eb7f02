package wellness

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type Mood int

const (
	MoodBad Mood = iota
	MoodOkay
	MoodGood
)

var Moods = []Mood{MoodBad, MoodOkay, MoodGood}

var Days = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func (m Mood) String() string {
	switch m {
	case MoodBad:
		return "Bad"
	case MoodOkay:
		return "Okay"
	case MoodGood:
		return "Good"
	default:
		return "Unknown"
	}
}

func (m Mood) Valid() bool { return m >= MoodBad && m <= MoodGood }

func ParseMood(raw string) (Mood, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "bad", "0":
		return MoodBad, true
	case "okay", "ok", "1":
		return MoodOkay, true
	case "good", "2":
		return MoodGood, true
	default:
		return 0, false
	}
}

// ParseDay accepts day names ("mon", "Monday") and indices 0 (Sunday) to 6.
func ParseDay(raw string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if n, err := strconv.Atoi(s); err == nil {
		return n, n >= 0 && n < len(Days)
	}
	if len(s) < 3 {
		return 0, false
	}
	for i, d := range Days {
		if strings.HasPrefix(s, strings.ToLower(d)) {
			return i, true
		}
	}
	return 0, false
}

// Week holds at most one mood per weekday, Sunday first.
type Week struct {
	moods [7]Mood
	set   [7]bool
}

func WeekFromMap(m map[int]int) Week {
	var w Week
	for day, mood := range m {
		_ = w.Set(day, Mood(mood))
	}
	return w
}

func (w *Week) Set(day int, m Mood) error {
	if day < 0 || day >= len(Days) {
		return fmt.Errorf("day %d out of range", day)
	}
	if !m.Valid() {
		return fmt.Errorf("unknown mood %d", m)
	}
	w.moods[day] = m
	w.set[day] = true
	return nil
}

func (w Week) Get(day int) (Mood, bool) {
	if day < 0 || day >= len(Days) || !w.set[day] {
		return 0, false
	}
	return w.moods[day], true
}

type Summary struct {
	Counts   [3]int
	Recorded int
	Dominant Mood
	// HasDominant is false for an empty week.
	HasDominant bool
}

// Summary counts the week's moods. Ties for the dominant mood favour the
// more positive one.
func (w Week) Summary() Summary {
	var s Summary
	for day := range Days {
		if m, ok := w.Get(day); ok {
			s.Counts[m]++
			s.Recorded++
		}
	}
	best := -1
	for i := len(Moods) - 1; i >= 0; i-- {
		if s.Counts[i] > best && s.Counts[i] > 0 {
			best = s.Counts[i]
			s.Dominant = Moods[i]
			s.HasDominant = true
		}
	}
	return s
}

// Percent is the share of the whole week spent in m, rounded.
func (s Summary) Percent(m Mood) int {
	if !m.Valid() {
		return 0
	}
	return int(math.Round(float64(s.Counts[m]) / float64(len(Days)) * 100))
}

// WeekStart returns midnight of the Sunday starting now's week, in now's location.
func WeekStart(now time.Time) time.Time {
	y, mo, d := now.Date()
	day := time.Date(y, mo, d, 0, 0, 0, 0, now.Location())
	return day.AddDate(0, 0, -int(now.Weekday()))
}

// ShouldReset reports whether the stored week belongs to an earlier week than now.
func ShouldReset(lastReset, now time.Time) bool {
	return lastReset.Before(WeekStart(now))
}
