package wellness

import (
	"fmt"
	"time"
)

type Step struct {
	Instruction string `yaml:"instruction"`
	Seconds     int    `yaml:"seconds"`
}

func (c *Content) CycleLength() time.Duration {
	total := 0
	for _, s := range c.Meditation {
		total += s.Seconds
	}
	return time.Duration(total) * time.Second
}

// StepAt returns the step active after elapsed time. The script repeats
// until the session is stopped.
func (c *Content) StepAt(elapsed time.Duration) (int, Step) {
	cycle := c.CycleLength()
	if cycle <= 0 {
		return 0, Step{}
	}
	if elapsed < 0 {
		elapsed = 0
	}
	at := elapsed % cycle
	for i, s := range c.Meditation {
		d := time.Duration(s.Seconds) * time.Second
		if at < d {
			return i, s
		}
		at -= d
	}
	last := len(c.Meditation) - 1
	return last, c.Meditation[last]
}

// FormatDuration renders MM:SS, or HH:MM:SS once an hour has passed.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
