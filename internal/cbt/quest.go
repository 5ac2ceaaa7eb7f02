package cbt

// Quest is Resilience Quest: each right answer raises the fortress one
// level; wrong answers leave it alone. Either way the challenge closes.
type Quest struct {
	challenges []Question
	level      int
	next       int
	active     int
}

type QuestOutcome struct {
	Answered bool
	Correct  bool
	Level    int
}

// NewQuest resumes at level, which is raised to 1 when lower.
func NewQuest(challenges []Question, level int) *Quest {
	return &Quest{challenges: challenges, level: max(level, 1), active: -1}
}

func (q *Quest) Level() int { return q.level }

// Challenge opens the next challenge, cycling through the list. An open
// challenge is returned unchanged.
func (q *Quest) Challenge() (Question, bool) {
	if len(q.challenges) == 0 {
		return Question{}, false
	}
	if q.active < 0 {
		q.active = q.next
		q.next = (q.next + 1) % len(q.challenges)
	}
	return q.challenges[q.active], true
}

func (q *Quest) Active() (Question, bool) {
	if q.active < 0 {
		return Question{}, false
	}
	return q.challenges[q.active], true
}

// Answer is a no-op without an open challenge or for an out-of-range option.
func (q *Quest) Answer(option int) QuestOutcome {
	c, ok := q.Active()
	if !ok || option < 0 || option >= len(c.Options) {
		return QuestOutcome{Level: q.level}
	}
	q.active = -1
	out := QuestOutcome{Answered: true, Correct: c.accepts(option)}
	if out.Correct {
		q.level++
	}
	out.Level = q.level
	return out
}
