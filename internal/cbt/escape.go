package cbt

import "slices"

// EscapeRoom is Emotion Escape Room. A room is escaped by solving its
// puzzle; wrong answers keep the puzzle open for another try.
type EscapeRoom struct {
	rooms   []Room
	current int
	escaped []string
}

type EscapeOutcome struct {
	Answered bool
	Correct  bool
	Room     string
	Done     bool
}

func NewEscapeRoom(rooms []Room) *EscapeRoom {
	return &EscapeRoom{rooms: rooms, current: -1}
}

func (e *EscapeRoom) Rooms() []Room { return append([]Room(nil), e.rooms...) }

// Escaped lists solved rooms in the order they were solved.
func (e *EscapeRoom) Escaped() []string { return append([]string(nil), e.escaped...) }

func (e *EscapeRoom) Done() bool { return len(e.rooms) > 0 && len(e.escaped) == len(e.rooms) }

func (e *EscapeRoom) IsEscaped(name string) bool { return slices.Contains(e.escaped, name) }

// Enter opens a room's puzzle. Unknown and already escaped rooms are refused.
func (e *EscapeRoom) Enter(name string) (Room, bool) {
	if e.IsEscaped(name) {
		return Room{}, false
	}
	for i, r := range e.rooms {
		if r.Name == name {
			e.current = i
			return r, true
		}
	}
	return Room{}, false
}

func (e *EscapeRoom) Current() (Room, bool) {
	if e.current < 0 {
		return Room{}, false
	}
	return e.rooms[e.current], true
}

func (e *EscapeRoom) Solve(option int) EscapeOutcome {
	r, ok := e.Current()
	if !ok || option < 0 || option >= len(r.Options) {
		return EscapeOutcome{Done: e.Done()}
	}
	out := EscapeOutcome{Answered: true, Room: r.Name}
	if r.accepts(option) {
		out.Correct = true
		e.escaped = append(e.escaped, r.Name)
		e.current = -1
	}
	out.Done = e.Done()
	return out
}
