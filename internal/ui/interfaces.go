package ui

import "guardmind/internal/maze"

// Engine is the part of the maze game the screen drives.
type Engine interface {
	Start() bool
	Move(d maze.Direction) maze.MoveOutcome
	Answer(index int) maze.ChallengeOutcome
	Restart()
	Snapshot() maze.Snapshot
}

// Controller receives game events for persistence and logging. Calls happen
// on the UI goroutine and must not block for long.
type Controller interface {
	OnStart(snap maze.Snapshot)
	OnChallengeAnswered(out maze.ChallengeOutcome, snap maze.Snapshot)
	OnLevelAdvanced(snap maze.Snapshot)
	OnComplete(snap maze.Snapshot)
	OnRestart(before maze.Snapshot)
	OnQuit(snap maze.Snapshot)
}

type LayoutMode int

const (
	LayoutWide LayoutMode = iota
	LayoutMedium
	LayoutTooSmall
)

type Options struct {
	ASCIIOnly    bool
	StyleVariant string
	// MotionLevel is "full", "reduced" or "off".
	MotionLevel string
}
