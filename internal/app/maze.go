package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"guardmind/internal/maze"
	"guardmind/internal/state"
	"guardmind/internal/ui"
)

// NewMazeGame returns a fresh game over the builtin pack.
func (a *App) NewMazeGame() *maze.Game {
	return maze.New(a.catalog, a.challenges, maze.WithSelectionMode(a.mode))
}

// MazeScreen prepares the maze screen and the recorder that persists its runs.
func (a *App) MazeScreen(ctx context.Context) (*ui.MazeModel, *MazeRecorder, error) {
	s, err := a.RequireLogin()
	if err != nil {
		return nil, nil, err
	}
	rec := &MazeRecorder{app: a, ctx: ctx, username: s.Username}
	return ui.NewMaze(a.NewMazeGame(), rec, a.UIOptions()), rec, nil
}

// PlayMaze runs the maze screen until the player quits.
func (a *App) PlayMaze(ctx context.Context) error {
	model, rec, err := a.MazeScreen(ctx)
	if err != nil {
		return err
	}
	if err := ui.RunMaze(model); err != nil {
		return err
	}
	return rec.Err()
}

// MazeRecorder stores maze runs and per-level progress as the player moves
// through the game. A run opens when the player leaves the instruction screen
// and closes on completion, restart or quit.
type MazeRecorder struct {
	app      *App
	ctx      context.Context
	username string

	runID     int64
	sessionID string
	started   time.Time
	level     int
	errs      []error
}

func (r *MazeRecorder) OnStart(snap maze.Snapshot) {
	if r.runID != 0 {
		return
	}
	r.sessionID = uuid.NewString()
	r.started = r.app.now()
	id, err := r.app.store.StartMazeRun(r.ctx, state.MazeRun{
		SessionID:     r.sessionID,
		PackID:        r.app.pack.PackID,
		Username:      r.username,
		ChallengeMode: r.app.cfg.ChallengeMode,
		StartTS:       r.started,
	})
	if err != nil {
		r.fail("maze.run.start_failed", err)
		return
	}
	r.runID = id
	r.level = snap.Level.Number
	r.app.logger.Info("maze.run.start", map[string]any{"session": r.sessionID, "level": r.level})
}

func (r *MazeRecorder) OnChallengeAnswered(out maze.ChallengeOutcome, snap maze.Snapshot) {
	r.app.logger.Debug("maze.challenge.answered", map[string]any{
		"session": r.sessionID,
		"correct": out.Correct,
		"tool":    out.ToolCollected,
		"score":   snap.Score,
	})
}

func (r *MazeRecorder) OnLevelAdvanced(snap maze.Snapshot) {
	r.clearLevel(r.level, snap.Score)
	r.level = snap.Level.Number
	r.app.logger.Info("maze.level.advanced", map[string]any{"session": r.sessionID, "level": r.level, "score": snap.Score})
}

func (r *MazeRecorder) OnComplete(snap maze.Snapshot) {
	r.clearLevel(snap.Level.Number, snap.Score)
	r.finish(snap, true, 0)
}

func (r *MazeRecorder) OnRestart(before maze.Snapshot) {
	if before.Phase == maze.PhaseComplete || r.runID == 0 {
		return
	}
	r.touchLevel(before.Score)
	r.finish(before, false, 1)
}

func (r *MazeRecorder) OnQuit(snap maze.Snapshot) {
	if r.runID == 0 {
		return
	}
	r.touchLevel(snap.Score)
	r.finish(snap, false, 0)
}

// Err joins every persistence error seen during the session.
func (r *MazeRecorder) Err() error { return errors.Join(r.errs...) }

// RunID is the open run, or 0 between runs.
func (r *MazeRecorder) RunID() int64 { return r.runID }

func (r *MazeRecorder) clearLevel(level, score int) {
	if err := r.app.store.UpsertMazeLevel(r.ctx, state.MazeLevelUpdate{
		Level:        level,
		Cleared:      true,
		Score:        score,
		LastPlayedTS: r.app.now(),
	}); err != nil {
		r.fail("maze.level.save_failed", err)
	}
}

func (r *MazeRecorder) touchLevel(score int) {
	if err := r.app.store.UpsertMazeLevel(r.ctx, state.MazeLevelUpdate{
		Level:        r.level,
		Score:        score,
		LastPlayedTS: r.app.now(),
	}); err != nil {
		r.fail("maze.level.save_failed", err)
	}
}

func (r *MazeRecorder) finish(snap maze.Snapshot, completed bool, restarts int) {
	if r.runID == 0 {
		return
	}
	err := r.app.store.FinishMazeRun(r.ctx, r.runID, state.MazeResult{
		Score:      snap.Score,
		Level:      snap.Level.Number,
		Tools:      snap.Tools,
		Completed:  completed,
		Restarts:   restarts,
		FinishedTS: r.app.now(),
	})
	if err != nil {
		r.fail("maze.run.finish_failed", err)
	}
	r.app.logger.Info("maze.run.finish", map[string]any{
		"session":   r.sessionID,
		"score":     snap.Score,
		"level":     snap.Level.Number,
		"completed": completed,
		"restarted": restarts > 0,
		"elapsed":   r.app.now().Sub(r.started).Round(time.Second).String(),
	})
	r.runID = 0
	r.sessionID = ""
}

func (r *MazeRecorder) fail(event string, err error) {
	r.errs = append(r.errs, err)
	r.app.logger.Error(event, map[string]any{"session": r.sessionID, "error": err.Error()})
}
