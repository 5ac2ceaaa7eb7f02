package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS maze_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			pack_id TEXT NOT NULL,
			username TEXT NOT NULL DEFAULT '',
			start_ts TEXT NOT NULL,
			finished_ts TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			tools TEXT NOT NULL DEFAULT '',
			completed INTEGER NOT NULL DEFAULT 0,
			restarts INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS maze_levels (
			level INTEGER PRIMARY KEY,
			cleared_count INTEGER NOT NULL DEFAULT 0,
			best_score INTEGER NOT NULL DEFAULT 0,
			last_played_ts TEXT NOT NULL DEFAULT '',
			last_clear_ts TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS assessment_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			test_id TEXT NOT NULL,
			title TEXT NOT NULL,
			total INTEGER NOT NULL,
			max_total INTEGER NOT NULL,
			band TEXT NOT NULL,
			taken_ts TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS mood_week (
			day INTEGER PRIMARY KEY CHECK(day BETWEEN 0 AND 6),
			mood INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS meditation_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seconds INTEGER NOT NULL,
			recorded_ts TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS garden_plants (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			flower TEXT NOT NULL,
			activity TEXT NOT NULL,
			planted_ts TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	// Backfill databases created before maze_runs.challenge_mode existed.
	if _, err := s.db.ExecContext(ctx, `ALTER TABLE maze_runs ADD COLUMN challenge_mode TEXT NOT NULL DEFAULT 'by_tool'`); err != nil {
		msg := strings.ToLower(err.Error())
		if !strings.Contains(msg, "duplicate column name") {
			return fmt.Errorf("ensure schema alter maze_runs.challenge_mode: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) SavePreferences(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for key, value := range values {
		k := strings.TrimSpace(key)
		if k == "" {
			continue
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO preferences(key, value) VALUES(?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, k, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadPreferences(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) GetPreference(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, strings.TrimSpace(key)).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *SQLiteStore) DeletePreferences(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, strings.TrimSpace(k)); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) StartMazeRun(ctx context.Context, run MazeRun) (int64, error) {
	start := run.StartTS
	if start.IsZero() {
		start = time.Now()
	}
	mode := strings.TrimSpace(run.ChallengeMode)
	if mode == "" {
		mode = "by_tool"
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO maze_runs(session_id, pack_id, username, challenge_mode, start_ts) VALUES(?,?,?,?,?)`,
		run.SessionID,
		run.PackID,
		run.Username,
		mode,
		start.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// FinishMazeRun records the latest state of a run. It may be called more than
// once; restarts accumulate.
func (s *SQLiteStore) FinishMazeRun(ctx context.Context, runID int64, result MazeResult) error {
	finished := result.FinishedTS
	if finished.IsZero() {
		finished = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE maze_runs SET
			finished_ts = ?,
			score = ?,
			level = ?,
			tools = ?,
			completed = ?,
			restarts = restarts + ?
		WHERE id = ?
	`,
		finished.UTC().Format(timeLayout),
		max(0, result.Score),
		max(1, result.Level),
		strings.Join(result.Tools, toolSep),
		ifThen(result.Completed, 1, 0),
		max(0, result.Restarts),
		runID,
	)
	return err
}

func (s *SQLiteStore) UpsertMazeLevel(ctx context.Context, update MazeLevelUpdate) error {
	if update.Level < 1 {
		return nil
	}
	playTS := update.LastPlayedTS
	if playTS.IsZero() {
		playTS = time.Now().UTC()
	}
	clearTS := ""
	if update.Cleared {
		clearTS = playTS.UTC().Format(timeLayout)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO maze_levels(level, cleared_count, best_score, last_played_ts, last_clear_ts)
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(level) DO UPDATE SET
			cleared_count = maze_levels.cleared_count + excluded.cleared_count,
			best_score = CASE
				WHEN excluded.best_score > maze_levels.best_score THEN excluded.best_score
				ELSE maze_levels.best_score
			END,
			last_played_ts = excluded.last_played_ts,
			last_clear_ts = CASE
				WHEN excluded.last_clear_ts <> '' THEN excluded.last_clear_ts
				ELSE maze_levels.last_clear_ts
			END
	`,
		update.Level,
		ifThen(update.Cleared, 1, 0),
		max(0, update.Score),
		playTS.UTC().Format(timeLayout),
		clearTS,
	)
	return err
}

func (s *SQLiteStore) GetMazeLevelMap(ctx context.Context) (map[int]MazeLevelProgress, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT level, cleared_count, best_score, last_played_ts, last_clear_ts
		FROM maze_levels
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[int]MazeLevelProgress{}
	for rows.Next() {
		var (
			p          MazeLevelProgress
			lastPlayed string
			lastClear  string
		)
		if err := rows.Scan(&p.Level, &p.ClearedCount, &p.BestScore, &lastPlayed, &lastClear); err != nil {
			return nil, err
		}
		p.LastPlayedTS = parseTS(lastPlayed)
		p.LastClearTS = parseTS(lastClear)
		out[p.Level] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) GetMazeSummary(ctx context.Context) (MazeSummary, error) {
	var out MazeSummary
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(completed), 0),
			COALESCE(MAX(score), 0),
			COALESCE(SUM(restarts), 0)
		FROM maze_runs
	`).Scan(&out.Runs, &out.Completions, &out.BestScore, &out.Restarts)
	if err != nil {
		return MazeSummary{}, err
	}
	return out, nil
}

func (s *SQLiteStore) GetLastMazeRun(ctx context.Context) (*LastMazeRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, pack_id, start_ts, finished_ts, score, level, tools, completed
		FROM maze_runs
		ORDER BY id DESC
		LIMIT 1
	`)
	var (
		out       LastMazeRun
		startRaw  string
		finishRaw string
		tools     string
		completed int
	)
	if err := row.Scan(&out.SessionID, &out.PackID, &startRaw, &finishRaw, &out.Score, &out.Level, &tools, &completed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	out.StartTS = parseTS(startRaw)
	out.FinishedTS = parseTS(finishRaw)
	out.Completed = completed == 1
	if tools != "" {
		out.Tools = strings.Split(tools, toolSep)
	}
	return &out, nil
}

func (s *SQLiteStore) RecordAssessment(ctx context.Context, rec AssessmentRecord) error {
	taken := rec.TakenTS
	if taken.IsZero() {
		taken = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assessment_results(test_id, title, total, max_total, band, taken_ts) VALUES(?,?,?,?,?,?)`,
		rec.TestID, rec.Title, rec.Total, rec.Max, rec.Band, taken.UTC().Format(timeLayout),
	)
	return err
}

// ListAssessments returns the newest results first. A limit of zero or less returns all rows.
func (s *SQLiteStore) ListAssessments(ctx context.Context, limit int) ([]AssessmentRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT test_id, title, total, max_total, band, taken_ts
		FROM assessment_results
		ORDER BY taken_ts DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AssessmentRecord
	for rows.Next() {
		var (
			rec   AssessmentRecord
			taken string
		)
		if err := rows.Scan(&rec.TestID, &rec.Title, &rec.Total, &rec.Max, &rec.Band, &taken); err != nil {
			return nil, err
		}
		rec.TakenTS = parseTS(taken)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) SetMood(ctx context.Context, day, mood int) error {
	if day < 0 || day > 6 {
		return fmt.Errorf("mood day %d out of range", day)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mood_week(day, mood) VALUES(?, ?)
		ON CONFLICT(day) DO UPDATE SET mood = excluded.mood
	`, day, mood)
	return err
}

func (s *SQLiteStore) GetMoodWeek(ctx context.Context) (map[int]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT day, mood FROM mood_week`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[int]int{}
	for rows.Next() {
		var day, mood int
		if err := rows.Scan(&day, &mood); err != nil {
			return nil, err
		}
		out[day] = mood
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) ClearMoodWeek(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM mood_week`)
	return err
}

func (s *SQLiteStore) RecordMeditation(ctx context.Context, seconds int64, at time.Time) error {
	if seconds <= 0 {
		return nil
	}
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meditation_sessions(seconds, recorded_ts) VALUES(?, ?)`,
		seconds, at.UTC().Format(timeLayout),
	)
	return err
}

func (s *SQLiteStore) TotalMeditationSeconds(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(seconds), 0) FROM meditation_sessions`).Scan(&total)
	return total, err
}

func (s *SQLiteStore) AddGardenPlant(ctx context.Context, p GardenPlant) error {
	if p.PlantedTS.IsZero() {
		p.PlantedTS = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO garden_plants(flower, activity, planted_ts) VALUES(?, ?, ?)`,
		p.Flower, p.Activity, p.PlantedTS.UTC().Format(timeLayout),
	)
	return err
}

// ListGardenPlants returns plants in planting order.
func (s *SQLiteStore) ListGardenPlants(ctx context.Context) ([]GardenPlant, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT flower, activity, planted_ts FROM garden_plants ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]GardenPlant, 0)
	for rows.Next() {
		var (
			p  GardenPlant
			ts string
		)
		if err := rows.Scan(&p.Flower, &p.Activity, &ts); err != nil {
			return nil, err
		}
		p.PlantedTS = parseTS(ts)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

const (
	timeLayout = "2006-01-02T15:04:05Z07:00"
	toolSep    = "\x1f"
)

func parseTS(raw string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func ifThen(cond bool, yes, no int) int {
	if cond {
		return yes
	}
	return no
}
