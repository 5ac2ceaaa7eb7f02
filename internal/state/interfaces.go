package state

import (
	"context"
	"time"
)

type Store interface {
	EnsureSchema(ctx context.Context) error

	SavePreferences(ctx context.Context, values map[string]string) error
	LoadPreferences(ctx context.Context) (map[string]string, error)
	GetPreference(ctx context.Context, key string) (string, bool, error)
	DeletePreferences(ctx context.Context, keys ...string) error

	StartMazeRun(ctx context.Context, run MazeRun) (int64, error)
	FinishMazeRun(ctx context.Context, runID int64, result MazeResult) error
	UpsertMazeLevel(ctx context.Context, update MazeLevelUpdate) error
	GetMazeLevelMap(ctx context.Context) (map[int]MazeLevelProgress, error)
	GetMazeSummary(ctx context.Context) (MazeSummary, error)
	GetLastMazeRun(ctx context.Context) (*LastMazeRun, error)

	RecordAssessment(ctx context.Context, rec AssessmentRecord) error
	ListAssessments(ctx context.Context, limit int) ([]AssessmentRecord, error)

	SetMood(ctx context.Context, day, mood int) error
	GetMoodWeek(ctx context.Context) (map[int]int, error)
	ClearMoodWeek(ctx context.Context) error

	RecordMeditation(ctx context.Context, seconds int64, at time.Time) error
	TotalMeditationSeconds(ctx context.Context) (int64, error)

	AddGardenPlant(ctx context.Context, p GardenPlant) error
	ListGardenPlants(ctx context.Context) ([]GardenPlant, error)

	Close() error
}

type MazeRun struct {
	SessionID     string
	PackID        string
	Username      string
	ChallengeMode string
	StartTS       time.Time
}

type MazeResult struct {
	Score      int
	Level      int
	Tools      []string
	Completed  bool
	Restarts   int
	FinishedTS time.Time
}

type MazeSummary struct {
	Runs        int
	Completions int
	BestScore   int
	Restarts    int
}

type LastMazeRun struct {
	SessionID  string
	PackID     string
	StartTS    time.Time
	FinishedTS time.Time
	Score      int
	Level      int
	Tools      []string
	Completed  bool
}

type MazeLevelProgress struct {
	Level        int
	ClearedCount int
	BestScore    int
	LastPlayedTS time.Time
	LastClearTS  time.Time
}

type MazeLevelUpdate struct {
	Level        int
	Cleared      bool
	Score        int
	LastPlayedTS time.Time
}

type AssessmentRecord struct {
	TestID  string
	Title   string
	Total   int
	Max     int
	Band    string
	TakenTS time.Time
}

type GardenPlant struct {
	Flower    string
	Activity  string
	PlantedTS time.Time
}
