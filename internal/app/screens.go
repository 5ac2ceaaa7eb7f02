package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"guardmind/internal/api"
	"guardmind/internal/assessment"
	"guardmind/internal/state"
	"guardmind/internal/ui"
	"guardmind/internal/wellness"
)

// prefMoodWeek holds the start of the week the stored moods belong to.
const prefMoodWeek = "moodWeekStart"

const historyLimit = 10

func (a *App) Assessments() []assessment.Test { return a.assess.Tests() }

func (a *App) AssessmentTest(id assessment.TestID) (assessment.Test, bool) { return a.assess.Test(id) }

// TakeAssessment scores answers and records the result locally.
func (a *App) TakeAssessment(ctx context.Context, id assessment.TestID, answers assessment.Answers) (assessment.Result, error) {
	if _, err := a.RequireLogin(); err != nil {
		return assessment.Result{}, err
	}
	res := a.assess.Score(id, answers)
	if !res.Found {
		return res, nil
	}
	if err := a.store.RecordAssessment(ctx, state.AssessmentRecord{
		TestID:  string(res.Test),
		Title:   res.Title,
		Total:   res.Total,
		Max:     res.Max,
		Band:    res.Band,
		TakenTS: a.now(),
	}); err != nil {
		return res, fmt.Errorf("record assessment: %w", err)
	}
	a.logger.Info("assessment.scored", map[string]any{"test": string(res.Test), "total": res.Total, "band": res.Band})
	return res, nil
}

func (a *App) History(ctx context.Context) (ui.History, error) {
	if _, err := a.RequireLogin(); err != nil {
		return ui.History{}, err
	}
	sum, err := a.store.GetMazeSummary(ctx)
	if err != nil {
		return ui.History{}, err
	}
	last, err := a.store.GetLastMazeRun(ctx)
	if err != nil {
		return ui.History{}, err
	}
	recs, err := a.store.ListAssessments(ctx, historyLimit)
	if err != nil {
		return ui.History{}, err
	}
	secs, err := a.store.TotalMeditationSeconds(ctx)
	if err != nil {
		return ui.History{}, err
	}
	return ui.History{
		Maze:        sum,
		LastRun:     last,
		Assessments: recs,
		Meditation:  time.Duration(secs) * time.Second,
	}, nil
}

// MoodWeek loads this week's moods. Moods from an earlier week are cleared first.
func (a *App) MoodWeek(ctx context.Context) (wellness.Week, error) {
	if _, err := a.RequireLogin(); err != nil {
		return wellness.Week{}, err
	}
	if err := a.resetMoodWeekIfStale(ctx); err != nil {
		return wellness.Week{}, err
	}
	m, err := a.store.GetMoodWeek(ctx)
	if err != nil {
		return wellness.Week{}, err
	}
	return wellness.WeekFromMap(m), nil
}

func (a *App) SetMood(ctx context.Context, day int, mood wellness.Mood) (wellness.Week, error) {
	if _, err := a.RequireLogin(); err != nil {
		return wellness.Week{}, err
	}
	if err := a.resetMoodWeekIfStale(ctx); err != nil {
		return wellness.Week{}, err
	}
	var probe wellness.Week
	if err := probe.Set(day, mood); err != nil {
		return wellness.Week{}, err
	}
	if err := a.store.SetMood(ctx, day, int(mood)); err != nil {
		return wellness.Week{}, err
	}
	a.logger.Info("mood.set", map[string]any{"day": wellness.Days[day], "mood": mood.String()})
	return a.MoodWeek(ctx)
}

func (a *App) resetMoodWeekIfStale(ctx context.Context) error {
	now := a.now()
	raw, ok, err := a.store.GetPreference(ctx, prefMoodWeek)
	if err != nil {
		return err
	}
	var last time.Time
	if ok {
		last, _ = time.Parse(time.RFC3339, raw)
	}
	if ok && !wellness.ShouldReset(last, now) {
		return nil
	}
	if ok {
		if err := a.store.ClearMoodWeek(ctx); err != nil {
			return err
		}
		a.logger.Info("mood.week.reset", map[string]any{"previous": raw})
	}
	return a.store.SavePreferences(ctx, map[string]string{
		prefMoodWeek: wellness.WeekStart(now).Format(time.RFC3339),
	})
}

func (a *App) Meditation() *wellness.Content { return a.content }

// RecordMeditation adds a finished session to the running total.
func (a *App) RecordMeditation(ctx context.Context, d time.Duration) (time.Duration, error) {
	if _, err := a.RequireLogin(); err != nil {
		return 0, err
	}
	secs := int64(d / time.Second)
	if secs > 0 {
		if err := a.store.RecordMeditation(ctx, secs, a.now()); err != nil {
			return 0, err
		}
		a.logger.Info("meditation.recorded", map[string]any{"seconds": secs})
	}
	total, err := a.store.TotalMeditationSeconds(ctx)
	if err != nil {
		return 0, err
	}
	return time.Duration(total) * time.Second, nil
}

func (a *App) Journal(ctx context.Context) ([]api.JournalEntry, string, error) {
	if _, err := a.RequireLogin(); err != nil {
		return nil, "", err
	}
	return a.client.Journal(ctx)
}

func (a *App) WriteJournal(ctx context.Context, content string) (api.JournalEntry, error) {
	if _, err := a.RequireLogin(); err != nil {
		return api.JournalEntry{}, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return api.JournalEntry{}, fmt.Errorf("journal entry is empty")
	}
	return a.client.CreateJournal(ctx, content)
}

func (a *App) DeleteJournal(ctx context.Context, id api.ID) error {
	if _, err := a.RequireLogin(); err != nil {
		return err
	}
	return a.client.DeleteJournal(ctx, id)
}

func (a *App) Posts(ctx context.Context) ([]api.Post, string, error) {
	if _, err := a.RequireLogin(); err != nil {
		return nil, "", err
	}
	return a.client.Posts(ctx)
}

func (a *App) CreatePost(ctx context.Context, content string) (api.Post, error) {
	if _, err := a.RequireLogin(); err != nil {
		return api.Post{}, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return api.Post{}, fmt.Errorf("post is empty")
	}
	return a.client.CreatePost(ctx, content)
}

func (a *App) Reply(ctx context.Context, postID api.ID, content string) (api.Reply, error) {
	if _, err := a.RequireLogin(); err != nil {
		return api.Reply{}, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return api.Reply{}, fmt.Errorf("reply is empty")
	}
	return a.client.Reply(ctx, postID, content)
}

func (a *App) DeletePost(ctx context.Context, id api.ID) error {
	if _, err := a.RequireLogin(); err != nil {
		return err
	}
	return a.client.DeletePost(ctx, id)
}

// Chat sends one message. An empty chatID starts a new conversation.
func (a *App) Chat(ctx context.Context, message string, chatID api.ID) (api.ChatReply, error) {
	if _, err := a.RequireLogin(); err != nil {
		return api.ChatReply{}, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return api.ChatReply{}, fmt.Errorf("message is empty")
	}
	return a.client.Chat(ctx, message, chatID)
}

func (a *App) ChatHistory(ctx context.Context) ([]api.ChatSummary, error) {
	if _, err := a.RequireLogin(); err != nil {
		return nil, err
	}
	return a.client.ChatHistory(ctx)
}

func (a *App) ChatMessages(ctx context.Context, id api.ID) ([]api.ChatMessage, error) {
	if _, err := a.RequireLogin(); err != nil {
		return nil, err
	}
	thread, err := a.client.ChatMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	return thread.Messages, nil
}

func (a *App) DeleteChat(ctx context.Context, id api.ID) error {
	if _, err := a.RequireLogin(); err != nil {
		return err
	}
	return a.client.DeleteChat(ctx, id)
}

func (a *App) Dashboard(ctx context.Context) (api.Dashboard, error) {
	s, err := a.RequireLogin()
	if err != nil {
		return api.Dashboard{}, err
	}
	return a.client.Dashboard(ctx, api.ID(s.UserID))
}

// Resources filters the resource library.
func (a *App) Resources(kind wellness.ResourceKind, search string) ([]wellness.Resource, error) {
	if _, err := a.RequireLogin(); err != nil {
		return nil, err
	}
	return a.content.Filter(kind, search), nil
}

func (a *App) ResourcesMarkdown(kind wellness.ResourceKind, search string) (string, error) {
	rs, err := a.Resources(kind, search)
	if err != nil {
		return "", err
	}
	return ui.Markdown(wellness.ResourcesMarkdown(rs), 0, a.cfg.UI.Markdown)
}

// Crisis renders the crisis support page. It needs no session.
func (a *App) Crisis() (string, error) {
	return ui.Markdown(a.content.CrisisMarkdown(), 0, a.cfg.UI.Markdown)
}
