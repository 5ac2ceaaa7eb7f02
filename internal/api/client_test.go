package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"guardmind/internal/session"
)

type staticToken string

func (s staticToken) BearerToken() string { return string(s) }

func newTestClient(t *testing.T, token string, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, staticToken(token), WithRetry(3, time.Millisecond), WithTimeout(5*time.Second))
}

func TestLoginPostsForm(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/token" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("username") != "sam" || r.PostForm.Get("password") != "secret1" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		_, _ = io.WriteString(w, `{"access_token":"abc","token_type":"bearer","user_id":17}`)
	})
	tok, err := c.Login(context.Background(), "sam", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok.AccessToken != "abc" || tok.UserID != "17" {
		t.Fatalf("unexpected token %#v", tok)
	}
}

func TestBearerIsAttached(t *testing.T) {
	c := newTestClient(t, "tok-9", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-9" {
			t.Errorf("unexpected authorization %q", got)
		}
		_, _ = io.WriteString(w, `[{"id":"c1","created_at":"2026-05-01T10:00:00"}]`)
	})
	hist, err := c.ChatHistory(context.Background())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 1 || hist[0].ID != "c1" {
		t.Fatalf("unexpected history %#v", hist)
	}
	if _, ok := ParseTime(hist[0].CreatedAt); !ok {
		t.Fatalf("could not parse %q", hist[0].CreatedAt)
	}
}

func TestGuestChatUsesGuestBearerAndNoChatID(t *testing.T) {
	c := newTestClient(t, session.GuestToken, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer guest" {
			t.Errorf("unexpected authorization %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if v, ok := body["chat_id"]; !ok || v != nil {
			t.Errorf("expected explicit null chat_id, got %#v", body)
		}
		_, _ = io.WriteString(w, `{"response":"hello","chat_id":null}`)
	})
	reply, err := c.Chat(context.Background(), "hi", "c1")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply.Response != "hello" || reply.ChatID != "" {
		t.Fatalf("unexpected reply %#v", reply)
	}
}

func TestJournalAcceptsListOrMessage(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			_, _ = io.WriteString(w, `[{"_id":"m1","content":"slept well","date":"2026-05-01"},{"id":4,"content":"walk"}]`)
			return
		}
		_, _ = io.WriteString(w, `{"message":"No journal entries found"}`)
	})
	entries, notice, err := c.Journal(context.Background())
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	if notice != "" || len(entries) != 2 || entries[0].ID != "m1" || entries[1].ID != "4" {
		t.Fatalf("unexpected entries %#v notice=%q", entries, notice)
	}
	entries, notice, err = c.Journal(context.Background())
	if err != nil {
		t.Fatalf("journal notice: %v", err)
	}
	if len(entries) != 0 || notice != "No journal entries found" {
		t.Fatalf("unexpected notice %q entries=%v", notice, entries)
	}
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"current_metrics":{"health_score":72.4,"psychological_dimensions":{"emotional_stability":60}},"sleep_data":[{"date":"Mon","hours":7.5}],"insights":{"triggers":["deadlines"]}}`)
	})
	d, err := c.Dashboard(context.Background(), "17")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
	if d.CurrentMetrics.HealthScore != 72.4 || d.CurrentMetrics.PsychologicalDimensions.EmotionalStability != 60 {
		t.Fatalf("unexpected metrics %#v", d.CurrentMetrics)
	}
	if len(d.SleepData) != 1 || d.SleepData[0].Label != "Mon" || d.SleepData[0].Value != 7.5 {
		t.Fatalf("unexpected sleep data %#v", d.SleepData)
	}
}

func TestUnauthorizedIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, "stale", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Could not validate credentials"}`)
	})
	_, err := c.ChatHistory(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	var serr *StatusError
	if !errors.As(err, &serr) || serr.Detail != "Could not validate credentials" {
		t.Fatalf("unexpected error detail %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestPostsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})
	if _, err := c.CreatePost(context.Background(), "hello"); statusCode(err) != http.StatusBadGateway {
		t.Fatalf("expected 502, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestReplyAndDeletePaths(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	c := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.Path)
		mu.Unlock()
		if r.Method == http.MethodPost {
			_, _ = io.WriteString(w, `{"_id":"r1","content":"same here","username":"sam"}`)
		}
	})
	ctx := context.Background()
	reply, err := c.Reply(ctx, "p1", "same here")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.ID != "r1" {
		t.Fatalf("unexpected reply %#v", reply)
	}
	if err := c.DeletePost(ctx, "p1"); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	if err := c.DeleteJournal(ctx, "j 2"); err != nil {
		t.Fatalf("delete journal: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	want := []string{"POST /community/p1/reply", "DELETE /community/p1", "DELETE /journal/j 2"}
	if len(seen) != len(want) {
		t.Fatalf("unexpected requests %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("request %d: want %q got %q", i, want[i], seen[i])
		}
	}
}

func TestDashboardNeedsUserID(t *testing.T) {
	c := New("http://127.0.0.1:0", staticToken("tok"))
	if _, err := c.Dashboard(context.Background(), ""); !errors.Is(err, ErrNoUserID) {
		t.Fatalf("expected ErrNoUserID, got %v", err)
	}
}

func TestStatusErrorDetailKeepsRunesWhole(t *testing.T) {
	detail := strings.Repeat("a", 199) + "é" + "tail"
	body, _ := json.Marshal(map[string]string{"detail": detail})
	err := newStatusError(http.StatusBadRequest, body)
	if !utf8.ValidString(err.Detail) {
		t.Fatalf("detail is not valid UTF-8: %q", err.Detail)
	}
	if err.Detail != strings.Repeat("a", 199) {
		t.Fatalf("expected cut before the two-byte rune, got %d bytes", len(err.Detail))
	}

	short := newStatusError(http.StatusNotFound, []byte(`{"detail":"Not Found"}`))
	if short.Detail != "Not Found" {
		t.Fatalf("unexpected detail %q", short.Detail)
	}
}
