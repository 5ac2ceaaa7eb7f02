package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ID is a server identifier. The backend sends both numbers and strings.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      ID     `json:"user_id"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChatReply struct {
	Response string `json:"response"`
	ChatID   ID     `json:"chat_id"`
}

type ChatSummary struct {
	ID        ID     `json:"id"`
	CreatedAt string `json:"created_at"`
}

type ChatMessage struct {
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

type ChatThread struct {
	Messages []ChatMessage `json:"messages"`
}

type JournalEntry struct {
	ID      ID     `json:"id"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

func (e *JournalEntry) UnmarshalJSON(b []byte) error {
	type plain JournalEntry
	var raw struct {
		plain
		Mongo ID `json:"_id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*e = JournalEntry(raw.plain)
	if e.ID == "" {
		e.ID = raw.Mongo
	}
	return nil
}

type Post struct {
	ID       ID      `json:"id"`
	Content  string  `json:"content"`
	Username string  `json:"username"`
	Date     string  `json:"date"`
	IsOwner  bool    `json:"is_owner"`
	Replies  []Reply `json:"replies"`
}

func (p *Post) UnmarshalJSON(b []byte) error {
	type plain Post
	var raw struct {
		plain
		Mongo ID `json:"_id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = Post(raw.plain)
	if p.ID == "" {
		p.ID = raw.Mongo
	}
	return nil
}

type Reply struct {
	ID       ID     `json:"id"`
	Content  string `json:"content"`
	Username string `json:"username"`
	Date     string `json:"date"`
}

func (r *Reply) UnmarshalJSON(b []byte) error {
	type plain Reply
	var raw struct {
		plain
		Mongo ID `json:"_id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = Reply(raw.plain)
	if r.ID == "" {
		r.ID = raw.Mongo
	}
	return nil
}

type Dashboard struct {
	CurrentMetrics  Metrics       `json:"current_metrics"`
	HistoricalData  []MoodPoint   `json:"historical_data"`
	SleepData       []SeriesPoint `json:"sleep_data"`
	StressData      []SeriesPoint `json:"stress_data"`
	ActivityData    []SeriesPoint `json:"activity_data"`
	Insights        Insights      `json:"insights"`
	Recommendations []Insight     `json:"recommendations"`
	AIInsights      []Insight     `json:"ai_insights"`
}

type Metrics struct {
	HealthScore             float64    `json:"health_score"`
	PsychologicalDimensions Dimensions `json:"psychological_dimensions"`
}

type Dimensions struct {
	EmotionalStability   float64 `json:"emotional_stability"`
	SocialEngagement     float64 `json:"social_engagement"`
	CognitiveFlexibility float64 `json:"cognitive_flexibility"`
	StressResilience     float64 `json:"stress_resilience"`
}

type MoodPoint struct {
	Date string  `json:"date"`
	Mood float64 `json:"mood"`
}

// SeriesPoint is one entry of a chart series. The label comes from "date" or
// "name"; the value is the first numeric field in key order.
type SeriesPoint struct {
	Label string
	Value float64
}

func (p *SeriesPoint) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for _, k := range []string{"date", "name", "label", "day", "activity"} {
		if s, ok := raw[k].(string); ok {
			p.Label = s
			delete(raw, k)
			break
		}
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := raw[k].(type) {
		case float64:
			p.Value = v
			return nil
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				p.Value = f
				return nil
			}
		}
	}
	return nil
}

type Insights struct {
	Triggers         []string `json:"triggers"`
	CopingMechanisms []string `json:"coping_mechanisms"`
}

type Insight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime reads the timestamp formats the backend emits. Times without a
// zone are taken as UTC.
func ParseTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// listOrMessage decodes endpoints that answer with either a JSON array or a
// {"message": "..."} notice when there is nothing to show.
func listOrMessage[T any](body []byte) ([]T, string, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, "", nil
	}
	if body[0] == '{' {
		var notice struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &notice); err != nil {
			return nil, "", err
		}
		return nil, notice.Message, nil
	}
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, "", err
	}
	return items, "", nil
}
