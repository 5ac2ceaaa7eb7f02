package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Preference keys shared with the rest of the client.
const (
	KeyToken    = "token"
	KeyUsername = "username"
	KeyUserID   = "userId"
)

const (
	GuestUsername = "guest"
	GuestToken    = "guest-token"
)

type Session struct {
	Username string
	Token    string
	UserID   string
}

func (s Session) LoggedIn() bool { return s.Token != "" }

func (s Session) IsGuest() bool {
	return s.Username == GuestUsername && s.Token == GuestToken
}

type PreferenceStore interface {
	LoadPreferences(ctx context.Context) (map[string]string, error)
	SavePreferences(ctx context.Context, values map[string]string) error
	DeletePreferences(ctx context.Context, keys ...string) error
}

// Manager owns the current session and mirrors it into the preference store.
type Manager struct {
	store PreferenceStore

	mu  sync.RWMutex
	cur Session
}

func NewManager(store PreferenceStore) *Manager {
	return &Manager{store: store}
}

func (m *Manager) Load(ctx context.Context) (Session, error) {
	prefs, err := m.store.LoadPreferences(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	s := Session{
		Username: prefs[KeyUsername],
		Token:    prefs[KeyToken],
		UserID:   prefs[KeyUserID],
	}
	m.set(s)
	return s, nil
}

func (m *Manager) SignIn(ctx context.Context, username, token, userID string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || token == "" {
		return Session{}, fmt.Errorf("sign in: username and token are required")
	}
	s := Session{Username: username, Token: token, UserID: userID}
	if err := m.persist(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (m *Manager) ContinueAsGuest(ctx context.Context) (Session, error) {
	s := Session{Username: GuestUsername, Token: GuestToken}
	if err := m.store.DeletePreferences(ctx, KeyUserID); err != nil {
		return Session{}, fmt.Errorf("guest session: %w", err)
	}
	if err := m.persist(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.store.DeletePreferences(ctx, KeyToken, KeyUsername, KeyUserID); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	m.set(Session{})
	return nil
}

func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur
}

func (m *Manager) BearerToken() string {
	return m.Current().Token
}

func (m *Manager) persist(ctx context.Context, s Session) error {
	values := map[string]string{KeyToken: s.Token, KeyUsername: s.Username}
	if s.UserID != "" {
		values[KeyUserID] = s.UserID
	}
	if err := m.store.SavePreferences(ctx, values); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	m.set(s)
	return nil
}

func (m *Manager) set(s Session) {
	m.mu.Lock()
	m.cur = s
	m.mu.Unlock()
}
