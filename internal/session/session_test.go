package session

import (
	"context"
	"path/filepath"
	"testing"

	"guardmind/internal/state"
)

func newStore(t *testing.T) *state.SQLiteStore {
	t.Helper()
	store, err := state.NewSQLite(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}

func TestSignInPersistsAcrossManagers(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	m := NewManager(store)
	if _, err := m.SignIn(ctx, "sam", "tok-1", "42"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if got := m.BearerToken(); got != "tok-1" {
		t.Fatalf("unexpected bearer %q", got)
	}

	reloaded := NewManager(store)
	s, err := reloaded.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !s.LoggedIn() || s.IsGuest() || s.Username != "sam" || s.UserID != "42" {
		t.Fatalf("unexpected session %#v", s)
	}
}

func TestGuestAndSignOut(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	m := NewManager(store)

	if _, err := m.SignIn(ctx, "sam", "tok-1", "42"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	s, err := m.ContinueAsGuest(ctx)
	if err != nil {
		t.Fatalf("guest: %v", err)
	}
	if !s.IsGuest() || s.UserID != "" {
		t.Fatalf("unexpected guest session %#v", s)
	}
	if v, ok, _ := store.GetPreference(ctx, KeyUserID); ok {
		t.Fatalf("guest session kept user id %q", v)
	}

	if err := m.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if m.Current().LoggedIn() {
		t.Fatalf("expected signed out session")
	}
	prefs, err := store.LoadPreferences(ctx)
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}
	for _, k := range []string{KeyToken, KeyUsername, KeyUserID} {
		if _, ok := prefs[k]; ok {
			t.Fatalf("preference %q survived sign out", k)
		}
	}
}

func TestSignInRequiresToken(t *testing.T) {
	m := NewManager(newStore(t))
	if _, err := m.SignIn(context.Background(), "sam", "", ""); err == nil {
		t.Fatalf("expected error without token")
	}
	if m.Current().LoggedIn() {
		t.Fatalf("failed sign in must not change the session")
	}
}
