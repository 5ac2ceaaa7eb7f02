package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"guardmind/internal/api"
	"guardmind/internal/assessment"
	"guardmind/internal/cbt"
	"guardmind/internal/levels"
	"guardmind/internal/maze"
	"guardmind/internal/session"
	"guardmind/internal/state"
	"guardmind/internal/telemetry"
	"guardmind/internal/ui"
	"guardmind/internal/wellness"
)

// ErrNotLoggedIn is returned by every screen that needs a session when
// nobody is signed in, not even as a guest.
var ErrNotLoggedIn = errors.New("not logged in: run `guardmind login` or `guardmind guest`")

type App struct {
	cfg Config

	logger  *telemetry.Logger
	store   *state.SQLiteStore
	session *session.Manager
	client  *api.Client

	pack       levels.Pack
	catalog    maze.Catalog
	challenges []maze.Challenge
	mode       maze.SelectionMode
	assess     *assessment.Engine
	content    *wellness.Content
	exercises  *cbt.Exercises

	now func() time.Time
}

// New builds the app from a validated config. The caller owns Close.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	logger, err := telemetry.NewJSONLogger(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	store, err := state.NewSQLite(filepath.Join(cfg.DataDir, "state.db"))
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, err
	}

	a, err := newApp(ctx, cfg, logger, store)
	if err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, err
	}
	return a, nil
}

func newApp(ctx context.Context, cfg Config, logger *telemetry.Logger, store *state.SQLiteStore) (*App, error) {
	pack, err := loadPack(ctx, cfg)
	if err != nil {
		return nil, err
	}
	catalog, challenges, err := maze.FromPack(pack)
	if err != nil {
		return nil, fmt.Errorf("build maze from pack %s: %w", pack.PackID, err)
	}
	mode, ok := maze.ParseSelectionMode(cfg.ChallengeMode)
	if !ok {
		return nil, fmt.Errorf("invalid challenge mode %q", cfg.ChallengeMode)
	}
	assess, err := assessment.NewEngine()
	if err != nil {
		return nil, err
	}
	content, err := wellness.LoadContent()
	if err != nil {
		return nil, err
	}
	exercises, err := cbt.Load()
	if err != nil {
		return nil, err
	}

	sess := session.NewManager(store)
	if _, err := sess.Load(ctx); err != nil {
		return nil, err
	}
	client := api.New(cfg.APIURL, sess,
		api.WithTimeout(cfg.Timeout),
		api.WithRetry(cfg.Retries, 500*time.Millisecond),
		api.WithLogger(logger),
	)

	return &App{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		session:    sess,
		client:     client,
		pack:       pack,
		catalog:    catalog,
		challenges: challenges,
		mode:       mode,
		assess:     assess,
		content:    content,
		exercises:  exercises,
		now:        time.Now,
	}, nil
}

// loadPack finds cfg.PackID among the packs in cfg.LevelsDir, then the builtin ones.
func loadPack(ctx context.Context, cfg Config) (levels.Pack, error) {
	loader := levels.NewLoader()
	var packs []levels.Pack
	if cfg.LevelsDir != "" {
		custom, err := loader.LoadPacks(ctx, os.DirFS(cfg.LevelsDir), ".")
		if err != nil {
			return levels.Pack{}, fmt.Errorf("load level packs from %s: %w", cfg.LevelsDir, err)
		}
		packs = append(packs, custom...)
	}
	builtin, err := levels.Builtin(ctx)
	if err != nil {
		return levels.Pack{}, fmt.Errorf("load level packs: %w", err)
	}
	packs = append(packs, builtin...)

	id := cfg.PackID
	if id == "" {
		id = levels.BuiltinPackID
	}
	return loader.FindPack(packs, id)
}

func (a *App) Close() {
	_ = a.store.Close()
	_ = a.logger.Close()
}

func (a *App) Config() Config { return a.cfg }

func (a *App) Session() session.Session { return a.session.Current() }

func (a *App) UIOptions() ui.Options {
	return ui.Options{
		ASCIIOnly:    a.cfg.ASCIIOnly,
		StyleVariant: a.cfg.UI.StyleVariant,
		MotionLevel:  a.cfg.UI.MotionLevel,
	}
}

func (a *App) Theme() ui.Theme { return ui.ThemeForVariant(a.cfg.UI.StyleVariant) }

// RequireLogin returns the current session or ErrNotLoggedIn.
func (a *App) RequireLogin() (session.Session, error) {
	s := a.session.Current()
	if !s.LoggedIn() {
		return session.Session{}, ErrNotLoggedIn
	}
	return s, nil
}

var emailPattern = regexp.MustCompile(`^\S+@\S+$`)

const minPasswordLen = 6

// ValidateRegistration checks the sign-up form before it reaches the server.
func ValidateRegistration(username, email, password string) error {
	var errs []error
	if strings.TrimSpace(username) == "" {
		errs = append(errs, errors.New("username is required"))
	}
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		errs = append(errs, errors.New("email address is invalid"))
	}
	if len(password) < minPasswordLen {
		errs = append(errs, fmt.Errorf("password must be at least %d characters", minPasswordLen))
	}
	return errors.Join(errs...)
}

func (a *App) Login(ctx context.Context, username, password string) (session.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return session.Session{}, errors.New("username and password are required")
	}
	tok, err := a.client.Login(ctx, username, password)
	if err != nil {
		a.logger.Warn("auth.login.failed", map[string]any{"username": username, "error": err.Error()})
		return session.Session{}, fmt.Errorf("login: %w", err)
	}
	s, err := a.session.SignIn(ctx, username, tok.AccessToken, tok.UserID.String())
	if err != nil {
		return session.Session{}, err
	}
	a.logger.Info("auth.login", map[string]any{"username": username})
	return s, nil
}

func (a *App) Register(ctx context.Context, username, email, password string) (session.Session, error) {
	if err := ValidateRegistration(username, email, password); err != nil {
		return session.Session{}, err
	}
	username = strings.TrimSpace(username)
	tok, err := a.client.Register(ctx, api.RegisterRequest{
		Username: username,
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	if err != nil {
		a.logger.Warn("auth.register.failed", map[string]any{"username": username, "error": err.Error()})
		return session.Session{}, fmt.Errorf("register: %w", err)
	}
	s, err := a.session.SignIn(ctx, username, tok.AccessToken, tok.UserID.String())
	if err != nil {
		return session.Session{}, err
	}
	a.logger.Info("auth.register", map[string]any{"username": username})
	return s, nil
}

func (a *App) Guest(ctx context.Context) (session.Session, error) {
	s, err := a.session.ContinueAsGuest(ctx)
	if err != nil {
		return session.Session{}, err
	}
	a.logger.Info("auth.guest", nil)
	return s, nil
}

func (a *App) Logout(ctx context.Context) error {
	who := a.session.Current().Username
	if err := a.session.SignOut(ctx); err != nil {
		return err
	}
	a.logger.Info("auth.logout", map[string]any{"username": who})
	return nil
}
