package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"guardmind/internal/api"
	"guardmind/internal/levels"
	"guardmind/internal/maze"
)

// EnvPrefix is prepended to every environment variable Config reads.
const EnvPrefix = "GUARDMIND_"

// Config controls runtime behavior for the client.
type Config struct {
	APIURL        string        `env:"API_URL"`
	DataDir       string        `env:"DATA_DIR"`
	LogPath       string        `env:"LOG_PATH"`
	LogLevel      string        `env:"LOG_LEVEL"`
	Timeout       time.Duration `env:"TIMEOUT"`
	Retries       int           `env:"RETRIES"`
	ChallengeMode string        `env:"CHALLENGE_MODE"`
	// LevelsDir holds extra level packs searched before the builtin ones.
	LevelsDir string `env:"LEVELS_DIR"`
	PackID    string `env:"PACK"`
	ASCIIOnly bool   `env:"ASCII"`
	UI        UIConfig
}

type UIConfig struct {
	StyleVariant string `env:"STYLE"`
	MotionLevel  string `env:"MOTION"`
	// Markdown is the glamour style used for crisis and resource pages.
	Markdown string `env:"MARKDOWN_STYLE"`
}

func DefaultConfig() Config {
	return Config{
		APIURL:        api.DefaultBaseURL,
		LogLevel:      "info",
		Timeout:       30 * time.Second,
		Retries:       3,
		ChallengeMode: "by_tool",
		PackID:        levels.BuiltinPackID,
		UI: UIConfig{
			StyleVariant: "modern_arcade",
			MotionLevel:  "full",
			Markdown:     "dark",
		},
	}
}

// LoadConfig overlays environment variables on the defaults. A nil environ
// reads the process environment.
func LoadConfig(environ map[string]string) (Config, error) {
	cfg := DefaultConfig()
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		c.APIURL = api.DefaultBaseURL
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("invalid api url %q", c.APIURL)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Retries <= 0 {
		c.Retries = 1
	}
	if _, ok := maze.ParseSelectionMode(c.ChallengeMode); !ok {
		return fmt.Errorf("invalid challenge mode %q", c.ChallengeMode)
	}
	if c.PackID == "" {
		c.PackID = levels.BuiltinPackID
	}
	if c.LevelsDir != "" {
		info, err := os.Stat(c.LevelsDir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("invalid levels dir %q", c.LevelsDir)
		}
	}
	switch c.UI.StyleVariant {
	case "", "modern_arcade", "cozy_clean", "retro_terminal":
	default:
		return fmt.Errorf("invalid ui style variant %q", c.UI.StyleVariant)
	}
	if c.UI.StyleVariant == "" {
		c.UI.StyleVariant = "modern_arcade"
	}
	switch c.UI.MotionLevel {
	case "", "off", "reduced", "full":
	default:
		return fmt.Errorf("invalid ui motion level %q", c.UI.MotionLevel)
	}
	if c.UI.MotionLevel == "" {
		c.UI.MotionLevel = "full"
	}
	switch c.UI.Markdown {
	case "", "dark", "light", "notty", "ascii", "dracula", "pink", "tokyo-night":
	default:
		return fmt.Errorf("invalid markdown style %q", c.UI.Markdown)
	}
	if c.UI.Markdown == "" {
		c.UI.Markdown = "dark"
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "guardmind")
	}
	switch c.LogPath {
	case "":
		c.LogPath = filepath.Join(c.DataDir, "guardmind.log")
	case "off":
		// telemetry discards output for an empty path
		c.LogPath = ""
	}
	return nil
}
