package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"guardmind/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "guardmind:", err)
		os.Exit(1)
	}
}

type cli struct {
	flags struct {
		apiURL        string
		dataDir       string
		logPath       string
		logLevel      string
		style         string
		motion        string
		challengeMode string
		levelsDir     string
		pack          string
		ascii         bool
	}
	app *app.App
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "guardmind",
		Short:         "GuardMind mental health companion for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.app != nil {
				c.app.Close()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.apiURL, "api-url", "", "backend base URL (env GUARDMIND_API_URL)")
	pf.StringVar(&c.flags.dataDir, "data-dir", "", "directory for local state (env GUARDMIND_DATA_DIR)")
	pf.StringVar(&c.flags.logPath, "log", "", "JSON log file, or \"off\" (env GUARDMIND_LOG_PATH)")
	pf.StringVar(&c.flags.logLevel, "log-level", "", "debug|info|warn|error (env GUARDMIND_LOG_LEVEL)")
	pf.StringVar(&c.flags.style, "style", "", "modern_arcade|cozy_clean|retro_terminal (env GUARDMIND_STYLE)")
	pf.StringVar(&c.flags.motion, "motion", "", "full|reduced|off (env GUARDMIND_MOTION)")
	pf.StringVar(&c.flags.challengeMode, "challenge-mode", "", "by_tool|first_unused (env GUARDMIND_CHALLENGE_MODE)")
	pf.StringVar(&c.flags.levelsDir, "levels", "", "directory of extra level packs (env GUARDMIND_LEVELS_DIR)")
	pf.StringVar(&c.flags.pack, "pack", "", "level pack id to play (env GUARDMIND_PACK)")
	pf.BoolVar(&c.flags.ascii, "ascii", false, "draw with ASCII only (env GUARDMIND_ASCII)")

	root.AddCommand(
		c.loginCmd(),
		c.registerCmd(),
		c.guestCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.mazeCmd(),
		c.assessCmd(),
		c.historyCmd(),
		c.moodCmd(),
		c.meditateCmd(),
		c.cbtCmd(),
		c.journalCmd(),
		c.communityCmd(),
		c.chatCmd(),
		c.dashboardCmd(),
		c.resourcesCmd(),
		c.crisisCmd(),
	)
	return root
}

// open loads config from the environment, lets set flags win, and builds the app.
func (c *cli) open(cmd *cobra.Command) error {
	cfg, err := app.LoadConfig(nil)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	override("api-url", &cfg.APIURL, c.flags.apiURL)
	override("data-dir", &cfg.DataDir, c.flags.dataDir)
	override("log", &cfg.LogPath, c.flags.logPath)
	override("log-level", &cfg.LogLevel, c.flags.logLevel)
	override("style", &cfg.UI.StyleVariant, c.flags.style)
	override("motion", &cfg.UI.MotionLevel, c.flags.motion)
	override("challenge-mode", &cfg.ChallengeMode, c.flags.challengeMode)
	override("levels", &cfg.LevelsDir, c.flags.levelsDir)
	override("pack", &cfg.PackID, c.flags.pack)
	if flags.Changed("ascii") {
		cfg.ASCIIOnly = c.flags.ascii
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *cli) theme() *huh.Theme {
	if c.app != nil && c.app.Config().UI.StyleVariant == "retro_terminal" {
		return huh.ThemeBase16()
	}
	return huh.ThemeCharm()
}

func (c *cli) runForm(cmd *cobra.Command, groups ...*huh.Group) error {
	form := huh.NewForm(groups...).
		WithTheme(c.theme()).
		WithAccessible(os.Getenv("ACCESSIBLE") != "")
	return form.RunWithContext(cmd.Context())
}
