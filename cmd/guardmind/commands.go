package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"guardmind/internal/api"
	"guardmind/internal/app"
	"guardmind/internal/assessment"
	"guardmind/internal/ui"
	"guardmind/internal/wellness"
)

func (c *cli) loginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to your GuardMind account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" || password == "" {
				if err := c.runForm(cmd, huh.NewGroup(
					huh.NewInput().Title("Username").Value(&username).Validate(required("username")),
					huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password).Validate(required("password")),
				)); err != nil {
					return err
				}
			}
			s, err := c.app.Login(cmd.Context(), username, password)
			if err != nil {
				if api.IsUnauthorized(err) {
					return errors.New("incorrect username or password")
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome back, %s.\n", s.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when empty)")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a GuardMind account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" || email == "" || password == "" {
				if err := c.runForm(cmd, huh.NewGroup(
					huh.NewInput().Title("Username").Value(&username).Validate(required("username")),
					huh.NewInput().Title("Email").Value(&email).Validate(func(s string) error {
						return app.ValidateRegistration("x", s, "xxxxxx")
					}),
					huh.NewInput().Title("Password").Description("At least 6 characters").
						EchoMode(huh.EchoModePassword).Value(&password).Validate(func(s string) error {
						return app.ValidateRegistration("x", "x@x", s)
					}),
				)); err != nil {
					return err
				}
			}
			s, err := c.app.Register(cmd.Context(), username, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created. Welcome, %s.\n", s.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func (c *cli) guestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guest",
		Short: "Continue without an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := c.app.Guest(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Continuing as guest. Dashboard and saved chats need an account.")
			return nil
		},
	}
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.app.RequireLogin()
			if err != nil {
				return err
			}
			who := s.Username
			if s.IsGuest() {
				who += " (guest)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), who)
			return nil
		},
	}
}

func (c *cli) mazeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "maze",
		Aliases: []string{"play"},
		Short:   "Play the Mind Maze",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.PlayMaze(cmd.Context())
		},
	}
}

func (c *cli) assessCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "assess [depression|anxiety]",
		Short:     "Take a self-assessment questionnaire",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(assessment.Depression), string(assessment.Anxiety)},
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.app.RequireLogin(); err != nil {
				return err
			}
			var id assessment.TestID
			if len(args) == 1 {
				parsed, ok := assessment.ParseTestID(args[0])
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), assessment.NotFoundMessage)
					return nil
				}
				id = parsed
			} else {
				opts := make([]huh.Option[assessment.TestID], 0)
				for _, t := range c.app.Assessments() {
					opts = append(opts, huh.NewOption(t.Title, t.ID))
				}
				if err := c.runForm(cmd, huh.NewGroup(
					huh.NewSelect[assessment.TestID]().Title("Which questionnaire?").Options(opts...).Value(&id),
				)); err != nil {
					return err
				}
			}
			test, ok := c.app.AssessmentTest(id)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), assessment.NotFoundMessage)
				return nil
			}

			picks := make([]int, len(test.Questions))
			groups := make([]*huh.Group, 0, len(test.Questions))
			for i, q := range test.Questions {
				opts := make([]huh.Option[int], 0, len(q.Options))
				for _, o := range q.Options {
					opts = append(opts, huh.NewOption(o.Text, o.Points))
				}
				groups = append(groups, huh.NewGroup(
					huh.NewSelect[int]().
						Title(fmt.Sprintf("%d/%d  %s", i+1, len(test.Questions), q.Text)).
						Description(test.Prompt).
						Options(opts...).
						Value(&picks[i]),
				))
			}
			if err := c.runForm(cmd, groups...); err != nil {
				return err
			}
			answers := assessment.Answers{}
			for i, p := range picks {
				answers.Record(i, p)
			}
			res, err := c.app.TakeAssessment(cmd.Context(), id, answers)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderAssessment(c.app.Theme(), res))
			return nil
		},
	}
}

func (c *cli) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show maze runs, assessments and meditation time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := c.app.History(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderHistory(c.app.Theme(), h, time.Now()))
			return nil
		},
	}
}

func (c *cli) moodCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mood",
		Short: "Show this week's moods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			week, err := c.app.MoodWeek(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderMoodWeek(c.app.Theme(), week))
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set [day] [bad|okay|good]",
		Short: "Record a mood for a day of this week (default today)",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := int(time.Now().Weekday())
			var mood wellness.Mood
			haveMood := false
			for _, arg := range args {
				if m, ok := wellness.ParseMood(arg); ok {
					mood, haveMood = m, true
					continue
				}
				d, ok := wellness.ParseDay(arg)
				if !ok {
					return fmt.Errorf("unknown day or mood %q", arg)
				}
				day = d
			}
			if !haveMood {
				opts := make([]huh.Option[wellness.Mood], 0, len(wellness.Moods))
				for _, m := range wellness.Moods {
					opts = append(opts, huh.NewOption(m.String(), m))
				}
				if err := c.runForm(cmd, huh.NewGroup(
					huh.NewSelect[wellness.Mood]().
						Title("How are you feeling on "+wellness.Days[day]+"?").
						Options(opts...).
						Value(&mood),
				)); err != nil {
					return err
				}
			}
			week, err := c.app.SetMood(cmd.Context(), day, mood)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s as %s.\n\n", wellness.Days[day], mood)
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderMoodWeek(c.app.Theme(), week))
			return nil
		},
	})
	return cmd
}

func (c *cli) meditateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "meditate",
		Short: "Start a guided meditation timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := c.app.RequireLogin(); err != nil {
				return err
			}
			elapsed, err := ui.RunMeditation(ui.NewMeditation(c.app.Meditation(), c.app.UIOptions()))
			if err != nil {
				return err
			}
			total, err := c.app.RecordMeditation(cmd.Context(), elapsed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s. Total meditation time %s.\n",
				wellness.FormatDuration(elapsed), wellness.FormatDuration(total))
			return nil
		},
	}
}

func (c *cli) journalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Read your daily journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, notice, err := c.app.Journal(cmd.Context())
			if err != nil {
				return err
			}
			if notice != "" && len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), notice)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderJournal(c.app.Theme(), entries, time.Now()))
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add [text]",
		Short: "Write a journal entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := c.textArg(cmd, args, "Today's entry")
			if err != nil {
				return err
			}
			e, err := c.app.WriteJournal(cmd.Context(), text)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved entry #%s.\n", e.ID)
			return nil
		},
	}, &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a journal entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.DeleteJournal(cmd.Context(), api.ID(args[0])); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return nil
		},
	})
	return cmd
}

func (c *cli) communityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "community",
		Aliases: []string{"forum"},
		Short:   "Read the community forum",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			posts, notice, err := c.app.Posts(cmd.Context())
			if err != nil {
				return err
			}
			if notice != "" && len(posts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), notice)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderPosts(c.app.Theme(), posts, time.Now()))
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "post [text]",
		Short: "Share a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := c.textArg(cmd, args, "What would you like to share?")
			if err != nil {
				return err
			}
			p, err := c.app.CreatePost(cmd.Context(), text)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Posted #%s.\n", p.ID)
			return nil
		},
	}, &cobra.Command{
		Use:   "reply <post-id> [text]",
		Short: "Reply to a post",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := c.textArg(cmd, args[1:], "Your reply")
			if err != nil {
				return err
			}
			if _, err := c.app.Reply(cmd.Context(), api.ID(args[0]), text); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reply posted.")
			return nil
		},
	}, &cobra.Command{
		Use:   "delete <post-id>",
		Short: "Delete one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.DeletePost(cmd.Context(), api.ID(args[0])); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return nil
		},
	})
	return cmd
}

func (c *cli) chatCmd() *cobra.Command {
	var chatID string
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk with the GuardMind assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.app.RequireLogin(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) > 0 {
				_, err := c.sendChat(cmd, out, strings.Join(args, " "), api.ID(chatID))
				return err
			}
			id := api.ID(chatID)
			for {
				var msg string
				if err := c.runForm(cmd, huh.NewGroup(
					huh.NewInput().Title("You").Description("Leave empty to finish").Value(&msg),
				)); err != nil {
					return err
				}
				if strings.TrimSpace(msg) == "" {
					return nil
				}
				next, err := c.sendChat(cmd, out, msg, id)
				if err != nil {
					return err
				}
				id = next
			}
		},
	}
	cmd.Flags().StringVar(&chatID, "chat-id", "", "continue an earlier conversation")
	cmd.AddCommand(&cobra.Command{
		Use:   "history",
		Short: "List earlier conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chats, err := c.app.ChatHistory(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderChatHistory(c.app.Theme(), chats, time.Now()))
			return nil
		},
	}, &cobra.Command{
		Use:   "show <chat-id>",
		Short: "Show the messages of a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := c.app.ChatMessages(cmd.Context(), api.ID(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderChat(c.app.Theme(), msgs))
			return nil
		},
	}, &cobra.Command{
		Use:   "delete <chat-id>",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.DeleteChat(cmd.Context(), api.ID(args[0])); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return nil
		},
	})
	return cmd
}

func (c *cli) sendChat(cmd *cobra.Command, out io.Writer, msg string, id api.ID) (api.ID, error) {
	reply, err := c.app.Chat(cmd.Context(), msg, id)
	if err != nil {
		return id, err
	}
	fmt.Fprintln(out, ui.RenderChat(c.app.Theme(), []api.ChatMessage{
		{Text: strings.TrimSpace(msg), Sender: "user"},
		{Text: reply.Response, Sender: "bot"},
	}))
	if reply.ChatID != "" {
		return reply.ChatID, nil
	}
	return id, nil
}

func (c *cli) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show your wellbeing dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := c.app.Dashboard(cmd.Context())
			if err != nil {
				if errors.Is(err, api.ErrNoUserID) {
					return errors.New("the dashboard needs an account: run `guardmind login`")
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderDashboard(c.app.Theme(), d))
			return nil
		},
	}
}

func (c *cli) resourcesCmd() *cobra.Command {
	var kind, search string
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Browse articles and videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch wellness.ResourceKind(kind) {
			case wellness.KindAll, wellness.KindArticle, wellness.KindVideo:
			default:
				return fmt.Errorf("unknown resource kind %q", kind)
			}
			page, err := c.app.ResourcesMarkdown(wellness.ResourceKind(kind), search)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), page)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(wellness.KindAll), "all|article|video")
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter titles")
	return cmd
}

func (c *cli) crisisCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "crisis",
		Aliases: []string{"help-now", "sos"},
		Short:   "Show crisis helplines and emergency steps",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := c.app.Crisis()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), page)
			return nil
		},
	}
}

// textArg joins args, or prompts for multi-line text when there are none.
func (c *cli) textArg(cmd *cobra.Command, args []string, title string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	var text string
	if err := c.runForm(cmd, huh.NewGroup(
		huh.NewText().Title(title).Value(&text).Validate(required("text")),
	)); err != nil {
		return "", err
	}
	return text, nil
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
