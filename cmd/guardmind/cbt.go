package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"guardmind/internal/cbt"
	"guardmind/internal/ui"
)

func (c *cli) cbtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cbt",
		Short: "Cognitive behavioral therapy exercises",
	}
	cmd.AddCommand(c.gardenCmd(), c.questCmd(), c.escapeCmd())
	return cmd
}

func (c *cli) gardenCmd() *cobra.Command {
	var plant bool
	cmd := &cobra.Command{
		Use:   "garden [activity...]",
		Short: "Grow a garden of mindful activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 && !plant {
				g, err := c.app.Garden(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(out, ui.RenderGarden(c.app.Theme(), g.Plants()))
				return nil
			}
			if _, err := c.app.RequireLogin(); err != nil {
				return err
			}
			activity, err := c.textArg(cmd, args, "Enter a mindful activity")
			if err != nil {
				return err
			}
			g, p, err := c.app.PlantActivity(cmd.Context(), activity)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Planted %s %s.\n\n", p.Flower, p.Activity)
			fmt.Fprintln(out, ui.RenderGarden(c.app.Theme(), g.Plants()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plant, "plant", false, "prompt for an activity to plant")
	return cmd
}

func (c *cli) questCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quest",
		Short: "Strengthen your resilience fortress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := c.app.Quest(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			theme := c.app.Theme()
			ascii := c.app.UIOptions().ASCIIOnly
			fmt.Fprintln(out, ui.RenderFortress(theme, q.Level(), ascii))
			for {
				ch, ok := q.Challenge()
				if !ok {
					return nil
				}
				pick, err := c.pickOption(cmd, ch.Question, ch.Options)
				if err != nil {
					return err
				}
				res := q.Answer(pick)
				if res.Correct {
					fmt.Fprintln(out, theme.Pass.Render("Correct! Your fortress has been upgraded."))
				} else {
					fmt.Fprintln(out, theme.Fail.Render("That's not quite right. Your fortress remains unchanged."))
				}
				if err := c.app.SaveQuest(cmd.Context(), q); err != nil {
					return err
				}
				fmt.Fprintln(out, ui.RenderFortress(theme, q.Level(), ascii))

				again := true
				if err := c.runForm(cmd, huh.NewGroup(
					huh.NewConfirm().Title("Start a new challenge?").Value(&again),
				)); err != nil {
					return err
				}
				if !again {
					return nil
				}
			}
		},
	}
}

func (c *cli) escapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "escape",
		Short: "Solve puzzles to escape the emotion rooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			room, err := c.app.EscapeRoom()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			theme := c.app.Theme()
			for !room.Done() {
				fmt.Fprintln(out, ui.RenderEscapeRoom(theme, room))
				name, err := c.pickRoom(cmd, room)
				if err != nil {
					return err
				}
				r, ok := room.Enter(name)
				if !ok {
					continue
				}
				for {
					pick, err := c.pickOption(cmd, r.Question.Question, r.Options)
					if err != nil {
						return err
					}
					if res := room.Solve(pick); res.Correct {
						fmt.Fprintf(out, "%s\n\n", theme.Pass.Render("The "+r.Name+" room opens."))
						break
					}
					fmt.Fprintln(out, theme.Fail.Render("That's not quite right. Try again!"))
				}
			}
			fmt.Fprintln(out, ui.RenderEscapeRoom(theme, room))
			return nil
		},
	}
}

func (c *cli) pickRoom(cmd *cobra.Command, room *cbt.EscapeRoom) (string, error) {
	opts := make([]huh.Option[string], 0)
	for _, r := range room.Rooms() {
		if !room.IsEscaped(r.Name) {
			opts = append(opts, huh.NewOption(strings.ToUpper(r.Name[:1])+r.Name[1:], r.Name))
		}
	}
	var name string
	err := c.runForm(cmd, huh.NewGroup(
		huh.NewSelect[string]().Title("Choose a room").Options(opts...).Value(&name),
	))
	return name, err
}

func (c *cli) pickOption(cmd *cobra.Command, question string, options []string) (int, error) {
	opts := make([]huh.Option[int], 0, len(options))
	for i, o := range options {
		opts = append(opts, huh.NewOption(o, i))
	}
	var pick int
	err := c.runForm(cmd, huh.NewGroup(
		huh.NewSelect[int]().Title(question).Options(opts...).Value(&pick),
	))
	return pick, err
}
