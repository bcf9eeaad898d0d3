package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"followexport/core"
	"followexport/export"
)

func (a *App) diffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <username>",
		Short: "Compare the two newest exports of a username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.baseDependencies(cmd)
			if err != nil {
				return err
			}
			defer d.Close()

			username := strings.TrimPrefix(strings.TrimSpace(args[0]), "@")
			history, err := export.History(a.fs, d.exporter.Dir(), username)
			if err != nil {
				return fmt.Errorf("cannot list exports: %w", err)
			}
			if len(history) < 2 {
				return fmt.Errorf("need two exports of @%s to compare, found %d", username, len(history))
			}

			current, err := export.Read(a.fs, history[0].Path)
			if err != nil {
				return err
			}
			previous, err := export.Read(a.fs, history[1].Path)
			if err != nil {
				return err
			}

			added, removed := core.Diff(previous, current)

			fmt.Fprintf(a.stdout, "Comparing %s with %s\n", history[1].Path, history[0].Path)
			if len(added) == 0 && len(removed) == 0 {
				fmt.Fprintln(a.stdout, "No changes.")
				return nil
			}

			printHandles(a.stdout, color.New(color.FgGreen), "New followings", "+", added)
			printHandles(a.stdout, color.New(color.FgRed), "No longer followed", "-", removed)
			return nil
		},
	}
}

func printHandles(out io.Writer, c *color.Color, title string, mark string, handles core.FollowingList) {
	if len(handles) == 0 {
		return
	}

	fmt.Fprintf(out, "%s (%d):\n", title, len(handles))
	for _, h := range handles {
		c.Fprintf(out, "  %s %s\n", mark, h)
	}
}
