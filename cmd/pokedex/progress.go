package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newProgressCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show level, points, streak and badges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			snap := c.app.store.Snapshot()
			state := snap.State

			printSummary(out, snap.Summary)
			fmt.Fprintf(out, "Daily streak: %d\n", state.DailyStreak)
			fmt.Fprintf(out, "Discovered:   %d/%d\n", len(state.Discovered), c.cfg.Catalog.RosterSize)
			fmt.Fprintf(out, "Favorites:    %d\n", len(state.Favorites))
			fmt.Fprintf(out, "Quizzes aced: %d\n", len(state.CompletedQuizzes))

			if badges := state.BadgeNames(); len(badges) > 0 {
				fmt.Fprintf(out, "Badges:       %s\n", strings.Join(badges, ", "))
			}
			fmt.Fprintf(out, "Theme:        %s\n", state.Theme)
			return nil
		},
	}
}
