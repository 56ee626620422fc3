package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/pokedex/internal/entities"
	"github.com/KirkDiggler/pokedex/internal/errors"
)

func newFavoriteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite [number]",
		Short: "Toggle a Pokémon as favorite, or list favorites",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				favorites := c.app.store.Snapshot().State.FavoriteIDs()
				if len(favorites) == 0 {
					fmt.Fprintln(out, "No favorites yet.")
					return nil
				}
				for _, id := range favorites {
					fmt.Fprintf(out, "★ #%03d\n", id)
				}
				return nil
			}

			id, err := parseCreatureID(args[0])
			if err != nil {
				return err
			}
			isFavorite, err := c.app.store.ToggleFavorite(ctx, id)
			if err := warnFlush(ctx, err); err != nil {
				return err
			}
			if isFavorite {
				fmt.Fprintf(out, "★ #%03d added to favorites\n", id)
			} else {
				fmt.Fprintf(out, "#%03d removed from favorites\n", id)
			}
			return nil
		},
	}
}

func newFilterCmd(c *cli) *cobra.Command {
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "filter [type...]",
		Short: "Toggle type filters used by browse",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			toggle := args
			if clearAll {
				toggle = append(c.app.store.Snapshot().State.SelectedTypeNames(), args...)
			}
			for _, t := range toggle {
				_, err := c.app.store.ToggleTypeFilter(ctx, t)
				if err := warnFlush(ctx, err); err != nil {
					return err
				}
			}

			selected := c.app.store.Snapshot().State.SelectedTypeNames()
			if len(selected) == 0 {
				fmt.Fprintln(out, "Type filter: all types")
			} else {
				fmt.Fprintf(out, "Type filter: %s\n", strings.Join(selected, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "Remove every type filter first")
	return cmd
}

func newSearchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "search [term...]",
		Short: "Save the search term used by browse; no term clears it",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			term := strings.Join(args, " ")
			if err := warnFlush(ctx, c.app.store.SetSearchTerm(ctx, term)); err != nil {
				return err
			}
			if term == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Search cleared")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Searching for %q\n", term)
			}
			return nil
		},
	}
}

func newThemeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Set the theme, or toggle it when no theme is given",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(entities.ThemeLight), string(entities.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var theme entities.Theme
			if len(args) == 0 {
				toggled, err := c.app.store.ToggleTheme(ctx)
				if err := warnFlush(ctx, err); err != nil {
					return err
				}
				theme = toggled
			} else {
				theme = entities.Theme(strings.ToLower(args[0]))
				if !theme.Valid() {
					return errors.InvalidArgumentf("unknown theme %q", args[0])
				}
				if err := warnFlush(ctx, c.app.store.SetTheme(ctx, theme)); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", theme)
			return nil
		},
	}
}
