package main

import (
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/pokedex/internal/orchestrators/catalog"
)

func newBrowseCmd(c *cli) *cobra.Command {
	var (
		page     int
		pageSize int
		search   string
		types    []string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "List Pokémon, applying the saved search and type filters",
		Long: `List Pokémon one page at a time. Without --search or --type the
search term and type filters saved by the search and filter commands apply.

  browse --page 2
  browse --search char
  browse --type fire --type water`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			state := c.app.store.Snapshot().State

			query := catalog.Query{
				SearchTerm: state.SearchTerm,
				Types:      state.SelectedTypeNames(),
				Page:       page,
				PageSize:   pageSize,
			}
			if cmd.Flags().Changed("search") {
				query.SearchTerm = search
			}
			if cmd.Flags().Changed("type") {
				query.Types = types
			}
			if query.PageSize == 0 {
				query.PageSize = c.cfg.Catalog.PageSize
			}

			loaded, err := c.app.loader.Load(ctx)
			if err != nil {
				return err
			}

			printPage(cmd.OutOrStdout(), catalog.Browse(loaded.Creatures, query), state)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Results per page (default from config)")
	cmd.Flags().StringVar(&search, "search", "", "Name or number to search for")
	cmd.Flags().StringSliceVar(&types, "type", nil, "Only show these types")

	return cmd
}
