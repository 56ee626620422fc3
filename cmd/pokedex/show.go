package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/pokedex/internal/entities"
	"github.com/KirkDiggler/pokedex/internal/errors"
)

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show [number|name]",
		Short: "Show a Pokémon's details and record it as discovered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			creature, err := c.app.fetcher.GetCreature(ctx, args[0])
			if err != nil {
				return err
			}

			if err := c.discover(ctx, out, creature); err != nil {
				return err
			}
			printCreature(out, creature, c.app.store.Snapshot().State)
			c.printSpecies(ctx, out, creature)
			return nil
		},
	}
}

func newDiscoverCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "discover [number]",
		Short: "Record a Pokémon as discovered without fetching it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCreatureID(args[0])
			if err != nil {
				return err
			}
			return c.discover(cmd.Context(), cmd.OutOrStdout(), &entities.Creature{ID: id})
		},
	}
}

func (c *cli) discover(ctx context.Context, w io.Writer, creature *entities.Creature) error {
	res, err := c.app.store.RecordDiscovery(ctx, creature.ID)
	if err := warnFlush(ctx, err); err != nil {
		return err
	}

	label := fmt.Sprintf("#%03d", creature.ID)
	if creature.Name != "" {
		label = entities.DisplayName(creature.Name)
	}
	if res.FirstTime {
		fmt.Fprintf(w, "✨ New discovery: %s! +%d points\n\n", label, res.Award.PointsAwarded)
	} else if creature.Name == "" {
		fmt.Fprintf(w, "%s is already discovered\n", label)
	}
	return nil
}

// printSpecies adds species and evolution details. Both are best effort.
func (c *cli) printSpecies(ctx context.Context, w io.Writer, creature *entities.Creature) {
	if creature.SpeciesURL == "" {
		return
	}

	species, err := c.app.fetcher.GetSpecies(ctx, creature.SpeciesURL)
	if err != nil {
		slog.WarnContext(ctx, "Species details unavailable", "creature_id", creature.ID, "error", err)
		return
	}
	if species.Genus != "" {
		fmt.Fprintf(w, "Species: %s\n", species.Genus)
	}
	if species.FlavorText != "" {
		fmt.Fprintf(w, "\n%s\n", species.FlavorText)
	}

	chain, err := c.app.fetcher.GetEvolutionChain(ctx, creature.SpeciesURL)
	if err != nil {
		slog.WarnContext(ctx, "Evolution chain unavailable", "creature_id", creature.ID, "error", err)
		return
	}
	if path := chain.PrimaryPath(); len(path) > 1 {
		fmt.Fprintf(w, "\nEvolution: %s\n", entities.FormatPath(path))
	}
}

func parseCreatureID(arg string) (entities.CreatureID, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, errors.InvalidArgumentf("invalid Pokémon number %q", arg)
	}
	return entities.CreatureID(n), nil
}
