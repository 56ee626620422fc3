package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/KirkDiggler/pokedex/internal/entities"
	"github.com/KirkDiggler/pokedex/internal/orchestrators/catalog"
	"github.com/KirkDiggler/pokedex/internal/progression"
)

const progressBarWidth = 20

func printPage(w io.Writer, page *catalog.Page, state *entities.ProgressState) {
	if page.Total == 0 {
		fmt.Fprintln(w, "No Pokémon match your search.")
		return
	}

	for _, c := range page.Creatures {
		marks := ""
		if state.IsFavorite(c.ID) {
			marks += " ★"
		}
		if state.IsDiscovered(c.ID) {
			marks += " ✓"
		}
		fmt.Fprintf(w, "#%03d %-14s %-18s%s\n", c.ID, entities.DisplayName(c.Name), strings.Join(c.Types, "/"), marks)
	}
	fmt.Fprintf(w, "\nPage %d/%d (%d results)\n", page.Page, page.TotalPages, page.Total)
}

func printCreature(w io.Writer, c *entities.Creature, state *entities.ProgressState) {
	title := fmt.Sprintf("#%03d %s", c.ID, entities.DisplayName(c.Name))
	if state.IsFavorite(c.ID) {
		title += " ★"
	}
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "Types:   %s\n", strings.Join(c.Types, ", "))
	fmt.Fprintf(w, "Height:  %.1f m\n", c.HeightMeters())
	fmt.Fprintf(w, "Weight:  %.1f kg\n", c.WeightKilograms())

	if len(c.Stats) > 0 {
		fmt.Fprintln(w, "Stats:")
		for _, s := range c.Stats {
			fmt.Fprintf(w, "  %-16s %3d\n", s.Name, s.BaseValue)
		}
		fmt.Fprintf(w, "  %-16s %3d\n", "total", c.TotalStats())
	}

	if len(c.Abilities) > 0 {
		names := make([]string, len(c.Abilities))
		for i, a := range c.Abilities {
			names[i] = a.Name
			if a.IsHidden {
				names[i] += " (hidden)"
			}
		}
		fmt.Fprintf(w, "Abilities: %s\n", strings.Join(names, ", "))
	}

	if len(c.Moves) > 0 {
		moves := c.Moves
		if len(moves) > 10 {
			moves = moves[:10]
		}
		fmt.Fprintf(w, "Moves:   %s", strings.Join(moves, ", "))
		if extra := len(c.Moves) - len(moves); extra > 0 {
			fmt.Fprintf(w, " (+%d more)", extra)
		}
		fmt.Fprintln(w)
	}
}

func printSummary(w io.Writer, s progression.Summary) {
	filled := s.Progress * progressBarWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)

	fmt.Fprintf(w, "Level %d %s\n", s.Level, s.Title)
	fmt.Fprintf(w, "[%s] %d%%\n", bar, s.Progress)
	if s.MaxLevel {
		fmt.Fprintf(w, "%d points (max level)\n", s.Points)
		return
	}
	fmt.Fprintf(w, "%d points, %d to level %d\n", s.Points, s.PointsRemaining, s.Level+1)
}

func printMetrics(w io.Writer, registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		fmt.Fprintf(w, "metrics unavailable: %v\n", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
		}
	}
}
