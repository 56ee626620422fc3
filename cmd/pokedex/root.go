package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/pokedex/internal/config"
)

// annotationNoStore marks commands that run without loading progress
const annotationNoStore = "pokedex/no-store"

type cli struct {
	deps deps

	// Persistent flags
	configPath  string
	logLevel    string
	backend     string
	showMetrics bool

	cfg  *config.Config
	app  *app
	root *cobra.Command
}

func newCLI(d deps) *cli {
	c := &cli{deps: d}

	rootCmd := &cobra.Command{
		Use:   "pokedex",
		Short: "Browse the first generation of Pokémon and track your progress",
		Long: `pokedex browses creatures from PokeAPI and rewards you for exploring:
points for discoveries, daily streaks and quizzes, levels, titles and badges.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&c.backend, "storage", "", "Progress storage backend (file, redis, memory)")
	rootCmd.PersistentFlags().BoolVar(&c.showMetrics, "metrics", false, "Print catalog fetch counters on exit")

	rootCmd.AddCommand(newBrowseCmd(c))
	rootCmd.AddCommand(newShowCmd(c))
	rootCmd.AddCommand(newDiscoverCmd(c))
	rootCmd.AddCommand(newFavoriteCmd(c))
	rootCmd.AddCommand(newFilterCmd(c))
	rootCmd.AddCommand(newSearchCmd(c))
	rootCmd.AddCommand(newThemeCmd(c))
	rootCmd.AddCommand(newQuizCmd(c))
	rootCmd.AddCommand(newProgressCmd(c))
	rootCmd.AddCommand(newRepairCmd(c))

	c.root = rootCmd
	return c
}

// execute runs the command line and tears the session down on every exit
// path, so a failed command still reports what it earned
func (c *cli) execute(ctx context.Context) error {
	err := c.root.ExecuteContext(ctx)
	c.teardown()
	return err
}

// setup loads configuration, installs the logger and opens the session.
// Opening a session refreshes the daily streak once.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.LoadInput{
		Path:     c.configPath,
		EnvFiles: []string{".env"},
		Getenv:   c.deps.Getenv,
	})
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.backend != "" {
		cfg.Storage.Backend = c.backend
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	if cmd.Annotations[annotationNoStore] == "true" {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg, c.deps)
	if err != nil {
		return err
	}
	c.app = a

	streak, err := a.store.RefreshDailyStreak(ctx)
	if err := warnFlush(ctx, err); err != nil {
		return err
	}
	if streak.Refreshed {
		fmt.Fprintf(cmd.OutOrStdout(), "🔥 Day %d streak! +%d points\n", streak.Streak, streak.Award.PointsAwarded)
	}
	return nil
}

// teardown prints anything earned during the command and closes the app
func (c *cli) teardown() {
	if c.app == nil {
		return
	}
	out := c.root.OutOrStdout()

	for _, notice := range c.app.drainNotices() {
		fmt.Fprintln(out, notice)
	}
	if lu, ok := c.app.store.ConsumeLevelUp(); ok {
		fmt.Fprintf(out, "⭐ LEVEL UP! %d → %d\n", lu.From, lu.To)
	}
	if c.showMetrics {
		printMetrics(out, c.app.registry)
	}

	c.app.close()
	c.app = nil
}
