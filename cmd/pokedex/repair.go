package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/pokedex/internal/errors"
	redisclient "github.com/KirkDiggler/pokedex/internal/redis"
	progressrepo "github.com/KirkDiggler/pokedex/internal/repositories/progress"
)

func newRepairCmd(c *cli) *cobra.Command {
	var (
		pattern      string
		dryRun       bool
		resetCorrupt bool
	)

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Migrate or reset progress blobs stored in redis",
		Long: `Scan redis for progress blobs, rewrite those saved by older versions
in the current format and report (or reset) the ones that cannot be read.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoStore: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.cfg.Redis.Endpoint == "" {
				return errors.FailedPrecondition("repair requires redis.endpoint")
			}
			client, err := redisclient.NewClient(c.cfg.Redis.Endpoint, nil)
			if err != nil {
				return errors.Wrap(err, "failed to create redis client")
			}
			defer client.Close()

			if pattern == "" {
				pattern = c.cfg.Storage.Key
			}

			res, err := progressrepo.RepairRedis(cmd.Context(), progressrepo.RepairInput{
				Client:       client,
				Pattern:      pattern,
				DryRun:       dryRun,
				ResetCorrupt: resetCorrupt,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scanned %d keys: %d current, %d migrated, %d corrupt\n",
				res.Scanned, res.Current, len(res.Migrated), len(res.Corrupt))
			if len(res.Migrated) > 0 {
				fmt.Fprintf(out, "Migrated: %s\n", strings.Join(res.Migrated, ", "))
			}
			if len(res.Corrupt) > 0 {
				fmt.Fprintf(out, "Corrupt:  %s\n", strings.Join(res.Corrupt, ", "))
			}
			if len(res.Reset) > 0 {
				fmt.Fprintf(out, "Reset:    %s\n", strings.Join(res.Reset, ", "))
			}
			if dryRun {
				fmt.Fprintln(out, "Dry run: nothing was written")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "Key pattern to scan (default storage.key)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report without writing")
	cmd.Flags().BoolVar(&resetCorrupt, "reset-corrupt", false, "Overwrite unreadable blobs with a fresh state")

	return cmd
}
