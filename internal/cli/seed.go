package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"value-scout/internal/config"
	"value-scout/internal/dataset"
	"value-scout/internal/logging"
	"value-scout/internal/player"
)

func newSeedCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import the CSV exports into a SQLite snapshot",
		Long: `Seed reads the field player and goalkeeper CSV exports and writes them
into a SQLite snapshot that serve and query can load with --sqlite.
Existing rows in the snapshot are replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)

			if out == "" {
				return &ExitError{Code: 2, Err: errors.New("--out is required")}
			}
			if cfg.FieldCSV == "" || cfg.GoalkeeperCSV == "" {
				return &ExitError{Code: 2, Err: errors.New("seed needs --field-csv and --goalkeeper-csv")}
			}

			ds, err := dataset.LoadCSV(cfg.FieldCSV, cfg.GoalkeeperCSV)
			if err != nil {
				return err
			}

			if err := dataset.Seed(ctx, out, ds); err != nil {
				return err
			}

			logging.FromContext(ctx).Info("snapshot written", slog.String("path", out))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %s: %d field players, %d goalkeepers\n",
				out, len(ds.Records(player.FieldPlayer)), len(ds.Records(player.Goalkeeper)))

			return err
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "SQLite snapshot to write")

	return cmd
}
