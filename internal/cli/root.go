// Package cli implements the cobra command tree for value-scout.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"value-scout/internal/config"
	"value-scout/internal/dataset"
	"value-scout/internal/logging"
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)

		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}

		return 1
	}

	return 0
}

// NewRootCommand constructs the top-level command with all subcommands.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "value-scout",
		Short: "Explore actual vs predicted football player market values",
		Long: `value-scout serves an interactive explorer that compares football
players' actual market values with the values predicted by a model.

Players are labelled from highly undervalued to highly overvalued by the
difference between predicted and actual value, and can be filtered by role,
age, rating, position and name.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			logger := logging.Setup(cfg, cmd.ErrOrStderr())

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("logLevel", cfg.LogLevel),
				slog.String("configFile", cfg.ConfigFile),
			)

			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .value-scout.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")
	pf.String("field-csv", "", "field player CSV export")
	pf.String("goalkeeper-csv", "", "goalkeeper CSV export")
	pf.String("sqlite", "", "SQLite snapshot written by seed (overrides the CSV files)")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Err: err}
	})

	cmd.AddCommand(
		newServeCommand(),
		newQueryCommand(),
		newSeedCommand(),
		newVersionCommand(),
	)

	return cmd
}

// loadDataset reads the configured source. Any failure is fatal for the
// calling command.
func loadDataset(ctx context.Context, cfg *config.Config) (*dataset.Dataset, error) {
	if err := cfg.ValidateSource(); err != nil {
		return nil, &ExitError{Code: 2, Err: err}
	}

	logger := logging.FromContext(ctx)

	var (
		ds  *dataset.Dataset
		err error
	)
	if cfg.SQLite != "" {
		ds, err = dataset.LoadSQLite(ctx, cfg.SQLite)
	} else {
		ds, err = dataset.LoadCSV(cfg.FieldCSV, cfg.GoalkeeperCSV)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("dataset loaded", slog.String("dataset", ds.String()))

	return ds, nil
}
