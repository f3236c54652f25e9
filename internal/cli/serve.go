package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"value-scout/internal/config"
	"value-scout/internal/logging"
	"value-scout/internal/server"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive explorer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := config.FromContext(ctx)

			ds, err := loadDataset(ctx, cfg)
			if err != nil {
				return err
			}

			srv := server.New(ds, logging.FromContext(ctx))

			return srv.ListenAndServe(ctx, cfg.Addr, cfg.ShutdownTimeout)
		},
	}

	f := cmd.Flags()
	f.String("addr", ":8080", "listen address")
	f.Duration("shutdown-timeout", config.Default().ShutdownTimeout, "grace period for in-flight requests")

	return cmd
}
