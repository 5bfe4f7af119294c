// Package cli holds the bookstore command tree.
package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bookstore/bookstore-api/internal/app"
	"bookstore/bookstore-api/internal/config"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bookstore",
		Short:         "Bookstore catalogue and review service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newHashPasswordCommand(), newWaitReadyCommand())
	return root
}

func newServeCommand() *cobra.Command {
	var addr, logLevel string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.HTTP.Addr = addr
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			return a.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides HTTP_ADDR")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error; overrides LOG_LEVEL")
	return cmd
}
