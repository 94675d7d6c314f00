package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/trackinventory/internal/client/cli"
	"github.com/dmitrijs2005/trackinventory/internal/client/config"
	"github.com/dmitrijs2005/trackinventory/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "trackinv",
	Short:        "Interactive client for the inventory service",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger := logging.New(cfg.LogLevel, os.Stderr)
		app, err := cli.NewApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		return app.Run(ctx, os.Stdin)
	},
}

func init() {
	config.RegisterFlags(rootCmd.Flags())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
