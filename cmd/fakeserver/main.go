package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/trackinventory/internal/fakeapi"
	"github.com/dmitrijs2005/trackinventory/internal/logging"
	"github.com/spf13/cobra"
)

var (
	addr     string
	logLevel string
	tokenTTL time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "fakeserver",
	Short:        "Run an in-memory inventory backend for local development",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger := logging.New(logLevel, os.Stderr)
		api, err := fakeapi.New(fakeapi.WithLogger(logger), fakeapi.WithTokenTTL(tokenTTL))
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           api.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info(ctx, "fake backend listening", "addr", addr, "demo_user", fakeapi.DemoEmail)
			fmt.Fprintf(cmd.OutOrStdout(), "demo credentials: %s / %s\n", fakeapi.DemoEmail, fakeapi.DemoPassword)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info(ctx, "shutting down")
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&addr, "addr", "a", "127.0.0.1:8080", "listen address")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "debug", "log level (debug|info|warn|error)")
	rootCmd.Flags().DurationVar(&tokenTTL, "token-ttl", time.Hour, "access token lifetime")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
