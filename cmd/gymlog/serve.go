// ABOUTME: CLI command for running the HTTP API.
// ABOUTME: Serves until SIGINT or SIGTERM, then drains in-flight requests.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/harperreed/gymlog/internal/api"
	"github.com/harperreed/gymlog/internal/logging"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var serveAddress string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON HTTP API.

ROUTES:

  GET/POST            /exercises
  GET/PATCH/DELETE    /exercises/{id}
  GET                 /exercises/{id}/workouts
  GET/POST            /workouts
  GET/PATCH/DELETE    /workouts/{id}
  POST                /workouts/{workout_id}/exercises/{exercise_id}/workout_exercises
  GET/DELETE          /workout_exercises/{id}
  GET                 /healthz
  GET                 /metrics   (Prometheus)

The listen address comes from --addr, GYMLOG_HTTP_ADDRESS or http_address
in the config file, defaulting to :5555.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.GetHTTPAddress()
		if cmd.Flags().Changed("addr") {
			addr = serveAddress
		}

		logger := logging.Component("api")
		srv := api.NewServer(api.DefaultServerConfig(addr), api.NewHandler(repo, logger).Routes())

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", addr, "backend", cfg.GetBackend())
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("http server: %w", err)
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "addr", "", "listen address (default :5555)")
	rootCmd.AddCommand(serveCmd)
}
