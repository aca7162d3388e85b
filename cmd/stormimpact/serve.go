package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/storm-impact-etl/internal/adapter/http"
	"github.com/couchcryptid/storm-impact-etl/internal/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pipeline once and serve the report, health and metrics over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		metrics := observability.NewMetrics()
		p, closeSinks := buildPipeline(metrics)
		defer closeSinks()

		srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Start HTTP server.
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
				stop()
			}
		}()

		// Start the pipeline; /readyz flips once it completes.
		go func() {
			if _, err := fetchAndRun(ctx, p, metrics); err != nil {
				logError(err)
			}
		}()

		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
