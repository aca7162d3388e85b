package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/storm-impact-etl/internal/domain"
	"github.com/couchcryptid/storm-impact-etl/internal/report"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SummaryProvider returns the summary of the most recent completed run.
type SummaryProvider interface {
	LastSummary() (domain.Summary, bool)
}

// Server exposes health, readiness, metrics and report HTTP endpoints.
type Server struct {
	httpServer *http.Server
	summaries  SummaryProvider
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /report and /report.json routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, summaries SummaryProvider, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		summaries: summaries,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /report", s.handleReport(report.FormatHTML, "text/html; charset=utf-8"))
	mux.HandleFunc("GET /report.json", s.handleReport(report.FormatJSON, "application/json"))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleReport renders the last summary in format. The body is buffered so
// a render failure still answers 500 instead of a truncated 200.
func (s *Server) handleReport(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		sum, ok := s.summaries.LastSummary()
		if !ok {
			sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no report available yet"})
			return
		}
		var buf bytes.Buffer
		if err := report.Render(&buf, sum, format); err != nil {
			s.logger.Error("render report", "format", format, "error", err)
			sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "render report failed"})
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes()) //nolint:errcheck // client went away
	}
}
