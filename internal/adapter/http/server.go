// Package http serves probes, Prometheus metrics, and rendered charts.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/storm-data-hurricane-chart/internal/domain"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ChartRunner renders the chart for a metric.
type ChartRunner interface {
	Run(ctx context.Context, m domain.Metric) (pipeline.Chart, error)
}

// Server exposes health, readiness, metrics, and chart HTTP endpoints.
type Server struct {
	httpServer *http.Server
	charts     ChartRunner
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// /charts/{metric} routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, charts ChartRunner, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		charts: charts,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /charts/{metric}", s.handleChart)

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

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	m, err := domain.ParseMetric(r.PathValue("metric"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	chart, err := s.charts.Run(r.Context(), m)
	switch {
	case errors.Is(err, domain.ErrNoPreset), errors.Is(err, domain.ErrUnknownMetric):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	case err != nil:
		s.logger.Error("chart request failed", "metric", m, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "chart rendering failed"})
		return
	}

	w.Header().Set("Content-Type", chart.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(chart.Data)))
	w.Header().Set("Content-Disposition", `inline; filename="`+chart.Filename()+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(chart.Data) //nolint:errcheck // client may have gone away
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort error response
}
