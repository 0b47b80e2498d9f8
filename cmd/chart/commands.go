package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	httpadapter "github.com/couchcryptid/storm-data-hurricane-chart/internal/adapter/http"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/domain"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the chart to $OUTPUT_DIR",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Load, pivot, and cache the chart source without rendering",
	Args:  cobra.NoArgs,
	RunE:  runExtract,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve charts, health probes, and metrics over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runRender(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	m, err := domain.ParseMetric(a.metricName())
	if err != nil {
		return err
	}

	chart, err := a.pipeline.Run(cmd.Context(), m)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(a.cfg.OutputDir, chart.Filename())
	if err := os.WriteFile(path, chart.Data, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	a.logger.Info("chart written", "path", path)
	return nil
}

func runExtract(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	m, err := domain.ParseMetric(a.metricName())
	if err != nil {
		return err
	}

	table, err := a.pipeline.Extract(cmd.Context(), m)
	if err != nil {
		return err
	}
	for _, row := range table.Rows {
		var total float64
		for _, v := range row.Values {
			total += v
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-18s %6d seasons  total %g\n", row.Basin, len(row.Values), total)
	}
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	m, err := domain.ParseMetric(a.metricName())
	if err != nil {
		return err
	}

	charts, err := httpadapter.NewCachedCharts(a.pipeline, a.cfg.ChartCacheSize, a.metrics)
	if err != nil {
		return fmt.Errorf("create chart cache: %w", err)
	}
	srv := httpadapter.NewServer(a.cfg.HTTPAddr, a.pipeline, charts, a.logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Warm the default chart so readiness flips without an external request.
	go func() {
		if _, err := charts.Run(ctx, m); err != nil {
			a.logger.Error("initial render failed", "metric", m, "error", err)
		}
	}()

	<-ctx.Done()
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", "error", err)
	}
	a.logger.Info("shutdown complete")
	return nil
}
