package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/storm-data-hurricane-chart/internal/adapter/gonumplot"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/adapter/jsonfile"
	kafkaadapter "github.com/couchcryptid/storm-data-hurricane-chart/internal/adapter/kafka"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/adapter/objectstore"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/adapter/parquet"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/config"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/observability"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/pipeline"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "chart",
	Short:         "Global hurricane frequency chart pipeline",
	Long:          "Load per-basin CSU season statistics, pivot them per metric, cache the chart source as Parquet, and render a stacked bar chart.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var flags struct {
	metric string
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flags.metric, "metric", "", "statistic to chart (default $CHART_METRIC)")
	rootCmd.AddCommand(renderCmd, extractCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("chart failed", "error", err)
		os.Exit(1)
	}
}

// app holds the wired pipeline for one command invocation.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *observability.Metrics
	pipeline *pipeline.Pipeline
	closers  []func() error
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	renderer, err := gonumplot.NewRenderer(cfg.ChartFormat)
	if err != nil {
		return nil, err
	}

	opts, closers, err := optionalStages(cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, metrics: metrics, closers: closers}

	a.pipeline = pipeline.New(
		jsonfile.NewSource(cfg.DataDir, logger, metrics),
		parquet.NewCache(cfg.CacheDir, logger),
		renderer,
		logger,
		metrics,
		opts...,
	)
	return a, nil
}

// closingPublisher is a pipeline.Publisher holding a connection.
type closingPublisher interface {
	pipeline.Publisher
	Close() error
}

var newPublisher = func(cfg *config.Config, logger *slog.Logger) closingPublisher {
	return kafkaadapter.NewWriter(cfg, logger)
}

// optionalStages builds the publisher and artifact store enabled in cfg and
// returns their closers. On error, anything already opened is closed.
func optionalStages(cfg *config.Config, logger *slog.Logger) ([]pipeline.Option, []func() error, error) {
	var opts []pipeline.Option
	var closers []func() error

	if cfg.KafkaEnabled() {
		writer := newPublisher(cfg, logger)
		closers = append(closers, writer.Close)
		opts = append(opts, pipeline.WithPublisher(writer))
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	if cfg.S3Enabled() {
		store, err := objectstore.NewStore(cfg, logger)
		if err != nil {
			for _, c := range closers {
				if cerr := c(); cerr != nil {
					logger.Error("close error", "error", cerr)
				}
			}
			return nil, nil, err
		}
		opts = append(opts, pipeline.WithArtifactStore(store))
		logger.Info("chart upload enabled", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	}
	return opts, closers, nil
}

// metricName returns the --metric flag, falling back to CHART_METRIC.
func (a *app) metricName() string {
	if flags.metric != "" {
		return flags.metric
	}
	return a.cfg.ChartMetric
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Error("close error", "error", err)
		}
	}
}
