package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-hurricane-chart/internal/domain"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/observability"
)

// Loader reads and combines every basin file.
type Loader interface {
	LoadAll(ctx context.Context) ([]domain.BasinRecord, error)
}

// CacheWriter persists a chart table once per metric.
type CacheWriter interface {
	WriteIfAbsent(t domain.ChartTable) (bool, error)
}

// Renderer draws a chart table in a fixed output format.
type Renderer interface {
	Render(w io.Writer, t domain.ChartTable) error
	Format() string
	ContentType() string
}

// Publisher sends chart rows downstream.
type Publisher interface {
	Publish(ctx context.Context, t domain.ChartTable) error
}

// ArtifactStore keeps rendered charts.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// Chart is a rendered chart and its encoding.
type Chart struct {
	Metric      domain.Metric
	Format      string
	ContentType string
	Data        []byte
}

// Filename is the output file name used by the render command.
func (c Chart) Filename() string {
	return fmt.Sprintf("hurricane-frequency-%s.%s", c.Metric, c.Format)
}

// ObjectKey is the artifact store key for the chart.
func (c Chart) ObjectKey() string {
	return fmt.Sprintf("charts/%s.%s", c.Metric, c.Format)
}

// Option configures optional pipeline stages.
type Option func(*Pipeline)

// WithPublisher publishes every extracted table.
func WithPublisher(pub Publisher) Option {
	return func(p *Pipeline) {
		p.publisher = pub
	}
}

// WithArtifactStore uploads every rendered chart.
func WithArtifactStore(store ArtifactStore) Option {
	return func(p *Pipeline) {
		p.store = store
	}
}

// Pipeline orchestrates load, extract, cache, publish, and render.
type Pipeline struct {
	loader    Loader
	extractor *ChartExtractor
	cache     CacheWriter
	renderer  Renderer
	publisher Publisher
	store     ArtifactStore
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(l Loader, c CacheWriter, r Renderer, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		loader:    l,
		extractor: NewExtractor(logger),
		cache:     c,
		renderer:  r,
		logger:    logger,
		metrics:   metrics,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once a chart has been rendered.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not rendered a chart yet")
	}
	return nil
}

// Ready reports whether a chart has been rendered.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// Extract loads all basin files, pivots them for m, caches the result, and
// publishes it. The returned table is the in-memory one whether or not the
// cache was written.
func (p *Pipeline) Extract(ctx context.Context, m domain.Metric) (domain.ChartTable, error) {
	table, err := p.extract(ctx, m)
	if err != nil {
		return domain.ChartTable{}, err
	}
	if err := p.publish(ctx, table); err != nil {
		return domain.ChartTable{}, err
	}
	return table, nil
}

func (p *Pipeline) extract(ctx context.Context, m domain.Metric) (domain.ChartTable, error) {
	records, err := p.loader.LoadAll(ctx)
	if err != nil {
		p.metrics.StageErrors.WithLabelValues("load").Inc()
		return domain.ChartTable{}, err
	}

	table, stats, err := p.extractor.Extract(records, m)
	if err != nil {
		p.metrics.StageErrors.WithLabelValues("extract").Inc()
		return domain.ChartTable{}, err
	}
	p.metrics.PivotFilledCells.WithLabelValues(string(m)).Add(float64(stats.Filled))

	written, err := p.cache.WriteIfAbsent(table)
	if err != nil {
		p.metrics.StageErrors.WithLabelValues("cache").Inc()
		p.metrics.CacheWrites.WithLabelValues(string(m), "error").Inc()
		return domain.ChartTable{}, fmt.Errorf("cache chart source: %w", err)
	}
	if written {
		p.metrics.CacheWrites.WithLabelValues(string(m), "written").Inc()
	} else {
		p.metrics.CacheWrites.WithLabelValues(string(m), "skipped").Inc()
	}

	p.logger.Info("chart source extracted",
		"metric", m,
		"basins", len(table.Rows),
		"seasons", len(table.Seasons),
		"cache_written", written,
	)
	return table, nil
}

func (p *Pipeline) publish(ctx context.Context, table domain.ChartTable) error {
	if p.publisher == nil {
		return nil
	}
	if err := p.publisher.Publish(ctx, table); err != nil {
		p.metrics.StageErrors.WithLabelValues("publish").Inc()
		return fmt.Errorf("publish chart source: %w", err)
	}
	p.metrics.RowsPublished.Add(float64(len(table.Rows)))
	return nil
}

// Run extracts and renders the chart for m. A metric without a chart preset
// fails before any file is read. The table is published only after it has
// rendered, so a table the renderer rejects never reaches downstream.
func (p *Pipeline) Run(ctx context.Context, m domain.Metric) (Chart, error) {
	start := time.Now()

	if _, err := domain.PresetFor(m); err != nil {
		p.metrics.StageErrors.WithLabelValues("render").Inc()
		return Chart{}, err
	}

	table, err := p.extract(ctx, m)
	if err != nil {
		return Chart{}, err
	}

	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, table); err != nil {
		p.metrics.StageErrors.WithLabelValues("render").Inc()
		return Chart{}, err
	}

	if err := p.publish(ctx, table); err != nil {
		return Chart{}, err
	}

	chart := Chart{
		Metric:      m,
		Format:      p.renderer.Format(),
		ContentType: p.renderer.ContentType(),
		Data:        buf.Bytes(),
	}

	if p.store != nil {
		if err := p.store.Put(ctx, chart.ObjectKey(), chart.Data, chart.ContentType); err != nil {
			p.metrics.StageErrors.WithLabelValues("store").Inc()
			return Chart{}, fmt.Errorf("store chart: %w", err)
		}
	}

	p.metrics.ChartsRendered.Inc()
	p.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)

	p.logger.Info("chart rendered", "metric", m, "format", chart.Format, "bytes", len(chart.Data))
	return chart, nil
}
