package http

import (
	"context"

	"github.com/couchcryptid/storm-data-hurricane-chart/internal/domain"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/observability"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/pipeline"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedCharts wraps a ChartRunner with an in-memory LRU keyed by metric.
// Failed renders are not cached.
type CachedCharts struct {
	inner   ChartRunner
	cache   *lru.Cache[domain.Metric, pipeline.Chart]
	metrics *observability.Metrics
}

// NewCachedCharts creates a cache decorator holding up to size charts.
func NewCachedCharts(inner ChartRunner, size int, metrics *observability.Metrics) (*CachedCharts, error) {
	cache, err := lru.New[domain.Metric, pipeline.Chart](size)
	if err != nil {
		return nil, err
	}
	return &CachedCharts{inner: inner, cache: cache, metrics: metrics}, nil
}

// Run returns the cached chart for m, rendering it on a miss.
func (c *CachedCharts) Run(ctx context.Context, m domain.Metric) (pipeline.Chart, error) {
	if chart, ok := c.cache.Get(m); ok {
		c.metrics.RenderCache.WithLabelValues("hit").Inc()
		return chart, nil
	}
	c.metrics.RenderCache.WithLabelValues("miss").Inc()

	chart, err := c.inner.Run(ctx, m)
	if err != nil {
		return chart, err
	}
	c.cache.Add(m, chart)
	return chart, nil
}
