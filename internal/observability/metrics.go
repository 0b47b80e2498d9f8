package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the chart pipeline.
type Metrics struct {
	RecordsLoaded    *prometheus.CounterVec // labels: basin
	FilesLoaded      prometheus.Counter
	PivotFilledCells *prometheus.CounterVec // labels: metric
	CacheWrites      *prometheus.CounterVec // labels: metric, result={written,skipped,error}
	StageErrors      *prometheus.CounterVec // labels: stage={load,extract,cache,publish,render,store}

	ChartsRendered prometheus.Counter
	RenderDuration prometheus.Histogram
	RowsPublished  prometheus.Counter

	// Serve-mode render cache.
	RenderCache *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hurricane_chart",
			Name:      "records_loaded_total",
			Help:      "Basin season records parsed from JSON files.",
		}, []string{"basin"}),
		FilesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hurricane_chart",
			Name:      "files_loaded_total",
			Help:      "Basin JSON files read from the data directory.",
		}),
		PivotFilledCells: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hurricane_chart",
			Name:      "pivot_filled_cells_total",
			Help:      "Basin and season cells missing from the source and zero-filled.",
		}, []string{"metric"}),
		CacheWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hurricane_chart",
			Name:      "cache_writes_total",
			Help:      "Chart source cache outcomes by metric.",
		}, []string{"metric", "result"}),
		StageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hurricane_chart",
			Name:      "stage_errors_total",
			Help:      "Pipeline failures by stage.",
		}, []string{"stage"}),
		ChartsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hurricane_chart",
			Name:      "charts_rendered_total",
			Help:      "Charts rendered successfully.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hurricane_chart",
			Name:      "render_duration_seconds",
			Help:      "Duration of a complete load-extract-render run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		RowsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hurricane_chart",
			Name:      "rows_published_total",
			Help:      "Chart rows written to the Kafka topic.",
		}),
		RenderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hurricane_chart",
			Name:      "render_cache_total",
			Help:      "Rendered chart cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.RecordsLoaded,
		m.FilesLoaded,
		m.PivotFilledCells,
		m.CacheWrites,
		m.StageErrors,
		m.ChartsRendered,
		m.RenderDuration,
		m.RowsPublished,
		m.RenderCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsLoaded:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hurricane_chart", Name: "records_loaded_total"}, []string{"basin"}),
		FilesLoaded:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hurricane_chart", Name: "files_loaded_total"}),
		PivotFilledCells: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hurricane_chart", Name: "pivot_filled_cells_total"}, []string{"metric"}),
		CacheWrites:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hurricane_chart", Name: "cache_writes_total"}, []string{"metric", "result"}),
		StageErrors:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hurricane_chart", Name: "stage_errors_total"}, []string{"stage"}),
		ChartsRendered:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hurricane_chart", Name: "charts_rendered_total"}),
		RenderDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "hurricane_chart", Name: "render_duration_seconds"}),
		RowsPublished:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "hurricane_chart", Name: "rows_published_total"}),
		RenderCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "hurricane_chart", Name: "render_cache_total"}, []string{"result"}),
	}
}
