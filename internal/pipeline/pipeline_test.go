package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/storm-data-hurricane-chart/internal/domain"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/observability"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockLoader struct {
	records []domain.BasinRecord
	err     error
	calls   int
}

func (m *mockLoader) LoadAll(_ context.Context) ([]domain.BasinRecord, error) {
	m.calls++
	return m.records, m.err
}

type mockCache struct {
	written []domain.ChartTable
	exists  bool
	err     error
}

func (m *mockCache) WriteIfAbsent(t domain.ChartTable) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.exists {
		return false, nil
	}
	m.written = append(m.written, t)
	return true, nil
}

type mockRenderer struct {
	tables []domain.ChartTable
	err    error
}

func (m *mockRenderer) Render(w io.Writer, t domain.ChartTable) error {
	if m.err != nil {
		return m.err
	}
	m.tables = append(m.tables, t)
	_, err := w.Write([]byte("chart"))
	return err
}

func (m *mockRenderer) Format() string      { return "png" }
func (m *mockRenderer) ContentType() string { return "image/png" }

// stackingRenderer rejects tables the way a real renderer does: every
// charted basin must have a row.
type stackingRenderer struct {
	mockRenderer
}

func (m *stackingRenderer) Render(w io.Writer, t domain.ChartTable) error {
	if _, _, err := domain.Stack(t, domain.StackOrder()); err != nil {
		return err
	}
	return m.mockRenderer.Render(w, t)
}

type mockPublisher struct {
	tables []domain.ChartTable
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, t domain.ChartTable) error {
	m.tables = append(m.tables, t)
	return m.err
}

type mockStore struct {
	keys []string
	err  error
}

func (m *mockStore) Put(_ context.Context, key string, _ []byte, _ string) error {
	m.keys = append(m.keys, key)
	return m.err
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func freezeClock(t *testing.T) clockwork.Clock {
	t.Helper()
	fakeClock := clockwork.NewFakeClockAt(time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() {
		domain.SetClock(nil)
	})
	return fakeClock
}

// allBasins returns a record for every charted basin and season, with
// major hurricane counts equal to the basin's stacking position.
func allBasins() []domain.BasinRecord {
	var records []domain.BasinRecord
	for i, b := range domain.StackOrder() {
		for y := uint16(1980); y <= 2023; y++ {
			records = append(records, domain.BasinRecord{Basin: b, Season: y, MajorHurricanes: i + 1, Hurricanes: 2 * (i + 1)})
		}
	}
	return records
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	freezeClock(t)
	ldr := &mockLoader{records: allBasins()}
	cache := &mockCache{}
	rnd := &mockRenderer{}
	metrics := newTestMetrics()

	p := pipeline.New(ldr, cache, rnd, slog.Default(), metrics)
	require.Error(t, p.CheckReadiness(context.Background()))

	chart, err := p.Run(context.Background(), domain.MajorHurricanes)
	require.NoError(t, err)

	assert.Equal(t, []byte("chart"), chart.Data)
	assert.Equal(t, "hurricane-frequency-major_hurricanes.png", chart.Filename())
	assert.Equal(t, "charts/major_hurricanes.png", chart.ObjectKey())
	assert.Equal(t, "image/png", chart.ContentType)

	require.Len(t, rnd.tables, 1)
	require.Len(t, cache.written, 1)
	assert.Empty(t, cmp.Diff(rnd.tables[0], cache.written[0]))
	assert.Len(t, rnd.tables[0].Seasons, 44)
	assert.Len(t, rnd.tables[0].Rows, 6)

	assert.True(t, p.Ready())
	require.NoError(t, p.CheckReadiness(context.Background()))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ChartsRendered), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.CacheWrites.WithLabelValues("major_hurricanes", "written")), 0)
}

func TestPipeline_Run_NoPresetFailsBeforeLoading(t *testing.T) {
	ldr := &mockLoader{records: allBasins()}
	p := pipeline.New(ldr, &mockCache{}, &mockRenderer{}, slog.Default(), newTestMetrics())

	_, err := p.Run(context.Background(), domain.ACE)
	require.ErrorIs(t, err, domain.ErrNoPreset)
	assert.Zero(t, ldr.calls)
	assert.False(t, p.Ready())
}

func TestPipeline_Run_LoadError(t *testing.T) {
	loadErr := errors.New("no basin files")
	rnd := &mockRenderer{}
	metrics := newTestMetrics()
	p := pipeline.New(&mockLoader{err: loadErr}, &mockCache{}, rnd, slog.Default(), metrics)

	_, err := p.Run(context.Background(), domain.MajorHurricanes)
	require.ErrorIs(t, err, loadErr)
	assert.Empty(t, rnd.tables)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.StageErrors.WithLabelValues("load")), 0)
}

func TestPipeline_Run_CacheErrorAborts(t *testing.T) {
	rnd := &mockRenderer{}
	p := pipeline.New(&mockLoader{records: allBasins()}, &mockCache{err: errors.New("disk full")}, rnd, slog.Default(), newTestMetrics())

	_, err := p.Run(context.Background(), domain.MajorHurricanes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache chart source")
	assert.Empty(t, rnd.tables)
}

func TestPipeline_Run_ExistingCacheStillRenders(t *testing.T) {
	rnd := &mockRenderer{}
	metrics := newTestMetrics()
	p := pipeline.New(&mockLoader{records: allBasins()}, &mockCache{exists: true}, rnd, slog.Default(), metrics)

	_, err := p.Run(context.Background(), domain.MajorHurricanes)
	require.NoError(t, err)
	assert.Len(t, rnd.tables, 1)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.CacheWrites.WithLabelValues("major_hurricanes", "skipped")), 0)
}

func TestPipeline_Run_RenderError(t *testing.T) {
	store := &mockStore{}
	p := pipeline.New(&mockLoader{records: allBasins()}, &mockCache{}, &mockRenderer{err: domain.ErrMissingBasin}, slog.Default(), newTestMetrics(),
		pipeline.WithArtifactStore(store))

	_, err := p.Run(context.Background(), domain.MajorHurricanes)
	require.ErrorIs(t, err, domain.ErrMissingBasin)
	assert.Empty(t, store.keys)
	assert.False(t, p.Ready())
}

func TestPipeline_Run_PublishesAndStores(t *testing.T) {
	pub := &mockPublisher{}
	store := &mockStore{}
	metrics := newTestMetrics()
	p := pipeline.New(&mockLoader{records: allBasins()}, &mockCache{}, &mockRenderer{}, slog.Default(), metrics,
		pipeline.WithPublisher(pub), pipeline.WithArtifactStore(store))

	_, err := p.Run(context.Background(), domain.Hurricanes)
	require.NoError(t, err)
	require.Len(t, pub.tables, 1)
	assert.Equal(t, domain.Hurricanes, pub.tables[0].Metric)
	assert.Equal(t, []string{"charts/hurricanes.png"}, store.keys)
	assert.InDelta(t, 6, testutil.ToFloat64(metrics.RowsPublished), 0)
}

func TestPipeline_Run_PublishError(t *testing.T) {
	store := &mockStore{}
	p := pipeline.New(&mockLoader{records: allBasins()}, &mockCache{}, &mockRenderer{}, slog.Default(), newTestMetrics(),
		pipeline.WithPublisher(&mockPublisher{err: errors.New("broker down")}), pipeline.WithArtifactStore(store))

	_, err := p.Run(context.Background(), domain.MajorHurricanes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish chart source")
	assert.Empty(t, store.keys)
	assert.False(t, p.Ready())
}

func TestPipeline_Run_RenderFailureDoesNotPublish(t *testing.T) {
	var records []domain.BasinRecord
	for y := uint16(1980); y <= 2023; y++ {
		records = append(records, domain.BasinRecord{Basin: domain.NorthAtlantic, Season: y, MajorHurricanes: 3})
	}
	pub := &mockPublisher{}
	rnd := &stackingRenderer{}
	p := pipeline.New(&mockLoader{records: records}, &mockCache{}, rnd, slog.Default(), newTestMetrics(),
		pipeline.WithPublisher(pub))

	_, err := p.Run(context.Background(), domain.MajorHurricanes)
	require.ErrorIs(t, err, domain.ErrMissingBasin)
	assert.Empty(t, pub.tables)
}

func TestPipeline_Extract_Publishes(t *testing.T) {
	pub := &mockPublisher{}
	p := pipeline.New(&mockLoader{records: allBasins()}, &mockCache{}, &mockRenderer{}, slog.Default(), newTestMetrics(),
		pipeline.WithPublisher(pub))

	_, err := p.Extract(context.Background(), domain.Hurricanes)
	require.NoError(t, err)
	assert.Len(t, pub.tables, 1)
}

func TestPipeline_Extract_DoesNotMarkReady(t *testing.T) {
	p := pipeline.New(&mockLoader{records: allBasins()}, &mockCache{}, &mockRenderer{}, slog.Default(), newTestMetrics())

	table, err := p.Extract(context.Background(), domain.ACE)
	require.NoError(t, err)
	assert.Equal(t, domain.ACE, table.Metric)
	assert.False(t, p.Ready())
}
