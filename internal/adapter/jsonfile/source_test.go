package jsonfile

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/storm-data-hurricane-chart/internal/domain"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestSource(dir string) (*Source, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	return NewSource(dir, discardLogger(), m), m
}

func TestLoadBasin(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "northatlantic.json", `{"1980": [10,50,4,20,2,8,30.5], "1981": [12,62,7,22,3,4,100]}`)

	src, _ := newTestSource(dir)
	records, err := src.LoadBasin(domain.NorthAtlantic)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.NorthAtlantic, records[0].Basin)
	assert.Equal(t, 2, records[0].MajorHurricanes)
}

func TestLoadBasin_MissingFile(t *testing.T) {
	src, _ := newTestSource(t.TempDir())
	_, err := src.LoadBasin(domain.SouthPacific)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "southpacific")
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "northindian.json", `{"1980": [1,2,0,0,0,0,1.5]}`)
	writeFile(t, dir, "northatlantic.json", `{"1980": [10,50,4,20,2,8,30.5], "1981": [12,62,7,22,3,4,100]}`)
	writeFile(t, dir, "chart-source-hurricanes.parquet", "PAR1")
	writeFile(t, dir, "README.md", "notes")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.json"), 0o755))

	src, metrics := newTestSource(dir)
	records, err := src.LoadAll(context.Background())
	require.NoError(t, err)

	// Sum of per-file row counts, directory order then season order.
	require.Len(t, records, 3)
	assert.Equal(t, domain.NorthAtlantic, records[0].Basin)
	assert.Equal(t, uint16(1980), records[0].Season)
	assert.Equal(t, uint16(1981), records[1].Season)
	assert.Equal(t, domain.NorthIndian, records[2].Basin)

	assert.InDelta(t, 2.0, testutil.ToFloat64(metrics.FilesLoaded), 0)
	assert.InDelta(t, 2.0, testutil.ToFloat64(metrics.RecordsLoaded.WithLabelValues("northatlantic")), 0)
}

func TestLoadAll_UnknownBasinStillLoads(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "global.json", `{"1980": [80,300,45,150,20,50,800]}`)

	src, _ := newTestSource(dir)
	records, err := src.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.Basin("global"), records[0].Basin)
}

func TestLoadAll_MalformedFileAborts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "northatlantic.json", `{"1980": [10,50,4,20,2,8,30.5]}`)
	writeFile(t, dir, "southindian.json", `{"1980": [1,2,3]}`)

	src, _ := newTestSource(dir)
	_, err := src.LoadAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrShortRecord)
	assert.Contains(t, err.Error(), "southindian.json")
}

func TestLoadAll_EmptyDir(t *testing.T) {
	src, _ := newTestSource(t.TempDir())
	_, err := src.LoadAll(context.Background())
	require.ErrorIs(t, err, ErrNoBasinFiles)
}

func TestLoadAll_MissingDir(t *testing.T) {
	src, _ := newTestSource(filepath.Join(t.TempDir(), "nope"))
	_, err := src.LoadAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
