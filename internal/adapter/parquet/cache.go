// Package parquet persists pivoted chart tables as write-once Parquet files.
package parquet

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/couchcryptid/storm-data-hurricane-chart/internal/domain"
	parquetgo "github.com/parquet-go/parquet-go"
)

const basinColumn = "basin"

// Cache stores one chart source file per metric in a directory. A file, once
// written, is never replaced.
// It implements pipeline.CacheWriter.
type Cache struct {
	dir    string
	logger *slog.Logger
}

// NewCache creates a Cache rooted at dir. The directory is created on first write.
func NewCache(dir string, logger *slog.Logger) *Cache {
	return &Cache{dir: dir, logger: logger}
}

// Path returns the deterministic cache file location for m.
func (c *Cache) Path(m domain.Metric) string {
	return filepath.Join(c.dir, fmt.Sprintf("chart-source-%s.parquet", m))
}

// WriteIfAbsent persists t unless a cache file for its metric already exists.
// An existing file is left untouched even if its content is stale. It reports
// whether a file was written.
func (c *Cache) WriteIfAbsent(t domain.ChartTable) (bool, error) {
	path := c.Path(t.Metric)

	_, err := os.Stat(path)
	if err == nil {
		c.logger.Info("chart source cache exists, skipping write", "path", path)
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("check cache %s: %w", path, err)
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return false, fmt.Errorf("create cache dir %s: %w", c.dir, err)
	}

	// O_EXCL keeps a concurrent writer from clobbering a file created after the Stat.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		c.logger.Info("chart source cache exists, skipping write", "path", path)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create cache %s: %w", path, err)
	}

	if err := writeTable(f, t); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return false, fmt.Errorf("write cache %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return false, fmt.Errorf("close cache %s: %w", path, err)
	}

	c.logger.Info("chart source cache written", "path", path, "rows", len(t.Rows), "seasons", len(t.Seasons))
	return true, nil
}

// Read loads the cached chart table for m. GeneratedAt is not persisted and
// comes back zero.
func (c *Cache) Read(m domain.Metric) (domain.ChartTable, error) {
	path := c.Path(m)
	f, err := os.Open(path)
	if err != nil {
		return domain.ChartTable{}, fmt.Errorf("open cache %s: %w", path, err)
	}
	defer f.Close()

	t, err := readTable(f)
	if err != nil {
		return domain.ChartTable{}, fmt.Errorf("read cache %s: %w", path, err)
	}
	t.Metric = m
	return t, nil
}

func seasonColumn(s uint16) string {
	return strconv.Itoa(int(s))
}

// tableSchema has a string basin column plus one DOUBLE column per season,
// named by the year.
func tableSchema(seasons []uint16) *parquetgo.Schema {
	group := parquetgo.Group{basinColumn: parquetgo.String()}
	for _, s := range seasons {
		group[seasonColumn(s)] = parquetgo.Leaf(parquetgo.DoubleType)
	}
	return parquetgo.NewSchema("chart_source", group)
}

func writeTable(w io.Writer, t domain.ChartTable) error {
	schema := tableSchema(t.Seasons)

	basinLeaf, ok := schema.Lookup(basinColumn)
	if !ok {
		return errors.New("schema has no basin column")
	}
	seasonIdx := make([]int, len(t.Seasons))
	for i, s := range t.Seasons {
		leaf, ok := schema.Lookup(seasonColumn(s))
		if !ok {
			return fmt.Errorf("schema has no column for season %d", s)
		}
		seasonIdx[i] = leaf.ColumnIndex
	}

	rows := make([]parquetgo.Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if len(r.Values) != len(t.Seasons) {
			return fmt.Errorf("basin %s has %d values for %d seasons", r.Basin, len(r.Values), len(t.Seasons))
		}
		row := make(parquetgo.Row, len(t.Seasons)+1)
		row[basinLeaf.ColumnIndex] = parquetgo.ByteArrayValue([]byte(r.Basin)).Level(0, 0, basinLeaf.ColumnIndex)
		for i, v := range r.Values {
			row[seasonIdx[i]] = parquetgo.DoubleValue(v).Level(0, 0, seasonIdx[i])
		}
		rows = append(rows, row)
	}

	pw := parquetgo.NewWriter(w, schema)
	if _, err := pw.WriteRows(rows); err != nil {
		return err
	}
	return pw.Close()
}

func readTable(f *os.File) (domain.ChartTable, error) {
	r := parquetgo.NewReader(f)
	defer r.Close()

	// Map leaf column index to its season position.
	basinIdx := -1
	colSeason := make(map[int]uint16)
	for i, path := range r.Schema().Columns() {
		if len(path) != 1 {
			return domain.ChartTable{}, fmt.Errorf("unexpected nested column %v", path)
		}
		if path[0] == basinColumn {
			basinIdx = i
			continue
		}
		s, err := strconv.ParseUint(path[0], 10, 16)
		if err != nil {
			return domain.ChartTable{}, fmt.Errorf("column %q: %w", path[0], domain.ErrInvalidSeason)
		}
		colSeason[i] = uint16(s)
	}
	if basinIdx < 0 {
		return domain.ChartTable{}, errors.New("missing basin column")
	}

	seasons := make([]uint16, 0, len(colSeason))
	for _, s := range colSeason {
		seasons = append(seasons, s)
	}
	sort.Slice(seasons, func(i, j int) bool { return seasons[i] < seasons[j] })
	position := make(map[uint16]int, len(seasons))
	for i, s := range seasons {
		position[s] = i
	}

	t := domain.ChartTable{Seasons: seasons}
	buf := make([]parquetgo.Row, 16)
	for {
		n, err := r.ReadRows(buf)
		for _, row := range buf[:n] {
			out := domain.ChartRow{Values: make([]float64, len(seasons))}
			for _, v := range row {
				if v.Column() == basinIdx {
					out.Basin = domain.Basin(v.ByteArray())
					continue
				}
				out.Values[position[colSeason[v.Column()]]] = v.Double()
			}
			t.Rows = append(t.Rows, out)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.ChartTable{}, err
		}
	}
	return t, nil
}
