// Package jsonfile loads basin statistics from a directory of per-basin JSON files.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/storm-data-hurricane-chart/internal/domain"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/observability"
)

// ErrNoBasinFiles is returned when the data directory holds no JSON files.
var ErrNoBasinFiles = errors.New("no basin files found")

// Source reads every <basin>.json file in a directory.
// It implements pipeline.Loader.
type Source struct {
	dir     string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewSource creates a Source rooted at dir.
func NewSource(dir string, logger *slog.Logger, metrics *observability.Metrics) *Source {
	return &Source{dir: dir, logger: logger, metrics: metrics}
}

// LoadBasin reads and parses a single basin file.
func (s *Source) LoadBasin(basin domain.Basin) ([]domain.BasinRecord, error) {
	return s.loadFile(basin, filepath.Join(s.dir, string(basin)+".json"))
}

// LoadAll discovers basin files in directory-listing order and combines them.
// Any unreadable or malformed file aborts the load.
func (s *Source) LoadAll(_ context.Context) ([]domain.BasinRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir %s: %w", s.dir, err)
	}

	var tables [][]domain.BasinRecord
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		basin := domain.Basin(strings.TrimSuffix(e.Name(), ".json"))
		records, err := s.loadFile(basin, filepath.Join(s.dir, e.Name()))
		if err != nil {
			return nil, err
		}
		tables = append(tables, records)
	}

	if len(tables) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoBasinFiles, s.dir)
	}

	combined := domain.Combine(tables...)
	s.logger.Info("basin files loaded", "dir", s.dir, "files", len(tables), "records", len(combined))
	return combined, nil
}

func (s *Source) loadFile(basin domain.Basin, path string) ([]domain.BasinRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load basin %s: %w", basin, err)
	}

	records, err := domain.ParseBasinFile(basin, data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	if !basin.Known() {
		s.logger.Debug("loaded file for uncharted basin", "basin", basin, "path", path)
	}
	s.metrics.FilesLoaded.Inc()
	s.metrics.RecordsLoaded.WithLabelValues(string(basin)).Add(float64(len(records)))
	return records, nil
}
