package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/couchcryptid/storm-data-hurricane-chart/internal/domain"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// longRow is the dataframe shape of one observation.
type longRow struct {
	Basin  string  `dataframe:"basin"`
	Season int     `dataframe:"season"`
	Value  float64 `dataframe:"value"`
}

// ChartExtractor narrows combined basin records to the charted seasons and
// basins and pivots them into a ChartTable.
type ChartExtractor struct {
	seasons domain.SeasonRange
	basins  []domain.Basin
	logger  *slog.Logger
}

// NewExtractor creates a ChartExtractor for the chart's season range and the
// six charted basins.
func NewExtractor(logger *slog.Logger) *ChartExtractor {
	return &ChartExtractor{
		seasons: domain.ChartSeasons(),
		basins:  domain.StackOrder(),
		logger:  logger,
	}
}

// Extract projects records onto m, keeps rows inside the season range whose
// basin is charted, and pivots them wide.
func (e *ChartExtractor) Extract(records []domain.BasinRecord, m domain.Metric) (domain.ChartTable, domain.PivotStats, error) {
	obs, err := domain.Observe(records, m)
	if err != nil {
		return domain.ChartTable{}, domain.PivotStats{}, fmt.Errorf("extract %s: %w", m, err)
	}

	filtered, err := e.filter(obs)
	if err != nil {
		return domain.ChartTable{}, domain.PivotStats{}, fmt.Errorf("extract %s: %w", m, err)
	}

	table, stats := domain.Pivot(m, filtered)
	if stats.Filled > 0 {
		e.logger.Warn("zero-filled missing basin seasons", "metric", m, "cells", stats.Filled)
	}
	if stats.Duplicates > 0 {
		e.logger.Warn("dropped duplicate basin seasons, first value kept", "metric", m, "rows", stats.Duplicates)
	}
	return table, stats, nil
}

// filter keeps observations in the season range for charted basins. Input
// order is preserved.
func (e *ChartExtractor) filter(obs []domain.Observation) ([]domain.Observation, error) {
	if len(obs) == 0 {
		return nil, nil
	}

	rows := make([]longRow, len(obs))
	for i, o := range obs {
		rows[i] = longRow{Basin: string(o.Basin), Season: int(o.Season), Value: o.Value}
	}

	allowed := make([]string, len(e.basins))
	for i, b := range e.basins {
		allowed[i] = string(b)
	}

	df := dataframe.LoadStructs(rows).FilterAggregation(dataframe.And,
		dataframe.F{Colname: "season", Comparator: series.GreaterEq, Comparando: int(e.seasons.Min)},
		dataframe.F{Colname: "season", Comparator: series.LessEq, Comparando: int(e.seasons.Max)},
		dataframe.F{Colname: "basin", Comparator: series.In, Comparando: allowed},
	)
	if df.Err != nil {
		return nil, fmt.Errorf("filter observations: %w", df.Err)
	}
	if df.Nrow() == 0 {
		return nil, nil
	}

	basins := df.Col("basin").Records()
	seasons, err := df.Col("season").Int()
	if err != nil {
		return nil, fmt.Errorf("read season column: %w", err)
	}
	values := df.Col("value").Float()

	out := make([]domain.Observation, df.Nrow())
	for i := range out {
		out[i] = domain.Observation{
			Basin:  domain.Basin(basins[i]),
			Season: uint16(seasons[i]),
			Value:  values[i],
		}
	}
	return out, nil
}
