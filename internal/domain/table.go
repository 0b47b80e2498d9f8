package domain

import (
	"fmt"
	"sort"
	"time"
)

// Observation is a long-format cell: one metric value for one basin and season.
type Observation struct {
	Basin  Basin
	Season uint16
	Value  float64
}

// Observe projects records onto a single metric.
func Observe(records []BasinRecord, m Metric) ([]Observation, error) {
	obs := make([]Observation, 0, len(records))
	for _, r := range records {
		v, err := r.Value(m)
		if err != nil {
			return nil, err
		}
		obs = append(obs, Observation{Basin: r.Basin, Season: r.Season, Value: v})
	}
	return obs, nil
}

// ChartRow holds one basin's values, aligned with ChartTable.Seasons.
type ChartRow struct {
	Basin  Basin
	Values []float64
}

// ChartTable is the wide form of one metric: a row per basin, a column per season.
type ChartTable struct {
	Metric      Metric
	Seasons     []uint16
	Rows        []ChartRow
	GeneratedAt time.Time
}

// Row returns the row for basin b.
func (t ChartTable) Row(b Basin) (ChartRow, bool) {
	for _, r := range t.Rows {
		if r.Basin == b {
			return r, true
		}
	}
	return ChartRow{}, false
}

// Value returns the cell at (b, season).
func (t ChartTable) Value(b Basin, season uint16) (float64, bool) {
	row, ok := t.Row(b)
	if !ok {
		return 0, false
	}
	for i, s := range t.Seasons {
		if s == season {
			return row.Values[i], true
		}
	}
	return 0, false
}

// PivotStats reports irregularities found while pivoting.
type PivotStats struct {
	// Filled counts (basin, season) cells absent from the input and set to zero.
	Filled int
	// Duplicates counts repeated (basin, season) keys; the first value wins.
	Duplicates int
}

// Pivot reshapes long observations into a ChartTable. Columns are the distinct
// seasons in ascending order. Rows are the basins present in obs, known basins
// first in StackOrder, then any others in order of first appearance.
// Callers filter obs beforehand; Pivot keeps everything it is given.
func Pivot(m Metric, obs []Observation) (ChartTable, PivotStats) {
	var stats PivotStats

	seasonSet := make(map[uint16]struct{})
	cells := make(map[Basin]map[uint16]float64)
	var basins []Basin
	for _, o := range obs {
		seasonSet[o.Season] = struct{}{}
		row, ok := cells[o.Basin]
		if !ok {
			row = make(map[uint16]float64)
			cells[o.Basin] = row
			basins = append(basins, o.Basin)
		}
		if _, dup := row[o.Season]; dup {
			stats.Duplicates++
			continue
		}
		row[o.Season] = o.Value
	}

	seasons := make([]uint16, 0, len(seasonSet))
	for s := range seasonSet {
		seasons = append(seasons, s)
	}
	sort.Slice(seasons, func(i, j int) bool { return seasons[i] < seasons[j] })

	sort.SliceStable(basins, func(i, j int) bool {
		ri, rj := basins[i].rank(), basins[j].rank()
		if ri < 0 || rj < 0 {
			return ri >= 0 && rj < 0
		}
		return ri < rj
	})

	table := ChartTable{
		Metric:      m,
		Seasons:     seasons,
		Rows:        make([]ChartRow, 0, len(basins)),
		GeneratedAt: clock.Now(),
	}
	for _, b := range basins {
		values := make([]float64, len(seasons))
		for i, s := range seasons {
			v, ok := cells[b][s]
			if !ok {
				stats.Filled++
			}
			values[i] = v
		}
		table.Rows = append(table.Rows, ChartRow{Basin: b, Values: values})
	}
	return table, stats
}

// StackLayer is one basin's segments in a stacked bar chart.
type StackLayer struct {
	Basin   Basin
	Values  []float64
	Bottoms []float64
}

// Stack lays out the rows of t bottom to top in the given order. Each layer's
// Bottoms is the running per-season total of the layers beneath it. The
// returned totals are the stack heights. Every basin in order must have a row.
func Stack(t ChartTable, order []Basin) ([]StackLayer, []float64, error) {
	totals := make([]float64, len(t.Seasons))
	layers := make([]StackLayer, 0, len(order))
	for _, b := range order {
		row, ok := t.Row(b)
		if !ok {
			return nil, nil, fmt.Errorf("stack %s: %w: %s", t.Metric, ErrMissingBasin, b)
		}
		if len(row.Values) != len(t.Seasons) {
			return nil, nil, fmt.Errorf("stack %s: basin %s has %d values for %d seasons",
				t.Metric, b, len(row.Values), len(t.Seasons))
		}
		bottoms := make([]float64, len(totals))
		copy(bottoms, totals)
		for i, v := range row.Values {
			totals[i] += v
		}
		layers = append(layers, StackLayer{Basin: b, Values: row.Values, Bottoms: bottoms})
	}
	return layers, totals, nil
}
