package domain

import "errors"

var (
	// ErrShortRecord is returned when a season array has fewer than seven values.
	ErrShortRecord = errors.New("season record has fewer than 7 values")

	// ErrInvalidSeason is returned when a season key is not a year.
	ErrInvalidSeason = errors.New("invalid season")

	// ErrUnknownMetric is returned for metric names outside the seven statistics.
	ErrUnknownMetric = errors.New("unknown metric")

	// ErrNoPreset is returned when a metric has no chart display preset.
	ErrNoPreset = errors.New("no chart preset for metric")

	// ErrMissingBasin is returned when a charted basin has no row in the chart table.
	ErrMissingBasin = errors.New("basin missing from chart table")
)
