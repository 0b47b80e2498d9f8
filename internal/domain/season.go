package domain

import "fmt"

// SeasonRange is a closed interval of seasons.
type SeasonRange struct {
	Min uint16
	Max uint16
}

// ChartSeasons returns the season window of the published chart.
func ChartSeasons() SeasonRange {
	return SeasonRange{Min: 1980, Max: 2023}
}

// Contains reports whether season lies within the range, bounds included.
func (r SeasonRange) Contains(season uint16) bool {
	return season >= r.Min && season <= r.Max
}

func (r SeasonRange) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}
