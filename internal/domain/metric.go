package domain

import "fmt"

// Metric names one of the per-season statistics carried by a BasinRecord.
type Metric string

const (
	NamedStorms        Metric = "named_storms"
	NamedStormDays     Metric = "named_storm_days"
	Hurricanes         Metric = "hurricanes"
	HurricaneDays      Metric = "hurricane_days"
	MajorHurricanes    Metric = "major_hurricanes"
	MajorHurricaneDays Metric = "major_hurricane_days"
	ACE                Metric = "ace"
)

// Metrics returns every metric in record field order.
func Metrics() []Metric {
	return []Metric{
		NamedStorms,
		NamedStormDays,
		Hurricanes,
		HurricaneDays,
		MajorHurricanes,
		MajorHurricaneDays,
		ACE,
	}
}

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// ChartPreset holds the per-metric display parameters of the stacked bar chart.
type ChartPreset struct {
	// TitleFragment is inserted into "Global <fragment> Frequency".
	TitleFragment string
	// YMax is the upper bound of the y-axis.
	YMax float64
}

// Title returns the two-line chart title for the given season range.
func (p ChartPreset) Title(seasons SeasonRange) string {
	return fmt.Sprintf("Global %s Frequency\n%s", p.TitleFragment, seasons)
}

// PresetFor returns the chart preset for m. Only metrics with a preset can be
// rendered; the rest can still be extracted and cached.
func PresetFor(m Metric) (ChartPreset, error) {
	switch m {
	case Hurricanes:
		return ChartPreset{TitleFragment: "Hurricane", YMax: 70}, nil
	case MajorHurricanes:
		return ChartPreset{TitleFragment: "Major Hurricane", YMax: 40}, nil
	default:
		return ChartPreset{}, fmt.Errorf("%w: %q", ErrNoPreset, m)
	}
}
