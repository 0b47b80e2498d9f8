package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// seasonFields is the number of positional values per season in a basin file.
const seasonFields = 7

// BasinRecord is one season of statistics for one basin.
type BasinRecord struct {
	Basin              Basin   `json:"basin"`
	Season             uint16  `json:"season"`
	NamedStorms        int     `json:"named_storms"`
	NamedStormDays     float64 `json:"named_storm_days"`
	Hurricanes         int     `json:"hurricanes"`
	HurricaneDays      float64 `json:"hurricane_days"`
	MajorHurricanes    int     `json:"major_hurricanes"`
	MajorHurricaneDays float64 `json:"major_hurricane_days"`
	ACE                float64 `json:"ace"`
}

// Value returns the statistic named by m.
func (r BasinRecord) Value(m Metric) (float64, error) {
	switch m {
	case NamedStorms:
		return float64(r.NamedStorms), nil
	case NamedStormDays:
		return r.NamedStormDays, nil
	case Hurricanes:
		return float64(r.Hurricanes), nil
	case HurricaneDays:
		return r.HurricaneDays, nil
	case MajorHurricanes:
		return float64(r.MajorHurricanes), nil
	case MajorHurricaneDays:
		return r.MajorHurricaneDays, nil
	case ACE:
		return r.ACE, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, m)
	}
}

// ParseBasinFile decodes a basin JSON document into records sorted by season.
// Every season key must be a canonical year, unique within the file, and
// every array must carry at least seven values; the first failure aborts the
// whole file.
func ParseBasinFile(basin Basin, data []byte) ([]BasinRecord, error) {
	var raw map[string][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse basin %s: %w", basin, err)
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	records := make([]BasinRecord, 0, len(raw))
	seen := make(map[uint16]string, len(raw))
	for _, key := range keys {
		season, err := strconv.ParseUint(key, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("parse basin %s: %w %q", basin, ErrInvalidSeason, key)
		}
		if prev, dup := seen[uint16(season)]; dup {
			return nil, fmt.Errorf("parse basin %s: %w %q duplicates %q", basin, ErrInvalidSeason, key, prev)
		}
		if strconv.Itoa(int(season)) != key {
			return nil, fmt.Errorf("parse basin %s: %w %q is not a canonical year", basin, ErrInvalidSeason, key)
		}
		seen[uint16(season)] = key

		values := raw[key]
		if len(values) < seasonFields {
			return nil, fmt.Errorf("parse basin %s season %s: %w (got %d)", basin, key, ErrShortRecord, len(values))
		}
		records = append(records, newBasinRecord(basin, uint16(season), values))
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].Season < records[j].Season })
	return records, nil
}

func newBasinRecord(basin Basin, season uint16, v []float64) BasinRecord {
	return BasinRecord{
		Basin:              basin,
		Season:             season,
		NamedStorms:        roundCount(v[0]),
		NamedStormDays:     v[1],
		Hurricanes:         roundCount(v[2]),
		HurricaneDays:      v[3],
		MajorHurricanes:    roundCount(v[4]),
		MajorHurricaneDays: v[5],
		ACE:                v[6],
	}
}

func roundCount(v float64) int {
	return int(math.Round(v))
}

// EncodeBasinFile is the inverse of ParseBasinFile. Records for other basins
// are ignored.
func EncodeBasinFile(basin Basin, records []BasinRecord) ([]byte, error) {
	raw := make(map[string][seasonFields]float64, len(records))
	for _, r := range records {
		if r.Basin != basin {
			continue
		}
		raw[strconv.Itoa(int(r.Season))] = [seasonFields]float64{
			float64(r.NamedStorms),
			r.NamedStormDays,
			float64(r.Hurricanes),
			r.HurricaneDays,
			float64(r.MajorHurricanes),
			r.MajorHurricaneDays,
			r.ACE,
		}
	}
	return json.MarshalIndent(raw, "", "  ")
}

// Combine concatenates per-basin tables in the given order. Duplicate
// (basin, season) keys across tables are kept; Pivot reports them.
func Combine(tables ...[]BasinRecord) []BasinRecord {
	n := 0
	for _, t := range tables {
		n += len(t)
	}
	combined := make([]BasinRecord, 0, n)
	for _, t := range tables {
		combined = append(combined, t...)
	}
	return combined
}
