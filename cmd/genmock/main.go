// Command genmock writes synthetic per-basin season statistics in the CSU
// file layout, for local runs and test fixtures. Output is deterministic for
// a given seed.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock -seed 1980
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/couchcryptid/storm-data-hurricane-chart/internal/domain"
)

// climatology holds rough per-season means used to draw synthetic seasons.
type climatology struct {
	namedStorms float64
	hurricanes  float64
	majors      float64
}

func basinClimatology(b domain.Basin) climatology {
	switch b {
	case domain.NorthwestPacific:
		return climatology{namedStorms: 26, hurricanes: 16, majors: 9}
	case domain.NortheastPacific:
		return climatology{namedStorms: 16, hurricanes: 9, majors: 4.5}
	case domain.NorthAtlantic:
		return climatology{namedStorms: 13, hurricanes: 6.5, majors: 3}
	case domain.SouthIndian:
		return climatology{namedStorms: 11, hurricanes: 6, majors: 3}
	case domain.SouthPacific:
		return climatology{namedStorms: 8, hurricanes: 4, majors: 2}
	default:
		return climatology{namedStorms: 5, hurricanes: 1.5, majors: 0.7}
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "directory to write <basin>.json files into")
	seed := flag.Uint64("seed", 1980, "random seed")
	from := flag.Uint("from", 1971, "first season")
	to := flag.Uint("to", 2023, "last season")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *from > *to || *to > math.MaxUint16 {
		return fmt.Errorf("invalid season range %d-%d", *from, *to)
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))
	var all []domain.BasinRecord
	for _, b := range domain.StackOrder() {
		records := generateBasin(rng, b, uint16(*from), uint16(*to))
		data, err := domain.EncodeBasinFile(b, records)
		if err != nil {
			return fmt.Errorf("encode %s: %w", b, err)
		}
		data = append(data, '\n')
		path := filepath.Join(*out, string(b)+".json")
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Printf("%s: %d seasons -> %s", b, len(records), path)
		all = append(all, records...)
	}

	printStats(all)
	return nil
}

// generateBasin draws one record per season. Counts are nested so that
// majors <= hurricanes <= named storms, and day totals scale with counts.
func generateBasin(rng *rand.Rand, b domain.Basin, from, to uint16) []domain.BasinRecord {
	c := basinClimatology(b)
	records := make([]domain.BasinRecord, 0, int(to-from)+1)
	for season := from; ; season++ {
		named := poisson(rng, c.namedStorms)
		hurricanes := min(poisson(rng, c.hurricanes), named)
		majors := min(poisson(rng, c.majors), hurricanes)

		namedDays := round2(float64(named) * (4 + 2*rng.Float64()))
		hurricaneDays := round2(float64(hurricanes) * (2 + 2*rng.Float64()))
		majorDays := round2(float64(majors) * (1 + rng.Float64()))
		ace := round2(namedDays*1.2 + hurricaneDays*3 + majorDays*6)

		records = append(records, domain.BasinRecord{
			Basin:              b,
			Season:             season,
			NamedStorms:        named,
			NamedStormDays:     namedDays,
			Hurricanes:         hurricanes,
			HurricaneDays:      hurricaneDays,
			MajorHurricanes:    majors,
			MajorHurricaneDays: majorDays,
			ACE:                ace,
		})
		if season == to {
			break
		}
	}
	return records
}

// poisson draws from a Poisson distribution using Knuth's method.
func poisson(rng *rand.Rand, mean float64) int {
	limit := math.Exp(-mean)
	k := 0
	p := rng.Float64()
	for p > limit {
		k++
		p *= rng.Float64()
	}
	return k
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func printStats(records []domain.BasinRecord) {
	seasons := domain.ChartSeasons()
	totals := make(map[domain.Basin]int)
	for _, r := range records {
		if seasons.Contains(r.Season) {
			totals[r.Basin] += r.MajorHurricanes
		}
	}

	fmt.Printf("\n=== Major hurricanes %s ===\n", seasons)
	grand := 0
	for _, b := range domain.StackOrder() {
		fmt.Printf("%-18s %d\n", b, totals[b])
		grand += totals[b]
	}
	fmt.Printf("%-18s %d\n", "total", grand)
}
