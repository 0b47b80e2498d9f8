// Command validate performs data integrity checks on a basin data directory
// and its chart source cache: file coverage, season coverage, per-record
// consistency, and agreement between cached Parquet tables and a fresh pivot.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data -cache-dir data
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"

	"github.com/couchcryptid/storm-data-hurricane-chart/internal/adapter/jsonfile"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/adapter/parquet"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/domain"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/observability"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/pipeline"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "", "directory containing <basin>.json files")
	cacheDir := flag.String("cache-dir", "", "directory containing chart-source-<metric>.parquet files (default: -data-dir)")
	flag.Parse()

	if *dataDir == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *cacheDir == "" {
		*cacheDir = *dataDir
	}

	if code := run(*dataDir, *cacheDir); code != 0 {
		os.Exit(code)
	}
}

func run(dataDir, cacheDir string) int {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	fmt.Println("=== Hurricane Chart Data Validation ===")
	fmt.Println()

	source := jsonfile.NewSource(dataDir, logger, observability.NewMetrics())
	records, err := source.LoadAll(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load basin files: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateBasinCoverage(records),
		validateSeasonCoverage(records),
		validateRecordConsistency(records),
		validateCache(parquet.NewCache(cacheDir, logger), pipeline.NewExtractor(logger), records),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d across %d basins\n", len(records), len(countByBasin(records)))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func countByBasin(records []domain.BasinRecord) map[domain.Basin]int {
	counts := make(map[domain.Basin]int)
	for _, r := range records {
		counts[r.Basin]++
	}
	return counts
}

// validateBasinCoverage checks that every charted basin has records and flags
// files for basins that will never be charted.
func validateBasinCoverage(records []domain.BasinRecord) *phase {
	p := &phase{name: "Phase 1: Basin coverage"}
	counts := countByBasin(records)
	for _, b := range domain.StackOrder() {
		if counts[b] == 0 {
			p.errorf("%s: no records", b)
		}
	}
	for b := range counts {
		if !b.Known() {
			p.errorf("%s: not a charted basin, records will be ignored", b)
		}
	}
	return p
}

// validateSeasonCoverage checks that each charted basin has exactly one
// record for every charted season.
func validateSeasonCoverage(records []domain.BasinRecord) *phase {
	p := &phase{name: "Phase 2: Season coverage"}
	seasons := domain.ChartSeasons()

	seen := make(map[domain.Basin]map[uint16]int)
	for _, r := range records {
		if !r.Basin.Known() || !seasons.Contains(r.Season) {
			continue
		}
		if seen[r.Basin] == nil {
			seen[r.Basin] = make(map[uint16]int)
		}
		seen[r.Basin][r.Season]++
	}

	for _, b := range domain.StackOrder() {
		for s := seasons.Min; s <= seasons.Max; s++ {
			switch n := seen[b][s]; {
			case n == 0:
				p.errorf("%s %d: missing season", b, s)
			case n > 1:
				p.errorf("%s %d: %d duplicate records", b, s, n)
			}
		}
	}
	return p
}

// validateRecordConsistency checks the nesting of storm categories and the
// sign of every statistic.
func validateRecordConsistency(records []domain.BasinRecord) *phase {
	p := &phase{name: "Phase 3: Record consistency"}
	for _, r := range records {
		if r.MajorHurricanes > r.Hurricanes {
			p.errorf("%s %d: major_hurricanes %d > hurricanes %d", r.Basin, r.Season, r.MajorHurricanes, r.Hurricanes)
		}
		if r.Hurricanes > r.NamedStorms {
			p.errorf("%s %d: hurricanes %d > named_storms %d", r.Basin, r.Season, r.Hurricanes, r.NamedStorms)
		}
		for _, m := range domain.Metrics() {
			v, err := r.Value(m)
			if err != nil {
				p.errorf("%s %d: %v", r.Basin, r.Season, err)
				continue
			}
			if v < 0 || math.IsNaN(v) {
				p.errorf("%s %d: %s is %v", r.Basin, r.Season, m, v)
			}
		}
	}
	return p
}

// validateCache compares every cached chart source against a fresh pivot of
// the current basin files. A cache file is never rewritten, so a mismatch
// means it is stale.
func validateCache(cache *parquet.Cache, extractor *pipeline.ChartExtractor, records []domain.BasinRecord) *phase {
	p := &phase{name: "Phase 4: Chart source cache"}
	for _, m := range domain.Metrics() {
		cached, err := cache.Read(m)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			p.errorf("%s: %v", m, err)
			continue
		}

		fresh, _, err := extractor.Extract(records, m)
		if err != nil {
			p.errorf("%s: %v", m, err)
			continue
		}
		compareTables(p, m, cached, fresh)
	}
	return p
}

func compareTables(p *phase, m domain.Metric, cached, fresh domain.ChartTable) {
	if len(cached.Seasons) != len(fresh.Seasons) {
		p.errorf("%s: cache has %d seasons, data has %d (stale cache)", m, len(cached.Seasons), len(fresh.Seasons))
		return
	}
	for _, row := range fresh.Rows {
		for i, s := range fresh.Seasons {
			v, ok := cached.Value(row.Basin, s)
			if !ok {
				p.errorf("%s: cache missing %s %d", m, row.Basin, s)
				continue
			}
			if math.Abs(v-row.Values[i]) > 1e-9 {
				p.errorf("%s: %s %d cached %v, data %v", m, row.Basin, s, v, row.Values[i])
			}
		}
	}
}
