// Package domain models yearly tropical cyclone statistics per ocean basin.
//
// # Data Source
//
// Basin statistics come from the Colorado State University (CSU) Department of
// Atmospheric Science real-time tropical cyclone pages, available at
// https://tropical.atmos.colostate.edu/Realtime/. Each basin is stored as its
// own JSON file named after the basin identifier, e.g. "northatlantic.json".
//
// # File Format
//
// A basin file maps a season (calendar year, as a string key) to a positional
// array of seven numbers:
//
//	{"1980": [11, 60.25, 9, 38.75, 2, 7.5, 147.0], ...}
//
// Positions are fixed:
//
//	0 named storms
//	1 named storm days
//	2 hurricanes
//	3 hurricane days
//	4 major hurricanes (Category 3+)
//	5 major hurricane days
//	6 accumulated cyclone energy (ACE, 10^4 kt^2)
//
// CSU reports storm days in quarter-day increments, so day totals and ACE are
// kept as float64 while storm counts are integers. Arrays longer than seven
// entries are accepted and the extra values ignored.
//
// # Basins
//
// Six basins are charted, stacked bottom to top in this order:
//
//	northwestpacific  Northwest Pacific
//	northeastpacific  Northeast Pacific
//	northatlantic     North Atlantic
//	southindian       South Indian
//	southpacific      South Pacific
//	northindian       North Indian
//
// Files for other basin identifiers still load; the chart extractor drops
// them through its allow-list.
//
// # Long and Wide Tables
//
// Loaded records form a long table (one row per basin and season). [Pivot]
// reshapes it into a [ChartTable] with one row per basin and one column per
// season. Seasons a basin lacks are filled with zero so the stacked chart
// never has gaps; the number of filled cells is reported in [PivotStats].
package domain
