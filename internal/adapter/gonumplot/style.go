package gonumplot

import (
	"image/color"

	"github.com/couchcryptid/storm-data-hurricane-chart/internal/domain"
	"gonum.org/v1/plot/vg"
)

// Figure geometry: 638x522 px at 100 dpi, widened by one inch so the legend
// and y-axis label fit.
const (
	dpi          = 100
	figureWidth  = (638.0/dpi + 1) * vg.Inch
	figureHeight = 522.0 / dpi * vg.Inch

	// bottomMargin is the fraction of the figure height reserved for footers.
	bottomMargin = 0.14

	barWidth      = 0.8
	legendColumns = 3
	yAxisLabel    = "Number of Hurricanes"
)

type footerLine struct {
	text   string
	x, y   float64 // fraction of figure width/height from the bottom-left corner
	size   vg.Length
	italic bool
}

func footerLines() []footerLine {
	return []footerLine{
		{text: "Data source: Colorado State University (CSU) Department of Atmospheric Science", x: 0.13, y: 0.06, size: vg.Points(10), italic: true},
		{text: "https://tropical.atmos.colostate.edu/Realtime/", x: 0.13, y: 0.03, size: vg.Points(9)},
		{text: "Chart: Chris Martz", x: 0.13, y: 0.00, size: vg.Points(9)},
	}
}

// basinColor returns the fill color for a charted basin. Unknown basins are gray.
func basinColor(b domain.Basin) color.RGBA {
	switch b {
	case domain.NorthwestPacific:
		return color.RGBA{R: 0x15, G: 0x02, B: 0x7d, A: 0xff}
	case domain.NortheastPacific:
		return color.RGBA{R: 0x46, G: 0x77, B: 0xa3, A: 0xff}
	case domain.NorthAtlantic:
		return color.RGBA{R: 0x34, G: 0xaa, B: 0x9f, A: 0xff}
	case domain.SouthIndian:
		return color.RGBA{R: 0x54, G: 0xda, B: 0xcb, A: 0xff}
	case domain.SouthPacific:
		return color.RGBA{R: 0x63, G: 0x83, B: 0x12, A: 0xff}
	case domain.NorthIndian:
		return color.RGBA{R: 0xcc, G: 0x9c, B: 0x09, A: 0xff}
	default:
		return color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	}
}
