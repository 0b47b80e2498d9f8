package gonumplot

import (
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// stackedBars draws one rectangle per basin and season, each starting on the
// layer's baseline. Widths are in data units.
type stackedBars struct {
	seasons []uint16
	layers  []domain.StackLayer
	totals  []float64
	width   float64
}

func (b *stackedBars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	half := b.width / 2

	for _, l := range b.layers {
		clr := basinColor(l.Basin)
		for i, season := range b.seasons {
			v := l.Values[i]
			if v <= 0 {
				continue
			}
			x := float64(season)
			bottom, top := l.Bottoms[i], l.Bottoms[i]+v
			pts := c.ClipPolygonXY([]vg.Point{
				{X: trX(x - half), Y: trY(bottom)},
				{X: trX(x - half), Y: trY(top)},
				{X: trX(x + half), Y: trY(top)},
				{X: trX(x + half), Y: trY(bottom)},
			})
			if len(pts) == 0 {
				continue
			}
			c.FillPolygon(clr, pts)
		}
	}
}

// DataRange implements plot.DataRanger.
func (b *stackedBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	if len(b.seasons) == 0 {
		return 0, 0, 0, 0
	}
	xmin = float64(b.seasons[0]) - b.width/2
	xmax = float64(b.seasons[len(b.seasons)-1]) + b.width/2
	for _, t := range b.totals {
		if t > ymax {
			ymax = t
		}
	}
	return xmin, xmax, 0, ymax
}
