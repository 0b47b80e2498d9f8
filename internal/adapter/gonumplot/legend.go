package gonumplot

import (
	"image/color"

	"github.com/couchcryptid/storm-data-hurricane-chart/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// gridLegend is a framed legend anchored to the upper-left corner of the data
// area. Entries fill columns top to bottom, then left to right.
type gridLegend struct {
	basins  []domain.Basin
	columns int
	size    vg.Length
}

func (g *gridLegend) Plot(c draw.Canvas, plt *plot.Plot) {
	if len(g.basins) == 0 {
		return
	}

	sty := plt.Legend.TextStyle
	sty.Font.Size = g.size
	sty.XAlign = draw.XLeft
	sty.YAlign = draw.YCenter

	pad := g.size / 2
	gap := g.size / 2
	handle := 2 * g.size
	rowH := sty.Height("Xg") * 1.4

	var labelW vg.Length
	for _, b := range g.basins {
		if w := sty.Width(b.Label()); w > labelW {
			labelW = w
		}
	}
	colW := handle + gap + labelW + 2*gap

	rows := (len(g.basins) + g.columns - 1) / g.columns
	cols := (len(g.basins) + rows - 1) / rows

	left := c.Min.X + pad
	top := c.Max.Y - pad
	right := left + vg.Length(cols)*colW
	bottom := top - vg.Length(rows)*rowH - 2*pad

	frame := []vg.Point{{X: left, Y: bottom}, {X: left, Y: top}, {X: right, Y: top}, {X: right, Y: bottom}}
	c.FillPolygon(color.White, frame)
	c.StrokeLines(draw.LineStyle{Color: color.Gray{Y: 0xcc}, Width: vg.Points(0.8)}, append(frame, frame[0]))

	for i, b := range g.basins {
		col, row := i/rows, i%rows
		x := left + gap + vg.Length(col)*colW
		y := top - pad - (vg.Length(row)+0.5)*rowH
		h := rowH * 0.35

		c.FillPolygon(basinColor(b), []vg.Point{
			{X: x, Y: y - h},
			{X: x, Y: y + h},
			{X: x + handle, Y: y + h},
			{X: x + handle, Y: y - h},
		})
		c.FillText(sty, vg.Point{X: x + handle + gap, Y: y}, b.Label())
	}
}
