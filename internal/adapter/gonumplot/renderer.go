// Package gonumplot draws the stacked basin bar chart with gonum/plot.
package gonumplot

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/couchcryptid/storm-data-hurricane-chart/internal/domain"
	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Supported output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// ErrUnsupportedFormat is returned by NewRenderer for formats other than png and svg.
var ErrUnsupportedFormat = errors.New("unsupported chart format")

// Renderer draws a ChartTable as a stacked bar chart.
// It implements pipeline.Renderer.
type Renderer struct {
	format  string
	seasons domain.SeasonRange
}

// NewRenderer creates a Renderer producing the given format.
func NewRenderer(format string) (*Renderer, error) {
	switch format {
	case FormatPNG, FormatSVG:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return &Renderer{format: format, seasons: domain.ChartSeasons()}, nil
}

// Format returns the file extension of rendered charts.
func (r *Renderer) Format() string {
	return r.format
}

// ContentType returns the MIME type of rendered charts.
func (r *Renderer) ContentType() string {
	if r.format == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Render draws t and writes the encoded figure to w. The table's metric must
// have a chart preset and every charted basin must have a row; both are
// checked before anything is drawn or written.
func (r *Renderer) Render(w io.Writer, t domain.ChartTable) error {
	preset, err := domain.PresetFor(t.Metric)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	layers, totals, err := domain.Stack(t, domain.StackOrder())
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	p := r.newPlot(preset)
	p.Add(&stackedBars{seasons: t.Seasons, layers: layers, totals: totals, width: barWidth})
	p.Add(&gridLegend{basins: domain.StackOrder(), columns: legendColumns, size: vg.Points(9)})

	// Axis limits are fixed; set them after Add so data ranges don't widen them.
	p.X.Min = float64(r.seasons.Min) - 1
	p.X.Max = float64(r.seasons.Max) + 1
	p.Y.Min = 0
	p.Y.Max = preset.YMax

	canvas := r.newCanvas()
	dc := draw.New(canvas)
	dc.FillPolygon(color.White, []vg.Point{
		dc.Min,
		{X: dc.Min.X, Y: dc.Max.Y},
		dc.Max,
		{X: dc.Max.X, Y: dc.Min.Y},
	})

	height := dc.Max.Y - dc.Min.Y
	p.Draw(draw.Crop(dc, 0, 0, bottomMargin*height, 0))
	drawFooter(dc)

	if _, err := canvas.WriteTo(w); err != nil {
		return fmt.Errorf("render: write %s: %w", r.format, err)
	}
	return nil
}

func (r *Renderer) newPlot(preset domain.ChartPreset) *plot.Plot {
	p := plot.New()

	p.Title.Text = preset.Title(r.seasons)
	p.Title.TextStyle.Font.Size = vg.Points(14)

	p.Y.Label.Text = yAxisLabel
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Tick.Label.Font.Size = vg.Points(10)

	p.X.Tick.Label.Font.Size = vg.Points(10)
	p.X.Tick.Marker = yearTicks{major: 5}

	return p
}

func (r *Renderer) newCanvas() vg.CanvasWriterTo {
	if r.format == FormatSVG {
		return vgsvg.New(figureWidth, figureHeight)
	}
	return vgimg.PngCanvas{Canvas: vgimg.NewWith(
		vgimg.UseWH(figureWidth, figureHeight),
		vgimg.UseDPI(dpi),
	)}
}

// drawFooter writes the attribution lines at fixed positions relative to the
// whole figure, below the plot area.
func drawFooter(dc draw.Canvas) {
	width := dc.Max.X - dc.Min.X
	height := dc.Max.Y - dc.Min.Y

	for _, line := range footerLines() {
		fnt := font.From(plot.DefaultFont, line.size)
		if line.italic {
			fnt.Style = xfont.StyleItalic
		}
		sty := text.Style{
			Color:   color.Black,
			Font:    fnt,
			XAlign:  draw.XLeft,
			YAlign:  draw.YBottom,
			Handler: plot.DefaultTextHandler,
		}
		pt := vg.Point{
			X: dc.Min.X + vg.Length(line.x)*width,
			Y: dc.Min.Y + vg.Length(line.y)*height,
		}
		dc.FillText(sty, pt, line.text)
	}
}
