// Package plotting draws diagram figures with gonum/plot.
package plotting

import (
	"context"
	"fmt"
	"image/color"
	"io"

	"github.com/okian/hrdiagram/internal/domain/diagram"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Default canvas configuration.
const (
	DefaultFormat = "png"
	defaultWidth  = 14 * vg.Inch
	defaultHeight = 10 * vg.Inch
)

// Page layout around the primary plot.
const (
	outerPad          = 0.2 * vg.Inch
	titleHeight       = 0.4 * vg.Inch
	topOverlayHeight  = 0.6 * vg.Inch
	luminosityReserve = 0.9 * vg.Inch
	legendWidth       = 2.2 * vg.Inch
	legendGap         = 0.3 * vg.Inch
	gridLineWidth     = 0.5
)

var contentTypes = map[string]string{
	"png": "image/png",
	"svg": "image/svg+xml",
	"pdf": "application/pdf",
}

// ContentType returns the MIME type for a supported format.
func ContentType(format string) (string, error) {
	ct, ok := contentTypes[format]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return ct, nil
}

// Formats lists the supported output formats.
func Formats() []string {
	return []string{"png", "svg", "pdf"}
}

type encoder struct {
	format string
	width  vg.Length
	height vg.Length
}

type legendEntry struct {
	label string
	thumb plot.Thumbnailer
}

// Encode draws fig and writes it to w in the configured format.
// A panic raised by the plotting library while drawing is returned as
// ErrEncode.
func Encode(ctx context.Context, fig *diagram.Figure, w io.Writer, opts ...Option) (err error) {
	e := &encoder{format: DefaultFormat, width: defaultWidth, height: defaultHeight}
	for _, opt := range opts {
		opt(e)
	}
	if _, err := ContentType(e.format); err != nil {
		return err
	}
	if fig == nil {
		return fmt.Errorf("%w: nil figure", ErrEncode)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrEncode, r)
		}
	}()

	cw, err := draw.NewFormattedCanvas(e.width, e.height, e.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	if err := drawFigure(draw.New(cw), fig); err != nil {
		return err
	}
	if _, err := cw.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

// drawFigure lays out the title, the primary plot with its overlays on top
// and right, and the legend in the right margin.
func drawFigure(c draw.Canvas, fig *diagram.Figure) error {
	p, entries, err := primaryPlot(fig)
	if err != nil {
		return err
	}

	c.SetColor(color.White)
	c.Fill(c.Rectangle.Path())
	c.FillText(textStyle(titleFontSize, text.XCenter, text.YTop),
		vg.Point{X: (c.Min.X + c.Max.X) / 2, Y: c.Max.Y - outerPad}, fig.Title)

	right := outerPad + luminosityReserve
	if fig.Legend.Outside {
		right += legendWidth
	}
	area := draw.Crop(c, outerPad, -right, outerPad, -(outerPad + titleHeight + topOverlayHeight))
	dc := p.DataCanvas(area)
	p.Draw(area)

	drawTopAxis(c, dc, fig.SpectralClass)
	used := drawRightAxis(c, dc, fig.Luminosity)

	if fig.Legend.Outside {
		legendArea := draw.Canvas{
			Canvas: c.Canvas,
			Rectangle: vg.Rectangle{
				Min: vg.Point{X: dc.Max.X + used + legendGap, Y: dc.Min.Y},
				Max: vg.Point{X: c.Max.X - outerPad, Y: dc.Max.Y},
			},
		}
		drawLegend(legendArea, fig.Legend, entries)
	}
	return nil
}

func primaryPlot(fig *diagram.Figure) (*plot.Plot, []legendEntry, error) {
	p := plot.New()
	p.X.Label.Text = fig.Temperature.Label
	p.X.Label.TextStyle.Font.Size = labelFontSize
	p.Y.Label.Text = fig.Magnitude.Label
	p.Y.Label.TextStyle.Font.Size = labelFontSize
	p.X.Scale = normalizer(fig.Temperature)
	p.Y.Scale = normalizer(fig.Magnitude)
	if len(fig.Temperature.Ticks) > 0 {
		p.X.Tick.Marker = plot.ConstantTicks(plotTicks(fig.Temperature.Ticks))
	}
	if len(fig.Magnitude.Ticks) > 0 {
		p.Y.Tick.Marker = plot.ConstantTicks(plotTicks(fig.Magnitude.Ticks))
	}

	if fig.Grid.Dashed || fig.Grid.Alpha > 0 {
		p.Add(newGrid(fig.Grid))
	}

	var entries []legendEntry
	for _, s := range fig.Series {
		if len(s.Points) == 0 {
			continue
		}
		col, err := markerColor(s.Color)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %q", err, s.Color)
		}
		xys := make(plotter.XYs, len(s.Points))
		for i, pt := range s.Points {
			xys[i] = plotter.XY{X: pt.Temperature, Y: pt.Magnitude}
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: series %q: %w", ErrEncode, s.Label, err)
		}
		sc.GlyphStyle = draw.GlyphStyle{
			Color:  col,
			Radius: markerRadius(s.MarkerSize),
			Shape:  edgedCircle{},
		}
		p.Add(sc)
		if fig.Legend.Outside {
			entries = append(entries, legendEntry{label: s.Label, thumb: sc})
		} else {
			p.Legend.Add(s.Label, sc)
		}
	}

	// Ranges are set after Add, which widens them to the data.
	p.X.Min, p.X.Max = fig.Temperature.Range.Min, fig.Temperature.Range.Max
	p.Y.Min, p.Y.Max = fig.Magnitude.Range.Min, fig.Magnitude.Range.Max
	return p, entries, nil
}

func plotTicks(ticks []diagram.Tick) []plot.Tick {
	out := make([]plot.Tick, len(ticks))
	for i, t := range ticks {
		out[i] = plot.Tick{Value: t.Value, Label: t.Label}
	}
	return out
}

func newGrid(g diagram.Grid) *plotter.Grid {
	alpha := g.Alpha
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	style := draw.LineStyle{
		Color: color.NRGBA{R: 128, G: 128, B: 128, A: uint8(alpha * 255)},
		Width: vg.Points(gridLineWidth),
	}
	if g.Dashed {
		style.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	}
	grid := plotter.NewGrid()
	grid.Vertical = style
	grid.Horizontal = style
	return grid
}

// drawLegend writes the legend title and entries top-left in c.
func drawLegend(c draw.Canvas, lg diagram.Legend, entries []legendEntry) {
	if len(entries) == 0 {
		return
	}
	c.FillText(textStyle(labelFontSize, text.XLeft, text.YTop), vg.Point{X: c.Min.X, Y: c.Max.Y}, lg.Title)

	l := plot.NewLegend()
	l.Top = true
	l.Left = true
	for _, e := range entries {
		l.Add(e.label, e.thumb)
	}
	l.Draw(draw.Crop(c, 0, 0, 0, -(labelFontSize + 2*tickLabelGap)))
}
