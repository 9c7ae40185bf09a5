package plotting

import (
	"image/color"
	"math"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Marker appearance.
const (
	markerAlpha     = 0.7
	markerEdgeWidth = 0.5
)

// edgedCircle is a filled circle outlined with a thin black edge.
type edgedCircle struct{}

// DrawGlyph implements draw.GlyphDrawer.
func (edgedCircle) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	var p vg.Path
	p.Move(vg.Point{X: pt.X + sty.Radius, Y: pt.Y})
	p.Arc(pt, sty.Radius, 0, 2*math.Pi)
	p.Close()

	c.SetColor(sty.Color)
	c.Fill(p)
	c.SetLineStyle(draw.LineStyle{Color: color.Black, Width: vg.Points(markerEdgeWidth)})
	c.Stroke(p)
}

// markerRadius converts an area-style marker size (points squared) to a
// glyph radius.
func markerRadius(size int) vg.Length {
	if size <= 0 {
		return 0
	}
	return vg.Points(math.Sqrt(float64(size)) / 2)
}

// markerColor resolves an SVG color name and applies the marker alpha.
func markerColor(name string) (color.Color, error) {
	c, ok := colornames.Map[name]
	if !ok {
		return nil, ErrUnknownColor
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(markerAlpha * 255))}, nil
}
