package plotting

import (
	"image/color"
	"math"

	"github.com/okian/hrdiagram/internal/domain/diagram"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Overlay axis geometry.
const (
	majorTickLen  = 6
	minorTickLen  = 3
	tickLabelGap  = 3
	tickFontSize  = 10
	labelFontSize = 12
	titleFontSize = 14
)

var overlayLine = draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)}

func textStyle(size vg.Length, xa text.XAlignment, ya text.YAlignment) text.Style {
	return text.Style{
		Color:   color.Black,
		Font:    font.From(plot.DefaultFont, size),
		XAlign:  xa,
		YAlign:  ya,
		Handler: plot.DefaultTextHandler,
	}
}

// normalizer returns the gonum scale for ax.
func normalizer(ax diagram.Axis) plot.Normalizer {
	var n plot.Normalizer = plot.LinearScale{}
	if ax.Scale == diagram.ScaleLog {
		n = plot.LogScale{}
	}
	if ax.Inverted {
		n = plot.InvertedScale{Normalizer: n}
	}
	return n
}

// visibleTicks returns the ticks of ax inside its range with their
// normalized positions.
func visibleTicks(ax diagram.Axis) ([]diagram.Tick, []float64) {
	n := normalizer(ax)
	var ticks []diagram.Tick
	var pos []float64
	for _, t := range ax.Ticks {
		if !ax.Range.Contains(t.Value) {
			continue
		}
		ticks = append(ticks, t)
		pos = append(pos, n.Normalize(ax.Range.Min, ax.Range.Max, t.Value))
	}
	return ticks, pos
}

func tickLen(t diagram.Tick) vg.Length {
	if t.IsMinor() {
		return minorTickLen
	}
	return majorTickLen
}

// drawTopAxis draws ax along the upper edge of the data area dc.
func drawTopAxis(c draw.Canvas, dc draw.Canvas, ax diagram.Axis) {
	y := dc.Max.Y
	c.StrokeLine2(overlayLine, dc.Min.X, y, dc.Max.X, y)

	tickText := textStyle(tickFontSize, text.XCenter, text.YBottom)
	ticks, pos := visibleTicks(ax)
	for i, t := range ticks {
		x := dc.X(pos[i])
		c.StrokeLine2(overlayLine, x, y, x, y+tickLen(t))
		if !t.IsMinor() {
			c.FillText(tickText, vg.Point{X: x, Y: y + majorTickLen + tickLabelGap}, t.Label)
		}
	}

	labelY := y + majorTickLen + 2*tickLabelGap + tickFontSize
	c.FillText(textStyle(labelFontSize, text.XCenter, text.YBottom),
		vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: labelY}, ax.Label)
}

// drawRightAxis draws ax along the right edge of dc and returns the width
// it occupies.
func drawRightAxis(c draw.Canvas, dc draw.Canvas, ax diagram.Axis) vg.Length {
	x := dc.Max.X
	c.StrokeLine2(overlayLine, x, dc.Min.Y, x, dc.Max.Y)

	tickText := textStyle(tickFontSize, text.XLeft, text.YCenter)
	var widest vg.Length
	ticks, pos := visibleTicks(ax)
	for i, t := range ticks {
		y := dc.Y(pos[i])
		c.StrokeLine2(overlayLine, x, y, x+tickLen(t), y)
		if t.IsMinor() {
			continue
		}
		c.FillText(tickText, vg.Point{X: x + majorTickLen + tickLabelGap, Y: y}, t.Label)
		if w := tickText.Width(t.Label); w > widest {
			widest = w
		}
	}

	labelX := x + majorTickLen + 2*tickLabelGap + widest
	label := textStyle(labelFontSize, text.XCenter, text.YTop)
	label.Rotation = math.Pi / 2
	c.FillText(label, vg.Point{X: labelX, Y: (dc.Min.Y + dc.Max.Y) / 2}, ax.Label)
	return labelX + labelFontSize + tickLabelGap - x
}
