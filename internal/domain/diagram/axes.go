package diagram

import (
	"fmt"
	"math"
)

// Luminosity overlay bounds in solar units, independent of the data.
const (
	luminosityMinExp = -6
	luminosityMaxExp = 6
)

// spectralBounds are the OBAFGKM boundaries, hottest to coolest.
var spectralBounds = []Tick{
	{Value: 40000, Label: "O"},
	{Value: 30000, Label: "B"},
	{Value: 10000, Label: "A"},
	{Value: 7500, Label: "F"},
	{Value: 6000, Label: "G"},
	{Value: 3700, Label: "K"},
	{Value: 2000, Label: "M"},
}

// SpectralClassAxis builds the overlay labeling spectral classes on the edge
// opposite primary. It shares the temperature range of primary and, like it, runs
// inverted on a log scale so hot stars sit on the left.
func SpectralClassAxis(primary Axis) Axis {
	ticks := make([]Tick, len(spectralBounds))
	copy(ticks, spectralBounds)
	return Axis{
		Label:    "Spectral Class",
		Position: opposite(primary.Position),
		Scale:    ScaleLog,
		Inverted: true,
		Range:    primary.Range,
		Ticks:    ticks,
	}
}

// LuminosityAxis builds the overlay on the edge opposite primary. It shares
// the extent of primary but has its own fixed log scale from 1e-6 to
// 1e6 solar luminosities.
func LuminosityAxis(primary Axis) Axis {
	var ticks []Tick
	for k := luminosityMinExp; k <= luminosityMaxExp; k++ {
		decade := math.Pow(10, float64(k))
		ticks = append(ticks, Tick{Value: decade, Label: fmt.Sprintf("10^%d", k)})
		if k == luminosityMaxExp {
			break
		}
		for m := 2; m <= 9; m++ {
			ticks = append(ticks, Tick{Value: float64(m) * decade})
		}
	}
	return Axis{
		Label:    "Luminosity (L/Lo)",
		Position: opposite(primary.Position),
		Scale:    ScaleLog,
		Range: Range{
			Min: math.Pow(10, luminosityMinExp),
			Max: math.Pow(10, luminosityMaxExp),
		},
		Ticks: ticks,
	}
}

// opposite returns the parallel edge of the plot area.
func opposite(p Position) Position {
	switch p {
	case Bottom:
		return Top
	case Top:
		return Bottom
	case Left:
		return Right
	default:
		return Left
	}
}

// logMinorTicks returns unlabeled ticks at m*10^k (m = 2..9) inside r,
// skipping values already present in majors.
func logMinorTicks(r Range, majors []Tick) []Tick {
	if r.Min <= 0 || r.Max <= 0 || math.IsInf(r.Max, 0) {
		return nil
	}
	taken := make(map[float64]struct{}, len(majors))
	for _, t := range majors {
		taken[t.Value] = struct{}{}
	}
	var out []Tick
	first := int(math.Floor(math.Log10(r.Min)))
	last := int(math.Ceil(math.Log10(r.Max)))
	for k := first; k <= last; k++ {
		decade := math.Pow(10, float64(k))
		for m := 2; m <= 9; m++ {
			v := float64(m) * decade
			if !r.Contains(v) {
				continue
			}
			if _, ok := taken[v]; ok {
				continue
			}
			out = append(out, Tick{Value: v})
		}
	}
	return out
}
