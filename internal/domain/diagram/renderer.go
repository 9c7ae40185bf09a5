package diagram

import (
	"fmt"
	"math"
	"strconv"

	"github.com/okian/hrdiagram/internal/domain/model"
	"github.com/samber/lo"
)

// Padding applied to the data span of the primary axes.
const (
	temperatureMaxPad = 1.1
	temperatureMinPad = 0.9
	magnitudePad      = 1.0
)

// Fallback data span used when there are no stars to measure.
const (
	fallbackTemperatureMin = 2000
	fallbackTemperatureMax = 40000
	fallbackMagnitudeMin   = -10
	fallbackMagnitudeMax   = 20
)

// Figure text.
const (
	figureTitle      = "Hertzsprung-Russell Diagram"
	temperatureLabel = "Temperature (K)"
	magnitudeLabel   = "Absolute Magnitude (Mv)"
	legendTitle      = "Stellar Classification"
	gridAlpha        = 0.6
)

// temperatureMajors are the labeled ticks of the primary horizontal axis.
var temperatureMajors = []float64{40000, 30000, 20000, 10000, 7500, 6000, 5000, 3000}

// Render composes the figure for rows. Series follow the first appearance of
// each label; an empty input yields a figure with no series and fallback
// axis ranges.
func Render(rows []model.ClassifiedStar) (*Figure, error) {
	for i, r := range rows {
		if r.Label == "" {
			return nil, fmt.Errorf("%w: row %d", ErrUnclassified, i+1)
		}
		if r.Temperature <= 0 {
			return nil, fmt.Errorf("%w: row %d has non-positive temperature %v", ErrInvalidData, i+1, r.Temperature)
		}
	}

	temperature := TemperatureAxis(rows)
	if err := checkRange(temperature); err != nil {
		return nil, err
	}
	magnitude := MagnitudeAxis(rows)
	if err := checkRange(magnitude); err != nil {
		return nil, err
	}

	return &Figure{
		Title:         figureTitle,
		Series:        groupSeries(rows),
		Temperature:   temperature,
		Magnitude:     magnitude,
		SpectralClass: SpectralClassAxis(temperature),
		Luminosity:    LuminosityAxis(magnitude),
		Legend:        Legend{Title: legendTitle, Outside: true},
		Grid:          Grid{Dashed: true, Alpha: gridAlpha},
	}, nil
}

// TemperatureAxis builds the primary horizontal axis: log scale, inverted,
// spanning [min*0.9, max*1.1] of the data.
func TemperatureAxis(rows []model.ClassifiedStar) Axis {
	r := Range{Min: fallbackTemperatureMin, Max: fallbackTemperatureMax}
	if len(rows) > 0 {
		temps := lo.Map(rows, func(s model.ClassifiedStar, _ int) float64 { return s.Temperature })
		r = Range{Min: lo.Min(temps), Max: lo.Max(temps)}
	}
	r = Range{Min: r.Min * temperatureMinPad, Max: r.Max * temperatureMaxPad}

	majors := make([]Tick, len(temperatureMajors))
	for i, v := range temperatureMajors {
		majors[i] = Tick{Value: v, Label: strconv.Itoa(int(v))}
	}
	return Axis{
		Label:    temperatureLabel,
		Position: Bottom,
		Scale:    ScaleLog,
		Inverted: true,
		Range:    r,
		Ticks:    append(majors, logMinorTicks(r, majors)...),
	}
}

// MagnitudeAxis builds the primary vertical axis: linear, inverted so bright
// stars are on top, spanning [min-1, max+1] of the data.
func MagnitudeAxis(rows []model.ClassifiedStar) Axis {
	r := Range{Min: fallbackMagnitudeMin, Max: fallbackMagnitudeMax}
	if len(rows) > 0 {
		mags := lo.Map(rows, func(s model.ClassifiedStar, _ int) float64 { return s.AbsoluteMagnitude })
		r = Range{Min: lo.Min(mags), Max: lo.Max(mags)}
	}
	return Axis{
		Label:    magnitudeLabel,
		Position: Left,
		Scale:    ScaleLinear,
		Inverted: true,
		Range:    Range{Min: r.Min - magnitudePad, Max: r.Max + magnitudePad},
	}
}

// checkRange rejects a padded span the axis scale cannot map: padding can
// overflow to infinity or be absorbed by rounding at extreme magnitudes.
func checkRange(ax Axis) error {
	r := ax.Range
	switch {
	case math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0):
		return fmt.Errorf("%w: %s range [%v, %v] is not finite", ErrInvalidData, ax.Label, r.Min, r.Max)
	case r.Min >= r.Max:
		return fmt.Errorf("%w: %s range [%v, %v] is empty", ErrInvalidData, ax.Label, r.Min, r.Max)
	case ax.Scale == ScaleLog && r.Min <= 0:
		return fmt.Errorf("%w: %s range [%v, %v] must be positive on a log scale", ErrInvalidData, ax.Label, r.Min, r.Max)
	}
	return nil
}

// groupSeries builds one series per label. Color and marker size come from
// the first row of each group.
func groupSeries(rows []model.ClassifiedStar) []Series {
	byLabel := func(s model.ClassifiedStar) string { return s.Label }
	labels := lo.Uniq(lo.Map(rows, func(s model.ClassifiedStar, _ int) string { return byLabel(s) }))
	groups := lo.GroupBy(rows, byLabel)

	series := make([]Series, 0, len(labels))
	for _, label := range labels {
		group := groups[label]
		if len(group) == 0 {
			continue
		}
		series = append(series, Series{
			Label:      label,
			Color:      group[0].Color,
			MarkerSize: group[0].MarkerSize,
			Points: lo.Map(group, func(s model.ClassifiedStar, _ int) Point {
				return Point{Temperature: s.Temperature, Magnitude: s.AbsoluteMagnitude}
			}),
		})
	}
	return series
}
