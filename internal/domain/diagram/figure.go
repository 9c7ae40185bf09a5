// Package diagram builds the Hertzsprung-Russell figure description from
// classified stars. It is independent of any drawing backend.
package diagram

// Scale selects how values map onto an axis.
type Scale int

// Axis scales.
const (
	ScaleLinear Scale = iota
	ScaleLog
)

func (s Scale) String() string {
	if s == ScaleLog {
		return "log"
	}
	return "linear"
}

// Position is the side of the plot area an axis is drawn on.
type Position int

// Axis positions.
const (
	Bottom Position = iota
	Left
	Top
	Right
)

func (p Position) String() string {
	switch p {
	case Left:
		return "left"
	case Top:
		return "top"
	case Right:
		return "right"
	default:
		return "bottom"
	}
}

// Tick is a tick mark. An empty Label marks a minor tick.
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label,omitempty"`
}

// IsMinor reports whether the tick carries no label.
func (t Tick) IsMinor() bool { return t.Label == "" }

// Range is a closed interval in data coordinates with Min <= Max.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Axis describes one axis of the figure.
type Axis struct {
	Label    string   `json:"label"`
	Position Position `json:"position"`
	Scale    Scale    `json:"scale"`
	Inverted bool     `json:"inverted"`
	Range    Range    `json:"range"`
	Ticks    []Tick   `json:"ticks"`
}

// Display returns the axis bounds in drawing order, start to end.
// Inverted axes start at Max.
func (a Axis) Display() (start, end float64) {
	if a.Inverted {
		return a.Range.Max, a.Range.Min
	}
	return a.Range.Min, a.Range.Max
}

// MajorTicks returns the labeled ticks only.
func (a Axis) MajorTicks() []Tick {
	var out []Tick
	for _, t := range a.Ticks {
		if !t.IsMinor() {
			out = append(out, t)
		}
	}
	return out
}

// Point is one star in primary axis coordinates.
type Point struct {
	Temperature float64 `json:"temperature"`
	Magnitude   float64 `json:"magnitude"`
}

// Series is the scatter group of one star-type label.
type Series struct {
	Label      string  `json:"label"`
	Color      string  `json:"color"`
	MarkerSize int     `json:"marker_size"`
	Points     []Point `json:"points"`
}

// Legend places series labels next to the plot area.
type Legend struct {
	Title   string `json:"title"`
	Outside bool   `json:"outside"`
}

// Grid describes the background grid.
type Grid struct {
	Dashed bool    `json:"dashed"`
	Alpha  float64 `json:"alpha"`
}

// Figure is the complete diagram: one scatter plot with a temperature and
// a magnitude axis, plus the spectral class and luminosity overlays.
type Figure struct {
	Title         string   `json:"title"`
	Series        []Series `json:"series"`
	Temperature   Axis     `json:"temperature_axis"`
	Magnitude     Axis     `json:"magnitude_axis"`
	SpectralClass Axis     `json:"spectral_class_axis"`
	Luminosity    Axis     `json:"luminosity_axis"`
	Legend        Legend   `json:"legend"`
	Grid          Grid     `json:"grid"`
}

// PointCount returns the number of points over all series.
func (f *Figure) PointCount() int {
	n := 0
	for _, s := range f.Series {
		n += len(s.Points)
	}
	return n
}
