// Package model contains domain models passed between layers.
package model

// Required CSV column names. Matching is exact and case-sensitive.
const (
	ColumnTemperature       = "Temperature (K)"
	ColumnLuminosity        = "Luminosity(L/Lo)"
	ColumnAbsoluteMagnitude = "Absolute magnitude(Mv)"
	ColumnStarType          = "Star type"
	ColumnSpectralClass     = "Spectral Class"
)

// RequiredColumns lists every column a dataset must carry, in display order.
var RequiredColumns = []string{
	ColumnTemperature,
	ColumnLuminosity,
	ColumnAbsoluteMagnitude,
	ColumnStarType,
	ColumnSpectralClass,
}

// StarType is the categorical star-type code found in the dataset.
type StarType int

// Star is a single dataset row.
type Star struct {
	Temperature       float64  // effective temperature in Kelvin
	Luminosity        float64  // luminosity in solar units
	AbsoluteMagnitude float64  // Mv, lower is brighter
	StarType          StarType // code looked up by the classifier
	SpectralClass     string   // informational only
}

// Dataset is the parsed content of one upload.
type Dataset struct {
	Columns []string
	Stars   []Star
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Stars)
}

// Attributes are the display properties derived from a star type.
type Attributes struct {
	Label      string `json:"label"`
	MarkerSize int    `json:"marker_size"`
	Color      string `json:"color"`
}

// ClassifiedStar is a row augmented with its derived display attributes.
type ClassifiedStar struct {
	Star
	Attributes
}
