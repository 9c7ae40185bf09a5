package samplestars

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/okian/hrdiagram/internal/domain/model"
)

// Extra columns carried by the published star catalog. They are written for
// realism and ignored by the loader.
const (
	ColumnRadius    = "Radius(R/Ro)"
	ColumnStarColor = "Star color"
)

// Header is the column order of written catalogs.
var Header = []string{
	model.ColumnTemperature,
	model.ColumnLuminosity,
	ColumnRadius,
	model.ColumnAbsoluteMagnitude,
	model.ColumnStarType,
	ColumnStarColor,
	model.ColumnSpectralClass,
}

// WriteCSV writes stars with a header row to w.
func WriteCSV(w io.Writer, stars []model.Star) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, s := range stars {
		rec := []string{
			strconv.FormatFloat(s.Temperature, 'f', -1, 64),
			strconv.FormatFloat(s.Luminosity, 'g', -1, 64),
			strconv.FormatFloat(Radius(s), 'g', -1, 64),
			strconv.FormatFloat(s.AbsoluteMagnitude, 'f', -1, 64),
			strconv.Itoa(int(s.StarType)),
			StarColor(s.SpectralClass),
			s.SpectralClass,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
