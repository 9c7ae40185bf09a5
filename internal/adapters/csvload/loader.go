// Package csvload parses uploaded star catalogs into datasets.
package csvload

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/okian/hrdiagram/internal/domain/model"
	"github.com/samber/lo"
)

// Constants for loading.
const (
	utf8BOM            = "\ufeff"
	ctxCheckEveryNRows = 1024
)

type loader struct {
	maxRows int
	comma   rune
}

// columnIndex maps each required column to its header position.
type columnIndex map[string]int

// Load parses r as CSV with a header row. The header must carry every
// column in model.RequiredColumns; extra columns are ignored and order is
// irrelevant. A header-only input yields an empty dataset.
func Load(ctx context.Context, r io.Reader, opts ...Option) (*model.Dataset, error) {
	l := &loader{comma: ','}
	for _, opt := range opts {
		opt(l)
	}

	cr := csv.NewReader(r)
	cr.Comma = l.comma

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty input", ErrParse)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	for _, h := range header {
		if !utf8.ValidString(h) {
			return nil, fmt.Errorf("%w: header is not valid UTF-8", ErrParse)
		}
	}

	idx := indexColumns(header)
	missing := lo.Filter(model.RequiredColumns, func(col string, _ int) bool {
		_, ok := idx[col]
		return !ok
	})
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	ds := &model.Dataset{Columns: header}
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		if row%ctxCheckEveryNRows == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("context cancelled: %w", err)
			}
		}
		if l.maxRows > 0 && row >= l.maxRows {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyRows, l.maxRows)
		}
		star, err := parseStar(rec, idx, row)
		if err != nil {
			return nil, err
		}
		ds.Stars = append(ds.Stars, star)
	}
	return ds, nil
}

// indexColumns keeps the first position of every header name.
func indexColumns(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		if _, seen := idx[h]; !seen {
			idx[h] = i
		}
	}
	return idx
}

func parseStar(rec []string, idx columnIndex, row int) (model.Star, error) {
	for col, v := range rec {
		if !utf8.ValidString(v) {
			return model.Star{}, fmt.Errorf("%w: data row %d, field %d is not valid UTF-8", ErrParse, row+1, col+1)
		}
	}

	temp, err := parsePositive(rec, idx, model.ColumnTemperature, row)
	if err != nil {
		return model.Star{}, err
	}
	lum, err := parsePositive(rec, idx, model.ColumnLuminosity, row)
	if err != nil {
		return model.Star{}, err
	}
	mv, err := parseFloat(rec, idx, model.ColumnAbsoluteMagnitude, row)
	if err != nil {
		return model.Star{}, err
	}
	code, err := parseCode(rec, idx, row)
	if err != nil {
		return model.Star{}, err
	}

	return model.Star{
		Temperature:       temp,
		Luminosity:        lum,
		AbsoluteMagnitude: mv,
		StarType:          code,
		SpectralClass:     strings.TrimSpace(rec[idx[model.ColumnSpectralClass]]),
	}, nil
}

func parseFloat(rec []string, idx columnIndex, col string, row int) (float64, error) {
	raw := strings.TrimSpace(rec[idx[col]])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: data row %d, column %q: %w", ErrParse, row+1, col, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: data row %d, column %q must be finite, got %q", ErrInvalidValue, row+1, col, raw)
	}
	return v, nil
}

// parsePositive reads a value plotted on a log scale.
func parsePositive(rec []string, idx columnIndex, col string, row int) (float64, error) {
	v, err := parseFloat(rec, idx, col, row)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: data row %d, column %q must be positive, got %v", ErrInvalidValue, row+1, col, v)
	}
	return v, nil
}

// parseCode accepts integers and integral floats such as "3.0".
func parseCode(rec []string, idx columnIndex, row int) (model.StarType, error) {
	raw := strings.TrimSpace(rec[idx[model.ColumnStarType]])
	if n, err := strconv.Atoi(raw); err == nil {
		return model.StarType(n), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: data row %d, column %q: %w", ErrParse, row+1, model.ColumnStarType, err)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: data row %d, column %q must be an integer, got %q", ErrInvalidValue, row+1, model.ColumnStarType, raw)
	}
	return model.StarType(int(f)), nil
}
