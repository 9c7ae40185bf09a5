package csvload

import (
	"errors"
	"strings"
)

// Sentinel kinds for loader errors. These allow errors.Is/As from callers.
var (
	ErrParse          = errors.New("parse csv failed")
	ErrMissingColumns = errors.New("missing required columns")
	ErrInvalidValue   = errors.New("invalid value")
	ErrTooManyRows    = errors.New("too many rows")
)

// MissingColumnsError lists the required columns absent from the header.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return ErrMissingColumns.Error() + ": " + strings.Join(e.Missing, ", ")
}

// Unwrap allows errors.Is(err, ErrMissingColumns).
func (e *MissingColumnsError) Unwrap() error { return ErrMissingColumns }
