package classify

import (
	"errors"
	"fmt"
)

// Sentinel kinds for classification errors.
var (
	ErrUnknownStarType = errors.New("unknown star type")
)

// UnknownStarTypeError reports a star-type code missing from the lookup table.
// Row is the zero-based data row index, or -1 for a direct lookup.
type UnknownStarTypeError struct {
	Row  int
	Code int
}

func (e *UnknownStarTypeError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%s: %d", ErrUnknownStarType, e.Code)
	}
	return fmt.Sprintf("%s %d in data row %d", ErrUnknownStarType, e.Code, e.Row+1)
}

// Unwrap allows errors.Is(err, ErrUnknownStarType).
func (e *UnknownStarTypeError) Unwrap() error { return ErrUnknownStarType }
