package diagram

import "errors"

// Sentinel kinds for diagram errors.
var (
	ErrInvalidData  = errors.New("invalid diagram data")
	ErrUnclassified = errors.New("star is not classified")
)
