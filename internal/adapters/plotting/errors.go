package plotting

import "errors"

// Sentinel kinds for plotting errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrUnknownColor      = errors.New("unknown color name")
	ErrEncode            = errors.New("encode figure failed")
)
