package plotting

import (
	"strings"

	"gonum.org/v1/plot/vg"
)

// Option applies a configuration option to the encoder.
type Option func(*encoder)

// WithFormat selects the output format: png, svg or pdf.
func WithFormat(format string) Option {
	return func(e *encoder) {
		if f := strings.ToLower(strings.TrimSpace(format)); f != "" {
			e.format = f
		}
	}
}

// WithSize sets the canvas size.
func WithSize(width, height vg.Length) Option {
	return func(e *encoder) {
		if width > 0 && height > 0 {
			e.width = width
			e.height = height
		}
	}
}
