package csvload

// Option applies a configuration option to the loader.
type Option func(*loader)

// WithMaxRows bounds the number of data rows accepted.
// If maxRows <= 0 the row count is unbounded.
func WithMaxRows(maxRows int) Option {
	return func(l *loader) {
		l.maxRows = maxRows
	}
}

// WithComma sets the field delimiter. Zero keeps the default ','.
func WithComma(r rune) Option {
	return func(l *loader) {
		if r != 0 {
			l.comma = r
		}
	}
}
