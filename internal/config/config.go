// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a YAML file and environment variables on top of New().
// - External errors must be wrapped via this package's sentinel errors.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text, json or tint.
	LogFormat string `koanf:"log_format" validate:"oneof=text json tint"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxUploadBytes caps the size of an uploaded CSV body.
	MaxUploadBytes int64 `koanf:"max_upload_bytes" validate:"gt=0"`

	// MaxRows caps the number of data rows per upload; 0 disables the cap.
	MaxRows int `koanf:"max_rows" validate:"gte=0"`

	// ImageFormat is the figure format used when a request does not name one.
	ImageFormat string `koanf:"image_format" validate:"oneof=png svg pdf"`

	// ImageWidth and ImageHeight size the figure in inches.
	ImageWidth  float64 `koanf:"image_width" validate:"gt=0,lte=100"`
	ImageHeight float64 `koanf:"image_height" validate:"gt=0,lte=100"`

	// CSVDelimiter names the field separator of uploads.
	CSVDelimiter string `koanf:"csv_delimiter" validate:"oneof=comma semicolon tab pipe"`

	// MetricsNamespace and MetricsSubsystem prefix every metric name.
	MetricsNamespace string `koanf:"metrics_namespace" validate:"metric_name"`
	MetricsSubsystem string `koanf:"metrics_subsystem" validate:"metric_name"`

	// MetricsLabels are constant labels attached to every metric.
	MetricsLabels map[string]string `koanf:"metrics_labels" validate:"dive,keys,metric_name,endkeys"`

	// LatencyBuckets overrides the latency histogram buckets (milliseconds).
	LatencyBuckets []float64 `koanf:"latency_buckets" validate:"dive,gt=0"`
}

// delimiters maps CSVDelimiter names to runes.
var delimiters = map[string]rune{ //nolint:gochecknoglobals // lookup table
	"comma":     ',',
	"semicolon": ';',
	"tab":       '\t',
	"pipe":      '|',
}

// Comma returns the CSV field separator. Unknown names fall back to ','.
func (c *Config) Comma() rune {
	if r, ok := delimiters[c.CSVDelimiter]; ok {
		return r
	}
	return ','
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		MaxUploadBytes: 10 << 20,
		MaxRows:        100_000,
		ImageFormat:    "png",

		ImageWidth:   14,
		ImageHeight:  10,
		CSVDelimiter: "comma",

		MetricsNamespace: "hrd",
		MetricsSubsystem: "diagram",
	}
}
