package config

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "HRD_"
	envConfig  = "HRD_CONFIG"
	keyDivider = "."
)

var validate = newValidator() //nolint:gochecknoglobals // validator caches struct metadata

// metricName matches Prometheus metric and label name components.
var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("metric_name", func(fl validator.FieldLevel) bool {
		return metricName.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if HRD_CONFIG is set
//  3. env (prefix HRD_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(keyDivider)

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Map env keys like HRD_MAX_ROWS -> max_rows (flat keys).
	// Underscores are preserved to match koanf tags on the struct.
	envProvider := env.Provider(envPrefix, keyDivider, func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// HRD_CONFIG names the file and is not a config key.
	k.Delete("config")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.ImageFormat = strings.ToLower(strings.TrimSpace(cfg.ImageFormat))
	cfg.CSVDelimiter = strings.ToLower(strings.TrimSpace(cfg.CSVDelimiter))

	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate(ctx context.Context) error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if err := validate.StructCtx(ctx, c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for i := 1; i < len(c.LatencyBuckets); i++ {
		if c.LatencyBuckets[i] <= c.LatencyBuckets[i-1] {
			return fmt.Errorf("%w: latency_buckets must be strictly increasing", ErrInvalidConfig)
		}
	}
	return nil
}
