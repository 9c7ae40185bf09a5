// Package service composes the loader, classifier, renderer and figure
// encoder into the pipeline served by the HTTP API.
package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/hrdiagram/internal/adapters/csvload"
	"github.com/okian/hrdiagram/internal/adapters/plotting"
	"github.com/okian/hrdiagram/internal/domain/classify"
	"github.com/okian/hrdiagram/internal/domain/diagram"
	"github.com/okian/hrdiagram/internal/domain/model"
	"github.com/okian/hrdiagram/pkg/logger"
	"github.com/okian/hrdiagram/pkg/metrics"
	"gonum.org/v1/plot/vg"
)

// Failure kinds reported in stats and metrics.
const (
	KindTooLarge   = "too_large"
	KindParse      = "parse"
	KindValidation = "validation"
	KindLookup     = "lookup"
	KindFormat     = "format"
	KindRender     = "render"
	KindEncode     = "encode"
	KindCanceled   = "canceled"
)

// Service runs the diagram pipeline. It is safe for concurrent use.
type Service struct {
	mu sync.RWMutex

	// Core components
	classifier classify.Classifier

	// Configuration
	format  string
	maxRows int
	comma   rune
	width   float64 // inches; zero keeps the encoder default
	height  float64

	// State
	started  bool
	uploads  atomic.Int64
	rendered atomic.Int64
	failures sync.Map // kind -> *atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFormat sets the image format used when a caller passes none.
func WithFormat(format string) Option {
	return func(s *Service) {
		if format != "" {
			s.format = format
		}
	}
}

// WithMaxRows bounds the number of data rows per upload. Zero disables the bound.
func WithMaxRows(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxRows = n
		}
	}
}

// WithComma sets the CSV field delimiter of uploads.
func WithComma(r rune) Option {
	return func(s *Service) {
		if r != 0 {
			s.comma = r
		}
	}
}

// WithImageSize sets the figure size in inches.
func WithImageSize(width, height float64) Option {
	return func(s *Service) {
		if width > 0 && height > 0 {
			s.width = width
			s.height = height
		}
	}
}

// WithClassifier replaces the star-type classifier.
func WithClassifier(c classify.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		classifier: classify.NewTableClassifier(),
		format:     plotting.DefaultFormat,
		maxRows:    100_000,
		comma:      ',',
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("pipeline")
	}
	return s
}

// Start marks the service ready to accept uploads.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if _, err := plotting.ContentType(s.format); err != nil {
		return err
	}

	s.started = true
	s.logger.Info(ctx, "diagram service started",
		logger.String("format", s.format),
		logger.Int("maxRows", s.maxRows),
	)
	return nil
}

// Stop marks the service stopped. In-flight requests finish normally.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "diagram service stopped")
}

// Format returns the default image format.
func (s *Service) Format() string {
	return s.format
}

// Build loads, validates and classifies the CSV in r and lays out the figure.
func (s *Service) Build(ctx context.Context, r io.Reader) (*diagram.Figure, []model.ClassifiedStar, error) {
	s.uploads.Add(1)
	metrics.RecordUpload()

	fig, rows, err := s.build(ctx, r)
	if err != nil {
		s.fail(ctx, err)
		return nil, nil, err
	}
	return fig, rows, nil
}

func (s *Service) build(ctx context.Context, r io.Reader) (*diagram.Figure, []model.ClassifiedStar, error) {
	start := time.Now()
	ds, err := csvload.Load(ctx, r, csvload.WithMaxRows(s.maxRows), csvload.WithComma(s.comma))
	if err != nil {
		return nil, nil, err
	}
	metrics.RecordStageLatency(metrics.StageLoad, sinceMs(start))
	metrics.RecordRows(ds.Len())

	start = time.Now()
	rows, err := s.classifier.Classify(ctx, ds)
	if err != nil {
		return nil, nil, err
	}
	metrics.RecordStageLatency(metrics.StageClassify, sinceMs(start))

	start = time.Now()
	fig, err := diagram.Render(rows)
	if err != nil {
		return nil, nil, err
	}
	metrics.RecordStageLatency(metrics.StageRender, sinceMs(start))

	s.logger.Debug(ctx, "figure laid out",
		logger.Int("rows", len(rows)),
		logger.Int("series", len(fig.Series)),
	)
	return fig, rows, nil
}

// Render runs Build and encodes the figure to w. An empty format selects the
// service default. Nothing is written to w when any stage fails.
func (s *Service) Render(ctx context.Context, r io.Reader, format string, w io.Writer) (*diagram.Figure, error) {
	if format == "" {
		format = s.format
	}
	if _, err := plotting.ContentType(format); err != nil {
		s.uploads.Add(1)
		metrics.RecordUpload()
		s.fail(ctx, err)
		return nil, err
	}

	fig, _, err := s.Build(ctx, r)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var buf bytes.Buffer
	opts := []plotting.Option{plotting.WithFormat(format)}
	if s.width > 0 {
		opts = append(opts, plotting.WithSize(vg.Length(s.width)*vg.Inch, vg.Length(s.height)*vg.Inch))
	}
	if err := plotting.Encode(ctx, fig, &buf, opts...); err != nil {
		s.fail(ctx, err)
		return nil, err
	}
	metrics.RecordStageLatency(metrics.StageEncode, sinceMs(start))
	metrics.RecordEncodedBytes(format, buf.Len())

	if _, err := buf.WriteTo(w); err != nil {
		s.fail(ctx, err)
		return nil, err
	}

	s.rendered.Add(1)
	metrics.RecordFigureRendered(len(fig.Series))
	s.logger.Info(ctx, "figure rendered",
		logger.String("format", format),
		logger.Int("points", fig.PointCount()),
		logger.Int("series", len(fig.Series)),
	)
	return fig, nil
}

// fail counts and logs a pipeline failure once.
func (s *Service) fail(ctx context.Context, err error) {
	kind := FailureKind(err)
	counter, _ := s.failures.LoadOrStore(kind, new(atomic.Int64))
	counter.(*atomic.Int64).Add(1)
	metrics.RecordUploadFailure(kind)

	if kind == KindEncode || kind == KindRender {
		s.logger.Error(ctx, "pipeline failed", logger.String("kind", kind), logger.Error(err))
		return
	}
	s.logger.Warn(ctx, "upload rejected", logger.String("kind", kind), logger.Error(err))
}

// FailureKind classifies a pipeline error. A body cut off by the upload cap
// surfaces from the CSV reader as a parse error and is reported as too_large.
func FailureKind(err error) string {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.As(err, &maxBytes):
		return KindTooLarge
	case errors.Is(err, csvload.ErrParse):
		return KindParse
	case errors.Is(err, csvload.ErrMissingColumns),
		errors.Is(err, csvload.ErrInvalidValue),
		errors.Is(err, csvload.ErrTooManyRows),
		errors.Is(err, diagram.ErrInvalidData):
		return KindValidation
	case errors.Is(err, classify.ErrUnknownStarType):
		return KindLookup
	case errors.Is(err, plotting.ErrUnsupportedFormat):
		return KindFormat
	case errors.Is(err, diagram.ErrUnclassified):
		return KindRender
	default:
		return KindEncode
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	failures := make(map[string]int64)
	s.failures.Range(func(k, v any) bool {
		failures[k.(string)] = v.(*atomic.Int64).Load()
		return true
	})

	return map[string]interface{}{
		"started":  started,
		"format":   s.format,
		"maxRows":  s.maxRows,
		"uploads":  s.uploads.Load(),
		"rendered": s.rendered.Load(),
		"failures": failures,
	}
}

func sinceMs(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
