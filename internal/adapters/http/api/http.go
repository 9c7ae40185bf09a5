// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/okian/hrdiagram/internal/domain/diagram"
	"github.com/okian/hrdiagram/internal/domain/model"
	"github.com/okian/hrdiagram/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the pipeline implementation.
type Dependencies interface {
	// Build loads and classifies an upload and lays out its figure.
	Build(ctx context.Context, r io.Reader) (*diagram.Figure, []model.ClassifiedStar, error)

	// Render runs Build and writes the encoded figure to w. Nothing is
	// written on failure.
	Render(ctx context.Context, r io.Reader, format string, w io.Writer) (*diagram.Figure, error)

	// Format is the image format used when a request names none.
	Format() string
}

// Default upload limit when none is configured.
const defaultMaxUploadBytes = 10 << 20

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	diagramHandler   *DiagramHandler
	classifyHandler  *ClassifyHandler
	sampleHandler    *SampleHandler
	dashboardHandler *dashboardHandler
}

// Option applies a configuration option to the Server.
type Option func(*serverOptions)

type serverOptions struct {
	maxUploadBytes int64
}

// WithMaxUploadBytes caps the size of an uploaded dataset.
func WithMaxUploadBytes(n int64) Option {
	return func(o *serverOptions) {
		if n > 0 {
			o.maxUploadBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	o := serverOptions{maxUploadBytes: defaultMaxUploadBytes}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		diagramHandler:   NewDiagramHandler(deps, o.maxUploadBytes),
		classifyHandler:  NewClassifyHandler(deps, o.maxUploadBytes),
		sampleHandler:    NewSampleHandler(),
		dashboardHandler: newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/diagram", MetricsMiddleware(s.diagramHandler.HandlePostDiagram, "diagram"))
	mux.HandleFunc("/classify", MetricsMiddleware(s.classifyHandler.HandlePostClassify, "classify"))
	mux.HandleFunc("/sample.csv", MetricsMiddleware(s.sampleHandler.HandleSample, "sample"))
}

type errorResponse struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Details   []string `json:"details,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = userMessage(err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// respondError maps a pipeline or request error to its HTTP problem response.
func respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	p := problemFor(err)
	if p.status >= http.StatusInternalServerError {
		logger.Get().Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.Int("status", p.status),
			logger.Error(err),
		)
	}
	writeJSON(w, p.status, errorResponse{
		Code:      p.code,
		Message:   p.message,
		Details:   p.details,
		RequestID: logger.RequestID(r.Context()),
	})
}

func allowMethod(w http.ResponseWriter, r *http.Request, op, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
	return false
}
