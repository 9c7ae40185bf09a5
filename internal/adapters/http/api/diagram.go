package api

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/hrdiagram/internal/adapters/plotting"
)

// DiagramHandler renders uploaded datasets to images.
type DiagramHandler struct {
	deps     Dependencies
	maxBytes int64
}

// NewDiagramHandler creates a new diagram handler.
func NewDiagramHandler(deps Dependencies, maxBytes int64) *DiagramHandler {
	return &DiagramHandler{deps: deps, maxBytes: maxBytes}
}

// HandlePostDiagram handles POST /diagram?format=png|svg|pdf requests.
func (h *DiagramHandler) HandlePostDiagram(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_diagram"
	if !allowMethod(w, r, op, http.MethodPost) {
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = h.deps.Format()
	}
	contentType, err := plotting.ContentType(format)
	if err != nil {
		respondError(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}

	body, err := openUpload(w, r, op, h.maxBytes)
	if err != nil {
		respondError(w, r, op, err)
		return
	}

	var buf bytes.Buffer
	fig, err := h.deps.Render(r.Context(), body, format, &buf)
	if err != nil {
		respondError(w, r, op, Wrap(op, err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Content-Disposition", `inline; filename="hr-diagram.`+format+`"`)
	w.Header().Set("X-Star-Count", strconv.Itoa(fig.PointCount()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
