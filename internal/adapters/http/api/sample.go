package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/hrdiagram/internal/samplestars"
)

// Bounds for GET /sample.csv?stars=.
const maxSampleStars = 10_000

// SampleHandler serves deterministic synthetic catalogs.
type SampleHandler struct{}

// NewSampleHandler creates a new sample handler.
func NewSampleHandler() *SampleHandler {
	return &SampleHandler{}
}

// HandleSample handles GET /sample.csv?stars=N&seed=S requests.
func (h *SampleHandler) HandleSample(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_sample"
	if !allowMethod(w, r, op, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	stars := samplestars.DefaultNumStars
	if v := q.Get("stars"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxSampleStars {
			writeError(w, http.StatusBadRequest, codeBadRequest,
				WrapKind(op, ErrBadRequest, fmt.Errorf("stars must be an integer in [1, %d]", maxSampleStars)))
			return
		}
		stars = n
	}
	var seed uint64 = samplestars.DefaultSeed
	if v := q.Get("seed"); v != "" {
		s, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, WrapKind(op, ErrBadRequest, fmt.Errorf("seed must be a non-negative integer")))
			return
		}
		seed = s
	}

	data, _, err := samplestars.Catalog(seed, stars)
	if err != nil {
		respondError(w, r, op, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sample_stars.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
