package api

import (
	"net/http"

	"github.com/samber/lo"

	"github.com/okian/hrdiagram/internal/domain/diagram"
	"github.com/okian/hrdiagram/internal/domain/model"
)

// ClassifyHandler returns the classified rows and figure layout as JSON.
type ClassifyHandler struct {
	deps     Dependencies
	maxBytes int64
}

// NewClassifyHandler creates a new classify handler.
func NewClassifyHandler(deps Dependencies, maxBytes int64) *ClassifyHandler {
	return &ClassifyHandler{deps: deps, maxBytes: maxBytes}
}

type starView struct {
	Temperature       float64 `json:"temperature"`
	Luminosity        float64 `json:"luminosity"`
	AbsoluteMagnitude float64 `json:"absolute_magnitude"`
	StarType          int     `json:"star_type"`
	SpectralClass     string  `json:"spectral_class"`
	model.Attributes
}

type seriesView struct {
	Label      string `json:"label"`
	Color      string `json:"color"`
	MarkerSize int    `json:"marker_size"`
	Count      int    `json:"count"`
}

type axisView struct {
	Label    string     `json:"label"`
	Position string     `json:"position"`
	Scale    string     `json:"scale"`
	Inverted bool       `json:"inverted"`
	Min      float64    `json:"min"`
	Max      float64    `json:"max"`
	Ticks    []tickView `json:"ticks"`
}

type tickView struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

type classifyResponse struct {
	Title  string              `json:"title"`
	Rows   []starView          `json:"rows"`
	Series []seriesView        `json:"series"`
	Axes   map[string]axisView `json:"axes"`
	Legend diagram.Legend      `json:"legend"`
}

// HandlePostClassify handles POST /classify requests.
func (h *ClassifyHandler) HandlePostClassify(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_classify"
	if !allowMethod(w, r, op, http.MethodPost) {
		return
	}

	body, err := openUpload(w, r, op, h.maxBytes)
	if err != nil {
		respondError(w, r, op, err)
		return
	}

	fig, rows, err := h.deps.Build(r.Context(), body)
	if err != nil {
		respondError(w, r, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newClassifyResponse(fig, rows))
}

func newClassifyResponse(fig *diagram.Figure, rows []model.ClassifiedStar) classifyResponse {
	return classifyResponse{
		Title: fig.Title,
		Rows: lo.Map(rows, func(s model.ClassifiedStar, _ int) starView {
			return starView{
				Temperature:       s.Temperature,
				Luminosity:        s.Luminosity,
				AbsoluteMagnitude: s.AbsoluteMagnitude,
				StarType:          int(s.StarType),
				SpectralClass:     s.SpectralClass,
				Attributes:        s.Attributes,
			}
		}),
		Series: lo.Map(fig.Series, func(s diagram.Series, _ int) seriesView {
			return seriesView{Label: s.Label, Color: s.Color, MarkerSize: s.MarkerSize, Count: len(s.Points)}
		}),
		Axes: map[string]axisView{
			"temperature":    newAxisView(fig.Temperature),
			"magnitude":      newAxisView(fig.Magnitude),
			"spectral_class": newAxisView(fig.SpectralClass),
			"luminosity":     newAxisView(fig.Luminosity),
		},
		Legend: fig.Legend,
	}
}

// newAxisView keeps only the labeled ticks.
func newAxisView(ax diagram.Axis) axisView {
	return axisView{
		Label:    ax.Label,
		Position: ax.Position.String(),
		Scale:    ax.Scale.String(),
		Inverted: ax.Inverted,
		Min:      ax.Range.Min,
		Max:      ax.Range.Max,
		Ticks: lo.Map(ax.MajorTicks(), func(t diagram.Tick, _ int) tickView {
			return tickView{Value: t.Value, Label: t.Label}
		}),
	}
}
