package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/okian/hrdiagram/internal/adapters/http/api"
	service "github.com/okian/hrdiagram/internal/app"
	"github.com/okian/hrdiagram/internal/domain/diagram"
	"github.com/okian/hrdiagram/internal/domain/model"
	"github.com/okian/hrdiagram/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const header = "Temperature (K),Luminosity(L/Lo),Radius(R/Ro),Absolute magnitude(Mv),Star type,Star color,Spectral Class\n"

const catalog = header +
	"3068,0.0024,0.17,16.12,0,Red,M\n" +
	"5778,1,1,4.83,3,Yellow,G\n" +
	"3600,320000,1324,-10.7,5,Red,M\n"

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

// failingDeps returns err from every pipeline call.
type failingDeps struct {
	err error
}

func (f failingDeps) Build(context.Context, io.Reader) (*diagram.Figure, []model.ClassifiedStar, error) {
	return nil, nil, f.err
}

func (f failingDeps) Render(context.Context, io.Reader, string, io.Writer) (*diagram.Figure, error) {
	return nil, f.err
}

func (f failingDeps) Format() string { return "png" }

type staticStats map[string]interface{}

func (s staticStats) GetStats() map[string]interface{} { return s }

func newMux(deps api.Dependencies, opts ...api.Option) http.Handler {
	mux := http.NewServeMux()
	api.NewServer(deps, staticStats{"uploads": 3}, opts...).Register(context.Background(), mux)
	return api.RequestIDMiddleware(mux)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func multipartBody(field, content string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("note", "ignored")
	part, _ := mw.CreateFormFile(field, "stars.csv")
	_, _ = part.Write([]byte(content))
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestRegister(t *testing.T) {
	Convey("Given a server", t, func() {
		server := api.NewServer(service.New(), staticStats{})

		Convey("When registering on a nil mux", func() {
			Convey("Then it should panic", func() {
				So(func() { server.Register(context.Background(), nil) }, ShouldPanic)
			})
		})
	})
}

func TestDiagramEndpoint(t *testing.T) {
	Convey("Given the diagram endpoint backed by the pipeline", t, func() {
		h := newMux(service.New())

		Convey("When posting a raw CSV body as SVG", func() {
			req := httptest.NewRequest(http.MethodPost, "/diagram?format=svg", strings.NewReader(catalog))
			req.Header.Set("Content-Type", "text/csv")
			w := serve(h, req)

			Convey("Then the figure is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "image/svg+xml")
				So(w.Header().Get("X-Star-Count"), ShouldEqual, "3")
				So(w.Body.String(), ShouldContainSubstring, "Stellar Classification")
			})
		})

		Convey("When posting a multipart upload with the default format", func() {
			body, contentType := multipartBody("file", catalog)
			req := httptest.NewRequest(http.MethodPost, "/diagram", body)
			req.Header.Set("Content-Type", contentType)
			w := serve(h, req)

			Convey("Then a PNG is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "image/png")
				So(w.Body.Bytes()[:4], ShouldResemble, []byte("\x89PNG"))
			})
		})

		Convey("When the multipart form has no file field", func() {
			body, contentType := multipartBody("upload", catalog)
			req := httptest.NewRequest(http.MethodPost, "/diagram", body)
			req.Header.Set("Content-Type", contentType)
			w := serve(h, req)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When the format is unsupported", func() {
			req := httptest.NewRequest(http.MethodPost, "/diagram?format=gif", strings.NewReader(catalog))
			w := serve(h, req)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When a required column is missing", func() {
			body := "Temperature (K),Luminosity(L/Lo),Star type\n5778,1,3\n"
			req := httptest.NewRequest(http.MethodPost, "/diagram", strings.NewReader(body))
			w := serve(h, req)

			Convey("Then a validation error names the missing columns", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				problem := decodeError(w)
				So(problem["code"], ShouldEqual, "validation_error")
				So(problem["message"], ShouldEqual, "Dataset is missing one or more required columns.")
				So(problem["details"], ShouldResemble, []interface{}{"Absolute magnitude(Mv)", "Spectral Class"})
				So(problem["request_id"], ShouldEqual, w.Header().Get(api.RequestIDHeader))
			})
		})

		Convey("When a star type has no mapping", func() {
			req := httptest.NewRequest(http.MethodPost, "/diagram", strings.NewReader(header+"5778,1,1,4.83,6,Yellow,G\n"))
			w := serve(h, req)

			Convey("Then a lookup error is returned", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				problem := decodeError(w)
				So(problem["code"], ShouldEqual, "lookup_error")
				So(problem["message"], ShouldEqual, "unknown star type 6 in data row 1")
			})
		})

		Convey("When a value is not numeric", func() {
			req := httptest.NewRequest(http.MethodPost, "/diagram", strings.NewReader(header+"hot,1,1,4.83,3,Yellow,G\n"))
			w := serve(h, req)

			Convey("Then a parse error names the cause without handler internals", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				problem := decodeError(w)
				So(problem["code"], ShouldEqual, "parse_error")
				So(problem["message"], ShouldStartWith, "parse csv failed: data row 1")
				So(problem["message"], ShouldNotContainSubstring, "api.")
			})
		})

		Convey("When the multipart form has no file field and the message is read", func() {
			body, contentType := multipartBody("upload", catalog)
			req := httptest.NewRequest(http.MethodPost, "/diagram", body)
			req.Header.Set("Content-Type", contentType)
			w := serve(h, req)

			Convey("Then the kind is reported on its own", func() {
				So(decodeError(w)["message"], ShouldEqual, "missing upload")
			})
		})

		Convey("When padding pushes the temperature axis to infinity", func() {
			req := httptest.NewRequest(http.MethodPost, "/diagram", strings.NewReader(header+"1.7e308,1,1,4.8,3,Yellow,G\n"))
			w := serve(h, req)

			Convey("Then a validation error is written instead of a dropped connection", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				problem := decodeError(w)
				So(problem["code"], ShouldEqual, "validation_error")
				So(problem["message"], ShouldStartWith, "invalid diagram data: Temperature (K) range")
			})
		})

		Convey("When the method is not POST", func() {
			w := serve(h, httptest.NewRequest(http.MethodGet, "/diagram", nil))

			Convey("Then it is not allowed", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Header().Get("Allow"), ShouldEqual, http.MethodPost)
			})
		})
	})

	Convey("Given a small upload cap", t, func() {
		svc := service.New()
		h := newMux(svc, api.WithMaxUploadBytes(16))

		Convey("When the declared length exceeds it", func() {
			w := serve(h, httptest.NewRequest(http.MethodPost, "/diagram", strings.NewReader(catalog)))

			Convey("Then the upload is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
				So(decodeError(w)["code"], ShouldEqual, "too_large")
			})
		})

		Convey("When the body length is unknown", func() {
			req := httptest.NewRequest(http.MethodPost, "/diagram", io.MultiReader(strings.NewReader(catalog)))
			w := serve(h, req)

			Convey("Then the cap is enforced while reading", func() {
				So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			})

			Convey("And the pipeline counts it as too large", func() {
				failures := svc.GetStats()["failures"].(map[string]int64)
				So(failures[service.KindTooLarge], ShouldEqual, 1)
				So(failures[service.KindParse], ShouldEqual, 0)
			})
		})
	})

	Convey("Given a pipeline that fails unexpectedly", t, func() {
		Convey("When the error is unclassified", func() {
			h := newMux(failingDeps{err: errors.New("boom")})
			w := serve(h, httptest.NewRequest(http.MethodPost, "/diagram", strings.NewReader(catalog)))

			Convey("Then an internal error hides the cause", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				problem := decodeError(w)
				So(problem["code"], ShouldEqual, "internal_error")
				So(problem["message"], ShouldNotContainSubstring, "boom")
			})
		})

		Convey("When the client went away", func() {
			h := newMux(failingDeps{err: context.Canceled})
			w := serve(h, httptest.NewRequest(http.MethodPost, "/diagram", strings.NewReader(catalog)))

			Convey("Then the request is reported as cancelled", func() {
				So(w.Code, ShouldEqual, 499)
				So(decodeError(w)["code"], ShouldEqual, "canceled")
			})
		})
	})
}

func TestClassifyEndpoint(t *testing.T) {
	Convey("Given the classify endpoint", t, func() {
		h := newMux(service.New())

		Convey("When posting a catalog", func() {
			w := serve(h, httptest.NewRequest(http.MethodPost, "/classify", strings.NewReader(catalog)))

			var body struct {
				Title string `json:"title"`
				Rows  []struct {
					Temperature float64 `json:"temperature"`
					Label       string  `json:"label"`
					MarkerSize  int     `json:"marker_size"`
					Color       string  `json:"color"`
				} `json:"rows"`
				Series []struct {
					Label string `json:"label"`
					Count int    `json:"count"`
				} `json:"series"`
				Axes map[string]struct {
					Scale    string  `json:"scale"`
					Position string  `json:"position"`
					Inverted bool    `json:"inverted"`
					Min      float64 `json:"min"`
					Max      float64 `json:"max"`
					Ticks    []struct {
						Label string `json:"label"`
					} `json:"ticks"`
				} `json:"axes"`
			}
			So(w.Code, ShouldEqual, http.StatusOK)
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)

			Convey("Then every row carries its derived attributes", func() {
				So(body.Title, ShouldEqual, "Hertzsprung-Russell Diagram")
				So(body.Rows, ShouldHaveLength, 3)
				So(body.Rows[1].Label, ShouldEqual, "Main Sequence")
				So(body.Rows[1].MarkerSize, ShouldEqual, 50)
				So(body.Rows[1].Color, ShouldEqual, "blue")
			})

			Convey("And the series follow first appearance", func() {
				So(body.Series, ShouldHaveLength, 3)
				So(body.Series[0].Label, ShouldEqual, "Red Dwarf")
				So(body.Series[2].Label, ShouldEqual, "Supergiant")
			})

			Convey("And the axes describe the layout", func() {
				temp := body.Axes["temperature"]
				So(temp.Scale, ShouldEqual, "log")
				So(temp.Inverted, ShouldBeTrue)
				So(temp.Min, ShouldAlmostEqual, 3068*0.9, 1e-6)
				So(temp.Max, ShouldAlmostEqual, 5778*1.1, 1e-6)

				spectral := body.Axes["spectral_class"]
				So(spectral.Position, ShouldEqual, "top")
				labels := make([]string, 0, len(spectral.Ticks))
				for _, tk := range spectral.Ticks {
					labels = append(labels, tk.Label)
				}
				So(labels, ShouldResemble, []string{"O", "B", "A", "F", "G", "K", "M"})

				lum := body.Axes["luminosity"]
				So(lum.Position, ShouldEqual, "right")
				So(lum.Min, ShouldAlmostEqual, 1e-6, 1e-12)
				So(lum.Max, ShouldAlmostEqual, 1e6, 1e-6)
				So(lum.Ticks, ShouldHaveLength, 13)
			})
		})

		Convey("When the dataset has only a header", func() {
			w := serve(h, httptest.NewRequest(http.MethodPost, "/classify", strings.NewReader(header)))

			Convey("Then an empty layout is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"rows":[]`)
				So(w.Body.String(), ShouldContainSubstring, `"series":[]`)
			})
		})

		Convey("When the input is empty", func() {
			w := serve(h, httptest.NewRequest(http.MethodPost, "/classify", strings.NewReader("")))

			Convey("Then a parse error is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "parse_error")
			})
		})
	})
}

func TestSampleEndpoint(t *testing.T) {
	Convey("Given the sample endpoint", t, func() {
		h := newMux(service.New())

		Convey("When requesting a small catalog twice", func() {
			a := serve(h, httptest.NewRequest(http.MethodGet, "/sample.csv?stars=5&seed=3", nil))
			b := serve(h, httptest.NewRequest(http.MethodGet, "/sample.csv?stars=5&seed=3", nil))

			Convey("Then the same CSV is returned", func() {
				So(a.Code, ShouldEqual, http.StatusOK)
				So(a.Header().Get("Content-Type"), ShouldStartWith, "text/csv")
				So(a.Body.String(), ShouldEqual, b.Body.String())
				So(strings.Count(a.Body.String(), "\n"), ShouldEqual, 6)
			})

			Convey("And the catalog renders", func() {
				w := serve(h, httptest.NewRequest(http.MethodPost, "/classify", strings.NewReader(a.Body.String())))
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When the parameters are invalid", func() {
			Convey("Then a bad request is returned", func() {
				for _, q := range []string{"stars=0", "stars=abc", "stars=10001", "seed=-1"} {
					w := serve(h, httptest.NewRequest(http.MethodGet, "/sample.csv?"+q, nil))
					So(w.Code, ShouldEqual, http.StatusBadRequest)
					So(decodeError(w)["message"], ShouldNotStartWith, "api.")
				}
				w := serve(h, httptest.NewRequest(http.MethodGet, "/sample.csv?stars=0", nil))
				So(decodeError(w)["message"], ShouldEqual, "stars must be an integer in [1, 10000]")
			})
		})
	})
}

func TestProbeEndpoints(t *testing.T) {
	Convey("Given the probe endpoints", t, func() {
		h := newMux(service.New())

		Convey("When requesting /stats", func() {
			w := serve(h, httptest.NewRequest(http.MethodGet, "/stats", nil))

			Convey("Then the provider counters are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"uploads":3`)
			})
		})

		Convey("When posting to /stats", func() {
			w := serve(h, httptest.NewRequest(http.MethodPost, "/stats", nil))

			Convey("Then it is not allowed", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})

		Convey("When requesting /healthz", func() {
			serve(h, httptest.NewRequest(http.MethodGet, "/stats", nil))
			w := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			Convey("Then the Prometheus exposition is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "hrd_diagram_http_requests_total")
			})
		})

		Convey("When requesting /dashboard", func() {
			w := serve(h, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

			Convey("Then the dashboard page is served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "fetch('/stats')")
			})
		})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given the request id middleware", t, func() {
		var seen string
		h := api.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = logger.RequestID(r.Context())
		}))

		Convey("When the request has no id", func() {
			w := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

			Convey("Then a UUID is generated and stored in the context", func() {
				id := w.Header().Get(api.RequestIDHeader)
				_, err := uuid.Parse(id)
				So(err, ShouldBeNil)
				So(seen, ShouldEqual, id)
			})
		})

		Convey("When the request carries a valid id", func() {
			id := uuid.NewString()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(api.RequestIDHeader, id)
			w := serve(h, req)

			Convey("Then it is kept", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, id)
				So(seen, ShouldEqual, id)
			})
		})

		Convey("When the request carries a malformed id", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(api.RequestIDHeader, "<script>")
			w := serve(h, req)

			Convey("Then it is replaced", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldNotEqual, "<script>")
				_, err := uuid.Parse(w.Header().Get(api.RequestIDHeader))
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestKindErrors(t *testing.T) {
	Convey("Given kind errors", t, func() {
		cause := errors.New("eof")

		Convey("Then NewKind carries the op and kind", func() {
			err := api.NewKind("api.op", api.ErrBadRequest)
			So(err.Error(), ShouldEqual, "api.op: bad request")
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
		})

		Convey("Then WrapKind matches both kind and cause", func() {
			err := api.WrapKind("api.op", api.ErrTooLarge, cause)
			So(err.Error(), ShouldEqual, "api.op: upload too large: eof")
			So(errors.Is(err, api.ErrTooLarge), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
		})

		Convey("Then Wrap keeps nil as nil", func() {
			So(api.Wrap("api.op", nil), ShouldBeNil)
			err := api.Wrap("api.op", cause)
			So(err.Error(), ShouldEqual, "api.op: eof")
			So(errors.Is(err, cause), ShouldBeTrue)
		})
	})
}
