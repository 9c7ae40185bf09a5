package diagram_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/okian/hrdiagram/internal/domain/diagram"
	"github.com/okian/hrdiagram/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func star(temp, mv float64, label, color string, size int) model.ClassifiedStar {
	return model.ClassifiedStar{
		Star:       model.Star{Temperature: temp, Luminosity: 1, AbsoluteMagnitude: mv},
		Attributes: model.Attributes{Label: label, Color: color, MarkerSize: size},
	}
}

func sampleRows() []model.ClassifiedStar {
	return []model.ClassifiedStar{
		star(3068, 16.12, "Red Dwarf", "red", 30),
		star(5778, 4.83, "Main Sequence", "blue", 50),
		star(3042, 16.6, "Red Dwarf", "red", 30),
		star(39000, -4.7, "Supergiant", "purple", 100),
		star(9700, 11.2, "White Dwarf", "green", 25),
		star(6380, 2.6, "Main Sequence", "blue", 50),
	}
}

func TestRender(t *testing.T) {
	Convey("Given classified rows", t, func() {
		rows := sampleRows()

		Convey("When rendering the figure", func() {
			fig, err := diagram.Render(rows)
			So(err, ShouldBeNil)

			Convey("Then there should be one series per distinct label in first-appearance order", func() {
				labels := make([]string, len(fig.Series))
				for i, s := range fig.Series {
					labels[i] = s.Label
				}
				So(labels, ShouldResemble, []string{"Red Dwarf", "Main Sequence", "Supergiant", "White Dwarf"})
			})

			Convey("And each series should hold the rows of its label", func() {
				counts := map[string]int{}
				for _, r := range rows {
					counts[r.Label]++
				}
				for _, s := range fig.Series {
					So(len(s.Points), ShouldEqual, counts[s.Label])
				}
				So(fig.PointCount(), ShouldEqual, len(rows))
			})

			Convey("And series should carry color and marker size from the group", func() {
				So(fig.Series[0].Color, ShouldEqual, "red")
				So(fig.Series[0].MarkerSize, ShouldEqual, 30)
				So(fig.Series[2].Color, ShouldEqual, "purple")
				So(fig.Series[2].MarkerSize, ShouldEqual, 100)
				So(fig.Series[1].Points[1], ShouldResemble, diagram.Point{Temperature: 6380, Magnitude: 2.6})
			})

			Convey("And the temperature axis should be inverted log with 10% padding", func() {
				ax := fig.Temperature
				So(ax.Scale, ShouldEqual, diagram.ScaleLog)
				So(ax.Inverted, ShouldBeTrue)
				So(ax.Position, ShouldEqual, diagram.Bottom)
				So(ax.Range.Max, ShouldAlmostEqual, 39000*1.1)
				So(ax.Range.Min, ShouldAlmostEqual, 3042*0.9)
				start, end := ax.Display()
				So(start, ShouldBeGreaterThan, end)
				So(start, ShouldAlmostEqual, 39000*1.1)
			})

			Convey("And the magnitude axis should be inverted linear with unit padding", func() {
				ax := fig.Magnitude
				So(ax.Scale, ShouldEqual, diagram.ScaleLinear)
				So(ax.Inverted, ShouldBeTrue)
				So(ax.Range.Max, ShouldAlmostEqual, 17.6)
				So(ax.Range.Min, ShouldAlmostEqual, -5.7)
				start, end := ax.Display()
				So(start, ShouldAlmostEqual, 17.6)
				So(end, ShouldAlmostEqual, -5.7)
			})

			Convey("And the temperature majors should be the fixed set", func() {
				var values []float64
				for _, tk := range fig.Temperature.MajorTicks() {
					values = append(values, tk.Value)
				}
				So(values, ShouldResemble, []float64{40000, 30000, 20000, 10000, 7500, 6000, 5000, 3000})
				So(fig.Temperature.MajorTicks()[0].Label, ShouldEqual, "40000")
			})

			Convey("And minor ticks should sit inside the range on non-major multiples", func() {
				minors := 0
				for _, tk := range fig.Temperature.Ticks {
					if !tk.IsMinor() {
						continue
					}
					minors++
					So(fig.Temperature.Range.Contains(tk.Value), ShouldBeTrue)
					So(tk.Value, ShouldNotEqual, 20000)
				}
				So(minors, ShouldBeGreaterThan, 0)
			})

			Convey("And both overlays should be attached using the primary ranges", func() {
				So(fig.SpectralClass.Range, ShouldResemble, fig.Temperature.Range)
				So(fig.SpectralClass.Position, ShouldEqual, diagram.Top)
				So(fig.Luminosity.Position, ShouldEqual, diagram.Right)
			})

			Convey("And the legend should be outside with a dashed light grid", func() {
				So(fig.Legend.Title, ShouldEqual, "Stellar Classification")
				So(fig.Legend.Outside, ShouldBeTrue)
				So(fig.Grid.Dashed, ShouldBeTrue)
				So(fig.Grid.Alpha, ShouldBeLessThan, 1)
				So(fig.Title, ShouldEqual, "Hertzsprung-Russell Diagram")
			})
		})

		Convey("When rendering twice", func() {
			a, errA := diagram.Render(rows)
			b, errB := diagram.Render(rows)

			Convey("Then the figures should be identical", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(cmp.Diff(a, b), ShouldBeEmpty)
			})
		})
	})

	Convey("Given the Sun alone", t, func() {
		fig, err := diagram.Render([]model.ClassifiedStar{star(5778, 4.83, "Main Sequence", "blue", 50)})

		Convey("Then one series with one point should be produced", func() {
			So(err, ShouldBeNil)
			So(fig.Series, ShouldHaveLength, 1)
			So(fig.Series[0].Points, ShouldHaveLength, 1)
			So(fig.Temperature.Range.Max, ShouldBeGreaterThan, fig.Temperature.Range.Min)
		})
	})

	Convey("Given no rows", t, func() {
		fig, err := diagram.Render(nil)

		Convey("Then an empty but valid figure should be produced", func() {
			So(err, ShouldBeNil)
			So(fig.Series, ShouldBeEmpty)
			So(fig.Temperature.Range.Min, ShouldAlmostEqual, 1800)
			So(fig.Temperature.Range.Max, ShouldAlmostEqual, 44000)
			So(fig.Magnitude.Range.Min, ShouldAlmostEqual, -11)
			So(fig.Magnitude.Range.Max, ShouldAlmostEqual, 21)
			So(fig.SpectralClass.Ticks, ShouldHaveLength, 7)
			So(fig.Luminosity.MajorTicks(), ShouldHaveLength, 13)
		})
	})

	Convey("Given a row without a label", t, func() {
		_, err := diagram.Render([]model.ClassifiedStar{star(5778, 4.83, "", "blue", 50)})

		Convey("Then rendering should refuse it", func() {
			So(errors.Is(err, diagram.ErrUnclassified), ShouldBeTrue)
		})
	})

	Convey("Given a row with a non-positive temperature", t, func() {
		_, err := diagram.Render([]model.ClassifiedStar{star(0, 4.83, "Main Sequence", "blue", 50)})

		Convey("Then rendering should refuse it", func() {
			So(errors.Is(err, diagram.ErrInvalidData), ShouldBeTrue)
		})
	})

	Convey("Given a temperature whose padded maximum overflows", t, func() {
		fig, err := diagram.Render([]model.ClassifiedStar{star(1.7e308, 4.83, "Main Sequence", "blue", 50)})

		Convey("Then rendering should refuse the infinite range", func() {
			So(fig, ShouldBeNil)
			So(errors.Is(err, diagram.ErrInvalidData), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "not finite")
		})
	})

	Convey("Given a magnitude too large for unit padding to widen", t, func() {
		fig, err := diagram.Render([]model.ClassifiedStar{star(5778, 1e308, "Main Sequence", "blue", 50)})

		Convey("Then rendering should refuse the empty range", func() {
			So(fig, ShouldBeNil)
			So(errors.Is(err, diagram.ErrInvalidData), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "is empty")
		})
	})

	Convey("Given extreme but representable values", t, func() {
		fig, err := diagram.Render([]model.ClassifiedStar{
			star(1e300, -1e15, "Supergiant", "purple", 100),
			star(1e-300, 1e15, "Red Dwarf", "red", 30),
		})

		Convey("Then the figure should still be laid out", func() {
			So(err, ShouldBeNil)
			So(fig.Temperature.Range.Max, ShouldAlmostEqual, 1.1e300, 1e286)
			So(fig.Magnitude.Range.Min, ShouldBeLessThan, fig.Magnitude.Range.Max)
		})
	})
}

func TestSpectralClassAxis(t *testing.T) {
	Convey("Given a primary temperature axis", t, func() {
		primary := diagram.Axis{Position: diagram.Bottom, Range: diagram.Range{Min: 1800, Max: 44000}}

		Convey("When building the spectral class overlay", func() {
			ax := diagram.SpectralClassAxis(primary)

			Convey("Then it should carry the OBAFGKM boundaries", func() {
				So(ax.Ticks, ShouldResemble, []diagram.Tick{
					{Value: 40000, Label: "O"},
					{Value: 30000, Label: "B"},
					{Value: 10000, Label: "A"},
					{Value: 7500, Label: "F"},
					{Value: 6000, Label: "G"},
					{Value: 3700, Label: "K"},
					{Value: 2000, Label: "M"},
				})
			})

			Convey("And it should be an inverted log axis on top sharing the range", func() {
				So(ax.Scale, ShouldEqual, diagram.ScaleLog)
				So(ax.Inverted, ShouldBeTrue)
				So(ax.Position, ShouldEqual, diagram.Top)
				So(ax.Range, ShouldResemble, primary.Range)
				So(ax.Label, ShouldEqual, "Spectral Class")
			})

			Convey("And mutating its ticks should not leak into later axes", func() {
				ax.Ticks[0].Label = "X"
				again := diagram.SpectralClassAxis(primary)
				So(again.Ticks[0].Label, ShouldEqual, "O")
			})
		})
	})
}

func TestLuminosityAxis(t *testing.T) {
	Convey("Given a primary magnitude axis", t, func() {
		primary := diagram.Axis{Position: diagram.Left, Range: diagram.Range{Min: -12, Max: 21}}

		Convey("When building the luminosity overlay", func() {
			ax := diagram.LuminosityAxis(primary)

			Convey("Then it should be a fixed log axis on the right", func() {
				So(ax.Scale, ShouldEqual, diagram.ScaleLog)
				So(ax.Inverted, ShouldBeFalse)
				So(ax.Position, ShouldEqual, diagram.Right)
				So(ax.Range.Min, ShouldAlmostEqual, 1e-6)
				So(ax.Range.Max, ShouldAlmostEqual, 1e6)
			})

			Convey("And it should label every decade as 10^k", func() {
				majors := ax.MajorTicks()
				So(majors, ShouldHaveLength, 13)
				for i, tk := range majors {
					k := i - 6
					So(tk.Value, ShouldAlmostEqual, math.Pow(10, float64(k)), 1e-12*math.Pow(10, float64(k)))
				}
				So(majors[0].Label, ShouldEqual, "10^-6")
				So(majors[6].Label, ShouldEqual, "10^0")
				So(majors[12].Label, ShouldEqual, "10^6")
			})

			Convey("And it should hold eight minor ticks per decade", func() {
				So(len(ax.Ticks)-len(ax.MajorTicks()), ShouldEqual, 12*8)
			})

			Convey("And its range should not depend on the primary", func() {
				other := diagram.LuminosityAxis(diagram.Axis{Range: diagram.Range{Min: 0, Max: 1}})
				So(other.Range, ShouldResemble, ax.Range)
			})
		})
	})
}

func TestAxisNames(t *testing.T) {
	Convey("Given scales and positions", t, func() {
		Convey("Then they print their names", func() {
			So(diagram.ScaleLog.String(), ShouldEqual, "log")
			So(diagram.ScaleLinear.String(), ShouldEqual, "linear")
			So(diagram.Bottom.String(), ShouldEqual, "bottom")
			So(diagram.Left.String(), ShouldEqual, "left")
			So(diagram.Top.String(), ShouldEqual, "top")
			So(diagram.Right.String(), ShouldEqual, "right")
		})
	})
}
