// Package samplestars generates deterministic synthetic star catalogs and
// drives a running diagram service with them.
package samplestars

import (
	"math"
	"math/rand/v2"

	"github.com/samber/lo"

	"github.com/okian/hrdiagram/internal/domain/classify"
	"github.com/okian/hrdiagram/internal/domain/model"
)

// profile bounds the physical parameters drawn for one star type.
// Temperature is drawn uniformly, luminosity log-uniformly.
type profile struct {
	tempMin, tempMax float64
	lumMin, lumMax   float64
}

var profiles = map[model.StarType]profile{
	classify.RedDwarf:     {tempMin: 1900, tempMax: 3600, lumMin: 1e-4, lumMax: 1e-2},
	classify.BrownDwarf:   {tempMin: 1900, tempMax: 3200, lumMin: 1e-5, lumMax: 5e-4},
	classify.WhiteDwarf:   {tempMin: 7000, tempMax: 25000, lumMin: 1e-4, lumMax: 1e-2},
	classify.MainSequence: {tempMin: 3000, tempMax: 39000},
	classify.Giant:        {tempMin: 3000, tempMax: 6000, lumMin: 50, lumMax: 5e3},
	classify.Supergiant:   {tempMin: 3000, tempMax: 40000, lumMin: 1e5, lumMax: 9e5},
}

type spectralBound struct {
	class string
	color string
	min   float64
}

// Spectral class lower temperature bounds, hottest first.
var spectralBounds = []spectralBound{
	{"O", "Blue", 30000},
	{"B", "Blue-white", 10000},
	{"A", "White", 7500},
	{"F", "Yellowish White", 6000},
	{"G", "Yellow", 5200},
	{"K", "Orange", 3700},
	{"M", "Red", 0},
}

// Generator draws synthetic stars from a seeded source.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator whose output depends only on seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))} //nolint:gosec // deterministic sample data
}

// Generate returns n stars cycling through every star type in code order.
func Generate(seed uint64, n int) []model.Star {
	if n <= 0 {
		return []model.Star{}
	}
	g := NewGenerator(seed)
	codes := classify.Codes()
	return lo.Times(n, func(i int) model.Star {
		return g.Star(codes[i%len(codes)])
	})
}

// Star draws one star of type t. Absolute magnitude follows luminosity
// through the bolometric relation with a small jitter.
func (g *Generator) Star(t model.StarType) model.Star {
	p := profiles[t]
	temp := math.Round(p.tempMin + g.rng.Float64()*(p.tempMax-p.tempMin))

	var lum float64
	if t == classify.MainSequence {
		// Mass-luminosity trend along the main sequence.
		lum = math.Pow(temp/solarTemperature, 5.5) * math.Pow(2, g.rng.Float64()*2-1)
	} else {
		lum = logUniform(g.rng, p.lumMin, p.lumMax)
	}
	lum = math.Min(lum, maxLuminosity)

	mv := solarMagnitude - 2.5*math.Log10(lum) + (g.rng.Float64()-0.5)*0.6

	return model.Star{
		Temperature:       temp,
		Luminosity:        roundSig(lum, 4),
		AbsoluteMagnitude: math.Round(mv*100) / 100,
		StarType:          t,
		SpectralClass:     SpectralClass(temp),
	}
}

// SpectralClass returns the Harvard class letter for a temperature.
func SpectralClass(temp float64) string {
	b, _ := lo.Find(spectralBounds, func(b spectralBound) bool {
		return temp >= b.min
	})
	return b.class
}

// StarColor returns the conventional color name for a spectral class.
func StarColor(class string) string {
	b, ok := lo.Find(spectralBounds, func(b spectralBound) bool {
		return b.class == class
	})
	if !ok {
		return "Red"
	}
	return b.color
}

// Radius derives the radius in solar units from luminosity and temperature.
func Radius(s model.Star) float64 {
	ratio := solarTemperature / s.Temperature
	return roundSig(math.Sqrt(s.Luminosity)*ratio*ratio, 4)
}

func logUniform(rng *rand.Rand, lower, upper float64) float64 {
	a, b := math.Log10(lower), math.Log10(upper)
	return math.Pow(10, a+rng.Float64()*(b-a))
}

func roundSig(v float64, digits int) float64 {
	if v == 0 {
		return 0
	}
	scale := math.Pow(10, float64(digits)-math.Ceil(math.Log10(math.Abs(v))))
	return math.Round(v*scale) / scale
}
