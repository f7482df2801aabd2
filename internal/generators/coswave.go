package generators

import (
	"math"
	"math/rand"

	"github.com/amane-katagiri/jelatofish/internal/sampler"
	"github.com/amane-katagiri/jelatofish/internal/types"
)

// WaveAccel selects whether a coswave's scale grows with distance from the
// origin.
type WaveAccel int

const (
	AccelNone WaveAccel = iota
	AccelLinear
)

// CoswaveParams is the workhorse generator. It can do anything.
type CoswaveParams struct {
	Origin     types.Point `json:"origin"`
	WaveScale  float64     `json:"waveScale"`
	Squish     float64     `json:"squish"`
	SqAngle    float64     `json:"sqAngle"`
	Distortion float64     `json:"distortion"`
	Pack       PackMethod  `json:"pack"`
	Accel      WaveAccel   `json:"accel"`
	AccelScale float64     `json:"accelScale"`
}

// RandomCoswave samples a fresh coswave. Waves that are perfect circles are
// too predictable, so a squish factor stretches them along a random angle,
// anywhere from half length to double length.
func RandomCoswave(rng *rand.Rand) *CoswaveParams {
	p := &CoswaveParams{
		Origin:     randomPoint(rng),
		Pack:       RandomPackMethod(rng),
		WaveScale:  sampler.UniformIn(rng, 1, 26),
		SqAngle:    sampler.UniformIn(rng, 0, math.Pi),
		Distortion: sampler.UniformIn(rng, 0.5, 2),
	}
	p.Squish = sampler.UniformIn(rng, 0.5, 2.5)
	if !sampler.Maybe(rng) {
		p.Squish = -p.Squish
	}
	// One sample in 64 gets the accelerator, where the wave scale rises
	// exponentially with distance until it drops below a single pixel and
	// chaotic moire eddies show through.
	if rng.Intn(64) == 0 {
		p.Accel = AccelLinear
		p.AccelScale = sampler.UniformIn(rng, 1, 3)
	}
	// ScaleToFit keeps peaks and valleys apart, while the folding methods
	// turn valleys into extra peaks. Double the scale so it reads the same.
	if p.Pack == ScaleToFit {
		p.WaveScale *= 2
	}
	return p
}

func (p *CoswaveParams) Kind() Kind { return Coswave }

// At rotates the point into a distorted polar frame around the origin,
// measures the squished distance, and runs it through the packed cosine.
func (p *CoswaveParams) At(pt types.Point) float64 {
	x := pt.X - p.Origin.X
	y := pt.Y - p.Origin.Y

	hypangle := math.Atan2(y*p.Distortion, x) + p.SqAngle
	hypotenuse := math.Hypot(x, y)

	x = math.Cos(hypangle) * hypotenuse
	y = math.Sin(hypangle) * hypotenuse

	hypotenuse = math.Hypot(x*p.Squish, y/p.Squish)
	compwavescale := p.WaveScale
	if p.Accel == AccelLinear {
		compwavescale = math.Pow(p.WaveScale, hypotenuse*p.AccelScale)
	}
	return PackedCos(hypotenuse, compwavescale, p.Pack)
}
