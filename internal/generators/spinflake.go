package generators

import (
	"math"
	"math/rand"

	"github.com/amane-katagiri/jelatofish/internal/sampler"
	"github.com/amane-katagiri/jelatofish/internal/types"
)

// SinePos folds the [-1,1] sine range into [0,1] for floret spines.
type SinePos int

const (
	SineCompress SinePos = iota
	SineTruncate
	SineAbsolute
	SineSawblade
)

func randomSinePos(rng *rand.Rand) SinePos {
	switch rng.Intn(4) {
	case 0:
		return SineCompress
	case 1:
		return SineTruncate
	case 2:
		return SineAbsolute
	default:
		return SineSawblade
	}
}

// TwirlMethod bends floret spines as they move away from the origin.
type TwirlMethod int

const (
	TwirlNone TwirlMethod = iota
	TwirlCurve
	TwirlSine
)

const (
	maxTwirl   = 14.0
	maxSineAmp = 4.0
	maxFlorets = 3
)

// Twirl rotates the phase of a floret's spines by distance, so the spines
// curve instead of radiating straight out.
type Twirl struct {
	Base   float64     `json:"base"`
	Speed  float64     `json:"speed"`
	Amp    float64     `json:"amp"`
	Method TwirlMethod `json:"method"`
}

func randomTwirl(rng *rand.Rand) Twirl {
	t := Twirl{Base: sampler.UniformIn(rng, 0, math.Pi)}
	switch rng.Intn(3) {
	case 0:
		t.Method = TwirlNone
	case 1:
		t.Method = TwirlCurve
		t.Speed = sampler.UniformIn(rng, -maxTwirl, maxTwirl)
		t.Amp = sampler.UniformIn(rng, -maxSineAmp, maxSineAmp)
	default:
		t.Method = TwirlSine
		t.Speed = sampler.UniformIn(rng, 0, maxTwirl*math.Pi)
		t.Amp = sampler.UniformIn(rng, -maxSineAmp, maxSineAmp)
	}
	return t
}

// Floret contributes one ring of spines to a spinflake's edge.
type Floret struct {
	SinePos     SinePos `json:"sinePos"`
	Backward    bool    `json:"backward"`
	Spines      int     `json:"spines"`
	SpineRadius float64 `json:"spineRadius"`
	Twirl       Twirl   `json:"twirl"`
}

func randomFloret(rng *rand.Rand) Floret {
	f := Floret{
		SinePos:     randomSinePos(rng),
		Backward:    sampler.Maybe(rng),
		Spines:      rng.Intn(16) + 1,
		SpineRadius: sampler.UniformIn(rng, 0, 0.5),
		Twirl:       randomTwirl(rng),
	}
	// The absolute fold mirrors each spine, so an odd count would leave one
	// half-spine. Round up to even.
	if f.SinePos == SineAbsolute && f.Spines%2 == 1 {
		f.Spines++
	}
	return f
}

// SpinflakeParams describes a rotationally symmetric blob whose edge is
// perturbed by one or more florets.
type SpinflakeParams struct {
	Origin         types.Point `json:"origin"`
	Radius         float64     `json:"radius"`
	Squish         float64     `json:"squish"`
	Twist          float64     `json:"twist"`
	AverageFlorets bool        `json:"averageFlorets"`
	Florets        []Floret    `json:"florets"`
}

// RandomSpinflake samples a fresh spinflake with one to four florets.
func RandomSpinflake(rng *rand.Rand) *SpinflakeParams {
	p := &SpinflakeParams{
		Origin:         randomPoint(rng),
		Radius:         sampler.UniformIn(rng, 0, 1),
		Squish:         sampler.UniformIn(rng, 0, 2.75) * 0.25,
		Twist:          sampler.UniformIn(rng, 0, math.Pi),
		AverageFlorets: sampler.Maybe(rng),
	}
	count := rng.Intn(maxFlorets+1) + 1
	p.Florets = make([]Floret, count)
	for i := range p.Florets {
		p.Florets[i] = randomFloret(rng)
	}
	return p
}

func (p *SpinflakeParams) Kind() Kind { return Spinflake }

// At evaluates the spinflake with its own seam handling. The shape is
// intrinsically continuous around its origin; the horizontal seam fades here
// and the vertical seam inside vtiledPoint, each by cross-fading against the
// same shape evaluated one tile over.
func (p *SpinflakeParams) At(pt types.Point) float64 {
	val := p.vtiledPoint(pt.X, pt.Y)
	if pt.X > 0.5 {
		farpoint := p.vtiledPoint(pt.X-1, pt.Y)
		farweight := (pt.X - 0.5) * 2
		return val*(1-farweight) + farpoint*farweight
	}
	return val
}

func (p *SpinflakeParams) vtiledPoint(x, y float64) float64 {
	point := p.rawPoint(x, y)
	if y > 0.5 {
		farpoint := p.rawPoint(x, y-1)
		farweight := (y - 0.5) * 2
		return point*(1-farweight) + farpoint*farweight
	}
	return point
}

func (p *SpinflakeParams) rawPoint(x, y float64) float64 {
	// Rotate the point around the origin, so the bulges of a squished
	// spinflake can aim in any direction rather than along the axes.
	x -= p.Origin.X
	y -= p.Origin.Y

	hypangle := math.Atan2(y, x) + p.Twist
	origindist := math.Hypot(x, y)

	x = math.Cos(hypangle) * origindist
	y = math.Sin(hypangle) * origindist

	origindist = math.Hypot(x*p.Squish, y/p.Squish)
	// At the origin every angle is equally inside; skip the math.
	if origindist == 0 {
		return 1
	}
	pointangle := math.Atan2(y, x)
	edgedist := p.Radius
	for i := range p.Florets {
		edgedist += calcWave(pointangle, origindist, &p.Florets[i])
	}
	if p.AverageFlorets {
		edgedist /= float64(len(p.Florets))
	}
	// Distance from the edge, proportionate to the distance from origin to
	// edge. Positive means inside the shape.
	proportiondist := (edgedist - origindist) / edgedist
	if proportiondist >= 0 {
		return math.Sqrt(proportiondist)
	}
	return 1 - 1/(1-proportiondist)
}

// calcWave computes the radial distance this floret adds at the given angle.
// Florets do not have to twirl in unison, which can get really interesting.
func calcWave(theta, dist float64, f *Floret) float64 {
	spines := float64(f.Spines)
	var cosparam float64
	switch f.Twirl.Method {
	case TwirlCurve:
		cosparam = theta*spines + f.Twirl.Base + dist*(f.Twirl.Speed+dist*f.Twirl.Amp)
	case TwirlSine:
		cosparam = theta*spines + f.Twirl.Base +
			math.Sin(dist*f.Twirl.Speed)*(f.Twirl.Amp+dist*f.Twirl.Amp)
	default:
		cosparam = theta*spines + f.Twirl.Base
	}
	return chopSin(cosparam, f) * f.SpineRadius
}

// chopSin folds sin(theta) into [0,1] by the floret's method, optionally
// flipped so the spine points inward.
func chopSin(theta float64, f *Floret) float64 {
	out := math.Sin(theta)
	switch f.SinePos {
	case SineCompress:
		out = (out + 1) / 2
	case SineAbsolute:
		out = math.Abs(out)
	case SineTruncate:
		if out < 0 {
			out++
		}
	case SineSawblade:
		t := math.Mod(theta/4, math.Pi) / 2
		if t < 0 {
			t += math.Pi / 2
		}
		out = math.Sin(t)
	}
	if f.Backward {
		return 1 - out
	}
	return out
}
