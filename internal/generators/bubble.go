package generators

import (
	"math"
	"math/rand"

	"github.com/amane-katagiri/jelatofish/internal/sampler"
	"github.com/amane-katagiri/jelatofish/internal/types"
)

const (
	maxLumps = 32
	minLumps = maxLumps / 4
)

// Lump is one bubble in the field.
type Lump struct {
	// Scale shrinks the influence of the bubble.
	Scale float64 `json:"scale"`
	// Squish multiplies the transverse leg and divides the other.
	Squish float64     `json:"squish"`
	Angle  float64     `json:"angle"`
	Origin types.Point `json:"origin"`
}

func randomLump(rng *rand.Rand, scale, squish, angle sampler.Range) Lump {
	return Lump{
		Scale:  scale.Sample(rng),
		Origin: randomPoint(rng),
		Squish: squish.Sample(rng),
		Angle:  angle.Sample(rng),
	}
}

// value rotates the point into the bubble's frame, squishes the legs, and
// measures how deep inside the bubble it lands. The center returns 1, the
// radius returns 0, and points outside go negative.
func (b *Lump) value(pt types.Point) float64 {
	x := pt.X - b.Origin.X
	y := pt.Y - b.Origin.Y
	hypotenuse := math.Hypot(x, y)
	hypangle := math.Atan2(y, x) + b.Angle
	transverse := math.Cos(hypangle)*hypotenuse + b.Origin.X
	distance := math.Sin(hypangle)*hypotenuse + b.Origin.Y

	transverse = b.Origin.X + (transverse-b.Origin.X)*b.Squish
	distance = b.Origin.Y + (distance-b.Origin.Y)/b.Squish

	hyp := math.Hypot(transverse-b.Origin.X, distance-b.Origin.Y)
	q := hyp * hyp
	// The center is the peak even for a zero-scale bubble.
	if q == 0 {
		return 1
	}
	return 1 - q/b.Scale
}

// BubbleParams is a field of randomly placed, squished, and rotated
// bubbles. All bubbles draw their values from the same sampled ranges.
type BubbleParams struct {
	Scale  sampler.Range `json:"scale"`
	Squish sampler.Range `json:"squish"`
	Angle  sampler.Range `json:"angle"`
	Lumps  []Lump        `json:"lumps"`
}

func randomSquishBound(rng *rand.Rand) float64 {
	if !sampler.Maybe(rng) {
		return 1
	}
	v := sampler.UniformIn(rng, 1, 4)
	if sampler.Maybe(rng) {
		return v
	}
	return 1 / v
}

// RandomBubble samples a field of 8 to 31 bubbles.
func RandomBubble(rng *rand.Rand) *BubbleParams {
	p := &BubbleParams{
		Scale: sampler.NewRange(
			sampler.UniformIn(rng, 0, 0.2),
			sampler.UniformIn(rng, 0, 0.2),
		),
		Squish: sampler.NewRange(
			randomSquishBound(rng),
			randomSquishBound(rng),
		),
		Angle: sampler.NewRange(
			sampler.UniformIn(rng, 0, math.Pi/2),
			sampler.UniformIn(rng, 0, math.Pi/2),
		),
	}
	count := rng.Intn(maxLumps-minLumps) + minLumps
	p.Lumps = make([]Lump, count)
	for i := range p.Lumps {
		p.Lumps[i] = randomLump(rng, p.Scale, p.Squish, p.Angle)
	}
	return p
}

func (p *BubbleParams) Kind() Kind { return Bubble }

// At takes the biggest lump any bubble gives the point, probing the eight
// neighboring tiles as well so bubble edges spill across tile boundaries.
// Neighbor taps are damped by the point's distance from the edge, which
// keeps bubbles spanning multiple tiles from breaking the seams.
func (p *BubbleParams) At(pt types.Point) float64 {
	taps := [9]float64{
		p.allLumps(pt),
		p.allLumps(types.Point{X: pt.X + 1, Y: pt.Y}) * (1 - pt.X),
		p.allLumps(types.Point{X: pt.X - 1, Y: pt.Y}) * pt.X,
		p.allLumps(types.Point{X: pt.X, Y: pt.Y + 1}) * (1 - pt.Y),
		p.allLumps(types.Point{X: pt.X, Y: pt.Y - 1}) * pt.Y,
		p.allLumps(types.Point{X: pt.X + 1, Y: pt.Y + 1}) * (1 - pt.X) * (1 - pt.Y),
		p.allLumps(types.Point{X: pt.X + 1, Y: pt.Y - 1}) * (1 - pt.X) * pt.Y,
		p.allLumps(types.Point{X: pt.X - 1, Y: pt.Y + 1}) * pt.X * (1 - pt.Y),
		p.allLumps(types.Point{X: pt.X - 1, Y: pt.Y - 1}) * pt.X * pt.Y,
	}
	best := math.Inf(-1)
	for _, v := range taps {
		best = math.Max(best, v)
	}
	return best
}

func (p *BubbleParams) allLumps(pt types.Point) float64 {
	best := math.Inf(-1)
	for i := range p.Lumps {
		best = math.Max(best, p.Lumps[i].value(pt))
	}
	return best
}
