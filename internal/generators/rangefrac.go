package generators

import (
	"math"
	"math/rand"

	"github.com/amane-katagiri/jelatofish/internal/sampler"
	"github.com/amane-katagiri/jelatofish/internal/types"
)

const (
	valMatrixScale = 8
	valMatrixSize  = 1 << valMatrixScale
)

// RangefracParams holds a midpoint-displacement fractal precomputed into a
// toroidal value matrix at construction time. Rendering only interpolates
// across the matrix, so the generator is seamless and anti-aliased by
// construction.
type RangefracParams struct {
	data []float64
}

// RandomRangefrac computes a fresh fractal matrix.
func RandomRangefrac(rng *rand.Rand) *RangefracParams {
	data, _ := buildValueMatrix(rng)
	return &RangefracParams{data: data}
}

// buildValueMatrix fills the matrix coarse-to-fine. Each pass halves the
// step; a cell not yet assigned at a finer level draws a value between the
// lowest and highest of its eight neighbors at the current step, with
// toroidal wraparound. Levels record the step at which each cell was fixed.
func buildValueMatrix(rng *rand.Rand) (data []float64, levels []int) {
	data = make([]float64, valMatrixSize*valMatrixSize)
	levels = make([]int, valMatrixSize*valMatrixSize)
	for scale := 1; scale <= valMatrixScale; scale++ {
		step := 1 << (valMatrixScale - scale)
		for x := 0; x < valMatrixSize; x += step {
			for y := 0; y < valMatrixSize; y += step {
				if levels[x*valMatrixSize+y] >= step {
					continue
				}
				neighbors := [8][2]int{
					{x - step, y - step},
					{x, y - step},
					{x + step, y - step},
					{x - step, y},
					{x + step, y},
					{x - step, y + step},
					{x, y + step},
					{x + step, y + step},
				}
				// Hunt for the highest and lowest values among the
				// neighbors already fixed at a coarser step.
				var lo, hi float64
				found := false
				for _, n := range neighbors {
					idx := wrapMatrix(n[0])*valMatrixSize + wrapMatrix(n[1])
					if levels[idx] <= step {
						continue
					}
					v := data[idx]
					if !found {
						lo, hi = v, v
						found = true
						continue
					}
					lo = math.Min(lo, v)
					hi = math.Max(hi, v)
				}
				var val float64
				switch {
				case !found:
					// The first cells have no fixed neighbors and are drawn
					// freely over the whole range.
					val = rng.Float64()
				case lo != hi:
					val = sampler.UniformIn(rng, lo, hi)
				default:
					val = lo
				}
				// The first cells bound every later value, so push them
				// toward the extremes. This gives whiter whites and blacker
				// blacks without forcing pure white or black.
				if step >= valMatrixSize/2 {
					r := 0.0
					if val > 0.5 {
						r = 1.0
					}
					val = (val + r) / 2
				}
				data[x*valMatrixSize+y] = val
				levels[x*valMatrixSize+y] = step
			}
		}
	}
	return data, levels
}

func (p *RangefracParams) Kind() Kind { return Rangefrac }

// At scales the matrix up to the unit square with linear interpolation,
// weighting the four nearest cells by their distance to the point.
func (p *RangefracParams) At(pt types.Point) float64 {
	const tweaker = 0.5 / valMatrixSize
	left := int(math.Floor(pt.X*valMatrixSize - tweaker))
	top := int(math.Floor(pt.Y*valMatrixSize - tweaker))
	corners := [4][2]int{
		{left, top},
		{left + 1, top},
		{left, top + 1},
		{left + 1, top + 1},
	}
	var sum, weights float64
	for _, c := range corners {
		w := cornerWeight(c[0], c[1], pt)
		sum += p.data[wrapMatrix(c[0])*valMatrixSize+wrapMatrix(c[1])] * w
		weights += w
	}
	// The nearest corner is always within one cell, so weights stays
	// positive.
	return sum / weights
}

func cornerWeight(cx, cy int, pt types.Point) float64 {
	return math.Max(0, 1-math.Hypot(
		float64(cx)-pt.X*valMatrixSize,
		float64(cy)-pt.Y*valMatrixSize,
	))
}

func wrapMatrix(c int) int {
	c %= valMatrixSize
	if c < 0 {
		c += valMatrixSize
	}
	return c
}
