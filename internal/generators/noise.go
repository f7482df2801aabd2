package generators

import (
	"math/rand"

	"github.com/aquilax/go-perlin"

	"github.com/amane-katagiri/jelatofish/internal/sampler"
	"github.com/amane-katagiri/jelatofish/internal/types"
)

// Persistence, lacunarity, and octave count for the perlin generator.
const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 3
)

// NoiseParams renders a plain perlin field. It is not one of the classic
// algorithms and never comes up in random fish, but it makes a useful
// organic mask when a layer is built by hand.
type NoiseParams struct {
	Scale float64 `json:"scale"`
	Seed  int64   `json:"seed"`
	noise *perlin.Perlin
}

// NewNoise builds a perlin source. Scale is the frequency across the tile;
// higher values pack in more features.
func NewNoise(scale float64, seed int64) *NoiseParams {
	return &NoiseParams{
		Scale: scale,
		Seed:  seed,
		noise: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
	}
}

// RandomNoise samples a noise field with a moderate frequency.
func RandomNoise(rng *rand.Rand) *NoiseParams {
	return NewNoise(sampler.UniformIn(rng, 2, 10), rng.Int63())
}

func (p *NoiseParams) Kind() Kind { return Noise }

// At maps the roughly [-1,1] perlin value into [0,1].
func (p *NoiseParams) At(pt types.Point) float64 {
	return (p.noise.Noise2D(pt.X*p.Scale, pt.Y*p.Scale) + 1) / 2
}
