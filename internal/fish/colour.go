package fish

import (
	"fmt"
	"math/rand"
)

// Colour is an RGBA value with float64 channels in [0,1]. Alpha runs
// backwards from the usual convention in spirit but not in storage: high
// values mean high opacity.
type Colour struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
	Alpha float64 `json:"alpha"`
}

// RandomColour returns a fully transparent colour with uniform random
// channels.
func RandomColour(rng *rand.Rand) Colour {
	return Colour{
		Red:   rng.Float64(),
		Green: rng.Float64(),
		Blue:  rng.Float64(),
		Alpha: 0,
	}
}

func (c Colour) valid() bool {
	inRange := func(v float64) bool { return v >= 0 && v <= 1 }
	return inRange(c.Red) && inRange(c.Green) && inRange(c.Blue) && inRange(c.Alpha)
}

// sameRGB ignores alpha: gradients only care about the visible channels.
func (c Colour) sameRGB(o Colour) bool {
	return c.Red == o.Red && c.Green == o.Green && c.Blue == o.Blue
}

// ColourPalette is the set of colours layer gradients draw from.
type ColourPalette struct {
	Colours []Colour `json:"colours"`
}

// Sample picks a random colour from the palette. A palette with fewer than
// two entries is treated as open and yields fully random colours instead.
// Sampled entries must keep every channel inside [0,1].
func (p ColourPalette) Sample(rng *rand.Rand) (Colour, error) {
	if len(p.Colours) < 2 {
		return RandomColour(rng), nil
	}
	c := p.Colours[rng.Intn(len(p.Colours))]
	if !c.valid() {
		return Colour{}, fmt.Errorf("palette colour %+v has channels outside [0,1]: %w", c, ErrOutOfRange)
	}
	return c, nil
}

// degenerate reports whether fore/back sampling can never find two distinct
// colours: two or more entries that all share the same visible channels.
func (p ColourPalette) degenerate() bool {
	if len(p.Colours) < 2 {
		return false
	}
	first := p.Colours[0]
	for _, c := range p.Colours[1:] {
		if !c.sameRGB(first) {
			return false
		}
	}
	return true
}
