// Package generators implements the procedural texture functions and the
// engine that renders any of them into a seamless, anti-aliased greyscale
// raster over the unit square.
package generators

import (
	"fmt"
	"math/rand"

	"github.com/amane-katagiri/jelatofish/internal/types"
)

// Kind identifies one texture algorithm.
type Kind int

const (
	Coswave Kind = iota
	Spinflake
	Flatwave
	Rangefrac
	Bubble
	Test
	Noise
)

var kindNames = map[Kind]string{
	Coswave:   "coswave",
	Spinflake: "spinflake",
	Flatwave:  "flatwave",
	Rangefrac: "rangefrac",
	Bubble:    "bubble",
	Test:      "test",
	Noise:     "noise",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves a kind by its lowercase name.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown generator kind %q", name)
}

// Kinds lists every kind in rendering order, including the debug and noise
// generators that never appear in random fish.
func Kinds() []Kind {
	return []Kind{Coswave, Spinflake, Flatwave, Rangefrac, Bubble, Test, Noise}
}

// Properties describe how much tiling work the engine must do for a kind.
// A self-seamless generator already wraps across the tile edges; a
// self-anti-aliased one returns values smooth enough to skip supersampling.
type Properties struct {
	SelfAntiAliased bool
	SelfSeamless    bool
}

// Properties returns the fixed property pair for the kind. Every new kind
// must be added here or the engine will supersample and edge-blend it.
func (k Kind) Properties() Properties {
	switch k {
	case Spinflake:
		return Properties{SelfSeamless: true}
	case Rangefrac:
		return Properties{SelfAntiAliased: true, SelfSeamless: true}
	case Noise:
		return Properties{SelfAntiAliased: true}
	default:
		return Properties{}
	}
}

// Source is a procedural value function over the unit square. The engine
// probes points slightly outside [0,1) for seam blending and anti-aliasing,
// so implementations must accept any finite coordinate.
type Source interface {
	Kind() Kind
	At(p types.Point) float64
}

// randomKinds are the algorithms eligible for random fish layers. Test is a
// debugging aid and Noise a plain perlin field; neither makes an interesting
// creature on its own.
var randomKinds = [...]Kind{Coswave, Spinflake, Flatwave, Rangefrac, Bubble}

// RandomKind picks one of the five pattern algorithms with equal probability.
func RandomKind(rng *rand.Rand) Kind {
	return randomKinds[rng.Intn(len(randomKinds))]
}

// NewRandomSource samples fresh parameters for the kind and returns the
// ready-to-render value function.
func NewRandomSource(rng *rand.Rand, kind Kind) Source {
	switch kind {
	case Coswave:
		return RandomCoswave(rng)
	case Spinflake:
		return RandomSpinflake(rng)
	case Flatwave:
		return RandomFlatwave(rng)
	case Rangefrac:
		return RandomRangefrac(rng)
	case Bubble:
		return RandomBubble(rng)
	case Noise:
		return RandomNoise(rng)
	default:
		return TestSource{}
	}
}

func randomPoint(rng *rand.Rand) types.Point {
	return types.Point{X: rng.Float64(), Y: rng.Float64()}
}
