package generators

import (
	"math"
	"math/rand"
)

// PackMethod selects how the raw [-1,1] cosine range folds into [0,1].
// Several generators run waves over a scan line and share these schemes.
type PackMethod int

const (
	// PackNone is the unset method. PackedCos maps it to a flat 0.5 so an
	// unconfigured wave cannot push values out of range.
	PackNone PackMethod = iota
	ScaleToFit
	FlipSignToFit
	TruncateToFit
	SlopeToFit
)

var packNames = map[PackMethod]string{
	PackNone:      "none",
	ScaleToFit:    "scale",
	FlipSignToFit: "flipsign",
	TruncateToFit: "truncate",
	SlopeToFit:    "slope",
}

func (m PackMethod) String() string {
	if name, ok := packNames[m]; ok {
		return name
	}
	return "none"
}

// RandomPackMethod picks one of the four usable pack methods.
func RandomPackMethod(rng *rand.Rand) PackMethod {
	switch rng.Intn(4) {
	case 0:
		return ScaleToFit
	case 1:
		return FlipSignToFit
	case 2:
		return TruncateToFit
	default:
		return SlopeToFit
	}
}

// PackedCos computes cos(distance*scale) and folds it into [0,1] with the
// given method.
func PackedCos(distance, scale float64, method PackMethod) float64 {
	rawcos := math.Cos(distance * scale)
	switch method {
	case FlipSignToFit:
		// Mirror the negative half of the wave upward.
		return math.Abs(rawcos)
	case TruncateToFit:
		// Shift the negative half up by a full unit. Discontinuous.
		if rawcos < 0 {
			return rawcos + 1
		}
		return rawcos
	case ScaleToFit:
		// Compress the whole range linearly.
		return (rawcos + 1) / 2
	case SlopeToFit:
		// Use only the first half of each cycle. A saw-edge effect.
		return (math.Cos(math.Mod(distance*scale, math.Pi)) + 1) / 2
	default:
		return 0.5
	}
}
