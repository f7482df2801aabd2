package generators

import (
	"fmt"
	"math/rand"

	"github.com/amane-katagiri/jelatofish/internal/types"
)

// Render rasterizes src into a pixel map of the given size. The pattern is
// shifted by a random per-axis roll so repeated renders of the same source
// land on different parts of the underlying infinite texture, then each
// pixel is supersampled and edge-blended as the kind's Properties require.
// Every output value is clamped to [0,1].
func Render(rng *rand.Rand, size types.Area, src Source) (*types.PixelMap, error) {
	pm, err := types.NewPixelMap(size)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", src.Kind(), err)
	}
	rollX := rng.Intn(size.Width + 1)
	rollY := rng.Intn(size.Height + 1)
	props := src.Kind().Properties()
	// Offset between a pixel and its supersample neighbors, in normalized
	// coordinates.
	fudge := 1.0 / float64(size.Width+size.Height)
	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			nx := float64((x+rollX)%size.Width) / float64(size.Width)
			ny := float64((y+rollY)%size.Height) / float64(size.Height)
			pm.Pix[y*size.Width+x] = clampUnit(antiAliasedPoint(nx, ny, fudge, props, src))
		}
	}
	return pm, nil
}

// antiAliasedPoint averages the wrapped value with three more samples nudged
// toward the next pixel. Smooth gradients are unaffected but sharp
// transitions stop showing individual pixels.
func antiAliasedPoint(x, y, fudge float64, props Properties, src Source) float64 {
	pixel := wrappedPoint(x, y, props, src)
	if !props.SelfAntiAliased {
		pixel += wrappedPoint(x+fudge, y, props, src)
		pixel += wrappedPoint(x, y+fudge, props, src)
		pixel += wrappedPoint(x+fudge, y+fudge, props, src)
		pixel /= 4
	}
	return pixel
}

// wrappedPoint evaluates the source at (x, y). For generators that do not
// tile on their own it mixes in three probes from one tile over, each
// weighted by the pixel's distance from the edge, so the right and bottom
// edges fade smoothly into the left and top when the texture repeats.
func wrappedPoint(x, y float64, props Properties, src Source) float64 {
	pixel := src.At(types.Point{X: x, Y: y})
	if !props.SelfSeamless {
		farh := x + 1
		farv := y + 1
		farval1 := src.At(types.Point{X: x, Y: farv})
		farval2 := src.At(types.Point{X: farh, Y: y})
		farval3 := src.At(types.Point{X: farh, Y: farv})
		weight := x * y
		farweight1 := x * (2 - farv)
		farweight2 := (2 - farh) * y
		farweight3 := (2 - farh) * (2 - farv)
		totalweight := weight + farweight1 + farweight2 + farweight3
		pixel = (pixel*weight + farval1*farweight1 + farval2*farweight2 + farval3*farweight3) / totalweight
	}
	// Out-of-range values get chopped off rather than renormalized, so a
	// wave that leaps out of bounds clips instead of tearing.
	return clampUnit(pixel)
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
