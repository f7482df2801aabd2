// Package fish builds complete creature images: it stacks randomly
// generated texture layers, dyes each with a colour gradient, and merges
// them front to back through their alpha masks.
package fish

import (
	"fmt"
	"math/rand"

	"github.com/amane-katagiri/jelatofish/internal/sampler"
	"github.com/amane-katagiri/jelatofish/internal/types"
)

const (
	MinLayers = 2
	MaxLayers = 6

	// MaxCutoffThreshold bounds how early the layer merge may declare a
	// pixel fully opaque.
	MaxCutoffThreshold = 1.0 / 16.0
)

// Options constrain Random. The zero value leaves everything to the RNG.
type Options struct {
	// LayerCount pins the number of layers. Zero means a random count in
	// [MinLayers, MaxLayers]; anything else outside that range is an error.
	LayerCount int
	// Cutoff pins the cutoff threshold. Nil means a random threshold in
	// [0, MaxCutoffThreshold].
	Cutoff *float64
}

// Jelatofish is a fully specified creature image: a stack of colour layers
// and the merge threshold. All randomness is spent at construction time, so
// reading pixels is pure.
type Jelatofish struct {
	size   types.Area
	cutoff float64
	layers []ColourLayer
}

// Random builds a creature from the given RNG. Every layer gets freshly
// sampled generator parameters, rendered textures, and gradient colours
// drawn from the palette.
func Random(rng *rand.Rand, size types.Area, palette ColourPalette, opts Options) (*Jelatofish, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("fish size %s must be positive on both axes: %w", size, ErrDegenerateInput)
	}
	if palette.degenerate() {
		return nil, fmt.Errorf("palette has no two distinct colours: %w", ErrDegenerateInput)
	}

	layerCount := opts.LayerCount
	switch {
	case layerCount == 0:
		layerCount = rng.Intn(MaxLayers-MinLayers+1) + MinLayers
	case layerCount < MinLayers || layerCount > MaxLayers:
		return nil, fmt.Errorf("layer count %d must be within [%d,%d]: %w",
			layerCount, MinLayers, MaxLayers, ErrOutOfRange)
	}

	var cutoff float64
	if opts.Cutoff != nil {
		cutoff = *opts.Cutoff
		if cutoff < 0 || cutoff > MaxCutoffThreshold {
			return nil, fmt.Errorf("cutoff threshold %g must be within [0,%g]: %w",
				cutoff, MaxCutoffThreshold, ErrOutOfRange)
		}
	} else {
		cutoff = sampler.UniformIn(rng, 0, MaxCutoffThreshold)
	}

	layers := make([]ColourLayer, 0, layerCount)
	for i := 0; i < layerCount; i++ {
		layer, err := randomLayer(rng, size, palette)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		layers = append(layers, layer)
	}
	return &Jelatofish{size: size, cutoff: cutoff, layers: layers}, nil
}

// Size returns the pixel dimensions of every layer raster.
func (f *Jelatofish) Size() types.Area { return f.size }

// CutoffThreshold returns the merge threshold the fish was built with.
func (f *Jelatofish) CutoffThreshold() float64 { return f.cutoff }

// LayerCount returns the number of colour layers.
func (f *Jelatofish) LayerCount() int { return len(f.layers) }

// Layers returns the colour layers in front-to-back merge order.
func (f *Jelatofish) Layers() []ColourLayer { return f.layers }

// GetPixelVal merges one pixel through the layer stack. Layers are merged
// front to back: the accumulated alpha says how much of each deeper layer
// still shows through. Once accumulated opacity comes within the cutoff
// threshold of full, deeper layers are skipped entirely.
func (f *Jelatofish) GetPixelVal(x, y int) (Colour, error) {
	if !f.size.Contains(x, y) {
		return Colour{}, fmt.Errorf("pixel (%d,%d) outside %s fish: %w", x, y, f.size, types.ErrOutOfBounds)
	}
	idx := y*f.size.Width + x
	var out Colour
	for i := range f.layers {
		layer := &f.layers[i]
		imageval := layer.Image.Pix[idx]
		maskval := imageval
		if layer.Mask != nil {
			maskval = layer.Mask.Pix[idx]
		}
		if layer.InvertMask {
			maskval = 1 - maskval
		}
		// The image value picks the point along the gradient from back to
		// fore, channel by channel.
		layerpixel := Colour{
			Red:   imageval*(layer.Fore.Red-layer.Back.Red) + layer.Back.Red,
			Green: imageval*(layer.Fore.Green-layer.Back.Green) + layer.Back.Green,
			Blue:  imageval*(layer.Fore.Blue-layer.Back.Blue) + layer.Back.Blue,
			Alpha: maskval,
		}
		// The new layer goes behind everything merged so far; the existing
		// alpha decides how much of it shows through.
		out.Red = out.Red*out.Alpha + layerpixel.Red*(1-out.Alpha)
		out.Green = out.Green*out.Alpha + layerpixel.Green*(1-out.Alpha)
		out.Blue = out.Blue*out.Alpha + layerpixel.Blue*(1-out.Alpha)
		layerpixel.Alpha *= 1 - out.Alpha
		if layerpixel.Alpha+out.Alpha+f.cutoff >= 1 {
			out.Alpha = 1
			break
		}
		out.Alpha += layerpixel.Alpha
	}
	return out, nil
}
