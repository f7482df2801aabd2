package fish

import (
	"fmt"
	"math/rand"

	"github.com/amane-katagiri/jelatofish/internal/generators"
	"github.com/amane-katagiri/jelatofish/internal/sampler"
	"github.com/amane-katagiri/jelatofish/internal/types"
)

// ColourLayer is one rendered texture dyed by a two-colour gradient. The
// image doubles as its own alpha mask unless a separate mask texture was
// rendered for it.
type ColourLayer struct {
	// Image drives the gradient between Back (low values) and Fore (high).
	Image *types.PixelMap
	// Mask supplies the layer's alpha. Nil means the image masks itself.
	Mask       *types.PixelMap
	InvertMask bool
	Fore       Colour
	Back       Colour

	// The sources the rasters came from, kept for recipes.
	imageSource generators.Source
	maskSource  generators.Source
}

// randomLayer renders a fresh layer. The fore and back colours are never
// equal; sampling repeats until they differ. Half the time the image masks
// itself, half the time a second texture is rendered as the mask, and an
// independent coin decides whether the mask is inverted.
func randomLayer(rng *rand.Rand, size types.Area, palette ColourPalette) (ColourLayer, error) {
	back, err := palette.Sample(rng)
	if err != nil {
		return ColourLayer{}, fmt.Errorf("back colour: %w", err)
	}
	var fore Colour
	for {
		fore, err = palette.Sample(rng)
		if err != nil {
			return ColourLayer{}, fmt.Errorf("fore colour: %w", err)
		}
		if !fore.sameRGB(back) {
			break
		}
	}

	imageSource := generators.NewRandomSource(rng, generators.RandomKind(rng))
	image, err := generators.Render(rng, size, imageSource)
	if err != nil {
		return ColourLayer{}, fmt.Errorf("image texture: %w", err)
	}
	layer := ColourLayer{
		Image:       image,
		Fore:        fore,
		Back:        back,
		imageSource: imageSource,
	}
	if sampler.Maybe(rng) {
		maskSource := generators.NewRandomSource(rng, generators.RandomKind(rng))
		mask, err := generators.Render(rng, size, maskSource)
		if err != nil {
			return ColourLayer{}, fmt.Errorf("mask texture: %w", err)
		}
		layer.Mask = mask
		layer.maskSource = maskSource
	}
	layer.InvertMask = sampler.Maybe(rng)
	return layer, nil
}
