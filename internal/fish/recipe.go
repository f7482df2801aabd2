package fish

import (
	"github.com/amane-katagiri/jelatofish/internal/generators"
	"github.com/amane-katagiri/jelatofish/internal/types"
)

// SourceRecipe pairs a generator kind with the parameters it was sampled
// with.
type SourceRecipe struct {
	Kind   string            `json:"kind"`
	Params generators.Source `json:"params"`
}

// LayerRecipe describes one colour layer without its rasters.
type LayerRecipe struct {
	Image      SourceRecipe  `json:"image"`
	Mask       *SourceRecipe `json:"mask,omitempty"`
	InvertMask bool          `json:"invertMask"`
	Fore       Colour        `json:"fore"`
	Back       Colour        `json:"back"`
}

// Recipe is a JSON-friendly record of how a fish was built. Rasters are
// omitted; rendering the same seed again reproduces them.
type Recipe struct {
	Size            types.Area    `json:"size"`
	CutoffThreshold float64       `json:"cutoffThreshold"`
	Layers          []LayerRecipe `json:"layers"`
}

// Recipe reports the full construction of the fish.
func (f *Jelatofish) Recipe() Recipe {
	r := Recipe{
		Size:            f.size,
		CutoffThreshold: f.cutoff,
		Layers:          make([]LayerRecipe, 0, len(f.layers)),
	}
	for i := range f.layers {
		layer := &f.layers[i]
		lr := LayerRecipe{
			InvertMask: layer.InvertMask,
			Fore:       layer.Fore,
			Back:       layer.Back,
		}
		if layer.imageSource != nil {
			lr.Image = SourceRecipe{Kind: layer.imageSource.Kind().String(), Params: layer.imageSource}
		}
		if layer.maskSource != nil {
			lr.Mask = &SourceRecipe{Kind: layer.maskSource.Kind().String(), Params: layer.maskSource}
		}
		r.Layers = append(r.Layers, lr)
	}
	return r
}
