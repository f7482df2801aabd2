package texture

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/amane-katagiri/jelatofish/internal/generators"
	"github.com/amane-katagiri/jelatofish/internal/types"
)

// GrayImage converts a unit-range raster into an 8-bit greyscale image.
func GrayImage(pm *types.PixelMap) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, pm.Size.Width, pm.Size.Height))
	for y := 0; y < pm.Size.Height; y++ {
		for x := 0; x < pm.Size.Width; x++ {
			v := pm.Pix[y*pm.Size.Width+x]
			img.SetGray(x, y, color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}
	return img
}

// WriteResult reports which texture files were written or skipped.
type WriteResult struct {
	Written []string
	Skipped []string
}

// WriteKindTextures renders one texture per generator kind into dir as
// 8-bit greyscale PNGs named after the kind. Existing files are skipped
// unless overwrite is set. Each kind renders from its own seed offset so
// a partial kind list never reshuffles the others.
func WriteKindTextures(dir string, size types.Area, seed int64, kinds []generators.Kind, overwrite bool) (WriteResult, error) {
	result := WriteResult{}
	if !size.Valid() {
		return result, fmt.Errorf("texture size %s must be positive", size)
	}
	if len(kinds) == 0 {
		kinds = generators.Kinds()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return result, fmt.Errorf("failed to create texture dir: %w", err)
	}

	for _, kind := range kinds {
		path := filepath.Join(dir, kind.String()+".png")
		if !overwrite {
			if _, err := os.Stat(path); err == nil {
				result.Skipped = append(result.Skipped, path)
				continue
			}
		}

		rng := rand.New(rand.NewSource(seed + int64(kind)*1000))
		src := generators.NewRandomSource(rng, kind)
		pm, err := generators.Render(rng, size, src)
		if err != nil {
			return result, fmt.Errorf("failed to render %s texture: %w", kind, err)
		}
		if err := writePNG(path, GrayImage(pm)); err != nil {
			return result, err
		}
		result.Written = append(result.Written, path)
	}
	return result, nil
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create texture file: %w", err)
	}
	defer file.Close() // nolint:errcheck

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode texture: %w", err)
	}
	return nil
}
