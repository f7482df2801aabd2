// Package pipeline turns seeds into finished fish images: it builds the
// layered creature, rasterizes it, and writes the result to a folder
// and/or an archive.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"

	"log/slog"

	"github.com/disintegration/gift"

	"github.com/amane-katagiri/jelatofish/internal/fish"
	"github.com/amane-katagiri/jelatofish/internal/texture"
	"github.com/amane-katagiri/jelatofish/internal/types"
)

// DefaultSize is the edge length fish render at unless configured
// otherwise.
const DefaultSize = 256

// FishWriter receives finished fish for storage beyond the output folder.
type FishWriter interface {
	WriteFish(seed int64, pngData []byte, recipe []byte) error
}

// Config holds everything a Generator needs. The zero value renders
// 256x256 fish with fully random parameters and writes nowhere.
type Config struct {
	// OutputDir receives fish_<seed>.png files. Empty disables the folder
	// sink.
	OutputDir string
	// Size is the final image size. Zero means DefaultSize square.
	Size types.Area
	// Oversample renders at N times the final size and shrinks with a
	// Lanczos filter. Values below 2 render at the final size directly.
	Oversample int
	// LayerCount pins the layers per fish; zero leaves the count random.
	LayerCount int
	// Cutoff pins the merge threshold; nil leaves it random.
	Cutoff *float64
	// Palette limits gradient colours. The zero palette means fully
	// random colours.
	Palette fish.ColourPalette
	// Compression selects the PNG compression level.
	Compression png.CompressionLevel
	// KeepLayers writes each layer's greyscale rasters next to the fish.
	KeepLayers bool
	// Writer is an optional archive sink.
	Writer FishWriter
	Logger *slog.Logger
}

// Generator renders fish from seeds. It is safe for concurrent use: all
// state is read-only after construction and every seed gets its own RNG.
type Generator struct {
	cfg Config
}

// NewGenerator validates the config and prepares a generator.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.Size == (types.Area{}) {
		cfg.Size = types.Area{Width: DefaultSize, Height: DefaultSize}
	}
	if !cfg.Size.Valid() {
		return nil, fmt.Errorf("fish size %s must be positive", cfg.Size)
	}
	if cfg.Oversample < 1 {
		cfg.Oversample = 1
	}
	return &Generator{cfg: cfg}, nil
}

// Size returns the final image size fish are written at.
func (g *Generator) Size() types.Area { return g.cfg.Size }

// FishFileName is the canonical file name for a seed.
func FishFileName(seed int64) string {
	return fmt.Sprintf("fish_%d.png", seed)
}

// Render builds and rasterizes the fish for a seed entirely in memory.
// The same seed always yields the same image.
func (g *Generator) Render(seed int64) (*image.NRGBA, *fish.Jelatofish, error) {
	renderSize := types.Area{
		Width:  g.cfg.Size.Width * g.cfg.Oversample,
		Height: g.cfg.Size.Height * g.cfg.Oversample,
	}
	rng := rand.New(rand.NewSource(seed))
	f, err := fish.Random(rng, renderSize, g.cfg.Palette, fish.Options{
		LayerCount: g.cfg.LayerCount,
		Cutoff:     g.cfg.Cutoff,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build fish %d: %w", seed, err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, renderSize.Width, renderSize.Height))
	for y := 0; y < renderSize.Height; y++ {
		for x := 0; x < renderSize.Width; x++ {
			c, err := f.GetPixelVal(x, y)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to merge pixel (%d,%d): %w", x, y, err)
			}
			img.SetNRGBA(x, y, color.NRGBA{
				R: quantize(c.Red),
				G: quantize(c.Green),
				B: quantize(c.Blue),
				A: quantize(c.Alpha),
			})
		}
	}
	if g.cfg.Oversample > 1 {
		img = downscale(img, g.cfg.Size)
	}
	return img, f, nil
}

// Generate renders one fish and writes it to the configured sinks. The
// returned path names the folder copy; it is empty when only an archive
// writer is configured.
func (g *Generator) Generate(ctx context.Context, seed int64, force bool) (string, error) {
	finalPath := ""
	if g.cfg.OutputDir != "" {
		finalPath = filepath.Join(g.cfg.OutputDir, FishFileName(seed))
		if !force {
			if _, err := os.Stat(finalPath); err == nil {
				g.log().Info("Fish already exists; skipping", "seed", seed, "path", finalPath)
				return finalPath, nil
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	g.log().Info("Rendering fish", "seed", seed, "size", g.cfg.Size.String())
	img, f, err := g.Render(seed)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: g.cfg.Compression}
	if err := enc.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode fish %d: %w", seed, err)
	}

	if g.cfg.OutputDir != "" {
		if err := os.MkdirAll(g.cfg.OutputDir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output dir: %w", err)
		}
		if err := os.WriteFile(finalPath, buf.Bytes(), 0o644); err != nil {
			return "", fmt.Errorf("failed to write fish %d: %w", seed, err)
		}
		if g.cfg.KeepLayers {
			if err := g.writeLayerMaps(seed, f); err != nil {
				return "", err
			}
		}
	}

	if g.cfg.Writer != nil {
		recipe, err := json.Marshal(f.Recipe())
		if err != nil {
			return "", fmt.Errorf("failed to marshal recipe for fish %d: %w", seed, err)
		}
		if err := g.cfg.Writer.WriteFish(seed, buf.Bytes(), recipe); err != nil {
			return "", fmt.Errorf("failed to archive fish %d: %w", seed, err)
		}
	}

	g.log().Info("Wrote fish", "seed", seed, "path", finalPath, "layers", f.LayerCount())
	return finalPath, nil
}

// writeLayerMaps dumps each layer's rasters as greyscale PNGs for
// debugging. Oversampled fish keep their rasters at render size.
func (g *Generator) writeLayerMaps(seed int64, f *fish.Jelatofish) error {
	for i, layer := range f.Layers() {
		base := fmt.Sprintf("fish_%d_layer_%d", seed, i)
		if err := writeGray(filepath.Join(g.cfg.OutputDir, base+"_image.png"), layer.Image); err != nil {
			return err
		}
		if layer.Mask == nil {
			continue
		}
		if err := writeGray(filepath.Join(g.cfg.OutputDir, base+"_mask.png"), layer.Mask); err != nil {
			return err
		}
	}
	return nil
}

func writeGray(path string, pm *types.PixelMap) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create layer file: %w", err)
	}
	defer file.Close() // nolint:errcheck

	if err := png.Encode(file, texture.GrayImage(pm)); err != nil {
		return fmt.Errorf("failed to encode layer: %w", err)
	}
	return nil
}

// quantize maps a unit-range channel onto 8 bits, rounding to nearest.
func quantize(v float64) uint8 {
	return uint8(v*255 + 0.5)
}

// downscale shrinks an oversampled render to the final size.
func downscale(src *image.NRGBA, size types.Area) *image.NRGBA {
	filter := gift.New(gift.Resize(size.Width, size.Height, gift.LanczosResampling))
	dst := image.NewNRGBA(filter.Bounds(src.Bounds()))
	filter.Draw(dst, src)
	return dst
}

func (g *Generator) log() *slog.Logger {
	if g.cfg.Logger != nil {
		return g.cfg.Logger
	}
	return slog.Default()
}
