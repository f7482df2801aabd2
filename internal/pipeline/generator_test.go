package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amane-katagiri/jelatofish/internal/types"
)

type memoryWriter struct {
	pngs    map[int64][]byte
	recipes map[int64][]byte
}

func newMemoryWriter() *memoryWriter {
	return &memoryWriter{pngs: map[int64][]byte{}, recipes: map[int64][]byte{}}
}

func (w *memoryWriter) WriteFish(seed int64, pngData []byte, recipe []byte) error {
	w.pngs[seed] = append([]byte(nil), pngData...)
	w.recipes[seed] = append([]byte(nil), recipe...)
	return nil
}

func TestNewGeneratorDefaults(t *testing.T) {
	gen, err := NewGenerator(Config{})
	require.NoError(t, err)
	require.Equal(t, types.Area{Width: DefaultSize, Height: DefaultSize}, gen.Size())

	_, err = NewGenerator(Config{Size: types.Area{Width: -4, Height: 8}})
	require.Error(t, err)
}

func TestRenderIsDeterministicAcrossGenerators(t *testing.T) {
	cfg := Config{Size: types.Area{Width: 16, Height: 16}, LayerCount: 2}
	a, err := NewGenerator(cfg)
	require.NoError(t, err)
	b, err := NewGenerator(cfg)
	require.NoError(t, err)

	imgA, fishA, err := a.Render(7)
	require.NoError(t, err)
	imgB, fishB, err := b.Render(7)
	require.NoError(t, err)

	require.Equal(t, 16, imgA.Bounds().Dx())
	require.Equal(t, 16, imgA.Bounds().Dy())
	require.Equal(t, fishA.LayerCount(), fishB.LayerCount())
	require.Equal(t, imgA.Pix, imgB.Pix, "same seed must rasterize identically")
}

func TestRenderDownscalesOversampledFish(t *testing.T) {
	gen, err := NewGenerator(Config{
		Size:       types.Area{Width: 8, Height: 8},
		Oversample: 2,
		LayerCount: 2,
	})
	require.NoError(t, err)

	img, f, err := gen.Render(11)
	require.NoError(t, err)
	require.Equal(t, 8, img.Bounds().Dx())
	require.Equal(t, 8, img.Bounds().Dy())
	// The fish itself stays at render size; only the raster shrinks.
	require.Equal(t, types.Area{Width: 16, Height: 16}, f.Size())
}

func TestGenerateWritesAndSkipsExistingFish(t *testing.T) {
	dir := t.TempDir()
	gen, err := NewGenerator(Config{
		OutputDir:  dir,
		Size:       types.Area{Width: 8, Height: 8},
		LayerCount: 2,
	})
	require.NoError(t, err)

	ctx := context.Background()
	path, err := gen.Generate(ctx, 3, false)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "fish_3.png"), path)

	first, err := os.ReadFile(path)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(first))
	require.NoError(t, err)
	require.Equal(t, 8, img.Bounds().Dx())

	// Clobber the file; a non-forced run must leave it alone.
	require.NoError(t, os.WriteFile(path, []byte("sentinel"), 0o644))
	_, err = gen.Generate(ctx, 3, false)
	require.NoError(t, err)
	clobbered, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("sentinel"), clobbered)

	// A forced run rewrites it.
	_, err = gen.Generate(ctx, 3, true)
	require.NoError(t, err)
	forced, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, first, forced, "forced rerun of the same seed must reproduce the file")
}

func TestGenerateArchivesThroughWriter(t *testing.T) {
	writer := newMemoryWriter()
	gen, err := NewGenerator(Config{
		Size:       types.Area{Width: 8, Height: 8},
		LayerCount: 2,
		Writer:     writer,
	})
	require.NoError(t, err)

	path, err := gen.Generate(context.Background(), 9, false)
	require.NoError(t, err)
	require.Empty(t, path, "archive-only generation has no folder path")

	_, err = png.Decode(bytes.NewReader(writer.pngs[9]))
	require.NoError(t, err)

	var recipe struct {
		CutoffThreshold float64           `json:"cutoffThreshold"`
		Layers          []json.RawMessage `json:"layers"`
	}
	require.NoError(t, json.Unmarshal(writer.recipes[9], &recipe))
	require.Len(t, recipe.Layers, 2)
}

func TestGenerateKeepsLayerRasters(t *testing.T) {
	dir := t.TempDir()
	gen, err := NewGenerator(Config{
		OutputDir:  dir,
		Size:       types.Area{Width: 8, Height: 8},
		LayerCount: 3,
		KeepLayers: true,
	})
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), 5, false)
	require.NoError(t, err)

	images, err := filepath.Glob(filepath.Join(dir, "fish_5_layer_*_image.png"))
	require.NoError(t, err)
	require.Len(t, images, 3, "every layer dumps its image raster")

	masks, err := filepath.Glob(filepath.Join(dir, "fish_5_layer_*_mask.png"))
	require.NoError(t, err)
	require.LessOrEqual(t, len(masks), 3, "only layers with separate masks dump one")
}

func TestGenerateHonoursCancelledContext(t *testing.T) {
	dir := t.TempDir()
	gen, err := NewGenerator(Config{
		OutputDir:  dir,
		Size:       types.Area{Width: 8, Height: 8},
		LayerCount: 2,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gen.Generate(ctx, 1, false)
	require.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "cancelled generation must not write")
}
