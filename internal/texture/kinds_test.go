package texture

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/amane-katagiri/jelatofish/internal/generators"
	"github.com/amane-katagiri/jelatofish/internal/types"
)

func TestGrayImageQuantizesRoundToNearest(t *testing.T) {
	pm, err := types.NewPixelMap(types.Area{Width: 3, Height: 1})
	if err != nil {
		t.Fatalf("NewPixelMap: %v", err)
	}
	pm.Pix[0] = 0
	pm.Pix[1] = 0.5
	pm.Pix[2] = 1
	img := GrayImage(pm)
	for i, want := range []uint8{0, 128, 255} {
		if got := img.GrayAt(i, 0).Y; got != want {
			t.Errorf("pixel %d = %d, want %d", i, got, want)
		}
	}
}

func TestWriteKindTexturesCoversEveryKind(t *testing.T) {
	dir := t.TempDir()
	size := types.Area{Width: 16, Height: 16}
	result, err := WriteKindTextures(dir, size, 1337, nil, false)
	if err != nil {
		t.Fatalf("WriteKindTextures: %v", err)
	}
	if len(result.Written) != len(generators.Kinds()) {
		t.Fatalf("wrote %d textures, want one per kind (%d)", len(result.Written), len(generators.Kinds()))
	}
	names := make(map[string]bool)
	for _, path := range result.Written {
		names[filepath.Base(path)] = true
		file, err := os.Open(path)
		if err != nil {
			t.Fatalf("missing texture %s: %v", path, err)
		}
		img, err := png.Decode(file)
		file.Close()
		if err != nil {
			t.Fatalf("texture %s does not decode: %v", path, err)
		}
		if img.Bounds().Dx() != size.Width || img.Bounds().Dy() != size.Height {
			t.Errorf("texture %s is %v, want %s", path, img.Bounds(), size)
		}
	}
	for _, kind := range generators.Kinds() {
		if !names[kind.String()+".png"] {
			t.Errorf("no texture written for %s", kind)
		}
	}
}

func TestWriteKindTexturesSkipsExisting(t *testing.T) {
	dir := t.TempDir()
	size := types.Area{Width: 8, Height: 8}
	kinds := []generators.Kind{generators.Coswave}

	first, err := WriteKindTextures(dir, size, 1, kinds, false)
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	if len(first.Written) != 1 || len(first.Skipped) != 0 {
		t.Fatalf("first write = %+v, want one written", first)
	}

	second, err := WriteKindTextures(dir, size, 1, kinds, false)
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if len(second.Written) != 0 || len(second.Skipped) != 1 {
		t.Fatalf("second write = %+v, want one skipped", second)
	}

	forced, err := WriteKindTextures(dir, size, 1, kinds, true)
	if err != nil {
		t.Fatalf("forced write: %v", err)
	}
	if len(forced.Written) != 1 {
		t.Fatalf("forced write = %+v, want one written", forced)
	}
}

func TestWriteKindTexturesRejectsBadSize(t *testing.T) {
	if _, err := WriteKindTextures(t.TempDir(), types.Area{}, 1, nil, false); err == nil {
		t.Fatal("zero size accepted")
	}
}
