// Package sheet builds contact sheets: a grid of fish rendered from
// consecutive seeds, for browsing a seed range at a glance.
package sheet

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/amane-katagiri/jelatofish/internal/fish"
)

// labelBand is the height in pixels reserved under each cell for the
// seed label (Face7x13 glyphs plus one pixel of breathing room).
const labelBand = 14

var (
	background = color.NRGBA{R: 245, G: 245, B: 245, A: 255}
	labelInk   = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
)

// Renderer renders one fish for a seed. *pipeline.Generator satisfies it.
type Renderer interface {
	Render(seed int64) (*image.NRGBA, *fish.Jelatofish, error)
}

// Config describes the sheet layout.
type Config struct {
	Cols      int   // grid columns
	Rows      int   // grid rows
	StartSeed int64 // seed of the top-left cell, increasing left to right
	CellSize  int   // thumbnail edge in pixels
	Labels    bool  // draw each seed under its thumbnail
}

// Build renders Cols*Rows consecutive seeds and lays the thumbnails out
// in reading order.
func Build(r Renderer, cfg Config) (*image.NRGBA, error) {
	if cfg.Cols <= 0 || cfg.Rows <= 0 {
		return nil, fmt.Errorf("sheet grid %dx%d must be positive", cfg.Cols, cfg.Rows)
	}
	if cfg.CellSize <= 0 {
		return nil, fmt.Errorf("cell size %d must be positive", cfg.CellSize)
	}

	cellH := cfg.CellSize
	if cfg.Labels {
		cellH += labelBand
	}

	dst := image.NewNRGBA(image.Rect(0, 0, cfg.Cols*cfg.CellSize, cfg.Rows*cellH))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	seed := cfg.StartSeed
	for row := 0; row < cfg.Rows; row++ {
		for col := 0; col < cfg.Cols; col++ {
			img, _, err := r.Render(seed)
			if err != nil {
				return nil, fmt.Errorf("failed to render fish %d: %w", seed, err)
			}

			cell := image.Rect(
				col*cfg.CellSize,
				row*cellH,
				(col+1)*cfg.CellSize,
				row*cellH+cfg.CellSize,
			)
			xdraw.CatmullRom.Scale(dst, cell, img, img.Bounds(), xdraw.Over, nil)

			if cfg.Labels {
				drawLabel(dst, strconv.FormatInt(seed, 10), cell)
			}
			seed++
		}
	}

	return dst, nil
}

// drawLabel centers the seed text in the band below the cell.
func drawLabel(dst *image.NRGBA, text string, cell image.Rectangle) {
	face := basicfont.Face7x13

	width := font.MeasureString(face, text).Ceil()
	x := cell.Min.X + (cell.Dx()-width)/2
	if x < cell.Min.X {
		x = cell.Min.X
	}
	y := cell.Max.Y + face.Metrics().Ascent.Ceil()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelInk),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
