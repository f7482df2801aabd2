package types

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a pixel coordinate lies outside the
// raster it is addressed against.
var ErrOutOfBounds = errors.New("pixel coordinate out of bounds")

// PixelMap is a dense greyscale raster of float64 samples in [0,1].
// Pix is laid out row-major, indexed y*Width+x. A PixelMap is filled once
// by whichever component produced it and treated as read-only afterwards.
type PixelMap struct {
	Size Area
	Pix  []float64
}

// NewPixelMap allocates a zeroed raster for the given area.
func NewPixelMap(size Area) (*PixelMap, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("pixel map size %s must be positive on both axes", size)
	}
	return &PixelMap{
		Size: size,
		Pix:  make([]float64, size.Width*size.Height),
	}, nil
}

// At returns the sample at (x, y), or ErrOutOfBounds when the coordinate
// lies outside the raster.
func (m *PixelMap) At(x, y int) (float64, error) {
	if !m.Size.Contains(x, y) {
		return 0, fmt.Errorf("pixel (%d,%d) outside %s raster: %w", x, y, m.Size, ErrOutOfBounds)
	}
	return m.Pix[y*m.Size.Width+x], nil
}

// Set stores a sample at (x, y), or returns ErrOutOfBounds when the
// coordinate lies outside the raster.
func (m *PixelMap) Set(x, y int, v float64) error {
	if !m.Size.Contains(x, y) {
		return fmt.Errorf("pixel (%d,%d) outside %s raster: %w", x, y, m.Size, ErrOutOfBounds)
	}
	m.Pix[y*m.Size.Width+x] = v
	return nil
}
