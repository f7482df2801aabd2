// Package types holds the shared geometry and raster types passed between
// the generator engine and the layer compositor.
package types

import "fmt"

// Point is a position in generator space. Coordinates are nominally in
// [0,1) when sampling the unit tile; intermediate rotation and translation
// math may leave them unconstrained.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Area is the raster resolution of one generated layer.
type Area struct {
	Width  int `json:"width"`  // pixels, > 0
	Height int `json:"height"` // pixels, > 0
}

// Valid reports whether both dimensions are positive.
func (a Area) Valid() bool {
	return a.Width > 0 && a.Height > 0
}

// Contains reports whether the integer pixel (x, y) lies inside the raster.
func (a Area) Contains(x, y int) bool {
	return x >= 0 && x < a.Width && y >= 0 && y < a.Height
}

// String returns a human-readable representation of the area.
func (a Area) String() string {
	return fmt.Sprintf("%dx%d", a.Width, a.Height)
}
