package generators

import (
	"math"

	"github.com/amane-katagiri/jelatofish/internal/types"
)

// TestSource is the debugging generator, a bare exponential gradient with
// no parameters at all.
type TestSource struct{}

func (TestSource) Kind() Kind { return Test }

func (TestSource) At(pt types.Point) float64 {
	return math.Exp(-pt.X * pt.Y)
}
