package generators

import (
	"math"
	"math/rand"
	"testing"
)

func TestPackedCosStaysInUnitRange(t *testing.T) {
	methods := []PackMethod{ScaleToFit, FlipSignToFit, TruncateToFit, SlopeToFit}
	for _, m := range methods {
		for d := -8.0; d <= 8.0; d += 0.37 {
			v := PackedCos(d, 3.7, m)
			if v < 0 || v > 1 {
				t.Errorf("PackedCos(%g, 3.7, %s) = %g, want within [0,1]", d, m, v)
			}
		}
	}
}

func TestPackedCosKnownValues(t *testing.T) {
	const tol = 1e-9
	cases := []struct {
		name     string
		distance float64
		scale    float64
		method   PackMethod
		want     float64
	}{
		{"scale peak", 0, 5, ScaleToFit, 1},
		{"scale zero crossing", math.Pi / 2, 1, ScaleToFit, 0.5},
		{"flipsign valley", math.Pi, 1, FlipSignToFit, 1},
		{"truncate valley", math.Pi, 1, TruncateToFit, 0},
		{"truncate peak", 0, 1, TruncateToFit, 1},
	}
	for _, tc := range cases {
		if got := PackedCos(tc.distance, tc.scale, tc.method); math.Abs(got-tc.want) > tol {
			t.Errorf("%s: PackedCos(%g, %g, %s) = %g, want %g",
				tc.name, tc.distance, tc.scale, tc.method, got, tc.want)
		}
	}
}

func TestPackedCosUnresolvedMethodIsFlat(t *testing.T) {
	for d := -3.0; d <= 3.0; d += 0.5 {
		if got := PackedCos(d, 9, PackNone); got != 0.5 {
			t.Fatalf("PackedCos(%g, 9, none) = %g, want 0.5", d, got)
		}
	}
}

func TestRandomPackMethodCoversAllMethods(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	seen := map[PackMethod]int{}
	for i := 0; i < 400; i++ {
		m := RandomPackMethod(rng)
		if m == PackNone {
			t.Fatal("RandomPackMethod returned the unresolved method")
		}
		seen[m]++
	}
	for _, m := range []PackMethod{ScaleToFit, FlipSignToFit, TruncateToFit, SlopeToFit} {
		if seen[m] == 0 {
			t.Errorf("method %s never sampled in 400 draws", m)
		}
	}
}
