package generators

import (
	"math"
	"math/rand"
	"testing"

	"github.com/amane-katagiri/jelatofish/internal/types"
)

func TestRandomSpinflakeParameterRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	for i := 0; i < 500; i++ {
		p := RandomSpinflake(rng)
		if n := len(p.Florets); n < 1 || n > maxFlorets+1 {
			t.Fatalf("floret count %d outside [1,%d]", n, maxFlorets+1)
		}
		if p.Radius < 0 || p.Radius >= 1 {
			t.Fatalf("radius %g outside [0,1)", p.Radius)
		}
		if p.Squish < 0 || p.Squish >= 2.75*0.25 {
			t.Fatalf("squish %g outside [0,0.6875)", p.Squish)
		}
		if p.Twist < 0 || p.Twist >= math.Pi {
			t.Fatalf("twist %g outside [0,pi)", p.Twist)
		}
		for _, f := range p.Florets {
			if f.Spines < 1 || f.Spines > 16 {
				t.Fatalf("spine count %d outside [1,16]", f.Spines)
			}
			if f.SinePos == SineAbsolute && f.Spines%2 == 1 {
				t.Fatalf("absolute floret kept odd spine count %d", f.Spines)
			}
			if f.SpineRadius < 0 || f.SpineRadius >= 0.5 {
				t.Fatalf("spine radius %g outside [0,0.5)", f.SpineRadius)
			}
			switch f.Twirl.Method {
			case TwirlNone:
				if f.Twirl.Speed != 0 || f.Twirl.Amp != 0 {
					t.Fatalf("twirl none with speed %g amp %g", f.Twirl.Speed, f.Twirl.Amp)
				}
			case TwirlCurve:
				if f.Twirl.Speed < -maxTwirl || f.Twirl.Speed >= maxTwirl {
					t.Fatalf("curve speed %g outside [-14,14)", f.Twirl.Speed)
				}
			case TwirlSine:
				if f.Twirl.Speed < 0 || f.Twirl.Speed >= maxTwirl*math.Pi {
					t.Fatalf("sine speed %g outside [0,14pi)", f.Twirl.Speed)
				}
			}
		}
	}
}

// The spinflake folds its own seams, so opposite edges of the unit tile
// must evaluate identically.
func TestSpinflakeSeamContinuity(t *testing.T) {
	rng := rand.New(rand.NewSource(47))
	const tol = 1e-9
	for i := 0; i < 20; i++ {
		p := RandomSpinflake(rng)
		for j := 1; j < 8; j++ {
			c := float64(j) / 8
			if l, r := p.At(types.Point{X: 0, Y: c}), p.At(types.Point{X: 1, Y: c}); math.Abs(l-r) > tol {
				t.Fatalf("horizontal seam mismatch at y=%g: %g vs %g", c, l, r)
			}
			if a, b := p.At(types.Point{X: c, Y: 0}), p.At(types.Point{X: c, Y: 1}); math.Abs(a-b) > tol {
				t.Fatalf("vertical seam mismatch at x=%g: %g vs %g", c, a, b)
			}
		}
	}
}

func TestSpinflakeDistanceValues(t *testing.T) {
	base := SpinflakeParams{
		Origin:  types.Point{X: 0, Y: 0},
		Radius:  0.4,
		Squish:  1,
		Twist:   0,
		Florets: []Floret{{SinePos: SineCompress, Spines: 4}},
	}
	const tol = 1e-9
	// SpineRadius zero leaves the edge exactly at Radius. A point at 0.2
	// sits halfway inside, a point at 0.6 is half a radius outside.
	inside := base
	if got, want := inside.At(types.Point{X: 0.2, Y: 0}), math.Sqrt(0.5); math.Abs(got-want) > tol {
		t.Errorf("inside value = %g, want %g", got, want)
	}
	if got, want := inside.At(types.Point{X: 0.36, Y: 0.48}), 1.0/3.0; math.Abs(got-want) > tol {
		t.Errorf("outside value = %g, want %g", got, want)
	}
}

func TestSpinflakeAveragedFloretsMatchScaledRadius(t *testing.T) {
	// Two zero-radius florets averaged halve the edge distance, which is
	// the same shape as a single floret at half the radius.
	averaged := SpinflakeParams{
		Origin:         types.Point{X: 0.1, Y: 0.1},
		Radius:         0.8,
		Squish:         1,
		AverageFlorets: true,
		Florets:        []Floret{{Spines: 3}, {Spines: 7}},
	}
	plain := SpinflakeParams{
		Origin:  types.Point{X: 0.1, Y: 0.1},
		Radius:  0.4,
		Squish:  1,
		Florets: []Floret{{Spines: 5}},
	}
	const tol = 1e-9
	for _, pt := range []types.Point{{X: 0.3, Y: 0.1}, {X: 0.1, Y: 0.45}, {X: 0.25, Y: 0.3}} {
		if a, b := averaged.At(pt), plain.At(pt); math.Abs(a-b) > tol {
			t.Errorf("At(%v): averaged %g != scaled %g", pt, a, b)
		}
	}
}

func TestSpinflakeOriginValue(t *testing.T) {
	p := SpinflakeParams{
		Origin:  types.Point{X: 0.3, Y: 0.3},
		Radius:  0.5,
		Squish:  1,
		Florets: []Floret{{Spines: 2}},
	}
	if got := p.At(types.Point{X: 0.3, Y: 0.3}); got != 1 {
		t.Errorf("value at origin = %g, want 1", got)
	}
}

func TestChopSinStaysInUnitRange(t *testing.T) {
	methods := []SinePos{SineCompress, SineTruncate, SineAbsolute, SineSawblade}
	for _, m := range methods {
		for _, backward := range []bool{false, true} {
			f := Floret{SinePos: m, Backward: backward}
			for theta := -12.0; theta <= 12.0; theta += 0.13 {
				v := chopSin(theta, &f)
				if v < 0 || v > 1 {
					t.Fatalf("chopSin(%g) with method %d backward %t = %g", theta, m, backward, v)
				}
			}
		}
	}
}
