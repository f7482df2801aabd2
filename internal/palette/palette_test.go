package palette

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/amane-katagiri/jelatofish/internal/fish"
	"github.com/amane-katagiri/jelatofish/internal/types"
)

func TestPresetsAreWellFormed(t *testing.T) {
	names := Presets()
	if len(names) == 0 {
		t.Fatal("no presets registered")
	}
	for _, name := range names {
		p, ok := Named(name)
		if !ok {
			t.Fatalf("preset %q listed but not found", name)
		}
		if len(p.Colours) < 2 {
			t.Fatalf("preset %q has only %d colours", name, len(p.Colours))
		}
		distinct := false
		for _, c := range p.Colours {
			for _, v := range []float64{c.Red, c.Green, c.Blue, c.Alpha} {
				if v < 0 || v > 1 {
					t.Fatalf("preset %q colour %+v has a channel outside [0,1]", name, c)
				}
			}
			first := p.Colours[0]
			if c.Red != first.Red || c.Green != first.Green || c.Blue != first.Blue {
				distinct = true
			}
		}
		if !distinct {
			t.Fatalf("preset %q has no two distinct colours", name)
		}
	}
}

func TestPresetsBuildFish(t *testing.T) {
	p, ok := Named("ocean")
	if !ok {
		t.Fatal("ocean preset missing")
	}
	rng := rand.New(rand.NewSource(3))
	size := types.Area{Width: 4, Height: 4}
	if _, err := fish.Random(rng, size, p, fish.Options{}); err != nil {
		t.Fatalf("Random with ocean preset: %v", err)
	}
}

func TestParseAcceptsPresetNamesCaseInsensitively(t *testing.T) {
	lower, err := Parse("lava")
	if err != nil {
		t.Fatalf("Parse(lava): %v", err)
	}
	mixed, err := Parse("LaVa")
	if err != nil {
		t.Fatalf("Parse(LaVa): %v", err)
	}
	if !reflect.DeepEqual(lower, mixed) {
		t.Error("preset lookup is case sensitive")
	}
}

func TestParseHexList(t *testing.T) {
	p, err := Parse("#ff0000, #00ff00,#0000ff")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []fish.Colour{
		{Red: 1},
		{Green: 1},
		{Blue: 1},
	}
	if !reflect.DeepEqual(p.Colours, want) {
		t.Fatalf("Parse = %+v, want %+v", p.Colours, want)
	}
}

func TestParseEmptySpecIsOpenPalette(t *testing.T) {
	p, err := Parse("  ")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.Colours) != 0 {
		t.Fatalf("empty spec produced %d colours, want 0", len(p.Colours))
	}
}

func TestParseRejectsBadSpecs(t *testing.T) {
	for _, spec := range []string{
		"nope",
		"#ff0000",
		"#ff0000,#not-a-colour",
	} {
		if _, err := Parse(spec); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", spec)
		}
	}
}
