// Package palette provides named colour presets and parsing of
// user-supplied palette specs for fish gradients.
package palette

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/amane-katagiri/jelatofish/internal/fish"
)

// hsv builds a palette colour from go-colorful's HSV space. Hue is in
// degrees, saturation and value in [0,1].
func hsv(h, s, v float64) fish.Colour {
	c := colorful.Hsv(h, s, v).Clamped()
	return fish.Colour{Red: c.R, Green: c.G, Blue: c.B}
}

var presets = map[string]fish.ColourPalette{
	"ocean": {Colours: []fish.Colour{
		hsv(215, 0.85, 0.25),
		hsv(205, 0.75, 0.5),
		hsv(192, 0.6, 0.72),
		hsv(172, 0.45, 0.9),
	}},
	"lava": {Colours: []fish.Colour{
		hsv(0, 0.9, 0.22),
		hsv(12, 0.95, 0.55),
		hsv(28, 1, 0.85),
		hsv(45, 0.85, 1),
	}},
	"reef": {Colours: []fish.Colour{
		hsv(5, 0.75, 0.95),
		hsv(35, 0.8, 0.95),
		hsv(160, 0.7, 0.8),
		hsv(195, 0.65, 0.9),
		hsv(285, 0.4, 0.85),
	}},
	"pastel": {Colours: []fish.Colour{
		hsv(0, 0.25, 1),
		hsv(90, 0.22, 0.98),
		hsv(185, 0.25, 1),
		hsv(270, 0.2, 0.98),
	}},
	"mono": {Colours: []fish.Colour{
		hsv(0, 0, 0.1),
		hsv(0, 0, 0.4),
		hsv(0, 0, 0.7),
		hsv(0, 0, 0.95),
	}},
}

// Presets lists the available preset names in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Named looks up a preset by name, case-insensitively.
func Named(name string) (fish.ColourPalette, bool) {
	p, ok := presets[strings.ToLower(name)]
	return p, ok
}

// Parse turns a palette spec into a palette. An empty spec yields the open
// palette (layers draw fully random colours); otherwise the spec is a
// preset name or a comma-separated list of at least two #rrggbb colours.
func Parse(spec string) (fish.ColourPalette, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return fish.ColourPalette{}, nil
	}
	if p, ok := Named(spec); ok {
		return p, nil
	}
	parts := strings.Split(spec, ",")
	colours := make([]fish.Colour, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		c, err := colorful.Hex(part)
		if err != nil {
			return fish.ColourPalette{}, fmt.Errorf(
				"palette %q: %q is neither a preset (%s) nor a hex colour: %w",
				spec, part, strings.Join(Presets(), ", "), err)
		}
		colours = append(colours, fish.Colour{Red: c.R, Green: c.G, Blue: c.B})
	}
	if len(colours) < 2 {
		return fish.ColourPalette{}, fmt.Errorf("palette %q needs at least two colours for a gradient", spec)
	}
	return fish.ColourPalette{Colours: colours}, nil
}
