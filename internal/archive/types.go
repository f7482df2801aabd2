// Package archive stores rendered fish in a single SQLite database file:
// one row per seed with gzip-compressed PNG data and the JSON recipe the
// fish was built from.
package archive

import (
	"fmt"

	"github.com/amane-katagiri/jelatofish/internal/types"
)

// Metadata contains archive metadata fields.
type Metadata struct {
	Name        string // human-readable archive identifier
	Description string
	Palette     string     // palette spec the batch was rendered with
	Version     string     // version string
	Size        types.Area // dimensions every fish in the archive renders at
}

// ToMap converts Metadata to name/value rows for database insertion.
func (m Metadata) ToMap() map[string]string {
	result := make(map[string]string)

	if m.Name != "" {
		result["name"] = m.Name
	}
	if m.Description != "" {
		result["description"] = m.Description
	}
	if m.Palette != "" {
		result["palette"] = m.Palette
	}
	if m.Version != "" {
		result["version"] = m.Version
	}
	if m.Size.Valid() {
		result["size"] = m.Size.String()
	}

	return result
}

// parseSize reads the "size" metadata value back into an Area.
func parseSize(value string) (types.Area, bool) {
	var a types.Area
	if _, err := fmt.Sscanf(value, "%dx%d", &a.Width, &a.Height); err != nil {
		return types.Area{}, false
	}
	return a, a.Valid()
}
