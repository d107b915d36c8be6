// Package preset defines named inclusion presets that restrict selection to
// a set of path roots.
package preset

import (
	"sort"
	"strings"

	"github.com/tyemirov/codepack/internal/utils"
)

const (
	// AllPresetName names the universal preset used when no valid preset is requested.
	AllPresetName = "all"
	// CorePresetName names the preset selecting application logic.
	CorePresetName = "core"
	// UIPresetName names the preset selecting interface code.
	UIPresetName = "ui"
)

// Preset selects files located at or under one of its include roots.
// A preset without include roots selects everything.
type Preset struct {
	Name         string
	Description  string
	IncludeRoots []string
}

// New builds a preset with slash-normalized roots. Trailing separators are removed.
func New(name string, description string, includeRoots []string) Preset {
	normalizedRoots := make([]string, 0, len(includeRoots))
	for _, root := range includeRoots {
		normalizedRoot := strings.TrimRight(utils.NormalizeSlashes(strings.TrimSpace(root)), utils.PathSegmentSeparator)
		normalizedRoots = append(normalizedRoots, normalizedRoot)
	}
	return Preset{
		Name:         normalizeName(name),
		Description:  description,
		IncludeRoots: utils.DeduplicatePatterns(normalizedRoots),
	}
}

// IsUniversal reports whether the preset selects every path.
func (preset Preset) IsUniversal() bool {
	return len(preset.IncludeRoots) == 0
}

// Matches reports whether relativePath equals an include root or lies beneath one.
func (preset Preset) Matches(relativePath string) bool {
	if preset.IsUniversal() {
		return true
	}
	normalizedPath := utils.NormalizeSlashes(relativePath)
	for _, root := range preset.IncludeRoots {
		if normalizedPath == root || strings.HasPrefix(normalizedPath, root+utils.PathSegmentSeparator) {
			return true
		}
	}
	return false
}

// Catalog is an immutable table of presets keyed by name.
type Catalog struct {
	presets map[string]Preset
}

// NewCatalog builds a catalog. A universal "all" preset is always present;
// later presets with the same name replace earlier ones.
func NewCatalog(presets ...Preset) Catalog {
	catalog := Catalog{presets: map[string]Preset{
		AllPresetName: New(AllPresetName, "Whole project", nil),
	}}
	for _, preset := range presets {
		catalog.presets[preset.Name] = preset
	}
	return catalog
}

// DefaultCatalog returns the built-in presets.
func DefaultCatalog() Catalog {
	return NewCatalog(
		New(AllPresetName, "Whole project", nil),
		New(CorePresetName, "Logic only (src/core, src/utils)", []string{"src/core", "src/utils", "src/constants.js", "src/main.js"}),
		New(UIPresetName, "Interface (src/ui, styles, html)", []string{"src/ui", "src/styles", "index.html"}),
	)
}

// With returns a copy of the catalog with the provided presets added or replaced.
func (catalog Catalog) With(presets ...Preset) Catalog {
	merged := make([]Preset, 0, len(catalog.presets)+len(presets))
	merged = append(merged, catalog.Presets()...)
	merged = append(merged, presets...)
	return NewCatalog(merged...)
}

// Lookup returns the preset registered under name.
func (catalog Catalog) Lookup(name string) (Preset, bool) {
	preset, found := catalog.presets[normalizeName(name)]
	return preset, found
}

// Resolve returns the preset registered under name, falling back to the
// universal preset. The boolean reports whether name was recognized.
func (catalog Catalog) Resolve(name string) (Preset, bool) {
	if preset, found := catalog.Lookup(name); found {
		return preset, true
	}
	if preset, found := catalog.presets[AllPresetName]; found {
		return preset, false
	}
	return New(AllPresetName, "", nil), false
}

// Presets returns every preset sorted by name.
func (catalog Catalog) Presets() []Preset {
	presets := make([]Preset, 0, len(catalog.presets))
	for _, preset := range catalog.presets {
		presets = append(presets, preset)
	}
	sort.Slice(presets, func(left, right int) bool {
		return presets[left].Name < presets[right].Name
	})
	return presets
}

// Names returns the sorted preset names.
func (catalog Catalog) Names() []string {
	presets := catalog.Presets()
	names := make([]string, 0, len(presets))
	for _, preset := range presets {
		names = append(names, preset.Name)
	}
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
