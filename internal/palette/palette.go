// Package palette holds the fixed color palettes for each color mode.
package palette

import (
	"maps"

	"biomas/internal/domain/preferences"
)

// FallbackColor is returned for category keys a palette does not map.
const FallbackColor = "#9e9e9e"

// Biome category keys
const (
	Amazonia      = "Amazonia"
	Cerrado       = "Cerrado"
	Caatinga      = "Caatinga"
	MataAtlantica = "MataAtlantica"
)

// Categories returns the biome keys every palette maps.
func Categories() []string {
	return []string{Amazonia, Cerrado, Caatinga, MataAtlantica}
}

// Palette holds semantic color tokens for one color mode.
type Palette struct {
	Background string            `json:"background"` // Screen background
	Surface    string            `json:"surface"`    // Cards and dialogs
	Text       string            `json:"text"`       // Headings and primary text
	BodyText   string            `json:"bodyText"`   // Paragraph text
	Muted      string            `json:"muted"`      // Secondary text
	Divider    string            `json:"divider"`    // Borders and separators
	Shadow     string            `json:"shadow"`     // Card shadows
	Biomas     map[string]string `json:"biomas"`     // Category colors
}

func (p Palette) clone() Palette {
	p.Biomas = maps.Clone(p.Biomas)
	return p
}

// Equal reports whether p and o carry the same colors.
func (p Palette) Equal(o Palette) bool {
	return p.Background == o.Background &&
		p.Surface == o.Surface &&
		p.Text == o.Text &&
		p.BodyText == o.BodyText &&
		p.Muted == o.Muted &&
		p.Divider == o.Divider &&
		p.Shadow == o.Shadow &&
		maps.Equal(p.Biomas, o.Biomas)
}

// Registry maps every color mode to its palette. It is read-only after
// construction and safe for concurrent use.
type Registry struct {
	palettes map[preferences.ColorMode]Palette
}

// NewRegistry returns a registry with the built-in palettes.
func NewRegistry() *Registry {
	return &Registry{
		palettes: map[preferences.ColorMode]Palette{
			preferences.ColorModeDefault:      defaultPalette(),
			preferences.ColorModeProtanopia:   protanopiaPalette(),
			preferences.ColorModeDeuteranopia: deuteranopiaPalette(),
			preferences.ColorModeTritanopia:   tritanopiaPalette(),
			preferences.ColorModeHighContrast: highContrastPalette(),
		},
	}
}

// Lookup returns a copy of the palette for mode. Unknown modes get the
// default palette.
func (r *Registry) Lookup(mode preferences.ColorMode) Palette {
	switch mode {
	case preferences.ColorModeDefault,
		preferences.ColorModeProtanopia,
		preferences.ColorModeDeuteranopia,
		preferences.ColorModeTritanopia,
		preferences.ColorModeHighContrast:
		if p, ok := r.palettes[mode]; ok {
			return p.clone()
		}
	}
	return defaultPalette()
}

// Modes lists the modes the registry serves, in settings-dialog order.
func (r *Registry) Modes() []preferences.ColorMode {
	return preferences.ColorModes()
}

// ColorFor returns the palette's color for a category key, or FallbackColor.
func ColorFor(p Palette, key string) string {
	if c, ok := p.Biomas[key]; ok && c != "" {
		return c
	}
	return FallbackColor
}
