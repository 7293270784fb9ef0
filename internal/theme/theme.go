// Package theme derives the render-ready theme from a preference record.
package theme

import (
	"math"
	"sync"

	"biomas/internal/domain/preferences"
	"biomas/internal/palette"
)

// Nominal font sizes used across the screens, before scaling.
const (
	CaptionSize      = 12
	BodySize         = 14
	DescriptionSize  = 15
	LabelSize        = 16
	TitleSize        = 18
	SectionTitleSize = 20
	CardTitleSize    = 22
	HeadingSize      = 26
)

// Nominal line heights paired with the description and section text sizes.
const (
	DescriptionLineHeight = 22
	TextLineHeight        = 24
)

// Typography holds the nominal sizes scaled by the font scale.
type Typography struct {
	Caption               int `json:"caption"`
	Body                  int `json:"body"`
	Description           int `json:"description"`
	Label                 int `json:"label"`
	Title                 int `json:"title"`
	SectionTitle          int `json:"sectionTitle"`
	CardTitle             int `json:"cardTitle"`
	Heading               int `json:"heading"`
	DescriptionLineHeight int `json:"descriptionLineHeight"`
	TextLineHeight        int `json:"textLineHeight"`
}

// DerivedTheme is an immutable snapshot of the resolved theme. A new value
// replaces it on every preference change.
type DerivedTheme struct {
	ColorMode     preferences.ColorMode
	FontScale     float64
	FontFamily    preferences.FontFamily
	LibrasEnabled bool
	Colors        palette.Palette
}

// Derive combines record with the registry's palette. It performs no I/O
// and returns equal themes for equal records.
func Derive(record preferences.PreferenceRecord, registry *palette.Registry) DerivedTheme {
	return DerivedTheme{
		ColorMode:     record.ColorMode,
		FontScale:     record.FontScale,
		FontFamily:    record.FontFamily,
		LibrasEnabled: record.LibrasEnabled,
		Colors:        registry.Lookup(record.ColorMode),
	}
}

// Record returns the preferences the theme was derived from.
func (t DerivedTheme) Record() preferences.PreferenceRecord {
	return preferences.PreferenceRecord{
		ColorMode:     t.ColorMode,
		FontScale:     t.FontScale,
		FontFamily:    t.FontFamily,
		LibrasEnabled: t.LibrasEnabled,
	}
}

// Scale returns size multiplied by the font scale, rounded to the nearest
// integer.
func (t DerivedTheme) Scale(size int) int {
	return int(math.Round(float64(size) * t.FontScale))
}

// ColorFor returns the category color from the theme's palette.
func (t DerivedTheme) ColorFor(key string) string {
	return palette.ColorFor(t.Colors, key)
}

// Typography returns the scaled preset sizes.
func (t DerivedTheme) Typography() Typography {
	return Typography{
		Caption:               t.Scale(CaptionSize),
		Body:                  t.Scale(BodySize),
		Description:           t.Scale(DescriptionSize),
		Label:                 t.Scale(LabelSize),
		Title:                 t.Scale(TitleSize),
		SectionTitle:          t.Scale(SectionTitleSize),
		CardTitle:             t.Scale(CardTitleSize),
		Heading:               t.Scale(HeadingSize),
		DescriptionLineHeight: t.Scale(DescriptionLineHeight),
		TextLineHeight:        t.Scale(TextLineHeight),
	}
}

// Equal reports whether both themes render identically.
func (t DerivedTheme) Equal(o DerivedTheme) bool {
	return t.Record() == o.Record() && t.Colors.Equal(o.Colors)
}

// Memo caches the last derivation keyed on record equality.
type Memo struct {
	registry *palette.Registry

	mu     sync.Mutex
	valid  bool
	record preferences.PreferenceRecord
	theme  DerivedTheme
	misses int
}

// NewMemo returns an empty cache over registry.
func NewMemo(registry *palette.Registry) *Memo {
	return &Memo{registry: registry}
}

// Derive returns the cached theme when record equals the previous one.
func (m *Memo) Derive(record preferences.PreferenceRecord) DerivedTheme {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.record == record {
		return m.theme
	}

	m.theme = Derive(record, m.registry)
	m.record = record
	m.valid = true
	m.misses++
	return m.theme
}

// Misses reports how many derivations were computed rather than reused.
func (m *Memo) Misses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.misses
}
