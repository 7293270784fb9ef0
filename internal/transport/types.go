package transport

import (
	"biomas/internal/domain/preferences"
	"biomas/internal/palette"
	"biomas/internal/theme"
)

// Transport layer types for Wails API

type ThemeDTO struct {
	ColorMode     string           `json:"colorMode"`
	FontScale     float64          `json:"fontScale"`
	FontFamily    string           `json:"fontFamily"`
	LibrasEnabled bool             `json:"librasEnabled"`
	Colors        palette.Palette  `json:"colors"`
	Typography    theme.Typography `json:"typography"`
}

type OptionsDTO struct {
	ColorModes    []string `json:"colorModes"`
	FontFamilies  []string `json:"fontFamilies"`
	Categories    []string `json:"categories"`
	MinFontScale  float64  `json:"minFontScale"`
	MaxFontScale  float64  `json:"maxFontScale"`
	FontScaleStep float64  `json:"fontScaleStep"`
}

// StagedPreferences carries the settings dialog's pending edits. Omitted
// fields keep their current value.
type StagedPreferences struct {
	ColorMode     *string  `json:"colorMode,omitempty"`
	FontScale     *float64 `json:"fontScale,omitempty"`
	FontFamily    *string  `json:"fontFamily,omitempty"`
	LibrasEnabled *bool    `json:"librasEnabled,omitempty"`
}

// Changes returns the staged fields as a partial record
func (s StagedPreferences) Changes() preferences.RawRecord {
	return preferences.RawRecord{
		ColorMode:     s.ColorMode,
		FontScale:     s.FontScale,
		FontFamily:    s.FontFamily,
		LibrasEnabled: s.LibrasEnabled,
	}
}

// NewThemeDTO flattens a derived theme for the frontend
func NewThemeDTO(th theme.DerivedTheme) ThemeDTO {
	return ThemeDTO{
		ColorMode:     string(th.ColorMode),
		FontScale:     th.FontScale,
		FontFamily:    string(th.FontFamily),
		LibrasEnabled: th.LibrasEnabled,
		Colors:        th.Colors,
		Typography:    th.Typography(),
	}
}

// ThemeService is the preference controller as seen by the bindings
type ThemeService interface {
	Theme() theme.DerivedTheme
	SetColorMode(mode preferences.ColorMode)
	SetFontScale(scale float64)
	SetFontFamily(family preferences.FontFamily)
	SetLibrasEnabled(enabled bool)
	ApplyStagedChanges(changes preferences.RawRecord)
	Subscribe(fn func(theme.DerivedTheme)) func()
}
