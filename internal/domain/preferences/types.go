package preferences

import (
	"context"
	"math"
	"strings"
)

// ColorMode selects the palette variant for a color-vision profile.
type ColorMode string

const (
	ColorModeDefault      ColorMode = "default"
	ColorModeProtanopia   ColorMode = "protanopia"
	ColorModeDeuteranopia ColorMode = "deuteranopia"
	ColorModeTritanopia   ColorMode = "tritanopia"
	ColorModeHighContrast ColorMode = "altoContraste"
)

// ColorModes lists every color mode in settings-dialog order.
func ColorModes() []ColorMode {
	return []ColorMode{
		ColorModeDefault,
		ColorModeProtanopia,
		ColorModeDeuteranopia,
		ColorModeTritanopia,
		ColorModeHighContrast,
	}
}

// IsValid reports whether m is one of the known color modes.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorModeDefault, ColorModeProtanopia, ColorModeDeuteranopia,
		ColorModeTritanopia, ColorModeHighContrast:
		return true
	}
	return false
}

// ParseColorMode resolves a persisted or user-supplied mode name.
// Unknown names resolve to ColorModeDefault.
func ParseColorMode(s string) ColorMode {
	switch strings.TrimSpace(s) {
	case "padrão", "padrao":
		return ColorModeDefault
	case "highContrast":
		return ColorModeHighContrast
	}
	m := ColorMode(strings.TrimSpace(s))
	if !m.IsValid() {
		return ColorModeDefault
	}
	return m
}

// FontFamily identifies a font family. Values outside the known set are
// passed through for the UI to resolve.
type FontFamily string

const (
	FontFamilySystem    FontFamily = "System"
	FontFamilyMonospace FontFamily = "monospace"
)

// PlatformDefaultFontFamily returns the platform's default sans family for goos.
func PlatformDefaultFontFamily(goos string) FontFamily {
	switch goos {
	case "darwin", "ios":
		return "Arial"
	case "android":
		return "sans-serif"
	default:
		return FontFamilySystem
	}
}

// FontFamilies lists the families offered by the settings dialog on goos.
func FontFamilies(goos string) []FontFamily {
	platform := PlatformDefaultFontFamily(goos)
	if platform == FontFamilySystem {
		return []FontFamily{FontFamilySystem, FontFamilyMonospace}
	}
	return []FontFamily{FontFamilySystem, platform, FontFamilyMonospace}
}

// Font scale domain
const (
	MinFontScale     = 0.85
	MaxFontScale     = 1.60
	FontScaleStep    = 0.05
	DefaultFontScale = 1.0

	fontScaleSteps = 1 / FontScaleStep
)

// ClampFontScale bounds v to [MinFontScale, MaxFontScale] and snaps it to
// the FontScaleStep grid. NaN yields DefaultFontScale.
func ClampFontScale(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultFontScale
	}
	v = math.Max(MinFontScale, math.Min(MaxFontScale, v))
	return math.Round(v*fontScaleSteps) / fontScaleSteps
}

// ResolveFontFamily maps an empty family to the default.
func ResolveFontFamily(f string) FontFamily {
	f = strings.TrimSpace(f)
	if f == "" {
		return FontFamilySystem
	}
	return FontFamily(f)
}

// PreferenceRecord is the validated, fully populated preference set.
type PreferenceRecord struct {
	ColorMode     ColorMode  `json:"colorMode"`
	FontScale     float64    `json:"fontScale"`
	FontFamily    FontFamily `json:"fontFamily"`
	LibrasEnabled bool       `json:"librasEnabled"`
}

// DefaultRecord returns the preferences used when nothing was persisted.
func DefaultRecord() PreferenceRecord {
	return PreferenceRecord{
		ColorMode:     ColorModeDefault,
		FontScale:     DefaultFontScale,
		FontFamily:    FontFamilySystem,
		LibrasEnabled: false,
	}
}

// Validate returns r with every field clamped or defaulted.
func (r PreferenceRecord) Validate() PreferenceRecord {
	return PreferenceRecord{
		ColorMode:     ParseColorMode(string(r.ColorMode)),
		FontScale:     ClampFontScale(r.FontScale),
		FontFamily:    ResolveFontFamily(string(r.FontFamily)),
		LibrasEnabled: r.LibrasEnabled,
	}
}

// RawRecord is a persisted record before validation. A nil field was
// absent or had the wrong type in storage.
type RawRecord struct {
	ColorMode     *string
	FontScale     *float64
	FontFamily    *string
	LibrasEnabled *bool
}

// Normalize merges raw against DefaultRecord field by field.
func Normalize(raw RawRecord) PreferenceRecord {
	return DefaultRecord().Merge(raw)
}

// Merge returns r with every field present in raw validated and applied.
// Absent fields keep their value from r.
func (r PreferenceRecord) Merge(raw RawRecord) PreferenceRecord {
	if raw.ColorMode != nil {
		r.ColorMode = ParseColorMode(*raw.ColorMode)
	}
	if raw.FontScale != nil {
		r.FontScale = ClampFontScale(*raw.FontScale)
	}
	if raw.FontFamily != nil {
		r.FontFamily = ResolveFontFamily(*raw.FontFamily)
	}
	if raw.LibrasEnabled != nil {
		r.LibrasEnabled = *raw.LibrasEnabled
	}

	return r
}

// Store persists a single preference record under a fixed key.
type Store interface {
	// Load returns false when there is no usable record.
	Load(ctx context.Context) (RawRecord, bool)
	Save(ctx context.Context, record PreferenceRecord) error
}
