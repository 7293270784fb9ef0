package transport

import (
	"context"
	"runtime"

	"biomas/internal/common"
	"biomas/internal/domain/preferences"
	"biomas/internal/palette"
	"biomas/internal/theme"
)

type WailsApp struct {
	ctx         context.Context
	themes      ThemeService
	emit        common.EmitFunc
	goos        string
	unsubscribe func()
}

// NewWailsApp binds the theme service to the frontend. Every theme
// replacement is emitted as EventThemeChanged.
func NewWailsApp(ctx context.Context, themes ThemeService, emit common.EmitFunc) *WailsApp {
	a := &WailsApp{
		ctx:    ctx,
		themes: themes,
		emit:   emit,
		goos:   runtime.GOOS,
	}

	a.unsubscribe = themes.Subscribe(a.publish)
	return a
}

func (a *WailsApp) publish(th theme.DerivedTheme) {
	if a.emit == nil {
		return
	}
	a.emit(a.ctx, common.EventThemeChanged, NewThemeDTO(th))
}

// Close stops forwarding theme changes
func (a *WailsApp) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

func (a *WailsApp) GetTheme() ThemeDTO {
	return NewThemeDTO(a.themes.Theme())
}

func (a *WailsApp) SetColorMode(mode string) {
	a.themes.SetColorMode(preferences.ColorMode(mode))
}

func (a *WailsApp) SetFontScale(scale float64) {
	a.themes.SetFontScale(scale)
}

func (a *WailsApp) SetFontFamily(family string) {
	a.themes.SetFontFamily(preferences.FontFamily(family))
}

func (a *WailsApp) SetLibrasEnabled(enabled bool) {
	a.themes.SetLibrasEnabled(enabled)
}

// ApplyStaged commits the dialog's edits as one change. Omitted fields keep
// their current value.
func (a *WailsApp) ApplyStaged(staged StagedPreferences) {
	a.themes.ApplyStagedChanges(staged.Changes())
}

func (a *WailsApp) GetOptions() OptionsDTO {
	modes := preferences.ColorModes()
	families := preferences.FontFamilies(a.goos)

	opts := OptionsDTO{
		ColorModes:    make([]string, len(modes)),
		FontFamilies:  make([]string, len(families)),
		Categories:    palette.Categories(),
		MinFontScale:  preferences.MinFontScale,
		MaxFontScale:  preferences.MaxFontScale,
		FontScaleStep: preferences.FontScaleStep,
	}
	for i, m := range modes {
		opts.ColorModes[i] = string(m)
	}
	for i, f := range families {
		opts.FontFamilies[i] = string(f)
	}
	return opts
}

// ScaleFont scales a nominal font size by the current font scale
func (a *WailsApp) ScaleFont(size int) int {
	return a.themes.Theme().Scale(size)
}

// BiomaColor returns the current palette's color for a biome
func (a *WailsApp) BiomaColor(key string) string {
	return a.themes.Theme().ColorFor(key)
}
