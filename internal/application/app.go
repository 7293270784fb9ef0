package application

import (
	"context"
	"time"

	"biomas/internal/config"
	"biomas/internal/container"
	"biomas/internal/database"
	"biomas/internal/transport"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	ctx       context.Context
	container *container.Container
	wailsApp  *transport.WailsApp
	config    *config.Config
}

func NewApp() *App {
	return &App{}
}

func (a *App) OnStartup(ctx context.Context) {
	a.ctx = ctx

	// Initialize configuration
	cfg := config.New()
	a.config = cfg

	// Initialize database, falling back to in-memory preferences
	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		cfg.Logger.Error("Failed to initialize database", "path", cfg.DatabasePath, "error", err)
	}

	// Initialize dependency container
	a.container = container.New(ctx, cfg, db, wailsruntime.EventsEmit)

	// Initialize transport layer
	a.wailsApp = transport.NewWailsApp(ctx, a.container.GetController(), wailsruntime.EventsEmit)

	cfg.Logger.Info("Wails app initialized successfully")
	cfg.Logger.Info("Application configuration",
		"app_data_dir", cfg.AppDataDir,
		"database_path", cfg.DatabasePath,
		"storage_key", cfg.StorageKey,
		"persistent", db != nil)
}

func (a *App) OnShutdown(ctx context.Context) {
	if a.container == nil {
		return
	}

	a.wailsApp.Close()

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := a.container.Close(ctx); err != nil {
		a.config.Logger.Error("Shutdown did not complete cleanly", "error", err)
		return
	}
	a.config.Logger.Info("Preferences flushed, shutting down")
}

func (a *App) GetTheme() transport.ThemeDTO {
	return a.wailsApp.GetTheme()
}

func (a *App) SetColorMode(mode string) {
	a.wailsApp.SetColorMode(mode)
}

func (a *App) SetFontScale(scale float64) {
	a.wailsApp.SetFontScale(scale)
}

func (a *App) SetFontFamily(family string) {
	a.wailsApp.SetFontFamily(family)
}

func (a *App) SetLibrasEnabled(enabled bool) {
	a.wailsApp.SetLibrasEnabled(enabled)
}

func (a *App) ApplyStaged(staged transport.StagedPreferences) {
	a.wailsApp.ApplyStaged(staged)
}

func (a *App) GetOptions() transport.OptionsDTO {
	return a.wailsApp.GetOptions()
}

func (a *App) ScaleFont(size int) int {
	return a.wailsApp.ScaleFont(size)
}

func (a *App) BiomaColor(key string) string {
	return a.wailsApp.BiomaColor(key)
}
