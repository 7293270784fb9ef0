package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"biomas/internal/common"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	AppDataDir   string
	DatabasePath string
	StorageKey   string
	LogLevel     slog.Level
	Logger       *slog.Logger
}

// New creates the configuration from the user's app data directory. Any
// problem reading it leaves the defaults in place.
func New() *Config {
	cfg, err := Load(getAppDataDir())
	if err != nil {
		cfg.Logger.Warn("Failed to read configuration, using defaults", "error", err)
	}
	return cfg
}

// Load reads config.toml from appDataDir and BIOMAS_ environment variables.
// The returned Config is always usable, even when err is non-nil.
func Load(appDataDir string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(appDataDir)

	v.SetEnvPrefix("BIOMAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database_path", filepath.Join(appDataDir, common.DefaultDatabaseName))
	v.SetDefault("storage_key", common.DefaultStorageKey)
	v.SetDefault("log_level", "info")

	var readErr error
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			readErr = fmt.Errorf("failed to read config file in %s: %w", appDataDir, err)
		}
	}

	cfg := &Config{
		AppDataDir:   appDataDir,
		DatabasePath: v.GetString("database_path"),
		StorageKey:   v.GetString("storage_key"),
		LogLevel:     parseLevel(v.GetString("log_level")),
	}

	if cfg.StorageKey == "" {
		cfg.StorageKey = common.DefaultStorageKey
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(appDataDir, common.DefaultDatabaseName)
	}

	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	return cfg, readErr
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getAppDataDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "Biomas")
}
