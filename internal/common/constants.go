package common

const (
	// Storage constants
	DefaultStorageKey      = "@acessibilidade_prefs_v1"
	DefaultDatabaseName    = "database.sqlite3"
	DefaultFilePermissions = 0755

	// Event names
	EventThemeChanged = "theme:changed"
	EventSaveFailed   = "preferences:save_failed"
)
