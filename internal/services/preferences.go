package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"biomas/internal/common"
	"biomas/internal/domain/preferences"
	"biomas/internal/models"

	"gorm.io/gorm"
)

// PreferenceStore persists the preference record in the database under a
// single key
type PreferenceStore struct {
	db     *gorm.DB
	key    string
	logger *slog.Logger
}

// NewPreferenceStore creates a new preference store scoped to key
func NewPreferenceStore(db *gorm.DB, key string, logger *slog.Logger) *PreferenceStore {
	if key == "" {
		key = common.DefaultStorageKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PreferenceStore{db: db, key: key, logger: logger}
}

// Key returns the storage key the store is scoped to
func (s *PreferenceStore) Key() string {
	return s.key
}

// Load reads the stored record. Missing, unreadable and malformed records
// all report false.
func (s *PreferenceStore) Load(ctx context.Context) (preferences.RawRecord, bool) {
	entry, err := models.FindPreferenceEntry(s.db.WithContext(ctx), s.key)
	if err != nil {
		if !errors.Is(err, common.ErrRecordNotFound) {
			s.logger.Warn("Failed to read preferences, using defaults",
				"key", s.key,
				"error", common.NewPreferencesError("load", s.key, err))
		}
		return preferences.RawRecord{}, false
	}

	raw, err := entry.GetRecord()
	if err != nil {
		s.logger.Warn("Stored preferences are malformed, using defaults",
			"key", s.key,
			"error", common.NewPreferencesError("load", s.key, err))
		return preferences.RawRecord{}, false
	}

	return raw, true
}

// Save writes the full record
func (s *PreferenceStore) Save(ctx context.Context, record preferences.PreferenceRecord) error {
	if err := models.UpsertPreferenceEntry(s.db.WithContext(ctx), s.key, record); err != nil {
		return common.NewPreferencesError("save", s.key, err)
	}
	return nil
}

// MemoryStore keeps the serialized record in memory. It backs the app when
// the database cannot be opened.
type MemoryStore struct {
	mu       sync.Mutex
	data     []byte
	saves    []preferences.PreferenceRecord
	saveErr  error
	loadFail bool
	logger   *slog.Logger
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryStore{logger: logger}
}

// Prime replaces the stored bytes as if they had been persisted earlier
func (m *MemoryStore) Prime(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
}

// FailSaves makes every following Save return err; nil restores saving
func (m *MemoryStore) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// FailLoads makes Load behave as if the medium were unreadable
func (m *MemoryStore) FailLoads(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadFail = fail
}

// Data returns a copy of the stored bytes
func (m *MemoryStore) Data() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// Saves returns every record passed to Save, including failed ones
func (m *MemoryStore) Saves() []preferences.PreferenceRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]preferences.PreferenceRecord(nil), m.saves...)
}

// Load decodes the stored bytes
func (m *MemoryStore) Load(ctx context.Context) (preferences.RawRecord, bool) {
	m.mu.Lock()
	data, fail := m.data, m.loadFail
	m.mu.Unlock()

	if fail {
		m.logger.Warn("Failed to read preferences, using defaults",
			"error", common.NewPreferencesError("load", "", common.ErrStorageUnavailable))
		return preferences.RawRecord{}, false
	}
	if data == nil {
		return preferences.RawRecord{}, false
	}

	raw, err := models.DecodeRawRecord(data)
	if err != nil {
		m.logger.Warn("Stored preferences are malformed, using defaults", "error", err)
		return preferences.RawRecord{}, false
	}
	return raw, true
}

// Save encodes and keeps the record
func (m *MemoryStore) Save(ctx context.Context, record preferences.PreferenceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saves = append(m.saves, record)
	if m.saveErr != nil {
		return common.NewPreferencesError("save", "", m.saveErr)
	}

	data, err := models.EncodeRecord(record)
	if err != nil {
		return common.NewPreferencesError("save", "", err)
	}
	m.data = data
	return nil
}
