package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"biomas/internal/common"
	"biomas/internal/domain/preferences"

	"gorm.io/gorm"
)

// PreferenceEntry is one scoped key-value row holding a JSON preference record
type PreferenceEntry struct {
	Key       string    `gorm:"column:storage_key;primaryKey;size:128" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the gorm default
func (PreferenceEntry) TableName() string {
	return "preference_entries"
}

// GetRecord parses the stored value
func (e *PreferenceEntry) GetRecord() (preferences.RawRecord, error) {
	if e.Value == "" {
		return preferences.RawRecord{}, common.ErrMalformedRecord
	}
	return DecodeRawRecord([]byte(e.Value))
}

// SetRecord serializes the full record into the entry
func (e *PreferenceEntry) SetRecord(record preferences.PreferenceRecord) error {
	data, err := EncodeRecord(record)
	if err != nil {
		return err
	}

	e.Value = string(data)
	return nil
}

// EncodeRecord marshals the persisted JSON shape
func EncodeRecord(record preferences.PreferenceRecord) ([]byte, error) {
	return json.Marshal(record)
}

// DecodeRawRecord parses a persisted record. Fields with the wrong type are
// left nil so the caller can default them individually; only a payload that
// is not a JSON object is an error.
func DecodeRawRecord(data []byte) (preferences.RawRecord, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return preferences.RawRecord{}, fmt.Errorf("%w: %v", common.ErrMalformedRecord, err)
	}
	if fields == nil {
		return preferences.RawRecord{}, fmt.Errorf("%w: not an object", common.ErrMalformedRecord)
	}

	var raw preferences.RawRecord

	if val, ok := fields["colorMode"]; ok {
		if mode, ok := val.(string); ok {
			raw.ColorMode = &mode
		}
	}

	if val, ok := fields["fontScale"]; ok {
		if scale, ok := val.(float64); ok {
			raw.FontScale = &scale
		}
	}

	if val, ok := fields["fontFamily"]; ok {
		if family, ok := val.(string); ok {
			raw.FontFamily = &family
		}
	}

	if val, ok := fields["librasEnabled"]; ok {
		if enabled, ok := val.(bool); ok {
			raw.LibrasEnabled = &enabled
		}
	}

	return raw, nil
}

// FindPreferenceEntry returns the entry stored under key
func FindPreferenceEntry(db *gorm.DB, key string) (*PreferenceEntry, error) {
	var entry PreferenceEntry

	result := db.First(&entry, "storage_key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, common.ErrRecordNotFound
		}
		return nil, result.Error
	}

	return &entry, nil
}

// UpsertPreferenceEntry writes record under key, creating the row if needed
func UpsertPreferenceEntry(db *gorm.DB, key string, record preferences.PreferenceRecord) error {
	entry, err := FindPreferenceEntry(db, key)
	if err != nil {
		if !errors.Is(err, common.ErrRecordNotFound) {
			return err
		}

		entry = &PreferenceEntry{Key: key}
		if err := entry.SetRecord(record); err != nil {
			return err
		}
		return db.Create(entry).Error
	}

	if err := entry.SetRecord(record); err != nil {
		return err
	}

	return db.Save(entry).Error
}
