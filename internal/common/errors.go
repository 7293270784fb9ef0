package common

import (
	"errors"
	"fmt"
)

// Preference error types
var (
	ErrRecordNotFound     = errors.New("preference record not found")
	ErrMalformedRecord    = errors.New("malformed preference record")
	ErrStorageUnavailable = errors.New("preference storage unavailable")
	ErrWriterClosed       = errors.New("preference writer closed")
)

// PreferencesError represents preferences-related errors
type PreferencesError struct {
	Operation string
	Key       string
	Err       error
}

func (e *PreferencesError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("preferences %s failed for key %s: %v", e.Operation, e.Key, e.Err)
	}
	return fmt.Sprintf("preferences %s failed: %v", e.Operation, e.Err)
}

func (e *PreferencesError) Unwrap() error {
	return e.Err
}

// NewPreferencesError creates a new preferences error
func NewPreferencesError(operation, key string, err error) *PreferencesError {
	return &PreferencesError{
		Operation: operation,
		Key:       key,
		Err:       err,
	}
}
