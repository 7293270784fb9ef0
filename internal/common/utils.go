package common

import (
	"context"

	"github.com/google/uuid"
)

// EmitFunc sends an event to the frontend. It matches the signature of the
// Wails runtime EventsEmit so tests can substitute a recorder.
type EmitFunc func(ctx context.Context, eventName string, optionalData ...interface{})

// GenerateUUID generates a new UUID string
func GenerateUUID() string {
	return uuid.New().String()
}
