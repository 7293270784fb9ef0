package container

import (
	"context"
	"log/slog"

	"biomas/internal/common"
	"biomas/internal/domain/preferences"
	"biomas/internal/services"

	"gorm.io/gorm"
)

// SaveFailure is the payload of the save failed event
type SaveFailure struct {
	Seq   uint64                       `json:"seq"`
	Error string                       `json:"error"`
	Prefs preferences.PreferenceRecord `json:"preferences"`
}

// saveFailureReporter forwards failed saves to the frontend
type saveFailureReporter struct {
	ctx  context.Context
	emit common.EmitFunc
}

func (r *saveFailureReporter) Report(result services.SaveResult) {
	if result.OK() || r.emit == nil {
		return
	}

	r.emit(r.ctx, common.EventSaveFailed, SaveFailure{
		Seq:   result.Seq,
		Error: result.Err.Error(),
		Prefs: result.Record,
	})
}

func newStore(db *gorm.DB, key string, logger *slog.Logger) preferences.Store {
	if db == nil {
		logger.Warn("Database unavailable, preferences will not survive a restart")
		return services.NewMemoryStore(logger)
	}
	return services.NewPreferenceStore(db, key, logger)
}
