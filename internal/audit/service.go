package audit

import (
	"encoding/json"

	"billing-backend/internal/database"
	"billing-backend/internal/logger"
	"billing-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Snapshot    any
}

// WriteLog appends an audit row. Audit failures are logged but never fail the
// business operation that triggered them.
func WriteLog(opts LogOptions) {
	snapshot := "null"
	if opts.Snapshot != nil {
		if b, err := json.Marshal(opts.Snapshot); err == nil {
			snapshot = string(b)
		}
	}

	entry := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		Snapshot:    snapshot,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		auditlog := logger.WithComponent("audit")
		auditlog.Error().Err(err).
			Str("entity_type", opts.EntityType).
			Uint("entity_id", opts.EntityID).
			Msg("could not write audit log")
	}
}
