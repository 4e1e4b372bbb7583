package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// AuditLog records mutations on invoices and payments: who did what to which
// record, with a JSON snapshot of the entity at that point.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID   uint   `json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"` // denormalized for display

	EntityType string `gorm:"size:50;index" json:"entity_type"` // "invoice" | "payment"
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action      AuditAction `gorm:"size:20" json:"action"`
	Description string      `gorm:"size:255" json:"description"`

	// Entity state as JSON; for deletes this is the record that was removed.
	Snapshot string `gorm:"type:jsonb" json:"snapshot"`
}
