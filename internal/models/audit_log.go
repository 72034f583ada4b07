package models

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AuditLog is an append-only record of a ledger mutation. Audit writes
// happen after the mutating transaction committed and never fail the
// request, a lost audit row is logged and swallowed.
type AuditLog struct {
	DefaultModel
	Event      string         `json:"event" example:"expenditure.approved"`
	EntityType string         `json:"entityType" example:"expenditure"`
	EntityID   uuid.UUID      `json:"entityId"`
	ActorID    uuid.UUID      `json:"actorId"`
	ActorName  string         `json:"actorName"`
	ActorRole  string         `json:"actorRole" example:"principal"`
	Snapshot   map[string]any `gorm:"serializer:json" json:"snapshot"`
}

// RecordAudit persists an audit entry on a best effort basis.
func RecordAudit(entry AuditLog) {
	err := DB.Create(&entry).Error
	if err != nil {
		log.Warn().Err(err).Str("event", entry.Event).Msg("audit entry dropped")
	}
}

// AuditTrail lists audit entries for one entity, newest first.
func AuditTrail(entityID uuid.UUID) ([]AuditLog, error) {
	var entries []AuditLog
	err := DB.Where("entity_id = ?", entityID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}
