package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only who/what/when record for a mutating call.
type AuditLog struct {
	ID           uuid.UUID
	Action       string
	SubjectTable string
	SubjectID    uuid.UUID
	Actor        string
	Detail       string
	CreatedAt    time.Time
}
