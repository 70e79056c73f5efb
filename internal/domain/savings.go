package domain

import (
	"time"

	"github.com/google/uuid"
)

type SavingsStatus string

const (
	SavingsStatusActive  SavingsStatus = "active"
	SavingsStatusMatured SavingsStatus = "matured"
	SavingsStatusClosed  SavingsStatus = "closed"
)

// SavingsDetail is the detail record attached to a savings account at
// opening time.
type SavingsDetail struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	UserID     uuid.UUID
	Goal       string
	TermMonths int
	Notes      string
	Status     SavingsStatus
	CreatedAt  time.Time
}
