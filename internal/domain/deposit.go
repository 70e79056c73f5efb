package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deposit is the detail record for a deposit transaction. It also captures
// the depositor's contact details because deposits may onboard a new user.
type Deposit struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	TransactionID   uuid.UUID
	UserID          uuid.UUID
	FullName        string
	Email           string
	Phone           string
	Amount          decimal.Decimal
	Method          string
	ReferenceNumber string
	Description     string
	Status          TransactionStatus
	CreatedAt       time.Time
}
