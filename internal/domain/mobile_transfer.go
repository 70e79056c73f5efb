package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MobileTransfer records a mobile-money payout request. Settlement happens
// off-platform, so the row never touches any account balance.
type MobileTransfer struct {
	ID              uuid.UUID
	SenderName      string
	SenderPhone     string
	RecipientName   string
	RecipientPhone  string
	Provider        string
	Amount          decimal.Decimal
	ReferenceNumber string
	Notes           string
	Status          TransactionStatus
	CreatedAt       time.Time
}
