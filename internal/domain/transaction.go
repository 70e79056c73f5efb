package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeTransfer   TransactionType = "transfer"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeTransfer:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is one immutable ledger row. Amount is always positive;
// direction is implied by the type and by paired rows. The two legs of an
// internal transfer share a base reference number with -OUT/-IN suffixes.
type Transaction struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	Type            TransactionType
	Amount          decimal.Decimal
	Description     string
	ReferenceNumber string
	Status          TransactionStatus
	CreatedAt       time.Time
}
