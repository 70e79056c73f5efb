package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the single unit of account for the ledger.
const DefaultCurrency = "XAF"

type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeBusiness AccountType = "business"
)

func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeBusiness:
		return true
	}
	return false
}

type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusClosed    AccountStatus = "closed"
)

// Account is a ledger account. Balance is mutated only by the money movement
// engine inside a unit of work; every change is paired with a Transaction row.
// Version backs the optimistic guard on balance updates.
type Account struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	AccountNumber string
	AccountType   AccountType
	Balance       decimal.Decimal
	Currency      string
	Status        AccountStatus
	Version       int64
	CreatedAt     time.Time
}
