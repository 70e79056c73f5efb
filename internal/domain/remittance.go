package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Remittance is the detail record for an international transfer. The sender's
// debit transaction completes immediately; the remittance itself stays
// pending until an external settlement process picks it up.
type Remittance struct {
	ID                uuid.UUID
	AccountID         uuid.UUID
	RecipientName     string
	RecipientPhone    string
	RecipientCountry  string
	SendAmount        decimal.Decimal
	RecipientCurrency string
	FeeAmount         decimal.Decimal
	ReferenceNumber   string
	Purpose           string
	Status            TransactionStatus
	CreatedAt         time.Time
}
