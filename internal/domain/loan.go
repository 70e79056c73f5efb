package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanStatusPending  LoanStatus = "pending"
	LoanStatusApproved LoanStatus = "approved"
	LoanStatusRejected LoanStatus = "rejected"
)

// LoanRequest records a loan application. InterestRate and MonthlyPayment
// are zero at creation; an external approval workflow fills them in.
type LoanRequest struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	AccountID        uuid.UUID
	Amount           decimal.Decimal
	Purpose          string
	InterestRate     decimal.Decimal
	TermMonths       int
	MonthlyPayment   decimal.Decimal
	EmploymentStatus string
	MonthlyIncome    decimal.Decimal
	AdditionalInfo   string
	Status           LoanStatus
	CreatedAt        time.Time
}
