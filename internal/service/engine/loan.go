package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbella-dev/bankcore/internal/domain"
	"github.com/mbella-dev/bankcore/internal/logging"
)

type LoanApplicationRequest struct {
	// Actor must carry the authenticated applicant's user id.
	Actor            Actor
	AccountNumber    string
	Amount           decimal.Decimal
	Purpose          string
	TermMonths       int
	EmploymentStatus string
	MonthlyIncome    decimal.Decimal
	AdditionalInfo   string
}

type LoanApplicationReceipt struct {
	LoanID    uuid.UUID
	Status    domain.LoanStatus
	Timestamp time.Time
}

func (req LoanApplicationRequest) validate() error {
	for _, f := range []struct{ name, value string }{
		{"account_number", req.AccountNumber},
		{"loan_purpose", req.Purpose},
		{"employment_status", req.EmploymentStatus},
	} {
		if err := requireField(f.name, f.value); err != nil {
			return err
		}
	}
	if !req.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if req.Amount.LessThan(minLoanAmount) {
		return domain.ErrLoanAmountTooLow
	}
	if req.TermMonths < minLoanTermMonths || req.TermMonths > maxLoanTermMonths {
		return domain.ErrInvalidTerm
	}
	if !req.MonthlyIncome.IsPositive() {
		return fmt.Errorf("monthly_income: %w", domain.ErrMissingField)
	}
	return nil
}

// LoanApplication records a pending loan request for the authenticated user.
// Interest rate and monthly payment stay zero until an external approval
// workflow fills them in. No balance effect.
func (s *Service) LoanApplication(ctx context.Context, req LoanApplicationRequest) (*LoanApplicationReceipt, error) {
	log := logging.FromContext(ctx)

	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("LoanApplication: %w", err)
	}

	user, err := s.users.GetByID(ctx, req.Actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("LoanApplication: %w", domain.ErrUserNotFound)
		}
		return nil, fmt.Errorf("LoanApplication: %w", err)
	}

	account, err := s.accounts.GetByNumber(ctx, req.AccountNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("LoanApplication: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("LoanApplication: %w", err)
	}
	if account.UserID != user.ID {
		return nil, fmt.Errorf("LoanApplication: %w", domain.ErrAccountMismatch)
	}

	now := time.Now().UTC()
	loan := &domain.LoanRequest{
		ID:               uuid.New(),
		UserID:           user.ID,
		AccountID:        account.ID,
		Amount:           req.Amount,
		Purpose:          req.Purpose,
		InterestRate:     decimal.Zero,
		TermMonths:       req.TermMonths,
		MonthlyPayment:   decimal.Zero,
		EmploymentStatus: req.EmploymentStatus,
		MonthlyIncome:    req.MonthlyIncome,
		AdditionalInfo:   req.AdditionalInfo,
		Status:           domain.LoanStatusPending,
		CreatedAt:        now,
	}
	if err := s.loans.Create(ctx, loan); err != nil {
		return nil, fmt.Errorf("LoanApplication: %w", err)
	}

	s.audit.Record(ctx, "loan_request_created", "loan_requests", loan.ID, req.Actor.Label(),
		fmt.Sprintf("Loan request of %s %s over %d months for %s",
			req.Amount, account.Currency, req.TermMonths, req.Purpose))

	log.Info("loan request submitted",
		"loan_id", loan.ID,
		"account_id", account.ID,
		"amount", req.Amount,
		"term_months", req.TermMonths,
	)

	return &LoanApplicationReceipt{
		LoanID:    loan.ID,
		Status:    loan.Status,
		Timestamp: now,
	}, nil
}
