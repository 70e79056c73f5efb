package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbella-dev/bankcore/internal/domain"
	"github.com/mbella-dev/bankcore/internal/logging"
	"github.com/mbella-dev/bankcore/internal/service/identity"
)

type SavingsOpenRequest struct {
	Actor         Actor
	FullName      string
	Email         string
	Phone         string
	InitialAmount decimal.Decimal
	TermMonths    int
	Goal          string
	Notes         string
}

type SavingsOpenReceipt struct {
	AccountNumber   string
	ReferenceNumber string
	InitialDeposit  decimal.Decimal
	ProvisionedUser bool
	Timestamp       time.Time
}

func (req SavingsOpenRequest) validate() error {
	for _, f := range []struct{ name, value string }{
		{"full_name", req.FullName},
		{"email", req.Email},
		{"phone", req.Phone},
	} {
		if err := requireField(f.name, f.value); err != nil {
			return err
		}
	}
	return requirePositive(req.InitialAmount)
}

// SavingsAccountOpen provisions the owner when needed, creates a new savings
// account carrying the opening balance, and records the companion deposit
// transaction and detail row in one unit of work. The opening balance is not
// a debit from any other account.
func (s *Service) SavingsAccountOpen(ctx context.Context, req SavingsOpenRequest) (*SavingsOpenReceipt, error) {
	log := logging.FromContext(ctx)

	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("SavingsAccountOpen: %w", err)
	}

	accountNumber, err := s.refs.AccountNumber(refPrefixSavings)
	if err != nil {
		return nil, fmt.Errorf("SavingsAccountOpen: %w", err)
	}
	ref, err := s.refs.Generate(refPrefixSavings)
	if err != nil {
		return nil, fmt.Errorf("SavingsAccountOpen: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("SavingsAccountOpen: begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := s.identity.ResolveOrProvision(ctx, tx, identity.Profile{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		return nil, fmt.Errorf("SavingsAccountOpen: %w", err)
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:            uuid.New(),
		UserID:        res.User.ID,
		AccountNumber: accountNumber,
		AccountType:   domain.AccountTypeSavings,
		Balance:       req.InitialAmount,
		Currency:      domain.DefaultCurrency,
		Status:        domain.AccountStatusActive,
		Version:       1,
		CreatedAt:     now,
	}
	if err := s.accounts.CreateTx(ctx, tx, account); err != nil {
		return nil, fmt.Errorf("SavingsAccountOpen: create account: %w", err)
	}

	goal := req.Goal
	if goal == "" {
		goal = "General Savings"
	}

	txn := &domain.Transaction{
		ID:              uuid.New(),
		AccountID:       account.ID,
		Type:            domain.TransactionTypeDeposit,
		Amount:          req.InitialAmount,
		Description:     "Initial savings deposit - Goal: " + goal,
		ReferenceNumber: ref,
		Status:          domain.TransactionStatusCompleted,
		CreatedAt:       now,
	}
	if err := s.transactions.Create(ctx, tx, txn); err != nil {
		return nil, fmt.Errorf("SavingsAccountOpen: record transaction: %w", err)
	}

	detail := &domain.SavingsDetail{
		ID:         uuid.New(),
		AccountID:  account.ID,
		UserID:     res.User.ID,
		Goal:       req.Goal,
		TermMonths: req.TermMonths,
		Notes:      req.Notes,
		Status:     domain.SavingsStatusActive,
		CreatedAt:  now,
	}
	if err := s.savings.Create(ctx, tx, detail); err != nil {
		return nil, fmt.Errorf("SavingsAccountOpen: record detail: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("SavingsAccountOpen: commit: %w", err)
	}

	s.audit.Record(ctx, "savings_account_opened", "accounts", account.ID, req.Actor.Label(),
		fmt.Sprintf("Savings account %s opened for %s with initial deposit of %s %s",
			accountNumber, req.FullName, req.InitialAmount, account.Currency))

	log.Info("savings account opened",
		"account_id", account.ID,
		"account_number", accountNumber,
		"initial_deposit", req.InitialAmount,
		"provisioned_user", res.Provisioned,
	)

	return &SavingsOpenReceipt{
		AccountNumber:   accountNumber,
		ReferenceNumber: ref,
		InitialDeposit:  req.InitialAmount,
		ProvisionedUser: res.Provisioned,
		Timestamp:       now,
	}, nil
}
