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
	"github.com/mbella-dev/bankcore/internal/service/identity"
)

type DepositRequest struct {
	Actor         Actor
	FullName      string
	Email         string
	Phone         string
	AccountNumber string
	Amount        decimal.Decimal
	Method        string
	Description   string
}

type DepositReceipt struct {
	ReferenceNumber string
	AccountNumber   string
	Amount          decimal.Decimal
	ProvisionedUser bool
	Timestamp       time.Time
}

func (req DepositRequest) validate() error {
	for _, f := range []struct{ name, value string }{
		{"full_name", req.FullName},
		{"email", req.Email},
		{"phone", req.Phone},
		{"account_number", req.AccountNumber},
		{"deposit_method", req.Method},
	} {
		if err := requireField(f.name, f.value); err != nil {
			return err
		}
	}
	return requirePositive(req.Amount)
}

// Deposit credits an account and records one completed deposit transaction
// plus its detail row in a single unit of work. The depositor is resolved by
// email and provisioned when unknown.
func (s *Service) Deposit(ctx context.Context, req DepositRequest) (*DepositReceipt, error) {
	log := logging.FromContext(ctx)

	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}

	account, err := s.accounts.GetByNumber(ctx, req.AccountNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("Deposit: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("Deposit: %w", err)
	}

	ref, err := s.refs.Generate(refPrefixDeposit)
	if err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Deposit: begin tx: %w", err)
	}
	defer tx.Rollback()

	locked, err := s.accounts.GetForUpdate(ctx, tx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}
	if err := verifyAccountOpen(locked, "account"); err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}

	now := time.Now().UTC()
	description := req.Description
	if description == "" {
		description = "Deposit"
	}

	txn := &domain.Transaction{
		ID:              uuid.New(),
		AccountID:       locked.ID,
		Type:            domain.TransactionTypeDeposit,
		Amount:          req.Amount,
		Description:     description,
		ReferenceNumber: ref,
		Status:          domain.TransactionStatusCompleted,
		CreatedAt:       now,
	}
	if err := s.transactions.Create(ctx, tx, txn); err != nil {
		return nil, fmt.Errorf("Deposit: record transaction: %w", err)
	}

	res, err := s.identity.ResolveOrProvision(ctx, tx, identity.Profile{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}

	dep := &domain.Deposit{
		ID:              uuid.New(),
		AccountID:       locked.ID,
		TransactionID:   txn.ID,
		UserID:          res.User.ID,
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		Amount:          req.Amount,
		Method:          req.Method,
		ReferenceNumber: ref,
		Description:     req.Description,
		Status:          domain.TransactionStatusCompleted,
		CreatedAt:       now,
	}
	if err := s.deposits.Create(ctx, tx, dep); err != nil {
		return nil, fmt.Errorf("Deposit: record detail: %w", err)
	}

	newBalance := locked.Balance.Add(req.Amount)
	if err := s.accounts.UpdateBalance(ctx, tx, locked.ID, newBalance, locked.Version+1); err != nil {
		return nil, fmt.Errorf("Deposit: update balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Deposit: commit: %w", err)
	}

	s.audit.Record(ctx, "deposit_created", "deposits", dep.ID, req.Actor.Label(),
		fmt.Sprintf("Deposit of %s %s from %s - Reference: %s",
			req.Amount, locked.Currency, req.FullName, ref))

	log.Info("deposit completed",
		"account_id", locked.ID,
		"amount", req.Amount,
		"reference", ref,
		"provisioned_user", res.Provisioned,
	)

	return &DepositReceipt{
		ReferenceNumber: ref,
		AccountNumber:   locked.AccountNumber,
		Amount:          req.Amount,
		ProvisionedUser: res.Provisioned,
		Timestamp:       now,
	}, nil
}
