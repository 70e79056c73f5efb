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

type RemittanceRequest struct {
	Actor             Actor
	SenderName        string
	SenderAccount     string
	RecipientName     string
	RecipientPhone    string
	RecipientCountry  string
	SendAmount        decimal.Decimal
	RecipientCurrency string
	Purpose           string
}

type RemittanceReceipt struct {
	ReferenceNumber string
	SendAmount      decimal.Decimal
	Fee             decimal.Decimal
	TotalDeduction  decimal.Decimal
	Timestamp       time.Time
}

func (req RemittanceRequest) validate() error {
	for _, f := range []struct{ name, value string }{
		{"sender_name", req.SenderName},
		{"sender_account", req.SenderAccount},
		{"recipient_name", req.RecipientName},
		{"recipient_phone", req.RecipientPhone},
		{"recipient_country", req.RecipientCountry},
		{"recipient_currency", req.RecipientCurrency},
	} {
		if err := requireField(f.name, f.value); err != nil {
			return err
		}
	}
	return requirePositive(req.SendAmount)
}

// RemittanceFee returns the fee charged on top of the send amount.
func RemittanceFee(sendAmount decimal.Decimal) decimal.Decimal {
	return sendAmount.Mul(remittanceFeeRate).Round(2)
}

// Remittance debits the sender for the send amount plus fee and records the
// cross-border leg as a pending detail row. The debit transaction completes
// immediately; settlement of the remittance itself is an external process.
func (s *Service) Remittance(ctx context.Context, req RemittanceRequest) (*RemittanceReceipt, error) {
	log := logging.FromContext(ctx)

	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("Remittance: %w", err)
	}

	sender, err := s.accounts.GetByNumber(ctx, req.SenderAccount)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("Remittance: sender: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("Remittance: %w", err)
	}

	fee := RemittanceFee(req.SendAmount)
	total := req.SendAmount.Add(fee)

	ref, err := s.refs.Generate(refPrefixRemittance)
	if err != nil {
		return nil, fmt.Errorf("Remittance: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Remittance: begin tx: %w", err)
	}
	defer tx.Rollback()

	locked, err := s.accounts.GetForUpdate(ctx, tx, sender.ID)
	if err != nil {
		return nil, fmt.Errorf("Remittance: %w", err)
	}
	if err := verifyAccountOpen(locked, "sender"); err != nil {
		return nil, fmt.Errorf("Remittance: %w", err)
	}

	if locked.Balance.LessThan(total) {
		return nil, fmt.Errorf("Remittance: %w", domain.ErrInsufficientFunds)
	}

	now := time.Now().UTC()

	rem := &domain.Remittance{
		ID:                uuid.New(),
		AccountID:         locked.ID,
		RecipientName:     req.RecipientName,
		RecipientPhone:    req.RecipientPhone,
		RecipientCountry:  req.RecipientCountry,
		SendAmount:        req.SendAmount,
		RecipientCurrency: req.RecipientCurrency,
		FeeAmount:         fee,
		ReferenceNumber:   ref,
		Purpose:           req.Purpose,
		Status:            domain.TransactionStatusPending,
		CreatedAt:         now,
	}
	if err := s.remittances.Create(ctx, tx, rem); err != nil {
		return nil, fmt.Errorf("Remittance: record detail: %w", err)
	}

	txn := &domain.Transaction{
		ID:        uuid.New(),
		AccountID: locked.ID,
		Type:      domain.TransactionTypeTransfer,
		Amount:    total,
		Description: fmt.Sprintf("International remittance to %s in %s (Fee: %s %s)",
			req.RecipientName, req.RecipientCountry, fee, locked.Currency),
		ReferenceNumber: ref,
		Status:          domain.TransactionStatusCompleted,
		CreatedAt:       now,
	}
	if err := s.transactions.Create(ctx, tx, txn); err != nil {
		return nil, fmt.Errorf("Remittance: record transaction: %w", err)
	}

	if err := s.accounts.UpdateBalance(ctx, tx, locked.ID,
		locked.Balance.Sub(total), locked.Version+1); err != nil {
		return nil, fmt.Errorf("Remittance: debit sender: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Remittance: commit: %w", err)
	}

	s.audit.Record(ctx, "remittance_created", "remittances", rem.ID, req.Actor.Label(),
		fmt.Sprintf("Remittance of %s %s to %s in %s - Reference: %s",
			req.SendAmount, locked.Currency, req.RecipientName, req.RecipientCountry, ref))

	log.Info("remittance submitted",
		"sender_account", locked.ID,
		"send_amount", req.SendAmount,
		"fee", fee,
		"total_deduction", total,
		"reference", ref,
	)

	return &RemittanceReceipt{
		ReferenceNumber: ref,
		SendAmount:      req.SendAmount,
		Fee:             fee,
		TotalDeduction:  total,
		Timestamp:       now,
	}, nil
}
