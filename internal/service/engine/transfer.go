package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbella-dev/bankcore/internal/domain"
	"github.com/mbella-dev/bankcore/internal/logging"
)

type TransferRequest struct {
	Actor            Actor
	SenderName       string
	SenderAccount    string
	RecipientName    string
	RecipientAccount string
	Amount           decimal.Decimal
	Description      string
}

type TransferReceipt struct {
	ReferenceNumber string
	Amount          decimal.Decimal
	Timestamp       time.Time
}

func (req TransferRequest) validate() error {
	for _, f := range []struct{ name, value string }{
		{"sender_name", req.SenderName},
		{"sender_account", req.SenderAccount},
		{"recipient_name", req.RecipientName},
		{"recipient_account", req.RecipientAccount},
	} {
		if err := requireField(f.name, f.value); err != nil {
			return err
		}
	}
	return requirePositive(req.Amount)
}

// Transfer moves funds between two internal accounts. Both legs are written
// in one unit of work: the sufficiency check runs on the sender's balance
// re-read under lock, and either both legs persist or neither does.
func (s *Service) Transfer(ctx context.Context, req TransferRequest) (*TransferReceipt, error) {
	log := logging.FromContext(ctx)

	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	sender, err := s.accounts.GetByNumber(ctx, req.SenderAccount)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("Transfer: sender: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	recipient, err := s.accounts.GetByNumber(ctx, req.RecipientAccount)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("Transfer: %w", domain.ErrRecipientNotFound)
		}
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	if sender.ID == recipient.ID {
		return nil, fmt.Errorf("Transfer: %w", domain.ErrSelfTransfer)
	}

	baseRef, err := s.refs.Generate(refPrefixTransfer)
	if err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Transfer: begin tx: %w", err)
	}
	defer tx.Rollback()

	locked, err := s.lockAccountsInOrder(ctx, tx, sender.ID, recipient.ID)
	if err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}
	lockedSender, lockedRecipient := locked[sender.ID], locked[recipient.ID]

	if err := verifyAccountOpen(lockedSender, "sender"); err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}
	if err := verifyAccountOpen(lockedRecipient, "recipient"); err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	if lockedSender.Balance.LessThan(req.Amount) {
		return nil, fmt.Errorf("Transfer: %w", domain.ErrInsufficientFunds)
	}

	now := time.Now().UTC()

	outLeg := &domain.Transaction{
		ID:              uuid.New(),
		AccountID:       lockedSender.ID,
		Type:            domain.TransactionTypeTransfer,
		Amount:          req.Amount,
		Description:     legDescription("Transfer to "+req.RecipientName, req.Description),
		ReferenceNumber: baseRef + "-OUT",
		Status:          domain.TransactionStatusCompleted,
		CreatedAt:       now,
	}
	if err := s.transactions.Create(ctx, tx, outLeg); err != nil {
		return nil, fmt.Errorf("Transfer: record debit leg: %w", err)
	}

	inLeg := &domain.Transaction{
		ID:              uuid.New(),
		AccountID:       lockedRecipient.ID,
		Type:            domain.TransactionTypeTransfer,
		Amount:          req.Amount,
		Description:     legDescription("Transfer from "+req.SenderName, req.Description),
		ReferenceNumber: baseRef + "-IN",
		Status:          domain.TransactionStatusCompleted,
		CreatedAt:       now,
	}
	if err := s.transactions.Create(ctx, tx, inLeg); err != nil {
		return nil, fmt.Errorf("Transfer: record credit leg: %w", err)
	}

	if err := s.accounts.UpdateBalance(ctx, tx, lockedSender.ID,
		lockedSender.Balance.Sub(req.Amount), lockedSender.Version+1); err != nil {
		return nil, fmt.Errorf("Transfer: debit sender: %w", err)
	}
	if err := s.accounts.UpdateBalance(ctx, tx, lockedRecipient.ID,
		lockedRecipient.Balance.Add(req.Amount), lockedRecipient.Version+1); err != nil {
		return nil, fmt.Errorf("Transfer: credit recipient: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Transfer: commit: %w", err)
	}

	s.audit.Record(ctx, "transfer_completed", "transactions", outLeg.ID, req.Actor.Label(),
		fmt.Sprintf("Transfer of %s %s from %s to %s - Reference: %s",
			req.Amount, lockedSender.Currency, req.SenderName, req.RecipientName, baseRef))

	log.Info("transfer completed",
		"sender_account", lockedSender.ID,
		"recipient_account", lockedRecipient.ID,
		"amount", req.Amount,
		"reference", baseRef,
	)

	return &TransferReceipt{
		ReferenceNumber: baseRef,
		Amount:          req.Amount,
		Timestamp:       now,
	}, nil
}

func legDescription(prefix, detail string) string {
	if detail == "" {
		return prefix
	}
	return prefix + ": " + detail
}

// lockAccountsInOrder acquires row locks in ascending account-id order so
// two transfers moving funds in opposite directions between the same pair of
// accounts cannot deadlock.
func (s *Service) lockAccountsInOrder(ctx context.Context, tx *sql.Tx, ids ...uuid.UUID) (map[uuid.UUID]*domain.Account, error) {
	sorted := make([]uuid.UUID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	result := make(map[uuid.UUID]*domain.Account, len(ids))
	for _, id := range sorted {
		acct, err := s.accounts.GetForUpdate(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("lockAccountsInOrder: %w", err)
		}
		result[id] = acct
	}
	return result, nil
}
