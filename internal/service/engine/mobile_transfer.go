package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbella-dev/bankcore/internal/domain"
	"github.com/mbella-dev/bankcore/internal/logging"
)

type MobileTransferRequest struct {
	Actor          Actor
	SenderName     string
	SenderPhone    string
	RecipientName  string
	RecipientPhone string
	Provider       string
	Amount         decimal.Decimal
	Notes          string
}

type MobileTransferReceipt struct {
	ReferenceNumber string
	Amount          decimal.Decimal
	Provider        string
	Timestamp       time.Time
}

func (req MobileTransferRequest) validate() error {
	for _, f := range []struct{ name, value string }{
		{"sender_name", req.SenderName},
		{"sender_phone", req.SenderPhone},
		{"recipient_name", req.RecipientName},
		{"recipient_phone", req.RecipientPhone},
		{"provider", req.Provider},
	} {
		if err := requireField(f.name, f.value); err != nil {
			return err
		}
	}
	return requirePositive(req.Amount)
}

// MobileTransfer records a pending mobile-money payout request. No account
// balance is touched; settlement happens off-platform.
func (s *Service) MobileTransfer(ctx context.Context, req MobileTransferRequest) (*MobileTransferReceipt, error) {
	log := logging.FromContext(ctx)

	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("MobileTransfer: %w", err)
	}

	ref, err := s.refs.Generate(refPrefixMobileTransfer)
	if err != nil {
		return nil, fmt.Errorf("MobileTransfer: %w", err)
	}

	now := time.Now().UTC()
	m := &domain.MobileTransfer{
		ID:              uuid.New(),
		SenderName:      req.SenderName,
		SenderPhone:     req.SenderPhone,
		RecipientName:   req.RecipientName,
		RecipientPhone:  req.RecipientPhone,
		Provider:        req.Provider,
		Amount:          req.Amount,
		ReferenceNumber: ref,
		Notes:           req.Notes,
		Status:          domain.TransactionStatusPending,
		CreatedAt:       now,
	}
	if err := s.mobileTransfers.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("MobileTransfer: %w", err)
	}

	s.audit.Record(ctx, "mobile_transfer_created", "mobile_transfers", m.ID, req.Actor.Label(),
		fmt.Sprintf("Mobile transfer of %s %s to %s via %s - Reference: %s",
			req.Amount, domain.DefaultCurrency, req.RecipientPhone, req.Provider, ref))

	log.Info("mobile transfer submitted",
		"provider", req.Provider,
		"amount", req.Amount,
		"reference", ref,
	)

	return &MobileTransferReceipt{
		ReferenceNumber: ref,
		Amount:          req.Amount,
		Provider:        req.Provider,
		Timestamp:       now,
	}, nil
}
