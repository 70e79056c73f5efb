package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mbella-dev/bankcore/internal/domain"
)

type MobileTransferRepository struct {
	db *sql.DB
}

func NewMobileTransferRepository(db *sql.DB) *MobileTransferRepository {
	return &MobileTransferRepository{db: db}
}

// Create is a single insert; mobile transfers never join a multi-row unit of
// work because they touch no balance.
func (r *MobileTransferRepository) Create(ctx context.Context, m *domain.MobileTransfer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO mobile_transfers (
			id, sender_name, sender_phone, recipient_name, recipient_phone,
			provider, amount, reference_number, notes, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.SenderName, m.SenderPhone, m.RecipientName, m.RecipientPhone,
		m.Provider, m.Amount, m.ReferenceNumber, m.Notes, m.Status, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}
