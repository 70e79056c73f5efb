package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mbella-dev/bankcore/internal/domain"
)

type RemittanceRepository struct {
	db *sql.DB
}

func NewRemittanceRepository(db *sql.DB) *RemittanceRepository {
	return &RemittanceRepository{db: db}
}

func (r *RemittanceRepository) Create(ctx context.Context, tx *sql.Tx, rem *domain.Remittance) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO remittances (
			id, account_id, recipient_name, recipient_phone, recipient_country,
			send_amount, recipient_currency, fee_amount, reference_number,
			purpose, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rem.ID, rem.AccountID, rem.RecipientName, rem.RecipientPhone, rem.RecipientCountry,
		rem.SendAmount, rem.RecipientCurrency, rem.FeeAmount, rem.ReferenceNumber,
		rem.Purpose, rem.Status, rem.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}
