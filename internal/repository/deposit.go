package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mbella-dev/bankcore/internal/domain"
)

type DepositRepository struct {
	db *sql.DB
}

func NewDepositRepository(db *sql.DB) *DepositRepository {
	return &DepositRepository{db: db}
}

func (r *DepositRepository) Create(ctx context.Context, tx *sql.Tx, d *domain.Deposit) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO deposits (
			id, account_id, transaction_id, user_id, full_name, email, phone,
			amount, deposit_method, reference_number, description, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		d.ID, d.AccountID, d.TransactionID, d.UserID, d.FullName, d.Email, d.Phone,
		d.Amount, d.Method, d.ReferenceNumber, d.Description, d.Status, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}
