package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mbella-dev/bankcore/internal/domain"
)

type SavingsRepository struct {
	db *sql.DB
}

func NewSavingsRepository(db *sql.DB) *SavingsRepository {
	return &SavingsRepository{db: db}
}

func (r *SavingsRepository) Create(ctx context.Context, tx *sql.Tx, s *domain.SavingsDetail) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO savings_accounts (
			id, account_id, user_id, savings_goal, term_months, notes, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.AccountID, s.UserID, s.Goal, s.TermMonths, s.Notes, s.Status, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}
