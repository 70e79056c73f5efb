package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mbella-dev/bankcore/internal/domain"
)

const transactionColumns = `id, account_id, transaction_type, amount,
	description, reference_number, status, created_at`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *sql.Tx, txn *domain.Transaction) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (
			id, account_id, transaction_type, amount,
			description, reference_number, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		txn.ID, txn.AccountID, txn.Type, txn.Amount,
		txn.Description, txn.ReferenceNumber, txn.Status, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// GetByAccountID pages through an account's history, newest first. An empty
// typeFilter returns every transaction type.
func (r *TransactionRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, typeFilter domain.TransactionType, limit, offset int) ([]domain.Transaction, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions
		WHERE account_id = $1 AND ($2 = '' OR transaction_type = $2)`,
		accountID, typeFilter,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("GetByAccountID: count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE account_id = $1 AND ($2 = '' OR transaction_type = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		accountID, typeFilter, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("GetByAccountID: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("GetByAccountID: scan: %w", err)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("GetByAccountID: rows: %w", err)
	}
	return txns, total, nil
}

// GetByReferencePrefix returns all rows whose reference starts with the given
// base reference, e.g. both legs of a transfer.
func (r *TransactionRepository) GetByReferencePrefix(ctx context.Context, base string) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE reference_number LIKE $1 || '%' ORDER BY created_at`, base,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByReferencePrefix: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("GetByReferencePrefix: scan: %w", err)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByReferencePrefix: rows: %w", err)
	}
	return txns, nil
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := s.Scan(
		&t.ID, &t.AccountID, &t.Type, &t.Amount,
		&t.Description, &t.ReferenceNumber, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
