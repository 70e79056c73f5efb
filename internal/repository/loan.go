package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mbella-dev/bankcore/internal/domain"
)

const loanColumns = `id, user_id, account_id, loan_amount, loan_purpose,
	interest_rate, term_months, monthly_payment, employment_status,
	monthly_income, additional_info, status, created_at`

type LoanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

func (r *LoanRepository) Create(ctx context.Context, l *domain.LoanRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO loan_requests (
			id, user_id, account_id, loan_amount, loan_purpose,
			interest_rate, term_months, monthly_payment, employment_status,
			monthly_income, additional_info, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		l.ID, l.UserID, l.AccountID, l.Amount, l.Purpose,
		l.InterestRate, l.TermMonths, l.MonthlyPayment, l.EmploymentStatus,
		l.MonthlyIncome, l.AdditionalInfo, l.Status, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *LoanRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.LoanRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+loanColumns+` FROM loan_requests
		WHERE user_id = $1 ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	defer rows.Close()

	var loans []domain.LoanRequest
	for rows.Next() {
		var l domain.LoanRequest
		err := rows.Scan(
			&l.ID, &l.UserID, &l.AccountID, &l.Amount, &l.Purpose,
			&l.InterestRate, &l.TermMonths, &l.MonthlyPayment, &l.EmploymentStatus,
			&l.MonthlyIncome, &l.AdditionalInfo, &l.Status, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("GetByUserID: scan: %w", err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByUserID: rows: %w", err)
	}
	return loans, nil
}
