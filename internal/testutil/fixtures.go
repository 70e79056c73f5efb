package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbella-dev/bankcore/internal/domain"
)

func SeedTestUser(t *testing.T, db *sql.DB, fullName, email, phone string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:           uuid.New(),
		FullName:     fullName,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Status:       domain.UserStatusActive,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO users (id, full_name, email, phone, password_hash, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.FullName, u.Email, u.Phone, u.PasswordHash, u.Status, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test user %s: %v", email, err)
	}
	return u
}

func SeedTestAccount(t *testing.T, db *sql.DB, userID uuid.UUID, accountNumber string, balance decimal.Decimal) *domain.Account {
	t.Helper()

	a := &domain.Account{
		ID:            uuid.New(),
		UserID:        userID,
		AccountNumber: accountNumber,
		AccountType:   domain.AccountTypeChecking,
		Balance:       balance,
		Currency:      domain.DefaultCurrency,
		Status:        domain.AccountStatusActive,
		Version:       1,
		CreatedAt:     time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO accounts (id, user_id, account_number, account_type, balance, currency, status, version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.UserID, a.AccountNumber, a.AccountType, a.Balance, a.Currency, a.Status, a.Version, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test account %s: %v", accountNumber, err)
	}
	return a
}

func GetAccountBalance(t *testing.T, db *sql.DB, accountID uuid.UUID) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get account balance %s: %v", accountID, err)
	}
	return balance
}

func CountTransactions(t *testing.T, db *sql.DB, accountID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		t.Fatalf("count transactions for account %s: %v", accountID, err)
	}
	return count
}

func CountAuditLogs(t *testing.T, db *sql.DB, subjectTable string) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM audit_logs WHERE subject_table = $1`, subjectTable).Scan(&count)
	if err != nil {
		t.Fatalf("count audit logs for %s: %v", subjectTable, err)
	}
	return count
}
