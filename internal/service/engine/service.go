// Package engine is the money movement engine: validated, atomic, auditable
// mutations of account balances and transaction records. Every operation
// follows the same shape: validate, resolve accounts under lock, check
// domain invariants, mutate, audit, return a receipt.
package engine

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbella-dev/bankcore/internal/domain"
	"github.com/mbella-dev/bankcore/internal/service/identity"
)

// Business constants carried over from the product rules. Deliberately not
// configuration: no per-tier mechanism exists yet.
var (
	remittanceFeeRate = decimal.NewFromFloat(0.05)
	minLoanAmount     = decimal.NewFromInt(1000)
)

const (
	minLoanTermMonths = 1
	maxLoanTermMonths = 60
)

// Reference prefixes per operation family.
const (
	refPrefixDeposit        = "DEP"
	refPrefixTransfer       = "TRF"
	refPrefixRemittance     = "REM"
	refPrefixSavings        = "SAV"
	refPrefixMobileTransfer = "MOB"
)

// Actor identifies who invoked an operation. It is always supplied by the
// caller, never read from ambient state.
type Actor struct {
	UserID uuid.UUID
	Email  string
}

// Label renders the actor for audit records.
func (a Actor) Label() string {
	if a.UserID != uuid.Nil {
		return "user:" + a.UserID.String()
	}
	if a.Email != "" {
		return "guest:" + a.Email
	}
	return "anonymous"
}

type accountRepo interface {
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal, newVersion int64) error
	CreateTx(ctx context.Context, tx *sql.Tx, account *domain.Account) error
}

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type transactionRepo interface {
	Create(ctx context.Context, tx *sql.Tx, txn *domain.Transaction) error
}

type depositRepo interface {
	Create(ctx context.Context, tx *sql.Tx, d *domain.Deposit) error
}

type remittanceRepo interface {
	Create(ctx context.Context, tx *sql.Tx, rem *domain.Remittance) error
}

type mobileTransferRepo interface {
	Create(ctx context.Context, m *domain.MobileTransfer) error
}

type savingsRepo interface {
	Create(ctx context.Context, tx *sql.Tx, s *domain.SavingsDetail) error
}

type loanRepo interface {
	Create(ctx context.Context, l *domain.LoanRequest) error
}

type identityResolver interface {
	ResolveOrProvision(ctx context.Context, tx *sql.Tx, p identity.Profile) (*identity.Resolution, error)
}

type referenceGenerator interface {
	Generate(prefix string) (string, error)
	AccountNumber(prefix string) (string, error)
}

type auditRecorder interface {
	Record(ctx context.Context, action, subjectTable string, subjectID uuid.UUID, actor, detail string)
}

type Service struct {
	accounts        accountRepo
	users           userRepo
	transactions    transactionRepo
	deposits        depositRepo
	remittances     remittanceRepo
	mobileTransfers mobileTransferRepo
	savings         savingsRepo
	loans           loanRepo
	identity        identityResolver
	refs            referenceGenerator
	audit           auditRecorder
	db              *sql.DB
}

func NewService(
	accounts accountRepo,
	users userRepo,
	transactions transactionRepo,
	deposits depositRepo,
	remittances remittanceRepo,
	mobileTransfers mobileTransferRepo,
	savings savingsRepo,
	loans loanRepo,
	resolver identityResolver,
	refs referenceGenerator,
	audit auditRecorder,
	db *sql.DB,
) *Service {
	return &Service{
		accounts:        accounts,
		users:           users,
		transactions:    transactions,
		deposits:        deposits,
		remittances:     remittances,
		mobileTransfers: mobileTransfers,
		savings:         savings,
		loans:           loans,
		identity:        resolver,
		refs:            refs,
		audit:           audit,
		db:              db,
	}
}

func requireField(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s: %w", name, domain.ErrMissingField)
	}
	return nil
}

func requirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	return nil
}

func verifyAccountOpen(a *domain.Account, role string) error {
	switch a.Status {
	case domain.AccountStatusSuspended:
		return fmt.Errorf("%s: %w", role, domain.ErrAccountSuspended)
	case domain.AccountStatusClosed:
		return fmt.Errorf("%s: %w", role, domain.ErrAccountClosed)
	}
	return nil
}
