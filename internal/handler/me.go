package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbella-dev/bankcore/internal/auth"
	"github.com/mbella-dev/bankcore/internal/domain"
)

type accountsByUserGetter interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Account, error)
}

type loansByUserGetter interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.LoanRequest, error)
}

// MeHandler serves the authenticated user's own resources.
type MeHandler struct {
	accounts accountsByUserGetter
	loans    loansByUserGetter
}

func NewMeHandler(accounts accountsByUserGetter, loans loansByUserGetter) *MeHandler {
	return &MeHandler{accounts: accounts, loans: loans}
}

type accountItem struct {
	AccountNumber string          `json:"account_number"`
	AccountType   string          `json:"account_type"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"created_at"`
}

type accountListResponse struct {
	Success  bool          `json:"success"`
	Accounts []accountItem `json:"accounts"`
}

func (h *MeHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken)
		return
	}

	typeFilter := domain.AccountType(r.URL.Query().Get("type"))
	if typeFilter != "" && !typeFilter.IsValid() {
		RespondValidationError(w, []FieldError{
			{"type", "must be one of checking, savings, business"},
		})
		return
	}

	accounts, err := h.accounts.GetByUserID(r.Context(), actor.UserID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	items := make([]accountItem, 0, len(accounts))
	for _, a := range accounts {
		if typeFilter != "" && a.AccountType != typeFilter {
			continue
		}
		items = append(items, accountItem{
			AccountNumber: a.AccountNumber,
			AccountType:   string(a.AccountType),
			Balance:       a.Balance,
			Currency:      a.Currency,
			Status:        string(a.Status),
			CreatedAt:     a.CreatedAt.Format(time.RFC3339),
		})
	}

	RespondJSON(w, http.StatusOK, accountListResponse{Success: true, Accounts: items})
}

type loanResponse struct {
	ID               string          `json:"id"`
	Amount           decimal.Decimal `json:"amount"`
	Purpose          string          `json:"purpose"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	TermMonths       int             `json:"term_months"`
	MonthlyPayment   decimal.Decimal `json:"monthly_payment"`
	EmploymentStatus string          `json:"employment_status"`
	Status           string          `json:"status"`
	CreatedAt        string          `json:"created_at"`
}

type loanListResponse struct {
	Success      bool           `json:"success"`
	LoanRequests []loanResponse `json:"loan_requests"`
}

func (h *MeHandler) ListLoanRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken)
		return
	}

	loans, err := h.loans.GetByUserID(r.Context(), actor.UserID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	items := make([]loanResponse, 0, len(loans))
	for _, l := range loans {
		items = append(items, loanResponse{
			ID:               l.ID.String(),
			Amount:           l.Amount,
			Purpose:          l.Purpose,
			InterestRate:     l.InterestRate,
			TermMonths:       l.TermMonths,
			MonthlyPayment:   l.MonthlyPayment,
			EmploymentStatus: l.EmploymentStatus,
			Status:           string(l.Status),
			CreatedAt:        l.CreatedAt.Format(time.RFC3339),
		})
	}

	RespondJSON(w, http.StatusOK, loanListResponse{Success: true, LoanRequests: items})
}
