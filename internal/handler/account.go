package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbella-dev/bankcore/internal/domain"
)

type accountByNumberGetter interface {
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
}

type transactionLister interface {
	GetByAccountID(ctx context.Context, accountID uuid.UUID, typeFilter domain.TransactionType, limit, offset int) ([]domain.Transaction, int, error)
}

type AccountHandler struct {
	accounts     accountByNumberGetter
	transactions transactionLister
}

func NewAccountHandler(accounts accountByNumberGetter, transactions transactionLister) *AccountHandler {
	return &AccountHandler{accounts: accounts, transactions: transactions}
}

type accountResponse struct {
	Success       bool            `json:"success"`
	AccountNumber string          `json:"account_number"`
	AccountType   string          `json:"account_type"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"created_at"`
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")
	if number == "" {
		RespondAppError(w, ErrInvalidRequest)
		return
	}

	account, err := h.accounts.GetByNumber(r.Context(), number)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, accountResponse{
		Success:       true,
		AccountNumber: account.AccountNumber,
		AccountType:   string(account.AccountType),
		Balance:       account.Balance,
		Currency:      account.Currency,
		Status:        string(account.Status),
		CreatedAt:     account.CreatedAt.Format(time.RFC3339),
	})
}

type transactionResponse struct {
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	ReferenceNumber string          `json:"reference_number"`
	Status          string          `json:"status"`
	CreatedAt       string          `json:"created_at"`
}

type transactionListResponse struct {
	Success      bool                  `json:"success"`
	Total        int                   `json:"total"`
	Transactions []transactionResponse `json:"transactions"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (h *AccountHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")
	if number == "" {
		RespondAppError(w, ErrInvalidRequest)
		return
	}

	limit := parseQueryInt(r, "limit", defaultPageSize)
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := parseQueryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	typeFilter := domain.TransactionType(r.URL.Query().Get("type"))
	if typeFilter != "" && !typeFilter.IsValid() {
		RespondValidationError(w, []FieldError{
			{"type", "must be one of deposit, withdrawal, transfer"},
		})
		return
	}

	account, err := h.accounts.GetByNumber(r.Context(), number)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	txns, total, err := h.transactions.GetByAccountID(r.Context(), account.ID, typeFilter, limit, offset)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	items := make([]transactionResponse, 0, len(txns))
	for _, t := range txns {
		items = append(items, transactionResponse{
			Type:            string(t.Type),
			Amount:          t.Amount,
			Description:     t.Description,
			ReferenceNumber: t.ReferenceNumber,
			Status:          string(t.Status),
			CreatedAt:       t.CreatedAt.Format(time.RFC3339),
		})
	}

	RespondJSON(w, http.StatusOK, transactionListResponse{
		Success:      true,
		Total:        total,
		Transactions: items,
	})
}

func parseQueryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
