package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mbella-dev/bankcore/internal/domain"
)

// Result is the envelope returned by every money movement endpoint.
type Result struct {
	Success         bool             `json:"success"`
	Message         string           `json:"message"`
	Code            string           `json:"code,omitempty"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	AccountNumber   string           `json:"account_number,omitempty"`
	Provider        string           `json:"provider,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Fee             *decimal.Decimal `json:"fee,omitempty"`
	TotalDeduction  *decimal.Decimal `json:"total_deduction,omitempty"`
	Timestamp       string           `json:"timestamp,omitempty"`
	Errors          []FieldError     `json:"errors,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondResult(w http.ResponseWriter, status int, res Result) {
	RespondJSON(w, status, res)
}

func RespondAppError(w http.ResponseWriter, appErr *AppError) {
	RespondJSON(w, appErr.Status, Result{
		Success: false,
		Message: appErr.Message,
		Code:    appErr.Code,
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	RespondJSON(w, ErrValidationFailed.Status, Result{
		Success: false,
		Message: ErrValidationFailed.Message,
		Code:    ErrValidationFailed.Code,
		Errors:  fields,
	})
}

func RespondDomainError(w http.ResponseWriter, err error) {
	var appErr *AppError

	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		appErr = ErrAccountNotFound
	case errors.Is(err, domain.ErrRecipientNotFound):
		appErr = ErrRecipientNotFound
	case errors.Is(err, domain.ErrUserNotFound):
		appErr = ErrUserNotFound
	case errors.Is(err, domain.ErrAccountMismatch):
		appErr = ErrAccountMismatch
	case errors.Is(err, domain.ErrInsufficientFunds):
		appErr = ErrInsufficientFunds
	case errors.Is(err, domain.ErrSelfTransfer):
		appErr = ErrSelfTransfer
	case errors.Is(err, domain.ErrAccountSuspended):
		appErr = ErrAccountSuspended
	case errors.Is(err, domain.ErrAccountClosed):
		appErr = ErrAccountClosed
	case errors.Is(err, domain.ErrInvalidAmount):
		appErr = ErrInvalidAmount
	case errors.Is(err, domain.ErrLoanAmountTooLow):
		appErr = ErrLoanAmountTooLow
	case errors.Is(err, domain.ErrInvalidTerm):
		appErr = ErrInvalidTerm
	case errors.Is(err, domain.ErrMissingField):
		appErr = ErrMissingField
	case errors.Is(err, domain.ErrVersionConflict):
		appErr = ErrVersionConflict
	case errors.Is(err, domain.ErrNotFound):
		appErr = ErrResourceNotFound
	default:
		slog.Error("unhandled domain error", "error", err)
		appErr = ErrInternalError
	}

	RespondAppError(w, appErr)
}
