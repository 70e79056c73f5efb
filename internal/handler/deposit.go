package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbella-dev/bankcore/internal/service/engine"
)

type depositService interface {
	Deposit(ctx context.Context, req engine.DepositRequest) (*engine.DepositReceipt, error)
}

type DepositHandler struct {
	service depositService
}

func NewDepositHandler(service depositService) *DepositHandler {
	return &DepositHandler{service: service}
}

type depositRequest struct {
	FullName      string          `json:"full_name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	AccountNumber string          `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
	DepositMethod string          `json:"deposit_method"`
	Description   string          `json:"description"`
}

func (req depositRequest) Validate() []FieldError {
	var errs []FieldError
	if req.FullName == "" {
		errs = append(errs, FieldError{"full_name", "full name is required"})
	}
	if req.Email == "" {
		errs = append(errs, FieldError{"email", "email is required"})
	}
	if req.Phone == "" {
		errs = append(errs, FieldError{"phone", "phone is required"})
	}
	if req.AccountNumber == "" {
		errs = append(errs, FieldError{"account_number", "account number is required"})
	}
	if req.DepositMethod == "" {
		errs = append(errs, FieldError{"deposit_method", "deposit method is required"})
	}
	if !req.Amount.IsPositive() {
		errs = append(errs, FieldError{"amount", "amount must be greater than zero"})
	}
	return errs
}

func (h *DepositHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	receipt, err := h.service.Deposit(r.Context(), engine.DepositRequest{
		Actor:         actorFor(r, req.Email),
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		AccountNumber: req.AccountNumber,
		Amount:        req.Amount,
		Method:        req.DepositMethod,
		Description:   req.Description,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondResult(w, http.StatusCreated, Result{
		Success:         true,
		Message:         "Deposit completed successfully",
		ReferenceNumber: receipt.ReferenceNumber,
		AccountNumber:   receipt.AccountNumber,
		Amount:          decPtr(receipt.Amount),
		Timestamp:       receipt.Timestamp.Format(time.RFC3339),
	})
}
