package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbella-dev/bankcore/internal/service/engine"
)

type savingsService interface {
	SavingsAccountOpen(ctx context.Context, req engine.SavingsOpenRequest) (*engine.SavingsOpenReceipt, error)
}

type SavingsHandler struct {
	service savingsService
}

func NewSavingsHandler(service savingsService) *SavingsHandler {
	return &SavingsHandler{service: service}
}

type savingsOpenRequest struct {
	FullName      string          `json:"full_name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
	TermMonths    int             `json:"term_months"`
	Goal          string          `json:"goal"`
	Notes         string          `json:"notes"`
}

func (req savingsOpenRequest) Validate() []FieldError {
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
	if !req.InitialAmount.IsPositive() {
		errs = append(errs, FieldError{"initial_amount", "initial amount must be greater than zero"})
	}
	return errs
}

func (h *SavingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req savingsOpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	receipt, err := h.service.SavingsAccountOpen(r.Context(), engine.SavingsOpenRequest{
		Actor:         actorFor(r, req.Email),
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		InitialAmount: req.InitialAmount,
		TermMonths:    req.TermMonths,
		Goal:          req.Goal,
		Notes:         req.Notes,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondResult(w, http.StatusCreated, Result{
		Success:         true,
		Message:         "Savings account opened successfully",
		ReferenceNumber: receipt.ReferenceNumber,
		AccountNumber:   receipt.AccountNumber,
		Amount:          decPtr(receipt.InitialDeposit),
		Timestamp:       receipt.Timestamp.Format(time.RFC3339),
	})
}
