package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbella-dev/bankcore/internal/service/engine"
)

type transferService interface {
	Transfer(ctx context.Context, req engine.TransferRequest) (*engine.TransferReceipt, error)
}

type TransferHandler struct {
	service transferService
}

func NewTransferHandler(service transferService) *TransferHandler {
	return &TransferHandler{service: service}
}

type transferRequest struct {
	SenderName       string          `json:"sender_name"`
	SenderAccount    string          `json:"sender_account"`
	RecipientName    string          `json:"recipient_name"`
	RecipientAccount string          `json:"recipient_account"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
}

func (req transferRequest) Validate() []FieldError {
	var errs []FieldError
	if req.SenderName == "" {
		errs = append(errs, FieldError{"sender_name", "sender name is required"})
	}
	if req.SenderAccount == "" {
		errs = append(errs, FieldError{"sender_account", "sender account is required"})
	}
	if req.RecipientName == "" {
		errs = append(errs, FieldError{"recipient_name", "recipient name is required"})
	}
	if req.RecipientAccount == "" {
		errs = append(errs, FieldError{"recipient_account", "recipient account is required"})
	}
	if !req.Amount.IsPositive() {
		errs = append(errs, FieldError{"amount", "amount must be greater than zero"})
	}
	return errs
}

func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	receipt, err := h.service.Transfer(r.Context(), engine.TransferRequest{
		Actor:            actorFor(r, ""),
		SenderName:       req.SenderName,
		SenderAccount:    req.SenderAccount,
		RecipientName:    req.RecipientName,
		RecipientAccount: req.RecipientAccount,
		Amount:           req.Amount,
		Description:      req.Description,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondResult(w, http.StatusCreated, Result{
		Success:         true,
		Message:         "Transfer completed successfully",
		ReferenceNumber: receipt.ReferenceNumber,
		Amount:          decPtr(receipt.Amount),
		Timestamp:       receipt.Timestamp.Format(time.RFC3339),
	})
}
