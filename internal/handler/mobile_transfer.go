package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbella-dev/bankcore/internal/service/engine"
)

type mobileTransferService interface {
	MobileTransfer(ctx context.Context, req engine.MobileTransferRequest) (*engine.MobileTransferReceipt, error)
}

type MobileTransferHandler struct {
	service mobileTransferService
}

func NewMobileTransferHandler(service mobileTransferService) *MobileTransferHandler {
	return &MobileTransferHandler{service: service}
}

type mobileTransferRequest struct {
	SenderName     string          `json:"sender_name"`
	SenderPhone    string          `json:"sender_phone"`
	RecipientName  string          `json:"recipient_name"`
	RecipientPhone string          `json:"recipient_phone"`
	Provider       string          `json:"provider"`
	Amount         decimal.Decimal `json:"amount"`
	Notes          string          `json:"notes"`
}

func (req mobileTransferRequest) Validate() []FieldError {
	var errs []FieldError
	if req.SenderName == "" {
		errs = append(errs, FieldError{"sender_name", "sender name is required"})
	}
	if req.SenderPhone == "" {
		errs = append(errs, FieldError{"sender_phone", "sender phone is required"})
	}
	if req.RecipientName == "" {
		errs = append(errs, FieldError{"recipient_name", "recipient name is required"})
	}
	if req.RecipientPhone == "" {
		errs = append(errs, FieldError{"recipient_phone", "recipient phone is required"})
	}
	if req.Provider == "" {
		errs = append(errs, FieldError{"provider", "provider is required"})
	}
	if !req.Amount.IsPositive() {
		errs = append(errs, FieldError{"amount", "amount must be greater than zero"})
	}
	return errs
}

func (h *MobileTransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req mobileTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	receipt, err := h.service.MobileTransfer(r.Context(), engine.MobileTransferRequest{
		Actor:          actorFor(r, ""),
		SenderName:     req.SenderName,
		SenderPhone:    req.SenderPhone,
		RecipientName:  req.RecipientName,
		RecipientPhone: req.RecipientPhone,
		Provider:       req.Provider,
		Amount:         req.Amount,
		Notes:          req.Notes,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondResult(w, http.StatusCreated, Result{
		Success:         true,
		Message:         "Mobile transfer request submitted successfully",
		ReferenceNumber: receipt.ReferenceNumber,
		Provider:        receipt.Provider,
		Amount:          decPtr(receipt.Amount),
		Timestamp:       receipt.Timestamp.Format(time.RFC3339),
	})
}
