package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbella-dev/bankcore/internal/service/engine"
)

type remittanceService interface {
	Remittance(ctx context.Context, req engine.RemittanceRequest) (*engine.RemittanceReceipt, error)
}

type RemittanceHandler struct {
	service remittanceService
}

func NewRemittanceHandler(service remittanceService) *RemittanceHandler {
	return &RemittanceHandler{service: service}
}

type remittanceRequest struct {
	SenderName        string          `json:"sender_name"`
	SenderAccount     string          `json:"sender_account"`
	RecipientName     string          `json:"recipient_name"`
	RecipientPhone    string          `json:"recipient_phone"`
	RecipientCountry  string          `json:"recipient_country"`
	SendAmount        decimal.Decimal `json:"send_amount"`
	RecipientCurrency string          `json:"recipient_currency"`
	Purpose           string          `json:"purpose"`
}

func (req remittanceRequest) Validate() []FieldError {
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
	if req.RecipientPhone == "" {
		errs = append(errs, FieldError{"recipient_phone", "recipient phone is required"})
	}
	if req.RecipientCountry == "" {
		errs = append(errs, FieldError{"recipient_country", "recipient country is required"})
	}
	if req.RecipientCurrency == "" {
		errs = append(errs, FieldError{"recipient_currency", "recipient currency is required"})
	}
	if !req.SendAmount.IsPositive() {
		errs = append(errs, FieldError{"send_amount", "send amount must be greater than zero"})
	}
	return errs
}

func (h *RemittanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req remittanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	receipt, err := h.service.Remittance(r.Context(), engine.RemittanceRequest{
		Actor:             actorFor(r, ""),
		SenderName:        req.SenderName,
		SenderAccount:     req.SenderAccount,
		RecipientName:     req.RecipientName,
		RecipientPhone:    req.RecipientPhone,
		RecipientCountry:  req.RecipientCountry,
		SendAmount:        req.SendAmount,
		RecipientCurrency: req.RecipientCurrency,
		Purpose:           req.Purpose,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondResult(w, http.StatusCreated, Result{
		Success:         true,
		Message:         "Remittance submitted successfully",
		ReferenceNumber: receipt.ReferenceNumber,
		Amount:          decPtr(receipt.SendAmount),
		Fee:             decPtr(receipt.Fee),
		TotalDeduction:  decPtr(receipt.TotalDeduction),
		Timestamp:       receipt.Timestamp.Format(time.RFC3339),
	})
}
