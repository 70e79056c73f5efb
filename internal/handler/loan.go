package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbella-dev/bankcore/internal/auth"
	"github.com/mbella-dev/bankcore/internal/service/engine"
)

type loanService interface {
	LoanApplication(ctx context.Context, req engine.LoanApplicationRequest) (*engine.LoanApplicationReceipt, error)
}

type LoanHandler struct {
	service loanService
}

func NewLoanHandler(service loanService) *LoanHandler {
	return &LoanHandler{service: service}
}

type loanApplicationRequest struct {
	AccountNumber    string          `json:"account_number"`
	Amount           decimal.Decimal `json:"amount"`
	LoanPurpose      string          `json:"loan_purpose"`
	TermMonths       int             `json:"term_months"`
	EmploymentStatus string          `json:"employment_status"`
	MonthlyIncome    decimal.Decimal `json:"monthly_income"`
	AdditionalInfo   string          `json:"additional_info"`
}

func (req loanApplicationRequest) Validate() []FieldError {
	var errs []FieldError
	if req.AccountNumber == "" {
		errs = append(errs, FieldError{"account_number", "account number is required"})
	}
	if req.LoanPurpose == "" {
		errs = append(errs, FieldError{"loan_purpose", "loan purpose is required"})
	}
	if req.EmploymentStatus == "" {
		errs = append(errs, FieldError{"employment_status", "employment status is required"})
	}
	if !req.Amount.IsPositive() {
		errs = append(errs, FieldError{"amount", "amount must be greater than zero"})
	}
	if !req.MonthlyIncome.IsPositive() {
		errs = append(errs, FieldError{"monthly_income", "monthly income must be greater than zero"})
	}
	return errs
}

// Create requires an authenticated actor; the route is wrapped by the auth
// middleware.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken)
		return
	}

	var req loanApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	receipt, err := h.service.LoanApplication(r.Context(), engine.LoanApplicationRequest{
		Actor:            engine.Actor{UserID: actor.UserID, Email: actor.Email},
		AccountNumber:    req.AccountNumber,
		Amount:           req.Amount,
		Purpose:          req.LoanPurpose,
		TermMonths:       req.TermMonths,
		EmploymentStatus: req.EmploymentStatus,
		MonthlyIncome:    req.MonthlyIncome,
		AdditionalInfo:   req.AdditionalInfo,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondResult(w, http.StatusCreated, Result{
		Success:         true,
		Message:         "Loan request submitted successfully. Our team will review it shortly",
		ReferenceNumber: receipt.LoanID.String(),
		Timestamp:       receipt.Timestamp.Format(time.RFC3339),
	})
}
