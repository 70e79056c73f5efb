package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbella-dev/bankcore/internal/domain"
	"github.com/mbella-dev/bankcore/internal/service/engine"
)

type stubDepositService struct {
	receipt *engine.DepositReceipt
	err     error
	gotReq  engine.DepositRequest
}

func (s *stubDepositService) Deposit(_ context.Context, req engine.DepositRequest) (*engine.DepositReceipt, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.receipt, nil
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/deposits", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) Result {
	t.Helper()
	var res Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	return res
}

const validDepositBody = `{
	"full_name": "Jane Doe",
	"email": "jane@example.com",
	"phone": "+237670000001",
	"account_number": "ACC0000000001",
	"amount": 10000,
	"deposit_method": "bank"
}`

func TestDepositHandler_HappyPath(t *testing.T) {
	now := time.Date(2025, 1, 14, 9, 30, 11, 0, time.UTC)
	svc := &stubDepositService{receipt: &engine.DepositReceipt{
		ReferenceNumber: "DEP-20250114093011-4FA21C",
		AccountNumber:   "ACC0000000001",
		Amount:          decimal.NewFromInt(10_000),
		Timestamp:       now,
	}}
	h := NewDepositHandler(svc)

	rec := postJSON(t, h.Create, validDepositBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	res := decodeResult(t, rec)
	assert.True(t, res.Success)
	assert.Equal(t, "DEP-20250114093011-4FA21C", res.ReferenceNumber)
	assert.Equal(t, "ACC0000000001", res.AccountNumber)
	require.NotNil(t, res.Amount)
	assert.True(t, res.Amount.Equal(decimal.NewFromInt(10_000)))
	assert.Equal(t, "2025-01-14T09:30:11Z", res.Timestamp)

	assert.Equal(t, "jane@example.com", svc.gotReq.Email)
	assert.Equal(t, "bank", svc.gotReq.Method)
}

func TestDepositHandler_InvalidJSON(t *testing.T) {
	h := NewDepositHandler(&stubDepositService{})

	rec := postJSON(t, h.Create, "{not json")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	res := decodeResult(t, rec)
	assert.False(t, res.Success)
	assert.Equal(t, "INVALID_REQUEST", res.Code)
}

func TestDepositHandler_ValidationFailure(t *testing.T) {
	h := NewDepositHandler(&stubDepositService{})

	rec := postJSON(t, h.Create, `{"full_name": "Jane Doe", "amount": 0}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	res := decodeResult(t, rec)
	assert.False(t, res.Success)
	assert.Equal(t, "VALIDATION_FAILED", res.Code)
	assert.NotEmpty(t, res.Errors)

	fields := make([]string, 0, len(res.Errors))
	for _, fe := range res.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "amount")
}

func TestDepositHandler_DomainErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"account not found", domain.ErrAccountNotFound, http.StatusUnprocessableEntity, "ACCOUNT_NOT_FOUND"},
		{"account suspended", domain.ErrAccountSuspended, http.StatusUnprocessableEntity, "ACCOUNT_SUSPENDED"},
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS"},
		{"version conflict", domain.ErrVersionConflict, http.StatusConflict, "VERSION_CONFLICT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewDepositHandler(&stubDepositService{err: tt.err})

			rec := postJSON(t, h.Create, validDepositBody)

			require.Equal(t, tt.wantStatus, rec.Code)
			res := decodeResult(t, rec)
			assert.False(t, res.Success)
			assert.Equal(t, tt.wantCode, res.Code)
		})
	}
}
