package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbella-dev/bankcore/internal/domain"
)

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func validDeposit() DepositRequest {
	return DepositRequest{
		FullName:      "Jane Doe",
		Email:         "jane@example.com",
		Phone:         "+237670000001",
		AccountNumber: "ACC0000000001",
		Amount:        dec(10_000),
		Method:        "bank",
	}
}

func TestDepositRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*DepositRequest)
		wantErr error
	}{
		{"valid", func(r *DepositRequest) {}, nil},
		{"missing full name", func(r *DepositRequest) { r.FullName = "" }, domain.ErrMissingField},
		{"missing email", func(r *DepositRequest) { r.Email = "" }, domain.ErrMissingField},
		{"missing phone", func(r *DepositRequest) { r.Phone = "" }, domain.ErrMissingField},
		{"missing account number", func(r *DepositRequest) { r.AccountNumber = "" }, domain.ErrMissingField},
		{"missing method", func(r *DepositRequest) { r.Method = "" }, domain.ErrMissingField},
		{"zero amount", func(r *DepositRequest) { r.Amount = dec(0) }, domain.ErrInvalidAmount},
		{"negative amount", func(r *DepositRequest) { r.Amount = dec(-100) }, domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validDeposit()
			tt.mutate(&req)
			err := req.validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransferRequest_Validate(t *testing.T) {
	valid := TransferRequest{
		SenderName:       "Jane Doe",
		SenderAccount:    "ACC0000000001",
		RecipientName:    "John Doe",
		RecipientAccount: "ACC0000000002",
		Amount:           dec(500),
	}

	require.NoError(t, valid.validate())

	noSender := valid
	noSender.SenderAccount = ""
	require.ErrorIs(t, noSender.validate(), domain.ErrMissingField)

	noRecipient := valid
	noRecipient.RecipientAccount = ""
	require.ErrorIs(t, noRecipient.validate(), domain.ErrMissingField)

	zeroAmount := valid
	zeroAmount.Amount = dec(0)
	require.ErrorIs(t, zeroAmount.validate(), domain.ErrInvalidAmount)
}

func TestRemittanceRequest_Validate(t *testing.T) {
	valid := RemittanceRequest{
		SenderName:        "Jane Doe",
		SenderAccount:     "ACC0000000001",
		RecipientName:     "Ama Mensah",
		RecipientPhone:    "+233240000001",
		RecipientCountry:  "Ghana",
		SendAmount:        dec(1000),
		RecipientCurrency: "GHS",
	}

	require.NoError(t, valid.validate())

	noCountry := valid
	noCountry.RecipientCountry = ""
	require.ErrorIs(t, noCountry.validate(), domain.ErrMissingField)

	noCurrency := valid
	noCurrency.RecipientCurrency = ""
	require.ErrorIs(t, noCurrency.validate(), domain.ErrMissingField)

	negative := valid
	negative.SendAmount = dec(-1)
	require.ErrorIs(t, negative.validate(), domain.ErrInvalidAmount)
}

func TestRemittanceFee(t *testing.T) {
	tests := []struct {
		send string
		want string
	}{
		{"1000", "50"},
		{"999", "49.95"},
		{"1001", "50.05"},
		{"0.01", "0"},
		{"200000", "10000"},
	}

	for _, tt := range tests {
		send := decimal.RequireFromString(tt.send)
		want := decimal.RequireFromString(tt.want)
		got := RemittanceFee(send)
		assert.True(t, got.Equal(want), "fee(%s) = %s, want %s", tt.send, got, tt.want)
	}
}

func TestMobileTransferRequest_Validate(t *testing.T) {
	valid := MobileTransferRequest{
		SenderName:     "Jane Doe",
		SenderPhone:    "+237670000001",
		RecipientName:  "John Doe",
		RecipientPhone: "+237670000002",
		Provider:       "mtn",
		Amount:         dec(2500),
	}

	require.NoError(t, valid.validate())

	noProvider := valid
	noProvider.Provider = ""
	require.ErrorIs(t, noProvider.validate(), domain.ErrMissingField)

	zeroAmount := valid
	zeroAmount.Amount = dec(0)
	require.ErrorIs(t, zeroAmount.validate(), domain.ErrInvalidAmount)
}

func TestSavingsOpenRequest_Validate(t *testing.T) {
	valid := SavingsOpenRequest{
		FullName:      "Jane Doe",
		Email:         "jane@example.com",
		Phone:         "+237670000001",
		InitialAmount: dec(5000),
		TermMonths:    12,
	}

	require.NoError(t, valid.validate())

	noEmail := valid
	noEmail.Email = ""
	require.ErrorIs(t, noEmail.validate(), domain.ErrMissingField)

	zeroAmount := valid
	zeroAmount.InitialAmount = dec(0)
	require.ErrorIs(t, zeroAmount.validate(), domain.ErrInvalidAmount)
}

func TestLoanApplicationRequest_Validate(t *testing.T) {
	valid := LoanApplicationRequest{
		AccountNumber:    "ACC0000000001",
		Amount:           dec(5000),
		Purpose:          "business expansion",
		TermMonths:       12,
		EmploymentStatus: "employed",
		MonthlyIncome:    dec(250_000),
	}

	tests := []struct {
		name    string
		mutate  func(*LoanApplicationRequest)
		wantErr error
	}{
		{"valid", func(r *LoanApplicationRequest) {}, nil},
		{"amount below minimum", func(r *LoanApplicationRequest) { r.Amount = dec(999) }, domain.ErrLoanAmountTooLow},
		{"amount at minimum is allowed", func(r *LoanApplicationRequest) { r.Amount = dec(1000) }, nil},
		{"zero amount", func(r *LoanApplicationRequest) { r.Amount = dec(0) }, domain.ErrInvalidAmount},
		{"term too short", func(r *LoanApplicationRequest) { r.TermMonths = 0 }, domain.ErrInvalidTerm},
		{"term too long", func(r *LoanApplicationRequest) { r.TermMonths = 61 }, domain.ErrInvalidTerm},
		{"term at upper bound is allowed", func(r *LoanApplicationRequest) { r.TermMonths = 60 }, nil},
		{"missing purpose", func(r *LoanApplicationRequest) { r.Purpose = "" }, domain.ErrMissingField},
		{"missing employment status", func(r *LoanApplicationRequest) { r.EmploymentStatus = "" }, domain.ErrMissingField},
		{"zero monthly income", func(r *LoanApplicationRequest) { r.MonthlyIncome = dec(0) }, domain.ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
