package engine_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbella-dev/bankcore/internal/audit"
	"github.com/mbella-dev/bankcore/internal/domain"
	"github.com/mbella-dev/bankcore/internal/refgen"
	"github.com/mbella-dev/bankcore/internal/repository"
	"github.com/mbella-dev/bankcore/internal/service/engine"
	"github.com/mbella-dev/bankcore/internal/service/identity"
	"github.com/mbella-dev/bankcore/internal/testutil"
)

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func setupEngine(t *testing.T, db *sql.DB) *engine.Service {
	t.Helper()

	userRepo := repository.NewUserRepository(db)
	return engine.NewService(
		repository.NewAccountRepository(db),
		userRepo,
		repository.NewTransactionRepository(db),
		repository.NewDepositRepository(db),
		repository.NewRemittanceRepository(db),
		repository.NewMobileTransferRepository(db),
		repository.NewSavingsRepository(db),
		repository.NewLoanRepository(db),
		identity.NewResolver(userRepo),
		refgen.New(),
		audit.NewRecorder(repository.NewAuditLogRepository(db), nil),
		db,
	)
}

func TestDeposit_HappyPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)
	ctx := context.Background()

	owner := testutil.SeedTestUser(t, db, "Jane Doe", "jane@test.com", "+237670000001")
	acct := testutil.SeedTestAccount(t, db, owner.ID, "ACC0000000001", dec(0))

	receipt, err := svc.Deposit(ctx, engine.DepositRequest{
		Actor:         engine.Actor{Email: "jane@test.com"},
		FullName:      "Jane Doe",
		Email:         "jane@test.com",
		Phone:         "+237670000001",
		AccountNumber: "ACC0000000001",
		Amount:        dec(10_000),
		Method:        "bank",
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(receipt.ReferenceNumber, "DEP-"))
	assert.Equal(t, "ACC0000000001", receipt.AccountNumber)
	assert.False(t, receipt.ProvisionedUser)

	updated, err := repository.NewAccountRepository(db).GetByID(ctx, acct.ID)
	require.NoError(t, err)
	assert.True(t, updated.Balance.Equal(dec(10_000)))
	assert.EqualValues(t, 2, updated.Version, "balance write bumps the version guard")
	assert.Equal(t, 1, testutil.CountTransactions(t, db, acct.ID))

	var status string
	err = db.QueryRow(`SELECT status FROM deposits WHERE account_id = $1`, acct.ID).Scan(&status)
	require.NoError(t, err)
	assert.Equal(t, "completed", status)

	assert.Equal(t, 1, testutil.CountAuditLogs(t, db, "deposits"))
}

func TestDeposit_ProvisionsUnknownDepositor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)
	ctx := context.Background()

	owner := testutil.SeedTestUser(t, db, "Owner", "owner@test.com", "+237670000001")
	acct := testutil.SeedTestAccount(t, db, owner.ID, "ACC0000000001", dec(500))

	receipt, err := svc.Deposit(ctx, engine.DepositRequest{
		Actor:         engine.Actor{Email: "stranger@test.com"},
		FullName:      "Walk-in Depositor",
		Email:         "stranger@test.com",
		Phone:         "+237670000099",
		AccountNumber: acct.AccountNumber,
		Amount:        dec(2500),
		Method:        "cash",
	})

	require.NoError(t, err)
	assert.True(t, receipt.ProvisionedUser)

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = $1`, "stranger@test.com").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.True(t, testutil.GetAccountBalance(t, db, acct.ID).Equal(dec(3000)))
}

func TestDeposit_AccountNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)

	_, err := svc.Deposit(context.Background(), engine.DepositRequest{
		FullName:      "Jane Doe",
		Email:         "jane@test.com",
		Phone:         "+237670000001",
		AccountNumber: "ACC-DOES-NOT-EXIST",
		Amount:        dec(100),
		Method:        "bank",
	})

	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestTransfer_HappyPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)
	ctx := context.Background()

	sender := testutil.SeedTestUser(t, db, "Sender", "sender@test.com", "+237670000001")
	recipient := testutil.SeedTestUser(t, db, "Recipient", "recipient@test.com", "+237670000002")
	senderAcct := testutil.SeedTestAccount(t, db, sender.ID, "ACC0000000001", dec(1000))
	recipientAcct := testutil.SeedTestAccount(t, db, recipient.ID, "ACC0000000002", dec(200))

	receipt, err := svc.Transfer(ctx, engine.TransferRequest{
		Actor:            engine.Actor{UserID: sender.ID},
		SenderName:       "Sender",
		SenderAccount:    senderAcct.AccountNumber,
		RecipientName:    "Recipient",
		RecipientAccount: recipientAcct.AccountNumber,
		Amount:           dec(500),
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(receipt.ReferenceNumber, "TRF-"))

	assert.True(t, testutil.GetAccountBalance(t, db, senderAcct.ID).Equal(dec(500)))
	assert.True(t, testutil.GetAccountBalance(t, db, recipientAcct.ID).Equal(dec(700)))

	legs, err := repository.NewTransactionRepository(db).GetByReferencePrefix(ctx, receipt.ReferenceNumber)
	require.NoError(t, err)
	require.Len(t, legs, 2)

	refsByAccount := map[uuid.UUID]string{}
	for _, leg := range legs {
		refsByAccount[leg.AccountID] = leg.ReferenceNumber
		assert.Equal(t, domain.TransactionStatusCompleted, leg.Status)
		assert.True(t, leg.Amount.Equal(dec(500)))
	}
	assert.Equal(t, receipt.ReferenceNumber+"-OUT", refsByAccount[senderAcct.ID])
	assert.Equal(t, receipt.ReferenceNumber+"-IN", refsByAccount[recipientAcct.ID])
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)
	ctx := context.Background()

	sender := testutil.SeedTestUser(t, db, "Sender", "sender@test.com", "+237670000001")
	recipient := testutil.SeedTestUser(t, db, "Recipient", "recipient@test.com", "+237670000002")
	senderAcct := testutil.SeedTestAccount(t, db, sender.ID, "ACC0000000001", dec(300))
	recipientAcct := testutil.SeedTestAccount(t, db, recipient.ID, "ACC0000000002", dec(0))

	_, err := svc.Transfer(ctx, engine.TransferRequest{
		SenderName:       "Sender",
		SenderAccount:    senderAcct.AccountNumber,
		RecipientName:    "Recipient",
		RecipientAccount: recipientAcct.AccountNumber,
		Amount:           dec(500),
	})

	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.True(t, testutil.GetAccountBalance(t, db, senderAcct.ID).Equal(dec(300)))
	assert.True(t, testutil.GetAccountBalance(t, db, recipientAcct.ID).Equal(dec(0)))
	assert.Equal(t, 0, testutil.CountTransactions(t, db, senderAcct.ID))
	assert.Equal(t, 0, testutil.CountTransactions(t, db, recipientAcct.ID))
}

func TestTransfer_SelfTransferRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)

	sender := testutil.SeedTestUser(t, db, "Sender", "sender@test.com", "+237670000001")
	acct := testutil.SeedTestAccount(t, db, sender.ID, "ACC0000000001", dec(1000))

	_, err := svc.Transfer(context.Background(), engine.TransferRequest{
		SenderName:       "Sender",
		SenderAccount:    acct.AccountNumber,
		RecipientName:    "Sender",
		RecipientAccount: acct.AccountNumber,
		Amount:           dec(100),
	})

	require.ErrorIs(t, err, domain.ErrSelfTransfer)
	assert.True(t, testutil.GetAccountBalance(t, db, acct.ID).Equal(dec(1000)))
}

func TestTransfer_RecipientNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)

	sender := testutil.SeedTestUser(t, db, "Sender", "sender@test.com", "+237670000001")
	acct := testutil.SeedTestAccount(t, db, sender.ID, "ACC0000000001", dec(1000))

	_, err := svc.Transfer(context.Background(), engine.TransferRequest{
		SenderName:       "Sender",
		SenderAccount:    acct.AccountNumber,
		RecipientName:    "Ghost",
		RecipientAccount: "ACC-DOES-NOT-EXIST",
		Amount:           dec(100),
	})

	require.ErrorIs(t, err, domain.ErrRecipientNotFound)
}

func TestTransfer_ConcurrentOverdraft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)
	ctx := context.Background()

	sender := testutil.SeedTestUser(t, db, "Sender", "sender@test.com", "+237670000001")
	recipient := testutil.SeedTestUser(t, db, "Recipient", "recipient@test.com", "+237670000002")
	senderAcct := testutil.SeedTestAccount(t, db, sender.ID, "ACC0000000001", dec(1000))
	recipientAcct := testutil.SeedTestAccount(t, db, recipient.ID, "ACC0000000002", dec(0))

	var wg sync.WaitGroup
	results := make(chan error, 2)

	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(ctx, engine.TransferRequest{
				SenderName:       "Sender",
				SenderAccount:    senderAcct.AccountNumber,
				RecipientName:    "Recipient",
				RecipientAccount: recipientAcct.AccountNumber,
				Amount:           dec(750),
			})
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	var successes, failures int
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
			failures++
		}
	}

	assert.Equal(t, 1, successes, "exactly one transfer should succeed")
	assert.Equal(t, 1, failures, "exactly one transfer should fail")
	assert.True(t, testutil.GetAccountBalance(t, db, senderAcct.ID).Equal(dec(250)),
		"sender balance must be 250, never negative")
	assert.True(t, testutil.GetAccountBalance(t, db, recipientAcct.ID).Equal(dec(750)))
}

// failingTransactionRepo rejects the nth Create call and delegates the rest,
// simulating a mid-flight write failure inside a unit of work.
type failingTransactionRepo struct {
	inner  *repository.TransactionRepository
	failOn int
	calls  int
}

func (r *failingTransactionRepo) Create(ctx context.Context, tx *sql.Tx, txn *domain.Transaction) error {
	r.calls++
	if r.calls == r.failOn {
		return errors.New("write rejected")
	}
	return r.inner.Create(ctx, tx, txn)
}

func TestTransfer_SecondLegFailureRollsBackFirstLeg(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	userRepo := repository.NewUserRepository(db)
	failing := &failingTransactionRepo{
		inner:  repository.NewTransactionRepository(db),
		failOn: 2,
	}
	svc := engine.NewService(
		repository.NewAccountRepository(db),
		userRepo,
		failing,
		repository.NewDepositRepository(db),
		repository.NewRemittanceRepository(db),
		repository.NewMobileTransferRepository(db),
		repository.NewSavingsRepository(db),
		repository.NewLoanRepository(db),
		identity.NewResolver(userRepo),
		refgen.New(),
		audit.NewRecorder(repository.NewAuditLogRepository(db), nil),
		db,
	)

	sender := testutil.SeedTestUser(t, db, "Sender", "sender@test.com", "+237670000001")
	recipient := testutil.SeedTestUser(t, db, "Recipient", "recipient@test.com", "+237670000002")
	senderAcct := testutil.SeedTestAccount(t, db, sender.ID, "ACC0000000001", dec(1000))
	recipientAcct := testutil.SeedTestAccount(t, db, recipient.ID, "ACC0000000002", dec(200))

	_, err := svc.Transfer(ctx, engine.TransferRequest{
		SenderName:       "Sender",
		SenderAccount:    senderAcct.AccountNumber,
		RecipientName:    "Recipient",
		RecipientAccount: recipientAcct.AccountNumber,
		Amount:           dec(500),
	})

	require.Error(t, err)
	require.Equal(t, 2, failing.calls, "the debit leg must have been written before the failure")

	assert.True(t, testutil.GetAccountBalance(t, db, senderAcct.ID).Equal(dec(1000)),
		"sender balance must be untouched after rollback")
	assert.True(t, testutil.GetAccountBalance(t, db, recipientAcct.ID).Equal(dec(200)),
		"recipient balance must be untouched after rollback")
	assert.Equal(t, 0, testutil.CountTransactions(t, db, senderAcct.ID),
		"the persisted first leg must be rolled back with the unit of work")
	assert.Equal(t, 0, testutil.CountTransactions(t, db, recipientAcct.ID))

	updated, err := repository.NewAccountRepository(db).GetByID(ctx, senderAcct.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated.Version, "version guard must not advance on a failed unit of work")
}

func TestRemittance_FeeAndDebit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)
	ctx := context.Background()

	sender := testutil.SeedTestUser(t, db, "Sender", "sender@test.com", "+237670000001")
	acct := testutil.SeedTestAccount(t, db, sender.ID, "ACC0000000001", dec(1050))

	receipt, err := svc.Remittance(ctx, engine.RemittanceRequest{
		Actor:             engine.Actor{UserID: sender.ID},
		SenderName:        "Sender",
		SenderAccount:     acct.AccountNumber,
		RecipientName:     "Ama Mensah",
		RecipientPhone:    "+233240000001",
		RecipientCountry:  "Ghana",
		SendAmount:        dec(1000),
		RecipientCurrency: "GHS",
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(receipt.ReferenceNumber, "REM-"))
	assert.True(t, receipt.Fee.Equal(dec(50)))
	assert.True(t, receipt.TotalDeduction.Equal(dec(1050)))

	assert.True(t, testutil.GetAccountBalance(t, db, acct.ID).Equal(dec(0)))

	var remStatus string
	err = db.QueryRow(`SELECT status FROM remittances WHERE account_id = $1`, acct.ID).Scan(&remStatus)
	require.NoError(t, err)
	assert.Equal(t, "pending", remStatus)

	var txnStatus string
	var txnAmount decimal.Decimal
	err = db.QueryRow(
		`SELECT status, amount FROM transactions WHERE account_id = $1`, acct.ID,
	).Scan(&txnStatus, &txnAmount)
	require.NoError(t, err)
	assert.Equal(t, "completed", txnStatus)
	assert.True(t, txnAmount.Equal(dec(1050)), "debit covers send amount plus fee")
}

func TestRemittance_InsufficientFundsForFee(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)

	sender := testutil.SeedTestUser(t, db, "Sender", "sender@test.com", "+237670000001")
	acct := testutil.SeedTestAccount(t, db, sender.ID, "ACC0000000001", dec(1000))

	// Balance covers the send amount but not the fee.
	_, err := svc.Remittance(context.Background(), engine.RemittanceRequest{
		SenderName:        "Sender",
		SenderAccount:     acct.AccountNumber,
		RecipientName:     "Ama Mensah",
		RecipientPhone:    "+233240000001",
		RecipientCountry:  "Ghana",
		SendAmount:        dec(1000),
		RecipientCurrency: "GHS",
	})

	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.True(t, testutil.GetAccountBalance(t, db, acct.ID).Equal(dec(1000)))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM remittances`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestSavingsAccountOpen_HappyPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)
	ctx := context.Background()

	receipt, err := svc.SavingsAccountOpen(ctx, engine.SavingsOpenRequest{
		Actor:         engine.Actor{Email: "saver@test.com"},
		FullName:      "New Saver",
		Email:         "saver@test.com",
		Phone:         "+237670000010",
		InitialAmount: dec(5000),
		TermMonths:    12,
		Goal:          "Education",
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(receipt.AccountNumber, "SAV-"))
	assert.True(t, receipt.ProvisionedUser)
	assert.True(t, receipt.InitialDeposit.Equal(dec(5000)))

	var balance decimal.Decimal
	var acctType, acctStatus string
	err = db.QueryRow(
		`SELECT balance, account_type, status FROM accounts WHERE account_number = $1`,
		receipt.AccountNumber,
	).Scan(&balance, &acctType, &acctStatus)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec(5000)))
	assert.Equal(t, "savings", acctType)
	assert.Equal(t, "active", acctStatus)

	var goal string
	require.NoError(t, db.QueryRow(`SELECT savings_goal FROM savings_accounts`).Scan(&goal))
	assert.Equal(t, "Education", goal)
}

func TestSavingsAccountOpen_ReusesExistingUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)

	existing := testutil.SeedTestUser(t, db, "Existing", "existing@test.com", "+237670000001")

	receipt, err := svc.SavingsAccountOpen(context.Background(), engine.SavingsOpenRequest{
		Actor:         engine.Actor{Email: "existing@test.com"},
		FullName:      "Existing",
		Email:         "existing@test.com",
		Phone:         "+237670000001",
		InitialAmount: dec(100),
	})

	require.NoError(t, err)
	assert.False(t, receipt.ProvisionedUser)

	var ownerID string
	err = db.QueryRow(
		`SELECT user_id FROM accounts WHERE account_number = $1`, receipt.AccountNumber,
	).Scan(&ownerID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID.String(), ownerID)
}

func TestMobileTransfer_NoBalanceEffect(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)

	receipt, err := svc.MobileTransfer(context.Background(), engine.MobileTransferRequest{
		SenderName:     "Jane Doe",
		SenderPhone:    "+237670000001",
		RecipientName:  "John Doe",
		RecipientPhone: "+237670000002",
		Provider:       "mtn",
		Amount:         dec(2500),
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(receipt.ReferenceNumber, "MOB-"))
	assert.Equal(t, "mtn", receipt.Provider)

	var status string
	require.NoError(t, db.QueryRow(`SELECT status FROM mobile_transfers`).Scan(&status))
	assert.Equal(t, "pending", status)

	var txnCount int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&txnCount))
	assert.Equal(t, 0, txnCount, "mobile transfers never touch the ledger")
}

func TestLoanApplication_HappyPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)

	applicant := testutil.SeedTestUser(t, db, "Applicant", "applicant@test.com", "+237670000001")
	acct := testutil.SeedTestAccount(t, db, applicant.ID, "ACC0000000001", dec(0))

	receipt, err := svc.LoanApplication(context.Background(), engine.LoanApplicationRequest{
		Actor:            engine.Actor{UserID: applicant.ID, Email: applicant.Email},
		AccountNumber:    acct.AccountNumber,
		Amount:           dec(50_000),
		Purpose:          "business expansion",
		TermMonths:       24,
		EmploymentStatus: "self-employed",
		MonthlyIncome:    dec(300_000),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusPending, receipt.Status)

	var interest, payment decimal.Decimal
	var status string
	err = db.QueryRow(
		`SELECT interest_rate, monthly_payment, status FROM loan_requests WHERE user_id = $1`,
		applicant.ID,
	).Scan(&interest, &payment, &status)
	require.NoError(t, err)
	assert.True(t, interest.IsZero())
	assert.True(t, payment.IsZero())
	assert.Equal(t, "pending", status)
}

func TestLoanApplication_AccountMismatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)

	applicant := testutil.SeedTestUser(t, db, "Applicant", "applicant@test.com", "+237670000001")
	other := testutil.SeedTestUser(t, db, "Other", "other@test.com", "+237670000002")
	otherAcct := testutil.SeedTestAccount(t, db, other.ID, "ACC0000000002", dec(0))

	_, err := svc.LoanApplication(context.Background(), engine.LoanApplicationRequest{
		Actor:            engine.Actor{UserID: applicant.ID},
		AccountNumber:    otherAcct.AccountNumber,
		Amount:           dec(5000),
		Purpose:          "car",
		TermMonths:       12,
		EmploymentStatus: "employed",
		MonthlyIncome:    dec(200_000),
	})

	require.ErrorIs(t, err, domain.ErrAccountMismatch)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM loan_requests`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestLoanApplication_NeverProvisionsUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)

	_, err := svc.LoanApplication(context.Background(), engine.LoanApplicationRequest{
		Actor:            engine.Actor{UserID: uuid.New()},
		AccountNumber:    "ACC0000000001",
		Amount:           dec(5000),
		Purpose:          "car",
		TermMonths:       12,
		EmploymentStatus: "employed",
		MonthlyIncome:    dec(200_000),
	})

	require.ErrorIs(t, err, domain.ErrUserNotFound)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestDeposit_SuspendedAccountRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupEngine(t, db)

	owner := testutil.SeedTestUser(t, db, "Owner", "owner@test.com", "+237670000001")
	acct := testutil.SeedTestAccount(t, db, owner.ID, "ACC0000000001", dec(0))

	_, err := db.Exec(`UPDATE accounts SET status = 'suspended' WHERE id = $1`, acct.ID)
	require.NoError(t, err)

	_, err = svc.Deposit(context.Background(), engine.DepositRequest{
		FullName:      "Owner",
		Email:         "owner@test.com",
		Phone:         "+237670000001",
		AccountNumber: acct.AccountNumber,
		Amount:        dec(100),
		Method:        "bank",
	})

	require.ErrorIs(t, err, domain.ErrAccountSuspended)
	assert.Equal(t, 0, testutil.CountTransactions(t, db, acct.ID))
}
