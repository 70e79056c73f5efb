package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mbella-dev/bankcore/internal/audit"
	"github.com/mbella-dev/bankcore/internal/config"
	"github.com/mbella-dev/bankcore/internal/handler"
	"github.com/mbella-dev/bankcore/internal/logging"
	"github.com/mbella-dev/bankcore/internal/middleware"
	"github.com/mbella-dev/bankcore/internal/refgen"
	"github.com/mbella-dev/bankcore/internal/repository"
	"github.com/mbella-dev/bankcore/internal/service/engine"
	"github.com/mbella-dev/bankcore/internal/service/identity"
)

const (
	shutdownTimeout = 30 * time.Second
	dbConnectRetry  = 5
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logging.Init("bankcore-api", cfg.LogLevel, cfg.AppEnv)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := connectWithRetry(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	accountRepo := repository.NewAccountRepository(db)
	userRepo := repository.NewUserRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	depositRepo := repository.NewDepositRepository(db)
	remittanceRepo := repository.NewRemittanceRepository(db)
	mobileTransferRepo := repository.NewMobileTransferRepository(db)
	savingsRepo := repository.NewSavingsRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	var recorder *audit.Recorder
	if len(cfg.KafkaBrokers) > 0 {
		publisher := audit.NewPublisher(cfg.KafkaBrokers, cfg.KafkaAuditTopic)
		defer publisher.Close()
		recorder = audit.NewRecorder(auditRepo, publisher)
		log.Info("audit event publishing enabled", "topic", cfg.KafkaAuditTopic)
	} else {
		recorder = audit.NewRecorder(auditRepo, nil)
	}

	svc := engine.NewService(
		accountRepo,
		userRepo,
		transactionRepo,
		depositRepo,
		remittanceRepo,
		mobileTransferRepo,
		savingsRepo,
		loanRepo,
		identity.NewResolver(userRepo),
		refgen.New(),
		recorder,
		db,
	)

	depositHandler := handler.NewDepositHandler(svc)
	transferHandler := handler.NewTransferHandler(svc)
	remittanceHandler := handler.NewRemittanceHandler(svc)
	savingsHandler := handler.NewSavingsHandler(svc)
	mobileTransferHandler := handler.NewMobileTransferHandler(svc)
	loanHandler := handler.NewLoanHandler(svc)
	authHandler := handler.NewAuthHandler(userRepo, cfg.JWTSecret)
	accountHandler := handler.NewAccountHandler(accountRepo, transactionRepo)
	meHandler := handler.NewMeHandler(accountRepo, loanRepo)
	healthHandler := handler.NewHealthHandler(db)

	requireAuth := middleware.Auth(cfg.JWTSecret)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Check)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/deposits", depositHandler.Create)
	mux.HandleFunc("POST /api/v1/transfers", transferHandler.Create)
	mux.HandleFunc("POST /api/v1/remittances", remittanceHandler.Create)
	mux.HandleFunc("POST /api/v1/savings-accounts", savingsHandler.Create)
	mux.HandleFunc("POST /api/v1/mobile-transfers", mobileTransferHandler.Create)
	mux.Handle("POST /api/v1/loan-requests", requireAuth(http.HandlerFunc(loanHandler.Create)))
	mux.Handle("GET /api/v1/me/accounts", requireAuth(http.HandlerFunc(meHandler.ListAccounts)))
	mux.Handle("GET /api/v1/me/loan-requests", requireAuth(http.HandlerFunc(meHandler.ListLoanRequests)))
	mux.HandleFunc("GET /api/v1/accounts/{number}", accountHandler.Get)
	mux.HandleFunc("GET /api/v1/accounts/{number}/transactions", accountHandler.ListTransactions)

	chain := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      chain,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "port", cfg.Port, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func connectWithRetry(ctx context.Context, cfg *config.Config, log *slog.Logger) (*sql.DB, error) {
	pool := repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	}

	var lastErr error
	for attempt := 1; attempt <= dbConnectRetry; attempt++ {
		db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, pool)
		if err == nil {
			return db, nil
		}
		lastErr = err
		log.Warn("database connection failed, retrying", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return nil, fmt.Errorf("connect database: %w", lastErr)
}
