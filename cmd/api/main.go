package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/agency/internal/backend"
	"github.com/MrJamesThe3rd/agency/internal/categorize"
	"github.com/MrJamesThe3rd/agency/internal/config"
	"github.com/MrJamesThe3rd/agency/internal/contract"
	"github.com/MrJamesThe3rd/agency/internal/expense"
	"github.com/MrJamesThe3rd/agency/internal/export"
	agencyHttp "github.com/MrJamesThe3rd/agency/internal/http"
	categorizeHandler "github.com/MrJamesThe3rd/agency/internal/http/categorize"
	contractHandler "github.com/MrJamesThe3rd/agency/internal/http/contract"
	expenseHandler "github.com/MrJamesThe3rd/agency/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/agency/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/agency/internal/http/importcsv"
	ledgerHandler "github.com/MrJamesThe3rd/agency/internal/http/ledger"
	txHandler "github.com/MrJamesThe3rd/agency/internal/http/transaction"
	"github.com/MrJamesThe3rd/agency/internal/importer"
	"github.com/MrJamesThe3rd/agency/internal/ledger"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.App.LogLevel})))

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := backend.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Store.Backend, err)
	}
	defer stores.Close()

	locker, closeLocker, err := backend.Locker(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLocker()

	var (
		contractService    = contract.NewService(stores.Contracts)
		expenseService     = expense.NewService(stores.Expenses)
		transactionService = transaction.NewService(stores.Transactions)
		categorizeService  = categorize.NewService(stores.Rules)
		materializer       = ledger.NewMaterializer(stores.Contracts, stores.Expenses, stores.Transactions, ledger.WithLocker(locker))
		ledgerService      = ledger.NewService(materializer)
		importService      = importer.NewService(transactionService, categorizeService)
		exportService      = export.NewService(ledgerService, transactionService)
	)

	router := agencyHttp.New(cfg, agencyHttp.Handlers{
		Contracts:    contractHandler.NewHandler(contractService, ledgerService),
		Expenses:     expenseHandler.NewHandler(expenseService, ledgerService),
		Transactions: txHandler.NewHandler(transactionService, ledgerService),
		Ledger:       ledgerHandler.NewHandler(ledgerService),
		Import:       importHandler.NewHandler(importService),
		Categorize:   categorizeHandler.NewHandler(categorizeService),
		Export:       exportHandler.NewHandler(exportService),
	})

	go ledger.NewRunner(ledgerService, cfg.Ledger.Interval).Start(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "port", srv.Addr, "backend", cfg.Store.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
