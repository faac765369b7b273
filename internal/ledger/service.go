package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/agency/internal/calendar"
	"github.com/MrJamesThe3rd/agency/internal/contract"
	"github.com/MrJamesThe3rd/agency/internal/expense"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

// Service is what the application layers talk to: it keeps the ledger in
// sync with the agreements before anything reads it.
type Service struct {
	m *Materializer
}

func NewService(m *Materializer) *Service {
	return &Service{m: m}
}

// Sync materializes any missing entries. A second call with no agreement
// changes in between inserts nothing.
func (s *Service) Sync(ctx context.Context) (*Result, error) {
	res, err := s.m.Run(ctx)
	if err != nil {
		return nil, err
	}

	if len(res.Inserted) > 0 {
		slog.Info("materialized ledger entries",
			"inserted", len(res.Inserted),
			"planned", res.Planned,
			"today", res.Today.String(),
		)
	}

	return res, nil
}

// Summary syncs the ledger, then re-reads it and aggregates. When the sync
// fails the figures are computed from what is stored and marked stale.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	stale := false
	if _, err := s.Sync(ctx); err != nil {
		slog.Error("failed to sync ledger", "error", err)

		stale = true
	}

	contracts, err := s.m.contracts.ListContracts(ctx, contract.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing contracts: %w", err)
	}

	expenses, err := s.m.expenses.ListRecurringExpenses(ctx, expense.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing recurring expenses: %w", err)
	}

	txs, err := s.m.ledger.ListTransactions(ctx, transaction.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	summary := Summarize(contracts, expenses, txs, calendar.Today(s.m.now()))
	summary.Stale = stale

	return &summary, nil
}
