package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"

	"github.com/MrJamesThe3rd/agency/internal/calendar"
	"github.com/MrJamesThe3rd/agency/internal/contract"
	"github.com/MrJamesThe3rd/agency/internal/expense"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

// LockKey is the lock held for the duration of a run.
const LockKey = "ledger:materialize"

type ContractSource interface {
	ListContracts(ctx context.Context, filter contract.ListFilter) ([]*contract.Contract, error)
}

type ExpenseSource interface {
	ListRecurringExpenses(ctx context.Context, filter expense.ListFilter) ([]*expense.RecurringExpense, error)
}

// Ledger is the transaction log. InsertBatch must be atomic and must skip
// entries whose InvoiceID is already stored.
type Ledger interface {
	ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
	InsertBatch(ctx context.Context, txs []*transaction.Transaction) ([]*transaction.Transaction, error)
}

// Locker serializes runs across processes.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

type Materializer struct {
	contracts ContractSource
	expenses  ExpenseSource
	ledger    Ledger
	locker    Locker
	now       func() time.Time
}

type Option func(*Materializer)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(m *Materializer) {
		m.now = now
	}
}

func WithLocker(l Locker) Option {
	return func(m *Materializer) {
		m.locker = l
	}
}

func NewMaterializer(contracts ContractSource, expenses ExpenseSource, ledger Ledger, opts ...Option) *Materializer {
	m := &Materializer{
		contracts: contracts,
		expenses:  expenses,
		ledger:    ledger,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Result describes a single materializer run.
type Result struct {
	Today    civil.Date
	Planned  int
	Inserted []*transaction.Transaction
	Skipped  []Skip
}

// Run reads the agreements and the ledger, then appends the missing entries
// in one batch. A failed read or write returns an error; calling Run again
// plans only the keys that are still missing.
func (m *Materializer) Run(ctx context.Context) (*Result, error) {
	if m.locker != nil {
		release, err := m.locker.Lock(ctx, LockKey)
		if err != nil {
			return nil, fmt.Errorf("acquiring ledger lock: %w", err)
		}
		defer release()
	}

	// Read the clock only once the lock is held; the wait can cross midnight.
	today := calendar.Today(m.now())

	contracts, err := m.contracts.ListContracts(ctx, contract.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing contracts: %w", err)
	}

	expenses, err := m.expenses.ListRecurringExpenses(ctx, expense.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing recurring expenses: %w", err)
	}

	existing, err := m.ledger.ListTransactions(ctx, transaction.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	plan := NewPlan(contracts, expenses, existing, today)

	for _, s := range plan.Skipped {
		slog.Warn("skipping malformed agreement", "kind", s.Kind, "id", s.ID, "reason", s.Reason)
	}

	res := &Result{
		Today:   today,
		Planned: len(plan.Entries),
		Skipped: plan.Skipped,
	}

	if len(plan.Entries) == 0 {
		return res, nil
	}

	inserted, err := m.ledger.InsertBatch(ctx, plan.Entries)
	if err != nil {
		return nil, fmt.Errorf("persisting ledger entries: %w", err)
	}

	res.Inserted = inserted

	return res, nil
}
