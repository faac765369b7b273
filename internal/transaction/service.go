package transaction

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	// InsertBatch persists txs all-or-nothing. Entries whose InvoiceID is
	// already present in the ledger are skipped; the inserted ones are returned.
	InsertBatch(ctx context.Context, txs []*Transaction) ([]*Transaction, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Amount         decimal.Decimal
	Type           Type
	Description    string
	RawDescription string
	Category       string
	Date           civil.Date
}

type ListFilter struct {
	Type      *Type
	Recurring *bool
	StartDate *civil.Date
	EndDate   *civil.Date
}

// Matches reports whether tx passes the filter. Stores that cannot express a
// filter natively apply it in memory with this.
func (f ListFilter) Matches(tx *Transaction) bool {
	if f.Type != nil && tx.Type != *f.Type {
		return false
	}

	if f.Recurring != nil && tx.Recurring != *f.Recurring {
		return false
	}

	if f.StartDate != nil && tx.Date.Before(*f.StartDate) {
		return false
	}

	if f.EndDate != nil && tx.Date.After(*f.EndDate) {
		return false
	}

	return true
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx := fromParams(params)
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// Delete removes a manual transaction. Generated entries stay in the ledger,
// otherwise the next materialization would silently recreate them.
func (s *Service) Delete(ctx context.Context, id string) error {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	if tx.Recurring {
		return ErrRecurringEntry
	}

	return s.repo.DeleteTransaction(ctx, id)
}

type ImportResult struct {
	Imported  []*Transaction
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Transaction
}

type dupKey struct {
	Date           civil.Date
	Amount         string
	Type           Type
	RawDescription string
}

func keyOf(date civil.Date, amount decimal.Decimal, typ Type, raw string) dupKey {
	return dupKey{Date: date, Amount: amount.StringFixed(2), Type: typ, RawDescription: raw}
}

// ImportBatch inserts statement lines unless any of them already exists in
// the ledger, in which case nothing is written and the conflicts are returned
// for the user to confirm.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	minDate, maxDate := dateRange(params)

	existing, err := s.repo.ListTransactions(ctx, ListFilter{StartDate: &minDate, EndDate: &maxDate})
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Transaction, len(existing))
	for _, e := range existing {
		lookup[keyOf(e.Date, e.Amount, e.Type, e.RawDescription)] = e
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		existing, found := lookup[keyOf(p.Date, p.Amount, p.Type, p.RawDescription)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	txs, err := s.CreateBatch(ctx, newParams)
	if err != nil {
		return nil, err
	}

	return &ImportResult{Imported: txs}, nil
}

func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = fromParams(p)
		if err := txs[i].Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
	}

	inserted, err := s.repo.InsertBatch(ctx, txs)
	if err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	return inserted, nil
}

func dateRange(params []CreateParams) (civil.Date, civil.Date) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}

func fromParams(p CreateParams) *Transaction {
	return &Transaction{
		Amount:         p.Amount,
		Type:           p.Type,
		Description:    p.Description,
		RawDescription: p.RawDescription,
		Category:       p.Category,
		Date:           p.Date,
	}
}
