// Package memstore keeps every repository in process memory. It backs the
// "memory" store backend and the tests of the packages above it.
package memstore

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/agency/internal/contract"
	"github.com/MrJamesThe3rd/agency/internal/expense"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

type rule struct {
	pattern  string
	category string
	seq      int
}

type Store struct {
	mu sync.RWMutex

	now func() time.Time

	contracts map[string]contract.Contract
	expenses  map[string]expense.RecurringExpense
	txs       []transaction.Transaction
	keys      map[string]struct{}
	rules     []rule
}

func New() *Store {
	return &Store{
		now:       time.Now,
		contracts: make(map[string]contract.Contract),
		expenses:  make(map[string]expense.RecurringExpense),
		keys:      make(map[string]struct{}),
	}
}

func (s *Store) CreateContract(_ context.Context, c *contract.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	c.CreatedAt = s.now()
	s.contracts[c.ID] = *c

	return nil
}

func (s *Store) GetContract(_ context.Context, id string) (*contract.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contracts[id]
	if !ok {
		return nil, contract.ErrNotFound
	}

	return &c, nil
}

func (s *Store) UpdateContract(_ context.Context, c *contract.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contracts[c.ID]; !ok {
		return contract.ErrNotFound
	}

	c.UpdatedAt = new(s.now())
	s.contracts[c.ID] = *c

	return nil
}

func (s *Store) ListContracts(_ context.Context, filter contract.ListFilter) ([]*contract.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*contract.Contract

	for _, c := range s.contracts {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}

		out = append(out, &c)
	}

	slices.SortFunc(out, func(a, b *contract.Contract) int {
		if n := compareDates(a.StartDate, b.StartDate); n != 0 {
			return n
		}

		return strings.Compare(a.ID, b.ID)
	})

	return out, nil
}

func (s *Store) CreateRecurringExpense(_ context.Context, e *expense.RecurringExpense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	e.CreatedAt = s.now()
	s.expenses[e.ID] = *e

	return nil
}

func (s *Store) GetRecurringExpense(_ context.Context, id string) (*expense.RecurringExpense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.expenses[id]
	if !ok {
		return nil, expense.ErrNotFound
	}

	return &e, nil
}

func (s *Store) UpdateRecurringExpense(_ context.Context, e *expense.RecurringExpense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.expenses[e.ID]; !ok {
		return expense.ErrNotFound
	}

	e.UpdatedAt = new(s.now())
	s.expenses[e.ID] = *e

	return nil
}

func (s *Store) ListRecurringExpenses(_ context.Context, filter expense.ListFilter) ([]*expense.RecurringExpense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*expense.RecurringExpense

	for _, e := range s.expenses {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}

		out = append(out, &e)
	}

	slices.SortFunc(out, func(a, b *expense.RecurringExpense) int {
		if n := compareDates(a.StartDate, b.StartDate); n != 0 {
			return n
		}

		return strings.Compare(a.ID, b.ID)
	})

	return out, nil
}

func compareDates(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}

	return 0
}
