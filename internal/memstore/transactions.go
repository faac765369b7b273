package memstore

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

func (s *Store) CreateTransaction(_ context.Context, tx *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.InvoiceID != "" {
		if _, ok := s.keys[tx.InvoiceID]; ok {
			return fmt.Errorf("creating transaction: invoice %q already recorded", tx.InvoiceID)
		}

		s.keys[tx.InvoiceID] = struct{}{}
	}

	tx.ID = uuid.NewString()
	tx.CreatedAt = s.now()
	s.txs = append(s.txs, *tx)

	return nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.txs {
		if tx.ID == id {
			return &tx, nil
		}
	}

	return nil, transaction.ErrNotFound
}

func (s *Store) ListTransactions(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*transaction.Transaction

	for _, tx := range s.txs {
		if filter.Matches(&tx) {
			out = append(out, &tx)
		}
	}

	// Insertion order breaks ties, like created_at in the SQL store.
	slices.SortStableFunc(out, func(a, b *transaction.Transaction) int {
		return compareDates(a.Date, b.Date)
	})

	return out, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.txs, func(tx transaction.Transaction) bool { return tx.ID == id })
	if i < 0 {
		return transaction.ErrNotFound
	}

	if key := s.txs[i].InvoiceID; key != "" {
		delete(s.keys, key)
	}

	s.txs = slices.Delete(s.txs, i, i+1)

	return nil
}

// InsertBatch validates the whole batch before writing any of it. Entries
// whose invoice id is already recorded, in the store or earlier in the
// batch, are skipped.
func (s *Store) InsertBatch(_ context.Context, txs []*transaction.Transaction) ([]*transaction.Transaction, error) {
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("inserting transaction %d: %w", i+1, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{})
	inserted := make([]*transaction.Transaction, 0, len(txs))

	for _, tx := range txs {
		if key := tx.InvoiceID; key != "" {
			_, stored := s.keys[key]
			_, queued := batchKeys[key]

			if stored || queued {
				continue
			}

			batchKeys[key] = struct{}{}
		}

		inserted = append(inserted, tx)
	}

	now := s.now()
	for _, tx := range inserted {
		tx.ID = uuid.NewString()
		tx.CreatedAt = now

		if tx.InvoiceID != "" {
			s.keys[tx.InvoiceID] = struct{}{}
		}

		s.txs = append(s.txs, *tx)
	}

	return inserted, nil
}

func (s *Store) MatchCategory(_ context.Context, rawDescription string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw := strings.ToLower(rawDescription)

	var best *rule

	for i := range s.rules {
		r := &s.rules[i]
		if !strings.Contains(raw, strings.ToLower(r.pattern)) {
			continue
		}

		if best == nil || len(r.pattern) > len(best.pattern) ||
			(len(r.pattern) == len(best.pattern) && r.seq > best.seq) {
			best = r
		}
	}

	if best == nil {
		return "", nil
	}

	return best.category, nil
}

func (s *Store) CreateRule(_ context.Context, rawPattern, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rules = append(s.rules, rule{pattern: rawPattern, category: category, seq: len(s.rules)})

	return nil
}
