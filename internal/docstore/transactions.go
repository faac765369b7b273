package docstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

// maxBatch keeps one Firestore transaction inside its 500 write limit;
// every entry writes a transaction and a key document.
const maxBatch = 250

type transactionDoc struct {
	Description        string    `firestore:"description"`
	RawDescription     string    `firestore:"rawDescription,omitempty"`
	Amount             string    `firestore:"amount"`
	Type               string    `firestore:"type"`
	Date               string    `firestore:"date"`
	Recurring          bool      `firestore:"recurring"`
	Category           string    `firestore:"category,omitempty"`
	InvoiceID          string    `firestore:"invoiceId,omitempty"`
	ContractID         string    `firestore:"contractId,omitempty"`
	RecurringExpenseID string    `firestore:"recurringExpenseId,omitempty"`
	CreatedAt          time.Time `firestore:"createdAt"`
}

// keyDoc claims an invoice id. Its document id is the invoice id itself, so
// Firestore refuses a second claim for the same period.
type keyDoc struct {
	TransactionID string    `firestore:"transactionId"`
	CreatedAt     time.Time `firestore:"createdAt"`
}

func toTransactionDoc(tx *transaction.Transaction) transactionDoc {
	return transactionDoc{
		Description:        tx.Description,
		RawDescription:     tx.RawDescription,
		Amount:             tx.Amount.StringFixed(2),
		Type:               string(tx.Type),
		Date:               formatDate(tx.Date),
		Recurring:          tx.Recurring,
		Category:           tx.Category,
		InvoiceID:          tx.InvoiceID,
		ContractID:         tx.ContractID,
		RecurringExpenseID: tx.RecurringExpenseID,
		CreatedAt:          tx.CreatedAt,
	}
}

func transactionFromSnapshot(snap *firestore.DocumentSnapshot) (*transaction.Transaction, error) {
	var d transactionDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decoding transaction %s: %w", snap.Ref.ID, err)
	}

	return &transaction.Transaction{
		ID:                 snap.Ref.ID,
		Description:        d.Description,
		RawDescription:     d.RawDescription,
		Amount:             parseAmount(transactionsCollection, snap.Ref.ID, d.Amount),
		Type:               transaction.Type(d.Type),
		Date:               parseDate(transactionsCollection, snap.Ref.ID, d.Date),
		Recurring:          d.Recurring,
		Category:           d.Category,
		InvoiceID:          d.InvoiceID,
		ContractID:         d.ContractID,
		RecurringExpenseID: d.RecurringExpenseID,
		CreatedAt:          d.CreatedAt,
	}, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	inserted, err := s.InsertBatch(ctx, []*transaction.Transaction{tx})
	if err != nil {
		return err
	}

	if len(inserted) == 0 {
		return fmt.Errorf("creating transaction: invoice %q already recorded", tx.InvoiceID)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*transaction.Transaction, error) {
	snap, err := s.client.Collection(transactionsCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return transactionFromSnapshot(snap)
}

// ListTransactions pushes the date range and date order to Firestore, which
// the automatic single-field index on date serves. The rest of the filter
// and the created-at tie break are applied in memory.
func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := s.client.Collection(transactionsCollection).Query

	if filter.StartDate != nil {
		query = query.Where("date", ">=", formatDate(*filter.StartDate))
	}

	if filter.EndDate != nil {
		query = query.Where("date", "<=", formatDate(*filter.EndDate))
	}

	query = query.OrderBy("date", firestore.Asc)

	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	txs := make([]*transaction.Transaction, 0, len(snaps))

	for _, snap := range snaps {
		tx, err := transactionFromSnapshot(snap)
		if err != nil {
			return nil, err
		}

		if filter.Matches(tx) {
			txs = append(txs, tx)
		}
	}

	sortByDateThenCreated(txs)

	return txs, nil
}

func sortByDateThenCreated(txs []*transaction.Transaction) {
	slices.SortStableFunc(txs, func(a, b *transaction.Transaction) int {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		}

		return a.CreatedAt.Compare(b.CreatedAt)
	})
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	ref := s.client.Collection(transactionsCollection).Doc(id)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, ftx *firestore.Transaction) error {
		snap, err := ftx.Get(ref)
		if err != nil {
			return err
		}

		var d transactionDoc
		if err := snap.DataTo(&d); err != nil {
			return err
		}

		if d.InvoiceID != "" {
			if err := ftx.Delete(s.client.Collection(ledgerKeysCollection).Doc(d.InvoiceID)); err != nil {
				return err
			}
		}

		return ftx.Delete(ref)
	})
	if err != nil {
		if isNotFound(err) {
			return transaction.ErrNotFound
		}

		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}

// InsertBatch writes txs in Firestore transactions of at most maxBatch
// entries each. Invoice ids are claimed through key documents read inside
// the same transaction, so two concurrent batches for the same period commit
// at most one entry. A failure stops at the failing chunk; chunks committed
// before it stay, and a retry skips their keys.
func (s *Store) InsertBatch(ctx context.Context, txs []*transaction.Transaction) ([]*transaction.Transaction, error) {
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("inserting transaction %d: %w", i+1, err)
		}

		if strings.Contains(tx.InvoiceID, "/") {
			return nil, fmt.Errorf("inserting transaction %d: invoice id %q contains '/'", i+1, tx.InvoiceID)
		}
	}

	var inserted []*transaction.Transaction

	for _, chunk := range chunks(txs, maxBatch) {
		written, err := s.insertChunk(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("inserting batch after %d entries: %w", len(inserted), err)
		}

		inserted = append(inserted, written...)
	}

	return inserted, nil
}

// chunks splits txs into consecutive slices of at most size entries.
func chunks(txs []*transaction.Transaction, size int) [][]*transaction.Transaction {
	var out [][]*transaction.Transaction

	for len(txs) > size {
		out = append(out, txs[:size:size])
		txs = txs[size:]
	}

	if len(txs) > 0 {
		out = append(out, txs)
	}

	return out
}

func (s *Store) insertChunk(ctx context.Context, txs []*transaction.Transaction) ([]*transaction.Transaction, error) {
	keys := s.client.Collection(ledgerKeysCollection)
	col := s.client.Collection(transactionsCollection)

	type write struct {
		tx *transaction.Transaction
		id string
	}

	var (
		writes []write
		now    time.Time
	)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, ftx *firestore.Transaction) error {
		writes = writes[:0]
		now = time.Now().UTC()

		var keyRefs []*firestore.DocumentRef

		for _, tx := range txs {
			if tx.InvoiceID != "" {
				keyRefs = append(keyRefs, keys.Doc(tx.InvoiceID))
			}
		}

		claimed := make(map[string]bool, len(keyRefs))

		if len(keyRefs) > 0 {
			snaps, err := ftx.GetAll(keyRefs)
			if err != nil {
				return err
			}

			for _, snap := range snaps {
				if snap.Exists() {
					claimed[snap.Ref.ID] = true
				}
			}
		}

		for _, tx := range txs {
			if tx.InvoiceID != "" && claimed[tx.InvoiceID] {
				continue
			}

			ref := col.NewDoc()

			doc := toTransactionDoc(tx)
			doc.CreatedAt = now

			if err := ftx.Create(ref, doc); err != nil {
				return err
			}

			if tx.InvoiceID != "" {
				claimed[tx.InvoiceID] = true

				if err := ftx.Create(keys.Doc(tx.InvoiceID), keyDoc{TransactionID: ref.ID, CreatedAt: now}); err != nil {
					return err
				}
			}

			writes = append(writes, write{tx: tx, id: ref.ID})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	inserted := make([]*transaction.Transaction, len(writes))
	for i, w := range writes {
		w.tx.ID = w.id
		w.tx.CreatedAt = now
		inserted[i] = w.tx
	}

	return inserted, nil
}
