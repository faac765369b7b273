package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row from the scanner and returns a populated Transaction.
// Expected column order: id, description, raw_description, amount, type, date, recurring, category,
// invoice_id, contract_id, recurring_expense_id, created_at
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr string

	var date time.Time

	var rawDesc, category, invoiceID, contractID, expenseID sql.NullString

	if err := s.Scan(
		&tx.ID, &tx.Description, &rawDesc, &tx.Amount, &typeStr, &date, &tx.Recurring, &category,
		&invoiceID, &contractID, &expenseID, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.Date = civil.DateOf(date)
	tx.RawDescription = rawDesc.String
	tx.Category = category.String
	tx.InvoiceID = invoiceID.String
	tx.ContractID = contractID.String
	tx.RecurringExpenseID = expenseID.String

	return &tx, nil
}

const selectTransactionColumns = `
	id, description, raw_description, amount, type, date, recurring, category,
	invoice_id, contract_id, recurring_expense_id, created_at
`

const insertTransaction = `
	INSERT INTO transactions (
		id, description, raw_description, amount, type, date, recurring, category,
		invoice_id, contract_id, recurring_expense_id, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
`

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func insertArgs(tx *transaction.Transaction) []any {
	return []any{
		tx.ID,
		tx.Description,
		nullable(tx.RawDescription),
		tx.Amount,
		tx.Type,
		tx.Date.In(time.UTC),
		tx.Recurring,
		nullable(tx.Category),
		nullable(tx.InvoiceID),
		nullable(tx.ContractID),
		nullable(tx.RecurringExpenseID),
	}
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	tx.ID = uuid.NewString()

	err := s.db.QueryRowContext(ctx, insertTransaction+` RETURNING created_at`, insertArgs(tx)...).
		Scan(&tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.Recurring != nil {
		query += fmt.Sprintf(" AND recurring = $%d", argIdx)

		args = append(args, *filter.Recurring)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, filter.StartDate.In(time.UTC))
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, filter.EndDate.In(time.UTC))
		argIdx++
	}

	query += " ORDER BY date ASC, created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

// ledgerLockKey identifies the advisory lock held while appending batches,
// so concurrent writers queue instead of racing on the same invoice ids.
func ledgerLockKey() int64 {
	h := fnv.New64a()
	h.Write([]byte("ledger:insert-batch"))

	return int64(h.Sum64())
}

// InsertBatch appends txs in a single database transaction. The partial
// unique index on invoice_id turns a concurrent duplicate into a skipped row
// rather than a second entry for the same period.
func (s *Store) InsertBatch(ctx context.Context, txs []*transaction.Transaction) ([]*transaction.Transaction, error) {
	if len(txs) == 0 {
		return nil, nil
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning batch tx: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", ledgerLockKey()); err != nil {
		return nil, fmt.Errorf("acquiring ledger lock: %w", err)
	}

	query := insertTransaction + `
		ON CONFLICT (invoice_id) WHERE invoice_id IS NOT NULL DO NOTHING
		RETURNING created_at
	`

	inserted := make([]*transaction.Transaction, 0, len(txs))

	for _, tx := range txs {
		tx.ID = uuid.NewString()

		err := dbTx.QueryRowContext(ctx, query, insertArgs(tx)...).Scan(&tx.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			// Another writer already recorded this period.
			tx.ID = ""
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("inserting transaction %q: %w", tx.Description, err)
		}

		inserted = append(inserted, tx)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("committing batch: %w", err)
	}

	return inserted, nil
}
