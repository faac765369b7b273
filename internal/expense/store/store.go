package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/agency/internal/expense"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectExpenseColumns = `
	id, description, amount, category, status, start_date, created_at, updated_at
`

func scanExpense(s scanner) (*expense.RecurringExpense, error) {
	var e expense.RecurringExpense

	var statusStr string

	var startDate time.Time

	if err := s.Scan(
		&e.ID, &e.Description, &e.Amount, &e.Category, &statusStr, &startDate, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.Status = expense.Status(statusStr)
	e.StartDate = civil.DateOf(startDate)

	return &e, nil
}

func (s *Store) CreateRecurringExpense(ctx context.Context, e *expense.RecurringExpense) error {
	query := `
		INSERT INTO recurring_expenses (id, description, amount, category, status, start_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`

	e.ID = uuid.NewString()

	err := s.db.QueryRowContext(ctx, query,
		e.ID, e.Description, e.Amount, e.Category, e.Status, e.StartDate.In(time.UTC),
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating recurring expense: %w", err)
	}

	return nil
}

func (s *Store) GetRecurringExpense(ctx context.Context, id string) (*expense.RecurringExpense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM recurring_expenses WHERE id = $1`

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting recurring expense: %w", err)
	}

	return e, nil
}

func (s *Store) UpdateRecurringExpense(ctx context.Context, e *expense.RecurringExpense) error {
	query := `
		UPDATE recurring_expenses
		SET description = $1, amount = $2, category = $3, status = $4, start_date = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		e.Description, e.Amount, e.Category, e.Status, e.StartDate.In(time.UTC), e.ID,
	).Scan(&e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return expense.ErrNotFound
		}

		return fmt.Errorf("updating recurring expense: %w", err)
	}

	return nil
}

func (s *Store) ListRecurringExpenses(ctx context.Context, filter expense.ListFilter) ([]*expense.RecurringExpense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM recurring_expenses`

	var args []any

	if filter.Status != nil {
		query += " WHERE status = $1"

		args = append(args, *filter.Status)
	}

	query += " ORDER BY start_date ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing recurring expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*expense.RecurringExpense

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recurring expense: %w", err)
		}

		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recurring expense rows: %w", err)
	}

	return expenses, nil
}
