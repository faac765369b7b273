package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/agency/internal/contract"
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

const selectContractColumns = `
	id, client_id, client_name, title, amount, status, start_date, created_at, updated_at
`

func scanContract(s scanner) (*contract.Contract, error) {
	var c contract.Contract

	var statusStr string

	var startDate time.Time

	if err := s.Scan(
		&c.ID, &c.ClientID, &c.ClientName, &c.Title, &c.Amount, &statusStr, &startDate,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	c.Status = contract.Status(statusStr)
	c.StartDate = civil.DateOf(startDate)

	return &c, nil
}

func (s *Store) CreateContract(ctx context.Context, c *contract.Contract) error {
	query := `
		INSERT INTO contracts (id, client_id, client_name, title, amount, status, start_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`

	c.ID = uuid.NewString()

	err := s.db.QueryRowContext(ctx, query,
		c.ID,
		c.ClientID,
		c.ClientName,
		c.Title,
		c.Amount,
		c.Status,
		c.StartDate.In(time.UTC),
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating contract: %w", err)
	}

	return nil
}

func (s *Store) GetContract(ctx context.Context, id string) (*contract.Contract, error) {
	query := `SELECT ` + selectContractColumns + ` FROM contracts WHERE id = $1`

	c, err := scanContract(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contract.ErrNotFound
		}

		return nil, fmt.Errorf("getting contract: %w", err)
	}

	return c, nil
}

func (s *Store) UpdateContract(ctx context.Context, c *contract.Contract) error {
	query := `
		UPDATE contracts
		SET client_name = $1, title = $2, amount = $3, status = $4, start_date = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.ClientName,
		c.Title,
		c.Amount,
		c.Status,
		c.StartDate.In(time.UTC),
		c.ID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return contract.ErrNotFound
		}

		return fmt.Errorf("updating contract: %w", err)
	}

	return nil
}

func (s *Store) ListContracts(ctx context.Context, filter contract.ListFilter) ([]*contract.Contract, error) {
	query := `SELECT ` + selectContractColumns + ` FROM contracts`

	var args []any

	if filter.Status != nil {
		query += " WHERE status = $1"

		args = append(args, *filter.Status)
	}

	query += " ORDER BY start_date ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing contracts: %w", err)
	}
	defer rows.Close()

	var contracts []*contract.Contract

	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contract: %w", err)
		}

		contracts = append(contracts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contract rows: %w", err)
	}

	return contracts, nil
}
