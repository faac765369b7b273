package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/agency/internal/importer/statement"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

// Categorizer fills in categories learned from earlier imports.
type Categorizer interface {
	Apply(ctx context.Context, params []transaction.CreateParams) error
}

// Ledger is the part of the transaction service an import writes through.
type Ledger interface {
	ImportBatch(ctx context.Context, params []transaction.CreateParams) (*transaction.ImportResult, error)
	CreateBatch(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error)
}

type Service struct {
	ledger      Ledger
	categorizer Categorizer
}

func NewService(ledger Ledger, categorizer Categorizer) *Service {
	return &Service{ledger: ledger, categorizer: categorizer}
}

func parserFor(format string) (Importer, error) {
	if format == "" || format == FormatAuto {
		return statement.NewParser(), nil
	}

	return statement.NewProfileParser(format)
}

// Parse reads a statement without writing anything.
func (s *Service) Parse(ctx context.Context, format string, r io.Reader) ([]transaction.CreateParams, error) {
	parser, err := parserFor(format)
	if err != nil {
		return nil, err
	}

	params, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse statement: %w", err)
	}

	if s.categorizer != nil {
		if err := s.categorizer.Apply(ctx, params); err != nil {
			return nil, err
		}
	}

	return params, nil
}

// Import parses a statement and records its lines. When any line looks
// like one already in the ledger nothing is written and the conflicts come
// back for the user to resolve through Confirm.
func (s *Service) Import(ctx context.Context, format string, r io.Reader) (*transaction.ImportResult, error) {
	params, err := s.Parse(ctx, format, r)
	if err != nil {
		return nil, err
	}

	return s.ledger.ImportBatch(ctx, params)
}

// Confirm records the lines the user kept after reviewing conflicts.
func (s *Service) Confirm(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	return s.ledger.CreateBatch(ctx, params)
}
