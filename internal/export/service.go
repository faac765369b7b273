// Package export builds the accountant's spreadsheet: the ledger entries of
// a period plus the dashboard figures.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/agency/internal/ledger"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

const (
	ledgerSheet  = "Ledger"
	summarySheet = "Summary"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Summarizer interface {
	Summary(ctx context.Context) (*ledger.Summary, error)
}

type Lister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type Service struct {
	summaries    Summarizer
	transactions Lister
}

func NewService(summaries Summarizer, transactions Lister) *Service {
	return &Service{summaries: summaries, transactions: transactions}
}

// Write renders the workbook for the transactions matching filter to w.
// The summary is computed first so the ledger sheet includes any entries
// it materialized.
func (s *Service) Write(ctx context.Context, w io.Writer, filter transaction.ListFilter) error {
	summary, err := s.summaries.Summary(ctx)
	if err != nil {
		return fmt.Errorf("summarizing ledger: %w", err)
	}

	txs, err := s.transactions.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}

	f, err := Workbook(summary, txs)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

// Workbook lays out txs and summary on two sheets.
func Workbook(summary *ledger.Summary, txs []*transaction.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return nil, fmt.Errorf("naming ledger sheet: %w", err)
	}

	if err := writeLedger(f, txs); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("creating summary sheet: %w", err)
	}

	if err := writeSummary(f, summary); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}

	return nil
}

func writeLedger(f *excelize.File, txs []*transaction.Transaction) error {
	if err := setRow(f, ledgerSheet, 1,
		"Date", "Description", "Category", "Type", "Amount", "Recurring", "Invoice ID",
	); err != nil {
		return err
	}

	for i, tx := range txs {
		recurring := "no"
		if tx.Recurring {
			recurring = "yes"
		}

		if err := setRow(f, ledgerSheet, i+2,
			tx.Date.String(),
			tx.Description,
			tx.Category,
			string(tx.Type),
			tx.Amount.InexactFloat64(),
			recurring,
			tx.InvoiceID,
		); err != nil {
			return err
		}
	}

	return nil
}

func writeSummary(f *excelize.File, s *ledger.Summary) error {
	rows := [][]any{
		{"Total balance", s.TotalBalance.InexactFloat64()},
		{"Monthly recurring revenue", s.MonthlyRecurringRevenue.InexactFloat64()},
		{"Monthly recurring cost", s.MonthlyRecurringCost.InexactFloat64()},
		{},
		{"Month", "Income", "Expense"},
	}

	for _, m := range s.Series {
		rows = append(rows, []any{m.Month.Label(), m.Income.InexactFloat64(), m.Expense.InexactFloat64()})
	}

	for i, row := range rows {
		if err := setRow(f, summarySheet, i+1, row...); err != nil {
			return err
		}
	}

	return nil
}
