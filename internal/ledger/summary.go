package ledger

import (
	"log/slog"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/agency/internal/calendar"
	"github.com/MrJamesThe3rd/agency/internal/contract"
	"github.com/MrJamesThe3rd/agency/internal/expense"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

// SeriesMonths is the length of the trailing income/expense series.
const SeriesMonths = 6

type MonthTotals struct {
	Month   calendar.Month
	Income  decimal.Decimal
	Expense decimal.Decimal
}

type Summary struct {
	TotalBalance            decimal.Decimal
	MonthlyRecurringRevenue decimal.Decimal
	MonthlyRecurringCost    decimal.Decimal
	Series                  []MonthTotals

	// Excluded counts transactions left out because of an unknown type or
	// an invalid date.
	Excluded int

	// Stale is set when the ledger could not be brought up to date before
	// the summary was computed.
	Stale bool
}

// Summarize reduces the ledger and the agreements to the dashboard figures.
func Summarize(
	contracts []*contract.Contract,
	expenses []*expense.RecurringExpense,
	txs []*transaction.Transaction,
	today civil.Date,
) Summary {
	s := Summary{
		TotalBalance:            decimal.Zero,
		MonthlyRecurringRevenue: decimal.Zero,
		MonthlyRecurringCost:    decimal.Zero,
	}

	for _, c := range contracts {
		if c.Status == contract.StatusActive {
			s.MonthlyRecurringRevenue = s.MonthlyRecurringRevenue.Add(c.Amount)
		}
	}

	for _, e := range expenses {
		if e.Status == expense.StatusActive {
			s.MonthlyRecurringCost = s.MonthlyRecurringCost.Add(e.Amount)
		}
	}

	months := calendar.Trailing(calendar.MonthOf(today), SeriesMonths)
	index := make(map[calendar.Month]int, len(months))

	s.Series = make([]MonthTotals, len(months))
	for i, m := range months {
		s.Series[i] = MonthTotals{Month: m, Income: decimal.Zero, Expense: decimal.Zero}
		index[m] = i
	}

	for _, tx := range txs {
		if !tx.Type.Valid() || !tx.Date.IsValid() {
			slog.Warn("excluding transaction from summary", "id", tx.ID, "type", tx.Type, "date", tx.Date)

			s.Excluded++

			continue
		}

		i, inSeries := index[calendar.MonthOf(tx.Date)]

		if tx.Type == transaction.TypeIncome {
			s.TotalBalance = s.TotalBalance.Add(tx.Amount)

			if inSeries {
				s.Series[i].Income = s.Series[i].Income.Add(tx.Amount)
			}

			continue
		}

		s.TotalBalance = s.TotalBalance.Sub(tx.Amount)

		if inSeries {
			s.Series[i].Expense = s.Series[i].Expense.Add(tx.Amount)
		}
	}

	return s
}
