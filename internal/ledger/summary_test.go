package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/agency/internal/calendar"
	"github.com/MrJamesThe3rd/agency/internal/contract"
	"github.com/MrJamesThe3rd/agency/internal/expense"
	"github.com/MrJamesThe3rd/agency/internal/ledger"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

func tx(typ transaction.Type, amount string, y int, m time.Month, d int) *transaction.Transaction {
	return &transaction.Transaction{
		Type:   typ,
		Amount: decimal.RequireFromString(amount),
		Date:   date(y, m, d),
	}
}

func TestSummarize(t *testing.T) {
	paused := activeContract("p", date(2024, time.January, 1), 999)
	paused.Status = contract.StatusPaused

	contracts := []*contract.Contract{
		activeContract("a", date(2024, time.January, 1), 1000),
		activeContract("b", date(2024, time.January, 1), 500),
		paused,
	}
	expenses := []*expense.RecurringExpense{activeExpense("e", date(2024, time.January, 1), 200)}

	txs := []*transaction.Transaction{
		tx(transaction.TypeIncome, "1000", 2024, time.June, 1),
		tx(transaction.TypeExpense, "200.50", 2024, time.June, 3),
		tx(transaction.TypeIncome, "300", 2024, time.February, 10),
		tx(transaction.TypeIncome, "50", 2023, time.December, 31),
		{Type: "refund", Amount: decimal.NewFromInt(10), Date: date(2024, time.June, 1)},
		{Type: transaction.TypeIncome, Amount: decimal.NewFromInt(10)},
	}

	s := ledger.Summarize(contracts, expenses, txs, date(2024, time.June, 20))

	assert.Equal(t, "1149.5", s.TotalBalance.String())
	assert.Equal(t, "1500", s.MonthlyRecurringRevenue.String())
	assert.Equal(t, "200", s.MonthlyRecurringCost.String())
	assert.Equal(t, 2, s.Excluded)

	require.Len(t, s.Series, ledger.SeriesMonths)
	assert.Equal(t, calendar.Month{Year: 2024, Month: time.January}, s.Series[0].Month)
	assert.Equal(t, calendar.Month{Year: 2024, Month: time.June}, s.Series[5].Month)

	assert.Equal(t, "300", s.Series[1].Income.String())
	assert.True(t, s.Series[2].Income.IsZero())
	assert.True(t, s.Series[2].Expense.IsZero())
	assert.Equal(t, "1000", s.Series[5].Income.String())
	assert.Equal(t, "200.5", s.Series[5].Expense.String())
}

func TestSummarize_Empty(t *testing.T) {
	s := ledger.Summarize(nil, nil, nil, date(2024, time.March, 1))

	assert.True(t, s.TotalBalance.IsZero())
	require.Len(t, s.Series, ledger.SeriesMonths)
	assert.Equal(t, calendar.Month{Year: 2023, Month: time.October}, s.Series[0].Month)
}
