package ledger_test

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/agency/internal/calendar"
	"github.com/MrJamesThe3rd/agency/internal/contract"
	"github.com/MrJamesThe3rd/agency/internal/expense"
	"github.com/MrJamesThe3rd/agency/internal/ledger"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func activeContract(id string, start civil.Date, amount int64) *contract.Contract {
	return &contract.Contract{
		ID:        id,
		Title:     "Retainer " + id,
		Amount:    decimal.NewFromInt(amount),
		Status:    contract.StatusActive,
		StartDate: start,
	}
}

func activeExpense(id string, start civil.Date, amount int64) *expense.RecurringExpense {
	return &expense.RecurringExpense{
		ID:          id,
		Description: "Hosting",
		Category:    "Infrastructure",
		Amount:      decimal.NewFromInt(amount),
		Status:      expense.StatusActive,
		StartDate:   start,
	}
}

func keys(txs []*transaction.Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.InvoiceID
	}

	return out
}

func dates(txs []*transaction.Transaction) []civil.Date {
	out := make([]civil.Date, len(txs))
	for i, tx := range txs {
		out[i] = tx.Date
	}

	return out
}

func TestInvoiceKey(t *testing.T) {
	m := calendar.Month{Year: 2024, Month: time.January}

	assert.Equal(t, "contract_c1_2024_0", ledger.InvoiceKey(ledger.KindContract, "c1", m))
	assert.Equal(t, "expense_e1_2024_11", ledger.InvoiceKey(ledger.KindExpense, "e1", calendar.Month{Year: 2024, Month: time.December}))
}

func TestNewPlan_ElapsedMonthsOnly(t *testing.T) {
	c := activeContract("a", date(2024, time.January, 15), 1000)

	plan := ledger.NewPlan([]*contract.Contract{c}, nil, nil, date(2024, time.April, 10))

	assert.Equal(t, []civil.Date{
		date(2024, time.January, 15),
		date(2024, time.February, 15),
		date(2024, time.March, 15),
	}, dates(plan.Entries))
	assert.Empty(t, plan.Skipped)
}

func TestNewPlan_EntryFields(t *testing.T) {
	c := activeContract("c1", date(2024, time.March, 5), 1500)
	e := activeExpense("e1", date(2024, time.March, 1), 80)

	plan := ledger.NewPlan([]*contract.Contract{c}, []*expense.RecurringExpense{e}, nil, date(2024, time.March, 31))
	require.Len(t, plan.Entries, 2)

	income := plan.Entries[0]
	assert.Equal(t, "Retainer c1 - 03/2024", income.Description)
	assert.Equal(t, transaction.TypeIncome, income.Type)
	assert.Equal(t, ledger.RetainerCategory, income.Category)
	assert.Equal(t, "c1", income.ContractID)
	assert.Empty(t, income.RecurringExpenseID)
	assert.True(t, income.Recurring)
	assert.True(t, income.Amount.Equal(decimal.NewFromInt(1500)))

	cost := plan.Entries[1]
	assert.Equal(t, "Hosting", cost.Description)
	assert.Equal(t, transaction.TypeExpense, cost.Type)
	assert.Equal(t, "Infrastructure", cost.Category)
	assert.Equal(t, "e1", cost.RecurringExpenseID)
	assert.Equal(t, "expense_e1_2024_2", cost.InvoiceID)
	assert.Empty(t, cost.ID)
}

func TestNewPlan_StatusGating(t *testing.T) {
	paused := activeContract("p", date(2023, time.June, 1), 100)
	paused.Status = contract.StatusPaused

	cancelled := activeExpense("x", date(2023, time.June, 1), 100)
	cancelled.Status = expense.StatusCancelled

	plan := ledger.NewPlan(
		[]*contract.Contract{paused},
		[]*expense.RecurringExpense{cancelled},
		nil,
		date(2024, time.June, 1),
	)

	assert.Empty(t, plan.Entries)
	assert.Empty(t, plan.Skipped)
}

func TestNewPlan_FutureStart(t *testing.T) {
	c := activeContract("f", date(2024, time.May, 2), 100)

	plan := ledger.NewPlan([]*contract.Contract{c}, nil, nil, date(2024, time.May, 1))
	assert.Empty(t, plan.Entries)
}

func TestNewPlan_StartDayIsToday(t *testing.T) {
	c := activeContract("t", date(2024, time.May, 1), 100)

	plan := ledger.NewPlan([]*contract.Contract{c}, nil, nil, date(2024, time.May, 1))
	assert.Equal(t, []string{"contract_t_2024_4"}, keys(plan.Entries))
}

func TestNewPlan_ClampsMissingDay(t *testing.T) {
	c := activeContract("eom", date(2024, time.January, 31), 100)

	plan := ledger.NewPlan([]*contract.Contract{c}, nil, nil, date(2024, time.April, 30))

	assert.Equal(t, []civil.Date{
		date(2024, time.January, 31),
		date(2024, time.February, 29),
		date(2024, time.March, 31),
		date(2024, time.April, 30),
	}, dates(plan.Entries))
}

func TestNewPlan_YearRollover(t *testing.T) {
	e := activeExpense("y", date(2023, time.November, 10), 100)

	plan := ledger.NewPlan(nil, []*expense.RecurringExpense{e}, nil, date(2024, time.February, 10))

	assert.Equal(t, []string{
		"expense_y_2023_10",
		"expense_y_2023_11",
		"expense_y_2024_0",
		"expense_y_2024_1",
	}, keys(plan.Entries))
}

func TestNewPlan_SkipsExistingKeys(t *testing.T) {
	c := activeContract("c1", date(2024, time.January, 1), 100)
	existing := []*transaction.Transaction{
		{InvoiceID: "contract_c1_2024_0"},
		{InvoiceID: "contract_c1_2024_2"},
		{Description: "manual entry"},
	}

	plan := ledger.NewPlan([]*contract.Contract{c}, nil, existing, date(2024, time.March, 20))
	assert.Equal(t, []string{"contract_c1_2024_1"}, keys(plan.Entries))
}

func TestNewPlan_DuplicateAgreementsProduceOneEntry(t *testing.T) {
	c := activeContract("dup", date(2024, time.March, 1), 100)

	plan := ledger.NewPlan([]*contract.Contract{c, c}, nil, nil, date(2024, time.March, 2))
	assert.Len(t, plan.Entries, 1)
}

func TestNewPlan_SkipsMalformedAgreements(t *testing.T) {
	badDate := activeContract("bad-date", civil.Date{}, 100)
	badAmount := activeExpense("bad-amount", date(2024, time.January, 1), 0)
	noID := activeContract("", date(2024, time.January, 1), 100)
	good := activeContract("good", date(2024, time.March, 1), 100)

	plan := ledger.NewPlan(
		[]*contract.Contract{badDate, noID, good},
		[]*expense.RecurringExpense{badAmount},
		nil,
		date(2024, time.March, 1),
	)

	assert.Equal(t, []string{"contract_good_2024_2"}, keys(plan.Entries))
	require.Len(t, plan.Skipped, 3)
	assert.Equal(t, ledger.Skip{Kind: ledger.KindContract, ID: "bad-date", Reason: "invalid start date"}, plan.Skipped[0])
	assert.Equal(t, ledger.KindExpense, plan.Skipped[2].Kind)
}
