package ledger

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/agency/internal/calendar"
	"github.com/MrJamesThe3rd/agency/internal/contract"
	"github.com/MrJamesThe3rd/agency/internal/expense"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

// RetainerCategory is the category of every entry generated from a contract.
const RetainerCategory = "Retainer"

// Skip records an active agreement that could not be materialized.
type Skip struct {
	Kind   Kind
	ID     string
	Reason string
}

// Plan is the set of entries that should exist in the ledger but do not.
type Plan struct {
	Today   civil.Date
	Entries []*transaction.Transaction
	Skipped []Skip
}

// agreement is the shape shared by contracts and recurring expenses once
// they reach the planner.
type agreement struct {
	kind        Kind
	id          string
	active      bool
	start       civil.Date
	amount      decimal.Decimal
	category    string
	txType      transaction.Type
	description func(calendar.Month) string
}

func fromContract(c *contract.Contract) agreement {
	return agreement{
		kind:     KindContract,
		id:       c.ID,
		active:   c.Status == contract.StatusActive,
		start:    c.StartDate,
		amount:   c.Amount,
		category: RetainerCategory,
		txType:   transaction.TypeIncome,
		description: func(m calendar.Month) string {
			return c.Title + " - " + m.Label()
		},
	}
}

func fromExpense(e *expense.RecurringExpense) agreement {
	return agreement{
		kind:     KindExpense,
		id:       e.ID,
		active:   e.Status == expense.StatusActive,
		start:    e.StartDate,
		amount:   e.Amount,
		category: e.Category,
		txType:   transaction.TypeExpense,
		description: func(calendar.Month) string {
			return e.Description
		},
	}
}

func (a agreement) malformed() string {
	switch {
	case a.id == "":
		return "missing id"
	case !a.start.IsValid():
		return "invalid start date"
	case !a.amount.IsPositive():
		return "amount must be positive"
	}

	return ""
}

func (a agreement) entry(m calendar.Month, date civil.Date, key string) *transaction.Transaction {
	tx := &transaction.Transaction{
		Description: a.description(m),
		Amount:      a.amount,
		Type:        a.txType,
		Date:        date,
		Recurring:   true,
		Category:    a.category,
		InvoiceID:   key,
	}

	if a.kind == KindContract {
		tx.ContractID = a.id
	} else {
		tx.RecurringExpenseID = a.id
	}

	return tx
}

// NewPlan computes the entries missing from existing for every active
// agreement, up to and including today. It performs no I/O.
//
// Each elapsed month yields one entry dated on the start date's day of month,
// clamped to the month's last day. Entries dated after today are left for a
// later run, and keys already present in existing (or earlier in the plan)
// are never produced twice.
func NewPlan(
	contracts []*contract.Contract,
	expenses []*expense.RecurringExpense,
	existing []*transaction.Transaction,
	today civil.Date,
) Plan {
	seen := make(map[string]struct{}, len(existing))

	for _, tx := range existing {
		if tx.InvoiceID != "" {
			seen[tx.InvoiceID] = struct{}{}
		}
	}

	agreements := make([]agreement, 0, len(contracts)+len(expenses))
	for _, c := range contracts {
		agreements = append(agreements, fromContract(c))
	}

	for _, e := range expenses {
		agreements = append(agreements, fromExpense(e))
	}

	plan := Plan{Today: today}
	current := calendar.MonthOf(today)

	for _, a := range agreements {
		if !a.active {
			continue
		}

		if reason := a.malformed(); reason != "" {
			plan.Skipped = append(plan.Skipped, Skip{Kind: a.kind, ID: a.id, Reason: reason})
			continue
		}

		if a.start.After(today) {
			continue
		}

		for m := calendar.MonthOf(a.start); !m.After(current); m = m.Next() {
			date := m.Day(a.start.Day)
			if date.After(today) {
				break
			}

			key := InvoiceKey(a.kind, a.id, m)
			if _, ok := seen[key]; ok {
				continue
			}

			seen[key] = struct{}{}

			plan.Entries = append(plan.Entries, a.entry(m, date, key))
		}
	}

	return plan
}
