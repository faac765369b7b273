package transaction

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Type represents the direction of money (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Valid reports whether t is a known transaction type.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single ledger entry.
type Transaction struct {
	ID             string
	Description    string
	RawDescription string          // Original statement text for imported entries
	Amount         decimal.Decimal // Always positive; the sign is carried by Type
	Type           Type
	Date           civil.Date
	Recurring      bool
	Category       string

	// Set only on entries generated from a contract or recurring expense.
	InvoiceID          string
	ContractID         string
	RecurringExpenseID string

	CreatedAt time.Time
}

// Validate checks the fields every store requires before persisting.
func (t *Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}

	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	if !t.Date.IsValid() {
		return ErrInvalidDate
	}

	if t.Recurring && t.InvoiceID == "" {
		return ErrMissingInvoiceID
	}

	return nil
}
