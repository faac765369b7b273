package transaction

import "errors"

var (
	ErrNotFound         = errors.New("transaction not found")
	ErrInvalidType      = errors.New("transaction type must be income or expense")
	ErrInvalidAmount    = errors.New("transaction amount must be positive")
	ErrInvalidDate      = errors.New("transaction date is invalid")
	ErrMissingInvoiceID = errors.New("recurring transaction requires an invoice id")
	ErrRecurringEntry   = errors.New("recurring ledger entries cannot be deleted")
)
