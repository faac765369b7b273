package ledger

import (
	"fmt"

	"github.com/MrJamesThe3rd/agency/internal/calendar"
)

// Kind names the agreement an entry was generated from.
type Kind string

const (
	KindContract Kind = "contract"
	KindExpense  Kind = "expense"
)

// InvoiceKey is the idempotency key of the entry generated for an agreement
// in month m. The month part is zero based, so January 2024 is "2024_0".
func InvoiceKey(kind Kind, agreementID string, m calendar.Month) string {
	return fmt.Sprintf("%s_%s_%d_%d", kind, agreementID, m.Year, m.Index())
}
