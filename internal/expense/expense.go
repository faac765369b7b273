package expense

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a recurring expense.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusPaused || s == StatusCancelled
}

// RecurringExpense is a cost paid every month from StartDate on, such as
// software subscriptions or rent.
type RecurringExpense struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	Category    string
	Status      Status
	StartDate   civil.Date
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
