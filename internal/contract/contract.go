package contract

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a contract.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusCancelled:
		return true
	}

	return false
}

// Contract is a retainer billed to a client every month from StartDate on.
type Contract struct {
	ID         string
	ClientID   string
	ClientName string
	Title      string
	Amount     decimal.Decimal // Monthly billing amount
	Status     Status
	StartDate  civil.Date // Day of month is the billing day
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
