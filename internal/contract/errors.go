package contract

import "errors"

var (
	ErrNotFound      = errors.New("contract not found")
	ErrInvalid       = errors.New("invalid contract")
	ErrInvalidAmount = errors.New("contract amount must be positive")
	ErrInvalidStatus = errors.New("contract status must be active, paused or cancelled")
)
