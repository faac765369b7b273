package expense

import "errors"

var (
	ErrNotFound      = errors.New("recurring expense not found")
	ErrInvalid       = errors.New("invalid recurring expense")
	ErrInvalidAmount = errors.New("recurring expense amount must be positive")
	ErrInvalidStatus = errors.New("recurring expense status must be active, paused or cancelled")
)
