// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidExpense      = errors.New("invalid expense data")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrNotFound            = errors.New("transaction not found")
	ErrPersistence         = errors.New("ledger store unavailable") // Backing store could not be read or written
)

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
