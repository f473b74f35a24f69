// internal/util/errors.go
package util

import (
	"errors"
	"fmt"
)

// Common application-specific errors.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input provided")
	ErrInvalidSymbol      = errors.New("invalid symbol")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrNoPosition         = errors.New("no position in symbol")
	ErrInvalidCredentials = errors.New("invalid username and/or password")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
)

// InsufficientSharesError reports a sell that exceeds the caller's holding,
// carrying the number of shares actually available.
type InsufficientSharesError struct {
	Available int64
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("you only have %d shares available to sell", e.Available)
}

// Is makes the typed error match ErrInsufficientShares under errors.Is.
func (e *InsufficientSharesError) Is(target error) bool {
	return target == ErrInsufficientShares
}

// IsError reports whether err matches the target error in its chain.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
