// internal/domain/user.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCash is the cash balance granted to every newly registered user.
var DefaultCash = decimal.NewFromInt(10000)

// User represents a registered account.
type User struct {
	ID           int64           `db:"id"`            // Primary key, BIGSERIAL in DB
	Username     string          `db:"username"`      // Unique, stored lower-cased
	PasswordHash string          `db:"password_hash"` // bcrypt hash
	Cash         decimal.Decimal `db:"cash"`          // Current cash balance, NUMERIC(20, 4) in DB
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

// NewUser creates a new User instance with the default cash balance.
func NewUser(username, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		Cash:         DefaultCash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
