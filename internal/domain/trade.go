// internal/domain/trade.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one row of the append-only transaction ledger.
// Shares is signed: positive for a buy, negative for a sell.
type Trade struct {
	ID           int64           `db:"id"`           // Primary key, BIGSERIAL in DB
	Username     string          `db:"username"`     // Foreign key to users.username
	Symbol       string          `db:"symbol"`       // Upper-cased ticker symbol
	Shares       int64           `db:"shares"`       // Signed share count
	Price        decimal.Decimal `db:"price"`        // Price per share at execution, NUMERIC(20, 4) in DB
	TransactedAt time.Time       `db:"transacted_at"`
}

// NewTrade creates a ledger entry for the given user and symbol.
func NewTrade(username, symbol string, shares int64, price decimal.Decimal) *Trade {
	return &Trade{
		Username:     username,
		Symbol:       symbol,
		Shares:       shares,
		Price:        price,
		TransactedAt: time.Now().UTC(),
	}
}

// Amount is the total cash value of the trade (price × |shares|).
func (t *Trade) Amount() decimal.Decimal {
	shares := t.Shares
	if shares < 0 {
		shares = -shares
	}
	return t.Price.Mul(decimal.NewFromInt(shares))
}
