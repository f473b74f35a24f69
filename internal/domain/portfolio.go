// internal/domain/portfolio.go
package domain

import "github.com/shopspring/decimal"

// Position is a user's net holding in one symbol, derived from the ledger.
// Price and Value are filled in from a live quote; only positions with a
// positive net share count are ever surfaced.
type Position struct {
	Symbol string          `db:"symbol"`
	Shares int64           `db:"shares"`
	Price  decimal.Decimal `db:"-"`
	Value  decimal.Decimal `db:"-"`
}

// Portfolio is the full view of a user's holdings: priced positions,
// the cash balance, and the combined asset total.
type Portfolio struct {
	Positions []Position
	Cash      decimal.Decimal
	Total     decimal.Decimal
}
