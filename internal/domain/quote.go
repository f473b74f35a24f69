// internal/domain/quote.go
package domain

import "github.com/shopspring/decimal"

// Quote is the current price for a symbol as reported by the quote provider.
type Quote struct {
	Symbol string
	Price  decimal.Decimal
}
