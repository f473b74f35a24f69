// internal/quote/provider.go
package quote

import (
	"context"
	"errors"

	"stocksim/internal/domain"
)

// ErrSymbolNotFound indicates the provider could not resolve the symbol.
var ErrSymbolNotFound = errors.New("quote: symbol not found")

// Provider resolves a ticker symbol to a current quote.
// Implementations must treat symbols case-insensitively and return
// ErrSymbolNotFound for unknown or delisted symbols.
type Provider interface {
	Lookup(ctx context.Context, symbol string) (domain.Quote, error)
}
