// internal/quote/static.go
package quote

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"stocksim/internal/domain"
)

// StaticProvider serves quotes from a fixed in-memory price table.
// Used for offline runs and tests.
type StaticProvider struct {
	mu     sync.RWMutex
	prices map[string]decimal.Decimal
}

// NewStaticProvider creates a StaticProvider from the given price table.
// Symbol keys are normalized to upper case.
func NewStaticProvider(prices map[string]decimal.Decimal) *StaticProvider {
	p := &StaticProvider{prices: make(map[string]decimal.Decimal, len(prices))}
	for sym, price := range prices {
		p.prices[strings.ToUpper(sym)] = price
	}
	return p
}

// DefaultStaticPrices is the price table used when no live provider is
// configured, enough to click around the app without network access.
func DefaultStaticPrices() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"AAPL": decimal.RequireFromString("195.50"),
		"GOOG": decimal.RequireFromString("171.20"),
		"MSFT": decimal.RequireFromString("428.74"),
		"NFLX": decimal.RequireFromString("641.30"),
		"TSLA": decimal.RequireFromString("244.12"),
	}
}

// Set adds or replaces a price.
func (p *StaticProvider) Set(symbol string, price decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prices[strings.ToUpper(symbol)] = price
}

// Delete removes a symbol, making subsequent lookups fail as not found.
func (p *StaticProvider) Delete(symbol string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.prices, strings.ToUpper(symbol))
}

// Lookup resolves symbol against the price table.
func (p *StaticProvider) Lookup(ctx context.Context, symbol string) (domain.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	p.mu.RLock()
	defer p.mu.RUnlock()
	price, ok := p.prices[symbol]
	if !ok {
		return domain.Quote{}, ErrSymbolNotFound
	}
	return domain.Quote{Symbol: symbol, Price: price}, nil
}
