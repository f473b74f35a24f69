// internal/quote/yahoo.go
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"stocksim/internal/domain"
)

const yahooChartURL = "https://query2.finance.yahoo.com/v8/finance/chart/%s?interval=1m&range=1d"

// YahooProvider fetches quotes from the Yahoo Finance v8 chart API,
// with a small in-memory TTL cache.
type YahooProvider struct {
	cli *http.Client
	ttl time.Duration

	mu    sync.RWMutex
	cache map[string]cachedQuote
}

type cachedQuote struct {
	quote   domain.Quote
	fetched time.Time
}

// NewYahooProvider creates a YahooProvider with a request timeout and a
// 60 second quote cache.
func NewYahooProvider() *YahooProvider {
	return &YahooProvider{
		cli:   &http.Client{Timeout: 8 * time.Second},
		ttl:   60 * time.Second,
		cache: make(map[string]cachedQuote),
	}
}

// Lookup resolves symbol to its current market price.
func (p *YahooProvider) Lookup(ctx context.Context, symbol string) (domain.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return domain.Quote{}, ErrSymbolNotFound
	}

	// cache hit?
	p.mu.RLock()
	if c, ok := p.cache[symbol]; ok && time.Since(c.fetched) < p.ttl {
		p.mu.RUnlock()
		return c.quote, nil
	}
	p.mu.RUnlock()

	url := fmt.Sprintf(yahooChartURL, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Quote{}, err
	}
	req.Header.Set("User-Agent", "stocksim/1.0")

	resp, err := p.cli.Do(req)
	if err != nil {
		return domain.Quote{}, err
	}
	defer resp.Body.Close()

	// Yahoo answers 404 for unknown symbols.
	if resp.StatusCode == http.StatusNotFound {
		return domain.Quote{}, ErrSymbolNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Quote{}, fmt.Errorf("yahoo http %d", resp.StatusCode)
	}

	var raw struct {
		Chart struct {
			Result []struct {
				Meta struct {
					RegularMarketPrice float64 `json:"regularMarketPrice"`
				} `json:"meta"`
			} `json:"result"`
			Error any `json:"error"`
		} `json:"chart"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return domain.Quote{}, err
	}
	if len(raw.Chart.Result) == 0 {
		return domain.Quote{}, ErrSymbolNotFound
	}

	price := raw.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return domain.Quote{}, ErrSymbolNotFound
	}

	quote := domain.Quote{Symbol: symbol, Price: decimal.NewFromFloat(price)}

	p.mu.Lock()
	p.cache[symbol] = cachedQuote{quote: quote, fetched: time.Now()}
	p.mu.Unlock()

	return quote, nil
}
