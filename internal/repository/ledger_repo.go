// internal/repository/ledger_repo.go
package repository

import (
	"context"

	"stocksim/internal/domain"
)

// LedgerRepository defines the interface for the append-only trade ledger.
type LedgerRepository interface {
	// CreateTrade appends a ledger row using the provided DBExecutor.
	CreateTrade(ctx context.Context, q DBExecutor, trade *domain.Trade) error
	// GetTradesByUsername returns the user's full ledger in insertion order.
	GetTradesByUsername(ctx context.Context, q DBExecutor, username string) ([]domain.Trade, error)
	// GetPositions returns the user's net positions (symbol and share count
	// only), limited to symbols with a positive net holding, ordered by symbol.
	GetPositions(ctx context.Context, q DBExecutor, username string) ([]domain.Position, error)
	// GetHeldShares returns the user's net share count for one symbol
	// (zero when the symbol never traded).
	GetHeldShares(ctx context.Context, q DBExecutor, username, symbol string) (int64, error)
}
