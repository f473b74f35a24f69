// internal/repository/postgres/ledger_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"stocksim/internal/domain"
	"stocksim/internal/repository"
)

// LedgerRepository implements repository.LedgerRepository for PostgreSQL.
type LedgerRepository struct{}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db *sqlx.DB) repository.LedgerRepository {
	return &LedgerRepository{}
}

// CreateTrade appends a ledger row using the provided DBExecutor.
func (r *LedgerRepository) CreateTrade(ctx context.Context, q repository.DBExecutor, trade *domain.Trade) error {
	query := `INSERT INTO history (username, symbol, shares, price, transacted_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		trade.Username,
		trade.Symbol,
		trade.Shares,
		trade.Price,
		trade.TransactedAt,
	).Scan(&trade.ID)
	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}
	return nil
}

// GetTradesByUsername returns the user's full ledger in insertion order.
func (r *LedgerRepository) GetTradesByUsername(ctx context.Context, q repository.DBExecutor, username string) ([]domain.Trade, error) {
	trades := []domain.Trade{}
	query := `
		SELECT id, username, symbol, shares, price, transacted_at
		FROM history
		WHERE username = $1
		ORDER BY id`
	if err := q.SelectContext(ctx, &trades, query, username); err != nil {
		return nil, fmt.Errorf("failed to fetch trades for user '%s': %w", username, err)
	}
	return trades, nil
}

// GetPositions derives net positions by summing signed share counts per
// symbol, keeping only symbols with a positive net holding.
func (r *LedgerRepository) GetPositions(ctx context.Context, q repository.DBExecutor, username string) ([]domain.Position, error) {
	positions := []domain.Position{}
	query := `
		SELECT symbol, SUM(shares) AS shares
		FROM history
		WHERE username = $1
		GROUP BY symbol
		HAVING SUM(shares) > 0
		ORDER BY symbol`
	if err := q.SelectContext(ctx, &positions, query, username); err != nil {
		return nil, fmt.Errorf("failed to fetch positions for user '%s': %w", username, err)
	}
	return positions, nil
}

// GetHeldShares returns the user's net share count for one symbol.
func (r *LedgerRepository) GetHeldShares(ctx context.Context, q repository.DBExecutor, username, symbol string) (int64, error) {
	var held int64
	query := `SELECT COALESCE(SUM(shares), 0) FROM history WHERE username = $1 AND symbol = $2`
	if err := q.GetContext(ctx, &held, query, username, symbol); err != nil {
		return 0, fmt.Errorf("failed to get held shares of '%s' for user '%s': %w", symbol, username, err)
	}
	return held, nil
}
