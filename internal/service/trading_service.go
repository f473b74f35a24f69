// internal/service/trading_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"stocksim/internal/domain"
	"stocksim/internal/quote"
	"stocksim/internal/repository"
	"stocksim/internal/util"
	"stocksim/pkg/db"
)

// TradingService defines the interface for quoting, trading and portfolio
// reporting.
type TradingService interface {
	// Quote resolves a symbol to its current price.
	Quote(ctx context.Context, symbol string) (domain.Quote, error)
	// Buy purchases shares at the current quoted price, debiting cash.
	Buy(ctx context.Context, userID int64, symbol string, shares int64) (*domain.Trade, error)
	// Sell disposes of held shares at the current quoted price, crediting cash.
	Sell(ctx context.Context, userID int64, symbol string, shares int64) (*domain.Trade, error)
	// Portfolio returns the user's priced positions, cash and asset total.
	Portfolio(ctx context.Context, userID int64) (*domain.Portfolio, error)
	// History returns the user's full trade ledger in insertion order.
	History(ctx context.Context, userID int64) ([]domain.Trade, error)
	// OwnedSymbols returns the symbols the user currently holds.
	OwnedSymbols(ctx context.Context, userID int64) ([]string, error)
}

// tradingService implements the TradingService interface.
type tradingService struct {
	dbBeginner db.DBTxBeginner
	dbExecutor repository.DBExecutor
	userRepo   repository.UserRepository
	ledgerRepo repository.LedgerRepository
	quotes     quote.Provider
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
	logger     *slog.Logger
}

// NewTradingService creates a new instance of TradingService.
func NewTradingService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	ledgerRepo repository.LedgerRepository,
	quotes quote.Provider,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) TradingService {
	return &tradingService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
		quotes:     quotes,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
		logger:     logger,
	}
}

// normalizeSymbol upper-cases the ticker; ledger rows always store the
// upper-cased form.
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Quote resolves a symbol via the quote provider.
func (s *tradingService) Quote(ctx context.Context, symbol string) (domain.Quote, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return domain.Quote{}, util.ErrInvalidInput
	}
	q, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		if errors.Is(err, quote.ErrSymbolNotFound) {
			return domain.Quote{}, util.ErrInvalidSymbol
		}
		return domain.Quote{}, fmt.Errorf("quote: failed to look up '%s': %w", symbol, err)
	}
	return q, nil
}

// Buy validates the order, then records the ledger row and debits cash in
// one transaction. The user row is locked for update so concurrent trades
// against the same user serialize on the cash check.
func (s *tradingService) Buy(ctx context.Context, userID int64, symbol string, shares int64) (*domain.Trade, error) {
	if shares <= 0 {
		return nil, util.ErrInvalidInput
	}
	q, err := s.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	cost := q.Price.Mul(decimal.NewFromInt(shares))

	// The quote lookup happens before the transaction so the row lock is
	// never held across a network call.
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("buy: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("buy: transaction controller does not implement DBExecutor")
	}

	user, err := s.userRepo.GetUserByIDForUpdate(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("buy: failed to lock user %d: %w", userID, err)
	}

	if cost.GreaterThan(user.Cash) {
		return nil, util.ErrInsufficientFunds
	}

	trade := domain.NewTrade(user.Username, q.Symbol, shares, q.Price)
	if err := s.ledgerRepo.CreateTrade(ctx, txExecutor, trade); err != nil {
		return nil, fmt.Errorf("buy: failed to create trade: %w", err)
	}
	if err := s.userRepo.AdjustCash(ctx, txExecutor, userID, cost.Neg()); err != nil {
		return nil, fmt.Errorf("buy: failed to debit cash: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("buy: failed to commit transaction: %w", err)
	}

	return trade, nil
}

// Sell validates the order against the user's net holding, then records a
// negative ledger row and credits cash in one transaction.
func (s *tradingService) Sell(ctx context.Context, userID int64, symbol string, shares int64) (*domain.Trade, error) {
	if shares <= 0 {
		return nil, util.ErrInvalidInput
	}
	q, err := s.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	proceeds := q.Price.Mul(decimal.NewFromInt(shares))

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("sell: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("sell: transaction controller does not implement DBExecutor")
	}

	user, err := s.userRepo.GetUserByIDForUpdate(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("sell: failed to lock user %d: %w", userID, err)
	}

	held, err := s.ledgerRepo.GetHeldShares(ctx, txExecutor, user.Username, q.Symbol)
	if err != nil {
		return nil, fmt.Errorf("sell: failed to get held shares: %w", err)
	}
	if held <= 0 {
		return nil, util.ErrNoPosition
	}
	if shares > held {
		return nil, &util.InsufficientSharesError{Available: held}
	}

	trade := domain.NewTrade(user.Username, q.Symbol, -shares, q.Price)
	if err := s.ledgerRepo.CreateTrade(ctx, txExecutor, trade); err != nil {
		return nil, fmt.Errorf("sell: failed to create trade: %w", err)
	}
	if err := s.userRepo.AdjustCash(ctx, txExecutor, userID, proceeds); err != nil {
		return nil, fmt.Errorf("sell: failed to credit cash: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("sell: failed to commit transaction: %w", err)
	}

	return trade, nil
}

// Portfolio joins the user's ledger-derived positions with live quotes.
// Symbols the provider can no longer resolve (delisted since the trade) are
// omitted from the view; any other provider failure propagates.
func (s *tradingService) Portfolio(ctx context.Context, userID int64) (*domain.Portfolio, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("portfolio: failed to get user %d: %w", userID, err)
	}

	held, err := s.ledgerRepo.GetPositions(ctx, s.dbExecutor, user.Username)
	if err != nil {
		return nil, fmt.Errorf("portfolio: failed to get positions: %w", err)
	}

	portfolio := &domain.Portfolio{
		Positions: make([]domain.Position, 0, len(held)),
		Cash:      user.Cash,
		Total:     user.Cash,
	}
	for _, pos := range held {
		q, err := s.quotes.Lookup(ctx, pos.Symbol)
		if err != nil {
			if errors.Is(err, quote.ErrSymbolNotFound) {
				s.logger.Warn("omitting unresolvable symbol from portfolio",
					"username", user.Username, "symbol", pos.Symbol)
				continue
			}
			return nil, fmt.Errorf("portfolio: failed to quote '%s': %w", pos.Symbol, err)
		}
		pos.Price = q.Price
		pos.Value = q.Price.Mul(decimal.NewFromInt(pos.Shares))
		portfolio.Positions = append(portfolio.Positions, pos)
		portfolio.Total = portfolio.Total.Add(pos.Value)
	}

	return portfolio, nil
}

// History returns the user's full trade ledger in insertion order.
func (s *tradingService) History(ctx context.Context, userID int64) ([]domain.Trade, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("history: failed to get user %d: %w", userID, err)
	}
	trades, err := s.ledgerRepo.GetTradesByUsername(ctx, s.dbExecutor, user.Username)
	if err != nil {
		return nil, fmt.Errorf("history: failed to get trades: %w", err)
	}
	return trades, nil
}

// OwnedSymbols returns the symbols with a positive net holding, for the
// sell form's select box.
func (s *tradingService) OwnedSymbols(ctx context.Context, userID int64) ([]string, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("owned symbols: failed to get user %d: %w", userID, err)
	}
	positions, err := s.ledgerRepo.GetPositions(ctx, s.dbExecutor, user.Username)
	if err != nil {
		return nil, fmt.Errorf("owned symbols: failed to get positions: %w", err)
	}
	symbols := make([]string, 0, len(positions))
	for _, pos := range positions {
		symbols = append(symbols, pos.Symbol)
	}
	return symbols, nil
}
