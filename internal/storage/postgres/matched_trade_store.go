package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/storage"
)

// MatchedTradeStore implements storage.MatchedTradeStore using PostgreSQL.
type MatchedTradeStore struct {
	pool *Pool
}

// NewMatchedTradeStore creates a new MatchedTradeStore.
func NewMatchedTradeStore(pool *Pool) *MatchedTradeStore {
	return &MatchedTradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MatchedTradeStore = (*MatchedTradeStore)(nil)

const matchedTradeColumns = `
	trade_id, wallet, mint, symbol,
	buy_amount, sell_amount, matched_amount,
	base_currency, cost, proceeds, profit, pnl_pct,
	buy_time, sell_time, hold_ms, is_partial,
	buy_signature, sell_signature, buy_slot, sell_slot
`

const insertMatchedTradeQuery = `
	INSERT INTO matched_trades (` + matchedTradeColumns + `
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7,
		$8, $9, $10, $11, $12,
		$13, $14, $15, $16,
		$17, $18, $19, $20
	)
`

func matchedTradeArgs(t *domain.MatchedTrade) []interface{} {
	return []interface{}{
		t.TradeID, t.Wallet, t.Mint, t.Symbol,
		t.BuyAmount, t.SellAmount, t.MatchedAmount,
		string(t.BaseCurrency), t.Cost, t.Proceeds, t.Profit, t.PnlPct,
		t.BuyTime, t.SellTime, t.HoldMs, t.IsPartial,
		t.BuySignature, t.SellSignature, t.BuySlot, t.SellSlot,
	}
}

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *MatchedTradeStore) Insert(ctx context.Context, t *domain.MatchedTrade) error {
	_, err := s.pool.Exec(ctx, insertMatchedTradeQuery, matchedTradeArgs(t)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert matched trade: %w", err)
	}
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *MatchedTradeStore) InsertBulk(ctx context.Context, trades []*domain.MatchedTrade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range trades {
		if _, err := tx.Exec(ctx, insertMatchedTradeQuery, matchedTradeArgs(t)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert matched trade in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *MatchedTradeStore) GetByID(ctx context.Context, tradeID string) (*domain.MatchedTrade, error) {
	query := `SELECT ` + matchedTradeColumns + ` FROM matched_trades WHERE trade_id = $1`

	row := s.pool.QueryRow(ctx, query, tradeID)
	t, err := scanMatchedTrade(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get matched trade by id: %w", err)
	}
	return t, nil
}

// GetByWallet retrieves all trades for a wallet, ordered by sell_time ASC, trade_id ASC.
func (s *MatchedTradeStore) GetByWallet(ctx context.Context, wallet string) ([]*domain.MatchedTrade, error) {
	query := `
		SELECT ` + matchedTradeColumns + `
		FROM matched_trades
		WHERE wallet = $1
		ORDER BY sell_time ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("get matched trades by wallet: %w", err)
	}
	defer rows.Close()

	return scanMatchedTrades(rows)
}

// GetByWalletMint retrieves a wallet's trades in one token, same ordering.
func (s *MatchedTradeStore) GetByWalletMint(ctx context.Context, wallet, mint string) ([]*domain.MatchedTrade, error) {
	query := `
		SELECT ` + matchedTradeColumns + `
		FROM matched_trades
		WHERE wallet = $1 AND mint = $2
		ORDER BY sell_time ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, wallet, mint)
	if err != nil {
		return nil, fmt.Errorf("get matched trades by wallet/mint: %w", err)
	}
	defer rows.Close()

	return scanMatchedTrades(rows)
}

// scanMatchedTrade scans a single row into a MatchedTrade.
func scanMatchedTrade(row pgx.Row) (*domain.MatchedTrade, error) {
	var (
		t        domain.MatchedTrade
		currency string
	)

	err := row.Scan(
		&t.TradeID, &t.Wallet, &t.Mint, &t.Symbol,
		&t.BuyAmount, &t.SellAmount, &t.MatchedAmount,
		&currency, &t.Cost, &t.Proceeds, &t.Profit, &t.PnlPct,
		&t.BuyTime, &t.SellTime, &t.HoldMs, &t.IsPartial,
		&t.BuySignature, &t.SellSignature, &t.BuySlot, &t.SellSlot,
	)
	if err != nil {
		return nil, err
	}

	t.BaseCurrency = domain.BaseCurrency(currency)
	return &t, nil
}

// scanMatchedTrades scans multiple rows into a slice of MatchedTrade.
func scanMatchedTrades(rows pgx.Rows) ([]*domain.MatchedTrade, error) {
	var trades []*domain.MatchedTrade

	for rows.Next() {
		t, err := scanMatchedTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan matched trade row: %w", err)
		}
		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matched trade rows: %w", err)
	}
	return trades, nil
}
