package storage

import (
	"context"

	"solana-copytrade-lab/internal/domain"
)

// MatchedTradeStore provides access to matched_trades storage.
type MatchedTradeStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.MatchedTrade) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.MatchedTrade) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.MatchedTrade, error)

	// GetByWallet retrieves all trades for a wallet, ordered by sell_time ASC, trade_id ASC.
	GetByWallet(ctx context.Context, wallet string) ([]*domain.MatchedTrade, error)

	// GetByWalletMint retrieves a wallet's trades in one token, same ordering.
	GetByWalletMint(ctx context.Context, wallet, mint string) ([]*domain.MatchedTrade, error)
}

// LatencyRecordStore provides access to latency_records storage.
type LatencyRecordStore interface {
	// Insert adds a new record. Returns ErrDuplicateKey if record_id exists.
	Insert(ctx context.Context, r *domain.LatencyRecord) error

	// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, records []*domain.LatencyRecord) error

	// GetByCopyWallet retrieves all records for a copying wallet, ordered by copy_time ASC.
	GetByCopyWallet(ctx context.Context, copyWallet string) ([]*domain.LatencyRecord, error)

	// GetByPair retrieves records for a (target, copy) wallet pair, ordered by copy_time ASC.
	GetByPair(ctx context.Context, targetWallet, copyWallet string) ([]*domain.LatencyRecord, error)
}

// ReportStore provides access to performance report history.
type ReportStore interface {
	// Insert appends one run's report. Reports are never updated; each run
	// writes a new row distinguished by generated_at.
	Insert(ctx context.Context, r *domain.PerformanceReport) error

	// GetLatestByWallet retrieves the most recently generated report for a
	// wallet. Returns ErrNotFound if none exists.
	GetLatestByWallet(ctx context.Context, wallet string) (*domain.PerformanceReport, error)

	// GetByWallet retrieves all reports for a wallet, newest first.
	GetByWallet(ctx context.Context, wallet string) ([]*domain.PerformanceReport, error)
}
