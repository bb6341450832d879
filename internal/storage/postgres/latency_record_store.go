package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/storage"
)

// LatencyRecordStore implements storage.LatencyRecordStore using PostgreSQL.
type LatencyRecordStore struct {
	pool *Pool
}

// NewLatencyRecordStore creates a new LatencyRecordStore.
func NewLatencyRecordStore(pool *Pool) *LatencyRecordStore {
	return &LatencyRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LatencyRecordStore = (*LatencyRecordStore)(nil)

const latencyRecordColumns = `
	record_id, mint, symbol,
	target_wallet, copy_wallet, target_signature, copy_signature,
	target_slot, copy_slot, slot_latency,
	target_time, copy_time, time_latency_seconds
`

const insertLatencyRecordQuery = `
	INSERT INTO latency_records (` + latencyRecordColumns + `
	) VALUES (
		$1, $2, $3,
		$4, $5, $6, $7,
		$8, $9, $10,
		$11, $12, $13
	)
`

func latencyRecordArgs(r *domain.LatencyRecord) []interface{} {
	return []interface{}{
		r.RecordID, r.Mint, r.Symbol,
		r.TargetWallet, r.CopyWallet, r.TargetSignature, r.CopySignature,
		r.TargetSlot, r.CopySlot, r.SlotLatency,
		r.TargetTime, r.CopyTime, r.TimeLatencySeconds,
	}
}

// Insert adds a new record. Returns ErrDuplicateKey if record_id exists.
func (s *LatencyRecordStore) Insert(ctx context.Context, r *domain.LatencyRecord) error {
	_, err := s.pool.Exec(ctx, insertLatencyRecordQuery, latencyRecordArgs(r)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert latency record: %w", err)
	}
	return nil
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *LatencyRecordStore) InsertBulk(ctx context.Context, records []*domain.LatencyRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		if _, err := tx.Exec(ctx, insertLatencyRecordQuery, latencyRecordArgs(r)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert latency record in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByCopyWallet retrieves all records for a copying wallet, ordered by copy_time ASC.
func (s *LatencyRecordStore) GetByCopyWallet(ctx context.Context, copyWallet string) ([]*domain.LatencyRecord, error) {
	query := `
		SELECT ` + latencyRecordColumns + `
		FROM latency_records
		WHERE copy_wallet = $1
		ORDER BY copy_time ASC, record_id ASC
	`

	rows, err := s.pool.Query(ctx, query, copyWallet)
	if err != nil {
		return nil, fmt.Errorf("get latency records by copy wallet: %w", err)
	}
	defer rows.Close()

	return scanLatencyRecords(rows)
}

// GetByPair retrieves records for a (target, copy) wallet pair, ordered by copy_time ASC.
func (s *LatencyRecordStore) GetByPair(ctx context.Context, targetWallet, copyWallet string) ([]*domain.LatencyRecord, error) {
	query := `
		SELECT ` + latencyRecordColumns + `
		FROM latency_records
		WHERE target_wallet = $1 AND copy_wallet = $2
		ORDER BY copy_time ASC, record_id ASC
	`

	rows, err := s.pool.Query(ctx, query, targetWallet, copyWallet)
	if err != nil {
		return nil, fmt.Errorf("get latency records by pair: %w", err)
	}
	defer rows.Close()

	return scanLatencyRecords(rows)
}

// scanLatencyRecords scans rows into a slice of LatencyRecord.
func scanLatencyRecords(rows pgx.Rows) ([]*domain.LatencyRecord, error) {
	var records []*domain.LatencyRecord

	for rows.Next() {
		var r domain.LatencyRecord
		err := rows.Scan(
			&r.RecordID, &r.Mint, &r.Symbol,
			&r.TargetWallet, &r.CopyWallet, &r.TargetSignature, &r.CopySignature,
			&r.TargetSlot, &r.CopySlot, &r.SlotLatency,
			&r.TargetTime, &r.CopyTime, &r.TimeLatencySeconds,
		)
		if err != nil {
			return nil, fmt.Errorf("scan latency record row: %w", err)
		}
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate latency record rows: %w", err)
	}
	return records, nil
}
