package memory

import (
	"context"
	"sort"
	"sync"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/storage"
)

// LatencyRecordStore is an in-memory implementation of storage.LatencyRecordStore.
type LatencyRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.LatencyRecord // keyed by record_id
}

// NewLatencyRecordStore creates a new in-memory latency record store.
func NewLatencyRecordStore() *LatencyRecordStore {
	return &LatencyRecordStore{
		data: make(map[string]*domain.LatencyRecord),
	}
}

// Compile-time interface check.
var _ storage.LatencyRecordStore = (*LatencyRecordStore)(nil)

// Insert adds a new record. Returns ErrDuplicateKey if record_id exists.
func (s *LatencyRecordStore) Insert(_ context.Context, r *domain.LatencyRecord) error {
	if r == nil || r.RecordID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RecordID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *r
	s.data[r.RecordID] = &copy
	return nil
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *LatencyRecordStore) InsertBulk(_ context.Context, records []*domain.LatencyRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.RecordID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[r.RecordID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[r.RecordID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[r.RecordID] = struct{}{}
	}

	for _, r := range records {
		copy := *r
		s.data[r.RecordID] = &copy
	}
	return nil
}

// GetByCopyWallet retrieves all records for a copying wallet, ordered by copy_time ASC.
func (s *LatencyRecordStore) GetByCopyWallet(_ context.Context, copyWallet string) ([]*domain.LatencyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.LatencyRecord
	for _, r := range s.data {
		if r.CopyWallet == copyWallet {
			copy := *r
			result = append(result, &copy)
		}
	}

	sortRecords(result)
	return result, nil
}

// GetByPair retrieves records for a (target, copy) wallet pair, ordered by copy_time ASC.
func (s *LatencyRecordStore) GetByPair(_ context.Context, targetWallet, copyWallet string) ([]*domain.LatencyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.LatencyRecord
	for _, r := range s.data {
		if r.TargetWallet == targetWallet && r.CopyWallet == copyWallet {
			copy := *r
			result = append(result, &copy)
		}
	}

	sortRecords(result)
	return result, nil
}

func sortRecords(records []*domain.LatencyRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].CopyTime != records[j].CopyTime {
			return records[i].CopyTime < records[j].CopyTime
		}
		return records[i].RecordID < records[j].RecordID
	})
}
