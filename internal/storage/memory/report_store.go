package memory

import (
	"context"
	"sort"
	"sync"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/storage"
)

// ReportStore is an in-memory implementation of storage.ReportStore.
type ReportStore struct {
	mu   sync.RWMutex
	data []*domain.PerformanceReport
}

// NewReportStore creates a new in-memory report store.
func NewReportStore() *ReportStore {
	return &ReportStore{}
}

// Compile-time interface check.
var _ storage.ReportStore = (*ReportStore)(nil)

// Insert appends one run's report.
func (s *ReportStore) Insert(_ context.Context, r *domain.PerformanceReport) error {
	if r == nil || r.Wallet == "" || r.GeneratedAt == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := cloneReport(r)
	s.data = append(s.data, copy)
	return nil
}

// GetLatestByWallet retrieves the most recently generated report for a wallet.
func (s *ReportStore) GetLatestByWallet(_ context.Context, wallet string) (*domain.PerformanceReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.PerformanceReport
	for _, r := range s.data {
		if r.Wallet != wallet {
			continue
		}
		if latest == nil || r.GeneratedAt > latest.GeneratedAt {
			latest = r
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}
	return cloneReport(latest), nil
}

// GetByWallet retrieves all reports for a wallet, newest first.
func (s *ReportStore) GetByWallet(_ context.Context, wallet string) ([]*domain.PerformanceReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PerformanceReport
	for _, r := range s.data {
		if r.Wallet == wallet {
			result = append(result, cloneReport(r))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].GeneratedAt > result[j].GeneratedAt
	})
	return result, nil
}

// cloneReport deep-copies a report including its cumulative curve.
func cloneReport(r *domain.PerformanceReport) *domain.PerformanceReport {
	copy := *r
	if r.CumulativeProfit != nil {
		copy.CumulativeProfit = append([]float64(nil), r.CumulativeProfit...)
	}
	return &copy
}
