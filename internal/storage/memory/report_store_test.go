package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/storage"
)

func testReport(generatedAt int64, totalProfit float64) *domain.PerformanceReport {
	return &domain.PerformanceReport{
		Wallet:           testWallet,
		GeneratedAt:      generatedAt,
		TradeCount:       3,
		TotalProfit:      totalProfit,
		CumulativeProfit: []float64{1, 2, totalProfit},
	}
}

func TestReportStoreLatest(t *testing.T) {
	s := NewReportStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testReport(100, 1.0)))
	require.NoError(t, s.Insert(ctx, testReport(300, 3.0)))
	require.NoError(t, s.Insert(ctx, testReport(200, 2.0)))

	latest, err := s.GetLatestByWallet(ctx, testWallet)
	require.NoError(t, err)
	assert.Equal(t, int64(300), latest.GeneratedAt)
	assert.Equal(t, 3.0, latest.TotalProfit)

	_, err = s.GetLatestByWallet(ctx, "unknown")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReportStoreHistoryNewestFirst(t *testing.T) {
	s := NewReportStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testReport(100, 1.0)))
	require.NoError(t, s.Insert(ctx, testReport(200, 2.0)))

	reports, err := s.GetByWallet(ctx, testWallet)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, int64(200), reports[0].GeneratedAt)
	assert.Equal(t, int64(100), reports[1].GeneratedAt)
}

func TestReportStoreInvalidInput(t *testing.T) {
	s := NewReportStore()
	ctx := context.Background()

	assert.ErrorIs(t, s.Insert(ctx, nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, s.Insert(ctx, &domain.PerformanceReport{Wallet: testWallet}), storage.ErrInvalidInput)
}

func TestReportStoreCopiesCumulativeCurve(t *testing.T) {
	s := NewReportStore()
	ctx := context.Background()

	r := testReport(100, 3.0)
	require.NoError(t, s.Insert(ctx, r))
	r.CumulativeProfit[0] = -99

	got, err := s.GetLatestByWallet(ctx, testWallet)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.CumulativeProfit[0])
}
