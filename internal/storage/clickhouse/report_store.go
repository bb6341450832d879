package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/storage"
)

// ReportStore implements storage.ReportStore using ClickHouse. Reports are
// a naturally append-only run history, which is what MergeTree is for.
type ReportStore struct {
	conn *Conn
}

// NewReportStore creates a new ReportStore.
func NewReportStore(conn *Conn) *ReportStore {
	return &ReportStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ReportStore = (*ReportStore)(nil)

const reportColumns = `
	wallet, generated_at, trade_count, unique_mints,
	first_buy_time, last_sell_time,
	mean_pnl_pct, median_pnl_pct, best_pnl_pct, worst_pnl_pct,
	win_rate, total_profit,
	mean_hold_days, median_hold_days, min_hold_days, max_hold_days,
	sharpe, trades_per_year,
	max_drawdown_abs, max_drawdown_pct, max_drawdown_start, max_drawdown_end,
	max_drawup_abs, max_drawup_pct, max_drawup_start, max_drawup_end,
	cumulative_profit
`

// Insert appends one run's report.
func (s *ReportStore) Insert(ctx context.Context, r *domain.PerformanceReport) error {
	if r == nil || r.Wallet == "" || r.GeneratedAt == 0 {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO performance_reports (` + reportColumns + `
		) VALUES (
			?, ?, ?, ?,
			?, ?,
			?, ?, ?, ?,
			?, ?,
			?, ?, ?, ?,
			?, ?,
			?, ?, ?, ?,
			?, ?, ?, ?,
			?
		)
	`

	err := s.conn.Exec(ctx, query,
		r.Wallet, r.GeneratedAt, uint32(r.TradeCount), uint32(r.UniqueMints),
		r.FirstBuyTime, r.LastSellTime,
		r.MeanPnlPct, r.MedianPnlPct, r.BestPnlPct, r.WorstPnlPct,
		r.WinRate, r.TotalProfit,
		r.MeanHoldDays, r.MedianHoldDays, r.MinHoldDays, r.MaxHoldDays,
		r.Sharpe, r.TradesPerYear,
		r.MaxDrawdown.Abs, r.MaxDrawdown.Pct, r.MaxDrawdown.StartTime, r.MaxDrawdown.EndTime,
		r.MaxDrawup.Abs, r.MaxDrawup.Pct, r.MaxDrawup.StartTime, r.MaxDrawup.EndTime,
		r.CumulativeProfit,
	)
	if err != nil {
		return fmt.Errorf("insert performance report: %w", err)
	}
	return nil
}

// GetLatestByWallet retrieves the most recently generated report for a wallet.
func (s *ReportStore) GetLatestByWallet(ctx context.Context, wallet string) (*domain.PerformanceReport, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM performance_reports
		WHERE wallet = ?
		ORDER BY generated_at DESC
		LIMIT 1
	`

	rows, err := s.conn.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("get latest report: %w", err)
	}
	defer rows.Close()

	reports, err := scanReports(rows)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, storage.ErrNotFound
	}
	return reports[0], nil
}

// GetByWallet retrieves all reports for a wallet, newest first.
func (s *ReportStore) GetByWallet(ctx context.Context, wallet string) ([]*domain.PerformanceReport, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM performance_reports
		WHERE wallet = ?
		ORDER BY generated_at DESC
	`

	rows, err := s.conn.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("get reports by wallet: %w", err)
	}
	defer rows.Close()

	return scanReports(rows)
}

// scanReports scans rows into PerformanceReports.
func scanReports(rows driver.Rows) ([]*domain.PerformanceReport, error) {
	var reports []*domain.PerformanceReport

	for rows.Next() {
		var (
			r          domain.PerformanceReport
			tradeCount uint32
			mints      uint32
		)

		err := rows.Scan(
			&r.Wallet, &r.GeneratedAt, &tradeCount, &mints,
			&r.FirstBuyTime, &r.LastSellTime,
			&r.MeanPnlPct, &r.MedianPnlPct, &r.BestPnlPct, &r.WorstPnlPct,
			&r.WinRate, &r.TotalProfit,
			&r.MeanHoldDays, &r.MedianHoldDays, &r.MinHoldDays, &r.MaxHoldDays,
			&r.Sharpe, &r.TradesPerYear,
			&r.MaxDrawdown.Abs, &r.MaxDrawdown.Pct, &r.MaxDrawdown.StartTime, &r.MaxDrawdown.EndTime,
			&r.MaxDrawup.Abs, &r.MaxDrawup.Pct, &r.MaxDrawup.StartTime, &r.MaxDrawup.EndTime,
			&r.CumulativeProfit,
		)
		if err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}

		r.TradeCount = int(tradeCount)
		r.UniqueMints = int(mints)
		reports = append(reports, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report rows: %w", err)
	}
	return reports, nil
}
