package reporting

import (
	"time"

	"solana-copytrade-lab/internal/domain"
)

// Report is the rendered view of a single analysis run.
type Report struct {
	// Metadata
	GeneratedAt  time.Time
	Wallet       string
	TargetWallet string // empty when latency analysis was not requested

	// Data Summary
	DataSummary DataSummary

	// Performance metrics for the kept trade set
	Performance *domain.PerformanceReport

	// Latency summary, zero-valued when no target wallet was given
	Latency LatencySummary

	// Diagnostics grouped by kind (sorted by kind)
	DiagnosticCounts []DiagnosticCountRow

	// Row data for the CSV exports
	Trades         []*domain.MatchedTrade
	LatencyRecords []*domain.LatencyRecord
}

// DataSummary describes what went in and what came out of the run.
type DataSummary struct {
	EventCount         int
	TradeCount         int
	ExcludedTradeCount int
	DiagnosticCount    int
	FirstEventTime     int64 // Unix ms, 0 when no events
	LastEventTime      int64 // Unix ms, 0 when no events
}

// LatencySummary aggregates the copy-delay records of one run.
type LatencySummary struct {
	RecordCount       int
	MeanSlotLatency   float64
	MedianSlotLatency float64
	MeanTimeSeconds   float64
	MaxTimeSeconds    float64
	NegativeSlotCount int
}

// DiagnosticCountRow is one row in the diagnostics table.
type DiagnosticCountRow struct {
	Kind  domain.DiagnosticKind
	Count int
}
