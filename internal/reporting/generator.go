package reporting

import (
	"sort"
	"time"

	"solana-copytrade-lab/internal/analyzer"
	"solana-copytrade-lab/internal/domain"
)

// Generator turns an analysis result into a renderable report.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds the report for one run.
func (g *Generator) Generate(cfg analyzer.Config, result *analyzer.Result) *Report {
	return &Report{
		GeneratedAt:      g.now(),
		Wallet:           cfg.Wallet,
		TargetWallet:     cfg.TargetWallet,
		DataSummary:      generateDataSummary(result),
		Performance:      result.Report,
		Latency:          generateLatencySummary(result.LatencyRecords),
		DiagnosticCounts: countDiagnostics(result.Diagnostics),
		Trades:           result.Trades,
		LatencyRecords:   result.LatencyRecords,
	}
}

func generateDataSummary(result *analyzer.Result) DataSummary {
	s := DataSummary{
		EventCount:         len(result.Events),
		TradeCount:         len(result.Trades),
		ExcludedTradeCount: len(result.ExcludedTrades),
		DiagnosticCount:    len(result.Diagnostics),
	}
	for _, ev := range result.Events {
		if s.FirstEventTime == 0 || ev.Timestamp < s.FirstEventTime {
			s.FirstEventTime = ev.Timestamp
		}
		if ev.Timestamp > s.LastEventTime {
			s.LastEventTime = ev.Timestamp
		}
	}
	return s
}

func generateLatencySummary(records []*domain.LatencyRecord) LatencySummary {
	s := LatencySummary{RecordCount: len(records)}
	if len(records) == 0 {
		return s
	}

	slots := make([]int64, 0, len(records))
	var slotSum, timeSum float64
	for _, r := range records {
		slots = append(slots, r.SlotLatency)
		slotSum += float64(r.SlotLatency)
		timeSum += r.TimeLatencySeconds
		if r.TimeLatencySeconds > s.MaxTimeSeconds {
			s.MaxTimeSeconds = r.TimeLatencySeconds
		}
		if r.SlotLatency < 0 {
			s.NegativeSlotCount++
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	n := len(slots)
	if n%2 == 1 {
		s.MedianSlotLatency = float64(slots[n/2])
	} else {
		s.MedianSlotLatency = (float64(slots[n/2-1]) + float64(slots[n/2])) / 2
	}
	s.MeanSlotLatency = slotSum / float64(n)
	s.MeanTimeSeconds = timeSum / float64(n)
	return s
}

func countDiagnostics(diags []domain.Diagnostic) []DiagnosticCountRow {
	counts := make(map[domain.DiagnosticKind]int)
	for _, d := range diags {
		counts[d.Kind]++
	}

	rows := make([]DiagnosticCountRow, 0, len(counts))
	for kind, count := range counts {
		rows = append(rows, DiagnosticCountRow{Kind: kind, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Kind < rows[j].Kind })
	return rows
}
