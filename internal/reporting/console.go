package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderText renders a compact console summary of one run.
func RenderText(r *Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Wallet analysis: %s\n", r.Wallet))
	sb.WriteString(fmt.Sprintf("Generated:       %s\n", r.GeneratedAt.Format(time.RFC3339)))
	if r.TargetWallet != "" {
		sb.WriteString(fmt.Sprintf("Target wallet:   %s\n", r.TargetWallet))
	}
	sb.WriteString("\n")

	sb.WriteString("Data\n")
	sb.WriteString(fmt.Sprintf("  events: %d  trades: %d  excluded: %d  diagnostics: %d\n",
		r.DataSummary.EventCount, r.DataSummary.TradeCount,
		r.DataSummary.ExcludedTradeCount, r.DataSummary.DiagnosticCount))
	sb.WriteString("\n")

	p := r.Performance
	if p == nil || p.TradeCount == 0 {
		sb.WriteString("No matched trades.\n")
		return sb.String()
	}

	sb.WriteString("Profit/Loss\n")
	sb.WriteString(fmt.Sprintf("  trades: %d  tokens: %d  win rate: %.1f%%\n",
		p.TradeCount, p.UniqueMints, p.WinRate*100))
	sb.WriteString(fmt.Sprintf("  pnl%%: mean %.2f  median %.2f  best %.2f  worst %.2f\n",
		p.MeanPnlPct, p.MedianPnlPct, p.BestPnlPct, p.WorstPnlPct))
	sb.WriteString(fmt.Sprintf("  total profit: %.6f\n", p.TotalProfit))
	sb.WriteString("\n")

	sb.WriteString("Hold time (days)\n")
	sb.WriteString(fmt.Sprintf("  mean %.2f  median %.2f  min %.2f  max %.2f\n",
		p.MeanHoldDays, p.MedianHoldDays, p.MinHoldDays, p.MaxHoldDays))
	sb.WriteString("\n")

	sb.WriteString("Risk\n")
	sb.WriteString(fmt.Sprintf("  sharpe: %.4f  trades/year: %.1f\n", p.Sharpe, p.TradesPerYear))
	sb.WriteString(fmt.Sprintf("  max drawdown: %.6f (%.2f%%) over %.2f days\n",
		p.MaxDrawdown.Abs, p.MaxDrawdown.Pct, p.MaxDrawdown.DurationDays()))
	sb.WriteString(fmt.Sprintf("  max draw-up:  %.6f (%.2f%%) over %.2f days\n",
		p.MaxDrawup.Abs, p.MaxDrawup.Pct, p.MaxDrawup.DurationDays()))

	if r.Latency.RecordCount > 0 {
		sb.WriteString("\n")
		sb.WriteString("Copy latency\n")
		sb.WriteString(fmt.Sprintf("  matched: %d  mean slots: %.1f  median slots: %.1f\n",
			r.Latency.RecordCount, r.Latency.MeanSlotLatency, r.Latency.MedianSlotLatency))
		sb.WriteString(fmt.Sprintf("  mean delay: %.2fs  max delay: %.2fs  negative slot deltas: %d\n",
			r.Latency.MeanTimeSeconds, r.Latency.MaxTimeSeconds, r.Latency.NegativeSlotCount))
	}

	return sb.String()
}
