package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Wallet Analysis Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Wallet: `%s`\n\n", r.Wallet))
	if r.TargetWallet != "" {
		sb.WriteString(fmt.Sprintf("Target wallet: `%s`\n\n", r.TargetWallet))
	}

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Swap Events | %d |\n", r.DataSummary.EventCount))
	sb.WriteString(fmt.Sprintf("| Matched Trades | %d |\n", r.DataSummary.TradeCount))
	sb.WriteString(fmt.Sprintf("| Excluded Trades | %d |\n", r.DataSummary.ExcludedTradeCount))
	sb.WriteString(fmt.Sprintf("| Diagnostics | %d |\n", r.DataSummary.DiagnosticCount))
	sb.WriteString(fmt.Sprintf("| First Event (ms) | %d |\n", r.DataSummary.FirstEventTime))
	sb.WriteString(fmt.Sprintf("| Last Event (ms) | %d |\n", r.DataSummary.LastEventTime))
	sb.WriteString("\n")

	// Performance
	sb.WriteString("## Performance\n\n")
	if p := r.Performance; p != nil && p.TradeCount > 0 {
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Trades | %d |\n", p.TradeCount))
		sb.WriteString(fmt.Sprintf("| Unique Tokens | %d |\n", p.UniqueMints))
		sb.WriteString(fmt.Sprintf("| Win Rate | %.4f |\n", p.WinRate))
		sb.WriteString(fmt.Sprintf("| Mean PnL %% | %.4f |\n", p.MeanPnlPct))
		sb.WriteString(fmt.Sprintf("| Median PnL %% | %.4f |\n", p.MedianPnlPct))
		sb.WriteString(fmt.Sprintf("| Best PnL %% | %.4f |\n", p.BestPnlPct))
		sb.WriteString(fmt.Sprintf("| Worst PnL %% | %.4f |\n", p.WorstPnlPct))
		sb.WriteString(fmt.Sprintf("| Total Profit | %.6f |\n", p.TotalProfit))
		sb.WriteString(fmt.Sprintf("| Mean Hold (days) | %.4f |\n", p.MeanHoldDays))
		sb.WriteString(fmt.Sprintf("| Median Hold (days) | %.4f |\n", p.MedianHoldDays))
		sb.WriteString(fmt.Sprintf("| Sharpe (annualized) | %.4f |\n", p.Sharpe))
		sb.WriteString(fmt.Sprintf("| Trades/Year | %.2f |\n", p.TradesPerYear))
		sb.WriteString(fmt.Sprintf("| Max Drawdown | %.6f (%.2f%%) over %.2f days |\n",
			p.MaxDrawdown.Abs, p.MaxDrawdown.Pct, p.MaxDrawdown.DurationDays()))
		sb.WriteString(fmt.Sprintf("| Max Draw-up | %.6f (%.2f%%) over %.2f days |\n",
			p.MaxDrawup.Abs, p.MaxDrawup.Pct, p.MaxDrawup.DurationDays()))
	} else {
		sb.WriteString("No matched trades available.\n")
	}
	sb.WriteString("\n")

	// Latency
	if r.TargetWallet != "" {
		sb.WriteString("## Copy Latency\n\n")
		if r.Latency.RecordCount > 0 {
			sb.WriteString("| Metric | Value |\n")
			sb.WriteString("|--------|-------|\n")
			sb.WriteString(fmt.Sprintf("| Matched Entries | %d |\n", r.Latency.RecordCount))
			sb.WriteString(fmt.Sprintf("| Mean Slot Latency | %.2f |\n", r.Latency.MeanSlotLatency))
			sb.WriteString(fmt.Sprintf("| Median Slot Latency | %.2f |\n", r.Latency.MedianSlotLatency))
			sb.WriteString(fmt.Sprintf("| Mean Time Latency (s) | %.3f |\n", r.Latency.MeanTimeSeconds))
			sb.WriteString(fmt.Sprintf("| Max Time Latency (s) | %.3f |\n", r.Latency.MaxTimeSeconds))
			sb.WriteString(fmt.Sprintf("| Negative Slot Deltas | %d |\n", r.Latency.NegativeSlotCount))
		} else {
			sb.WriteString("No latency records available.\n")
		}
		sb.WriteString("\n")
	}

	// Diagnostics
	sb.WriteString("## Diagnostics\n\n")
	if len(r.DiagnosticCounts) > 0 {
		sb.WriteString("| Kind | Count |\n")
		sb.WriteString("|------|-------|\n")
		for _, row := range r.DiagnosticCounts {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", row.Kind, row.Count))
		}
	} else {
		sb.WriteString("No diagnostics recorded.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
