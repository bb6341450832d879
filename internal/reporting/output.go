package reporting

import (
	"fmt"
	"os"
	"path/filepath"
)

// Output file names within the run directory.
const (
	ReportFileName     = "REPORT.md"
	TradesCSVFileName  = "matched_trades.csv"
	LatencyCSVFileName = "latency_records.csv"
)

// WriteFiles writes the markdown report and CSV exports into dir,
// creating it if needed. The latency CSV is only written when the run
// produced latency records.
func WriteFiles(dir string, r *Report) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	reportPath := filepath.Join(dir, ReportFileName)
	if err := os.WriteFile(reportPath, []byte(RenderMarkdown(r)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", ReportFileName, err)
	}

	tradesPath := filepath.Join(dir, TradesCSVFileName)
	if err := os.WriteFile(tradesPath, []byte(RenderTradesCSV(r.Trades)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", TradesCSVFileName, err)
	}

	if len(r.LatencyRecords) > 0 {
		latencyPath := filepath.Join(dir, LatencyCSVFileName)
		if err := os.WriteFile(latencyPath, []byte(RenderLatencyCSV(r.LatencyRecords)), 0644); err != nil {
			return fmt.Errorf("write %s: %w", LatencyCSVFileName, err)
		}
	}

	return nil
}
