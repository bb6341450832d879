package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"solana-copytrade-lab/internal/analyzer"
	"solana-copytrade-lab/internal/domain"
)

func TestRenderText(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	gen := NewGenerator().WithClock(func() time.Time { return fixed })
	cfg := analyzer.Config{Wallet: testWallet, TargetWallet: testTarget}

	text := RenderText(gen.Generate(cfg, testResult()))

	assert.Contains(t, text, "Wallet analysis: "+testWallet)
	assert.Contains(t, text, "Target wallet:   "+testTarget)
	assert.Contains(t, text, "win rate: 100.0%")
	assert.Contains(t, text, "total profit: 0.500000")
	assert.Contains(t, text, "Copy latency")
	assert.Contains(t, text, "negative slot deltas: 1")
}

func TestRenderTextNoTrades(t *testing.T) {
	gen := NewGenerator()
	cfg := analyzer.Config{Wallet: testWallet}

	text := RenderText(gen.Generate(cfg, &analyzer.Result{Report: &domain.PerformanceReport{}}))

	assert.Contains(t, text, "No matched trades.")
	assert.NotContains(t, text, "Copy latency")
}
