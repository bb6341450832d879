package analyzer

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/metrics"
)

const (
	copyWallet   = "86xCnPeV69n6t3DnyGvkKobf9FdN2H9oiVDdaMpo2MMY"
	targetWallet = "5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1"
	bonkMint     = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
	wifMint      = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
)

// flatPayload builds the flat cached-trade record variant.
func flatPayload(sig string, ts, slot int64, tokenIn string, inAmt float64, tokenOut string, outAmt float64) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
		"signature": %q, "timestamp": %d, "slot": %d,
		"token_in": %q, "token_in_amount": %f,
		"token_out": %q, "token_out_amount": %f
	}`, sig, ts, slot, tokenIn, inAmt, tokenOut, outAmt))
}

func buyPayload(sig string, ts, slot int64, mint string, sol, tokens float64) json.RawMessage {
	return flatPayload(sig, ts, slot, domain.MintWSOL, sol, mint, tokens)
}

func sellPayload(sig string, ts, slot int64, mint string, tokens, sol float64) json.RawMessage {
	return flatPayload(sig, ts, slot, mint, tokens, domain.MintWSOL, sol)
}

func TestNewRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"empty wallet", Config{}},
		{"bad wallet", Config{Wallet: "nope"}},
		{"bad target", Config{Wallet: copyWallet, TargetWallet: "nope"}},
		{"negative window", Config{Wallet: copyWallet, LatencyWindow: -time.Second}},
		{"matched-only without target", Config{Wallet: copyWallet, FilterToMatchedOnly: true}},
		{"inverted outlier bounds", Config{
			Wallet:  copyWallet,
			Outlier: metrics.OutlierFilter{MinPnlPct: 10, MaxPnlPct: -10, Enabled: true},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(Options{Config: tc.cfg})
			assert.Error(t, err)
		})
	}
}

func TestRunEndToEnd(t *testing.T) {
	a, err := New(Options{Config: Config{Wallet: copyWallet}})
	require.NoError(t, err)

	result, err := a.Run(Input{Payloads: []json.RawMessage{
		buyPayload("buy-1", 1_700_000_000, 1000, bonkMint, 1.0, 100000),
		sellPayload("sell-1", 1_700_100_000, 1200, bonkMint, 100000, 1.5),
	}})
	require.NoError(t, err)

	require.Len(t, result.Trades, 1)
	assert.Empty(t, result.Diagnostics)
	assert.InDelta(t, 0.5, result.Trades[0].Profit, 1e-12)

	require.NotNil(t, result.Report)
	assert.Equal(t, copyWallet, result.Report.Wallet)
	assert.Equal(t, 1, result.Report.TradeCount)
	assert.InDelta(t, 0.5, result.Report.TotalProfit, 1e-12)
}

func TestRunDeterministic(t *testing.T) {
	input := Input{Payloads: []json.RawMessage{
		buyPayload("buy-1", 1_700_000_000, 1000, bonkMint, 1.0, 100000),
		sellPayload("sell-1", 1_700_100_000, 1200, bonkMint, 100000, 1.5),
		buyPayload("buy-2", 1_700_200_000, 1400, wifMint, 2.0, 50),
		sellPayload("sell-2", 1_700_300_000, 1600, wifMint, 50, 1.0),
	}}

	a, err := New(Options{Config: Config{Wallet: copyWallet}})
	require.NoError(t, err)

	first, err := a.Run(input)
	require.NoError(t, err)
	second, err := a.Run(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunLatencyAndMatchedOnlyFilter(t *testing.T) {
	a, err := New(Options{Config: Config{
		Wallet:              copyWallet,
		TargetWallet:        targetWallet,
		LatencyWindow:       5 * time.Minute,
		FilterToMatchedOnly: true,
	}})
	require.NoError(t, err)

	input := Input{
		// BONK entry copies the target; the WIF position is the wallet's own.
		Payloads: []json.RawMessage{
			buyPayload("cpy-buy-bonk", 1_700_000_010, 1005, bonkMint, 1.0, 100000),
			sellPayload("cpy-sell-bonk", 1_700_100_000, 1200, bonkMint, 100000, 2.0),
			buyPayload("cpy-buy-wif", 1_700_000_020, 1006, wifMint, 1.0, 50),
			sellPayload("cpy-sell-wif", 1_700_100_100, 1201, wifMint, 50, 3.0),
		},
		TargetPayloads: []json.RawMessage{
			buyPayload("tgt-buy-bonk", 1_700_000_000, 1000, bonkMint, 10.0, 1000000),
		},
	}

	result, err := a.Run(input)
	require.NoError(t, err)

	require.Len(t, result.LatencyRecords, 1)
	rec := result.LatencyRecords[0]
	assert.Equal(t, bonkMint, rec.Mint)
	assert.Equal(t, int64(5), rec.SlotLatency)
	assert.Equal(t, 10.0, rec.TimeLatencySeconds)

	// WIF had no target entry: excluded from performance, flagged.
	require.Len(t, result.Trades, 1)
	assert.Equal(t, bonkMint, result.Trades[0].Mint)

	var kinds []domain.DiagnosticKind
	for _, d := range result.Diagnostics {
		kinds = append(kinds, d.Kind)
	}
	assert.Contains(t, kinds, domain.DiagLatencyNoTarget)
}

func TestRunOutlierFilterSplitsTrades(t *testing.T) {
	a, err := New(Options{Config: Config{
		Wallet:  copyWallet,
		Outlier: metrics.OutlierFilter{MinPnlPct: -80, MaxPnlPct: 100, Enabled: true},
	}})
	require.NoError(t, err)

	result, err := a.Run(Input{Payloads: []json.RawMessage{
		// +50% stays, +900% is excluded.
		buyPayload("buy-1", 1_700_000_000, 1000, bonkMint, 1.0, 100),
		sellPayload("sell-1", 1_700_100_000, 1200, bonkMint, 100, 1.5),
		buyPayload("buy-2", 1_700_200_000, 1400, wifMint, 1.0, 50),
		sellPayload("sell-2", 1_700_300_000, 1600, wifMint, 50, 10.0),
	}})
	require.NoError(t, err)

	require.Len(t, result.Trades, 1)
	require.Len(t, result.ExcludedTrades, 1)
	assert.Equal(t, wifMint, result.ExcludedTrades[0].Mint)
	assert.Equal(t, 1, result.Report.TradeCount)
}

func TestRunEmptyInput(t *testing.T) {
	a, err := New(Options{Config: Config{Wallet: copyWallet}})
	require.NoError(t, err)

	result, err := a.Run(Input{})
	require.NoError(t, err)

	assert.Empty(t, result.Trades)
	assert.Empty(t, result.Diagnostics)
	require.NotNil(t, result.Report)
	assert.Equal(t, 0, result.Report.TradeCount)
}
