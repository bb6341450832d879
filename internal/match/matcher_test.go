package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-copytrade-lab/internal/domain"
)

const (
	testWallet = "86xCnPeV69n6t3DnyGvkKobf9FdN2H9oiVDdaMpo2MMY"
	testMint   = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
)

type legSpec struct {
	dir        domain.Direction
	amount     float64
	baseAmount float64
	currency   domain.BaseCurrency
	slot       int64
	sig        string
}

func makeEvent(s legSpec) *domain.SwapEvent {
	cur := s.currency
	if cur == "" {
		cur = domain.BaseSOL
	}
	return &domain.SwapEvent{
		Wallet:       testWallet,
		Mint:         testMint,
		Symbol:       "BONK",
		Direction:    s.dir,
		Amount:       s.amount,
		BaseCurrency: cur,
		BaseAmount:   s.baseAmount,
		Timestamp:    s.slot * 1000,
		Slot:         s.slot,
		Signature:    s.sig,
	}
}

func TestExactFIFOMatch(t *testing.T) {
	m := NewMatcher(testWallet)
	trades, diags := m.MatchAll([]*domain.SwapEvent{
		makeEvent(legSpec{dir: domain.DirectionBuy, amount: 1000, baseAmount: 1.0, slot: 100, sig: "buy-1"}),
		makeEvent(legSpec{dir: domain.DirectionSell, amount: 1000, baseAmount: 1.5, slot: 200, sig: "sell-1"}),
	})

	require.Len(t, trades, 1)
	assert.Empty(t, diags)

	tr := trades[0]
	assert.Equal(t, 1000.0, tr.MatchedAmount)
	assert.Equal(t, 1.0, tr.Cost)
	assert.Equal(t, 1.5, tr.Proceeds)
	assert.InDelta(t, 0.5, tr.Profit, 1e-12)
	assert.InDelta(t, 50.0, tr.PnlPct, 1e-12)
	assert.False(t, tr.IsPartial)
	assert.Equal(t, int64(100_000), tr.HoldMs)
	assert.Empty(t, m.Pending(testMint))
}

func TestSellSpansTwoBuys(t *testing.T) {
	m := NewMatcher(testWallet)
	trades, diags := m.MatchAll([]*domain.SwapEvent{
		makeEvent(legSpec{dir: domain.DirectionBuy, amount: 100, baseAmount: 1.0, slot: 100, sig: "buy-1"}),
		makeEvent(legSpec{dir: domain.DirectionBuy, amount: 50, baseAmount: 0.6, slot: 110, sig: "buy-2"}),
		makeEvent(legSpec{dir: domain.DirectionSell, amount: 120, baseAmount: 2.4, slot: 200, sig: "sell-1"}),
	})

	require.Len(t, trades, 2)
	assert.Empty(t, diags)

	// First trade fully consumes the oldest lot.
	assert.Equal(t, "buy-1", trades[0].BuySignature)
	assert.Equal(t, 100.0, trades[0].MatchedAmount)
	assert.Equal(t, 1.0, trades[0].Cost)
	assert.InDelta(t, 2.0, trades[0].Proceeds, 1e-12) // 2.4 * 100/120
	assert.True(t, trades[0].IsPartial)

	// Second trade takes 20 of the 50-token lot.
	assert.Equal(t, "buy-2", trades[1].BuySignature)
	assert.Equal(t, 20.0, trades[1].MatchedAmount)
	assert.InDelta(t, 0.24, trades[1].Cost, 1e-12) // 0.6 * 20/50
	assert.InDelta(t, 0.4, trades[1].Proceeds, 1e-12)
	assert.True(t, trades[1].IsPartial)

	pending := m.Pending(testMint)
	require.Len(t, pending, 1)
	assert.Equal(t, "buy-2", pending[0].Event.Signature)
	assert.Equal(t, 30.0, pending[0].Remaining)
}

func TestSellSmallerThanBuyIsPartial(t *testing.T) {
	m := NewMatcher(testWallet)
	trades, diags := m.MatchAll([]*domain.SwapEvent{
		makeEvent(legSpec{dir: domain.DirectionBuy, amount: 20, baseAmount: 2.0, slot: 100, sig: "buy-1"}),
		makeEvent(legSpec{dir: domain.DirectionSell, amount: 15, baseAmount: 1.8, slot: 200, sig: "sell-1"}),
	})

	require.Len(t, trades, 1)
	assert.Empty(t, diags)

	// The sell is fully consumed, but the buy lot is not: still partial.
	tr := trades[0]
	assert.Equal(t, 15.0, tr.MatchedAmount)
	assert.Equal(t, 15.0, tr.SellAmount)
	assert.True(t, tr.IsPartial)

	pending := m.Pending(testMint)
	require.Len(t, pending, 1)
	assert.Equal(t, 5.0, pending[0].Remaining)
}

func TestPartialSellLeavesResidualLot(t *testing.T) {
	m := NewMatcher(testWallet)
	trades, diags := m.MatchAll([]*domain.SwapEvent{
		makeEvent(legSpec{dir: domain.DirectionBuy, amount: 1000, baseAmount: 2.0, slot: 100, sig: "buy-1"}),
		makeEvent(legSpec{dir: domain.DirectionSell, amount: 400, baseAmount: 1.0, slot: 200, sig: "sell-1"}),
	})

	require.Len(t, trades, 1)
	assert.Empty(t, diags)
	assert.Equal(t, 400.0, trades[0].MatchedAmount)
	assert.InDelta(t, 0.8, trades[0].Cost, 1e-12)
	assert.Equal(t, 1.0, trades[0].Proceeds)
	assert.True(t, trades[0].IsPartial)

	pending := m.Pending(testMint)
	require.Len(t, pending, 1)
	assert.Equal(t, 600.0, pending[0].Remaining)
}

func TestSellWithoutBuyIsUnmatched(t *testing.T) {
	m := NewMatcher(testWallet)
	trades, diags := m.MatchAll([]*domain.SwapEvent{
		makeEvent(legSpec{dir: domain.DirectionSell, amount: 500, baseAmount: 1.0, slot: 100, sig: "sell-1"}),
	})

	assert.Empty(t, trades)
	require.Len(t, diags, 1)
	assert.Equal(t, domain.DiagUnmatchedSell, diags[0].Kind)
}

func TestCurrencyMismatchDiscardsBuyLot(t *testing.T) {
	m := NewMatcher(testWallet)
	trades, diags := m.MatchAll([]*domain.SwapEvent{
		makeEvent(legSpec{dir: domain.DirectionBuy, amount: 100, baseAmount: 1.0, currency: domain.BaseSOL, slot: 100, sig: "buy-sol"}),
		makeEvent(legSpec{dir: domain.DirectionBuy, amount: 100, baseAmount: 50.0, currency: domain.BaseUSDC, slot: 110, sig: "buy-usdc"}),
		makeEvent(legSpec{dir: domain.DirectionSell, amount: 100, baseAmount: 60.0, currency: domain.BaseUSDC, slot: 200, sig: "sell-usdc"}),
	})

	// The SOL lot is skipped with a diagnostic; the USDC lot matches cleanly.
	require.Len(t, trades, 1)
	assert.Equal(t, "buy-usdc", trades[0].BuySignature)
	assert.Equal(t, domain.BaseUSDC, trades[0].BaseCurrency)
	assert.InDelta(t, 10.0, trades[0].Profit, 1e-12)

	require.Len(t, diags, 1)
	assert.Equal(t, domain.DiagCurrencyMismatch, diags[0].Kind)
}

func TestZeroCostBuyYieldsZeroPnlPct(t *testing.T) {
	m := NewMatcher(testWallet)
	trades, _ := m.MatchAll([]*domain.SwapEvent{
		makeEvent(legSpec{dir: domain.DirectionBuy, amount: 100, baseAmount: 0, slot: 100, sig: "buy-free"}),
		makeEvent(legSpec{dir: domain.DirectionSell, amount: 100, baseAmount: 1.0, slot: 200, sig: "sell-1"}),
	})

	require.Len(t, trades, 1)
	assert.Equal(t, 0.0, trades[0].Cost)
	assert.Equal(t, 1.0, trades[0].Profit)
	assert.Equal(t, 0.0, trades[0].PnlPct)
}

func TestTradeIDsDeterministicAcrossRuns(t *testing.T) {
	events := []*domain.SwapEvent{
		makeEvent(legSpec{dir: domain.DirectionBuy, amount: 100, baseAmount: 1.0, slot: 100, sig: "buy-1"}),
		makeEvent(legSpec{dir: domain.DirectionSell, amount: 100, baseAmount: 1.2, slot: 200, sig: "sell-1"}),
	}

	first, _ := NewMatcher(testWallet).MatchAll(events)
	second, _ := NewMatcher(testWallet).MatchAll(events)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].TradeID, second[0].TradeID)
	assert.NotEmpty(t, first[0].TradeID)
}

func TestUnsortedInputIsOrderedBeforeMatching(t *testing.T) {
	m := NewMatcher(testWallet)
	trades, diags := m.MatchAll([]*domain.SwapEvent{
		makeEvent(legSpec{dir: domain.DirectionSell, amount: 100, baseAmount: 1.5, slot: 200, sig: "sell-1"}),
		makeEvent(legSpec{dir: domain.DirectionBuy, amount: 100, baseAmount: 1.0, slot: 100, sig: "buy-1"}),
	})

	require.Len(t, trades, 1)
	assert.Empty(t, diags)
	assert.Equal(t, "buy-1", trades[0].BuySignature)
}
