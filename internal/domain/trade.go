package domain

// MatchedTrade is a FIFO-paired buy+sell on one token for one wallet.
// Created by the matcher when a sell leg consumes an outstanding buy leg;
// immutable thereafter.
type MatchedTrade struct {
	TradeID string // deterministic hash
	Wallet  string // wallet the trade belongs to
	Mint    string // token mint address
	Symbol  string // token symbol if known

	// Amounts of Mint. BuyAmount/SellAmount are the legs' original totals;
	// MatchedAmount is what this pairing actually consumed.
	BuyAmount     float64
	SellAmount    float64
	MatchedAmount float64

	// Base currency flows, prorated to MatchedAmount.
	BaseCurrency BaseCurrency
	Cost         float64 // base spent on the matched amount
	Proceeds     float64 // base received for the matched amount
	Profit       float64 // Proceeds - Cost
	PnlPct       float64 // Profit / Cost * 100

	BuyTime  int64 // Unix ms
	SellTime int64 // Unix ms
	HoldMs   int64 // SellTime - BuyTime, >= 0

	// IsPartial is set when MatchedAmount is strictly less than either
	// leg's original amount.
	IsPartial bool

	BuySignature  string
	SellSignature string
	BuySlot       int64
	SellSlot      int64
}

// HoldDays returns the hold duration in fractional days.
func (t *MatchedTrade) HoldDays() float64 {
	return float64(t.HoldMs) / 86_400_000.0
}

// HoldSeconds returns the hold duration in seconds.
func (t *MatchedTrade) HoldSeconds() float64 {
	return float64(t.HoldMs) / 1000.0
}

// DisplaySymbol returns the symbol if known, else a shortened mint address.
func (t *MatchedTrade) DisplaySymbol() string {
	if t.Symbol != "" {
		return t.Symbol
	}
	if len(t.Mint) > 8 {
		return t.Mint[:8]
	}
	return t.Mint
}
