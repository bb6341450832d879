package domain

// Excursion is one peak-to-trough decline (drawdown) or trough-to-peak rise
// (draw-up) of the cumulative P/L curve.
type Excursion struct {
	Abs       float64 // absolute move in base units
	Pct       float64 // relative to the |extremum| where the move began; 0 when that extremum is 0
	StartTime int64   // Unix ms at the starting extremum
	EndTime   int64   // Unix ms at the ending extremum
}

// DurationDays returns the excursion duration in fractional days.
func (e Excursion) DurationDays() float64 {
	return float64(e.EndTime-e.StartTime) / 86_400_000.0
}

// PerformanceReport aggregates a matched-trade sequence. Derived read-only:
// it is regenerated on every call and never mutated by the core.
// All fields hold defined zero values when no trades exist.
type PerformanceReport struct {
	Wallet string

	// GeneratedAt is the Unix ms run timestamp, set by the caller when the
	// report is persisted or rendered. Zero for in-memory intermediate use.
	GeneratedAt int64

	// Basic stats
	TradeCount   int
	UniqueMints  int
	FirstBuyTime int64 // Unix ms, min buy time
	LastSellTime int64 // Unix ms, max sell time

	// Profit/loss stats
	MeanPnlPct   float64
	MedianPnlPct float64
	BestPnlPct   float64
	WorstPnlPct  float64
	WinRate      float64 // fraction of trades with Profit > 0
	TotalProfit  float64 // sum of Profit in base units

	// Hold time stats, fractional days
	MeanHoldDays   float64
	MedianHoldDays float64
	MinHoldDays    float64
	MaxHoldDays    float64

	// Risk
	Sharpe        float64 // annualized; 0 when the sample is too small
	TradesPerYear float64 // annualization basis actually used; 0 when Sharpe fell back
	MaxDrawdown   Excursion
	MaxDrawup     Excursion

	// CumulativeProfit is the running sum of Profit ordered by sell time,
	// the basis for the drawdown/draw-up figures above.
	CumulativeProfit []float64
}
