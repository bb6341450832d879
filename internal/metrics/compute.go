package metrics

import (
	"math"
	"sort"

	"solana-copytrade-lab/internal/domain"
)

// CalculatorConfig carries the time-basis parameters for annualized metrics.
// Zero values fall back to the defaults below; thresholds are deliberate
// configuration, never module-wide constants.
type CalculatorConfig struct {
	// DaysPerYear scales observed trade frequency to an annual basis.
	DaysPerYear float64

	// MinSharpeTrades and MinSharpeSpanDays guard the Sharpe annualization
	// against short or sparse sample windows: below either threshold the
	// ratio is reported as 0 rather than inferred from too little data.
	MinSharpeTrades   int
	MinSharpeSpanDays float64
}

// Default time-basis values.
const (
	DefaultDaysPerYear       = 365.0
	DefaultMinSharpeTrades   = 2
	DefaultMinSharpeSpanDays = 1.0
)

func (c CalculatorConfig) withDefaults() CalculatorConfig {
	if c.DaysPerYear <= 0 {
		c.DaysPerYear = DefaultDaysPerYear
	}
	if c.MinSharpeTrades <= 0 {
		c.MinSharpeTrades = DefaultMinSharpeTrades
	}
	if c.MinSharpeSpanDays <= 0 {
		c.MinSharpeSpanDays = DefaultMinSharpeSpanDays
	}
	return c
}

// Calculator derives PerformanceReports from matched-trade sequences.
type Calculator struct {
	cfg CalculatorConfig
}

// NewCalculator creates a Calculator with the given time basis.
func NewCalculator(cfg CalculatorConfig) *Calculator {
	return &Calculator{cfg: cfg.withDefaults()}
}

// Compute builds a PerformanceReport from a matched-trade sequence. Pure:
// the input is never mutated and identical input always yields an identical
// report. An empty sequence yields a zero-valued report, not an error.
//
// Trades are sorted by (SellTime, TradeID) before order-dependent metrics
// (Sharpe, cumulative P/L, drawdown/draw-up), so the result is stable under
// reordering of the input.
func (c *Calculator) Compute(wallet string, trades []*domain.MatchedTrade) *domain.PerformanceReport {
	n := len(trades)
	if n == 0 {
		return &domain.PerformanceReport{Wallet: wallet}
	}

	sorted := make([]*domain.MatchedTrade, n)
	copy(sorted, trades)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].SellTime != sorted[j].SellTime {
			return sorted[i].SellTime < sorted[j].SellTime
		}
		return sorted[i].TradeID < sorted[j].TradeID
	})

	report := &domain.PerformanceReport{
		Wallet:     wallet,
		TradeCount: n,
	}

	// Basic stats
	mints := make(map[string]struct{}, n)
	pnls := make([]float64, n)
	holds := make([]float64, n)
	wins := 0
	report.FirstBuyTime = sorted[0].BuyTime
	report.LastSellTime = sorted[n-1].SellTime

	for i, t := range sorted {
		mints[t.Mint] = struct{}{}
		pnls[i] = t.PnlPct
		holds[i] = t.HoldDays()
		if t.Profit > 0 {
			wins++
		}
		if t.BuyTime < report.FirstBuyTime {
			report.FirstBuyTime = t.BuyTime
		}
	}

	report.UniqueMints = len(mints)
	report.WinRate = float64(wins) / float64(n)
	report.MeanPnlPct = computeMean(pnls)
	report.MedianPnlPct = computeMedian(pnls)

	sortedPnls := make([]float64, n)
	copy(sortedPnls, pnls)
	sort.Float64s(sortedPnls)
	report.WorstPnlPct = sortedPnls[0]
	report.BestPnlPct = sortedPnls[n-1]

	// Hold time stats
	report.MeanHoldDays = computeMean(holds)
	report.MedianHoldDays = computeMedian(holds)
	sortedHolds := make([]float64, n)
	copy(sortedHolds, holds)
	sort.Float64s(sortedHolds)
	report.MinHoldDays = sortedHolds[0]
	report.MaxHoldDays = sortedHolds[n-1]

	// Cumulative P/L curve, basis for drawdown/draw-up and TotalProfit.
	cumulative := make([]float64, n)
	times := make([]int64, n)
	running := 0.0
	for i, t := range sorted {
		running += t.Profit
		cumulative[i] = running
		times[i] = t.SellTime
	}
	report.CumulativeProfit = cumulative
	report.TotalProfit = running

	report.MaxDrawdown = computeMaxDrawdown(cumulative, times)
	report.MaxDrawup = computeMaxDrawup(cumulative, times)

	report.Sharpe, report.TradesPerYear = c.computeSharpe(pnls, times)

	return report
}

// computeSharpe annualizes the mean/stddev of per-trade returns using the
// trade frequency implied by the observed sell-time span. Defined as 0 when
// the sample is too small (trade count or span below threshold) or when the
// returns have no variance.
func (c *Calculator) computeSharpe(returns []float64, times []int64) (sharpe, tradesPerYear float64) {
	n := len(returns)
	if n < c.cfg.MinSharpeTrades {
		return 0, 0
	}

	spanDays := float64(times[n-1]-times[0]) / 86_400_000.0
	if spanDays < c.cfg.MinSharpeSpanDays {
		return 0, 0
	}

	tradesPerYear = float64(n) / spanDays * c.cfg.DaysPerYear

	mean := computeMean(returns)
	stddev := computeStddev(returns, mean)
	if stddev == 0 {
		return 0, tradesPerYear
	}
	return mean / stddev * math.Sqrt(tradesPerYear), tradesPerYear
}

// computeMaxDrawdown finds the largest peak-to-trough decline of the
// cumulative curve in one left-to-right scan. The percentage is relative to
// |peak| at the start of the decline; ties resolve to the earliest extremum.
func computeMaxDrawdown(cumulative []float64, times []int64) domain.Excursion {
	if len(cumulative) == 0 {
		return domain.Excursion{}
	}

	peakVal := cumulative[0]
	peakTime := times[0]
	var dd domain.Excursion

	for i, v := range cumulative {
		if v > peakVal {
			peakVal = v
			peakTime = times[i]
		}
		decline := peakVal - v
		if decline > dd.Abs {
			dd.Abs = decline
			dd.Pct = 0
			if peakVal != 0 {
				dd.Pct = decline / math.Abs(peakVal) * 100
			}
			dd.StartTime = peakTime
			dd.EndTime = times[i]
		}
	}
	return dd
}

// computeMaxDrawup is the symmetric trough-to-peak rise.
func computeMaxDrawup(cumulative []float64, times []int64) domain.Excursion {
	if len(cumulative) == 0 {
		return domain.Excursion{}
	}

	troughVal := cumulative[0]
	troughTime := times[0]
	var du domain.Excursion

	for i, v := range cumulative {
		if v < troughVal {
			troughVal = v
			troughTime = times[i]
		}
		rise := v - troughVal
		if rise > du.Abs {
			du.Abs = rise
			du.Pct = 0
			if troughVal != 0 {
				du.Pct = rise / math.Abs(troughVal) * 100
			}
			du.StartTime = troughTime
			du.EndTime = times[i]
		}
	}
	return du
}

// computeMean calculates the arithmetic mean.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeMedian calculates the median without mutating the input.
func computeMedian(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// computeStddev calculates sample standard deviation (n-1 denominator).
func computeStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}
