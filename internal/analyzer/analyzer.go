// Package analyzer coordinates one wallet analysis run.
// Flow: normalize → match → latency → outlier filter → metrics
package analyzer

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/latency"
	"solana-copytrade-lab/internal/match"
	"solana-copytrade-lab/internal/metrics"
	"solana-copytrade-lab/internal/normalize"
)

// Analyzer runs the full analysis pipeline for one wallet. Stateless across
// runs; a single Analyzer may serve many wallets sequentially.
type Analyzer struct {
	cfg        Config
	normalizer *normalize.Normalizer
	latency    *latency.Matcher
	calc       *metrics.Calculator
	logger     *zap.Logger
}

// Options for creating an Analyzer.
type Options struct {
	Config Config

	// Normalizer defaults to normalize.New() when nil.
	Normalizer *normalize.Normalizer

	// Logger defaults to zap.NewNop() when nil; pure computation stays
	// logger-free, the analyzer only logs run boundaries and drop counts.
	Logger *zap.Logger
}

// New validates the configuration and creates an Analyzer.
func New(opts Options) (*Analyzer, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("analyzer config: %w", err)
	}
	n := opts.Normalizer
	if n == nil {
		n = normalize.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		cfg:        opts.Config,
		normalizer: n,
		latency:    latency.NewMatcher(opts.Config.LatencyWindow),
		calc:       metrics.NewCalculator(opts.Config.Calculator),
		logger:     logger,
	}, nil
}

// Config returns the validated run configuration.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Input is the raw material for one run: provider payloads for the analyzed
// wallet, plus the target wallet's payloads when latency matching is on.
type Input struct {
	Payloads       []json.RawMessage
	TargetPayloads []json.RawMessage
}

// Result bundles everything one run produced. Diagnostics accumulate from
// every stage; an empty Result with diagnostics is a valid outcome.
type Result struct {
	Events         []*domain.SwapEvent
	Trades         []*domain.MatchedTrade
	ExcludedTrades []*domain.MatchedTrade
	LatencyRecords []*domain.LatencyRecord
	Report         *domain.PerformanceReport
	Diagnostics    []domain.Diagnostic
}

// Run executes the pipeline. Deterministic: identical input yields an
// identical Result. Data-quality problems surface in Result.Diagnostics;
// the returned error covers only malformed use (never payload content).
func (a *Analyzer) Run(input Input) (*Result, error) {
	result := &Result{}

	// Stage 1: normalize
	events, diags := a.normalizer.NormalizeAll(a.cfg.Wallet, input.Payloads)
	result.Events = events
	result.Diagnostics = append(result.Diagnostics, diags...)
	a.logger.Info("normalized payloads",
		zap.String("wallet", a.cfg.Wallet),
		zap.Int("payloads", len(input.Payloads)),
		zap.Int("events", len(events)),
		zap.Int("diagnostics", len(diags)))

	// Stage 2: FIFO matching
	trades, diags := match.NewMatcher(a.cfg.Wallet).MatchAll(events)
	result.Diagnostics = append(result.Diagnostics, diags...)

	// Stage 3: latency vs the target wallet
	if a.cfg.TargetWallet != "" {
		targetEvents, targetDiags := a.normalizer.NormalizeAll(a.cfg.TargetWallet, input.TargetPayloads)
		result.Diagnostics = append(result.Diagnostics, targetDiags...)

		records, latencyDiags := a.latency.Match(targetEvents, events)
		result.LatencyRecords = records
		result.Diagnostics = append(result.Diagnostics, latencyDiags...)
		a.logger.Info("latency matched",
			zap.String("target", a.cfg.TargetWallet),
			zap.Int("records", len(records)),
			zap.Int("diagnostics", len(latencyDiags)))

		if a.cfg.FilterToMatchedOnly {
			trades = filterToMints(trades, latency.MatchedMints(records))
		}
	}

	// Stage 4: outlier filter
	kept, excluded := a.cfg.Outlier.Apply(trades)
	result.Trades = kept
	result.ExcludedTrades = excluded

	// Stage 5: metrics
	result.Report = a.calc.Compute(a.cfg.Wallet, kept)

	a.logger.Info("analysis complete",
		zap.String("wallet", a.cfg.Wallet),
		zap.Int("trades", len(kept)),
		zap.Int("excluded", len(excluded)),
		zap.Float64("total_profit", result.Report.TotalProfit),
		zap.Int("diagnostics", len(result.Diagnostics)))

	return result, nil
}

// filterToMints keeps only trades whose mint is in the set, preserving order.
func filterToMints(trades []*domain.MatchedTrade, mints map[string]struct{}) []*domain.MatchedTrade {
	kept := make([]*domain.MatchedTrade, 0, len(trades))
	for _, t := range trades {
		if _, ok := mints[t.Mint]; ok {
			kept = append(kept, t)
		}
	}
	return kept
}
