package analyzer

import (
	"errors"
	"fmt"
	"time"

	"solana-copytrade-lab/internal/metrics"
	"solana-copytrade-lab/internal/normalize"
)

// Config validation errors.
var (
	ErrInvalidWallet  = errors.New("invalid wallet address")
	ErrNegativeWindow = errors.New("latency window must not be negative")
	ErrInvalidBasis   = errors.New("trading-days basis must be positive")
)

// Config carries all tunable parameters for one analysis run. Thresholds are
// explicit configuration; there are no module-level tuning constants.
type Config struct {
	// Wallet is the analyzed wallet (the copying wallet in a copy-trading
	// setup, or any standalone wallet when TargetWallet is empty).
	Wallet string

	// TargetWallet, when set, enables latency matching of the analyzed
	// wallet's entries against this wallet's entries.
	TargetWallet string

	// LatencyWindow bounds target-to-copy entry delay. Zero selects the
	// default window; negative is a configuration error.
	LatencyWindow time.Duration

	// FilterToMatchedOnly restricts performance analysis to mints whose
	// entries matched a target entry. Requires TargetWallet.
	FilterToMatchedOnly bool

	// Outlier is the pnlPct band filter applied before metrics.
	Outlier metrics.OutlierFilter

	// Calculator parameterizes annualized metrics.
	Calculator metrics.CalculatorConfig
}

// Validate rejects unusable configuration up front, before any payload is
// parsed. Data problems found later are diagnostics, never errors; this is
// the one place the run fails fast.
func (c Config) Validate() error {
	if !normalize.ValidAddress(c.Wallet) {
		return fmt.Errorf("%w: wallet %q", ErrInvalidWallet, c.Wallet)
	}
	if c.TargetWallet != "" && !normalize.ValidAddress(c.TargetWallet) {
		return fmt.Errorf("%w: target wallet %q", ErrInvalidWallet, c.TargetWallet)
	}
	if c.FilterToMatchedOnly && c.TargetWallet == "" {
		return errors.New("filterToMatchedOnly requires a target wallet")
	}
	if c.LatencyWindow < 0 {
		return fmt.Errorf("%w: %s", ErrNegativeWindow, c.LatencyWindow)
	}
	if c.Calculator.DaysPerYear < 0 {
		return fmt.Errorf("%w: %f", ErrInvalidBasis, c.Calculator.DaysPerYear)
	}
	if err := c.Outlier.Validate(); err != nil {
		return err
	}
	return nil
}
