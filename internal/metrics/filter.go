package metrics

import (
	"errors"
	"fmt"

	"solana-copytrade-lab/internal/domain"
)

// ErrInvalidBounds is returned when the configured P/L bounds are inverted.
var ErrInvalidBounds = errors.New("invalid outlier bounds: min exceeds max")

// OutlierFilter removes trades whose P/L percentage falls outside configured
// bounds. Excluded trades are retained for audit, never silently discarded.
type OutlierFilter struct {
	MinPnlPct float64
	MaxPnlPct float64

	// Enabled gates filtering entirely. When false every trade passes
	// through and no exclusion list is populated.
	Enabled bool
}

// Validate rejects inverted bounds before any processing begins.
func (f OutlierFilter) Validate() error {
	if f.Enabled && f.MinPnlPct > f.MaxPnlPct {
		return fmt.Errorf("%w: min=%f max=%f", ErrInvalidBounds, f.MinPnlPct, f.MaxPnlPct)
	}
	return nil
}

// Apply splits trades into the kept subsequence (MinPnlPct <= PnlPct <=
// MaxPnlPct) and the excluded remainder, both preserving input order.
func (f OutlierFilter) Apply(trades []*domain.MatchedTrade) (kept, excluded []*domain.MatchedTrade) {
	if !f.Enabled {
		return trades, nil
	}

	for _, t := range trades {
		if t.PnlPct >= f.MinPnlPct && t.PnlPct <= f.MaxPnlPct {
			kept = append(kept, t)
		} else {
			excluded = append(excluded, t)
		}
	}
	return kept, excluded
}
