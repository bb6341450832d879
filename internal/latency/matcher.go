// Package latency measures the execution delay between a target wallet's
// trade entries and a copying wallet's entries on the same token.
package latency

import (
	"sort"
	"time"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/idhash"
)

// DefaultMaxWindow bounds how far behind its target a copy entry may trail
// and still count as a copy of it.
const DefaultMaxWindow = 5 * time.Minute

// Matcher pairs copy-wallet entries with target-wallet entries per mint.
// Matching is greedy in time order (earliest copy entry first), each target
// entry is consumed at most once; this is deliberately not a global optimal
// assignment.
type Matcher struct {
	window time.Duration
}

// NewMatcher creates a latency matcher with the given maximum time window.
// A non-positive window falls back to DefaultMaxWindow; negative windows are
// rejected at configuration validation, before this point.
func NewMatcher(window time.Duration) *Matcher {
	if window <= 0 {
		window = DefaultMaxWindow
	}
	return &Matcher{window: window}
}

// targetEntry is one target-wallet entry and its consumption state.
type targetEntry struct {
	event    *domain.SwapEvent
	consumed bool
}

// Match pairs each copy-wallet entry with the nearest preceding-or-equal
// unconsumed target entry on the same mint within the window. Entries with
// no eligible target are excluded with a diagnostic, never force-matched.
// Only BUY legs participate: a trade entry is the acquisition of the token.
func (m *Matcher) Match(targetEvents, copyEvents []*domain.SwapEvent) ([]*domain.LatencyRecord, []domain.Diagnostic) {
	windowMs := m.window.Milliseconds()

	// Group target entries per mint, ordered by time.
	targets := make(map[string][]*targetEntry)
	for _, ev := range sortedEntries(targetEvents) {
		targets[ev.Mint] = append(targets[ev.Mint], &targetEntry{event: ev})
	}

	var (
		records []*domain.LatencyRecord
		diags   []domain.Diagnostic
	)

	for _, copyEv := range sortedEntries(copyEvents) {
		candidates := targets[copyEv.Mint]
		if len(candidates) == 0 {
			diags = append(diags, domain.Diagf(domain.DiagLatencyNoTarget,
				copyEv.Wallet, copyEv.Mint, copyEv.Signature,
				"target wallet never entered this token"))
			continue
		}

		best := pickNearest(candidates, copyEv.Timestamp, windowMs)
		if best == nil {
			diags = append(diags, domain.Diagf(domain.DiagLatencyOutOfWindow,
				copyEv.Wallet, copyEv.Mint, copyEv.Signature,
				"no unconsumed target entry within %s before this entry", m.window))
			continue
		}

		best.consumed = true
		target := best.event

		rec := &domain.LatencyRecord{
			RecordID: idhash.ComputeLatencyID(target.Wallet, copyEv.Wallet,
				copyEv.Mint, target.Signature, copyEv.Signature),
			Mint:               copyEv.Mint,
			Symbol:             copyEv.DisplaySymbol(),
			TargetWallet:       target.Wallet,
			CopyWallet:         copyEv.Wallet,
			TargetSignature:    target.Signature,
			CopySignature:      copyEv.Signature,
			TargetSlot:         target.Slot,
			CopySlot:           copyEv.Slot,
			SlotLatency:        copyEv.Slot - target.Slot,
			TargetTime:         target.Timestamp,
			CopyTime:           copyEv.Timestamp,
			TimeLatencySeconds: float64(copyEv.Timestamp-target.Timestamp) / 1000.0,
		}
		records = append(records, rec)

		// Eligibility is time-based, so slots can still disagree; surface
		// the inversion instead of rejecting the record.
		if rec.SlotLatency < 0 {
			diags = append(diags, domain.Diagf(domain.DiagNegativeSlotLatency,
				copyEv.Wallet, copyEv.Mint, copyEv.Signature,
				"copy slot %d precedes target slot %d", copyEv.Slot, target.Slot))
		}
	}

	return records, diags
}

// pickNearest returns the latest unconsumed target entry with
// time <= copyTime within the window, or nil.
func pickNearest(candidates []*targetEntry, copyTime, windowMs int64) *targetEntry {
	for i := len(candidates) - 1; i >= 0; i-- {
		c := candidates[i]
		if c.event.Timestamp > copyTime {
			continue
		}
		if copyTime-c.event.Timestamp > windowMs {
			// Candidates are time-ordered; everything earlier is farther out.
			return nil
		}
		if !c.consumed {
			return c
		}
	}
	return nil
}

// sortedEntries filters to BUY legs and orders them by
// (timestamp, slot, signature, event_index).
func sortedEntries(events []*domain.SwapEvent) []*domain.SwapEvent {
	entries := make([]*domain.SwapEvent, 0, len(events))
	for _, ev := range events {
		if ev.Direction == domain.DirectionBuy {
			entries = append(entries, ev)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Timestamp != entries[j].Timestamp {
			return entries[i].Timestamp < entries[j].Timestamp
		}
		if entries[i].Slot != entries[j].Slot {
			return entries[i].Slot < entries[j].Slot
		}
		if entries[i].Signature != entries[j].Signature {
			return entries[i].Signature < entries[j].Signature
		}
		return entries[i].EventIndex < entries[j].EventIndex
	})
	return entries
}

// MatchedMints returns the set of mints that appear in the matcher output.
// Downstream, only these mints participate in matched-only analysis.
func MatchedMints(records []*domain.LatencyRecord) map[string]struct{} {
	mints := make(map[string]struct{}, len(records))
	for _, r := range records {
		mints[r.Mint] = struct{}{}
	}
	return mints
}
