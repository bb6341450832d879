// Package match pairs buy and sell swap legs per token using strict temporal
// FIFO semantics: sells consume the oldest still-open buy lots first, never
// LIFO, never average-cost. This matches tax/accounting convention and keeps
// cost attribution unambiguous when lots have different bases.
package match

import (
	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/idhash"
	"solana-copytrade-lab/internal/normalize"
)

// PendingLeg is a not-yet-fully-matched buy leg. Owned exclusively by the
// per-mint FIFO queue; removed once Remaining reaches zero.
type PendingLeg struct {
	Event     *domain.SwapEvent
	Remaining float64
}

// Matcher consumes a time-ordered SwapEvent sequence for one wallet and
// emits MatchedTrade records. State is one FIFO queue of pending buy legs
// per mint; nothing is shared across wallets, so independent wallets may be
// matched in any order.
type Matcher struct {
	wallet string
	queues map[string][]*PendingLeg // mint -> oldest-first pending buys
	trades []*domain.MatchedTrade
	diags  []domain.Diagnostic
}

// NewMatcher creates a matcher for one wallet's analysis run.
func NewMatcher(wallet string) *Matcher {
	return &Matcher{
		wallet: wallet,
		queues: make(map[string][]*PendingLeg),
	}
}

// MatchAll processes the full event sequence and returns the matched trades
// plus the run's data-quality diagnostics. Events are sorted into
// (slot, signature, event_index) order first, so callers may pass the
// normalizer output directly.
func (m *Matcher) MatchAll(events []*domain.SwapEvent) ([]*domain.MatchedTrade, []domain.Diagnostic) {
	sorted := make([]*domain.SwapEvent, len(events))
	copy(sorted, events)
	normalize.SortSwapEvents(sorted)

	for _, ev := range sorted {
		m.Process(ev)
	}
	return m.Trades(), m.Diagnostics()
}

// Process consumes one event. Events must arrive in non-decreasing
// slot/timestamp order.
func (m *Matcher) Process(ev *domain.SwapEvent) {
	if err := ev.Validate(); err != nil {
		m.diags = append(m.diags, domain.Diagf(domain.DiagMalformedPayload,
			m.wallet, ev.Mint, ev.Signature, "invalid swap event: %v", err))
		return
	}
	if ev.Wallet != m.wallet {
		m.diags = append(m.diags, domain.Diagf(domain.DiagMalformedPayload,
			m.wallet, ev.Mint, ev.Signature, "event wallet %s does not match matcher wallet", ev.Wallet))
		return
	}

	switch ev.Direction {
	case domain.DirectionBuy:
		m.processBuy(ev)
	case domain.DirectionSell:
		m.processSell(ev)
	}
}

// processBuy pushes a new pending leg to the back of the mint's queue.
func (m *Matcher) processBuy(ev *domain.SwapEvent) {
	m.queues[ev.Mint] = append(m.queues[ev.Mint], &PendingLeg{
		Event:     ev,
		Remaining: ev.Amount,
	})
}

// processSell consumes pending buy legs from the front of the queue, oldest
// first, emitting one MatchedTrade per (buy leg, sell leg) pairing. A leg
// larger than the sell's remainder is decremented in place and stays at the
// front; a currency-mismatched leg is rejected and discarded.
func (m *Matcher) processSell(sell *domain.SwapEvent) {
	queue := m.queues[sell.Mint]
	remaining := sell.Amount

	for remaining > 0 && len(queue) > 0 {
		leg := queue[0]
		buy := leg.Event

		if buy.BaseCurrency != sell.BaseCurrency {
			m.diags = append(m.diags, domain.Diagf(domain.DiagCurrencyMismatch,
				m.wallet, sell.Mint, sell.Signature,
				"bought with %s, sold for %s (buy sig %s)", buy.BaseCurrency, sell.BaseCurrency, buy.Signature))
			queue = queue[1:]
			continue
		}

		matched := remaining
		if leg.Remaining < matched {
			matched = leg.Remaining
		}

		// Prorate each leg's total base amount by the matched fraction of
		// that leg's total token amount.
		cost := buy.BaseAmount * matched / buy.Amount
		proceeds := sell.BaseAmount * matched / sell.Amount
		profit := proceeds - cost

		pnlPct := 0.0
		if cost > 0 {
			pnlPct = profit / cost * 100
		}

		m.trades = append(m.trades, &domain.MatchedTrade{
			TradeID: idhash.ComputeTradeID(m.wallet, sell.Mint,
				buy.Signature, sell.Signature, buy.EventIndex, sell.EventIndex),
			Wallet:        m.wallet,
			Mint:          sell.Mint,
			Symbol:        pickSymbol(buy, sell),
			BuyAmount:     buy.Amount,
			SellAmount:    sell.Amount,
			MatchedAmount: matched,
			BaseCurrency:  buy.BaseCurrency,
			Cost:          cost,
			Proceeds:      proceeds,
			Profit:        profit,
			PnlPct:        pnlPct,
			BuyTime:       buy.Timestamp,
			SellTime:      sell.Timestamp,
			HoldMs:        sell.Timestamp - buy.Timestamp,
			IsPartial:     matched < buy.Amount || matched < sell.Amount,
			BuySignature:  buy.Signature,
			SellSignature: sell.Signature,
			BuySlot:       buy.Slot,
			SellSlot:      sell.Slot,
		})

		leg.Remaining -= matched
		remaining -= matched
		if leg.Remaining <= 0 {
			queue = queue[1:]
		}
	}

	m.queues[sell.Mint] = queue

	if remaining > 0 {
		m.diags = append(m.diags, domain.Diagf(domain.DiagUnmatchedSell,
			m.wallet, sell.Mint, sell.Signature,
			"%f of %f sold without an outstanding buy leg", remaining, sell.Amount))
	}
}

// Trades returns the matched trades emitted so far, in emission order.
func (m *Matcher) Trades() []*domain.MatchedTrade {
	return m.trades
}

// Diagnostics returns the data-quality notes collected so far.
func (m *Matcher) Diagnostics() []domain.Diagnostic {
	return m.diags
}

// Pending returns the open buy legs for a mint, oldest first.
func (m *Matcher) Pending(mint string) []*PendingLeg {
	return m.queues[mint]
}

func pickSymbol(buy, sell *domain.SwapEvent) string {
	if buy.Symbol != "" {
		return buy.Symbol
	}
	return sell.Symbol
}
