package normalize

import (
	"encoding/json"

	"solana-copytrade-lab/internal/domain"
)

// HeliusParser handles enhanced-transaction payloads: a transaction object
// with a tokenTransfers array describing per-account token flows.
type HeliusParser struct{}

// NewHeliusParser creates a new HeliusParser.
func NewHeliusParser() *HeliusParser {
	return &HeliusParser{}
}

// Name identifies the variant for diagnostics.
func (p *HeliusParser) Name() string { return "helius" }

// heliusTransaction is the subset of the enhanced-transaction payload the
// normalizer needs.
type heliusTransaction struct {
	Signature        string                `json:"signature"`
	Timestamp        int64                 `json:"timestamp"` // Unix seconds
	Slot             int64                 `json:"slot"`
	Type             string                `json:"type"`
	TransactionError json.RawMessage       `json:"transactionError"`
	TokenTransfers   []heliusTokenTransfer `json:"tokenTransfers"`
}

type heliusTokenTransfer struct {
	Mint            string  `json:"mint"`
	TokenAmount     float64 `json:"tokenAmount"`
	TokenSymbol     string  `json:"tokenSymbol"`
	FromUserAccount string  `json:"fromUserAccount"`
	ToUserAccount   string  `json:"toUserAccount"`
}

// tokenFlow accumulates transfers of one mint in one direction.
// Multiple transfers of the same token are summed (e.g. SOL to pool + fees).
type tokenFlow struct {
	mint   string
	symbol string
	amount float64
}

// Parse extracts the wallet's swap legs from an enhanced-transaction payload.
func (p *HeliusParser) Parse(raw json.RawMessage, wallet string) ([]*domain.SwapEvent, bool, []domain.Diagnostic) {
	var tx heliusTransaction
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, false, nil
	}
	if tx.Signature == "" || len(tx.TokenTransfers) == 0 {
		// Not this variant (or an empty transaction with nothing to extract).
		return nil, false, nil
	}

	// Only successful swap transactions carry analyzable legs. Transfers and
	// failed transactions are well-formed but out of scope.
	if tx.Type != "" && tx.Type != "SWAP" {
		return nil, true, nil
	}
	if len(tx.TransactionError) > 0 && string(tx.TransactionError) != "null" {
		return nil, true, nil
	}

	// Sum flows per mint relative to the wallet, preserving first-seen order.
	var outFlows, inFlows []*tokenFlow
	outByMint := make(map[string]*tokenFlow)
	inByMint := make(map[string]*tokenFlow)

	for _, tr := range tx.TokenTransfers {
		if tr.Mint == "" || tr.TokenAmount <= 0 {
			continue
		}
		switch wallet {
		case tr.FromUserAccount:
			f := outByMint[tr.Mint]
			if f == nil {
				f = &tokenFlow{mint: tr.Mint, symbol: tr.TokenSymbol}
				outByMint[tr.Mint] = f
				outFlows = append(outFlows, f)
			}
			f.amount += tr.TokenAmount
		case tr.ToUserAccount:
			f := inByMint[tr.Mint]
			if f == nil {
				f = &tokenFlow{mint: tr.Mint, symbol: tr.TokenSymbol}
				inByMint[tr.Mint] = f
				inFlows = append(inFlows, f)
			}
			f.amount += tr.TokenAmount
		}
	}

	events, diags := classifyFlows(flowContext{
		wallet:    wallet,
		signature: tx.Signature,
		slot:      tx.Slot,
		timestamp: tx.Timestamp * 1000, // seconds to ms
	}, outFlows, inFlows)

	return events, true, diags
}

// flowContext carries the transaction-level fields shared by every leg.
type flowContext struct {
	wallet    string
	signature string
	slot      int64
	timestamp int64
}

// classifyFlows derives BUY/SELL legs from the wallet's net token flows.
// A BUY pairs a non-base inflow with the largest base-currency outflow;
// a SELL pairs a non-base outflow with the largest base-currency inflow.
// Token-to-token swaps (no recognized base on the counter side) are dropped
// with a data-quality diagnostic.
func classifyFlows(ctx flowContext, outFlows, inFlows []*tokenFlow) ([]*domain.SwapEvent, []domain.Diagnostic) {
	var (
		events []*domain.SwapEvent
		diags  []domain.Diagnostic
	)

	baseOut, baseOutCur := largestBaseFlow(outFlows)
	baseIn, baseInCur := largestBaseFlow(inFlows)

	eventIndex := 0

	for _, f := range inFlows {
		if _, isBase := domain.ResolveBaseCurrency(f.mint); isBase {
			continue
		}
		if !ValidAddress(f.mint) {
			diags = append(diags, domain.Diagf(domain.DiagInvalidAddress, ctx.wallet, f.mint, ctx.signature,
				"mint is not a valid base58 public key"))
			continue
		}
		if baseOut == nil {
			diags = append(diags, domain.Diagf(domain.DiagUnrecognizedBase, ctx.wallet, f.mint, ctx.signature,
				"token received without a recognized base currency spent"))
			continue
		}
		events = append(events, &domain.SwapEvent{
			Wallet:       ctx.wallet,
			Mint:         f.mint,
			Symbol:       f.symbol,
			Direction:    domain.DirectionBuy,
			Amount:       f.amount,
			BaseCurrency: baseOutCur,
			BaseAmount:   baseOut.amount,
			Timestamp:    ctx.timestamp,
			Slot:         ctx.slot,
			Signature:    ctx.signature,
			EventIndex:   eventIndex,
		})
		eventIndex++
	}

	for _, f := range outFlows {
		if _, isBase := domain.ResolveBaseCurrency(f.mint); isBase {
			continue
		}
		if !ValidAddress(f.mint) {
			diags = append(diags, domain.Diagf(domain.DiagInvalidAddress, ctx.wallet, f.mint, ctx.signature,
				"mint is not a valid base58 public key"))
			continue
		}
		if baseIn == nil {
			diags = append(diags, domain.Diagf(domain.DiagUnrecognizedBase, ctx.wallet, f.mint, ctx.signature,
				"token sent without a recognized base currency received"))
			continue
		}
		events = append(events, &domain.SwapEvent{
			Wallet:       ctx.wallet,
			Mint:         f.mint,
			Symbol:       f.symbol,
			Direction:    domain.DirectionSell,
			Amount:       f.amount,
			BaseCurrency: baseInCur,
			BaseAmount:   baseIn.amount,
			Timestamp:    ctx.timestamp,
			Slot:         ctx.slot,
			Signature:    ctx.signature,
			EventIndex:   eventIndex,
		})
		eventIndex++
	}

	return events, diags
}

// largestBaseFlow returns the base-currency flow with the largest amount.
func largestBaseFlow(flows []*tokenFlow) (*tokenFlow, domain.BaseCurrency) {
	var (
		best    *tokenFlow
		bestCur domain.BaseCurrency
	)
	for _, f := range flows {
		cur, ok := domain.ResolveBaseCurrency(f.mint)
		if !ok {
			continue
		}
		if best == nil || f.amount > best.amount {
			best = f
			bestCur = cur
		}
	}
	return best, bestCur
}
