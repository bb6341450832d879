package normalize

import (
	"encoding/json"

	"solana-copytrade-lab/internal/domain"
)

// FlatTradeParser handles the flat cached-trade record variant: one swap per
// payload with explicit in/out sides relative to the wallet. This is the
// shape older on-disk caches hold.
type FlatTradeParser struct{}

// NewFlatTradeParser creates a new FlatTradeParser.
func NewFlatTradeParser() *FlatTradeParser {
	return &FlatTradeParser{}
}

// Name identifies the variant for diagnostics.
func (p *FlatTradeParser) Name() string { return "flat" }

// flatTrade is the cached-trade record shape. token_in is what the wallet
// spent, token_out what it received.
type flatTrade struct {
	Signature      string  `json:"signature"`
	Timestamp      int64   `json:"timestamp"` // Unix seconds
	Slot           int64   `json:"slot"`
	TokenIn        string  `json:"token_in"`
	TokenInSymbol  string  `json:"token_in_symbol"`
	TokenInAmount  float64 `json:"token_in_amount"`
	TokenOut       string  `json:"token_out"`
	TokenOutSymbol string  `json:"token_out_symbol"`
	TokenOutAmount float64 `json:"token_out_amount"`
}

// Parse extracts the wallet's swap leg from a flat trade record.
func (p *FlatTradeParser) Parse(raw json.RawMessage, wallet string) ([]*domain.SwapEvent, bool, []domain.Diagnostic) {
	var ft flatTrade
	if err := json.Unmarshal(raw, &ft); err != nil {
		return nil, false, nil
	}
	if ft.Signature == "" || ft.TokenIn == "" || ft.TokenOut == "" {
		return nil, false, nil
	}

	if ft.TokenIn == ft.TokenOut {
		return nil, true, []domain.Diagnostic{
			domain.Diagf(domain.DiagMalformedPayload, wallet, ft.TokenIn, ft.Signature,
				"same token on both sides of the swap"),
		}
	}
	if ft.TokenInAmount <= 0 || ft.TokenOutAmount <= 0 {
		return nil, true, []domain.Diagnostic{
			domain.Diagf(domain.DiagMalformedPayload, wallet, "", ft.Signature,
				"non-positive amounts (in=%f out=%f)", ft.TokenInAmount, ft.TokenOutAmount),
		}
	}

	inBase, inIsBase := domain.ResolveBaseCurrency(ft.TokenIn)
	outBase, outIsBase := domain.ResolveBaseCurrency(ft.TokenOut)

	ev := &domain.SwapEvent{
		Wallet:    wallet,
		Timestamp: ft.Timestamp * 1000, // seconds to ms
		Slot:      ft.Slot,
		Signature: ft.Signature,
	}

	switch {
	case inIsBase && outIsBase:
		// Base-to-base rebalance carries no analyzable token.
		return nil, true, []domain.Diagnostic{
			domain.Diagf(domain.DiagUnrecognizedBase, wallet, ft.TokenOut, ft.Signature,
				"base-to-base swap (%s -> %s)", inBase, outBase),
		}
	case inIsBase:
		// Spent base currency, received the token: BUY.
		ev.Mint = ft.TokenOut
		ev.Symbol = ft.TokenOutSymbol
		ev.Direction = domain.DirectionBuy
		ev.Amount = ft.TokenOutAmount
		ev.BaseCurrency = inBase
		ev.BaseAmount = ft.TokenInAmount
	case outIsBase:
		// Spent the token, received base currency: SELL.
		ev.Mint = ft.TokenIn
		ev.Symbol = ft.TokenInSymbol
		ev.Direction = domain.DirectionSell
		ev.Amount = ft.TokenInAmount
		ev.BaseCurrency = outBase
		ev.BaseAmount = ft.TokenOutAmount
	default:
		return nil, true, []domain.Diagnostic{
			domain.Diagf(domain.DiagUnrecognizedBase, wallet, ft.TokenOut, ft.Signature,
				"neither side is a recognized base currency"),
		}
	}

	if !ValidAddress(ev.Mint) {
		return nil, true, []domain.Diagnostic{
			domain.Diagf(domain.DiagInvalidAddress, wallet, ev.Mint, ft.Signature,
				"mint is not a valid base58 public key"),
		}
	}

	return []*domain.SwapEvent{ev}, true, nil
}
