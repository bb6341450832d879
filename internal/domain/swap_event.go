package domain

import "fmt"

// Direction classifies a swap leg relative to the observed wallet.
type Direction string

const (
	// DirectionBuy means the wallet acquired the mint, paying in a base currency.
	DirectionBuy Direction = "BUY"
	// DirectionSell means the wallet disposed of the mint, receiving a base currency.
	DirectionSell Direction = "SELL"
)

// BaseCurrency is the counter-asset a token is priced against.
type BaseCurrency string

const (
	BaseSOL  BaseCurrency = "SOL"
	BaseUSDC BaseCurrency = "USDC"
	BaseUSDT BaseCurrency = "USDT"
)

// Known base currency mint addresses on Solana mainnet.
const (
	MintWSOL = "So11111111111111111111111111111111111111112"
	MintUSDC = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	MintUSDT = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
)

// ResolveBaseCurrency maps a mint address to its base currency.
// Returns false for mints that are not a recognized counter-asset.
func ResolveBaseCurrency(mint string) (BaseCurrency, bool) {
	switch mint {
	case MintWSOL:
		return BaseSOL, true
	case MintUSDC:
		return BaseUSDC, true
	case MintUSDT:
		return BaseUSDT, true
	}
	return "", false
}

// SwapEvent is one canonical swap leg observed for a wallet.
// Events for a wallet are processed in non-decreasing slot/timestamp order.
type SwapEvent struct {
	Wallet       string       // observing wallet address
	Mint         string       // token mint address
	Symbol       string       // token symbol if the provider supplied one
	Direction    Direction    // BUY or SELL relative to Wallet
	Amount       float64      // quantity of Mint exchanged, > 0
	BaseCurrency BaseCurrency // counter-asset
	BaseAmount   float64      // quantity of BaseCurrency exchanged, >= 0
	Timestamp    int64        // Unix timestamp in milliseconds
	Slot         int64        // Solana slot number
	Signature    string       // transaction signature
	EventIndex   int          // leg index within the transaction
}

// Validate checks the SwapEvent invariants. BaseAmount zero is allowed:
// airdrop-like acquisitions cost nothing, and the matcher reports such
// trades with a zero pnl percentage instead of dividing by zero.
func (e *SwapEvent) Validate() error {
	if e.Wallet == "" {
		return fmt.Errorf("swap event %s: empty wallet", e.Signature)
	}
	if e.Mint == "" {
		return fmt.Errorf("swap event %s: empty mint", e.Signature)
	}
	if e.Direction != DirectionBuy && e.Direction != DirectionSell {
		return fmt.Errorf("swap event %s: invalid direction %q", e.Signature, e.Direction)
	}
	if e.Amount <= 0 {
		return fmt.Errorf("swap event %s: non-positive amount %f", e.Signature, e.Amount)
	}
	if e.BaseAmount < 0 {
		return fmt.Errorf("swap event %s: negative base amount %f", e.Signature, e.BaseAmount)
	}
	if e.Signature == "" {
		return fmt.Errorf("swap event for %s: empty signature", e.Mint)
	}
	return nil
}

// DisplaySymbol returns the symbol if known, else a shortened mint address.
func (e *SwapEvent) DisplaySymbol() string {
	if e.Symbol != "" {
		return e.Symbol
	}
	if len(e.Mint) > 8 {
		return e.Mint[:8]
	}
	return e.Mint
}
