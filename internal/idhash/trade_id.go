package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeTradeID computes a deterministic trade_id using SHA256.
// Formula: SHA256(wallet|mint|buy_signature|sell_signature|buy_index|sell_index)
// Returns hex-encoded hash (64 characters).
//
// A (buy_signature, sell_signature) pair can only be consumed once per leg
// index by the FIFO matcher, so the ID is unique within a wallet's run and
// stable across re-runs of identical input.
func ComputeTradeID(
	wallet string,
	mint string,
	buySignature string,
	sellSignature string,
	buyIndex int,
	sellIndex int,
) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%d|%d",
		wallet,
		mint,
		buySignature,
		sellSignature,
		buyIndex,
		sellIndex,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
