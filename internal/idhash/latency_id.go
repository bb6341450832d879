package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeLatencyID computes a deterministic latency record ID using SHA256.
// Formula: SHA256(target_wallet|copy_wallet|mint|target_signature|copy_signature)
// Returns hex-encoded hash (64 characters).
func ComputeLatencyID(
	targetWallet string,
	copyWallet string,
	mint string,
	targetSignature string,
	copySignature string,
) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%s",
		targetWallet,
		copyWallet,
		mint,
		targetSignature,
		copySignature,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
