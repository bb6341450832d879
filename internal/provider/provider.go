// Package provider fetches raw swap transaction payloads for a wallet.
// Payloads stay opaque json.RawMessage here; interpretation belongs to the
// normalizer.
package provider

import (
	"context"
	"encoding/json"
)

// TransactionSource yields the full transaction history for a wallet,
// oldest page last. Implementations: the Helius REST client and the on-disk
// file cache.
type TransactionSource interface {
	FetchTransactions(ctx context.Context, wallet string) ([]json.RawMessage, error)
}
