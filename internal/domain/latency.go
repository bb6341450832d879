package domain

// LatencyRecord measures the delay between a target wallet's trade entry
// and the copying wallet's entry on the same mint.
//
// SlotLatency >= 0 is expected but not enforced: slots and block timestamps
// can disagree, so a negative value is surfaced as a data-quality signal
// rather than rejected.
type LatencyRecord struct {
	RecordID string // deterministic hash
	Mint     string
	Symbol   string

	TargetWallet    string
	CopyWallet      string
	TargetSignature string
	CopySignature   string

	TargetSlot  int64
	CopySlot    int64
	SlotLatency int64 // CopySlot - TargetSlot

	TargetTime         int64   // Unix ms
	CopyTime           int64   // Unix ms
	TimeLatencySeconds float64 // (CopyTime - TargetTime) / 1000
}

// DisplaySymbol returns the symbol if known, else a shortened mint address.
func (r *LatencyRecord) DisplaySymbol() string {
	if r.Symbol != "" {
		return r.Symbol
	}
	if len(r.Mint) > 8 {
		return r.Mint[:8]
	}
	return r.Mint
}
