package domain

import "fmt"

// DiagnosticKind classifies a non-fatal data-quality note.
type DiagnosticKind string

const (
	// DiagMalformedPayload marks a provider payload that could not be parsed.
	DiagMalformedPayload DiagnosticKind = "MALFORMED_PAYLOAD"
	// DiagUnrecognizedBase marks a swap whose counter-asset is not SOL/USDC/USDT.
	DiagUnrecognizedBase DiagnosticKind = "UNRECOGNIZED_BASE_CURRENCY"
	// DiagInvalidAddress marks a wallet or mint that is not a valid base58 key.
	DiagInvalidAddress DiagnosticKind = "INVALID_ADDRESS"
	// DiagUnmatchedSell marks a sell with no outstanding buy leg; the token
	// may have been acquired outside the observed window.
	DiagUnmatchedSell DiagnosticKind = "UNMATCHED_SELL"
	// DiagCurrencyMismatch marks a buy/sell pairing rejected because the
	// legs used different base currencies.
	DiagCurrencyMismatch DiagnosticKind = "CURRENCY_MISMATCH"
	// DiagLatencyNoTarget marks a copy entry with no eligible target entry.
	DiagLatencyNoTarget DiagnosticKind = "LATENCY_NO_TARGET"
	// DiagLatencyOutOfWindow marks a copy entry whose nearest target entry
	// fell outside the configured time window.
	DiagLatencyOutOfWindow DiagnosticKind = "LATENCY_OUT_OF_WINDOW"
	// DiagNegativeSlotLatency marks an emitted latency record whose slot
	// delta is negative despite timestamps being ordered.
	DiagNegativeSlotLatency DiagnosticKind = "NEGATIVE_SLOT_LATENCY"
)

// Diagnostic is a structured, non-fatal note attached to a run. Diagnostics
// never abort the pipeline; every exclusion is accounted for here.
type Diagnostic struct {
	Kind      DiagnosticKind
	Wallet    string
	Mint      string
	Signature string
	Detail    string
}

func (d Diagnostic) String() string {
	s := string(d.Kind)
	if d.Mint != "" {
		s += " mint=" + d.Mint
	}
	if d.Signature != "" {
		s += " sig=" + d.Signature
	}
	if d.Detail != "" {
		s += ": " + d.Detail
	}
	return s
}

// Diagf builds a Diagnostic with a formatted detail message.
func Diagf(kind DiagnosticKind, wallet, mint, signature, format string, args ...any) Diagnostic {
	return Diagnostic{
		Kind:      kind,
		Wallet:    wallet,
		Mint:      mint,
		Signature: signature,
		Detail:    fmt.Sprintf(format, args...),
	}
}
