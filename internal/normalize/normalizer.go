package normalize

import (
	"encoding/json"
	"sort"

	"github.com/mr-tron/base58"

	"solana-copytrade-lab/internal/domain"
)

// PayloadParser recognizes one provider payload variant and extracts the
// wallet's swap legs from it.
type PayloadParser interface {
	// Name identifies the variant for diagnostics.
	Name() string

	// Parse extracts swap events for the observing wallet. ok is false when
	// the payload is not this parser's shape; diagnostics cover legs that
	// were recognized but dropped.
	Parse(raw json.RawMessage, wallet string) (events []*domain.SwapEvent, ok bool, diags []domain.Diagnostic)
}

// Normalizer maps provider-specific swap payloads to canonical SwapEvents.
// Parsers are tried in registration order; the first one that recognizes the
// shape wins. The normalizer never returns an error to the caller: malformed
// payloads become diagnostics.
type Normalizer struct {
	parsers []PayloadParser
}

// New creates a Normalizer with the default payload parsers registered.
func New() *Normalizer {
	n := &Normalizer{}
	n.Register(NewHeliusParser())
	n.Register(NewFlatTradeParser())
	return n
}

// Register appends a parser for an additional payload variant.
func (n *Normalizer) Register(p PayloadParser) {
	n.parsers = append(n.parsers, p)
}

// Normalize converts one raw payload into zero or more SwapEvents.
func (n *Normalizer) Normalize(wallet string, raw json.RawMessage) ([]*domain.SwapEvent, []domain.Diagnostic) {
	for _, p := range n.parsers {
		events, ok, diags := p.Parse(raw, wallet)
		if !ok {
			continue
		}
		return events, diags
	}

	return nil, []domain.Diagnostic{
		domain.Diagf(domain.DiagMalformedPayload, wallet, "", "",
			"payload matched no registered variant (%d parsers tried)", len(n.parsers)),
	}
}

// NormalizeAll converts an ordered collection of raw payloads into the
// wallet's SwapEvent sequence, sorted by (slot, signature, event_index).
func (n *Normalizer) NormalizeAll(wallet string, payloads []json.RawMessage) ([]*domain.SwapEvent, []domain.Diagnostic) {
	var (
		events []*domain.SwapEvent
		diags  []domain.Diagnostic
	)

	if !ValidAddress(wallet) {
		return nil, []domain.Diagnostic{
			domain.Diagf(domain.DiagInvalidAddress, wallet, "", "",
				"wallet %q is not a valid base58 public key", wallet),
		}
	}

	for _, raw := range payloads {
		evs, ds := n.Normalize(wallet, raw)
		events = append(events, evs...)
		diags = append(diags, ds...)
	}

	SortSwapEvents(events)
	return events, diags
}

// SortSwapEvents sorts events by (slot, signature, event_index) for
// deterministic ordering.
func SortSwapEvents(events []*domain.SwapEvent) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].Slot != events[j].Slot {
			return events[i].Slot < events[j].Slot
		}
		if events[i].Signature != events[j].Signature {
			return events[i].Signature < events[j].Signature
		}
		return events[i].EventIndex < events[j].EventIndex
	})
}

// ValidAddress reports whether s decodes as a 32-byte base58 public key.
func ValidAddress(s string) bool {
	raw, err := base58.Decode(s)
	if err != nil {
		return false
	}
	return len(raw) == 32
}
