package idhash

import "testing"

func TestComputeTradeID_Deterministic(t *testing.T) {
	a := ComputeTradeID("walletA", "mint1", "buySig", "sellSig", 0, 1)
	b := ComputeTradeID("walletA", "mint1", "buySig", "sellSig", 0, 1)

	if a != b {
		t.Errorf("expected identical IDs for identical input, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected 64-char hex hash, got %d chars", len(a))
	}
}

func TestComputeTradeID_DistinguishesInputs(t *testing.T) {
	base := ComputeTradeID("walletA", "mint1", "buySig", "sellSig", 0, 1)

	variants := []string{
		ComputeTradeID("walletB", "mint1", "buySig", "sellSig", 0, 1),
		ComputeTradeID("walletA", "mint2", "buySig", "sellSig", 0, 1),
		ComputeTradeID("walletA", "mint1", "otherBuy", "sellSig", 0, 1),
		ComputeTradeID("walletA", "mint1", "buySig", "otherSell", 0, 1),
		ComputeTradeID("walletA", "mint1", "buySig", "sellSig", 1, 1),
		ComputeTradeID("walletA", "mint1", "buySig", "sellSig", 0, 2),
	}

	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d produced the same ID as base", i)
		}
	}
}

func TestComputeLatencyID_Deterministic(t *testing.T) {
	a := ComputeLatencyID("target", "copy", "mint1", "tSig", "cSig")
	b := ComputeLatencyID("target", "copy", "mint1", "tSig", "cSig")

	if a != b {
		t.Errorf("expected identical IDs for identical input, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected 64-char hex hash, got %d chars", len(a))
	}

	if ComputeLatencyID("target", "copy", "mint1", "tSig", "otherSig") == a {
		t.Error("different copy signature should produce a different ID")
	}
}
