package badge

import "testing"

func TestAddressFromHardwareIDDeterministic(t *testing.T) {
	id := []byte("badge-0001-silicon-id")
	a := AddressFromHardwareID(id)
	b := AddressFromHardwareID(id)
	if a != b {
		t.Errorf("AddressFromHardwareID(%q) = %08x then %08x, want identical", id, a, b)
	}
}

func TestAddressFromHardwareIDDiffersAcrossIDs(t *testing.T) {
	a := AddressFromHardwareID([]byte("badge-0001"))
	b := AddressFromHardwareID([]byte("badge-0002"))
	if a == b {
		t.Errorf("distinct hardware IDs produced the same address %08x", a)
	}
}

func TestAddressFromHardwareIDArbitraryLength(t *testing.T) {
	// The original firmware takes bytes [2:6] of an 8-byte silicon ID
	// directly; this must work for IDs of any length, not just 8 bytes.
	for _, id := range [][]byte{
		{},
		[]byte("x"),
		[]byte("exactly-eight"),
		make([]byte, 256),
	} {
		_ = AddressFromHardwareID(id) // must not panic
	}
}
