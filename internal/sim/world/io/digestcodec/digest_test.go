package digestcodec

import "testing"

func TestDigestIsOrderIndependentForSets(t *testing.T) {
	a, b := New(), New()
	a.SortedU32s(map[uint32]struct{}{3: {}, 1: {}, 2: {}})
	b.SortedU32s(map[uint32]struct{}{2: {}, 3: {}, 1: {}})
	if a.Sum() != b.Sum() {
		t.Fatalf("set digests differ: %s vs %s", a.Sum(), b.Sum())
	}
}

func TestStringsAreLengthPrefixed(t *testing.T) {
	a, b := New(), New()
	a.String("ab")
	a.String("c")
	b.String("a")
	b.String("bc")
	if a.Sum() == b.Sum() {
		t.Fatalf("expected different digests for split strings")
	}
}

func TestFieldsChangeDigest(t *testing.T) {
	base := New()
	base.U16(7)
	base.Bool(true)

	other := New()
	other.U16(7)
	other.Bool(false)
	if base.Sum() == other.Sum() {
		t.Fatalf("bool flip did not change digest")
	}
	if len(base.Sum()) != 64 {
		t.Fatalf("digest len = %d, want 64", len(base.Sum()))
	}
}
