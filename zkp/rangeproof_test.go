package zkp

import (
	"errors"
	"math/big"
	"testing"
)

func TestRangeProofCompleteness(t *testing.T) {
	g := testGroup(t)
	xof := testXOF()

	cases := []struct {
		name            string
		value, min, max int64
	}{
		{"interior", 57, 0, 100},
		{"at min", 10, 10, 20},
		{"just under max", 19, 10, 20},
		{"single slot", 5, 5, 6},
		{"power of two span", 200, 128, 256},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := proveRange(g, xof, big.NewInt(tc.value), big.NewInt(tc.min), big.NewInt(tc.max))
			if err != nil {
				t.Fatalf("proveRange: %v", err)
			}
			if want := rangeBitCount(big.NewInt(tc.min), big.NewInt(tc.max)); len(p.Bits) != want {
				t.Fatalf("bit count = %d, want %d", len(p.Bits), want)
			}
			ok, err := verifyRange(g, xof, p)
			if err != nil || !ok {
				t.Fatalf("verifyRange = %v, %v, want true", ok, err)
			}
		})
	}
}

func TestRangeProofRefusesOutOfRange(t *testing.T) {
	g := testGroup(t)
	xof := testXOF()

	for _, value := range []int64{9, 20, 25, -3} {
		if _, err := proveRange(g, xof, big.NewInt(value), big.NewInt(10), big.NewInt(20)); !errors.Is(err, ErrValueNotInSet) {
			t.Fatalf("value %d: err = %v, want ErrValueNotInSet", value, err)
		}
	}
}

func TestRangeProofRejectsBadBounds(t *testing.T) {
	g := testGroup(t)
	xof := testXOF()
	if _, err := proveRange(g, xof, big.NewInt(5), big.NewInt(20), big.NewInt(10)); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("err = %v, want ErrMissingInput for inverted bounds", err)
	}
}

func TestRangeProofTamperRejected(t *testing.T) {
	g := testGroup(t)
	xof := testXOF()
	p, err := proveRange(g, xof, big.NewInt(9), big.NewInt(0), big.NewInt(16))
	if err != nil {
		t.Fatalf("proveRange: %v", err)
	}

	// swap one bit commitment with another valid point
	other, _, err := g.Commit(big.NewInt(3))
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	tampered := *p
	tampered.Bits = append([]BitProof(nil), p.Bits...)
	tampered.Bits[1].Commitment = other
	ok, err := verifyRange(g, xof, &tampered)
	if err != nil {
		t.Fatalf("verifyRange: %v", err)
	}
	if ok {
		t.Fatal("tampered bit commitment verified")
	}

	// shrink the claimed range so the bit width no longer matches
	tampered = *p
	tampered.Max = big.NewInt(4)
	ok, err = verifyRange(g, xof, &tampered)
	if err != nil {
		t.Fatalf("verifyRange: %v", err)
	}
	if ok {
		t.Fatal("range with mismatched bit width verified")
	}
}

func TestRangeProofAggregateBindsValue(t *testing.T) {
	g := testGroup(t)
	xof := testXOF()
	p, err := proveRange(g, xof, big.NewInt(6), big.NewInt(0), big.NewInt(8))
	if err != nil {
		t.Fatalf("proveRange: %v", err)
	}
	agg, err := aggregateBitCommitments(g, p.Bits)
	if err != nil {
		t.Fatalf("aggregateBitCommitments: %v", err)
	}
	if !agg.Equal(p.Commitment) {
		t.Fatal("weighted bit commitments do not sum to the value commitment")
	}

	// replacing the aggregate with a commitment to a different value fails
	fake, _, err := g.Commit(big.NewInt(7))
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	p.Commitment = fake
	ok, err := verifyRange(g, xof, p)
	if err != nil {
		t.Fatalf("verifyRange: %v", err)
	}
	if ok {
		t.Fatal("mismatched aggregate commitment verified")
	}
}
