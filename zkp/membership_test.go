package zkp

import (
	"errors"
	"math/big"
	"testing"
)

func testSet(vals ...int64) []*big.Int {
	out := make([]*big.Int, len(vals))
	for i, v := range vals {
		out[i] = big.NewInt(v)
	}
	return out
}

func TestMembershipCompleteness(t *testing.T) {
	g := testGroup(t)
	xof := testXOF()
	set := testSet(11, 22, 33, 44, 55)

	// every position must be provable, first and last included
	for _, value := range []int64{11, 33, 55} {
		p, err := proveMembership(g, xof, big.NewInt(value), set)
		if err != nil {
			t.Fatalf("proveMembership(%d): %v", value, err)
		}
		if len(p.Branches) != len(set) {
			t.Fatalf("branches = %d, want %d", len(p.Branches), len(set))
		}
		ok, err := verifyMembership(g, xof, p)
		if err != nil || !ok {
			t.Fatalf("verifyMembership(%d) = %v, %v, want true", value, ok, err)
		}
	}
}

func TestMembershipRefusesAbsentValue(t *testing.T) {
	g := testGroup(t)
	xof := testXOF()
	set := testSet(1, 2, 3)

	p, err := proveMembership(g, xof, big.NewInt(99), set)
	if !errors.Is(err, ErrValueNotInSet) {
		t.Fatalf("err = %v, want ErrValueNotInSet", err)
	}
	if p != nil {
		t.Fatal("refusal still produced a proof object")
	}
}

func TestMembershipEmptySet(t *testing.T) {
	g := testGroup(t)
	xof := testXOF()
	if _, err := proveMembership(g, xof, big.NewInt(1), nil); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("err = %v, want ErrMissingInput", err)
	}
}

func TestMembershipTamperRejected(t *testing.T) {
	g := testGroup(t)
	xof := testXOF()
	set := testSet(7, 14, 21)
	p, err := proveMembership(g, xof, big.NewInt(14), set)
	if err != nil {
		t.Fatalf("proveMembership: %v", err)
	}

	// swapping a set element breaks the transcript binding
	tampered := *p
	tampered.Set = cloneScalars(p.Set)
	tampered.Set[0] = big.NewInt(8)
	ok, err := verifyMembership(g, xof, &tampered)
	if err != nil {
		t.Fatalf("verifyMembership: %v", err)
	}
	if ok {
		t.Fatal("proof verified against a different set")
	}

	// perturbing one branch response breaks its relation
	tampered = *p
	tampered.Branches = append([]ORBranch(nil), p.Branches...)
	tampered.Branches[2].Response = new(big.Int).Add(p.Branches[2].Response, big.NewInt(1))
	if tampered.Branches[2].Response.Cmp(g.N) >= 0 {
		tampered.Branches[2].Response.Sub(tampered.Branches[2].Response, g.N)
	}
	ok, err = verifyMembership(g, xof, &tampered)
	if err != nil {
		t.Fatalf("verifyMembership: %v", err)
	}
	if ok {
		t.Fatal("tampered branch response verified")
	}
}

func TestMembershipChallengeSplits(t *testing.T) {
	g := testGroup(t)
	xof := testXOF()
	set := testSet(5, 10, 15, 20)
	p, err := proveMembership(g, xof, big.NewInt(15), set)
	if err != nil {
		t.Fatalf("proveMembership: %v", err)
	}
	sum := new(big.Int)
	for i := range p.Branches {
		sum.Add(sum, p.Branches[i].Challenge)
	}
	sum.Mod(sum, g.N)
	if sum.Cmp(p.Challenge) != 0 {
		t.Fatal("branch challenges do not sum to the transcript challenge")
	}
}
