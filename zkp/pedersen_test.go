package zkp

import (
	"bytes"
	"encoding/json"
	"math/big"
	"testing"
)

func TestPedersenCompleteness(t *testing.T) {
	g := testGroup(t)
	xof := testXOF()
	value := big.NewInt(123456789)

	p, err := provePedersen(g, xof, value)
	if err != nil {
		t.Fatalf("provePedersen: %v", err)
	}
	// the commitment must open to the recorded value and blinding
	if !g.OpenCommit(p.Value, p.Blinding, p.Commitment) {
		t.Fatal("commitment does not open to the recorded opening")
	}
	ok, err := verifyPedersen(g, xof, p)
	if err != nil || !ok {
		t.Fatalf("verifyPedersen = %v, %v, want true", ok, err)
	}
}

func TestPedersenRelation(t *testing.T) {
	g := testGroup(t)
	xof := testXOF()
	value, _ := g.RandomScalar()

	p, err := provePedersen(g, xof, value)
	if err != nil {
		t.Fatalf("provePedersen: %v", err)
	}

	// z1·g + z2·h − c·C must equal A
	left, err := g.CommitWith(p.Z1, p.Z2)
	if err != nil {
		t.Fatalf("CommitWith: %v", err)
	}
	cc, err := g.ScalarMult(p.Commitment, p.Challenge)
	if err != nil {
		t.Fatalf("ScalarMult: %v", err)
	}
	recovered, err := g.Sub(left, cc)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if !recovered.Equal(p.PoKCommitment) {
		t.Fatal("g^z1·h^z2·C^(−c) != A")
	}
}

func TestPedersenTamperRejected(t *testing.T) {
	g := testGroup(t)
	xof := testXOF()
	p, err := provePedersen(g, xof, big.NewInt(42))
	if err != nil {
		t.Fatalf("provePedersen: %v", err)
	}
	p.Z1 = new(big.Int).Add(p.Z1, big.NewInt(1))
	if p.Z1.Cmp(g.N) >= 0 {
		p.Z1.Sub(p.Z1, g.N)
	}
	ok, err := verifyPedersen(g, xof, p)
	if err != nil {
		t.Fatalf("verifyPedersen: %v", err)
	}
	if ok {
		t.Fatal("tampered z1 verified")
	}
}

func TestPedersenOpeningNeverSerialized(t *testing.T) {
	g := testGroup(t)
	xof := testXOF()
	value, _ := new(big.Int).SetString("987654321098765432109876543210912345", 10)

	p, err := provePedersen(g, xof, value)
	if err != nil {
		t.Fatalf("provePedersen: %v", err)
	}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if bytes.Contains(data, []byte(value.String())) {
		t.Fatal("serialized proof leaks the committed value")
	}
	if bytes.Contains(data, []byte(p.Blinding.String())) {
		t.Fatal("serialized proof leaks the blinding")
	}
}
