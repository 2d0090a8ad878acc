package zkp

import (
	"bytes"
	"math/big"
	"testing"
)

func TestShakeExpandDeterministic(t *testing.T) {
	x := NewShake256XOF(challengeLen)
	a := x.Expand("label", []byte("part1"), []byte("part2"))
	b := x.Expand("label", []byte("part1"), []byte("part2"))
	if !bytes.Equal(a, b) {
		t.Fatal("same transcript expanded to different outputs")
	}
	if len(a) != challengeLen {
		t.Fatalf("output length = %d, want %d", len(a), challengeLen)
	}
}

func TestShakeExpandSeparatesLabels(t *testing.T) {
	x := NewShake256XOF(challengeLen)
	a := x.Expand("label-a", []byte("payload"))
	b := x.Expand("label-b", []byte("payload"))
	if bytes.Equal(a, b) {
		t.Fatal("distinct labels produced identical output")
	}
}

func TestShakeExpandSeparatesPartBoundaries(t *testing.T) {
	x := NewShake256XOF(challengeLen)
	// the same bytes split at different part boundaries must not collide
	if bytes.Equal(x.Expand("label", []byte("ab"), []byte("c")), x.Expand("label", []byte("a"), []byte("bc"))) {
		t.Fatal("shifting a part boundary did not move the output")
	}
	if bytes.Equal(x.Expand("label", []byte("a")), x.Expand("label", []byte("a"), nil)) {
		t.Fatal("appending an empty part did not move the output")
	}
	if bytes.Equal(x.Expand("ab", []byte("c")), x.Expand("a", []byte("bc"))) {
		t.Fatal("label bytes bled into the first part")
	}
}

func TestBoundXOFAppendsBinding(t *testing.T) {
	x := NewShake256XOF(challengeLen)
	bound := bindXOF(x, []byte("public portion"))
	if bytes.Equal(bound.Expand("label", []byte("p")), x.Expand("label", []byte("p"))) {
		t.Fatal("binding did not move the output")
	}
	if !bytes.Equal(bound.Expand("label", []byte("p")), x.Expand("label", []byte("p"), []byte("public portion"))) {
		t.Fatal("binding should be absorbed as a trailing part")
	}
}

func TestChallengeScalarInRange(t *testing.T) {
	x := NewShake256XOF(challengeLen)
	order := big.NewInt(1_000_003)
	for i := 0; i < 64; i++ {
		c := challengeScalar(x, "test", order, indexBytes(i))
		if c.Sign() < 0 || c.Cmp(order) >= 0 {
			t.Fatalf("challenge %v outside [0, %v)", c, order)
		}
	}
}

func TestChallengeScalarSensitivity(t *testing.T) {
	g := testGroup(t)
	x := NewShake256XOF(challengeLen)
	base := challengeScalar(x, "test", g.N, []byte("m"), indexBytes(0))
	if c := challengeScalar(x, "test", g.N, []byte("m"), indexBytes(1)); c.Cmp(base) == 0 {
		t.Fatal("index change did not move the challenge")
	}
	if c := challengeScalar(x, "test", g.N, []byte("n"), indexBytes(0)); c.Cmp(base) == 0 {
		t.Fatal("payload change did not move the challenge")
	}
}

func TestNewShakeRejectsZeroLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewShake256XOF(0) did not panic")
		}
	}()
	NewShake256XOF(0)
}
