package poly

import (
	"bytes"
	"math/big"
	"testing"
)

func TestSampleGaussianWithinTailBound(t *testing.T) {
	rng := NewRNG(7)
	sigma := 1.5
	bound := GaussianTailBound(sigma)
	for i := 0; i < 2000; i++ {
		z, err := SampleGaussian(rng, sigma)
		if err != nil {
			t.Fatalf("SampleGaussian error: %v", err)
		}
		if z > bound || z < -bound {
			t.Fatalf("sample %d outside [-%d,%d]", z, bound, bound)
		}
	}
}

func TestSampleGaussianRejectsBadSigma(t *testing.T) {
	rng := NewRNG(8)
	if _, err := SampleGaussian(rng, 0); err == nil {
		t.Fatalf("sigma=0 should be rejected")
	}
	if _, err := SampleGaussian(rng, -1); err == nil {
		t.Fatalf("negative sigma should be rejected")
	}
}

func TestSampleGaussianConcentratesNearZero(t *testing.T) {
	rng := NewRNG(9)
	sigma := 2.0
	within2Sigma := 0
	total := 4000
	for i := 0; i < total; i++ {
		z, err := SampleGaussian(rng, sigma)
		if err != nil {
			t.Fatalf("SampleGaussian error: %v", err)
		}
		if z >= -4 && z <= 4 {
			within2Sigma++
		}
	}
	// 2σ mass should dominate; allow generous slack for discretization.
	if within2Sigma < total*80/100 {
		t.Fatalf("only %d/%d samples within 2σ", within2Sigma, total)
	}
}

func TestSampleGaussianPolyEmbedsModQ(t *testing.T) {
	rng := NewRNG(10)
	q := big.NewInt(3329)
	p, err := SampleGaussianPoly(rng, 64, q, 1.0)
	if err != nil {
		t.Fatalf("SampleGaussianPoly error: %v", err)
	}
	bound := big.NewInt(GaussianTailBound(1.0))
	for i, c := range p.Coeffs {
		if c.Sign() < 0 || c.Cmp(q) >= 0 {
			t.Fatalf("coefficient %d not reduced mod q: %v", i, c)
		}
	}
	if p.InfNorm().Cmp(bound) > 0 {
		t.Fatalf("centered norm %v exceeds tail bound %v", p.InfNorm(), bound)
	}
}

func TestUniformFromSeedDeterministic(t *testing.T) {
	q := big.NewInt(8380417)
	seed := []byte("fixed-seed-for-public-matrix")
	a, err := UniformFromSeed(seed, 32, q)
	if err != nil {
		t.Fatalf("UniformFromSeed error: %v", err)
	}
	b, err := UniformFromSeed(seed, 32, q)
	if err != nil {
		t.Fatalf("UniformFromSeed error: %v", err)
	}
	if !a.Equal(b) {
		t.Fatalf("same seed produced different elements")
	}
	c, err := UniformFromSeed([]byte("another-seed"), 32, q)
	if err != nil {
		t.Fatalf("UniformFromSeed error: %v", err)
	}
	if a.Equal(c) {
		t.Fatalf("different seeds produced identical elements")
	}
}

func TestUniformStaysBelowModulus(t *testing.T) {
	rng := NewRNG(11)
	q := big.NewInt(12289)
	p, err := Uniform(rng, 128, q)
	if err != nil {
		t.Fatalf("Uniform error: %v", err)
	}
	for i, c := range p.Coeffs {
		if c.Sign() < 0 || c.Cmp(q) >= 0 {
			t.Fatalf("coefficient %d out of range: %v", i, c)
		}
	}
}

func TestSeededPRNGStreamsMatch(t *testing.T) {
	seed := []byte("prng-stream-check")
	p1, err := NewSeededPRNG(seed)
	if err != nil {
		t.Fatalf("NewSeededPRNG error: %v", err)
	}
	p2, err := NewSeededPRNG(seed)
	if err != nil {
		t.Fatalf("NewSeededPRNG error: %v", err)
	}
	b1 := make([]byte, 64)
	b2 := make([]byte, 64)
	if _, err := p1.Read(b1); err != nil {
		t.Fatalf("read: %v", err)
	}
	if _, err := p2.Read(b2); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(b1, b2) {
		t.Fatalf("seeded streams diverge")
	}
}
