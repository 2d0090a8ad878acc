package poly

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Uniform draws a ring element with coefficients uniform in [0,q).
func Uniform(prng io.Reader, n int, q *big.Int) (Polynomial, error) {
	p := New(n, q)
	for i := 0; i < n; i++ {
		v, err := rand.Int(prng, q)
		if err != nil {
			return Polynomial{}, fmt.Errorf("uniform draw: %w", err)
		}
		p.Coeffs[i].Set(v)
	}
	return p, nil
}

// UniformFromSeed expands seed into a ring element. The same seed always
// yields the same element, which is how public matrices are shared between
// key generation and verification.
func UniformFromSeed(seed []byte, n int, q *big.Int) (Polynomial, error) {
	prng, err := NewSeededPRNG(seed)
	if err != nil {
		return Polynomial{}, fmt.Errorf("seed prng: %w", err)
	}
	return Uniform(prng, n, q)
}
