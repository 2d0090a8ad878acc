package quantum

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v4/utils"

	"zkqshield/poly"
)

// ntruKey holds the decoded halves of an NTRU-style key pair.
type ntruKey struct {
	h poly.Polynomial
	f poly.Polynomial
	g poly.Polynomial
}

// generateNTRU samples small f,g until f is a unit in Z_q[x]/(x^N+1) and
// publishes h = g*f^{-1}. The inverse is the true ring inverse, so h*f = g
// holds exactly.
func generateNTRU(prng utils.PRNG, par *LatticeParams, maxTrials int) (*ntruKey, error) {
	for trial := 0; trial < maxTrials; trial++ {
		f, err := poly.SampleGaussianPoly(prng, par.N, par.Q, par.Sigma)
		if err != nil {
			return nil, fmt.Errorf("quantum: sample f: %w", err)
		}
		fInv, ok := poly.RingInverse(f)
		if !ok {
			continue
		}
		g, err := poly.SampleGaussianPoly(prng, par.N, par.Q, par.Sigma)
		if err != nil {
			return nil, fmt.Errorf("quantum: sample g: %w", err)
		}
		h, err := poly.MulAuto(g, fInv)
		if err != nil {
			return nil, fmt.Errorf("quantum: g*f^-1: %w", err)
		}
		return &ntruKey{h: h, f: f, g: g}, nil
	}
	return nil, fmt.Errorf("quantum: no invertible f after %d trials", maxTrials)
}

func (k *ntruKey) encodePublic(par *LatticeParams) string {
	return encodeKey(packPolys([]poly.Polynomial{k.h}, par.Q))
}

// encodePrivate stores f, and for Falcon also g.
func (k *ntruKey) encodePrivate(par *LatticeParams, alg Algorithm) string {
	if alg == Falcon {
		return encodeKey(packPolys([]poly.Polynomial{k.f, k.g}, par.Q))
	}
	return encodeKey(packPolys([]poly.Polynomial{k.f}, par.Q))
}

// DecodeNTRUPublic recovers the public polynomial h.
func DecodeNTRUPublic(encoded string, par *LatticeParams) (poly.Polynomial, error) {
	raw, err := decodeKey(encoded)
	if err != nil {
		return poly.Polynomial{}, err
	}
	ps, err := unpackPolys(raw, 1, par.N, par.Q)
	if err != nil {
		return poly.Polynomial{}, err
	}
	return ps[0], nil
}

// DecodeNTRUSecret recovers f, and g when the encoding carries it (Falcon).
// For NTRU keys g is returned as the zero polynomial.
func DecodeNTRUSecret(encoded string, par *LatticeParams, alg Algorithm) (f, g poly.Polynomial, err error) {
	raw, err := decodeKey(encoded)
	if err != nil {
		return poly.Polynomial{}, poly.Polynomial{}, err
	}
	count := 1
	if alg == Falcon {
		count = 2
	}
	ps, err := unpackPolys(raw, count, par.N, par.Q)
	if err != nil {
		return poly.Polynomial{}, poly.Polynomial{}, err
	}
	f = ps[0]
	if alg == Falcon {
		g = ps[1]
	} else {
		g = poly.New(par.N, par.Q)
	}
	return f, g, nil
}
