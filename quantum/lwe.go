package quantum

import (
	"fmt"
	"io"

	"github.com/tuneinsight/lattigo/v4/utils"

	"zkqshield/poly"
)

// lweSeedLen is the byte length of the seed expanded into the public
// polynomials a_i.
const lweSeedLen = 32

// lweKey holds the decoded halves of an LWE-style key pair.
type lweKey struct {
	seed []byte
	t    []poly.Polynomial
	s    poly.Polynomial
}

// generateLWE draws K public polynomials a_i from a fresh seed and forms the
// samples t_i = a_i*s + e_i over a shared small secret s. Publishing the seed
// instead of the a_i keeps the public key compact.
func generateLWE(prng utils.PRNG, par *LatticeParams) (*lweKey, error) {
	seed := make([]byte, lweSeedLen)
	if _, err := io.ReadFull(prng, seed); err != nil {
		return nil, fmt.Errorf("quantum: draw lwe seed: %w", err)
	}
	s, err := poly.SampleGaussianPoly(prng, par.N, par.Q, par.Sigma)
	if err != nil {
		return nil, fmt.Errorf("quantum: sample secret: %w", err)
	}
	t := make([]poly.Polynomial, par.K)
	for i := 0; i < par.K; i++ {
		a, err := expandPublicPoly(seed, i, par)
		if err != nil {
			return nil, err
		}
		e, err := poly.SampleGaussianPoly(prng, par.N, par.Q, par.Sigma)
		if err != nil {
			return nil, fmt.Errorf("quantum: sample error %d: %w", i, err)
		}
		as, err := poly.MulAuto(a, s)
		if err != nil {
			return nil, fmt.Errorf("quantum: a*s: %w", err)
		}
		t[i] = as.Add(e)
	}
	return &lweKey{seed: seed, t: t, s: s}, nil
}

// expandPublicPoly expands seed and row index into the uniform polynomial
// a_i. The same (seed, index) pair always produces the same polynomial.
func expandPublicPoly(seed []byte, idx int, par *LatticeParams) (poly.Polynomial, error) {
	buf := make([]byte, len(seed)+1)
	copy(buf, seed)
	buf[len(seed)] = byte(idx)
	a, err := poly.UniformFromSeed(buf, par.N, par.Q)
	if err != nil {
		return poly.Polynomial{}, fmt.Errorf("quantum: expand a_%d: %w", idx, err)
	}
	return a, nil
}

// encodeLWEPublic lays out seed || t_1..t_K.
func (k *lweKey) encodePublic(par *LatticeParams) string {
	return encodeKey(k.seed, packPolys(k.t, par.Q))
}

func (k *lweKey) encodePrivate(par *LatticeParams) string {
	return encodeKey(packPolys([]poly.Polynomial{k.s}, par.Q))
}

// DecodeLWEPublic splits an LWE public encoding into its seed and samples.
func DecodeLWEPublic(encoded string, par *LatticeParams) (seed []byte, t []poly.Polynomial, err error) {
	raw, err := decodeKey(encoded)
	if err != nil {
		return nil, nil, err
	}
	if len(raw) < lweSeedLen {
		return nil, nil, fmt.Errorf("quantum: lwe public encoding too short")
	}
	seed = raw[:lweSeedLen]
	t, err = unpackPolys(raw[lweSeedLen:], par.K, par.N, par.Q)
	if err != nil {
		return nil, nil, err
	}
	return seed, t, nil
}

// DecodeLWESecret recovers the secret polynomial s.
func DecodeLWESecret(encoded string, par *LatticeParams) (poly.Polynomial, error) {
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

// ExpandPublicPoly re-derives a_i from a decoded public seed, for consumers
// re-checking the LWE relation.
func ExpandPublicPoly(seed []byte, idx int, par *LatticeParams) (poly.Polynomial, error) {
	return expandPublicPoly(seed, idx, par)
}
