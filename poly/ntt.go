package poly

import (
	"fmt"
	"math/big"

	"github.com/tuneinsight/lattigo/v4/ring"
)

// Ring wraps a single-modulus Lattigo ring for fast negacyclic convolution.
// It is constructible only when the dimension is a power of two and the
// modulus is an NTT-friendly prime (q ≡ 1 mod 2N); callers fall back to the
// schoolbook path otherwise.
type Ring struct {
	n int
	q *big.Int
	r *ring.Ring
}

// NewRing builds the NTT backend for dimension n and modulus q.
func NewRing(n int, q *big.Int) (*Ring, error) {
	if n == 0 || (n&(n-1)) != 0 {
		return nil, fmt.Errorf("ring dimension must be a power of two, got %d", n)
	}
	if !q.IsUint64() {
		return nil, fmt.Errorf("modulus does not fit in uint64")
	}
	r, err := ring.NewRing(n, []uint64{q.Uint64()})
	if err != nil {
		return nil, fmt.Errorf("lattigo ring: %w", err)
	}
	return &Ring{n: n, q: new(big.Int).Set(q), r: r}, nil
}

// N returns the ring dimension.
func (rg *Ring) N() int { return rg.n }

// embed loads a big.Int polynomial into a Lattigo limb.
func (rg *Ring) embed(p Polynomial) (*ring.Poly, error) {
	if len(p.Coeffs) != rg.n || p.Q.Cmp(rg.q) != 0 {
		return nil, ErrDimensionMismatch
	}
	out := rg.r.NewPoly()
	tmp := new(big.Int)
	for i, c := range p.Coeffs {
		tmp.Mod(c, rg.q)
		out.Coeffs[0][i] = tmp.Uint64()
	}
	return out, nil
}

// extract reads a Lattigo limb back into a big.Int polynomial.
func (rg *Ring) extract(a *ring.Poly) Polynomial {
	out := New(rg.n, rg.q)
	for i := 0; i < rg.n; i++ {
		out.Coeffs[i].SetUint64(a.Coeffs[0][i])
	}
	return out
}

// Convolve multiplies a and b modulo (x^N+1, q) through the NTT domain.
func (rg *Ring) Convolve(a, b Polynomial) (Polynomial, error) {
	la, err := rg.embed(a)
	if err != nil {
		return Polynomial{}, err
	}
	lb, err := rg.embed(b)
	if err != nil {
		return Polynomial{}, err
	}
	rg.r.MForm(la, la)
	rg.r.MForm(lb, lb)
	rg.r.NTT(la, la)
	rg.r.NTT(lb, lb)
	res := rg.r.NewPoly()
	rg.r.MulCoeffsMontgomery(la, lb, res)
	rg.r.InvNTT(res, res)
	rg.r.InvMForm(res, res)
	return rg.extract(res), nil
}

// MulAuto multiplies through the NTT backend when the parameters admit one
// and falls back to the schoolbook convolution otherwise.
func MulAuto(a, b Polynomial) (Polynomial, error) {
	if err := checkCompat(a, b); err != nil {
		return Polynomial{}, err
	}
	if rg, err := NewRing(len(a.Coeffs), a.Q); err == nil {
		return rg.Convolve(a, b)
	}
	return Mul(a, b)
}
