// Package poly implements arithmetic over the polynomial rings used by the
// lattice key generator: Z[x] and Z_q[x], reduced modulo x^N+1 where a ring
// structure is required. Coefficients are arbitrary-precision integers so a
// single representation serves every parameter set, with an NTT-accelerated
// path for moduli that fit a machine word.
package poly

import (
	"errors"
	"math/big"
)

// Polynomial holds N coefficients modulo Q. The zero value is not usable;
// construct with New or one of the samplers.
type Polynomial struct {
	Coeffs []*big.Int
	Q      *big.Int
}

// New allocates a zero polynomial of dimension n modulo q.
func New(n int, q *big.Int) Polynomial {
	coeffs := make([]*big.Int, n)
	for i := range coeffs {
		coeffs[i] = new(big.Int)
	}
	return Polynomial{Coeffs: coeffs, Q: new(big.Int).Set(q)}
}

// N returns the dimension of the polynomial.
func (p Polynomial) N() int { return len(p.Coeffs) }

// Clone returns a deep copy of p.
func (p Polynomial) Clone() Polynomial {
	r := New(len(p.Coeffs), p.Q)
	for i := range p.Coeffs {
		r.Coeffs[i].Set(p.Coeffs[i])
	}
	return r
}

// Add adds two polynomials coefficient-wise modulo Q.
func (p Polynomial) Add(q Polynomial) Polynomial {
	r := New(len(p.Coeffs), p.Q)
	for i := range p.Coeffs {
		r.Coeffs[i].Add(p.Coeffs[i], q.Coeffs[i])
		r.Coeffs[i].Mod(r.Coeffs[i], p.Q)
	}
	return r
}

// Sub subtracts q from p coefficient-wise modulo Q.
func (p Polynomial) Sub(q Polynomial) Polynomial {
	r := New(len(p.Coeffs), p.Q)
	for i := range p.Coeffs {
		r.Coeffs[i].Sub(p.Coeffs[i], q.Coeffs[i])
		r.Coeffs[i].Mod(r.Coeffs[i], p.Q)
	}
	return r
}

// Neg negates p modulo Q.
func (p Polynomial) Neg() Polynomial {
	r := New(len(p.Coeffs), p.Q)
	for i := range p.Coeffs {
		r.Coeffs[i].Neg(p.Coeffs[i])
		r.Coeffs[i].Mod(r.Coeffs[i], p.Q)
	}
	return r
}

// ScalarMul multiplies every coefficient by s modulo Q.
func (p Polynomial) ScalarMul(s *big.Int) Polynomial {
	r := New(len(p.Coeffs), p.Q)
	for i := range p.Coeffs {
		r.Coeffs[i].Mul(p.Coeffs[i], s)
		r.Coeffs[i].Mod(r.Coeffs[i], p.Q)
	}
	return r
}

// Equal reports whether p and q have identical dimension, modulus and
// coefficients.
func (p Polynomial) Equal(q Polynomial) bool {
	if len(p.Coeffs) != len(q.Coeffs) || p.Q.Cmp(q.Q) != 0 {
		return false
	}
	for i := range p.Coeffs {
		if p.Coeffs[i].Cmp(q.Coeffs[i]) != 0 {
			return false
		}
	}
	return true
}

// IsZero reports whether every coefficient is zero.
func (p Polynomial) IsZero() bool {
	for _, c := range p.Coeffs {
		if c.Sign() != 0 {
			return false
		}
	}
	return true
}

// Center returns the coefficients lifted to the symmetric interval
// (-Q/2, Q/2].
func (p Polynomial) Center() []*big.Int {
	half := new(big.Int).Rsh(p.Q, 1)
	out := make([]*big.Int, len(p.Coeffs))
	for i, c := range p.Coeffs {
		v := new(big.Int).Mod(c, p.Q)
		if v.Cmp(half) > 0 {
			v.Sub(v, p.Q)
		}
		out[i] = v
	}
	return out
}

// InfNorm returns the largest centered coefficient magnitude.
func (p Polynomial) InfNorm() *big.Int {
	max := new(big.Int)
	for _, c := range p.Center() {
		abs := new(big.Int).Abs(c)
		if abs.Cmp(max) > 0 {
			max.Set(abs)
		}
	}
	return max
}

// FromInt64 builds a polynomial from signed coefficients, embedding them
// modulo q.
func FromInt64(coeffs []int64, q *big.Int) Polynomial {
	r := New(len(coeffs), q)
	for i, c := range coeffs {
		r.Coeffs[i].SetInt64(c)
		r.Coeffs[i].Mod(r.Coeffs[i], q)
	}
	return r
}

// ErrDimensionMismatch is returned when two polynomials of different
// dimension or modulus are combined.
var ErrDimensionMismatch = errors.New("poly: dimension or modulus mismatch")

// checkCompat validates that a and b live in the same ring.
func checkCompat(a, b Polynomial) error {
	if len(a.Coeffs) != len(b.Coeffs) || a.Q.Cmp(b.Q) != 0 {
		return ErrDimensionMismatch
	}
	return nil
}
