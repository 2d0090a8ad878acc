package poly

import "math/big"

// Mul computes the negacyclic convolution a*b modulo (x^N+1, Q) by the
// schoolbook method. It is correct for every dimension and modulus; callers
// with NTT-friendly parameters should prefer Ring.Convolve.
func Mul(a, b Polynomial) (Polynomial, error) {
	if err := checkCompat(a, b); err != nil {
		return Polynomial{}, err
	}
	n := len(a.Coeffs)
	res := New(n, a.Q)
	tmp := new(big.Int)
	for i, ai := range a.Coeffs {
		if ai.Sign() == 0 {
			continue
		}
		for j, bj := range b.Coeffs {
			if bj.Sign() == 0 {
				continue
			}
			tmp.Mul(ai, bj)
			k := i + j
			if k < n {
				res.Coeffs[k].Add(res.Coeffs[k], tmp)
			} else {
				res.Coeffs[k-n].Sub(res.Coeffs[k-n], tmp)
			}
		}
	}
	for _, c := range res.Coeffs {
		c.Mod(c, a.Q)
	}
	return res, nil
}

// MulLinear computes the plain (non-reduced) convolution of a and b over Z_Q.
// The result has dimension len(a)+len(b)-1.
func MulLinear(a, b Polynomial) (Polynomial, error) {
	if a.Q.Cmp(b.Q) != 0 {
		return Polynomial{}, ErrDimensionMismatch
	}
	res := New(len(a.Coeffs)+len(b.Coeffs)-1, a.Q)
	tmp := new(big.Int)
	for i, ai := range a.Coeffs {
		if ai.Sign() == 0 {
			continue
		}
		for j, bj := range b.Coeffs {
			if bj.Sign() == 0 {
				continue
			}
			tmp.Mul(ai, bj)
			res.Coeffs[i+j].Add(res.Coeffs[i+j], tmp)
		}
	}
	for _, c := range res.Coeffs {
		c.Mod(c, a.Q)
	}
	return res, nil
}
