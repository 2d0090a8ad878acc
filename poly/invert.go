package poly

import "math/big"

// CoeffInverse returns the coefficient-wise modular inverse of p. This is the
// inverse of p only in the degenerate single-coefficient case; it is NOT the
// ring inverse of a general polynomial. Kept for callers that operate on
// diagonal embeddings; everything keying material depends on uses RingInverse.
func CoeffInverse(p Polynomial) (Polynomial, bool) {
	r := New(len(p.Coeffs), p.Q)
	for i, c := range p.Coeffs {
		if c.Sign() == 0 {
			return Polynomial{}, false
		}
		inv := new(big.Int).ModInverse(c, p.Q)
		if inv == nil {
			return Polynomial{}, false
		}
		r.Coeffs[i].Set(inv)
	}
	return r, true
}

// RingInverse returns f⁻¹ in Z_Q[x]/(x^N+1) when it exists, computed by the
// extended Euclidean algorithm over polynomials. The second return is false
// when f is not a unit (or when a non-invertible leading coefficient blocks
// the division chain, which for composite Q can happen even for units).
func RingInverse(f Polynomial) (Polynomial, bool) {
	n := len(f.Coeffs)
	q := f.Q

	// R0 = x^N + 1, R1 = f
	r0 := newMod(n+1, q)
	r0.coeffs[0].SetInt64(1)
	r0.coeffs[n].SetInt64(1)
	r1 := modFrom(f)

	s0 := modPoly{coeffs: []*big.Int{big.NewInt(1)}, q: q}
	s1 := modPoly{coeffs: nil, q: q}
	t0 := modPoly{coeffs: nil, q: q}
	t1 := modPoly{coeffs: []*big.Int{big.NewInt(1)}, q: q}

	for r1.degree() >= 0 {
		quot, rem, ok := modDiv(r0, r1)
		if !ok {
			return Polynomial{}, false
		}
		r0, r1 = r1, rem
		s0, s1 = s1, modSub(s0, modMul(quot, s1))
		t0, t1 = t1, modSub(t0, modMul(quot, t1))
	}
	_ = s0
	if r0.degree() != 0 {
		return Polynomial{}, false
	}
	lead := new(big.Int).Mod(r0.coeffs[0], q)
	inv := new(big.Int).ModInverse(lead, q)
	if inv == nil {
		return Polynomial{}, false
	}

	// t0 * inv, reduced back into the ring, is the candidate inverse.
	cand := modScalarMul(t0, inv)
	out := reduceNegacyclic(cand, n)

	// Confirm f * out == 1 before handing the inverse back.
	check, err := Mul(f, out)
	if err != nil {
		return Polynomial{}, false
	}
	one := New(n, q)
	one.Coeffs[0].SetInt64(1)
	if !check.Equal(one) {
		return Polynomial{}, false
	}
	return out, true
}

// modPoly is a dense polynomial over Z_q used only by the Euclidean chain.
type modPoly struct {
	coeffs []*big.Int
	q      *big.Int
}

func newMod(n int, q *big.Int) modPoly {
	coeffs := make([]*big.Int, n)
	for i := range coeffs {
		coeffs[i] = new(big.Int)
	}
	return modPoly{coeffs: coeffs, q: q}
}

func modFrom(p Polynomial) modPoly {
	m := newMod(len(p.Coeffs), p.Q)
	for i, c := range p.Coeffs {
		m.coeffs[i].Mod(c, p.Q)
	}
	return m
}

func (p modPoly) degree() int {
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		if new(big.Int).Mod(p.coeffs[i], p.q).Sign() != 0 {
			return i
		}
	}
	return -1
}

func modSub(a, b modPoly) modPoly {
	n := len(a.coeffs)
	if len(b.coeffs) > n {
		n = len(b.coeffs)
	}
	out := newMod(n, a.q)
	for i := 0; i < n; i++ {
		if i < len(a.coeffs) {
			out.coeffs[i].Set(a.coeffs[i])
		}
		if i < len(b.coeffs) {
			out.coeffs[i].Sub(out.coeffs[i], b.coeffs[i])
		}
		out.coeffs[i].Mod(out.coeffs[i], a.q)
	}
	return out
}

func modMul(a, b modPoly) modPoly {
	if len(a.coeffs) == 0 || len(b.coeffs) == 0 {
		return modPoly{coeffs: nil, q: a.q}
	}
	out := newMod(len(a.coeffs)+len(b.coeffs)-1, a.q)
	tmp := new(big.Int)
	for i, ai := range a.coeffs {
		if ai.Sign() == 0 {
			continue
		}
		for j, bj := range b.coeffs {
			if bj.Sign() == 0 {
				continue
			}
			tmp.Mul(ai, bj)
			out.coeffs[i+j].Add(out.coeffs[i+j], tmp)
			out.coeffs[i+j].Mod(out.coeffs[i+j], a.q)
		}
	}
	return out
}

func modScalarMul(a modPoly, s *big.Int) modPoly {
	out := newMod(len(a.coeffs), a.q)
	for i, c := range a.coeffs {
		out.coeffs[i].Mul(c, s)
		out.coeffs[i].Mod(out.coeffs[i], a.q)
	}
	return out
}

// modDiv computes the quotient and remainder of a by b over Z_q[x]. It fails
// when the leading coefficient of b has no inverse modulo q.
func modDiv(a, b modPoly) (quot, rem modPoly, ok bool) {
	db := b.degree()
	if db < 0 {
		return modPoly{}, modPoly{}, false
	}
	leadInv := new(big.Int).ModInverse(new(big.Int).Mod(b.coeffs[db], b.q), b.q)
	if leadInv == nil {
		return modPoly{}, modPoly{}, false
	}
	r := newMod(len(a.coeffs), a.q)
	for i, c := range a.coeffs {
		r.coeffs[i].Set(c)
	}
	da := r.degree()
	var qcoeffs []*big.Int
	tmp := new(big.Int)
	for da >= db {
		coef := new(big.Int).Mul(r.coeffs[da], leadInv)
		coef.Mod(coef, a.q)
		shift := da - db
		for shift >= len(qcoeffs) {
			qcoeffs = append(qcoeffs, new(big.Int))
		}
		qcoeffs[shift].Add(qcoeffs[shift], coef)
		qcoeffs[shift].Mod(qcoeffs[shift], a.q)
		for i := 0; i <= db; i++ {
			tmp.Mul(coef, b.coeffs[i])
			r.coeffs[i+shift].Sub(r.coeffs[i+shift], tmp)
			r.coeffs[i+shift].Mod(r.coeffs[i+shift], a.q)
		}
		da = r.degree()
	}
	return modPoly{coeffs: qcoeffs, q: a.q}, r, true
}

// reduceNegacyclic folds a dense polynomial back into dimension n using
// x^n ≡ -1.
func reduceNegacyclic(a modPoly, n int) Polynomial {
	out := New(n, a.q)
	for i, c := range a.coeffs {
		idx := i % n
		v := new(big.Int).Mod(c, a.q)
		if (i/n)%2 == 0 {
			out.Coeffs[idx].Add(out.Coeffs[idx], v)
		} else {
			out.Coeffs[idx].Sub(out.Coeffs[idx], v)
		}
		out.Coeffs[idx].Mod(out.Coeffs[idx], a.q)
	}
	return out
}
