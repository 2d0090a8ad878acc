package zkp

import (
	"fmt"
	"math/big"

	"zkqshield/curve"
)

// rangeLabel domain-separates per-bit range challenges.
const rangeLabel = "zkq/range-bit-challenge/v1"

// BitProof shows a commitment C = b·g + r·h opens to b ∈ {0,1} via a
// two-branch disjunction: one branch proves C is a multiple of h (b=0), the
// other that C−g is (b=1). The honest branch is proven, the other simulated;
// the split challenges sum to the transcript challenge.
type BitProof struct {
	Commitment curve.Point `json:"commitment"`
	T0         curve.Point `json:"t0"`
	T1         curve.Point `json:"t1"`
	C0         *big.Int    `json:"c0"`
	C1         *big.Int    `json:"c1"`
	S0         *big.Int    `json:"s0"`
	S1         *big.Int    `json:"s1"`
}

// RangeProof shows a committed value lies in [min, max) by decomposing
// value−min into bits, proving each bit commitment opens to 0 or 1, and
// exposing the weighted sum of the bit commitments as the value commitment.
// The bit width is derived from the span, so the proof actually bounds
// value−min by the next power of two above the span; the exact upper bound
// needs an aggregate check this construction does not carry.
type RangeProof struct {
	Min        *big.Int    `json:"min"`
	Max        *big.Int    `json:"max"`
	Commitment curve.Point `json:"commitment"` // Σ 2^i·C_i, commits to value−min
	Bits       []BitProof  `json:"bits"`
}

// rangeBitCount gives the bit width covering [0, max−min).
func rangeBitCount(min, max *big.Int) int {
	span := new(big.Int).Sub(max, min)
	n := new(big.Int).Sub(span, big.NewInt(1)).BitLen()
	if n < 1 {
		n = 1
	}
	return n
}

// proveRange builds the bitwise range proof for value in [min, max).
func proveRange(g *curve.Group, xof XOF, value, min, max *big.Int) (*RangeProof, error) {
	if min == nil || max == nil {
		return nil, fmt.Errorf("%w: range bounds", ErrMissingInput)
	}
	if max.Cmp(min) <= 0 {
		return nil, fmt.Errorf("%w: max %v not above min %v", ErrMissingInput, max, min)
	}
	shifted := new(big.Int).Sub(value, min)
	if shifted.Sign() < 0 || value.Cmp(max) >= 0 {
		return nil, fmt.Errorf("%w: value outside range [%v, %v)", ErrValueNotInSet, min, max)
	}

	nbits := rangeBitCount(min, max)
	type bitWitness struct {
		bit      uint
		blinding *big.Int
	}
	wits := make([]bitWitness, nbits)
	bits := make([]BitProof, nbits)

	// commit to every bit first so the aggregate binds all challenges
	for i := 0; i < nbits; i++ {
		r, err := g.RandomScalar()
		if err != nil {
			return nil, fmt.Errorf("%w: blinding: %v", ErrCapabilityUnavailable, err)
		}
		b := shifted.Bit(i)
		ci, err := g.CommitWith(big.NewInt(int64(b)), r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCommitmentInvalid, err)
		}
		wits[i] = bitWitness{bit: b, blinding: r}
		bits[i].Commitment = ci
	}
	agg, err := aggregateBitCommitments(g, bits)
	if err != nil {
		return nil, err
	}

	for i := 0; i < nbits; i++ {
		ci := bits[i].Commitment
		ciMinusG, err := g.Sub(ci, g.G)
		if err != nil {
			return nil, err
		}

		var t0, t1 curve.Point
		var c0, c1, s0, s1, u *big.Int
		if wits[i].bit == 0 {
			// honest branch: ci = r·h; simulate the b=1 branch
			u, t0, err = sigmaCommit(g, g.H)
			if err != nil {
				return nil, err
			}
			t1, c1, s1, err = simulateBranch(g, g.H, ciMinusG)
			if err != nil {
				return nil, err
			}
			c := bitChallenge(g, xof, agg, i, ci, t0, t1)
			c0 = new(big.Int).Sub(c, c1)
			c0.Mod(c0, g.N)
			s0 = sigmaRespond(g, u, c0, wits[i].blinding)
		} else {
			// honest branch: ci−g = r·h; simulate the b=0 branch
			t0, c0, s0, err = simulateBranch(g, g.H, ci)
			if err != nil {
				return nil, err
			}
			u, t1, err = sigmaCommit(g, g.H)
			if err != nil {
				return nil, err
			}
			c := bitChallenge(g, xof, agg, i, ci, t0, t1)
			c1 = new(big.Int).Sub(c, c0)
			c1.Mod(c1, g.N)
			s1 = sigmaRespond(g, u, c1, wits[i].blinding)
		}
		bits[i].T0, bits[i].T1 = t0, t1
		bits[i].C0, bits[i].C1 = c0, c1
		bits[i].S0, bits[i].S1 = s0, s1
	}

	return &RangeProof{
		Min:        new(big.Int).Set(min),
		Max:        new(big.Int).Set(max),
		Commitment: agg,
		Bits:       bits,
	}, nil
}

// bitChallenge derives the challenge for bit index i, bound to the aggregate
// commitment so bit proofs cannot be spliced across proofs.
func bitChallenge(g *curve.Group, xof XOF, agg curve.Point, i int, ci, t0, t1 curve.Point) *big.Int {
	return challengeScalar(xof, rangeLabel, g.N,
		pointBytes(g, agg), indexBytes(i),
		pointBytes(g, ci), pointBytes(g, t0), pointBytes(g, t1))
}

// aggregateBitCommitments computes Σ 2^i·C_i.
func aggregateBitCommitments(g *curve.Group, bits []BitProof) (curve.Point, error) {
	sum := curve.Infinity()
	weight := new(big.Int)
	for i := range bits {
		weight.SetInt64(1)
		weight.Lsh(weight, uint(i))
		term, err := g.ScalarMult(bits[i].Commitment, weight)
		if err != nil {
			return curve.Point{}, err
		}
		sum, err = g.Add(sum, term)
		if err != nil {
			return curve.Point{}, err
		}
	}
	return sum, nil
}

// verifyRange checks every bit disjunction and the weighted-sum relation
// between the bit commitments and the value commitment.
func verifyRange(g *curve.Group, xof XOF, p *RangeProof) (bool, error) {
	if p == nil {
		return false, fmt.Errorf("%w: range sub-proof", ErrMissingInput)
	}
	if p.Min == nil || p.Max == nil {
		return false, fmt.Errorf("%w: range bounds", ErrMissingInput)
	}
	if p.Max.Cmp(p.Min) <= 0 {
		return false, fmt.Errorf("%w: max not above min", ErrMissingInput)
	}
	if err := checkPoint(g, "range commitment", p.Commitment); err != nil {
		return false, err
	}
	if len(p.Bits) == 0 {
		return false, fmt.Errorf("%w: no bit proofs", ErrMissingInput)
	}
	// the bit width is fixed by the public bounds
	if len(p.Bits) != rangeBitCount(p.Min, p.Max) {
		return false, nil
	}

	for i := range p.Bits {
		b := &p.Bits[i]
		if err := checkPoint(g, "bit commitment", b.Commitment); err != nil {
			return false, err
		}
		if err := checkPoint(g, "bit t0", b.T0); err != nil {
			return false, err
		}
		if err := checkPoint(g, "bit t1", b.T1); err != nil {
			return false, err
		}
		if err := checkScalarRange("c0", b.C0, g.N); err != nil {
			return false, err
		}
		if err := checkScalarRange("c1", b.C1, g.N); err != nil {
			return false, err
		}
		if err := checkScalarRange("s0", b.S0, g.N); err != nil {
			return false, err
		}
		if err := checkScalarRange("s1", b.S1, g.N); err != nil {
			return false, err
		}

		c := bitChallenge(g, xof, p.Commitment, i, b.Commitment, b.T0, b.T1)
		sum := new(big.Int).Add(b.C0, b.C1)
		sum.Mod(sum, g.N)
		if sum.Cmp(c) != 0 {
			return false, nil
		}
		ok, err := sigmaCheck(g, g.H, b.Commitment, b.T0, b.C0, b.S0)
		if err != nil || !ok {
			return ok, err
		}
		ciMinusG, err := g.Sub(b.Commitment, g.G)
		if err != nil {
			return false, err
		}
		ok, err = sigmaCheck(g, g.H, ciMinusG, b.T1, b.C1, b.S1)
		if err != nil || !ok {
			return ok, err
		}
	}

	agg, err := aggregateBitCommitments(g, p.Bits)
	if err != nil {
		return false, err
	}
	return agg.Equal(p.Commitment), nil
}
