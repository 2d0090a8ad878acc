package zkp

import (
	"fmt"
	"math/big"

	"zkqshield/curve"
)

// equalityLabel domain-separates equality challenges.
const equalityLabel = "zkq/equality-challenge/v1"

// EqualityProof shows two commitments C1 = v·g + r1·h and C2 = v·g + r2·h
// open to the same value. The nonce commitments share the value slot (same
// w·g term), so a single value response Zv ties both openings together:
// Zv·g + Z1·h == A1 + c·C1 and Zv·g + Z2·h == A2 + c·C2.
type EqualityProof struct {
	Commitment1 curve.Point `json:"commitment1"`
	Commitment2 curve.Point `json:"commitment2"`
	A1          curve.Point `json:"a1"`
	A2          curve.Point `json:"a2"`
	Challenge   *big.Int    `json:"challenge"`
	ZValue      *big.Int    `json:"zValue"`
	ZBlind1     *big.Int    `json:"zBlind1"`
	ZBlind2     *big.Int    `json:"zBlind2"`
}

// proveEquality commits to value twice with independent blindings and proves
// both commitments open to the same value.
func proveEquality(g *curve.Group, xof XOF, value *big.Int) (*EqualityProof, error) {
	v := new(big.Int).Mod(value, g.N)
	c1, r1, err := g.Commit(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommitmentInvalid, err)
	}
	c2, r2, err := g.Commit(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommitmentInvalid, err)
	}

	w, err := g.RandomScalar()
	if err != nil {
		return nil, fmt.Errorf("%w: nonce: %v", ErrCapabilityUnavailable, err)
	}
	u1, err := g.RandomScalar()
	if err != nil {
		return nil, fmt.Errorf("%w: nonce: %v", ErrCapabilityUnavailable, err)
	}
	u2, err := g.RandomScalar()
	if err != nil {
		return nil, fmt.Errorf("%w: nonce: %v", ErrCapabilityUnavailable, err)
	}
	a1, err := g.CommitWith(w, u1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommitmentInvalid, err)
	}
	a2, err := g.CommitWith(w, u2)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommitmentInvalid, err)
	}

	c := equalityChallenge(g, xof, c1, c2, a1, a2)
	zv := sigmaRespond(g, w, c, v)
	z1 := sigmaRespond(g, u1, c, r1)
	z2 := sigmaRespond(g, u2, c, r2)

	return &EqualityProof{
		Commitment1: c1,
		Commitment2: c2,
		A1:          a1,
		A2:          a2,
		Challenge:   c,
		ZValue:      zv,
		ZBlind1:     z1,
		ZBlind2:     z2,
	}, nil
}

func equalityChallenge(g *curve.Group, xof XOF, c1, c2, a1, a2 curve.Point) *big.Int {
	return challengeScalar(xof, equalityLabel, g.N,
		pointBytes(g, c1), pointBytes(g, c2),
		pointBytes(g, a1), pointBytes(g, a2))
}

// verifyEquality recomputes the challenge and checks both opening relations
// against the shared value response.
func verifyEquality(g *curve.Group, xof XOF, p *EqualityProof) (bool, error) {
	if p == nil {
		return false, fmt.Errorf("%w: equality sub-proof", ErrMissingInput)
	}
	if err := checkPoint(g, "commitment1", p.Commitment1); err != nil {
		return false, err
	}
	if err := checkPoint(g, "commitment2", p.Commitment2); err != nil {
		return false, err
	}
	if err := checkPoint(g, "a1", p.A1); err != nil {
		return false, err
	}
	if err := checkPoint(g, "a2", p.A2); err != nil {
		return false, err
	}
	if err := checkScalarRange("challenge", p.Challenge, g.N); err != nil {
		return false, err
	}
	if err := checkScalarRange("zValue", p.ZValue, g.N); err != nil {
		return false, err
	}
	if err := checkScalarRange("zBlind1", p.ZBlind1, g.N); err != nil {
		return false, err
	}
	if err := checkScalarRange("zBlind2", p.ZBlind2, g.N); err != nil {
		return false, err
	}

	if equalityChallenge(g, xof, p.Commitment1, p.Commitment2, p.A1, p.A2).Cmp(p.Challenge) != 0 {
		return false, nil
	}
	ok, err := equalityRelation(g, p.ZValue, p.ZBlind1, p.A1, p.Commitment1, p.Challenge)
	if err != nil || !ok {
		return ok, err
	}
	return equalityRelation(g, p.ZValue, p.ZBlind2, p.A2, p.Commitment2, p.Challenge)
}

// equalityRelation checks zv·g + zb·h == a + c·commitment.
func equalityRelation(g *curve.Group, zv, zb *big.Int, a, commitment curve.Point, c *big.Int) (bool, error) {
	left, err := g.CommitWith(zv, zb)
	if err != nil {
		return false, err
	}
	cc, err := g.ScalarMult(commitment, c)
	if err != nil {
		return false, err
	}
	right, err := g.Add(a, cc)
	if err != nil {
		return false, err
	}
	return left.Equal(right), nil
}
