package zkp

import (
	"fmt"
	"math/big"

	"zkqshield/curve"
)

// The three-move core shared by every protocol in this package: commit to a
// fresh nonce, derive or receive a challenge, respond with nonce + c·witness.
// The non-interactive variants squeeze the challenge from the transcript XOF.

// sigmaCommit draws a nonce w and returns it with the commitment w·base.
func sigmaCommit(g *curve.Group, base curve.Point) (*big.Int, curve.Point, error) {
	w, err := g.RandomScalar()
	if err != nil {
		return nil, curve.Point{}, fmt.Errorf("%w: nonce: %v", ErrCapabilityUnavailable, err)
	}
	t, err := g.ScalarMult(base, w)
	if err != nil {
		return nil, curve.Point{}, err
	}
	return w, t, nil
}

// sigmaRespond computes (w + c·x) mod n.
func sigmaRespond(g *curve.Group, w, c, x *big.Int) *big.Int {
	z := new(big.Int).Mul(c, x)
	z.Add(z, w)
	return z.Mod(z, g.N)
}

// sigmaCheck verifies z·base == t + c·result. Structural failures (off-curve
// points) surface as errors; a false relation returns false.
func sigmaCheck(g *curve.Group, base, result, t curve.Point, c, z *big.Int) (bool, error) {
	left, err := g.ScalarMult(base, z)
	if err != nil {
		return false, err
	}
	cr, err := g.ScalarMult(result, c)
	if err != nil {
		return false, err
	}
	right, err := g.Add(t, cr)
	if err != nil {
		return false, err
	}
	return left.Equal(right), nil
}

// simulateBranch fabricates an accepting transcript (t, c, z) for the
// statement "result is a multiple of base" without knowing a witness, by
// drawing c and z first and solving t = z·base − c·result. Disjunctive
// proofs use this for every branch except the honest one.
func simulateBranch(g *curve.Group, base, result curve.Point) (t curve.Point, c, z *big.Int, err error) {
	c, err = g.RandomScalar()
	if err != nil {
		return curve.Point{}, nil, nil, fmt.Errorf("%w: challenge: %v", ErrCapabilityUnavailable, err)
	}
	z, err = g.RandomScalar()
	if err != nil {
		return curve.Point{}, nil, nil, fmt.Errorf("%w: response: %v", ErrCapabilityUnavailable, err)
	}
	zb, err := g.ScalarMult(base, z)
	if err != nil {
		return curve.Point{}, nil, nil, err
	}
	cr, err := g.ScalarMult(result, c)
	if err != nil {
		return curve.Point{}, nil, nil, err
	}
	t, err = g.Sub(zb, cr)
	if err != nil {
		return curve.Point{}, nil, nil, err
	}
	return t, c, z, nil
}

// SigmaProver runs the interactive three-move protocol for knowledge of x
// with result = x·base. The non-interactive engine paths use the Fiat-Shamir
// transform instead; this session form exists for interactive callers.
type SigmaProver struct {
	group *curve.Group
	base  curve.Point
	x     *big.Int
	w     *big.Int
}

// NewSigmaProver prepares an interactive proving session.
func NewSigmaProver(g *curve.Group, base curve.Point, witness *big.Int) (*SigmaProver, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil group", ErrCapabilityUnavailable)
	}
	if err := checkPoint(g, "base", base); err != nil {
		return nil, err
	}
	if witness == nil {
		return nil, fmt.Errorf("%w: witness", ErrMissingInput)
	}
	return &SigmaProver{group: g, base: base, x: new(big.Int).Mod(witness, g.N)}, nil
}

// Commit performs the first move and returns the nonce commitment.
func (p *SigmaProver) Commit() (curve.Point, error) {
	w, t, err := sigmaCommit(p.group, p.base)
	if err != nil {
		return curve.Point{}, err
	}
	p.w = w
	return t, nil
}

// Respond answers the verifier's challenge. Commit must have been called.
func (p *SigmaProver) Respond(challenge *big.Int) (*big.Int, error) {
	if p.w == nil {
		return nil, fmt.Errorf("%w: respond before commit", ErrMissingInput)
	}
	z := sigmaRespond(p.group, p.w, challenge, p.x)
	p.w = nil // single use
	return z, nil
}

// SigmaChallenge draws a uniform interactive challenge.
func SigmaChallenge(g *curve.Group) (*big.Int, error) {
	return g.RandomScalar()
}

// SigmaVerify checks an interactive transcript (t, c, z) for result = x·base.
func SigmaVerify(g *curve.Group, base, result, t curve.Point, c, z *big.Int) (bool, error) {
	if err := checkPoint(g, "base", base); err != nil {
		return false, err
	}
	if err := checkPoint(g, "result", result); err != nil {
		return false, err
	}
	if err := checkPoint(g, "commitment", t); err != nil {
		return false, err
	}
	if err := checkScalarRange("challenge", c, g.N); err != nil {
		return false, err
	}
	if err := checkScalarRange("response", z, g.N); err != nil {
		return false, err
	}
	return sigmaCheck(g, base, result, t, c, z)
}
