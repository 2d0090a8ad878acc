package zkp

import (
	"fmt"
	"math/big"

	"zkqshield/curve"
)

// membershipLabel domain-separates set-membership challenges.
const membershipLabel = "zkq/membership-challenge/v1"

// ORBranch is one branch of a disjunctive proof: commitment, branch
// challenge and response for the statement "C − a_i·g is a multiple of h".
type ORBranch struct {
	T         curve.Point `json:"t"`
	Challenge *big.Int    `json:"challenge"`
	Response  *big.Int    `json:"response"`
}

// MembershipProof shows a commitment C = v·g + r·h opens to some element of
// the public set without revealing which. Exactly one branch is proven
// honestly; the rest are simulated with freely chosen challenge/response
// pairs, and all branch challenges sum to the transcript challenge.
type MembershipProof struct {
	Commitment curve.Point `json:"commitment"`
	Set        []*big.Int  `json:"set"`
	Branches   []ORBranch  `json:"branches"`
	Challenge  *big.Int    `json:"challenge"` // transcript challenge, Σ branch challenges
}

// proveMembership builds the OR proof for value against set. Generation
// refuses with ErrValueNotInSet when the value is absent, producing no proof.
func proveMembership(g *curve.Group, xof XOF, value *big.Int, set []*big.Int) (*MembershipProof, error) {
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: empty set", ErrMissingInput)
	}
	v := new(big.Int).Mod(value, g.N)
	honest := -1
	for i, el := range set {
		if el == nil {
			return nil, fmt.Errorf("%w: set element %d", ErrMissingInput, i)
		}
		if new(big.Int).Mod(el, g.N).Cmp(v) == 0 {
			honest = i
			break
		}
	}
	if honest < 0 {
		return nil, fmt.Errorf("%w: value absent from %d-element set", ErrValueNotInSet, len(set))
	}

	c, r, err := g.Commit(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommitmentInvalid, err)
	}

	branches := make([]ORBranch, len(set))
	challengeSum := new(big.Int)
	var honestNonce *big.Int
	for i, el := range set {
		if i == honest {
			// first move only; challenge and response come after the transcript
			u, t, err := sigmaCommit(g, g.H)
			if err != nil {
				return nil, err
			}
			honestNonce = u
			branches[i].T = t
			continue
		}
		target, err := branchTarget(g, c, el)
		if err != nil {
			return nil, err
		}
		t, ci, si, err := simulateBranch(g, g.H, target)
		if err != nil {
			return nil, err
		}
		branches[i] = ORBranch{T: t, Challenge: ci, Response: si}
		challengeSum.Add(challengeSum, ci)
	}

	total := membershipChallenge(g, xof, c, set, branches)
	honestChallenge := new(big.Int).Sub(total, challengeSum)
	honestChallenge.Mod(honestChallenge, g.N)
	branches[honest].Challenge = honestChallenge
	branches[honest].Response = sigmaRespond(g, honestNonce, honestChallenge, r)

	return &MembershipProof{
		Commitment: c,
		Set:        cloneScalars(set),
		Branches:   branches,
		Challenge:  total,
	}, nil
}

// branchTarget computes C − a_i·g, the point whose h-multiple the branch
// proves.
func branchTarget(g *curve.Group, c curve.Point, el *big.Int) (curve.Point, error) {
	aiG := g.ScalarBaseMult(new(big.Int).Mod(el, g.N))
	return g.Sub(c, aiG)
}

// membershipChallenge binds the commitment, the set and every branch
// commitment into the transcript challenge.
func membershipChallenge(g *curve.Group, xof XOF, c curve.Point, set []*big.Int, branches []ORBranch) *big.Int {
	parts := make([][]byte, 0, 1+len(set)+len(branches))
	parts = append(parts, pointBytes(g, c))
	for _, el := range set {
		parts = append(parts, scalarBytes(el))
	}
	for i := range branches {
		parts = append(parts, pointBytes(g, branches[i].T))
	}
	return challengeScalar(xof, membershipLabel, g.N, parts...)
}

// verifyMembership recomputes the transcript challenge, checks the branch
// challenges sum to it, and verifies every branch relation.
func verifyMembership(g *curve.Group, xof XOF, p *MembershipProof) (bool, error) {
	if p == nil {
		return false, fmt.Errorf("%w: membership sub-proof", ErrMissingInput)
	}
	if len(p.Set) == 0 {
		return false, fmt.Errorf("%w: empty set", ErrMissingInput)
	}
	if len(p.Branches) != len(p.Set) {
		return false, fmt.Errorf("%w: %d branches for %d set elements",
			ErrCommitmentInvalid, len(p.Branches), len(p.Set))
	}
	if err := checkPoint(g, "commitment", p.Commitment); err != nil {
		return false, err
	}
	if err := checkScalarRange("challenge", p.Challenge, g.N); err != nil {
		return false, err
	}

	sum := new(big.Int)
	for i := range p.Branches {
		b := &p.Branches[i]
		if err := checkPoint(g, "branch commitment", b.T); err != nil {
			return false, err
		}
		if err := checkScalarRange("branch challenge", b.Challenge, g.N); err != nil {
			return false, err
		}
		if err := checkScalarRange("branch response", b.Response, g.N); err != nil {
			return false, err
		}
		sum.Add(sum, b.Challenge)
	}
	sum.Mod(sum, g.N)
	if sum.Cmp(p.Challenge) != 0 {
		return false, nil
	}
	if membershipChallenge(g, xof, p.Commitment, p.Set, p.Branches).Cmp(p.Challenge) != 0 {
		return false, nil
	}

	for i := range p.Branches {
		target, err := branchTarget(g, p.Commitment, p.Set[i])
		if err != nil {
			return false, err
		}
		ok, err := sigmaCheck(g, g.H, target, p.Branches[i].T,
			p.Branches[i].Challenge, p.Branches[i].Response)
		if err != nil || !ok {
			return ok, err
		}
	}
	return true, nil
}

// cloneScalars deep-copies a scalar slice.
func cloneScalars(in []*big.Int) []*big.Int {
	out := make([]*big.Int, len(in))
	for i, v := range in {
		out[i] = new(big.Int).Set(v)
	}
	return out
}
