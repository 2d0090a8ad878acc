package zkp

import (
	"fmt"
	"math/big"

	"zkqshield/curve"
)

// pedersenLabel domain-separates Pedersen PoK challenges.
const pedersenLabel = "zkq/pedersen-challenge/v1"

// PedersenProof commits to a value as C = m·g + r·h and proves knowledge of
// the opening (m, r): z1 = w + c·m, z2 = v + c·r against the nonce
// commitment A = w·g + v·h. The opening itself stays prover-side and is
// never serialized.
type PedersenProof struct {
	Commitment    curve.Point `json:"commitment"` // C
	BaseG         curve.Point `json:"baseG"`
	BaseH         curve.Point `json:"baseH"`
	PoKCommitment curve.Point `json:"pokCommitment"` // A
	Challenge     *big.Int    `json:"challenge"`
	Z1            *big.Int    `json:"z1"`
	Z2            *big.Int    `json:"z2"`

	// prover-only opening, excluded from every serialization
	Value    *big.Int `json:"-"`
	Blinding *big.Int `json:"-"`
}

// provePedersen commits to value with fresh blinding and proves knowledge of
// the opening.
func provePedersen(g *curve.Group, xof XOF, value *big.Int) (*PedersenProof, error) {
	m := new(big.Int).Mod(value, g.N)
	c, r, err := g.Commit(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommitmentInvalid, err)
	}

	w, err := g.RandomScalar()
	if err != nil {
		return nil, fmt.Errorf("%w: nonce: %v", ErrCapabilityUnavailable, err)
	}
	v, err := g.RandomScalar()
	if err != nil {
		return nil, fmt.Errorf("%w: nonce: %v", ErrCapabilityUnavailable, err)
	}
	a, err := g.CommitWith(w, v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommitmentInvalid, err)
	}

	ch := challengeScalar(xof, pedersenLabel, g.N,
		pointBytes(g, c), pointBytes(g, a),
		pointBytes(g, g.G), pointBytes(g, g.H))
	z1 := sigmaRespond(g, w, ch, m)
	z2 := sigmaRespond(g, v, ch, r)

	return &PedersenProof{
		Commitment:    c,
		BaseG:         g.G.Clone(),
		BaseH:         g.H.Clone(),
		PoKCommitment: a,
		Challenge:     ch,
		Z1:            z1,
		Z2:            z2,
		Value:         m,
		Blinding:      r,
	}, nil
}

// verifyPedersen recomputes the challenge and checks
// z1·g + z2·h == A + c·C.
func verifyPedersen(g *curve.Group, xof XOF, p *PedersenProof) (bool, error) {
	if p == nil {
		return false, fmt.Errorf("%w: pedersen sub-proof", ErrMissingInput)
	}
	if err := checkPoint(g, "commitment", p.Commitment); err != nil {
		return false, err
	}
	if err := checkPoint(g, "pok commitment", p.PoKCommitment); err != nil {
		return false, err
	}
	if err := checkScalarRange("challenge", p.Challenge, g.N); err != nil {
		return false, err
	}
	if err := checkScalarRange("z1", p.Z1, g.N); err != nil {
		return false, err
	}
	if err := checkScalarRange("z2", p.Z2, g.N); err != nil {
		return false, err
	}

	want := challengeScalar(xof, pedersenLabel, g.N,
		pointBytes(g, p.Commitment), pointBytes(g, p.PoKCommitment),
		pointBytes(g, g.G), pointBytes(g, g.H))
	if want.Cmp(p.Challenge) != 0 {
		return false, nil
	}

	left, err := g.CommitWith(p.Z1, p.Z2) // z1·g + z2·h
	if err != nil {
		return false, err
	}
	cc, err := g.ScalarMult(p.Commitment, p.Challenge)
	if err != nil {
		return false, err
	}
	right, err := g.Add(p.PoKCommitment, cc)
	if err != nil {
		return false, err
	}
	return left.Equal(right), nil
}
