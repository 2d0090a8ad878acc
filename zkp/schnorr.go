package zkp

import (
	"fmt"
	"math/big"

	"zkqshield/curve"
)

// schnorrLabel domain-separates Schnorr challenges in the transcript XOF.
const schnorrLabel = "zkq/schnorr-challenge/v1"

// SchnorrProof proves knowledge of x with y = x·g. The challenge is the
// Fiat-Shamir hash of (R, g, y, message) and the response satisfies
// s = (k + c·x) mod n.
type SchnorrProof struct {
	Commitment curve.Point `json:"commitment"` // R = k·g
	Challenge  *big.Int    `json:"challenge"`
	Response   *big.Int    `json:"response"`
	PublicKey  curve.Point `json:"publicKey"` // y = x·g
	Message    []byte      `json:"message,omitempty"`
	CurveName  string      `json:"curve"`
	Generator  curve.Point `json:"generator"`
	Order      *big.Int    `json:"order"`
}

// proveSchnorr builds a non-interactive Schnorr proof for the secret x,
// binding the optional message into the challenge.
func proveSchnorr(g *curve.Group, xof XOF, secret *big.Int, message []byte) (*SchnorrProof, error) {
	x := new(big.Int).Mod(secret, g.N)
	y := g.ScalarBaseMult(x)

	k, r, err := sigmaCommit(g, g.G)
	if err != nil {
		return nil, err
	}
	c := challengeScalar(xof, schnorrLabel, g.N,
		pointBytes(g, r), pointBytes(g, g.G), pointBytes(g, y), message)
	s := sigmaRespond(g, k, c, x)

	return &SchnorrProof{
		Commitment: r,
		Challenge:  c,
		Response:   s,
		PublicKey:  y,
		Message:    message,
		CurveName:  g.ID.String(),
		Generator:  g.G.Clone(),
		Order:      new(big.Int).Set(g.N),
	}, nil
}

// verifySchnorr recomputes the challenge from the public fields and checks
// s·g == R + c·y. A false relation is a rejection (false, nil); malformed
// fields are structural errors.
func verifySchnorr(g *curve.Group, xof XOF, p *SchnorrProof) (bool, error) {
	if p == nil {
		return false, fmt.Errorf("%w: schnorr sub-proof", ErrMissingInput)
	}
	if p.CurveName != "" && p.CurveName != g.ID.String() {
		return false, fmt.Errorf("%w: proof curve %q, verifier curve %q",
			ErrCurveParameter, p.CurveName, g.ID)
	}
	if err := checkPoint(g, "commitment", p.Commitment); err != nil {
		return false, err
	}
	if err := checkPoint(g, "public key", p.PublicKey); err != nil {
		return false, err
	}
	if err := checkScalarRange("challenge", p.Challenge, g.N); err != nil {
		return false, err
	}
	if err := checkScalarRange("response", p.Response, g.N); err != nil {
		return false, err
	}

	want := challengeScalar(xof, schnorrLabel, g.N,
		pointBytes(g, p.Commitment), pointBytes(g, g.G),
		pointBytes(g, p.PublicKey), p.Message)
	if want.Cmp(p.Challenge) != 0 {
		return false, nil
	}
	return sigmaCheck(g, g.G, p.PublicKey, p.Commitment, p.Challenge, p.Response)
}
