package zkp

import (
	"fmt"
	"math/big"
	"time"

	"zkqshield/curve"
	"zkqshield/quantum"
)

// ProofVersion tags exported proofs so older payloads are recognized on
// import.
const ProofVersion = "zkq-proof-v1"

// Proof is the persisted unit produced by the engine: exactly one sub-proof
// is populated, matching Type. Proofs are read-only after generation.
type Proof struct {
	ID           string            `json:"id"`
	Type         StatementType     `json:"type"`
	Statement    Statement         `json:"statement"`
	Schnorr      *SchnorrProof     `json:"schnorr,omitempty"`
	Pedersen     *PedersenProof    `json:"pedersen,omitempty"`
	Range        *RangeProof       `json:"range,omitempty"`
	Membership   *MembershipProof  `json:"membership,omitempty"`
	Equality     *EqualityProof    `json:"equality,omitempty"`
	PublicInputs map[string]string `json:"publicInputs,omitempty"`

	Timestamp        time.Time             `json:"timestamp"`
	ExpiresAt        time.Time             `json:"expiresAt"`
	VerificationKey  string                `json:"verificationKey,omitempty"`
	SecurityLevel    quantum.SecurityLevel `json:"securityLevel"`
	Algorithm        string                `json:"algorithm"`
	Curve            string                `json:"curve"`
	KeyLength        int                   `json:"keyLength"`
	QuantumResistant bool                  `json:"quantumResistant"`
	Version          string                `json:"version"`
}

// Expired reports whether the proof's expiry has passed at the given time.
func (p *Proof) Expired(at time.Time) bool {
	return !p.ExpiresAt.IsZero() && at.After(p.ExpiresAt)
}

// subProofCount counts populated sub-proofs.
func (p *Proof) subProofCount() int {
	n := 0
	if p.Schnorr != nil {
		n++
	}
	if p.Pedersen != nil {
		n++
	}
	if p.Range != nil {
		n++
	}
	if p.Membership != nil {
		n++
	}
	if p.Equality != nil {
		n++
	}
	return n
}

// validateShape checks the structural invariants every proof must satisfy
// before any cryptographic work: a single sub-proof matching the type, an id,
// and a sane timestamp/expiry pair.
func (p *Proof) validateShape() error {
	if p == nil {
		return fmt.Errorf("%w: nil proof", ErrMissingInput)
	}
	if p.ID == "" {
		return fmt.Errorf("%w: proof id", ErrMissingInput)
	}
	if p.ExpiresAt.IsZero() {
		return fmt.Errorf("%w: expiresAt", ErrMissingInput)
	}
	if !p.ExpiresAt.After(p.Timestamp) {
		return fmt.Errorf("%w: expiresAt must follow timestamp", ErrSerialization)
	}
	if n := p.subProofCount(); n != 1 {
		return fmt.Errorf("%w: %d sub-proofs populated, want exactly 1", ErrSerialization, n)
	}
	var ok bool
	switch p.Type {
	case StatementDiscreteLog, StatementCustom:
		ok = p.Schnorr != nil
	case StatementPedersenCommitment:
		ok = p.Pedersen != nil
	case StatementRangeProof:
		ok = p.Range != nil
	case StatementSetMembership:
		ok = p.Membership != nil
	case StatementEquality:
		ok = p.Equality != nil
	default:
		return fmt.Errorf("%w: %s", ErrStatementUnsupported, p.Type)
	}
	if !ok {
		return fmt.Errorf("%w: sub-proof does not match type %s", ErrSerialization, p.Type)
	}
	return nil
}

// VerificationResult is the structured outcome of VerifyProof. A
// cryptographically rejected proof yields IsValid=false with a reason in
// Error; it is never reported as a Go error.
type VerificationResult struct {
	IsValid    bool      `json:"isValid"`
	ProofID    string    `json:"proofId"`
	VerifiedAt time.Time `json:"verifiedAt"`
	Error      string    `json:"error,omitempty"`
}

// reasonExpired is the rejection reason for proofs past their expiry.
const reasonExpired = "expired"

// validPoint reports whether p carries both coordinates (deserialized proofs
// may have nil fields).
func validPoint(p curve.Point) bool {
	return p.X != nil && p.Y != nil
}

// checkScalarRange enforces 0 <= v < order for deserialized challenge and
// response scalars.
func checkScalarRange(name string, v *big.Int, order *big.Int) error {
	if v == nil {
		return fmt.Errorf("%w: %s missing", ErrMissingInput, name)
	}
	if v.Sign() < 0 || v.Cmp(order) >= 0 {
		return fmt.Errorf("%w: %s outside group order", ErrCurveParameter, name)
	}
	return nil
}

// checkPoint enforces curve membership for a deserialized point.
func checkPoint(g *curve.Group, name string, p curve.Point) error {
	if !validPoint(p) {
		return fmt.Errorf("%w: %s missing", ErrMissingInput, name)
	}
	if !g.OnCurve(p) {
		return fmt.Errorf("%w: %s off curve", ErrCurveParameter, name)
	}
	return nil
}
