package zkp

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"zkqshield/prof"
)

// VerifyProof checks a proof and reports the outcome as a structured result.
// Order of checks: expiry first (an expired proof short-circuits with no
// cryptographic work), then structural shape, then the protocol relation.
// Only structural failures return an error; a false proof yields
// IsValid=false.
func (e *Engine) VerifyProof(ctx context.Context, p *Proof) (VerificationResult, error) {
	defer prof.Track(time.Now(), "zkp.VerifyProof")
	res := VerificationResult{VerifiedAt: time.Now().UTC()}
	if p != nil {
		res.ProofID = p.ID
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if p == nil {
		return res, fmt.Errorf("%w: nil proof", ErrMissingInput)
	}

	if p.Expired(res.VerifiedAt) {
		res.Error = reasonExpired
		e.notifyVerified(p, res)
		return res, nil
	}
	if err := p.validateShape(); err != nil {
		return res, err
	}
	if p.Curve != "" && p.Curve != e.group.ID.String() {
		return res, fmt.Errorf("%w: proof bound to %s, verifier group is %s",
			ErrCurveParameter, p.Curve, e.group.ID)
	}

	ok, err := e.verifyDispatch(p)
	if err != nil {
		e.logger.Debug("proof verification failed structurally",
			zap.String("proof_id", p.ID), zap.Error(err))
		return res, err
	}
	res.IsValid = ok
	if !ok {
		res.Error = fmt.Sprintf("%s relation does not hold", p.Type)
	}
	e.notifyVerified(p, res)
	e.logger.Debug("proof verified",
		zap.String("proof_id", p.ID),
		zap.String("type", p.Type.String()),
		zap.Bool("is_valid", res.IsValid))
	return res, nil
}

// verifyDispatch runs the protocol verifier matching the proof type. The
// transcript is rebound to the embedded statement, so a proof whose statement
// was rewritten after generation fails challenge recomputation.
func (e *Engine) verifyDispatch(p *Proof) (bool, error) {
	xof := bindXOF(e.xof, p.Statement.bindingBytes())
	switch p.Type {
	case StatementDiscreteLog, StatementCustom:
		return verifySchnorr(e.group, xof, p.Schnorr)
	case StatementPedersenCommitment:
		return verifyPedersen(e.group, xof, p.Pedersen)
	case StatementRangeProof:
		return verifyRange(e.group, xof, p.Range)
	case StatementSetMembership:
		return verifyMembership(e.group, xof, p.Membership)
	case StatementEquality:
		return verifyEquality(e.group, xof, p.Equality)
	default:
		return false, fmt.Errorf("%w: %s", ErrStatementUnsupported, p.Type)
	}
}

func (e *Engine) notifyVerified(p *Proof, res VerificationResult) {
	outcome := "invalid"
	if res.IsValid {
		outcome = "valid"
	}
	if res.Error == reasonExpired {
		outcome = reasonExpired
	}
	e.notifier.ProofVerified(Event{
		ProofID:       res.ProofID,
		Type:          p.Type,
		SecurityLevel: p.SecurityLevel,
		Outcome:       outcome,
	})
}
