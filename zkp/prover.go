package zkp

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"zkqshield/curve"
	"zkqshield/prof"
)

// Request asks the engine for one proof over the given statement. TTL
// overrides the engine default when positive.
type Request struct {
	Statement Statement
	TTL       time.Duration
}

// GenerateProof validates the statement, runs the matching protocol and
// returns the cached proof. Structural problems (unsupported type, missing
// inputs, a membership value absent from its set) are errors; no partial
// proof is ever produced.
func (e *Engine) GenerateProof(ctx context.Context, req Request) (*Proof, error) {
	defer prof.Track(time.Now(), "zkp.GenerateProof")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := e.generate(req)
	if err != nil {
		e.logger.Debug("proof generation rejected",
			zap.String("type", req.Statement.Type.String()), zap.Error(err))
		return nil, err
	}
	e.cache.put(p)
	e.notifier.ProofGenerated(Event{
		ProofID:       p.ID,
		Type:          p.Type,
		SecurityLevel: p.SecurityLevel,
		Outcome:       "generated",
	})
	e.logger.Debug("proof generated",
		zap.String("proof_id", p.ID),
		zap.String("type", p.Type.String()),
		zap.Time("expires_at", p.ExpiresAt))
	return p, nil
}

func (e *Engine) generate(req Request) (*Proof, error) {
	st := req.Statement
	// challenges absorb the statement's public portion, so the embedded
	// statement cannot be rewritten after the fact
	xof := bindXOF(e.xof, st.bindingBytes())
	p := &Proof{
		Type:          st.Type,
		Statement:     st.publicCopy(),
		SecurityLevel: e.cfg.SecurityLevel,
		Curve:         e.group.ID.String(),
		KeyLength:     e.group.N.BitLen(),
		Version:       ProofVersion,
	}
	p.PublicInputs = p.Statement.PublicInputs

	switch st.Type {
	case StatementDiscreteLog, StatementCustom:
		secret, err := requirePrivateScalar(st, "secret")
		if err != nil {
			return nil, err
		}
		var message []byte
		if raw, ok := st.Public("message"); ok {
			message = []byte(raw)
		}
		sub, err := proveSchnorr(e.group, xof, secret, message)
		if err != nil {
			return nil, err
		}
		p.Schnorr = sub
		p.Algorithm = "schnorr"
		p.VerificationKey = e.encodePoint(sub.PublicKey)

	case StatementPedersenCommitment:
		value, err := requirePrivateScalar(st, "value")
		if err != nil {
			return nil, err
		}
		sub, err := provePedersen(e.group, xof, value)
		if err != nil {
			return nil, err
		}
		p.Pedersen = sub
		p.Algorithm = "pedersen"
		p.VerificationKey = e.encodePoint(sub.Commitment)

	case StatementRangeProof:
		value, err := requirePrivateScalar(st, "value")
		if err != nil {
			return nil, err
		}
		min, err := requirePublicScalar(st, "min")
		if err != nil {
			return nil, err
		}
		max, err := requirePublicScalar(st, "max")
		if err != nil {
			return nil, err
		}
		sub, err := proveRange(e.group, xof, value, min, max)
		if err != nil {
			return nil, err
		}
		p.Range = sub
		p.Algorithm = "pedersen-bitrange"
		p.VerificationKey = e.encodePoint(sub.Commitment)

	case StatementSetMembership:
		value, err := requirePrivateScalar(st, "value")
		if err != nil {
			return nil, err
		}
		rawSet, ok := st.Public("set")
		if !ok {
			return nil, fmt.Errorf("%w: public input %q", ErrMissingInput, "set")
		}
		set, err := parseScalarSet(rawSet)
		if err != nil {
			return nil, err
		}
		sub, err := proveMembership(e.group, xof, value, set)
		if err != nil {
			return nil, err
		}
		p.Membership = sub
		p.Algorithm = "pedersen-or"
		p.VerificationKey = e.encodePoint(sub.Commitment)

	case StatementEquality:
		value, err := requirePrivateScalar(st, "value")
		if err != nil {
			return nil, err
		}
		sub, err := proveEquality(e.group, xof, value)
		if err != nil {
			return nil, err
		}
		p.Equality = sub
		p.Algorithm = "pedersen-equality"
		p.VerificationKey = e.encodePoint(sub.Commitment1)

	default:
		return nil, fmt.Errorf("%w: %s", ErrStatementUnsupported, st.Type)
	}

	ttl := req.TTL
	if ttl <= 0 {
		ttl = e.cfg.DefaultTTL
	}
	p.ID = uuid.NewString()
	p.Timestamp = time.Now().UTC()
	p.ExpiresAt = p.Timestamp.Add(ttl)
	return p, nil
}

// encodePoint renders a point as the base64 verification-key form.
func (e *Engine) encodePoint(pt curve.Point) string {
	return base64.StdEncoding.EncodeToString(e.group.Marshal(pt))
}
