package zkp

import "errors"

// Structural error kinds. These are returned to callers directly; a proof
// that is well-formed but cryptographically false is reported through
// VerificationResult instead, never as an error.
var (
	// ErrStatementUnsupported rejects statement types outside the closed set.
	ErrStatementUnsupported = errors.New("zkp: unsupported statement type")

	// ErrMissingInput flags a statement lacking a required public or private
	// input.
	ErrMissingInput = errors.New("zkp: missing required input")

	// ErrExpiredProof marks a proof whose expiry has passed.
	ErrExpiredProof = errors.New("zkp: proof expired")

	// ErrSignatureInvalid flags a structurally unusable signature component.
	ErrSignatureInvalid = errors.New("zkp: invalid signature component")

	// ErrCommitmentInvalid flags a malformed commitment.
	ErrCommitmentInvalid = errors.New("zkp: invalid commitment")

	// ErrCurveParameter flags an off-curve point or a challenge/response at or
	// above the group order.
	ErrCurveParameter = errors.New("zkp: invalid curve parameter")

	// ErrValueNotInSet fails set-membership generation when the private value
	// is absent from the public set.
	ErrValueNotInSet = errors.New("zkp: value not in set")

	// ErrSerialization covers export/import failures, including checksum
	// mismatches.
	ErrSerialization = errors.New("zkp: serialization failure")

	// ErrCapabilityUnavailable reports a missing primitive service (RNG,
	// digest, curve backend).
	ErrCapabilityUnavailable = errors.New("zkp: capability unavailable")
)
