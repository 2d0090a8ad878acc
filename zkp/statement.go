// Package zkp implements the statement prover/verifier: Schnorr, Pedersen,
// range, set-membership and equality protocols over a named elliptic-curve
// group, with Fiat-Shamir challenges, a proof lifecycle cache and
// export/import of the resulting proof objects.
package zkp

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// StatementType is the closed set of provable statement kinds.
type StatementType int

const (
	StatementDiscreteLog StatementType = iota
	StatementPedersenCommitment
	StatementRangeProof
	StatementSetMembership
	StatementEquality
	StatementCustom
)

// String returns the wire name of the statement type.
func (t StatementType) String() string {
	switch t {
	case StatementDiscreteLog:
		return "discrete_log"
	case StatementPedersenCommitment:
		return "pedersen_commitment"
	case StatementRangeProof:
		return "range_proof"
	case StatementSetMembership:
		return "set_membership"
	case StatementEquality:
		return "equality"
	case StatementCustom:
		return "custom"
	default:
		return fmt.Sprintf("statement(%d)", int(t))
	}
}

// ParseStatementType maps a wire name to its StatementType. Unknown names
// are rejected rather than defaulted.
func ParseStatementType(name string) (StatementType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "discrete_log":
		return StatementDiscreteLog, nil
	case "pedersen_commitment":
		return StatementPedersenCommitment, nil
	case "range_proof", "range":
		return StatementRangeProof, nil
	case "set_membership":
		return StatementSetMembership, nil
	case "equality":
		return StatementEquality, nil
	case "custom":
		return StatementCustom, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrStatementUnsupported, name)
	}
}

// MarshalJSON encodes the statement type as its wire name.
func (t StatementType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a statement type wire name.
func (t *StatementType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseStatementType(name)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Statement is the prover's input: a typed claim with public inputs visible
// to everyone and private inputs known only to the prover. PrivateInputs is
// excluded from every serialization; only the public portion is ever embedded
// in a proof.
type Statement struct {
	Type          StatementType     `json:"type"`
	Description   string            `json:"description,omitempty"`
	PublicInputs  map[string]string `json:"publicInputs,omitempty"`
	PrivateInputs map[string]string `json:"-"`
	Relation      string            `json:"relation,omitempty"`
}

// Public returns the named public input.
func (s Statement) Public(key string) (string, bool) {
	v, ok := s.PublicInputs[key]
	return v, ok
}

// Private returns the named private input.
func (s Statement) Private(key string) (string, bool) {
	v, ok := s.PrivateInputs[key]
	return v, ok
}

// publicCopy returns the statement with private inputs stripped, for
// embedding into proofs.
func (s Statement) publicCopy() Statement {
	out := Statement{
		Type:        s.Type,
		Description: s.Description,
		Relation:    s.Relation,
	}
	if len(s.PublicInputs) > 0 {
		out.PublicInputs = make(map[string]string, len(s.PublicInputs))
		for k, v := range s.PublicInputs {
			out.PublicInputs[k] = v
		}
	}
	return out
}

// bindingBytes serializes the public portion deterministically (sorted keys,
// length-prefixed fields) for challenge derivation and checksums.
func (s Statement) bindingBytes() []byte {
	var b strings.Builder
	writeField := func(name, value string) {
		fmt.Fprintf(&b, "%s=%d:%s;", name, len(value), value)
	}
	writeField("type", s.Type.String())
	writeField("description", s.Description)
	writeField("relation", s.Relation)
	keys := make([]string, 0, len(s.PublicInputs))
	for k := range s.PublicInputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeField("pub."+k, s.PublicInputs[k])
	}
	return []byte(b.String())
}

// parseScalar reads a big integer from its decimal or 0x-prefixed hex form.
func parseScalar(raw string) (*big.Int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty integer", ErrMissingInput)
	}
	base := 10
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		raw, base = raw[2:], 16
	}
	v, ok := new(big.Int).SetString(raw, base)
	if !ok {
		return nil, fmt.Errorf("%w: malformed integer %q", ErrMissingInput, raw)
	}
	return v, nil
}

// requirePrivateScalar fetches and parses a private input.
func requirePrivateScalar(s Statement, key string) (*big.Int, error) {
	raw, ok := s.Private(key)
	if !ok {
		return nil, fmt.Errorf("%w: private input %q", ErrMissingInput, key)
	}
	return parseScalar(raw)
}

// requirePublicScalar fetches and parses a public input.
func requirePublicScalar(s Statement, key string) (*big.Int, error) {
	raw, ok := s.Public(key)
	if !ok {
		return nil, fmt.Errorf("%w: public input %q", ErrMissingInput, key)
	}
	return parseScalar(raw)
}

// parseScalarSet splits a comma-separated list of integers.
func parseScalarSet(raw string) ([]*big.Int, error) {
	parts := strings.Split(raw, ",")
	out := make([]*big.Int, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		v, err := parseScalar(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty set", ErrMissingInput)
	}
	return out, nil
}
