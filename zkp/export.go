package zkp

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Encoding selects the export wire format.
type Encoding int

const (
	EncodingJSON Encoding = iota
	EncodingBase64
	EncodingHex
)

// String returns the encoding name.
func (e Encoding) String() string {
	switch e {
	case EncodingJSON:
		return "json"
	case EncodingBase64:
		return "base64"
	case EncodingHex:
		return "hex"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

// ParseEncoding maps an encoding name to its Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return EncodingJSON, nil
	case "base64":
		return EncodingBase64, nil
	case "hex":
		return EncodingHex, nil
	default:
		return 0, fmt.Errorf("%w: unknown encoding %q", ErrSerialization, name)
	}
}

// envelope wraps an exported proof with its version and checksum.
type envelope struct {
	Version  string `json:"version"`
	Checksum string `json:"checksum"`
	Proof    *Proof `json:"proof"`
}

// proofChecksum computes the lightweight FNV-64a tamper check over the
// proof header: type, public statement, algorithm, key length and security
// level. Sub-proof material is covered by verification itself, not by the
// checksum.
func proofChecksum(p *Proof) string {
	h := fnv.New64a()
	h.Write([]byte(p.Type.String()))
	h.Write([]byte{0})
	h.Write(p.Statement.bindingBytes())
	h.Write([]byte{0})
	h.Write([]byte(p.Algorithm))
	h.Write([]byte{0})
	fmt.Fprintf(h, "%d", p.KeyLength)
	h.Write([]byte{0})
	h.Write([]byte(p.SecurityLevel.String()))
	return hex.EncodeToString(h.Sum(nil))
}

// ExportProof serializes the proof in the chosen encoding. The statement's
// private inputs and the Pedersen opening are excluded by construction; the
// payload never carries them. An expired proof is refused: verification of
// the payload could never succeed.
func (e *Engine) ExportProof(p *Proof, enc Encoding) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil proof", ErrMissingInput)
	}
	if err := p.validateShape(); err != nil {
		return nil, err
	}
	if p.Expired(time.Now().UTC()) {
		return nil, fmt.Errorf("%w: %s", ErrExpiredProof, p.ID)
	}
	env := envelope{Version: ProofVersion, Checksum: proofChecksum(p), Proof: p}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	switch enc {
	case EncodingJSON:
		return data, nil
	case EncodingBase64:
		out := make([]byte, base64.StdEncoding.EncodedLen(len(data)))
		base64.StdEncoding.Encode(out, data)
		return out, nil
	case EncodingHex:
		out := make([]byte, hex.EncodedLen(len(data)))
		hex.Encode(out, data)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: encoding %d", ErrSerialization, int(enc))
	}
}

// ImportProof decodes an exported proof, re-validates its shape and checks
// the checksum. An unrecognized version is a logged warning, not a failure;
// a checksum mismatch is.
func (e *Engine) ImportProof(data []byte, enc Encoding) (*Proof, error) {
	var raw []byte
	switch enc {
	case EncodingJSON:
		raw = data
	case EncodingBase64:
		buf := make([]byte, base64.StdEncoding.DecodedLen(len(data)))
		n, err := base64.StdEncoding.Decode(buf, data)
		if err != nil {
			return nil, fmt.Errorf("%w: base64: %v", ErrSerialization, err)
		}
		raw = buf[:n]
	case EncodingHex:
		buf := make([]byte, hex.DecodedLen(len(data)))
		n, err := hex.Decode(buf, data)
		if err != nil {
			return nil, fmt.Errorf("%w: hex: %v", ErrSerialization, err)
		}
		raw = buf[:n]
	default:
		return nil, fmt.Errorf("%w: encoding %d", ErrSerialization, int(enc))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if env.Proof == nil {
		return nil, fmt.Errorf("%w: empty envelope", ErrSerialization)
	}
	if env.Version != ProofVersion {
		e.logger.Warn("importing proof with unrecognized version",
			zap.String("version", env.Version),
			zap.String("proof_id", env.Proof.ID))
	}
	if err := env.Proof.validateShape(); err != nil {
		return nil, err
	}
	if got := proofChecksum(env.Proof); got != env.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrSerialization)
	}
	if err := e.checkVerificationKey(env.Proof); err != nil {
		return nil, err
	}
	return env.Proof, nil
}

// checkVerificationKey decodes the stored verification key. The checksum does
// not cover it, so a corrupted key would otherwise surface only as a failed
// verification. Keys bound to another group are left to the verifier's curve
// check.
func (e *Engine) checkVerificationKey(p *Proof) error {
	if p.VerificationKey == "" {
		return nil
	}
	raw, err := base64.StdEncoding.DecodeString(p.VerificationKey)
	if err != nil {
		return fmt.Errorf("%w: verification key: %v", ErrSignatureInvalid, err)
	}
	if p.Curve != "" && p.Curve != e.group.ID.String() {
		return nil
	}
	if _, err := e.group.Unmarshal(raw); err != nil {
		return fmt.Errorf("%w: verification key: %v", ErrSignatureInvalid, err)
	}
	return nil
}
