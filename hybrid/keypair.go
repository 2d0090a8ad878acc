// Package hybrid binds classical Ed25519 keys to post-quantum key material
// and produces concatenated hybrid signatures over both.
package hybrid

import (
	"crypto/ed25519"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"
	"time"

	"golang.org/x/crypto/sha3"

	"zkqshield/quantum"
)

// Signature scheme names carried by key pairs so verification knows how to
// treat the quantum half.
const (
	SchemeDigest = "digest-sha512"
)

// KeyPair couples an Ed25519 key with a quantum key. HybridSignature covers
// the fixed binding message so the two halves cannot be mixed and matched.
type KeyPair struct {
	ID               string
	ClassicalPublic  ed25519.PublicKey
	ClassicalPrivate ed25519.PrivateKey
	QuantumPublic    []byte
	QuantumPrivate   []byte
	Material         *quantum.KeyPair // lattice material for the configured algorithm
	HybridSignature  []byte
	Algorithm        quantum.Algorithm
	SecurityLevel    quantum.SecurityLevel
	KeySize          int
	Scheme           string // quantum signature scheme name, or SchemeDigest
	QuantumResistant bool
	CreatedAt        time.Time
}

// bindingMessage fixes the bytes both halves sign, binding algorithm, level
// and the two public keys together.
func bindingMessage(alg quantum.Algorithm, level quantum.SecurityLevel, classicalPub, quantumPub []byte) []byte {
	h := sha3.NewShake256()
	h.Write([]byte("hybrid-binding/v1/"))
	h.Write([]byte(alg.String()))
	h.Write([]byte{0})
	h.Write([]byte(level.String()))
	h.Write([]byte{0})
	h.Write(classicalPub)
	h.Write(quantumPub)
	out := make([]byte, 64)
	h.Read(out)
	return out
}

// digestSignature is the legacy stand-in for a quantum signature: a SHA-512
// MAC over the private key and message. It is NOT a post-quantum signature;
// verifying it requires the private key.
func digestSignature(priv, msg []byte) []byte {
	h := sha512.New()
	h.Write(priv)
	h.Write(msg)
	return h.Sum(nil)
}

// signHybrid produces classicalSig || quantumSig over msg.
func (kp *KeyPair) signHybrid(signer *quantum.Signer, msg []byte) ([]byte, error) {
	classical := ed25519.Sign(kp.ClassicalPrivate, msg)
	if !kp.QuantumResistant && len(kp.QuantumPrivate) == 0 {
		// classical-only pair from a fallback
		return classical, nil
	}
	var quantumSig []byte
	if kp.Scheme == SchemeDigest {
		quantumSig = digestSignature(kp.QuantumPrivate, msg)
	} else {
		if signer == nil {
			return nil, fmt.Errorf("hybrid: no signer for scheme %q", kp.Scheme)
		}
		sig, err := signer.Sign(kp.QuantumPrivate, msg)
		if err != nil {
			return nil, err
		}
		quantumSig = sig
	}
	return append(classical, quantumSig...), nil
}

// verifyHybrid splits sig at the Ed25519 signature length and checks both
// halves. The classical half uses standard EdDSA verification; the quantum
// half uses the scheme verifier, or a digest comparison in legacy mode.
func (kp *KeyPair) verifyHybrid(signer *quantum.Signer, msg, sig []byte) (bool, error) {
	if len(sig) < ed25519.SignatureSize {
		return false, fmt.Errorf("hybrid: signature shorter than the classical half (%d bytes)", len(sig))
	}
	classical := sig[:ed25519.SignatureSize]
	quantumSig := sig[ed25519.SignatureSize:]

	if !ed25519.Verify(kp.ClassicalPublic, msg, classical) {
		return false, nil
	}
	if !kp.QuantumResistant && len(kp.QuantumPrivate) == 0 {
		return len(quantumSig) == 0, nil
	}
	if kp.Scheme == SchemeDigest {
		want := digestSignature(kp.QuantumPrivate, msg)
		return subtle.ConstantTimeCompare(want, quantumSig) == 1, nil
	}
	if signer == nil {
		return false, fmt.Errorf("hybrid: no signer for scheme %q", kp.Scheme)
	}
	return signer.Verify(kp.QuantumPublic, msg, quantumSig), nil
}
