package quantum

import (
	"errors"
	"fmt"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/kyber/kyber1024"
	"github.com/cloudflare/circl/kem/kyber/kyber512"
	"github.com/cloudflare/circl/kem/kyber/kyber768"
	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/dilithium/mode2"
	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"github.com/cloudflare/circl/sign/dilithium/mode5"
)

// ErrSchemeUnavailable is returned when the underlying scheme implementation
// cannot be constructed.
var ErrSchemeUnavailable = errors.New("quantum: scheme unavailable")

// Signer wraps a real lattice signature scheme behind byte-slice keys. Unlike
// the educational big.Int constructions in this package, signatures produced
// here are genuine Dilithium signatures.
type Signer struct {
	scheme sign.Scheme
	name   string
}

// SignerFor returns the Dilithium mode matching the security level: mode2
// for standard, mode3 for military, mode5 for top-secret.
func SignerFor(level SecurityLevel) (*Signer, error) {
	var (
		sch  sign.Scheme
		name string
	)
	switch level {
	case LevelStandard:
		sch, name = mode2.Scheme(), "dilithium2"
	case LevelMilitary:
		sch, name = mode3.Scheme(), "dilithium3"
	case LevelTopSecret:
		sch, name = mode5.Scheme(), "dilithium5"
	default:
		return nil, fmt.Errorf("quantum: unknown security level %d", int(level))
	}
	if sch == nil {
		return nil, ErrSchemeUnavailable
	}
	return &Signer{scheme: sch, name: name}, nil
}

// Name returns the underlying scheme name.
func (s *Signer) Name() string { return s.name }

// PublicKeySize returns the marshaled public key length.
func (s *Signer) PublicKeySize() int { return s.scheme.PublicKeySize() }

// PrivateKeySize returns the marshaled private key length.
func (s *Signer) PrivateKeySize() int { return s.scheme.PrivateKeySize() }

// SignatureSize returns the signature length.
func (s *Signer) SignatureSize() int { return s.scheme.SignatureSize() }

// GenerateKey produces a marshaled key pair.
func (s *Signer) GenerateKey() (pub, priv []byte, err error) {
	pk, sk, err := s.scheme.GenerateKey()
	if err != nil {
		return nil, nil, fmt.Errorf("quantum: %s keygen: %w", s.name, err)
	}
	pub, err = pk.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("quantum: marshal %s public key: %w", s.name, err)
	}
	priv, err = sk.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("quantum: marshal %s private key: %w", s.name, err)
	}
	return pub, priv, nil
}

// Sign produces a signature over msg with the marshaled private key.
func (s *Signer) Sign(priv, msg []byte) ([]byte, error) {
	if len(priv) != s.scheme.PrivateKeySize() {
		return nil, fmt.Errorf("quantum: %s private key must be %d bytes", s.name, s.scheme.PrivateKeySize())
	}
	sk, err := s.scheme.UnmarshalBinaryPrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("quantum: invalid %s private key: %w", s.name, err)
	}
	return s.scheme.Sign(sk, msg, nil), nil
}

// Verify reports whether sig is a valid signature over msg for the marshaled
// public key.
func (s *Signer) Verify(pub, msg, sig []byte) bool {
	if len(pub) != s.scheme.PublicKeySize() || len(sig) != s.scheme.SignatureSize() {
		return false
	}
	pk, err := s.scheme.UnmarshalBinaryPublicKey(pub)
	if err != nil {
		return false
	}
	return s.scheme.Verify(pk, msg, sig, nil)
}

// KEM wraps a Kyber key encapsulation mechanism at one parameter size, for
// callers transporting symmetric keys alongside proofs.
type KEM struct {
	scheme kem.Scheme
	name   string
}

// KEMFor returns the Kyber KEM matching the key size. Unsupported sizes fall
// back to the 768 parameter set, mirroring key generation.
func KEMFor(keySize int) (*KEM, error) {
	var (
		sch  kem.Scheme
		name string
	)
	switch NormalizeKeySize(keySize) {
	case 512:
		sch, name = kyber512.Scheme(), "kyber512"
	case 1024:
		sch, name = kyber1024.Scheme(), "kyber1024"
	default:
		sch, name = kyber768.Scheme(), "kyber768"
	}
	if sch == nil {
		return nil, ErrSchemeUnavailable
	}
	return &KEM{scheme: sch, name: name}, nil
}

// Name returns the underlying scheme name.
func (k *KEM) Name() string { return k.name }

// CiphertextSize returns the encapsulation length.
func (k *KEM) CiphertextSize() int { return k.scheme.CiphertextSize() }

// SharedKeySize returns the shared secret length.
func (k *KEM) SharedKeySize() int { return k.scheme.SharedKeySize() }

// GenerateKeyPair produces a marshaled KEM key pair.
func (k *KEM) GenerateKeyPair() (pub, priv []byte, err error) {
	pk, sk, err := k.scheme.GenerateKeyPair()
	if err != nil {
		return nil, nil, fmt.Errorf("quantum: %s keygen: %w", k.name, err)
	}
	pub, err = pk.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("quantum: marshal %s public key: %w", k.name, err)
	}
	priv, err = sk.MarshalBinary()
	if err != nil {
		return nil, nil, fmt.Errorf("quantum: marshal %s private key: %w", k.name, err)
	}
	return pub, priv, nil
}

// Encapsulate derives a fresh shared secret for the marshaled public key.
func (k *KEM) Encapsulate(pub []byte) (ct, shared []byte, err error) {
	pk, err := k.scheme.UnmarshalBinaryPublicKey(pub)
	if err != nil {
		return nil, nil, fmt.Errorf("quantum: invalid %s public key: %w", k.name, err)
	}
	ct, shared, err = k.scheme.Encapsulate(pk)
	if err != nil {
		return nil, nil, fmt.Errorf("quantum: %s encapsulate: %w", k.name, err)
	}
	return ct, shared, nil
}

// Decapsulate recovers the shared secret from a ciphertext.
func (k *KEM) Decapsulate(priv, ct []byte) ([]byte, error) {
	sk, err := k.scheme.UnmarshalBinaryPrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("quantum: invalid %s private key: %w", k.name, err)
	}
	shared, err := k.scheme.Decapsulate(sk, ct)
	if err != nil {
		return nil, fmt.Errorf("quantum: %s decapsulate: %w", k.name, err)
	}
	return shared, nil
}
