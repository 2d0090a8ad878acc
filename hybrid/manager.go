package hybrid

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"zkqshield/quantum"
)

// ErrKeyNotFound is returned for operations on unknown key ids.
var ErrKeyNotFound = errors.New("hybrid: key not found")

func errKeyNotFound(id string) error {
	return fmt.Errorf("%w: %s", ErrKeyNotFound, id)
}

// Config controls the hybrid signature manager.
type Config struct {
	Algorithm           quantum.Algorithm
	KeySize             int
	SecurityLevel       quantum.SecurityLevel
	FallbackToClassical bool          // degrade to classical-only instead of failing
	DigestSignatures    bool          // legacy SHA-512 stand-in instead of Dilithium
	RotationInterval    time.Duration // 0 disables rotation
}

// Manager owns hybrid key pairs: generation, signing, verification and
// rotation. All timers are owned here and stopped by Close.
type Manager struct {
	cfg    Config
	gen    *quantum.Generator
	signer *quantum.Signer
	store  *keyStore
	logger *zap.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewManager builds a manager for the given configuration.
func NewManager(cfg Config, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.KeySize = quantum.NormalizeKeySize(cfg.KeySize)

	gen, err := quantum.NewGenerator(quantum.GeneratorOpts{Logger: logger})
	if err != nil {
		return nil, err
	}
	m := &Manager{
		cfg:    cfg,
		gen:    gen,
		store:  newKeyStore(),
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	if cfg.DigestSignatures {
		logger.Warn("digest signatures enabled: quantum half is a SHA-512 stand-in, not post-quantum secure")
	} else {
		signer, err := quantum.SignerFor(cfg.SecurityLevel)
		if err != nil {
			if !cfg.FallbackToClassical {
				return nil, err
			}
			logger.Warn("quantum signer unavailable, classical-only fallback armed", zap.Error(err))
		} else {
			m.signer = signer
		}
	}

	if cfg.RotationInterval > 0 {
		go m.rotateLoop()
	} else {
		close(m.doneCh)
	}
	return m, nil
}

// GenerateKeyPair produces a hybrid key pair, stores it under a fresh id and
// returns it. The context is checked between generation phases.
func (m *Manager) GenerateKeyPair(ctx context.Context) (*KeyPair, error) {
	kp, err := m.generatePair(ctx)
	if err != nil {
		return nil, err
	}
	m.store.put(kp)
	m.logger.Info("generated hybrid key pair",
		zap.String("key_id", kp.ID),
		zap.String("algorithm", kp.Algorithm.String()),
		zap.String("security_level", kp.SecurityLevel.String()),
		zap.Bool("quantum_resistant", kp.QuantumResistant))
	return kp, nil
}

func (m *Manager) generatePair(ctx context.Context) (*KeyPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("hybrid: classical keygen: %w", err)
	}
	kp := &KeyPair{
		ID:               uuid.NewString(),
		ClassicalPublic:  pub,
		ClassicalPrivate: priv,
		Algorithm:        m.cfg.Algorithm,
		SecurityLevel:    m.cfg.SecurityLevel,
		KeySize:          m.cfg.KeySize,
		CreatedAt:        time.Now().UTC(),
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	material, err := m.gen.Generate(m.cfg.Algorithm, m.cfg.KeySize)
	if err != nil {
		if !m.cfg.FallbackToClassical {
			return nil, fmt.Errorf("hybrid: quantum keygen: %w", err)
		}
		return m.classicalOnly(kp, err)
	}
	kp.Material = material

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case m.cfg.DigestSignatures:
		kp.Scheme = SchemeDigest
		kp.QuantumResistant = false
		kp.QuantumPublic = []byte(material.PublicKey)
		kp.QuantumPrivate = []byte(material.PrivateKey)
	case m.signer != nil:
		qPub, qPriv, err := m.signer.GenerateKey()
		if err != nil {
			if !m.cfg.FallbackToClassical {
				return nil, fmt.Errorf("hybrid: quantum signer keygen: %w", err)
			}
			return m.classicalOnly(kp, err)
		}
		kp.Scheme = m.signer.Name()
		kp.QuantumResistant = true
		kp.QuantumPublic = qPub
		kp.QuantumPrivate = qPriv
	default:
		return m.classicalOnly(kp, quantum.ErrSchemeUnavailable)
	}

	msg := bindingMessage(kp.Algorithm, kp.SecurityLevel, kp.ClassicalPublic, kp.QuantumPublic)
	sig, err := kp.signHybrid(m.signer, msg)
	if err != nil {
		return nil, err
	}
	kp.HybridSignature = sig
	return kp, nil
}

// classicalOnly finalizes kp without a quantum half.
func (m *Manager) classicalOnly(kp *KeyPair, cause error) (*KeyPair, error) {
	m.logger.Warn("degrading to classical-only key pair",
		zap.String("key_id", kp.ID), zap.Error(cause))
	kp.QuantumResistant = false
	kp.Scheme = ""
	kp.QuantumPublic = nil
	kp.QuantumPrivate = nil
	kp.Material = nil
	msg := bindingMessage(kp.Algorithm, kp.SecurityLevel, kp.ClassicalPublic, nil)
	kp.HybridSignature = ed25519.Sign(kp.ClassicalPrivate, msg)
	return kp, nil
}

// Sign produces a hybrid signature over msg with the stored key. The store's
// read lock is held for the whole operation so rotation never swaps a key
// mid-signature.
func (m *Manager) Sign(keyID string, msg []byte) ([]byte, error) {
	var sig []byte
	err := m.store.withRead(keyID, func(kp *KeyPair) error {
		s, err := kp.signHybrid(m.signer, msg)
		if err != nil {
			return err
		}
		sig = s
		return nil
	})
	return sig, err
}

// Verify checks a hybrid signature produced by the stored key.
func (m *Manager) Verify(keyID string, msg, sig []byte) (bool, error) {
	var ok bool
	err := m.store.withRead(keyID, func(kp *KeyPair) error {
		v, err := kp.verifyHybrid(m.signer, msg, sig)
		if err != nil {
			return err
		}
		ok = v
		return nil
	})
	return ok, err
}

// VerifyKeyPairSignature verifies against an explicit key pair, for callers
// holding the material rather than a stored id.
func (m *Manager) VerifyKeyPairSignature(kp *KeyPair, msg, sig []byte) (bool, error) {
	return kp.verifyHybrid(m.signer, msg, sig)
}

// VerifyBinding checks the pair's stored hybrid signature over its binding
// message.
func (m *Manager) VerifyBinding(kp *KeyPair) (bool, error) {
	msg := bindingMessage(kp.Algorithm, kp.SecurityLevel, kp.ClassicalPublic, kp.QuantumPublic)
	return kp.verifyHybrid(m.signer, msg, kp.HybridSignature)
}

// Key returns the stored pair for id.
func (m *Manager) Key(id string) (*KeyPair, bool) {
	return m.store.get(id)
}

// KeyIDs lists the ids of all stored pairs.
func (m *Manager) KeyIDs() []string {
	return m.store.ids()
}

// RemoveKey drops the stored pair for id.
func (m *Manager) RemoveKey(id string) {
	m.store.remove(id)
}

// RotateKey replaces the material stored under id with a fresh pair, keeping
// the id stable.
func (m *Manager) RotateKey(ctx context.Context, id string) error {
	if _, ok := m.store.get(id); !ok {
		return errKeyNotFound(id)
	}
	fresh, err := m.generatePair(ctx)
	if err != nil {
		return fmt.Errorf("hybrid: rotate %s: %w", id, err)
	}
	m.store.replace(id, fresh)
	m.logger.Info("rotated hybrid key pair", zap.String("key_id", id))
	return nil
}

func (m *Manager) rotateLoop() {
	defer close(m.doneCh)
	ticker := time.NewTicker(m.cfg.RotationInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			for _, id := range m.store.ids() {
				if err := m.RotateKey(context.Background(), id); err != nil {
					m.logger.Error("key rotation failed",
						zap.String("key_id", id), zap.Error(err))
				}
			}
		}
	}
}

// Close stops the rotation loop and waits for it to exit. Safe to call more
// than once.
func (m *Manager) Close() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
	<-m.doneCh
}
