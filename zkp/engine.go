package zkp

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"zkqshield/curve"
	"zkqshield/quantum"
)

// DefaultTTL is the proof lifetime applied when a request does not override
// it.
const DefaultTTL = 24 * time.Hour

const defaultSweepInterval = time.Hour

// Config wires an Engine. Zero values select the secp256k1 group, the
// standard security level, a 24h TTL, an hourly sweep and two workers.
type Config struct {
	Curve         curve.ID
	SecurityLevel quantum.SecurityLevel
	DefaultTTL    time.Duration
	SweepInterval time.Duration
	Workers       int
	QueueDepth    int
	XOF           XOF
	Notifier      Notifier
	Logger        *zap.Logger
}

func (cfg *Config) applyDefaults() {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}
	if cfg.XOF == nil {
		cfg.XOF = NewShake256XOF(challengeLen)
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NopNotifier{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
}

// Engine is the prover/verifier orchestrator. All state (curve group,
// transcript XOF, proof cache, notifier, worker pool) hangs off the
// instance, so two engines never share anything.
type Engine struct {
	cfg      Config
	group    *curve.Group
	xof      XOF
	cache    *proofCache
	notifier Notifier
	logger   *zap.Logger
	pool     *workerPool

	closeOnce sync.Once
}

// NewEngine builds an engine for the configured curve.
func NewEngine(cfg Config) (*Engine, error) {
	cfg.applyDefaults()
	group, err := curve.NewGroup(cfg.Curve)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapabilityUnavailable, err)
	}
	e := &Engine{
		cfg:      cfg,
		group:    group,
		xof:      cfg.XOF,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
	}
	e.cache = newProofCache(cfg.SweepInterval)
	e.pool = newWorkerPool(e, cfg.Workers, cfg.QueueDepth)
	e.logger.Info("zkp engine ready",
		zap.String("curve", group.ID.String()),
		zap.String("security_level", cfg.SecurityLevel.String()),
		zap.Duration("default_ttl", cfg.DefaultTTL))
	return e, nil
}

// Group exposes the engine's curve group.
func (e *Engine) Group() *curve.Group {
	return e.group
}

// CachedProof returns the live cached proof for id. Expired entries are
// evicted on access.
func (e *Engine) CachedProof(id string) (*Proof, bool) {
	return e.cache.get(id)
}

// RemoveProof evicts the proof stored under id.
func (e *Engine) RemoveProof(id string) {
	e.cache.remove(id)
}

// CacheStats reports the proof cache counters.
func (e *Engine) CacheStats() CacheStats {
	return e.cache.stats()
}

// Close stops the worker pool and the cache sweeper. Safe to call more than
// once.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.pool.close()
		e.cache.close()
		e.logger.Info("zkp engine closed")
	})
}
