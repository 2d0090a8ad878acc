package quantum

import (
	"fmt"
	"time"

	"github.com/tuneinsight/lattigo/v4/utils"
	"go.uber.org/zap"

	"zkqshield/poly"
)

// GeneratorOpts controls key generation. Zero fields take defaults.
type GeneratorOpts struct {
	PRNG            utils.PRNG  // randomness source (defaults to an OS-keyed PRNG)
	Logger          *zap.Logger // defaults to zap.NewNop()
	MaxInvertTrials int         // NTRU f-resampling cap (defaults to 64)
}

// Generator produces post-quantum key pairs for the supported algorithms.
type Generator struct {
	prng            utils.PRNG
	logger          *zap.Logger
	maxInvertTrials int
}

// NewGenerator builds a Generator, filling in defaults for unset options.
func NewGenerator(opts GeneratorOpts) (*Generator, error) {
	if opts.PRNG == nil {
		prng, err := poly.NewPRNG()
		if err != nil {
			return nil, fmt.Errorf("quantum: prng: %w", err)
		}
		opts.PRNG = prng
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxInvertTrials == 0 {
		opts.MaxInvertTrials = 64
	}
	return &Generator{
		prng:            opts.PRNG,
		logger:          opts.Logger,
		maxInvertTrials: opts.MaxInvertTrials,
	}, nil
}

// Generate produces a key pair for the algorithm at the requested key size.
// Unsupported sizes fall back to the 768-bit parameter set.
func (g *Generator) Generate(alg Algorithm, keySize int) (*KeyPair, error) {
	size := NormalizeKeySize(keySize)
	if size != keySize {
		g.logger.Warn("unsupported key size, using fallback",
			zap.Int("requested", keySize),
			zap.Int("using", size))
	}
	par := ParamsFor(alg, size)

	kp := &KeyPair{
		Algorithm: alg,
		KeySize:   size,
		Params:    par,
		CreatedAt: time.Now().UTC(),
	}

	switch alg.Family() {
	case FamilyLWE:
		key, err := generateLWE(g.prng, par)
		if err != nil {
			return nil, err
		}
		kp.PublicKey = key.encodePublic(par)
		kp.PrivateKey = key.encodePrivate(par)
	case FamilyNTRU:
		key, err := generateNTRU(g.prng, par, g.maxInvertTrials)
		if err != nil {
			return nil, err
		}
		kp.PublicKey = key.encodePublic(par)
		kp.PrivateKey = key.encodePrivate(par, alg)
	case FamilyHash:
		key, err := generateSPHINCS(g.prng)
		if err != nil {
			return nil, err
		}
		kp.PublicKey = key.encodePublic()
		kp.PrivateKey = key.encodePrivate()
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownAlgorithm, alg)
	}

	g.logger.Debug("generated key pair",
		zap.String("algorithm", alg.String()),
		zap.Int("key_size", size))
	return kp, nil
}

// GenerateNamed resolves the algorithm by name before generating.
// Unrecognized names map to Kyber with a logged warning.
func (g *Generator) GenerateNamed(name string, keySize int) (*KeyPair, error) {
	alg, err := ParseAlgorithm(name)
	if err != nil {
		g.logger.Warn("unrecognized algorithm, defaulting to kyber",
			zap.String("requested", name))
		alg = Kyber
	}
	return g.Generate(alg, keySize)
}
