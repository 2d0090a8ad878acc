package quantum

import (
	"math"
	"math/big"
)

// LatticeParams fixes the ring dimension N, modulus Q, Gaussian width Sigma
// and module rank K for one algorithm at one key size.
type LatticeParams struct {
	N     int
	Q     *big.Int
	Sigma float64
	K     int
}

// KeySizes lists the supported key sizes in preference order.
var KeySizes = []int{512, 768, 1024}

// DefaultKeySize is the parameter set used when an unsupported size is
// requested.
const DefaultKeySize = 768

// NormalizeKeySize maps a requested size onto a supported one, falling back
// to DefaultKeySize for anything else.
func NormalizeKeySize(size int) int {
	for _, s := range KeySizes {
		if size == s {
			return size
		}
	}
	return DefaultKeySize
}

// ParamsFor returns the lattice parameter set for the algorithm at the given
// key size. Hash-based algorithms carry no lattice parameters and return nil.
func ParamsFor(alg Algorithm, keySize int) *LatticeParams {
	size := NormalizeKeySize(keySize)
	switch alg {
	case Kyber:
		return &LatticeParams{N: 256, Q: big.NewInt(3329), Sigma: 1.0, K: kyberRank(size)}
	case SABER:
		return &LatticeParams{N: 256, Q: big.NewInt(8192), Sigma: 1.33, K: kyberRank(size)}
	case Dilithium:
		return &LatticeParams{N: 256, Q: big.NewInt(8380417), Sigma: 1.0, K: dilithiumRank(size)}
	case NTRU, Falcon:
		// FALCON's width rule sigma = 1.17*sqrt(q/2N).
		sigma := 1.17 * math.Sqrt(12289.0/float64(2*size))
		return &LatticeParams{N: size, Q: big.NewInt(12289), Sigma: sigma, K: 1}
	default:
		return nil
	}
}

func kyberRank(size int) int {
	switch size {
	case 512:
		return 2
	case 1024:
		return 4
	default:
		return 3
	}
}

func dilithiumRank(size int) int {
	switch size {
	case 512:
		return 4
	case 1024:
		return 8
	default:
		return 6
	}
}
