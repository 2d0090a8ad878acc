package poly

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/big"
	mrand "math/rand"

	"github.com/tuneinsight/lattigo/v4/utils"
)

// NewPRNG returns a randomness source keyed from the operating system.
func NewPRNG() (utils.PRNG, error) {
	return utils.NewPRNG()
}

// NewSeededPRNG returns a deterministic source for reproducible key material.
// The same seed always yields the same byte stream.
func NewSeededPRNG(seed []byte) (utils.PRNG, error) {
	return utils.NewKeyedPRNG(seed)
}

// RNG wraps a deterministic rand.Rand for tests. It satisfies io.Reader so it
// can stand in for a PRNG in the samplers.
type RNG struct {
	r *mrand.Rand
}

// NewRNG creates a new RNG with given seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: mrand.New(mrand.NewSource(seed))}
}

// Read fills p with deterministic pseudo-random bytes.
func (r *RNG) Read(p []byte) (int, error) {
	return r.r.Read(p)
}

// Intn returns random int in [0,n).
func (r *RNG) Intn(n int) int {
	return r.r.Intn(n)
}

// RandBigInt returns a random big.Int uniformly in [0,mod).
func (r *RNG) RandBigInt(mod *big.Int) *big.Int {
	res := new(big.Int)
	res.Rand(r.r, mod)
	return res
}

// uniformInt64 draws an unbiased integer in [min,max] by threshold rejection
// on 64-bit words read from prng.
func uniformInt64(prng io.Reader, min, max int64) (int64, error) {
	if max < min {
		return 0, fmt.Errorf("invalid bounds: max < min (%d < %d)", max, min)
	}
	rangeSize := uint64(max - min + 1)
	maxUint64 := uint64(^uint64(0))
	threshold := (maxUint64 / rangeSize) * rangeSize

	buf := make([]byte, 8)
	for {
		if _, err := io.ReadFull(prng, buf); err != nil {
			return 0, fmt.Errorf("prng read: %w", err)
		}
		word := binary.LittleEndian.Uint64(buf)
		if word < threshold {
			return int64(word%rangeSize) + min, nil
		}
	}
}

// uniformFloat64 draws a float in [0,1) with 53 bits of precision.
func uniformFloat64(prng io.Reader) (float64, error) {
	buf := make([]byte, 8)
	if _, err := io.ReadFull(prng, buf); err != nil {
		return 0, fmt.Errorf("prng read: %w", err)
	}
	word := binary.LittleEndian.Uint64(buf)
	return float64(word&0x1FFFFFFFFFFFFF) * math.Pow(2, -53), nil
}
