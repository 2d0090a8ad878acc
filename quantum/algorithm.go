// Package quantum generates lattice-style and hash-based key material for
// the six supported post-quantum algorithm families.
package quantum

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Algorithm enumerates the supported key generation algorithms.
type Algorithm int

const (
	Kyber Algorithm = iota
	SABER
	Dilithium
	NTRU
	Falcon
	SPHINCSPlus
)

// Family groups algorithms by their key generation construction.
type Family int

const (
	FamilyLWE Family = iota
	FamilyNTRU
	FamilyHash
)

// ErrUnknownAlgorithm is returned by the strict parser for names outside the
// supported set.
var ErrUnknownAlgorithm = errors.New("quantum: unknown algorithm")

// String returns the canonical lowercase algorithm name.
func (a Algorithm) String() string {
	switch a {
	case Kyber:
		return "kyber"
	case SABER:
		return "saber"
	case Dilithium:
		return "dilithium"
	case NTRU:
		return "ntru"
	case Falcon:
		return "falcon"
	case SPHINCSPlus:
		return "sphincs+"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

// MarshalJSON encodes the algorithm as its name.
func (a Algorithm) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes an algorithm name.
func (a *Algorithm) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseAlgorithm(name)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Family returns the construction family of the algorithm.
func (a Algorithm) Family() Family {
	switch a {
	case Kyber, SABER, Dilithium:
		return FamilyLWE
	case NTRU, Falcon:
		return FamilyNTRU
	default:
		return FamilyHash
	}
}

// ParseAlgorithm maps a name to its Algorithm, rejecting unknown names.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "kyber":
		return Kyber, nil
	case "saber":
		return SABER, nil
	case "dilithium":
		return Dilithium, nil
	case "ntru":
		return NTRU, nil
	case "falcon":
		return Falcon, nil
	case "sphincs+", "sphincs_plus", "sphincsplus":
		return SPHINCSPlus, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// AlgorithmOrDefault maps a name to its Algorithm, treating anything
// unrecognized as Kyber. Callers that need strict validation use
// ParseAlgorithm instead.
func AlgorithmOrDefault(name string) Algorithm {
	a, err := ParseAlgorithm(name)
	if err != nil {
		return Kyber
	}
	return a
}
