package zkp

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/sha3"

	"zkqshield/curve"
)

// XOF models the extendable-output function behind Fiat-Shamir challenges.
type XOF interface {
	Expand(label string, parts ...[]byte) []byte
}

// Shake256XOF is a SHAKE-256 backed XOF with a fixed output length.
type Shake256XOF struct {
	outLen int
}

// NewShake256XOF returns a SHAKE-256 XOF emitting outLen bytes per squeeze.
func NewShake256XOF(outLen int) Shake256XOF {
	if outLen <= 0 {
		panic("NewShake256XOF: outLen must be > 0")
	}
	return Shake256XOF{outLen: outLen}
}

// Expand absorbs the label and parts and squeezes the fixed-length output.
// Every part is length-prefixed, so variable-width parts cannot collide
// across part boundaries.
func (s Shake256XOF) Expand(label string, parts ...[]byte) []byte {
	h := sha3.NewShake256()
	absorbPart(h, []byte(label))
	for _, p := range parts {
		absorbPart(h, p)
	}
	out := make([]byte, s.outLen)
	if _, err := h.Read(out); err != nil {
		panic(fmt.Errorf("Shake256XOF: read output: %w", err))
	}
	return out
}

// absorbPart writes one transcript part with a 4-byte big-endian length
// prefix.
func absorbPart(w io.Writer, p []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(p)))
	if _, err := w.Write(n[:]); err != nil {
		panic(fmt.Errorf("Shake256XOF: write length: %w", err))
	}
	if _, err := w.Write(p); err != nil {
		panic(fmt.Errorf("Shake256XOF: write payload: %w", err))
	}
}

// boundXOF appends a fixed trailing part to every expansion. The engine uses
// it to tie protocol challenges to the statement's public portion, so a proof
// verifies only against the statement it was generated for.
type boundXOF struct {
	inner   XOF
	binding []byte
}

func bindXOF(inner XOF, binding []byte) XOF {
	if len(binding) == 0 {
		return inner
	}
	return boundXOF{inner: inner, binding: binding}
}

func (b boundXOF) Expand(label string, parts ...[]byte) []byte {
	bound := make([][]byte, 0, len(parts)+1)
	bound = append(bound, parts...)
	bound = append(bound, b.binding)
	return b.inner.Expand(label, bound...)
}

// challengeLen gives 512 bits of XOF output before reduction mod the group
// order, keeping the reduction bias negligible.
const challengeLen = 64

// challengeScalar derives a Fiat-Shamir challenge in [0, order) from the
// labeled transcript parts.
func challengeScalar(x XOF, label string, order *big.Int, parts ...[]byte) *big.Int {
	out := x.Expand(label, parts...)
	c := new(big.Int).SetBytes(out)
	return c.Mod(c, order)
}

// pointBytes serializes a point for transcript absorption.
func pointBytes(g *curve.Group, p curve.Point) []byte {
	return g.Marshal(p)
}

// scalarBytes serializes a scalar for transcript absorption.
func scalarBytes(v *big.Int) []byte {
	if v == nil {
		return nil
	}
	return v.Bytes()
}

// indexBytes tags a transcript part with a branch or bit position.
func indexBytes(i int) []byte {
	return []byte{byte(i >> 24), byte(i >> 16), byte(i >> 8), byte(i)}
}
