// Package curve wraps the elliptic curve groups used by the proof engine
// behind a single Group type carrying both Pedersen generators.
package curve

import (
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"golang.org/x/crypto/sha3"
)

// ID enumerates the supported curve groups.
type ID int

const (
	Secp256k1 ID = iota
	P384
	P521
)

// String returns the canonical lowercase name of the curve.
func (id ID) String() string {
	switch id {
	case Secp256k1:
		return "secp256k1"
	case P384:
		return "p-384"
	case P521:
		return "p-521"
	default:
		return fmt.Sprintf("curve(%d)", int(id))
	}
}

// ErrUnknownCurve is returned for curve names outside the supported set.
// Unknown names are an error, never a silent default.
var ErrUnknownCurve = errors.New("curve: unknown curve name")

// ErrNotOnCurve is returned when a point fails the curve equation.
var ErrNotOnCurve = errors.New("curve: point not on curve")

// ParseID maps a curve name to its identifier.
func ParseID(name string) (ID, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "secp256k1":
		return Secp256k1, nil
	case "p-384", "p384":
		return P384, nil
	case "p-521", "p521":
		return P521, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
	}
}

// Point is an affine curve point. The zero point (0,0) stands for the point
// at infinity.
type Point struct {
	X, Y *big.Int
}

// NewPoint returns a point with fresh coordinate copies.
func NewPoint(x, y *big.Int) Point {
	return Point{X: new(big.Int).Set(x), Y: new(big.Int).Set(y)}
}

// Infinity returns the identity element.
func Infinity() Point {
	return Point{X: new(big.Int), Y: new(big.Int)}
}

// IsInfinity reports whether p is the identity element.
func (p Point) IsInfinity() bool {
	return p.X != nil && p.Y != nil && p.X.Sign() == 0 && p.Y.Sign() == 0
}

// Equal reports whether p and q share coordinates.
func (p Point) Equal(q Point) bool {
	if p.X == nil || p.Y == nil || q.X == nil || q.Y == nil {
		return false
	}
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

// Clone returns an independent copy of p.
func (p Point) Clone() Point {
	return NewPoint(p.X, p.Y)
}

// Group bundles a curve with its generators and scalar field order. G is the
// standard base point and H the secondary Pedersen generator derived from
// hashing G, so no party knows a discrete-log relation picked by the other.
type Group struct {
	ID ID
	C  elliptic.Curve
	G  Point
	H  Point
	N  *big.Int
}

// NewGroup builds the group for the given curve identifier.
func NewGroup(id ID) (*Group, error) {
	var c elliptic.Curve
	switch id {
	case Secp256k1:
		c = btcec.S256()
	case P384:
		c = elliptic.P384()
	case P521:
		c = elliptic.P521()
	default:
		return nil, fmt.Errorf("%w: id %d", ErrUnknownCurve, int(id))
	}
	params := c.Params()
	g := Point{X: new(big.Int).Set(params.Gx), Y: new(big.Int).Set(params.Gy)}
	grp := &Group{
		ID: id,
		C:  c,
		G:  g,
		N:  new(big.Int).Set(params.N),
	}
	grp.H = grp.derivePedersenBase()
	return grp, nil
}

// NewGroupByName builds the group for a curve name.
func NewGroupByName(name string) (*Group, error) {
	id, err := ParseID(name)
	if err != nil {
		return nil, err
	}
	return NewGroup(id)
}

// derivePedersenBase maps a fixed domain string through SHAKE-256 onto a
// scalar and multiplies the base point by it.
func (g *Group) derivePedersenBase() Point {
	k := g.HashToScalar("pedersen-generator-h/v1/", []byte(g.ID.String()))
	x, y := g.C.ScalarBaseMult(k.Bytes())
	return Point{X: x, Y: y}
}

// HashToScalar maps domain-separated input bytes through SHAKE-256 onto a
// scalar below the group order. The XOF output is oversampled by 16 bytes
// before the reduction.
func (g *Group) HashToScalar(domain string, data ...[]byte) *big.Int {
	xof := sha3.NewShake256()
	xof.Write([]byte(domain))
	for _, d := range data {
		xof.Write(d)
	}
	buf := make([]byte, (g.N.BitLen()+7)/8+16)
	xof.Read(buf)
	k := new(big.Int).SetBytes(buf)
	return k.Mod(k, g.N)
}

// OnCurve reports whether p satisfies the curve equation. The identity
// element counts as valid.
func (g *Group) OnCurve(p Point) bool {
	if p.X == nil || p.Y == nil {
		return false
	}
	if p.IsInfinity() {
		return true
	}
	return g.C.IsOnCurve(p.X, p.Y)
}

// Add returns p+q, validating both operands.
func (g *Group) Add(p, q Point) (Point, error) {
	if !g.OnCurve(p) || !g.OnCurve(q) {
		return Point{}, ErrNotOnCurve
	}
	if p.IsInfinity() {
		return q.Clone(), nil
	}
	if q.IsInfinity() {
		return p.Clone(), nil
	}
	if p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) != 0 {
		// p + (-p) = identity; the stdlib addition formulas do not cover it.
		return Infinity(), nil
	}
	x, y := g.C.Add(p.X, p.Y, q.X, q.Y)
	return Point{X: x, Y: y}, nil
}

// Sub returns p-q.
func (g *Group) Sub(p, q Point) (Point, error) {
	return g.Add(p, g.Neg(q))
}

// Neg returns the additive inverse of p.
func (g *Group) Neg(p Point) Point {
	if p.IsInfinity() {
		return Infinity()
	}
	negY := new(big.Int).Neg(p.Y)
	negY.Mod(negY, g.C.Params().P)
	return Point{X: new(big.Int).Set(p.X), Y: negY}
}

// ScalarMult returns k*p with k reduced modulo the group order.
func (g *Group) ScalarMult(p Point, k *big.Int) (Point, error) {
	if !g.OnCurve(p) {
		return Point{}, ErrNotOnCurve
	}
	modK := new(big.Int).Mod(k, g.N)
	if p.IsInfinity() || modK.Sign() == 0 {
		return Infinity(), nil
	}
	x, y := g.C.ScalarMult(p.X, p.Y, modK.Bytes())
	return Point{X: x, Y: y}, nil
}

// ScalarBaseMult returns k*G.
func (g *Group) ScalarBaseMult(k *big.Int) Point {
	modK := new(big.Int).Mod(k, g.N)
	if modK.Sign() == 0 {
		return Infinity()
	}
	x, y := g.C.ScalarBaseMult(modK.Bytes())
	return Point{X: x, Y: y}
}

// RandomScalar draws a uniform nonzero scalar below the group order.
func (g *Group) RandomScalar() (*big.Int, error) {
	for {
		k, err := rand.Int(rand.Reader, g.N)
		if err != nil {
			return nil, fmt.Errorf("scalar draw: %w", err)
		}
		if k.Sign() != 0 {
			return k, nil
		}
	}
}

// Marshal serializes p as fixed-width X||Y for transcripts and exports.
func (g *Group) Marshal(p Point) []byte {
	size := (g.C.Params().BitSize + 7) / 8
	buf := make([]byte, 2*size)
	if p.X != nil {
		p.X.FillBytes(buf[:size])
	}
	if p.Y != nil {
		p.Y.FillBytes(buf[size:])
	}
	return buf
}

// Unmarshal parses a fixed-width X||Y encoding and validates it.
func (g *Group) Unmarshal(data []byte) (Point, error) {
	size := (g.C.Params().BitSize + 7) / 8
	if len(data) != 2*size {
		return Point{}, fmt.Errorf("curve: point encoding must be %d bytes, got %d", 2*size, len(data))
	}
	p := Point{
		X: new(big.Int).SetBytes(data[:size]),
		Y: new(big.Int).SetBytes(data[size:]),
	}
	if !g.OnCurve(p) {
		return Point{}, ErrNotOnCurve
	}
	return p, nil
}
