package quantum

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"time"

	"zkqshield/poly"
)

// KeyFileVersion tags persisted key material so older files are detected on
// load.
const KeyFileVersion = "quantum-keys-v1"

// KeyPair is the product of key generation: base64 encodings of both halves
// plus the parameter set they were generated under. Params is nil for
// hash-based algorithms.
type KeyPair struct {
	Algorithm  Algorithm
	KeySize    int
	PublicKey  string
	PrivateKey string
	Params     *LatticeParams
	CreatedAt  time.Time
}

// KeyFile is the JSON shape key pairs are persisted under.
type KeyFile struct {
	Version    string `json:"version"`
	Algorithm  string `json:"algorithm"`
	KeySize    int    `json:"key_size"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// SaveKeyPair writes the key pair to path as indented JSON. The private half
// is only written when includePrivate is set.
func SaveKeyPair(path string, kp *KeyPair, includePrivate bool) error {
	if kp == nil {
		return fmt.Errorf("quantum: nil key pair")
	}
	kf := KeyFile{
		Version:   KeyFileVersion,
		Algorithm: kp.Algorithm.String(),
		KeySize:   kp.KeySize,
		PublicKey: kp.PublicKey,
		CreatedAt: kp.CreatedAt.UTC().Format(time.RFC3339),
	}
	if includePrivate {
		kf.PrivateKey = kp.PrivateKey
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(&kf)
}

// LoadKeyPair reads a key pair previously written by SaveKeyPair.
func LoadKeyPair(path string) (*KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var kf KeyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("quantum: parse key file: %w", err)
	}
	alg, err := ParseAlgorithm(kf.Algorithm)
	if err != nil {
		return nil, err
	}
	created, err := time.Parse(time.RFC3339, kf.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("quantum: parse key file timestamp: %w", err)
	}
	return &KeyPair{
		Algorithm:  alg,
		KeySize:    kf.KeySize,
		PublicKey:  kf.PublicKey,
		PrivateKey: kf.PrivateKey,
		Params:     ParamsFor(alg, kf.KeySize),
		CreatedAt:  created,
	}, nil
}

// coeffWidth returns the bytes needed for one coefficient mod q.
func coeffWidth(q *big.Int) int {
	return (q.BitLen() + 7) / 8
}

// packPolys serializes polynomials as fixed-width big-endian coefficients.
func packPolys(ps []poly.Polynomial, q *big.Int) []byte {
	width := coeffWidth(q)
	var out []byte
	buf := make([]byte, width)
	tmp := new(big.Int)
	for _, p := range ps {
		for _, c := range p.Coeffs {
			tmp.Mod(c, q)
			tmp.FillBytes(buf)
			out = append(out, buf...)
		}
	}
	return out
}

// unpackPolys reverses packPolys for count polynomials of dimension n.
func unpackPolys(data []byte, count, n int, q *big.Int) ([]poly.Polynomial, error) {
	width := coeffWidth(q)
	if len(data) != count*n*width {
		return nil, fmt.Errorf("quantum: key encoding is %d bytes, want %d", len(data), count*n*width)
	}
	out := make([]poly.Polynomial, count)
	off := 0
	for i := 0; i < count; i++ {
		p := poly.New(n, q)
		for j := 0; j < n; j++ {
			p.Coeffs[j].SetBytes(data[off : off+width])
			if p.Coeffs[j].Cmp(q) >= 0 {
				return nil, fmt.Errorf("quantum: coefficient %d of polynomial %d exceeds modulus", j, i)
			}
			off += width
		}
		out[i] = p
	}
	return out, nil
}

func encodeKey(parts ...[]byte) string {
	var raw []byte
	for _, p := range parts {
		raw = append(raw, p...)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func decodeKey(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("quantum: decode key: %w", err)
	}
	return raw, nil
}
