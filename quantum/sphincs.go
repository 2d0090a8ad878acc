package quantum

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tuneinsight/lattigo/v4/utils"
)

const (
	sphincsSeedLen = 32
	sphincsLeaves  = 32
)

// sphincsKey holds a hash-based key: the secret seed, the public seed, and a
// one-level Merkle root over SHA-256 leaf hashes bound to both. This is a
// flat tree, not a full SPHINCS+ hypertree.
type sphincsKey struct {
	seed       []byte
	publicSeed []byte
	root       [32]byte
}

func generateSPHINCS(prng utils.PRNG) (*sphincsKey, error) {
	seed := make([]byte, sphincsSeedLen)
	if _, err := io.ReadFull(prng, seed); err != nil {
		return nil, fmt.Errorf("quantum: draw sphincs seed: %w", err)
	}
	publicSeed := make([]byte, sphincsSeedLen)
	if _, err := io.ReadFull(prng, publicSeed); err != nil {
		return nil, fmt.Errorf("quantum: draw sphincs public seed: %w", err)
	}
	tree := buildMerkleTree(sphincsLeafHashes(seed, publicSeed))
	return &sphincsKey{seed: seed, publicSeed: publicSeed, root: tree.root()}, nil
}

// sphincsLeafHashes derives the leaf layer: SHA-256(seed || publicSeed || i).
func sphincsLeafHashes(seed, publicSeed []byte) [][]byte {
	leaves := make([][]byte, sphincsLeaves)
	buf := make([]byte, len(seed)+len(publicSeed)+4)
	copy(buf, seed)
	copy(buf[len(seed):], publicSeed)
	for i := 0; i < sphincsLeaves; i++ {
		binary.BigEndian.PutUint32(buf[len(seed)+len(publicSeed):], uint32(i))
		sum := sha256.Sum256(buf)
		leaves[i] = append([]byte(nil), sum[:]...)
	}
	return leaves
}

func (k *sphincsKey) encodePublic() string {
	return encodeKey(k.root[:], k.publicSeed)
}

func (k *sphincsKey) encodePrivate() string {
	return encodeKey(k.seed, k.publicSeed)
}

// DecodeSPHINCSPublic splits a hash-based public encoding into root and
// public seed.
func DecodeSPHINCSPublic(encoded string) (root [32]byte, publicSeed []byte, err error) {
	raw, err := decodeKey(encoded)
	if err != nil {
		return root, nil, err
	}
	if len(raw) != 32+sphincsSeedLen {
		return root, nil, fmt.Errorf("quantum: sphincs public encoding is %d bytes, want %d", len(raw), 32+sphincsSeedLen)
	}
	copy(root[:], raw[:32])
	publicSeed = raw[32:]
	return root, publicSeed, nil
}

// DecodeSPHINCSSecret splits a hash-based private encoding into its seeds.
func DecodeSPHINCSSecret(encoded string) (seed, publicSeed []byte, err error) {
	raw, err := decodeKey(encoded)
	if err != nil {
		return nil, nil, err
	}
	if len(raw) != 2*sphincsSeedLen {
		return nil, nil, fmt.Errorf("quantum: sphincs private encoding is %d bytes, want %d", len(raw), 2*sphincsSeedLen)
	}
	return raw[:sphincsSeedLen], raw[sphincsSeedLen:], nil
}

// VerifySPHINCSLeaf recomputes leaf idx from the secret seed and checks its
// Merkle path against the public root.
func VerifySPHINCSLeaf(seed, publicSeed []byte, idx int, path [][]byte, root [32]byte) bool {
	if idx < 0 || idx >= sphincsLeaves {
		return false
	}
	leaves := sphincsLeafHashes(seed, publicSeed)
	return verifyMerklePath(leaves[idx], path, root, idx)
}

// SPHINCSLeafPath returns leaf idx and its sibling path for the given seeds.
func SPHINCSLeafPath(seed, publicSeed []byte, idx int) (leaf []byte, path [][]byte, err error) {
	if idx < 0 || idx >= sphincsLeaves {
		return nil, nil, fmt.Errorf("quantum: leaf index %d out of range", idx)
	}
	leaves := sphincsLeafHashes(seed, publicSeed)
	tree := buildMerkleTree(leaves)
	return leaves[idx], tree.path(idx), nil
}
