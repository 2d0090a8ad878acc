package quantum

import (
	"bytes"

	"golang.org/x/crypto/sha3"
)

const (
	leafPrefix byte = 0x00
	nodePrefix byte = 0x01
)

// merkleTree is a full binary tree of 32-byte SHAKE-256 hashes backing the
// hash-based key construction.
type merkleTree struct {
	layers [][][32]byte
}

// buildMerkleTree builds a balanced tree from leaves, padding to the next
// power of two with empty-leaf hashes.
func buildMerkleTree(leaves [][]byte) *merkleTree {
	n := len(leaves)
	size := 1
	for size < n {
		size <<= 1
	}
	layer := make([][32]byte, size)
	for i := 0; i < n; i++ {
		leaf := leaves[i]
		buf := make([]byte, 1+len(leaf))
		buf[0] = leafPrefix
		copy(buf[1:], leaf)
		layer[i] = shake32(buf)
	}
	for i := n; i < size; i++ {
		layer[i] = shake32([]byte{leafPrefix})
	}
	layers := [][][32]byte{layer}

	for sz := size; sz > 1; sz >>= 1 {
		prev := layers[len(layers)-1]
		next := make([][32]byte, sz/2)
		for i := 0; i < sz; i += 2 {
			var buf [1 + 32 + 32]byte
			buf[0] = nodePrefix
			copy(buf[1:], prev[i][:])
			copy(buf[1+32:], prev[i+1][:])
			next[i/2] = shake32(buf[:])
		}
		layers = append(layers, next)
	}

	return &merkleTree{layers: layers}
}

// root returns the root hash.
func (mt *merkleTree) root() [32]byte {
	return mt.layers[len(mt.layers)-1][0]
}

// path returns the sibling path for leaf idx.
func (mt *merkleTree) path(idx int) [][]byte {
	path := make([][]byte, len(mt.layers)-1)
	for lvl := 0; lvl < len(mt.layers)-1; lvl++ {
		sib := idx ^ 1
		h := mt.layers[lvl][sib]
		path[lvl] = h[:]
		idx >>= 1
	}
	return path
}

// verifyMerklePath checks leaf→root via path.
func verifyMerklePath(leaf []byte, path [][]byte, root [32]byte, idx int) bool {
	buf := make([]byte, 1+len(leaf))
	buf[0] = leafPrefix
	copy(buf[1:], leaf)
	h := shake32(buf)
	for _, sib := range path {
		var tmp [1 + 32 + 32]byte
		tmp[0] = nodePrefix
		if idx&1 == 0 {
			copy(tmp[1:], h[:])
			copy(tmp[1+32:], sib)
		} else {
			copy(tmp[1:], sib)
			copy(tmp[1+32:], h[:])
		}
		h = shake32(tmp[:])
		idx >>= 1
	}
	return bytes.Equal(h[:], root[:])
}

func shake32(data []byte) [32]byte {
	var out [32]byte
	h := sha3.NewShake256()
	_, _ = h.Write(data)
	_, _ = h.Read(out[:])
	return out
}
