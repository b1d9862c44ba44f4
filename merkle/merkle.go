// Package merkle implements the commitment scheme used for voter eligibility:
// a binary SHA-256 Merkle tree whose nodes hash their two children in sorted
// order, so proofs are plain lists of sibling hashes with no direction bits.
package merkle

import (
	"github.com/minio/sha256-simd"
	"github.com/solavote/solavote-node/types"
)

// LeafHash returns the leaf committed for an identity, sha256(identity).
func LeafHash(identity []byte) types.Hash {
	return sha256.Sum256(identity)
}

// HashPair hashes two nodes as sha256(min(a, b) || max(a, b)).
func HashPair(a, b types.Hash) types.Hash {
	var buf [2 * types.HashLen]byte
	if a.Compare(b) <= 0 {
		copy(buf[:types.HashLen], a[:])
		copy(buf[types.HashLen:], b[:])
	} else {
		copy(buf[:types.HashLen], b[:])
		copy(buf[types.HashLen:], a[:])
	}
	return sha256.Sum256(buf[:])
}

// Verify reports whether leaf belongs to the tree committed by root, given the
// sibling hashes from the leaf level up. An empty proof verifies only when the
// leaf is the root.
func Verify(leaf, root types.Hash, proof []types.Hash) bool {
	computed := leaf
	for _, sibling := range proof {
		computed = HashPair(computed, sibling)
	}
	return computed == root
}
