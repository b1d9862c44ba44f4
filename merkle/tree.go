package merkle

import (
	"errors"

	"github.com/solavote/solavote-node/types"
)

var (
	// ErrEmptyTree is returned when a tree is built without leaves.
	ErrEmptyTree = errors.New("merkle tree has no leaves")
	// ErrLeafNotFound is returned when asking a proof for an unknown leaf.
	ErrLeafNotFound = errors.New("leaf not found in merkle tree")
)

// Tree is a complete in-memory commitment tree. Leaves keep the order they
// were given in. When a layer has an odd number of nodes the last one is
// carried to the next layer unhashed.
type Tree struct {
	layers [][]types.Hash
}

// NewTree builds the tree for the given leaves.
func NewTree(leaves []types.Hash) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyTree
	}
	layer := append([]types.Hash(nil), leaves...)
	t := &Tree{layers: [][]types.Hash{layer}}
	for len(layer) > 1 {
		next := make([]types.Hash, 0, (len(layer)+1)/2)
		for i := 0; i < len(layer); i += 2 {
			if i+1 == len(layer) {
				next = append(next, layer[i])
				continue
			}
			next = append(next, HashPair(layer[i], layer[i+1]))
		}
		t.layers = append(t.layers, next)
		layer = next
	}
	return t, nil
}

// NewTreeFromIdentities builds the tree whose leaves are LeafHash(id) for each
// identity.
func NewTreeFromIdentities(ids []types.Identity) (*Tree, error) {
	leaves := make([]types.Hash, len(ids))
	for i, id := range ids {
		leaves[i] = LeafHash(id[:])
	}
	return NewTree(leaves)
}

// Root returns the commitment root.
func (t *Tree) Root() types.Hash {
	return t.layers[len(t.layers)-1][0]
}

// Leaves returns a copy of the leaf layer.
func (t *Tree) Leaves() []types.Hash {
	return append([]types.Hash(nil), t.layers[0]...)
}

// Depth returns the number of layers above the leaves.
func (t *Tree) Depth() int {
	return len(t.layers) - 1
}

// Proof returns the authentication path of leaf. When the same leaf appears
// more than once the first occurrence is used.
func (t *Tree) Proof(leaf types.Hash) ([]types.Hash, error) {
	index := -1
	for i, l := range t.layers[0] {
		if l == leaf {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, ErrLeafNotFound
	}
	proof := []types.Hash{}
	for _, layer := range t.layers[:len(t.layers)-1] {
		sibling := index + 1
		if index%2 == 1 {
			sibling = index - 1
		}
		// a promoted odd node has no sibling at this level
		if sibling < len(layer) {
			proof = append(proof, layer[sibling])
		}
		index /= 2
	}
	return proof, nil
}
