package census

import (
	"sync"

	"github.com/solavote/solavote-node/merkle"
	"github.com/solavote/solavote-node/types"
)

// CensusRef is a loaded census: the whitelist of one election and the tree
// committing to it. All accesses to members and tree are protected by treeMu.
type CensusRef struct {
	ElectionID types.ElectionID

	members []types.Identity
	tree    *merkle.Tree
	treeMu  sync.Mutex
}

// Size returns the number of identities in the census.
func (cr *CensusRef) Size() int {
	cr.treeMu.Lock()
	defer cr.treeMu.Unlock()
	return len(cr.members)
}

// Members returns a copy of the whitelisted identities in leaf order, which
// is identity byte order.
func (cr *CensusRef) Members() []types.Identity {
	cr.treeMu.Lock()
	defer cr.treeMu.Unlock()
	return append([]types.Identity(nil), cr.members...)
}

// Tree returns the commitment tree, building it on first use. It returns
// merkle.ErrEmptyTree if the census has no members.
func (cr *CensusRef) Tree() (*merkle.Tree, error) {
	cr.treeMu.Lock()
	defer cr.treeMu.Unlock()
	if cr.tree != nil {
		return cr.tree, nil
	}
	tree, err := merkle.NewTreeFromIdentities(cr.members)
	if err != nil {
		return nil, err
	}
	cr.tree = tree
	return tree, nil
}

// Root returns the commitment root of the census.
func (cr *CensusRef) Root() (types.Hash, error) {
	tree, err := cr.Tree()
	if err != nil {
		return types.Hash{}, err
	}
	return tree.Root(), nil
}

// GenProof returns the inclusion proof of the identity. It returns
// ErrKeyNotFound if the identity is not whitelisted.
func (cr *CensusRef) GenProof(id types.Identity) (*types.CensusProof, error) {
	tree, err := cr.Tree()
	if err != nil {
		return nil, err
	}
	leaf := merkle.LeafHash(id[:])
	siblings, err := tree.Proof(leaf)
	if err != nil {
		return nil, ErrKeyNotFound
	}
	return &types.CensusProof{
		Root:     tree.Root(),
		Identity: id,
		Leaf:     leaf,
		Siblings: siblings,
	}, nil
}
