// Package census keeps the whitelist of every private election and the
// commitment tree built from it.
package census

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/solavote/solavote-node/log"
	"github.com/solavote/solavote-node/types"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

const censusDBprefix = "c/"

var (
	// ErrCensusNotFound is returned when no census matches the given root.
	ErrCensusNotFound = fmt.Errorf("census not found in the local database")
	// ErrKeyNotFound is returned when an identity is not part of the census.
	ErrKeyNotFound = fmt.Errorf("key not found")
)

// rootKey converts a root to its canonical hexadecimal string.
func rootKey(root types.Hash) string {
	return hex.EncodeToString(root[:])
}

// CensusDB is a safe and persistent database of election whitelists.
// Loaded censuses are cached in memory, together with an index mapping each
// known commitment root to its election.
type CensusDB struct {
	mu           sync.RWMutex
	db           db.Database
	loadedCensus map[types.ElectionID]*CensusRef
	rootIndex    map[string]types.ElectionID
}

// NewCensusDB creates a new CensusDB object.
func NewCensusDB(db db.Database) *CensusDB {
	return &CensusDB{
		db:           db,
		loadedCensus: make(map[types.ElectionID]*CensusRef),
		rootIndex:    make(map[string]types.ElectionID),
	}
}

// Add whitelists the identities for the election. Identities already present
// are ignored.
func (c *CensusDB) Add(electionID types.ElectionID, ids ...types.Identity) error {
	if len(ids) == 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	wtx := prefixeddb.NewPrefixedWriteTx(c.db.WriteTx(), censusPrefix(electionID))
	defer wtx.Discard()
	for _, id := range ids {
		if err := wtx.Set(id[:], id[:]); err != nil {
			return err
		}
	}
	if err := wtx.Commit(); err != nil {
		return err
	}
	c.unload(electionID)
	return nil
}

// Remove deletes the identity from the election whitelist. It returns
// ErrKeyNotFound if the identity was not whitelisted.
func (c *CensusDB) Remove(electionID types.ElectionID, id types.Identity) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := censusPrefix(electionID)
	if _, err := prefixeddb.NewPrefixedReader(c.db, prefix).Get(id[:]); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return ErrKeyNotFound
		}
		return err
	}
	wtx := prefixeddb.NewPrefixedWriteTx(c.db.WriteTx(), prefix)
	defer wtx.Discard()
	if err := wtx.Delete(id[:]); err != nil {
		return err
	}
	if err := wtx.Commit(); err != nil {
		return err
	}
	c.unload(electionID)
	return nil
}

// Contains returns true if the identity is whitelisted for the election.
func (c *CensusDB) Contains(electionID types.ElectionID, id types.Identity) (bool, error) {
	_, err := prefixeddb.NewPrefixedReader(c.db, censusPrefix(electionID)).Get(id[:])
	if err == nil {
		return true, nil
	}
	if errors.Is(err, db.ErrKeyNotFound) {
		return false, nil
	}
	return false, err
}

// Load returns the census of the election from memory or from the database.
// An election without whitelist returns an empty census.
func (c *CensusDB) Load(electionID types.ElectionID) (*CensusRef, error) {
	c.mu.RLock()
	if ref, exists := c.loadedCensus[electionID]; exists {
		c.mu.RUnlock()
		return ref, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if ref, exists := c.loadedCensus[electionID]; exists {
		return ref, nil
	}

	ref := &CensusRef{ElectionID: electionID}
	if err := prefixeddb.NewPrefixedReader(c.db, censusPrefix(electionID)).Iterate(nil,
		func(_, v []byte) bool {
			id, err := types.IdentityFromBytes(v)
			if err != nil {
				log.Warnw("skipping invalid census entry", "election", electionID.String(), "error", err)
				return true
			}
			ref.members = append(ref.members, id)
			return true
		}); err != nil {
		return nil, err
	}

	if len(ref.members) > 0 {
		root, err := ref.Root()
		if err != nil {
			return nil, err
		}
		c.rootIndex[rootKey(root)] = electionID
	}
	c.loadedCensus[electionID] = ref
	return ref, nil
}

// Members returns the whitelist of the election, sorted by identity bytes.
// This is also the leaf order of the tree, so the root does not depend on the
// order identities were added in. Trees built from the insertion order (as
// merkletreejs does) produce a different root for the same whitelist.
func (c *CensusDB) Members(electionID types.ElectionID) ([]types.Identity, error) {
	ref, err := c.Load(electionID)
	if err != nil {
		return nil, err
	}
	return ref.Members(), nil
}

// Size returns the number of whitelisted identities of the election.
func (c *CensusDB) Size(electionID types.ElectionID) (int, error) {
	ref, err := c.Load(electionID)
	if err != nil {
		return 0, err
	}
	return ref.Size(), nil
}

// Root returns the commitment root of the election whitelist. It returns
// merkle.ErrEmptyTree if the whitelist is empty.
func (c *CensusDB) Root(electionID types.ElectionID) (types.Hash, error) {
	ref, err := c.Load(electionID)
	if err != nil {
		return types.Hash{}, err
	}
	return ref.Root()
}

// Proof returns the inclusion proof of the identity in the election census.
func (c *CensusDB) Proof(electionID types.ElectionID, id types.Identity) (*types.CensusProof, error) {
	ref, err := c.Load(electionID)
	if err != nil {
		return nil, err
	}
	return ref.GenProof(id)
}

// ProofByRoot finds a census by its commitment root and generates the
// inclusion proof of the identity. Only roots of loaded censuses are indexed.
func (c *CensusDB) ProofByRoot(root types.Hash, id types.Identity) (*types.CensusProof, error) {
	c.mu.RLock()
	electionID, exists := c.rootIndex[rootKey(root)]
	c.mu.RUnlock()
	if !exists {
		return nil, ErrCensusNotFound
	}
	return c.Proof(electionID, id)
}

// Unload drops the cached census of the election. The whitelist stays in the
// database and is loaded again on the next access.
func (c *CensusDB) Unload(electionID types.ElectionID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, loaded := c.loadedCensus[electionID]
	c.unload(electionID)
	return loaded
}

// unload drops the cached census and its root from the index. The caller must
// hold c.mu.
func (c *CensusDB) unload(electionID types.ElectionID) {
	for rk, eid := range c.rootIndex {
		if eid == electionID {
			delete(c.rootIndex, rk)
		}
	}
	delete(c.loadedCensus, electionID)
}

// censusPrefix returns the prefix used for the census of the election.
func censusPrefix(electionID types.ElectionID) []byte {
	return append([]byte(censusDBprefix), electionID[:]...)
}
