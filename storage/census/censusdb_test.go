package census

import (
	"bytes"
	"sort"
	"sync"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/solavote/solavote-node/merkle"
	"github.com/solavote/solavote-node/types"
	"github.com/solavote/solavote-node/util"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"
)

// newDatabase returns a new in-memory test database.
func newDatabase(t *testing.T) db.Database {
	return metadb.NewTest(t)
}

func TestNewCensusDB(t *testing.T) {
	t.Parallel()
	censusDB := NewCensusDB(newDatabase(t))
	qt.Assert(t, censusDB, qt.IsNotNil)
	qt.Assert(t, censusDB.db, qt.IsNotNil)
}

func TestCensusAddRemove(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	censusDB := NewCensusDB(newDatabase(t))
	eid := types.ElectionID(util.Random32())
	ids := util.RandomIdentities(3)

	size, err := censusDB.Size(eid)
	c.Assert(err, qt.IsNil)
	c.Assert(size, qt.Equals, 0)

	c.Assert(censusDB.Add(eid, ids...), qt.IsNil)
	// adding again is a no-op
	c.Assert(censusDB.Add(eid, ids[0]), qt.IsNil)

	size, err = censusDB.Size(eid)
	c.Assert(err, qt.IsNil)
	c.Assert(size, qt.Equals, 3)

	ok, err := censusDB.Contains(eid, ids[1])
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)

	c.Assert(censusDB.Remove(eid, ids[1]), qt.IsNil)
	ok, err = censusDB.Contains(eid, ids[1])
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)
	c.Assert(censusDB.Remove(eid, ids[1]), qt.ErrorIs, ErrKeyNotFound)

	size, err = censusDB.Size(eid)
	c.Assert(err, qt.IsNil)
	c.Assert(size, qt.Equals, 2)

	// another election does not see the whitelist
	size, err = censusDB.Size(types.ElectionID(util.Random32()))
	c.Assert(err, qt.IsNil)
	c.Assert(size, qt.Equals, 0)
}

func TestCensusMembersAreSorted(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	censusDB := NewCensusDB(newDatabase(t))
	eid := types.ElectionID(util.Random32())
	ids := util.RandomIdentities(10)
	c.Assert(censusDB.Add(eid, ids...), qt.IsNil)

	members, err := censusDB.Members(eid)
	c.Assert(err, qt.IsNil)
	c.Assert(members, qt.HasLen, len(ids))
	c.Assert(sort.SliceIsSorted(members, func(i, j int) bool {
		return bytes.Compare(members[i][:], members[j][:]) < 0
	}), qt.IsTrue)
}

func TestCensusRootAndProof(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	censusDB := NewCensusDB(newDatabase(t))
	eid := types.ElectionID(util.Random32())

	_, err := censusDB.Root(eid)
	c.Assert(err, qt.ErrorIs, merkle.ErrEmptyTree)

	ids := util.RandomIdentities(5)
	c.Assert(censusDB.Add(eid, ids...), qt.IsNil)

	root, err := censusDB.Root(eid)
	c.Assert(err, qt.IsNil)
	for _, id := range ids {
		proof, err := censusDB.Proof(eid, id)
		c.Assert(err, qt.IsNil)
		c.Assert(proof.Root, qt.Equals, root)
		c.Assert(proof.Identity, qt.Equals, id)
		c.Assert(proof.Leaf, qt.Equals, merkle.LeafHash(id[:]))
		c.Assert(merkle.Verify(proof.Leaf, root, proof.Siblings), qt.IsTrue)
	}

	_, err = censusDB.Proof(eid, util.RandomIdentity())
	c.Assert(err, qt.ErrorIs, ErrKeyNotFound)

	// the root changes when the whitelist changes
	c.Assert(censusDB.Remove(eid, ids[0]), qt.IsNil)
	newRoot, err := censusDB.Root(eid)
	c.Assert(err, qt.IsNil)
	c.Assert(newRoot, qt.Not(qt.Equals), root)
	_, err = censusDB.Proof(eid, ids[0])
	c.Assert(err, qt.ErrorIs, ErrKeyNotFound)
}

func TestCensusProofByRoot(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	censusDB := NewCensusDB(newDatabase(t))
	eid := types.ElectionID(util.Random32())
	ids := util.RandomIdentities(4)
	c.Assert(censusDB.Add(eid, ids...), qt.IsNil)

	root, err := censusDB.Root(eid)
	c.Assert(err, qt.IsNil)

	proof, err := censusDB.ProofByRoot(root, ids[2])
	c.Assert(err, qt.IsNil)
	c.Assert(merkle.Verify(proof.Leaf, root, proof.Siblings), qt.IsTrue)

	_, err = censusDB.ProofByRoot(types.Hash(util.Random32()), ids[2])
	c.Assert(err, qt.ErrorIs, ErrCensusNotFound)

	// the old root is no longer indexed after a change
	c.Assert(censusDB.Add(eid, util.RandomIdentity()), qt.IsNil)
	_, err = censusDB.Root(eid)
	c.Assert(err, qt.IsNil)
	_, err = censusDB.ProofByRoot(root, ids[2])
	c.Assert(err, qt.ErrorIs, ErrCensusNotFound)
}

func TestCensusUnload(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	censusDB := NewCensusDB(newDatabase(t))
	eid := types.ElectionID(util.Random32())
	ids := util.RandomIdentities(3)
	c.Assert(censusDB.Add(eid, ids...), qt.IsNil)

	root, err := censusDB.Root(eid)
	c.Assert(err, qt.IsNil)
	_, err = censusDB.ProofByRoot(root, ids[0])
	c.Assert(err, qt.IsNil)

	c.Assert(censusDB.Unload(eid), qt.IsTrue)
	c.Assert(censusDB.Unload(eid), qt.IsFalse)
	_, err = censusDB.ProofByRoot(root, ids[0])
	c.Assert(err, qt.ErrorIs, ErrCensusNotFound)

	// the whitelist itself is kept
	size, err := censusDB.Size(eid)
	c.Assert(err, qt.IsNil)
	c.Assert(size, qt.Equals, 3)
	_, err = censusDB.ProofByRoot(root, ids[0])
	c.Assert(err, qt.IsNil)
}

func TestPersistenceAcrossCensusDBInstances(t *testing.T) {
	t.Parallel()
	c := qt.New(t)
	database := newDatabase(t)
	eid := types.ElectionID(util.Random32())
	ids := util.RandomIdentities(3)

	censusDB1 := NewCensusDB(database)
	c.Assert(censusDB1.Add(eid, ids...), qt.IsNil)
	root1, err := censusDB1.Root(eid)
	c.Assert(err, qt.IsNil)

	// Create a new CensusDB instance sharing the same underlying database.
	censusDB2 := NewCensusDB(database)
	root2, err := censusDB2.Root(eid)
	c.Assert(err, qt.IsNil)
	c.Assert(root2, qt.Equals, root1)
}

func TestSequentialLoadReturnsSamePointer(t *testing.T) {
	t.Parallel()
	censusDB := NewCensusDB(newDatabase(t))
	eid := types.ElectionID(util.Random32())

	ref1, err := censusDB.Load(eid)
	qt.Assert(t, err, qt.IsNil)
	ref2, err := censusDB.Load(eid)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, ref1, qt.Equals, ref2)
}

func TestCensusDBConcurrentLoad(t *testing.T) {
	censusDB := NewCensusDB(newDatabase(t))
	eid := types.ElectionID(util.Random32())
	qt.Assert(t, censusDB.Add(eid, util.RandomIdentities(8)...), qt.IsNil)

	const numGoroutines = 20
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	errs := make(chan error, numGoroutines)
	refs := make(chan *CensusRef, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			r, err := censusDB.Load(eid)
			if err != nil {
				errs <- err
			} else {
				refs <- r
			}
		}()
	}
	wg.Wait()
	close(errs)
	close(refs)

	for err := range errs {
		qt.Assert(t, err, qt.IsNil)
	}

	var firstRef *CensusRef
	for r := range refs {
		if firstRef == nil {
			firstRef = r
		} else {
			qt.Assert(t, r, qt.Equals, firstRef)
		}
	}
}
