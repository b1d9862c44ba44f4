package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/solavote/solavote-node/merkle"
	"github.com/solavote/solavote-node/storage"
	"github.com/solavote/solavote-node/util"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"
)

func TestElectionMonitor(t *testing.T) {
	c := qt.New(t)

	// Setup storage
	dbPath := filepath.Join(t.TempDir(), "db")
	database, err := metadb.New(db.TypePebble, dbPath)
	c.Assert(err, qt.IsNil)
	store := storage.New(database)
	defer store.Close()

	sm := newTestElections(c, store)
	owner := util.RandomIdentity()
	ids := util.RandomIdentities(4)

	private, err := sm.CreateElection(owner, "private", true, nil)
	c.Assert(err, qt.IsNil)
	_, err = sm.AddToWhitelist(owner, private.ID, ids...)
	c.Assert(err, qt.IsNil)
	root, err := store.CensusDB().Root(private.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(sm.StartElection(owner, private.ID, nil), qt.IsNil)

	public, err := sm.CreateElection(owner, "public", false, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(sm.StartElection(owner, public.ID, nil), qt.IsNil)
	c.Assert(sm.CastVote(context.Background(), ids[0], public.ID, []byte("x"), nil), qt.IsNil)

	closed, err := sm.CreateElection(owner, "closed", true, nil)
	c.Assert(err, qt.IsNil)
	_, err = sm.AddToWhitelist(owner, closed.ID, ids[:2]...)
	c.Assert(err, qt.IsNil)
	c.Assert(sm.StartElection(owner, closed.ID, nil), qt.IsNil)
	c.Assert(sm.CloseElection(owner, closed.ID), qt.IsNil)

	_, err = sm.CreateElection(owner, "draft", true, nil)
	c.Assert(err, qt.IsNil)

	// a fresh storage over the same database has no census loaded
	restarted := storage.New(database)
	_, err = restarted.CensusDB().ProofByRoot(root, ids[1])
	c.Assert(err, qt.IsNotNil)
	_, err = restarted.CensusDB().Load(closed.ID)
	c.Assert(err, qt.IsNil)

	monitor := NewElectionMonitor(restarted, time.Hour)
	stats, err := monitor.Scan()
	c.Assert(err, qt.IsNil)
	c.Assert(stats.Created, qt.Equals, 1)
	c.Assert(stats.Open, qt.Equals, 2)
	c.Assert(stats.Closed, qt.Equals, 1)
	c.Assert(stats.Votes, qt.Equals, uint64(1))
	c.Assert(stats.LoadedCensuses, qt.Equals, 2)
	c.Assert(stats.UnloadedCensuses, qt.Equals, 1)
	c.Assert(stats.Whitelisted, qt.Equals, len(ids))
	c.Assert(restarted.CensusDB().Unload(closed.ID), qt.IsFalse)

	proof, err := restarted.CensusDB().ProofByRoot(root, ids[1])
	c.Assert(err, qt.IsNil)
	c.Assert(merkle.Verify(proof.Leaf, root, proof.Siblings), qt.IsTrue)

	// service lifecycle
	c.Assert(monitor.Start(context.Background()), qt.IsNil)
	c.Assert(monitor.Start(context.Background()), qt.ErrorMatches, "service already running")
	monitor.Stop()
	c.Assert(monitor.Start(context.Background()), qt.IsNil)
	monitor.Stop()
}
