package storage

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
	"github.com/solavote/solavote-node/types"
	"go.vocdoni.io/dvote/db/metadb"
)

func newTestElection(owner types.Identity, title string) *types.Election {
	return &types.Election{
		ID:        types.NewElectionID(owner, title),
		Owner:     owner,
		Admins:    []types.Identity{owner},
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
}

func TestElection(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	owner := types.Identity{1}
	e := newTestElection(owner, "Test Election")

	// Test 1: get non-existent election
	got, err := stg.Election(e.ID)
	c.Assert(err, qt.Equals, ErrNotFound)
	c.Assert(got, qt.IsNil)

	// Test 2: create and get
	c.Assert(stg.CreateElection(e), qt.IsNil)
	got, err = stg.Election(e.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.ID, qt.Equals, e.ID)
	c.Assert(got.Title, qt.Equals, e.Title)
	c.Assert(got.Admins, qt.DeepEquals, e.Admins)
	c.Assert(got.CreatedAt.Equal(e.CreatedAt), qt.IsTrue)

	// Test 3: duplicated creation
	c.Assert(stg.CreateElection(e), qt.Equals, ErrExists)

	// Test 4: update
	updated, err := stg.UpdateElection(e.ID, func(e *types.Election) error {
		e.Status = types.ElectionOpen
		return nil
	})
	c.Assert(err, qt.IsNil)
	c.Assert(updated.IsOpen(), qt.IsTrue)
	got, err = stg.Election(e.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.IsOpen(), qt.IsTrue)

	// Test 5: a failing update writes nothing
	_, err = stg.UpdateElection(e.ID, func(e *types.Election) error {
		e.Status = types.ElectionClosed
		return ErrExists
	})
	c.Assert(err, qt.Equals, ErrExists)
	got, err = stg.Election(e.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.IsOpen(), qt.IsTrue)

	_, err = stg.UpdateElection(types.ElectionID{}, func(*types.Election) error { return nil })
	c.Assert(err, qt.Equals, ErrNotFound)

	// Test 6: list
	c.Assert(stg.CreateElection(newTestElection(owner, "Another")), qt.IsNil)
	list, err := stg.ListElections()
	c.Assert(err, qt.IsNil)
	c.Assert(list, qt.HasLen, 2)
}

func TestCommitVote(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	eid := types.NewElectionID(types.Identity{1}, "vote")
	voter := types.Identity{2}

	voted, err := stg.HasVoted(eid, voter)
	c.Assert(err, qt.IsNil)
	c.Assert(voted, qt.IsFalse)

	vr := &types.VoterRecord{ElectionID: eid, Voter: voter, HasVoted: true, VotedAt: time.Now().UTC()}
	b := &types.BallotRecord{ElectionID: eid, Voter: voter, Ciphertext: []byte("ciphertext")}
	p := &types.Participation{ID: uuid.New(), ElectionID: eid, Voter: voter, Signature: []byte{1, 2, 3}}
	c.Assert(stg.CommitVote(vr, b, p), qt.IsNil)

	voted, err = stg.HasVoted(eid, voter)
	c.Assert(err, qt.IsNil)
	c.Assert(voted, qt.IsTrue)

	gotBallot, err := stg.Ballot(eid, voter)
	c.Assert(err, qt.IsNil)
	c.Assert([]byte(gotBallot.Ciphertext), qt.DeepEquals, []byte("ciphertext"))

	gotP, err := stg.Participation(eid, voter)
	c.Assert(err, qt.IsNil)
	c.Assert(gotP.ID, qt.Equals, p.ID)

	// a second commit for the same pair writes nothing
	b2 := &types.BallotRecord{ElectionID: eid, Voter: voter, Ciphertext: []byte("other")}
	c.Assert(stg.CommitVote(vr, b2, nil), qt.Equals, ErrExists)
	gotBallot, err = stg.Ballot(eid, voter)
	c.Assert(err, qt.IsNil)
	c.Assert([]byte(gotBallot.Ciphertext), qt.DeepEquals, []byte("ciphertext"))

	// mismatched artifacts are rejected
	other := types.Identity{3}
	err = stg.CommitVote(&types.VoterRecord{ElectionID: eid, Voter: other}, b, nil)
	c.Assert(err, qt.ErrorMatches, "voter record and ballot do not match")
	_, err = stg.VoterRecord(eid, other)
	c.Assert(err, qt.Equals, ErrNotFound)
}

func TestListVoters(t *testing.T) {
	c := qt.New(t)
	stg := New(metadb.NewTest(t))

	eid1 := types.NewElectionID(types.Identity{1}, "one")
	eid2 := types.NewElectionID(types.Identity{1}, "two")
	for _, v := range []types.Identity{{3}, {2}} {
		c.Assert(stg.CommitVote(
			&types.VoterRecord{ElectionID: eid1, Voter: v, HasVoted: true},
			&types.BallotRecord{ElectionID: eid1, Voter: v},
			nil), qt.IsNil)
	}
	c.Assert(stg.CommitVote(
		&types.VoterRecord{ElectionID: eid2, Voter: types.Identity{9}, HasVoted: true},
		&types.BallotRecord{ElectionID: eid2, Voter: types.Identity{9}},
		nil), qt.IsNil)

	voters, err := stg.ListVoters(eid1)
	c.Assert(err, qt.IsNil)
	c.Assert(voters, qt.DeepEquals, []types.Identity{{2}, {3}})

	voters, err = stg.ListVoters(types.ElectionID{})
	c.Assert(err, qt.IsNil)
	c.Assert(voters, qt.HasLen, 0)
}
