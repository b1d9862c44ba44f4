package storage

import (
	"errors"
	"fmt"

	"github.com/solavote/solavote-node/types"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// VoterRecord returns the voter record of voter in the election, or
// ErrNotFound if the voter did not vote.
func (s *Storage) VoterRecord(electionID types.ElectionID, voter types.Identity) (*types.VoterRecord, error) {
	vr := &types.VoterRecord{}
	if err := s.getArtifact(voterRecordPrefix, voterKey(electionID, voter), vr); err != nil {
		return nil, err
	}
	return vr, nil
}

// HasVoted reports whether a voter record exists for the pair.
func (s *Storage) HasVoted(electionID types.ElectionID, voter types.Identity) (bool, error) {
	_, err := s.VoterRecord(electionID, voter)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Ballot returns the encrypted ballot of voter in the election.
func (s *Storage) Ballot(electionID types.ElectionID, voter types.Identity) (*types.BallotRecord, error) {
	b := &types.BallotRecord{}
	if err := s.getArtifact(ballotPrefix, voterKey(electionID, voter), b); err != nil {
		return nil, err
	}
	return b, nil
}

// Participation returns the participation credential of voter in the election.
func (s *Storage) Participation(electionID types.ElectionID, voter types.Identity) (*types.Participation, error) {
	p := &types.Participation{}
	if err := s.getArtifact(participationPrefix, voterKey(electionID, voter), p); err != nil {
		return nil, err
	}
	return p, nil
}

// CommitVote writes the voter record, the ballot and the participation
// credential (if not nil) in a single transaction. The voter record key is
// created only if absent: if it already exists ErrExists is returned and
// nothing is written.
func (s *Storage) CommitVote(vr *types.VoterRecord, b *types.BallotRecord, p *types.Participation) error {
	if vr == nil || b == nil {
		return fmt.Errorf("missing voter record or ballot")
	}
	if vr.ElectionID != b.ElectionID || vr.Voter != b.Voter {
		return fmt.Errorf("voter record and ballot do not match")
	}
	if p != nil && (p.ElectionID != vr.ElectionID || p.Voter != vr.Voter) {
		return fmt.Errorf("participation credential does not match the voter record")
	}
	key := voterKey(vr.ElectionID, vr.Voter)

	vrData, err := encodeArtifact(vr)
	if err != nil {
		return err
	}
	bData, err := encodeArtifact(b)
	if err != nil {
		return err
	}

	wTx := s.db.WriteTx()
	defer wTx.Discard()

	vrTx := prefixeddb.NewPrefixedWriteTx(wTx, voterRecordPrefix)
	if _, err := vrTx.Get(key); err == nil {
		return ErrExists
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		return fmt.Errorf("check voter record: %w", err)
	}
	if err := vrTx.Set(key, vrData); err != nil {
		return fmt.Errorf("set voter record: %w", err)
	}
	if err := prefixeddb.NewPrefixedWriteTx(wTx, ballotPrefix).Set(key, bData); err != nil {
		return fmt.Errorf("set ballot: %w", err)
	}
	if p != nil {
		pData, err := encodeArtifact(p)
		if err != nil {
			return err
		}
		if err := prefixeddb.NewPrefixedWriteTx(wTx, participationPrefix).Set(key, pData); err != nil {
			return fmt.Errorf("set participation: %w", err)
		}
	}
	return wTx.Commit()
}

// ListVoters returns the identities that voted in the election, ordered by
// identity bytes.
func (s *Storage) ListVoters(electionID types.ElectionID) ([]types.Identity, error) {
	voters := []types.Identity{}
	err := s.iterateArtifacts(voterRecordPrefix, electionID[:], func(v []byte) error {
		vr := &types.VoterRecord{}
		if err := decodeArtifact(v, vr); err != nil {
			return fmt.Errorf("decode voter record: %w", err)
		}
		voters = append(voters, vr.Voter)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return voters, nil
}
