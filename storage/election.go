package storage

import (
	"errors"
	"fmt"

	"github.com/solavote/solavote-node/types"
)

// Election returns the election with the given ID, or ErrNotFound.
func (s *Storage) Election(id types.ElectionID) (*types.Election, error) {
	e := &types.Election{}
	if err := s.getArtifact(electionPrefix, id[:], e); err != nil {
		return nil, err
	}
	return e, nil
}

// CreateElection stores a new election. It returns ErrExists if an election
// with the same ID is already stored.
func (s *Storage) CreateElection(e *types.Election) error {
	if e == nil {
		return fmt.Errorf("nil election")
	}
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	if err := s.getArtifact(electionPrefix, e.ID[:], &types.Election{}); err == nil {
		return ErrExists
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.setArtifact(electionPrefix, e.ID[:], e)
}

// UpdateElection loads the election, applies fn and stores the result. The
// whole read-modify-write is serialized against other updates. If fn returns
// an error nothing is written and the error is returned unchanged.
func (s *Storage) UpdateElection(id types.ElectionID, fn func(*types.Election) error) (*types.Election, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	e := &types.Election{}
	if err := s.getArtifact(electionPrefix, id[:], e); err != nil {
		return nil, err
	}
	if err := fn(e); err != nil {
		return nil, err
	}
	if err := s.setArtifact(electionPrefix, id[:], e); err != nil {
		return nil, fmt.Errorf("store election: %w", err)
	}
	return e, nil
}

// ListElections returns every stored election.
func (s *Storage) ListElections() ([]*types.Election, error) {
	var elections []*types.Election
	err := s.iterateArtifacts(electionPrefix, nil, func(v []byte) error {
		e := &types.Election{}
		if err := decodeArtifact(v, e); err != nil {
			return fmt.Errorf("decode election: %w", err)
		}
		elections = append(elections, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return elections, nil
}
