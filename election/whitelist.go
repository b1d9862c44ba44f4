package election

import (
	"errors"
	"fmt"

	"github.com/solavote/solavote-node/log"
	"github.com/solavote/solavote-node/merkle"
	"github.com/solavote/solavote-node/types"
)

// AddToWhitelist whitelists the identities for the election and returns how
// many of them were not whitelisted before. Only admins can edit the
// whitelist, and only while the election is in the Created state.
func (sm *StateMachine) AddToWhitelist(caller types.Identity, electionID types.ElectionID,
	ids ...types.Identity,
) (int, error) {
	unlock := sm.elections.Lock(electionID)
	defer unlock()

	if err := sm.checkWhitelistEditable(caller, electionID); err != nil {
		return 0, err
	}
	censusDB := sm.stg.CensusDB()
	added := 0
	seen := make(map[types.Identity]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		exists, err := censusDB.Contains(electionID, id)
		if err != nil {
			return 0, err
		}
		if !exists {
			added++
		}
	}
	if err := censusDB.Add(electionID, ids...); err != nil {
		return 0, fmt.Errorf("whitelist identities: %w", err)
	}
	log.Debugw("whitelist updated", "electionId", electionID.String(), "added", added)
	return added, nil
}

// RemoveFromWhitelist removes the identity from the election whitelist, with
// the same rules as AddToWhitelist. It returns census.ErrKeyNotFound if the
// identity is not whitelisted.
func (sm *StateMachine) RemoveFromWhitelist(caller types.Identity, electionID types.ElectionID,
	id types.Identity,
) error {
	unlock := sm.elections.Lock(electionID)
	defer unlock()

	if err := sm.checkWhitelistEditable(caller, electionID); err != nil {
		return err
	}
	if err := sm.stg.CensusDB().Remove(electionID, id); err != nil {
		return err
	}
	log.Debugw("whitelist updated", "electionId", electionID.String(), "removed", id.String())
	return nil
}

// checkWhitelistEditable must be called with the election write lock held.
func (sm *StateMachine) checkWhitelistEditable(caller types.Identity, electionID types.ElectionID) error {
	e, err := sm.stg.Election(electionID)
	if err != nil {
		return sm.electionError(electionID, err)
	}
	if !e.IsAdmin(caller) {
		return ErrUnauthorized
	}
	if e.Status != types.ElectionCreated {
		return fmt.Errorf("%w: election is %s", ErrWhitelistLocked, e.Status)
	}
	return nil
}

// whitelistRoot returns the root of the election whitelist, or nil if the
// whitelist is empty.
func (sm *StateMachine) whitelistRoot(electionID types.ElectionID) (*types.Hash, error) {
	root, err := sm.stg.CensusDB().Root(electionID)
	switch {
	case err == nil:
		return &root, nil
	case errors.Is(err, merkle.ErrEmptyTree):
		return nil, nil
	default:
		return nil, fmt.Errorf("whitelist root: %w", err)
	}
}
