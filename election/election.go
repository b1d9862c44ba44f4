// Package election implements the election lifecycle: creation, opening with
// an optional commitment root, exactly-once ballot casting and closing. All
// the state lives in the storage layer, the StateMachine only adds the rules
// and the locking that keeps concurrent transitions consistent.
package election

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/solavote/solavote-node/log"
	"github.com/solavote/solavote-node/merkle"
	"github.com/solavote/solavote-node/storage"
	"github.com/solavote/solavote-node/types"
)

// Issuer issues the participation credential of an accepted ballot. The
// credential is persisted by the StateMachine together with the ballot, so
// Issue must not have side effects that outlive a failed vote.
type Issuer interface {
	Issue(ctx context.Context, electionID types.ElectionID, voter types.Identity) (*types.Participation, error)
}

// StateMachine enforces the election lifecycle on top of the storage.
type StateMachine struct {
	stg    *storage.Storage
	issuer Issuer
	conf   Config

	elections *keyedMutex[types.ElectionID]
	voters    *keyedMutex[voterKey]
}

// New returns a StateMachine. If conf is nil DefaultConfig is used. The issuer
// is mandatory: without credential issuance no ballot can be accepted.
func New(stg *storage.Storage, issuer Issuer, conf *Config) (*StateMachine, error) {
	if stg == nil {
		return nil, fmt.Errorf("storage cannot be nil")
	}
	if issuer == nil {
		return nil, fmt.Errorf("participation issuer cannot be nil")
	}
	if conf == nil {
		conf = DefaultConfig()
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid election config: %w", err)
	}
	return &StateMachine{
		stg:       stg,
		issuer:    issuer,
		conf:      *conf,
		elections: newKeyedMutex[types.ElectionID](),
		voters:    newKeyedMutex[voterKey](),
	}, nil
}

// Config returns a copy of the bounds in use.
func (sm *StateMachine) Config() Config {
	return sm.conf
}

// CreateElection creates an election in the Created state, owned by creator,
// who is also its first admin. The election ID is derived from the creator
// and the title, so the same creator cannot reuse a title.
func (sm *StateMachine) CreateElection(creator types.Identity, title string, isPrivate bool,
	encryptionKey *types.Hash,
) (*types.Election, error) {
	if len(title) > sm.conf.MaxTitleLen {
		return nil, fmt.Errorf("%w: title longer than %d bytes", ErrInvalidInput, sm.conf.MaxTitleLen)
	}
	e := &types.Election{
		ID:        types.NewElectionID(creator, title),
		Owner:     creator,
		Admins:    []types.Identity{creator},
		Title:     title,
		IsPrivate: isPrivate,
		Status:    types.ElectionCreated,
		CreatedAt: time.Now().UTC(),
	}
	if encryptionKey != nil {
		key := *encryptionKey
		e.EncryptionKey = &key
	}
	if err := sm.stg.CreateElection(e); err != nil {
		if errors.Is(err, storage.ErrExists) {
			return nil, fmt.Errorf("%w: election %s already exists", ErrInvalidInput, e.ID)
		}
		return nil, err
	}
	log.Infow("election created",
		"electionId", e.ID.String(),
		"owner", creator.String(),
		"private", isPrivate)
	return e, nil
}

// StartElection opens the election for voting and publishes the commitment
// root. Only admins can start an election. Starting an open election fails
// with ErrInvalidInput and starting a closed one with ErrVotingClosed, closing
// is irreversible. A private election started without root commits to the
// root of its whitelist, if the whitelist is not empty. The root is taken
// under the same lock as whitelist edits, so it always matches the frozen
// whitelist.
func (sm *StateMachine) StartElection(caller types.Identity, electionID types.ElectionID,
	commitmentRoot *types.Hash,
) error {
	unlock := sm.elections.Lock(electionID)
	defer unlock()

	started, err := sm.stg.UpdateElection(electionID, func(e *types.Election) error {
		if !e.IsAdmin(caller) {
			return ErrUnauthorized
		}
		switch e.Status {
		case types.ElectionOpen:
			return fmt.Errorf("%w: election already open", ErrInvalidInput)
		case types.ElectionClosed:
			return fmt.Errorf("%w: election closed", ErrVotingClosed)
		}
		if e.IsPrivate && commitmentRoot == nil {
			root, err := sm.whitelistRoot(electionID)
			if err != nil {
				return err
			}
			commitmentRoot = root
		}
		if e.IsPrivate && commitmentRoot == nil && sm.conf.RequireRootOnPrivateStart {
			return fmt.Errorf("%w: private election requires a commitment root", ErrInvalidInput)
		}
		if commitmentRoot != nil {
			root := *commitmentRoot
			e.CommitmentRoot = &root
		} else {
			e.CommitmentRoot = nil
		}
		e.Status = types.ElectionOpen
		return nil
	})
	if err != nil {
		return sm.electionError(electionID, err)
	}
	if started.IsPrivate && started.CommitmentRoot == nil {
		log.Warnw("private election started without commitment root", "electionId", electionID.String())
	}
	log.Infow("election started", "electionId", electionID.String(), "caller", caller.String())
	return nil
}

// CastVote records the encrypted ballot of voter. The checks run in order:
// the election must be open, the voter must not have voted, private elections
// need a proof that verifies against the commitment root and the ciphertext
// must fit the bound. A nil proof means no proof was supplied, an empty
// non-nil proof is an empty authentication path. Once the checks pass the
// participation credential is issued and the voter record, the ballot and the
// credential are committed in a single transaction. Any failure leaves no
// record behind.
func (sm *StateMachine) CastVote(ctx context.Context, voter types.Identity, electionID types.ElectionID,
	ciphertext []byte, proof []types.Hash,
) error {
	// Admin transitions must not interleave with the vote.
	runlock := sm.elections.RLock(electionID)
	defer runlock()

	// Only one ballot per voter is in flight.
	unlock := sm.voters.Lock(voterKey{election: electionID, voter: voter})
	defer unlock()

	e, err := sm.stg.Election(electionID)
	if err != nil {
		return sm.electionError(electionID, err)
	}
	if !e.IsOpen() {
		return ErrVotingClosed
	}

	voted, err := sm.stg.HasVoted(electionID, voter)
	if err != nil {
		return fmt.Errorf("check voter record: %w", err)
	}
	if voted {
		return ErrAlreadyVoted
	}

	if e.IsPrivate {
		if proof == nil {
			return ErrProofRequired
		}
		// An absent root can never be matched.
		if e.CommitmentRoot == nil {
			return fmt.Errorf("%w: election has no commitment root", ErrProofInvalid)
		}
		if !merkle.Verify(merkle.LeafHash(voter[:]), *e.CommitmentRoot, proof) {
			return ErrProofInvalid
		}
	}

	if len(ciphertext) > sm.conf.MaxCiphertextLen {
		return fmt.Errorf("%w: ciphertext longer than %d bytes", ErrInvalidInput, sm.conf.MaxCiphertextLen)
	}

	cred, err := sm.issuer.Issue(ctx, electionID, voter)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIssuance, err)
	}
	if cred == nil {
		return fmt.Errorf("%w: no credential returned", ErrIssuance)
	}

	vr := &types.VoterRecord{
		ElectionID: electionID,
		Voter:      voter,
		HasVoted:   true,
		VotedAt:    time.Now().UTC(),
	}
	ballot := &types.BallotRecord{
		ElectionID: electionID,
		Voter:      voter,
		Ciphertext: append(types.HexBytes(nil), ciphertext...),
	}
	if err := sm.stg.CommitVote(vr, ballot, cred); err != nil {
		if errors.Is(err, storage.ErrExists) {
			return ErrAlreadyVoted
		}
		return fmt.Errorf("commit vote: %w", err)
	}

	// The voter count is advisory, the voter records are the source of truth.
	if _, err := sm.stg.UpdateElection(electionID, func(e *types.Election) error {
		e.VoterCount++
		return nil
	}); err != nil {
		log.Warnw("could not update voter count", "electionId", electionID.String(), "error", err)
	}
	log.Debugw("vote cast", "electionId", electionID.String(), "voter", voter.String())
	return nil
}

// CloseElection closes the election. Only admins can close an election.
// Closing an election that was never opened, or is already closed, succeeds
// and leaves it closed.
func (sm *StateMachine) CloseElection(caller types.Identity, electionID types.ElectionID) error {
	unlock := sm.elections.Lock(electionID)
	defer unlock()

	_, err := sm.stg.UpdateElection(electionID, func(e *types.Election) error {
		if !e.IsAdmin(caller) {
			return ErrUnauthorized
		}
		e.Status = types.ElectionClosed
		return nil
	})
	if err != nil {
		return sm.electionError(electionID, err)
	}
	log.Infow("election closed", "electionId", electionID.String(), "caller", caller.String())
	return nil
}

// AddAdmin adds newAdmin to the admin set. Only admins can add admins. Adding
// an identity that is already an admin is a no-op.
func (sm *StateMachine) AddAdmin(caller types.Identity, electionID types.ElectionID, newAdmin types.Identity) error {
	unlock := sm.elections.Lock(electionID)
	defer unlock()

	_, err := sm.stg.UpdateElection(electionID, func(e *types.Election) error {
		if !e.IsAdmin(caller) {
			return ErrUnauthorized
		}
		if e.IsAdmin(newAdmin) {
			return nil
		}
		if len(e.Admins) >= sm.conf.MaxAdmins {
			return fmt.Errorf("%w: election already has %d admins", ErrCapacityExceeded, len(e.Admins))
		}
		e.Admins = append(e.Admins, newAdmin)
		return nil
	})
	if err != nil {
		return sm.electionError(electionID, err)
	}
	log.Infow("election admin added", "electionId", electionID.String(), "admin", newAdmin.String())
	return nil
}

// Election returns the election.
func (sm *StateMachine) Election(electionID types.ElectionID) (*types.Election, error) {
	e, err := sm.stg.Election(electionID)
	if err != nil {
		return nil, sm.electionError(electionID, err)
	}
	return e, nil
}

// Elections returns every election.
func (sm *StateMachine) Elections() ([]*types.Election, error) {
	return sm.stg.ListElections()
}

// VoterRecord returns the voter record of voter, or storage.ErrNotFound if
// the voter did not vote.
func (sm *StateMachine) VoterRecord(electionID types.ElectionID, voter types.Identity) (*types.VoterRecord, error) {
	return sm.stg.VoterRecord(electionID, voter)
}

// Ballot returns the encrypted ballot of voter.
func (sm *StateMachine) Ballot(electionID types.ElectionID, voter types.Identity) (*types.BallotRecord, error) {
	return sm.stg.Ballot(electionID, voter)
}

// Participation returns the participation credential of voter.
func (sm *StateMachine) Participation(electionID types.ElectionID, voter types.Identity) (*types.Participation, error) {
	return sm.stg.Participation(electionID, voter)
}

// Voters returns the identities that voted in the election.
func (sm *StateMachine) Voters(electionID types.ElectionID) ([]types.Identity, error) {
	if _, err := sm.Election(electionID); err != nil {
		return nil, err
	}
	return sm.stg.ListVoters(electionID)
}

// electionError maps a storage miss to ErrElectionNotFound.
func (sm *StateMachine) electionError(electionID types.ElectionID, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrElectionNotFound, electionID)
	}
	return err
}
