package election

import "errors"

// Every operation of the StateMachine fails with one of these errors, possibly
// wrapped with context. Callers must compare them with errors.Is. A failed
// operation leaves no partial state behind.
var (
	// ErrVotingClosed is returned when voting on an election that is not open.
	ErrVotingClosed = errors.New("voting is closed")
	// ErrAlreadyVoted is returned when the voter already has a voter record.
	ErrAlreadyVoted = errors.New("voter already voted")
	// ErrProofRequired is returned when a private election ballot has no proof.
	ErrProofRequired = errors.New("merkle proof required for private election")
	// ErrProofInvalid is returned when the proof does not match the commitment root.
	ErrProofInvalid = errors.New("invalid merkle proof")
	// ErrUnauthorized is returned when the caller is not an election admin.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput is returned on bound violations and invalid transitions.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCapacityExceeded is returned when the admin set is full.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrElectionNotFound is returned when the election does not exist.
	ErrElectionNotFound = errors.New("election not found")
	// ErrWhitelistLocked is returned when editing the whitelist of an
	// election that already left the Created state.
	ErrWhitelistLocked = errors.New("whitelist cannot change once the election started")
	// ErrIssuance is returned when the participation credential cannot be
	// issued. The vote is not recorded.
	ErrIssuance = errors.New("participation issuance failed")
)
