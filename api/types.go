package api

import (
	"github.com/solavote/solavote-node/types"
)

// NewElection is the request to create an election. The caller becomes the
// owner and first admin.
type NewElection struct {
	Title         string      `json:"title"`
	IsPrivate     bool        `json:"isPrivate"`
	EncryptionKey *types.Hash `json:"encryptionKey,omitempty"`
}

// Elections is the list of elections.
type Elections struct {
	Elections []*types.Election `json:"elections"`
}

// StartElection is the request to open an election. When CommitmentRoot is
// omitted on a private election, the root of its whitelist is used.
type StartElection struct {
	CommitmentRoot *types.Hash `json:"commitmentRoot,omitempty"`
}

// NewAdmin is the request to add an admin.
type NewAdmin struct {
	Admin types.Identity `json:"admin"`
}

// WhitelistEntry is the request to whitelist an identity.
type WhitelistEntry struct {
	Address types.Identity `json:"address"`
}

// WhitelistUpdate is the response to a whitelist addition.
type WhitelistUpdate struct {
	Added int `json:"added"`
}

// Whitelist is the whitelist of an election and its current root.
type Whitelist struct {
	Addresses []types.Identity `json:"addresses"`
	Root      *types.Hash      `json:"root,omitempty"`
}

// Vote is the ballot submitted by a voter. A missing proof is different from
// an empty one: private elections reject the former with a proof required
// error.
type Vote struct {
	Ciphertext types.HexBytes `json:"ciphertext"`
	Proof      []types.Hash   `json:"proof"`
}

// VoteResponse returns the participation credential of an accepted ballot.
type VoteResponse struct {
	Participation *types.Participation `json:"participation"`
}

// Voters is the list of identities that voted in an election.
type Voters struct {
	Voters []types.Identity `json:"voters"`
}

// Voter holds the records of a voter in an election.
type Voter struct {
	Record        *types.VoterRecord   `json:"record"`
	Ballot        *types.BallotRecord  `json:"ballot"`
	Participation *types.Participation `json:"participation,omitempty"`
}
