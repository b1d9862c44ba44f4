package types

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// ElectionStatus is the lifecycle state of an election.
type ElectionStatus uint8

const (
	// ElectionCreated is the initial state, the election does not accept votes.
	ElectionCreated ElectionStatus = iota
	// ElectionOpen accepts votes.
	ElectionOpen
	// ElectionClosed is terminal.
	ElectionClosed
)

func (s ElectionStatus) String() string {
	switch s {
	case ElectionCreated:
		return "created"
	case ElectionOpen:
		return "open"
	case ElectionClosed:
		return "closed"
	default:
		return "unknown"
	}
}

func (s ElectionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ElectionStatus) UnmarshalText(data []byte) error {
	switch string(data) {
	case "created":
		*s = ElectionCreated
	case "open":
		*s = ElectionOpen
	case "closed":
		*s = ElectionClosed
	default:
		return fmt.Errorf("unknown election status %q", data)
	}
	return nil
}

// Election holds the configuration and lifecycle state of one election.
type Election struct {
	ID             ElectionID     `json:"id"                       cbor:"0,keyasint,omitempty"`
	Owner          Identity       `json:"owner"                    cbor:"1,keyasint,omitempty"`
	Admins         []Identity     `json:"admins"                   cbor:"2,keyasint,omitempty"`
	Title          string         `json:"title"                    cbor:"3,keyasint,omitempty"`
	IsPrivate      bool           `json:"isPrivate"                cbor:"4,keyasint,omitempty"`
	CommitmentRoot *Hash          `json:"commitmentRoot,omitempty" cbor:"5,keyasint,omitempty"`
	EncryptionKey  *Hash          `json:"encryptionKey,omitempty"  cbor:"6,keyasint,omitempty"`
	Status         ElectionStatus `json:"status"                   cbor:"7,keyasint,omitempty"`
	VoterCount     uint64         `json:"voterCount"               cbor:"8,keyasint,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"                cbor:"9,keyasint,omitempty"`
}

// IsOpen reports whether the election accepts ballots.
func (e *Election) IsOpen() bool {
	return e.Status == ElectionOpen
}

// IsAdmin reports whether id belongs to the admin set.
func (e *Election) IsAdmin(id Identity) bool {
	return slices.Contains(e.Admins, id)
}

// VoterRecord marks that a voter already cast a ballot in an election. Its
// existence is what prevents double voting.
type VoterRecord struct {
	ElectionID ElectionID `json:"electionId" cbor:"0,keyasint,omitempty"`
	Voter      Identity   `json:"voter"      cbor:"1,keyasint,omitempty"`
	HasVoted   bool       `json:"hasVoted"   cbor:"2,keyasint,omitempty"`
	VotedAt    time.Time  `json:"votedAt"    cbor:"3,keyasint,omitempty"`
}

// BallotRecord stores the opaque encrypted ballot of a voter.
type BallotRecord struct {
	ElectionID ElectionID `json:"electionId" cbor:"0,keyasint,omitempty"`
	Voter      Identity   `json:"voter"      cbor:"1,keyasint,omitempty"`
	Ciphertext HexBytes   `json:"ciphertext" cbor:"2,keyasint,omitempty"`
}

// Participation is a non-transferable credential issued to a voter once the
// ballot is accepted. It is bound to the (election, voter) pair and signed by
// the issuer.
type Participation struct {
	ID         uuid.UUID  `json:"id"         cbor:"0,keyasint,omitempty"`
	ElectionID ElectionID `json:"electionId" cbor:"1,keyasint,omitempty"`
	Voter      Identity   `json:"voter"      cbor:"2,keyasint,omitempty"`
	Issuer     HexBytes   `json:"issuer"     cbor:"3,keyasint,omitempty"`
	IssuedAt   time.Time  `json:"issuedAt"   cbor:"4,keyasint,omitempty"`
	Signature  HexBytes   `json:"signature"  cbor:"5,keyasint,omitempty"`
}
