package types

import (
	"fmt"

	"github.com/minio/sha256-simd"
	"github.com/mr-tron/base58"
)

// IdentityLen is the size in bytes of a public identity.
const IdentityLen = 32

// Identity is the public identity of a voter or an administrator, an ed25519
// public key. Its text form is base58.
type Identity [IdentityLen]byte

// ParseIdentity decodes a base58 encoded identity.
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	b, err := base58.Decode(s)
	if err != nil {
		return id, fmt.Errorf("invalid identity %q: %w", s, err)
	}
	if len(b) != IdentityLen {
		return id, fmt.Errorf("invalid identity length: %d", len(b))
	}
	copy(id[:], b)
	return id, nil
}

// IdentityFromBytes returns the identity contained in b.
func IdentityFromBytes(b []byte) (Identity, error) {
	var id Identity
	if len(b) != IdentityLen {
		return id, fmt.Errorf("invalid identity length: %d", len(b))
	}
	copy(id[:], b)
	return id, nil
}

func (id Identity) String() string {
	return base58.Encode(id[:])
}

// Bytes returns a copy of the identity as a byte slice.
func (id Identity) Bytes() []byte {
	return append([]byte(nil), id[:]...)
}

func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identity) UnmarshalText(data []byte) error {
	d, err := ParseIdentity(string(data))
	if err != nil {
		return err
	}
	*id = d
	return nil
}

// NewElectionID derives the election identifier from its owner and title as
// sha256("election" || owner || title).
func NewElectionID(owner Identity, title string) ElectionID {
	h := sha256.New()
	h.Write([]byte("election"))
	h.Write(owner[:])
	h.Write([]byte(title))
	var id ElectionID
	copy(id[:], h.Sum(nil))
	return id
}
