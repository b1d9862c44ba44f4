package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// HashLen is the size in bytes of a digest.
const HashLen = 32

// Hash is a 32 byte SHA-256 digest. Merkle leaves, nodes and roots are Hash
// values. It encodes as 0x prefixed hexadecimal text.
type Hash [HashLen]byte

// HashFromBytes returns the Hash contained in b, which must be HashLen long.
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashLen {
		return h, fmt.Errorf("invalid hash length: %d", len(b))
	}
	copy(h[:], b)
	return h, nil
}

// HexToHash decodes a hex string into a Hash.
func HexToHash(s string) (Hash, error) {
	b, err := hex.DecodeString(trimHex(s))
	if err != nil {
		return Hash{}, fmt.Errorf("invalid hash: %w", err)
	}
	return HashFromBytes(b)
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte {
	return append([]byte(nil), h[:]...)
}

// Compare compares two hashes as big-endian unsigned integers.
func (h Hash) Compare(o Hash) int {
	return bytes.Compare(h[:], o[:])
}

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// IsZero reports whether every byte of the hash is zero.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(data []byte) error {
	d, err := HexToHash(string(data))
	if err != nil {
		return err
	}
	*h = d
	return nil
}

// ElectionID identifies an election. It is derived from the owner identity and
// the election title, so the same owner cannot hold two elections with the same
// title.
type ElectionID = Hash
