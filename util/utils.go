package util

import (
	"crypto/rand"
	"fmt"

	"github.com/solavote/solavote-node/types"
)

// RandomBytes generates a random byte slice of length n.
func RandomBytes(n int) []byte {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return b
}

// Random32 generates a random 32-byte array.
func Random32() [32]byte {
	var bytes [32]byte
	copy(bytes[:], RandomBytes(32))
	return bytes
}

// RandomHex generates a random hex string of length n.
func RandomHex(n int) string {
	return fmt.Sprintf("%x", RandomBytes(n))
}

// TrimHex trims the '0x' prefix from a hex string.
func TrimHex(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// RandomIdentity returns a random identity. It is not a valid ed25519 public
// key, use it only where the identity is treated as opaque bytes.
func RandomIdentity() types.Identity {
	return types.Identity(Random32())
}

// RandomIdentities returns n distinct random identities.
func RandomIdentities(n int) []types.Identity {
	ids := make([]types.Identity, n)
	for i := range ids {
		ids[i] = RandomIdentity()
	}
	return ids
}
