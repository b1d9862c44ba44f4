// Package ballot seals ballots for elections that publish an encryption key.
// Sealed ballots are anonymous NaCl boxes (x25519, xsalsa20 and poly1305): only
// the holder of the election private key can open them, the node stores them
// as opaque bytes.
package ballot

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/solavote/solavote-node/types"
	"golang.org/x/crypto/nacl/box"
)

// Overhead is the number of bytes a sealed ballot adds to the plaintext.
const Overhead = box.AnonymousOverhead

// ErrOpen is returned when a sealed ballot cannot be opened.
var ErrOpen = errors.New("cannot open sealed ballot")

// GenerateKey creates an election key pair. The public key is the one
// published in the election.
func GenerateKey() (public, private types.Hash, err error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return types.Hash{}, types.Hash{}, fmt.Errorf("generate election key: %w", err)
	}
	return types.Hash(*pub), types.Hash(*priv), nil
}

// Seal encrypts plaintext to the election encryption key.
func Seal(encryptionKey types.Hash, plaintext []byte) ([]byte, error) {
	pub := [32]byte(encryptionKey)
	out, err := box.SealAnonymous(nil, plaintext, &pub, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("seal ballot: %w", err)
	}
	return out, nil
}

// Open decrypts a sealed ballot. It is meant for the election key holder and
// tests, the node never calls it.
func Open(public, private types.Hash, sealed []byte) ([]byte, error) {
	pub, priv := [32]byte(public), [32]byte(private)
	out, ok := box.OpenAnonymous(nil, sealed, &pub, &priv)
	if !ok {
		return nil, ErrOpen
	}
	return out, nil
}

// MaxPlaintext returns the largest plaintext that fits in maxCiphertext
// bytes once sealed.
func MaxPlaintext(maxCiphertext int) int {
	if maxCiphertext < Overhead {
		return 0
	}
	return maxCiphertext - Overhead
}
