package ethereum

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestSignKeysGeneration(t *testing.T) {
	c := qt.New(t)
	t.Parallel()

	s := NewSignKeys()
	c.Assert(s.Generate(), qt.IsNil)

	pub, priv := s.HexString()
	c.Assert(pub, qt.Not(qt.Equals), "")
	c.Assert(priv, qt.Not(qt.Equals), "")

	// Test key import
	imported := NewSignKeys()
	c.Assert(imported.AddHexKey(priv), qt.IsNil)

	importedPub, importedPriv := imported.HexString()
	c.Assert(importedPub, qt.Equals, pub)
	c.Assert(importedPriv, qt.Equals, priv)
}

func TestSignatureFromWrongKey(t *testing.T) {
	c := qt.New(t)
	t.Parallel()

	s1, s2 := NewSignKeys(), NewSignKeys()
	c.Assert(s1.Generate(), qt.IsNil)
	c.Assert(s2.Generate(), qt.IsNil)

	msg := []byte("solavote participation")
	signature, err := s1.SignEthereum(msg)
	c.Assert(err, qt.IsNil)
	c.Assert(signature, qt.HasLen, SignatureLength)

	addr, err := AddrFromSignature(msg, signature)
	c.Assert(err, qt.IsNil)
	c.Assert(addr, qt.Equals, s1.Address())
	c.Assert(addr, qt.Not(qt.Equals), s2.Address())

	// a tampered message recovers a different address
	addr, err = AddrFromSignature([]byte("solavote participatiom"), signature)
	if err == nil {
		c.Assert(addr, qt.Not(qt.Equals), s1.Address())
	}

	_, err = AddrFromSignature(msg, signature[:10])
	c.Assert(err, qt.IsNotNil)

	_, err = NewSignKeys().SignEthereum(msg)
	c.Assert(err, qt.IsNotNil)
}

func TestAddressRecovery(t *testing.T) {
	c := qt.New(t)
	t.Parallel()

	testCases := []struct {
		name    string
		message []byte
	}{
		{
			name:    "simple message",
			message: []byte("hello solavote"),
		},
		{
			name:    "different message",
			message: []byte("bye-bye solavote"),
		},
	}

	// Generate keys
	s := NewSignKeys()
	c.Assert(s.Generate(), qt.IsNil)

	// Get address from public key
	expectedAddr, err := AddrFromPublicKey(s.PublicKey())
	c.Assert(err, qt.IsNil)
	c.Assert(expectedAddr.String(), qt.Equals, s.AddressString())

	// Test address recovery from signatures of different messages
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := qt.New(t)

			signature, err := s.SignEthereum(tc.message)
			c.Assert(err, qt.IsNil)

			recoveredAddr, err := AddrFromSignature(tc.message, signature)
			c.Assert(err, qt.IsNil)
			c.Assert(recoveredAddr, qt.Equals, expectedAddr)
		})
	}
}
