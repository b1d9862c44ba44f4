// Package participation issues the proof-of-participation credentials handed
// to voters once their ballot is accepted. Credentials are bound to a single
// (election, voter) pair and signed with the node secp256k1 key, so anyone
// holding the node address can check them.
package participation

import (
	"context"
	"errors"
	"fmt"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/solavote/solavote-node/crypto/ethereum"
	"github.com/solavote/solavote-node/types"
)

const domainSeparator = "solavote/participation"

var (
	// ErrInvalidCredential is returned by Verify when the signature does not
	// match the credential or the expected issuer.
	ErrInvalidCredential = errors.New("invalid participation credential")
	// ErrNoSigner is returned when the issuer has no signing key.
	ErrNoSigner = errors.New("participation issuer without signing key")
)

// Issuer signs participation credentials.
type Issuer struct {
	signer *ethereum.SignKeys
}

// NewIssuer returns an issuer that signs with the given keys.
func NewIssuer(signer *ethereum.SignKeys) *Issuer {
	return &Issuer{signer: signer}
}

// Address returns the address credentials are verified against.
func (i *Issuer) Address() ethcommon.Address {
	return i.signer.Address()
}

// Issue creates and signs the credential of voter for the election. The
// credential is not persisted.
func (i *Issuer) Issue(ctx context.Context, electionID types.ElectionID, voter types.Identity) (*types.Participation, error) {
	if i.signer == nil {
		return nil, ErrNoSigner
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("credential id: %w", err)
	}
	addr := i.signer.Address()
	cred := &types.Participation{
		ID:         id,
		ElectionID: electionID,
		Voter:      voter,
		Issuer:     addr.Bytes(),
		IssuedAt:   time.Now().UTC(),
	}
	sig, err := i.signer.SignEthereum(SignedMessage(cred))
	if err != nil {
		return nil, fmt.Errorf("sign credential: %w", err)
	}
	cred.Signature = sig
	return cred, nil
}

// SignedMessage returns the digest signed by the issuer:
// keccak256(domain || electionID || voter || credentialID).
func SignedMessage(cred *types.Participation) []byte {
	return ethcrypto.Keccak256(
		[]byte(domainSeparator),
		cred.ElectionID[:],
		cred.Voter[:],
		cred.ID[:],
	)
}

// Verify checks that the credential was signed by issuer.
func Verify(cred *types.Participation, issuer ethcommon.Address) error {
	if cred == nil {
		return ErrInvalidCredential
	}
	if ethcommon.BytesToAddress(cred.Issuer) != issuer {
		return fmt.Errorf("%w: issuer mismatch", ErrInvalidCredential)
	}
	addr, err := ethereum.AddrFromSignature(SignedMessage(cred), cred.Signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if addr != issuer {
		return fmt.Errorf("%w: signer mismatch", ErrInvalidCredential)
	}
	return nil
}
