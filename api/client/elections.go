package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/solavote/solavote-node/api"
	"github.com/solavote/solavote-node/types"
)

// Error is an error response of the API.
type Error struct {
	StatusCode int
	Code       int    `json:"code"`
	Message    string `json:"error"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %d (code %d: %s)", errCodeNot200, e.StatusCode, e.Code, e.Message)
}

// Is matches an api.Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(api.Error)
	return ok && t.Code == e.Code
}

// call performs the request and decodes a JSON response into out, if not nil.
func (c *HTTPclient) call(method string, body, out any, urlPath ...string) error {
	data, status, err := c.Request(method, body, nil, urlPath...)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		apiErr := &Error{StatusCode: status}
		if err := json.Unmarshal(data, apiErr); err != nil {
			apiErr.Message = string(data)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}

func electionPath(endpoint string, eid types.ElectionID) string {
	return api.EndpointWithParam(endpoint, api.ElectionURLParam, eid.String())
}

func addressPath(endpoint string, eid types.ElectionID, address types.Identity) string {
	return api.EndpointWithParam(electionPath(endpoint, eid), api.AddressURLParam, address.String())
}

// CreateElection creates an election owned by the signer.
func (c *HTTPclient) CreateElection(title string, isPrivate bool, encryptionKey *types.Hash) (*types.Election, error) {
	e := &types.Election{}
	req := &api.NewElection{Title: title, IsPrivate: isPrivate, EncryptionKey: encryptionKey}
	if err := c.call(HTTPPOST, req, e, api.ElectionsEndpoint); err != nil {
		return nil, err
	}
	return e, nil
}

// Elections lists every election.
func (c *HTTPclient) Elections() ([]*types.Election, error) {
	res := &api.Elections{}
	if err := c.call(HTTPGET, nil, res, api.ElectionsEndpoint); err != nil {
		return nil, err
	}
	return res.Elections, nil
}

// Election returns an election.
func (c *HTTPclient) Election(eid types.ElectionID) (*types.Election, error) {
	e := &types.Election{}
	if err := c.call(HTTPGET, nil, e, electionPath(api.ElectionEndpoint, eid)); err != nil {
		return nil, err
	}
	return e, nil
}

// StartElection opens the election. A nil root lets the node use the
// whitelist root of private elections.
func (c *HTTPclient) StartElection(eid types.ElectionID, root *types.Hash) (*types.Election, error) {
	e := &types.Election{}
	req := &api.StartElection{CommitmentRoot: root}
	if err := c.call(HTTPPOST, req, e, electionPath(api.ElectionStartEndpoint, eid)); err != nil {
		return nil, err
	}
	return e, nil
}

// CloseElection closes the election.
func (c *HTTPclient) CloseElection(eid types.ElectionID) (*types.Election, error) {
	e := &types.Election{}
	if err := c.call(HTTPPOST, nil, e, electionPath(api.ElectionCloseEndpoint, eid)); err != nil {
		return nil, err
	}
	return e, nil
}

// AddAdmin adds an admin to the election.
func (c *HTTPclient) AddAdmin(eid types.ElectionID, admin types.Identity) (*types.Election, error) {
	e := &types.Election{}
	req := &api.NewAdmin{Admin: admin}
	if err := c.call(HTTPPOST, req, e, electionPath(api.ElectionAdminsEndpoint, eid)); err != nil {
		return nil, err
	}
	return e, nil
}

// Whitelist returns the whitelist of the election.
func (c *HTTPclient) Whitelist(eid types.ElectionID) (*api.Whitelist, error) {
	wl := &api.Whitelist{}
	if err := c.call(HTTPGET, nil, wl, electionPath(api.WhitelistEndpoint, eid)); err != nil {
		return nil, err
	}
	return wl, nil
}

// AddToWhitelist whitelists an address. It returns false if the address was
// already whitelisted.
func (c *HTTPclient) AddToWhitelist(eid types.ElectionID, address types.Identity) (bool, error) {
	res := &api.WhitelistUpdate{}
	if err := c.call(HTTPPOST, &api.WhitelistEntry{Address: address}, res,
		electionPath(api.WhitelistEndpoint, eid)); err != nil {
		return false, err
	}
	return res.Added > 0, nil
}

// RemoveFromWhitelist removes an address from the whitelist.
func (c *HTTPclient) RemoveFromWhitelist(eid types.ElectionID, address types.Identity) error {
	return c.call(HTTPDELETE, nil, nil, addressPath(api.WhitelistAddressEndpoint, eid, address))
}

// Proof returns the inclusion proof of address.
func (c *HTTPclient) Proof(eid types.ElectionID, address types.Identity) (*types.CensusProof, error) {
	proof := &types.CensusProof{}
	if err := c.call(HTTPGET, nil, proof, addressPath(api.ProofEndpoint, eid, address)); err != nil {
		return nil, err
	}
	return proof, nil
}

// CastVote submits the ballot of the signer and returns the participation
// credential. A nil proof is sent as absent.
func (c *HTTPclient) CastVote(eid types.ElectionID, ciphertext []byte, proof []types.Hash) (*types.Participation, error) {
	res := &api.VoteResponse{}
	req := &api.Vote{Ciphertext: ciphertext, Proof: proof}
	if err := c.call(HTTPPOST, req, res, electionPath(api.VotesEndpoint, eid)); err != nil {
		return nil, err
	}
	return res.Participation, nil
}

// Voters lists the identities that voted in the election.
func (c *HTTPclient) Voters(eid types.ElectionID) ([]types.Identity, error) {
	res := &api.Voters{}
	if err := c.call(HTTPGET, nil, res, electionPath(api.VotersEndpoint, eid)); err != nil {
		return nil, err
	}
	return res.Voters, nil
}

// Voter returns the records of a voter.
func (c *HTTPclient) Voter(eid types.ElectionID, address types.Identity) (*api.Voter, error) {
	res := &api.Voter{}
	if err := c.call(HTTPGET, nil, res, addressPath(api.VoterEndpoint, eid, address)); err != nil {
		return nil, err
	}
	return res, nil
}
