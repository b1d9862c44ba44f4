package api

import (
	"errors"
	"net/http"

	"github.com/solavote/solavote-node/storage/census"
	"github.com/solavote/solavote-node/types"
)

// whitelist returns the whitelist of the election and its root
// GET /elections/{electionId}/whitelist
func (a *API) whitelist(w http.ResponseWriter, r *http.Request) {
	eid, err := electionIDParam(r)
	if err != nil {
		ErrMalformedElectionID.WithErr(err).Write(w)
		return
	}
	if _, err := a.elections.Election(eid); err != nil {
		ErrorFrom(err).Write(w)
		return
	}
	members, err := a.storage.CensusDB().Members(eid)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	wl := &Whitelist{Addresses: members}
	if wl.Addresses == nil {
		wl.Addresses = []types.Identity{}
	}
	if len(members) > 0 {
		root, err := a.storage.CensusDB().Root(eid)
		if err != nil {
			ErrGenericInternalServerError.WithErr(err).Write(w)
			return
		}
		wl.Root = &root
	}
	httpWriteJSON(w, wl)
}

// addToWhitelist whitelists an address
// POST /elections/{electionId}/whitelist
func (a *API) addToWhitelist(w http.ResponseWriter, r *http.Request) {
	eid, err := electionIDParam(r)
	if err != nil {
		ErrMalformedElectionID.WithErr(err).Write(w)
		return
	}
	caller, body, ok := a.authenticate(w, r)
	if !ok {
		return
	}
	req := &WhitelistEntry{}
	if err := decodeBody(body, req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if req.Address == (types.Identity{}) {
		ErrMalformedAddress.With("missing address").Write(w)
		return
	}
	added, err := a.elections.AddToWhitelist(caller, eid, req.Address)
	if err != nil {
		ErrorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, &WhitelistUpdate{Added: added})
}

// removeFromWhitelist removes an address from the whitelist
// DELETE /elections/{electionId}/whitelist/{address}
func (a *API) removeFromWhitelist(w http.ResponseWriter, r *http.Request) {
	eid, err := electionIDParam(r)
	if err != nil {
		ErrMalformedElectionID.WithErr(err).Write(w)
		return
	}
	address, err := addressParam(r)
	if err != nil {
		ErrMalformedAddress.WithErr(err).Write(w)
		return
	}
	caller, _, ok := a.authenticate(w, r)
	if !ok {
		return
	}
	if err := a.elections.RemoveFromWhitelist(caller, eid, address); err != nil {
		ErrorFrom(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// proof returns the inclusion proof of an address. Once the election is
// started the census is resolved by its commitment root.
// GET /elections/{electionId}/proof/{address}
func (a *API) proof(w http.ResponseWriter, r *http.Request) {
	eid, err := electionIDParam(r)
	if err != nil {
		ErrMalformedElectionID.WithErr(err).Write(w)
		return
	}
	address, err := addressParam(r)
	if err != nil {
		ErrMalformedAddress.WithErr(err).Write(w)
		return
	}
	e, err := a.elections.Election(eid)
	if err != nil {
		ErrorFrom(err).Write(w)
		return
	}
	censusDB := a.storage.CensusDB()
	var proof *types.CensusProof
	if e.CommitmentRoot != nil {
		proof, err = censusDB.ProofByRoot(*e.CommitmentRoot, address)
		if errors.Is(err, census.ErrCensusNotFound) {
			// the census may not be loaded yet
			if _, err = censusDB.Load(eid); err == nil {
				proof, err = censusDB.ProofByRoot(*e.CommitmentRoot, address)
			}
		}
	} else {
		proof, err = censusDB.Proof(eid, address)
	}
	if err != nil {
		if errors.Is(err, census.ErrCensusNotFound) {
			ErrNotInWhitelist.With("no whitelist matches the election commitment root").Write(w)
			return
		}
		ErrorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, proof)
}
