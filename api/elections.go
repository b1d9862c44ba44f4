package api

import (
	"net/http"

	"github.com/solavote/solavote-node/types"
)

// newElection creates a new election owned by the caller
// POST /elections
func (a *API) newElection(w http.ResponseWriter, r *http.Request) {
	caller, body, ok := a.authenticate(w, r)
	if !ok {
		return
	}
	req := &NewElection{}
	if err := decodeBody(body, req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	e, err := a.elections.CreateElection(caller, req.Title, req.IsPrivate, req.EncryptionKey)
	if err != nil {
		ErrorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, e)
}

// listElections returns every election
// GET /elections
func (a *API) listElections(w http.ResponseWriter, r *http.Request) {
	elections, err := a.elections.Elections()
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	if elections == nil {
		elections = []*types.Election{}
	}
	httpWriteJSON(w, &Elections{Elections: elections})
}

// election returns the election info
// GET /elections/{electionId}
func (a *API) election(w http.ResponseWriter, r *http.Request) {
	eid, err := electionIDParam(r)
	if err != nil {
		ErrMalformedElectionID.WithErr(err).Write(w)
		return
	}
	e, err := a.elections.Election(eid)
	if err != nil {
		ErrorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, e)
}

// startElection opens the election. Private elections started without an
// explicit root commit to the root of their whitelist, if any.
// POST /elections/{electionId}/start
func (a *API) startElection(w http.ResponseWriter, r *http.Request) {
	eid, err := electionIDParam(r)
	if err != nil {
		ErrMalformedElectionID.WithErr(err).Write(w)
		return
	}
	caller, body, ok := a.authenticate(w, r)
	if !ok {
		return
	}
	req := &StartElection{}
	if err := decodeBody(body, req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if err := a.elections.StartElection(caller, eid, req.CommitmentRoot); err != nil {
		ErrorFrom(err).Write(w)
		return
	}
	a.writeElection(w, eid)
}

// closeElection closes the election
// POST /elections/{electionId}/close
func (a *API) closeElection(w http.ResponseWriter, r *http.Request) {
	eid, err := electionIDParam(r)
	if err != nil {
		ErrMalformedElectionID.WithErr(err).Write(w)
		return
	}
	caller, _, ok := a.authenticate(w, r)
	if !ok {
		return
	}
	if err := a.elections.CloseElection(caller, eid); err != nil {
		ErrorFrom(err).Write(w)
		return
	}
	a.writeElection(w, eid)
}

// addAdmin adds an admin to the election
// POST /elections/{electionId}/admins
func (a *API) addAdmin(w http.ResponseWriter, r *http.Request) {
	eid, err := electionIDParam(r)
	if err != nil {
		ErrMalformedElectionID.WithErr(err).Write(w)
		return
	}
	caller, body, ok := a.authenticate(w, r)
	if !ok {
		return
	}
	req := &NewAdmin{}
	if err := decodeBody(body, req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if req.Admin == (types.Identity{}) {
		ErrMalformedAddress.With("missing admin").Write(w)
		return
	}
	if err := a.elections.AddAdmin(caller, eid, req.Admin); err != nil {
		ErrorFrom(err).Write(w)
		return
	}
	a.writeElection(w, eid)
}

// writeElection writes the current state of the election.
func (a *API) writeElection(w http.ResponseWriter, eid types.ElectionID) {
	e, err := a.elections.Election(eid)
	if err != nil {
		ErrorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, e)
}
