package api

import (
	"errors"
	"net/http"

	"github.com/solavote/solavote-node/storage"
)

// newVote casts the ballot of the caller
// POST /elections/{electionId}/votes
func (a *API) newVote(w http.ResponseWriter, r *http.Request) {
	eid, err := electionIDParam(r)
	if err != nil {
		ErrMalformedElectionID.WithErr(err).Write(w)
		return
	}
	voter, body, ok := a.authenticate(w, r)
	if !ok {
		return
	}
	vote := &Vote{}
	if err := decodeBody(body, vote); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	if err := a.elections.CastVote(r.Context(), voter, eid, vote.Ciphertext, vote.Proof); err != nil {
		ErrorFrom(err).Write(w)
		return
	}
	cred, err := a.elections.Participation(eid, voter)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &VoteResponse{Participation: cred})
}

// voters lists the identities that voted
// GET /elections/{electionId}/voters
func (a *API) voters(w http.ResponseWriter, r *http.Request) {
	eid, err := electionIDParam(r)
	if err != nil {
		ErrMalformedElectionID.WithErr(err).Write(w)
		return
	}
	voters, err := a.elections.Voters(eid)
	if err != nil {
		ErrorFrom(err).Write(w)
		return
	}
	httpWriteJSON(w, &Voters{Voters: voters})
}

// voter returns the records of a voter
// GET /elections/{electionId}/voters/{address}
func (a *API) voter(w http.ResponseWriter, r *http.Request) {
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
	if _, err := a.elections.Election(eid); err != nil {
		ErrorFrom(err).Write(w)
		return
	}
	vr, err := a.elections.VoterRecord(eid, address)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			ErrVoterNotFound.Write(w)
			return
		}
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	res := &Voter{Record: vr}
	if res.Ballot, err = a.elections.Ballot(eid, address); err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	res.Participation, err = a.elections.Participation(eid, address)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, res)
}
