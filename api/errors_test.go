package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/solavote/solavote-node/election"
	"github.com/solavote/solavote-node/merkle"
	"github.com/solavote/solavote-node/storage/census"
)

func TestErrorFrom(t *testing.T) {
	c := qt.New(t)
	for _, tc := range []struct {
		err  error
		want Error
	}{
		{fmt.Errorf("%w: 0x01", election.ErrElectionNotFound), ErrElectionNotFound},
		{election.ErrVotingClosed, ErrVotingClosed},
		{election.ErrAlreadyVoted, ErrAlreadyVoted},
		{election.ErrProofRequired, ErrProofRequired},
		{fmt.Errorf("%w: no root", election.ErrProofInvalid), ErrProofInvalid},
		{election.ErrUnauthorized, ErrUnauthorized},
		{fmt.Errorf("%w: title too long", election.ErrInvalidInput), ErrInvalidInput},
		{election.ErrCapacityExceeded, ErrCapacityExceeded},
		{fmt.Errorf("%w: election is open", election.ErrWhitelistLocked), ErrWhitelistLocked},
		{fmt.Errorf("%w: signer offline", election.ErrIssuance), ErrIssuanceFailed},
		{census.ErrKeyNotFound, ErrNotInWhitelist},
		{merkle.ErrEmptyTree, ErrNotInWhitelist},
		{errors.New("disk full"), ErrGenericInternalServerError},
	} {
		got := ErrorFrom(tc.err)
		c.Assert(got.Code, qt.Equals, tc.want.Code, qt.Commentf("%v", tc.err))
		c.Assert(got.HTTPstatus, qt.Equals, tc.want.HTTPstatus)
		c.Assert(errors.Is(got, tc.want), qt.IsTrue)
		// the cause stays reachable
		c.Assert(errors.Is(got, tc.err), qt.IsTrue)
	}

	// API errors pass through
	err := ErrorFrom(ErrMalformedAddress.With("missing"))
	c.Assert(err.Code, qt.Equals, ErrMalformedAddress.Code)
	c.Assert(err.Error(), qt.Equals, "malformed address: missing")
	c.Assert(errors.Is(err, ErrMalformedBody), qt.IsFalse)
}

func TestErrorWrite(t *testing.T) {
	c := qt.New(t)
	rec := httptest.NewRecorder()
	ErrorFrom(fmt.Errorf("%w: 0x01", election.ErrElectionNotFound)).Write(rec)
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
	c.Assert(rec.Header().Get("Content-Type"), qt.Equals, "application/json")
	c.Assert(rec.Body.String(), qt.Equals, `{"error":"election not found: 0x01","code":40007}`+"\n")
}
