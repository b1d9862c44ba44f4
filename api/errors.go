package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/solavote/solavote-node/election"
	"github.com/solavote/solavote-node/log"
	"github.com/solavote/solavote-node/merkle"
	"github.com/solavote/solavote-node/storage/census"
)

// Error is an API failure: the cause, the stable code sent to clients and the
// HTTP status of the response.
type Error struct {
	Err        error
	Code       int
	HTTPstatus int
}

// MarshalJSON encodes the error as {"error":"...","code":N}. HTTPstatus is
// carried by the response itself.
func (e Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Err  string `json:"error"`
		Code int    `json:"code"`
	}{
		Err:  e.Err.Error(),
		Code: e.Code,
	})
}

func (e Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the cause, so errors.Is reaches the state machine errors.
func (e Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an API error with the same code.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	return ok && t.Code == e.Code
}

// Write sends the error as a JSON response with its HTTP status.
func (e Error) Write(w http.ResponseWriter) {
	msg, err := json.Marshal(e)
	if err != nil {
		log.Warnw("could not encode API error", "error", err)
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	log.Debugw("API error response", "error", e.Error(), "code", e.Code, "httpStatus", e.HTTPstatus)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(e.HTTPstatus)
	if _, err := w.Write(append(msg, '\n')); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}

// Withf returns a copy of the error with the formatted detail appended.
func (e Error) Withf(format string, args ...any) Error {
	return e.With(fmt.Sprintf(format, args...))
}

// With returns a copy of the error with the detail appended.
func (e Error) With(detail string) Error {
	return Error{Err: fmt.Errorf("%w: %s", e.Err, detail), Code: e.Code, HTTPstatus: e.HTTPstatus}
}

// WithErr returns a copy of the error with err appended. Both stay reachable
// with errors.Is.
func (e Error) WithErr(err error) Error {
	return Error{Err: fmt.Errorf("%w: %w", e.Err, err), Code: e.Code, HTTPstatus: e.HTTPstatus}
}

// errorsByCause maps the node errors to their API error. The first match
// wins.
var errorsByCause = []struct {
	cause error
	api   Error
}{
	{election.ErrElectionNotFound, ErrElectionNotFound},
	{election.ErrVotingClosed, ErrVotingClosed},
	{election.ErrAlreadyVoted, ErrAlreadyVoted},
	{election.ErrProofRequired, ErrProofRequired},
	{election.ErrProofInvalid, ErrProofInvalid},
	{election.ErrUnauthorized, ErrUnauthorized},
	{election.ErrInvalidInput, ErrInvalidInput},
	{election.ErrCapacityExceeded, ErrCapacityExceeded},
	{election.ErrWhitelistLocked, ErrWhitelistLocked},
	{election.ErrIssuance, ErrIssuanceFailed},
	{census.ErrKeyNotFound, ErrNotInWhitelist},
	{census.ErrCensusNotFound, ErrNotInWhitelist},
	{merkle.ErrEmptyTree, ErrNotInWhitelist},
}

// ErrorFrom returns the API error of err. The message of err is kept as is,
// only the code and status come from the matching API error. Unknown errors
// become ErrGenericInternalServerError.
func ErrorFrom(err error) Error {
	var apiErr Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	for _, m := range errorsByCause {
		if errors.Is(err, m.cause) {
			return Error{Err: err, Code: m.api.Code, HTTPstatus: m.api.HTTPstatus}
		}
	}
	return ErrGenericInternalServerError.WithErr(err)
}
