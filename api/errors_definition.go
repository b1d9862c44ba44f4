//nolint:lll
package api

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400, 401, 403, 404 or 409, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after the current last 4XXX or 5XXX.
// There's no correlation between Code and HTTP Status.
var (
	ErrResourceNotFound      = Error{Code: 40001, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody         = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrInvalidSignature      = Error{Code: 40005, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("invalid signature")}
	ErrMalformedElectionID   = Error{Code: 40006, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed election ID")}
	ErrElectionNotFound      = Error{Code: 40007, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("election not found")}
	ErrVotingClosed          = Error{Code: 40008, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("voting is closed")}
	ErrAlreadyVoted          = Error{Code: 40009, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("voter already voted")}
	ErrProofRequired         = Error{Code: 40010, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("merkle proof required")}
	ErrProofInvalid          = Error{Code: 40011, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("invalid merkle proof")}
	ErrUnauthorized          = Error{Code: 40012, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("caller is not an election admin")}
	ErrMissingAuthentication = Error{Code: 40013, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("missing authentication headers")}
	ErrInvalidInput          = Error{Code: 40014, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid input")}
	ErrCapacityExceeded      = Error{Code: 40015, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("capacity exceeded")}
	ErrMalformedAddress      = Error{Code: 40016, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed address")}
	ErrWhitelistLocked       = Error{Code: 40017, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("whitelist cannot change once the election started")}
	ErrVoterNotFound         = Error{Code: 40018, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("voter not found")}
	ErrNotInWhitelist        = Error{Code: 40019, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("address not in whitelist")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
	ErrIssuanceFailed             = Error{Code: 50003, HTTPstatus: http.StatusServiceUnavailable, Err: fmt.Errorf("participation issuance failed")}
)
