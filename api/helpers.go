package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/solavote/solavote-node/log"
	"github.com/solavote/solavote-node/types"
)

// maxRequestBodySize bounds the body of every request.
const maxRequestBodySize = 64 * 1024

// httpWriteJSON helper function allows to write a JSON response.
func httpWriteJSON(w http.ResponseWriter, data interface{}) {
	jdata, err := json.Marshal(data)
	if err != nil {
		ErrMarshalingServerJSONFailed.WithErr(err).Write(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	n, err := w.Write(jdata)
	if err != nil {
		log.Warnw("failed to write http response", "error", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
	log.Debugw("api response", "bytes", n, "data", strings.ReplaceAll(string(jdata), "\"", ""))
}

// httpWriteOK helper function allows to write an OK response.
func httpWriteOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}

// readBody reads the whole request body, up to maxRequestBodySize.
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxRequestBodySize {
		return nil, fmt.Errorf("body larger than %d bytes", maxRequestBodySize)
	}
	return body, nil
}

// decodeBody unmarshals a JSON body into v. An empty body leaves v untouched.
func decodeBody(body []byte, v any) error {
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

// electionIDParam parses the election ID URL parameter.
func electionIDParam(r *http.Request) (types.ElectionID, error) {
	return types.HexToHash(chi.URLParam(r, ElectionURLParam))
}

// addressParam parses the address URL parameter.
func addressParam(r *http.Request) (types.Identity, error) {
	return types.ParseIdentity(chi.URLParam(r, AddressURLParam))
}

// replaceParam is strings.Replace for route templates.
func replaceParam(endpoint, param, value string) string {
	return strings.Replace(endpoint, param, value, 1)
}
