package api

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/lru"
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/solavote/solavote-node/types"
)

const (
	// IdentityHeader carries the base58 identity of the caller.
	IdentityHeader = "X-Solavote-Identity"
	// SignatureHeader carries the base58 ed25519 signature of the request.
	SignatureHeader = "X-Solavote-Signature"
	// TimestampHeader carries the signing time in unix milliseconds.
	TimestampHeader = "X-Solavote-Timestamp"
	// NonceHeader carries a value unique to each signed request.
	NonceHeader = "X-Solavote-Nonce"

	// DefaultMaxClockSkew is how far the signing time may be from the node
	// clock.
	DefaultMaxClockSkew = 2 * time.Minute
	// DefaultReplayCacheSize is the number of nonces remembered per node.
	DefaultReplayCacheSize = 1 << 16

	maxNonceLen = 64
)

var (
	// errNoCredentials is returned by an Authenticator when the request
	// carries no identity at all.
	errNoCredentials = errors.New("no credentials")
	errStaleRequest  = errors.New("request timestamp out of range")
	errReplayed      = errors.New("request already seen")
)

// Authenticator resolves the verified identity of the caller of a request.
// The body is passed already read, since it is part of what gets signed.
type Authenticator interface {
	Authenticate(r *http.Request, body []byte) (types.Identity, error)
}

// SignatureAuthenticator authenticates requests signed with the ed25519 key
// of the caller identity, see SignedRequestMessage. A request is accepted
// once: its nonce is remembered and the timestamp must be within
// MaxClockSkew of the node clock. Create it with NewSignatureAuthenticator.
type SignatureAuthenticator struct {
	MaxClockSkew time.Duration

	now  func() time.Time
	mu   sync.Mutex
	seen lru.BasicLRU[string, struct{}]
}

// NewSignatureAuthenticator returns a SignatureAuthenticator with the default
// clock skew and replay cache size.
func NewSignatureAuthenticator() *SignatureAuthenticator {
	return &SignatureAuthenticator{
		MaxClockSkew: DefaultMaxClockSkew,
		now:          time.Now,
		seen:         lru.NewBasicLRU[string, struct{}](DefaultReplayCacheSize),
	}
}

// Authenticate implements Authenticator.
func (a *SignatureAuthenticator) Authenticate(r *http.Request, body []byte) (types.Identity, error) {
	idHeader, sigHeader := r.Header.Get(IdentityHeader), r.Header.Get(SignatureHeader)
	if idHeader == "" || sigHeader == "" {
		return types.Identity{}, errNoCredentials
	}
	id, err := types.ParseIdentity(idHeader)
	if err != nil {
		return types.Identity{}, err
	}
	sig, err := base58.Decode(sigHeader)
	if err != nil {
		return types.Identity{}, fmt.Errorf("invalid signature encoding: %w", err)
	}
	if len(sig) != ed25519.SignatureSize {
		return types.Identity{}, fmt.Errorf("invalid signature length %d", len(sig))
	}
	timestamp, err := strconv.ParseInt(r.Header.Get(TimestampHeader), 10, 64)
	if err != nil {
		return types.Identity{}, fmt.Errorf("invalid timestamp: %w", err)
	}
	nonce := r.Header.Get(NonceHeader)
	if nonce == "" || len(nonce) > maxNonceLen {
		return types.Identity{}, fmt.Errorf("invalid nonce length %d", len(nonce))
	}
	if skew := a.now().Sub(time.UnixMilli(timestamp)); skew.Abs() > a.MaxClockSkew {
		return types.Identity{}, fmt.Errorf("%w: %s", errStaleRequest, skew)
	}
	msg := SignedRequestMessage(r.Method, r.URL.Path, timestamp, nonce, body)
	if !ed25519.Verify(ed25519.PublicKey(id[:]), msg, sig) {
		return types.Identity{}, fmt.Errorf("signature does not match identity %s", id)
	}

	// Only verified requests reach the cache.
	key := id.String() + "/" + nonce
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.seen.Contains(key) {
		return types.Identity{}, errReplayed
	}
	a.seen.Add(key, struct{}{})
	return id, nil
}

// SignedRequestMessage returns the bytes signed for a request: method, path,
// timestamp and nonce separated by new lines, followed by the body.
func SignedRequestMessage(method, path string, timestamp int64, nonce string, body []byte) []byte {
	ts := strconv.FormatInt(timestamp, 10)
	msg := make([]byte, 0, len(method)+len(path)+len(ts)+len(nonce)+len(body)+4)
	for _, part := range []string{method, path, ts, nonce} {
		msg = append(msg, part...)
		msg = append(msg, '\n')
	}
	return append(msg, body...)
}

// SignRequest returns the authentication headers of a request made with key,
// signed now with a fresh nonce.
func SignRequest(key ed25519.PrivateKey, method, path string, body []byte) http.Header {
	return signRequest(key, method, path, body, time.Now().UnixMilli(), uuid.NewString())
}

func signRequest(key ed25519.PrivateKey, method, path string, body []byte, timestamp int64, nonce string) http.Header {
	sig := ed25519.Sign(key, SignedRequestMessage(method, path, timestamp, nonce, body))
	h := http.Header{}
	h.Set(IdentityHeader, base58.Encode(key.Public().(ed25519.PublicKey)))
	h.Set(SignatureHeader, base58.Encode(sig))
	h.Set(TimestampHeader, strconv.FormatInt(timestamp, 10))
	h.Set(NonceHeader, nonce)
	return h
}

// IdentityFromKey returns the identity of an ed25519 key.
func IdentityFromKey(key ed25519.PrivateKey) types.Identity {
	var id types.Identity
	copy(id[:], key.Public().(ed25519.PublicKey))
	return id
}

// authenticate reads the body and resolves the caller. On failure it writes
// the error response and returns false.
func (a *API) authenticate(w http.ResponseWriter, r *http.Request) (types.Identity, []byte, bool) {
	body, err := readBody(r)
	if err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return types.Identity{}, nil, false
	}
	caller, err := a.auth.Authenticate(r, body)
	if err != nil {
		if errors.Is(err, errNoCredentials) {
			ErrMissingAuthentication.Write(w)
		} else {
			ErrInvalidSignature.WithErr(err).Write(w)
		}
		return types.Identity{}, nil, false
	}
	return caller, body, true
}
