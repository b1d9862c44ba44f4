package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/solavote/solavote-node/election"
	"github.com/solavote/solavote-node/log"
	stg "github.com/solavote/solavote-node/storage"
)

// APIConfig type represents the configuration for the API HTTP server.
type APIConfig struct {
	Host      string
	Port      int
	Storage   *stg.Storage
	Elections *election.StateMachine
	// Authenticator resolves callers, a NewSignatureAuthenticator if nil.
	Authenticator Authenticator
}

// API type represents the API HTTP server.
type API struct {
	router    *chi.Mux
	storage   *stg.Storage
	elections *election.StateMachine
	auth      Authenticator

	server   *http.Server
	listener net.Listener
}

// New creates a new API instance with the given configuration and starts
// serving it on Host:Port. Port 0 picks a free port, see Addr.
func New(conf *APIConfig) (*API, error) {
	a, err := NewRouter(conf)
	if err != nil {
		return nil, err
	}
	a.listener, err = net.Listen("tcp", fmt.Sprintf("%s:%d", conf.Host, conf.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}
	a.server = &http.Server{
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infow("Starting API server", "addr", a.listener.Addr().String())
		if err := a.server.Serve(a.listener); err != nil && err != http.ErrServerClosed {
			log.Errorw(err, "API server stopped")
		}
	}()
	return a, nil
}

// NewRouter builds the API and its router without listening. Serve it with
// Router().
func NewRouter(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Storage == nil {
		return nil, fmt.Errorf("missing storage instance")
	}
	if conf.Elections == nil {
		return nil, fmt.Errorf("missing election state machine")
	}
	a := &API{
		storage:   conf.Storage,
		elections: conf.Elections,
		auth:      conf.Authenticator,
	}
	if a.auth == nil {
		a.auth = NewSignatureAuthenticator()
	}
	a.initRouter()
	return a, nil
}

// Router returns the chi router for testing purposes
func (a *API) Router() *chi.Mux {
	return a.router
}

// Addr returns the address the server listens on.
func (a *API) Addr() string {
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// TCPAddr returns the TCP address the server listens on.
func (a *API) TCPAddr() (*net.TCPAddr, bool) {
	if a.listener == nil {
		return nil, false
	}
	addr, ok := a.listener.Addr().(*net.TCPAddr)
	return addr, ok
}

// Stop gracefully shuts the server down.
func (a *API) Stop(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// registerHandlers registers all the API handlers.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})

	// elections
	log.Infow("register handler", "endpoint", ElectionsEndpoint, "method", "POST")
	a.router.Post(ElectionsEndpoint, a.newElection)
	log.Infow("register handler", "endpoint", ElectionsEndpoint, "method", "GET")
	a.router.Get(ElectionsEndpoint, a.listElections)
	log.Infow("register handler", "endpoint", ElectionEndpoint, "method", "GET")
	a.router.Get(ElectionEndpoint, a.election)
	log.Infow("register handler", "endpoint", ElectionStartEndpoint, "method", "POST")
	a.router.Post(ElectionStartEndpoint, a.startElection)
	log.Infow("register handler", "endpoint", ElectionCloseEndpoint, "method", "POST")
	a.router.Post(ElectionCloseEndpoint, a.closeElection)
	log.Infow("register handler", "endpoint", ElectionAdminsEndpoint, "method", "POST")
	a.router.Post(ElectionAdminsEndpoint, a.addAdmin)

	// whitelist
	log.Infow("register handler", "endpoint", WhitelistEndpoint, "method", "GET")
	a.router.Get(WhitelistEndpoint, a.whitelist)
	log.Infow("register handler", "endpoint", WhitelistEndpoint, "method", "POST")
	a.router.Post(WhitelistEndpoint, a.addToWhitelist)
	log.Infow("register handler", "endpoint", WhitelistAddressEndpoint, "method", "DELETE")
	a.router.Delete(WhitelistAddressEndpoint, a.removeFromWhitelist)
	log.Infow("register handler", "endpoint", ProofEndpoint, "method", "GET")
	a.router.Get(ProofEndpoint, a.proof)

	// votes
	log.Infow("register handler", "endpoint", VotesEndpoint, "method", "POST")
	a.router.Post(VotesEndpoint, a.newVote)
	log.Infow("register handler", "endpoint", VotersEndpoint, "method", "GET")
	a.router.Get(VotersEndpoint, a.voters)
	log.Infow("register handler", "endpoint", VoterEndpoint, "method", "GET")
	a.router.Get(VoterEndpoint, a.voter)
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	// Create the router with a basic middleware stack
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept", "Authorization", "Content-Type", "X-CSRF-Token",
			IdentityHeader, SignatureHeader, TimestampHeader, NonceHeader,
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	a.router.Use(middleware.Timeout(45 * time.Second))

	a.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		ErrResourceNotFound.Withf("%s %s", r.Method, r.URL.Path).Write(w)
	})

	// Register the API handlers
	a.registerHandlers()
}
