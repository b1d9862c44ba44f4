package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/solavote/solavote-node/api"
	"github.com/solavote/solavote-node/election"
	"github.com/solavote/solavote-node/log"
	"github.com/solavote/solavote-node/storage"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

// APIService represents a service that manages the HTTP API server.
type APIService struct {
	storage   *storage.Storage
	elections *election.StateMachine
	api       *api.API
	mu        sync.Mutex
	cancel    context.CancelFunc
	host      string
	port      int
}

// NewAPI creates a new APIService instance.
func NewAPI(storage *storage.Storage, elections *election.StateMachine, host string, port int) *APIService {
	return &APIService{
		storage:   storage,
		elections: elections,
		host:      host,
		port:      port,
	}
}

// Start begins the API server. It returns an error if the service
// is already running or if it fails to start.
func (as *APIService) Start(ctx context.Context) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		return fmt.Errorf("service already running")
	}

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)

	var err error
	as.api, err = api.New(&api.APIConfig{
		Host:      as.host,
		Port:      as.port,
		Storage:   as.storage,
		Elections: as.elections,
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to start API server: %w", err)
	}
	as.cancel = cancel

	// Stop the server if the parent context ends. Stop shuts it down itself.
	go func(a *api.API) {
		<-ctx.Done()
		if parent.Err() != nil {
			as.shutdown(a)
		}
	}(as.api)
	return nil
}

// Stop halts the API server. The storage is left open.
func (as *APIService) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		as.cancel()
		as.cancel = nil
	}
	if as.api != nil {
		as.shutdown(as.api)
		as.api = nil
	}
}

func (as *APIService) shutdown(a *api.API) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Stop(ctx); err != nil {
		log.Warnw("error stopping API server", "error", err)
	}
}

// HostPort returns the host and port of the API server. Once started with
// port 0 it returns the port picked by the system.
func (as *APIService) HostPort() (string, int) {
	as.mu.Lock()
	defer as.mu.Unlock()
	if as.api != nil {
		if addr, ok := as.api.TCPAddr(); ok {
			return as.host, addr.Port
		}
	}
	return as.host, as.port
}
