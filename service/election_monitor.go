package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/solavote/solavote-node/log"
	"github.com/solavote/solavote-node/storage"
	"github.com/solavote/solavote-node/types"
)

// ElectionMonitor periodically walks the stored elections. It keeps the
// census of every private election that is not closed loaded, so the proof
// endpoint resolves it by commitment root, drops the census of closed
// elections from memory and logs the election counters.
type ElectionMonitor struct {
	storage  *storage.Storage
	interval time.Duration
	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
}

// ElectionStats are the counters gathered on each pass.
type ElectionStats struct {
	Created, Open, Closed int
	Votes                 uint64
	LoadedCensuses        int
	UnloadedCensuses      int
	Whitelisted           int
}

// NewElectionMonitor creates a new ElectionMonitor service.
func NewElectionMonitor(stg *storage.Storage, interval time.Duration) *ElectionMonitor {
	return &ElectionMonitor{
		storage:  stg,
		interval: interval,
	}
}

// Start runs a first pass and then one pass per interval. It returns an
// error if the service is already running.
func (em *ElectionMonitor) Start(ctx context.Context) error {
	em.mu.Lock()
	defer em.mu.Unlock()

	if em.cancel != nil {
		return fmt.Errorf("service already running")
	}
	if em.interval <= 0 {
		return fmt.Errorf("monitor interval must be positive")
	}
	ctx, em.cancel = context.WithCancel(ctx)
	em.done = make(chan struct{})
	go em.monitorElections(ctx, em.done)
	return nil
}

// Stop halts the monitoring service and waits for the running pass.
func (em *ElectionMonitor) Stop() {
	em.mu.Lock()
	defer em.mu.Unlock()

	if em.cancel != nil {
		em.cancel()
		<-em.done
		em.cancel = nil
	}
}

func (em *ElectionMonitor) monitorElections(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(em.interval)
	defer ticker.Stop()
	for {
		if stats, err := em.Scan(); err != nil {
			log.Warnw("election scan failed", "error", err.Error())
		} else {
			log.Debugw("elections",
				"created", stats.Created,
				"open", stats.Open,
				"closed", stats.Closed,
				"votes", stats.Votes,
				"censuses", stats.LoadedCensuses,
				"unloaded", stats.UnloadedCensuses,
				"whitelisted", stats.Whitelisted)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Scan performs a single pass over the elections.
func (em *ElectionMonitor) Scan() (*ElectionStats, error) {
	elections, err := em.storage.ListElections()
	if err != nil {
		return nil, err
	}
	stats := &ElectionStats{}
	for _, e := range elections {
		stats.Votes += e.VoterCount
		switch e.Status {
		case types.ElectionCreated:
			stats.Created++
		case types.ElectionOpen:
			stats.Open++
		case types.ElectionClosed:
			stats.Closed++
			if em.storage.CensusDB().Unload(e.ID) {
				stats.UnloadedCensuses++
			}
			continue
		}
		if !e.IsPrivate {
			continue
		}
		ref, err := em.storage.CensusDB().Load(e.ID)
		if err != nil {
			log.Warnw("failed to load census", "electionId", e.ID.String(), "error", err.Error())
			continue
		}
		stats.LoadedCensuses++
		stats.Whitelisted += ref.Size()
	}
	return stats, nil
}
