package election

import (
	"sync"

	"github.com/solavote/solavote-node/types"
)

// voterKey identifies one voter in one election.
type voterKey struct {
	election types.ElectionID
	voter    types.Identity
}

// keyedMutex hands out one RWMutex per key. Entries are dropped once nobody
// holds or waits for them, so keys that are never seen again do not pile up.
type keyedMutex[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*refMutex
}

type refMutex struct {
	sync.RWMutex
	refs int
}

func newKeyedMutex[K comparable]() *keyedMutex[K] {
	return &keyedMutex[K]{locks: make(map[K]*refMutex)}
}

func (km *keyedMutex[K]) acquire(key K) *refMutex {
	km.mu.Lock()
	defer km.mu.Unlock()
	m, ok := km.locks[key]
	if !ok {
		m = &refMutex{}
		km.locks[key] = m
	}
	m.refs++
	return m
}

func (km *keyedMutex[K]) release(key K) {
	km.mu.Lock()
	defer km.mu.Unlock()
	m := km.locks[key]
	m.refs--
	if m.refs == 0 {
		delete(km.locks, key)
	}
}

// Lock write-locks key and returns the function that unlocks it.
func (km *keyedMutex[K]) Lock(key K) func() {
	m := km.acquire(key)
	m.Lock()
	return func() {
		m.Unlock()
		km.release(key)
	}
}

// RLock read-locks key and returns the function that unlocks it.
func (km *keyedMutex[K]) RLock(key K) func() {
	m := km.acquire(key)
	m.RLock()
	return func() {
		m.RUnlock()
		km.release(key)
	}
}

// len returns the number of live entries.
func (km *keyedMutex[K]) len() int {
	km.mu.Lock()
	defer km.mu.Unlock()
	return len(km.locks)
}
