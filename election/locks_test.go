package election

import (
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestKeyedMutex(t *testing.T) {
	c := qt.New(t)
	km := newKeyedMutex[int]()

	counters := make([]int, 4)
	var wg sync.WaitGroup
	for i := 0; i < 400; i++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			unlock := km.Lock(k)
			counters[k]++
			unlock()
		}(i % len(counters))
	}
	wg.Wait()
	for _, n := range counters {
		c.Assert(n, qt.Equals, 100)
	}
	c.Assert(km.len(), qt.Equals, 0)
}

func TestKeyedMutexReaders(t *testing.T) {
	c := qt.New(t)
	km := newKeyedMutex[string]()

	// readers share the key
	r1 := km.RLock("e")
	r2 := km.RLock("e")
	c.Assert(km.len(), qt.Equals, 1)

	locked := make(chan struct{})
	go func() {
		unlock := km.Lock("e")
		close(locked)
		unlock()
	}()
	select {
	case <-locked:
		c.Fatal("writer acquired the lock while readers hold it")
	case <-time.After(50 * time.Millisecond):
	}
	r1()
	r2()
	<-locked

	// other keys are independent
	unlock := km.Lock("a")
	km.RLock("b")()
	unlock()

	c.Assert(km.len(), qt.Equals, 0)
}
