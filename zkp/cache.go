package zkp

import (
	"sync"
	"sync/atomic"
	"time"
)

// proofCache is the ephemeral id→proof store. Get evicts lazily on access;
// an owned sweeper goroutine evicts the rest on a fixed interval. No
// persistence: a restart clears it, and callers needing durability go
// through export/import.
type proofCache struct {
	mu      sync.RWMutex
	entries map[string]*Proof

	evictions atomic.Uint64
	sweeps    atomic.Uint64

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// CacheStats is a point-in-time view of the cache counters.
type CacheStats struct {
	Entries   int
	Evictions uint64
	Sweeps    uint64
}

func newProofCache(sweepInterval time.Duration) *proofCache {
	c := &proofCache{
		entries: make(map[string]*Proof),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	if sweepInterval > 0 {
		go c.sweepLoop(sweepInterval)
	} else {
		close(c.doneCh)
	}
	return c
}

func (c *proofCache) put(p *Proof) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[p.ID] = p
}

// get returns the cached proof, evicting it first if expired.
func (c *proofCache) get(id string) (*Proof, bool) {
	c.mu.RLock()
	p, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if p.Expired(time.Now()) {
		c.mu.Lock()
		// re-check under the write lock; a sweep may have beaten us
		if cur, still := c.entries[id]; still && cur == p {
			delete(c.entries, id)
			c.evictions.Add(1)
		}
		c.mu.Unlock()
		return nil, false
	}
	return p, true
}

func (c *proofCache) remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

func (c *proofCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *proofCache) stats() CacheStats {
	return CacheStats{
		Entries:   c.len(),
		Evictions: c.evictions.Load(),
		Sweeps:    c.sweeps.Load(),
	}
}

// sweep removes every expired entry and reports how many went.
func (c *proofCache) sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for id, p := range c.entries {
		if p.Expired(now) {
			delete(c.entries, id)
			removed++
		}
	}
	if removed > 0 {
		c.evictions.Add(uint64(removed))
	}
	c.sweeps.Add(1)
	return removed
}

func (c *proofCache) sweepLoop(interval time.Duration) {
	defer close(c.doneCh)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopCh:
			return
		case now := <-ticker.C:
			c.sweep(now)
		}
	}
}

// close stops the sweeper and waits for it to exit.
func (c *proofCache) close() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
	<-c.doneCh
}
