package zkp

import (
	"fmt"
	"testing"
	"time"
)

func cachedProof(id string, ttl time.Duration) *Proof {
	now := time.Now().UTC()
	return &Proof{ID: id, Timestamp: now, ExpiresAt: now.Add(ttl)}
}

func TestCacheLazyEviction(t *testing.T) {
	c := newProofCache(0)
	defer c.close()

	c.put(cachedProof("stale", -time.Second))
	c.put(cachedProof("live", time.Hour))

	if _, ok := c.get("stale"); ok {
		t.Fatal("expired proof served")
	}
	if _, ok := c.get("live"); !ok {
		t.Fatal("live proof evicted")
	}
	st := c.stats()
	if st.Entries != 1 || st.Evictions != 1 {
		t.Fatalf("stats = %+v, want 1 entry and 1 eviction", st)
	}
	if st.Sweeps != 0 {
		t.Fatalf("sweeper ran %d times with no interval", st.Sweeps)
	}
}

func TestCacheSweepEvictsExpired(t *testing.T) {
	c := newProofCache(20 * time.Millisecond)
	defer c.close()

	for i := 0; i < 3; i++ {
		c.put(cachedProof(fmt.Sprintf("stale-%d", i), -time.Second))
	}
	c.put(cachedProof("live", time.Hour))

	deadline := time.Now().Add(2 * time.Second)
	for c.len() > 1 {
		if time.Now().After(deadline) {
			t.Fatalf("sweeper left %d entries", c.len())
		}
		time.Sleep(10 * time.Millisecond)
	}
	st := c.stats()
	if st.Evictions != 3 {
		t.Fatalf("evictions = %d, want 3", st.Evictions)
	}
	if st.Sweeps == 0 {
		t.Fatal("no sweep recorded")
	}
	if _, ok := c.get("live"); !ok {
		t.Fatal("live proof swept")
	}
}

func TestCacheRemove(t *testing.T) {
	c := newProofCache(0)
	defer c.close()
	c.put(cachedProof("a", time.Hour))
	c.remove("a")
	if _, ok := c.get("a"); ok {
		t.Fatal("removed proof still cached")
	}
	c.remove("a") // absent id is a no-op
}

func TestCacheCloseIdempotent(t *testing.T) {
	c := newProofCache(5 * time.Millisecond)
	c.put(cachedProof("a", time.Hour))
	c.close()
	c.close()
	if _, ok := c.get("a"); !ok {
		t.Fatal("close dropped a live entry")
	}
}
