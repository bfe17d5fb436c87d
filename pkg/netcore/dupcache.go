package netcore

import (
	"sync"
	"time"
)

type dupEntry struct {
	count     int
	firstSeen time.Time
}

// DupCache is the node-local mapping from CRC-16 checksum to
// (seen_count, first_seen_timestamp) used to suppress redundant forwards
// (§3 "Duplicate cache"). Collisions on the 16-bit checksum are tolerated
// as acceptable false positives given the small packet population within
// the expiration window.
//
// InsertOrIncrement is atomic per §9's resolved open question: testing
// whether a checksum was already seen and recording this reception both
// happen under one critical section, so two frames received from
// different neighbors at nearly the same instant never both win the race
// to enqueue a forward.
type DupCache struct {
	mu      sync.Mutex
	entries map[uint16]*dupEntry
	expiry  time.Duration
	now     func() time.Time
}

// NewDupCache creates a cache that purges entries older than expiry.
func NewDupCache(expiry time.Duration) *DupCache {
	return &DupCache{
		entries: make(map[uint16]*dupEntry),
		expiry:  expiry,
		now:     time.Now,
	}
}

// InsertOrIncrement records checksum as seen and returns the count it had
// *before* this call (0 if it was not yet present). Callers should treat
// a non-zero prior count as "already seen" and skip re-forwarding.
func (c *DupCache) InsertOrIncrement(checksum uint16) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[checksum]
	if !ok {
		c.entries[checksum] = &dupEntry{count: 1, firstSeen: c.now()}
		return 0
	}
	prior := e.count
	e.count++
	return prior
}

// MarkSent force-sets checksum's count to 2 and stamps it now, so inbound
// echoes of a frame this node has already sent or forwarded are
// recognized as already-handled (§4.C transmit pump step 7).
func (c *DupCache) MarkSent(checksum uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[checksum] = &dupEntry{count: 2, firstSeen: c.now()}
}

// SeenCount returns the current count for checksum, or 0 if absent.
func (c *DupCache) SeenCount(checksum uint16) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[checksum]; ok {
		return e.count
	}
	return 0
}

// Purge drops entries whose first-seen timestamp is older than the
// expiration window (§4.C "Cache flush"). Entries within the window are
// left untouched regardless of count.
func (c *DupCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.now().Add(-c.expiry)
	for k, e := range c.entries {
		if e.firstSeen.Before(cutoff) {
			delete(c.entries, k)
		}
	}
}

// Len reports the number of tracked entries.
func (c *DupCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
