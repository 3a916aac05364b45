package heap

import (
	"sync"

	"github.com/scigolib/spead/internal/hash"
)

// DescriptorCache lets a sender skip re-serialising an unchanged item
// descriptor on every heap, resending it only every ttl heaps or whenever
// its fingerprint changes. This is an opt-in supplement to spec.md's
// literal always-serialise behaviour (DESIGN.md "descriptor resend
// cadence"); a Heap built without one always serialises every descriptor
// it is given.
//
// A single DescriptorCache is meant to be shared across every Heap in one
// logical stream, since the ttl countdown is counted in heaps, not in
// calls to a single heap.
type DescriptorCache struct {
	mu    sync.Mutex
	ttl   int
	state map[uint64]*descState
}

type descState struct {
	fingerprint uint64
	countdown   int
}

// NewDescriptorCache creates a cache that resends a descriptor at most
// once every ttl heaps. ttl < 1 is treated as 1 (resend every heap).
func NewDescriptorCache(ttl int) *DescriptorCache {
	if ttl < 1 {
		ttl = 1
	}

	return &DescriptorCache{ttl: ttl, state: make(map[uint64]*descState)}
}

// Fingerprint computes the cache key for a descriptor's encoded bytes.
func Fingerprint(descriptorBytes []byte) uint64 {
	return hash.Fingerprint(descriptorBytes)
}

// ShouldSend reports whether the descriptor for itemID with the given
// fingerprint must be (re)serialised into the current heap, and advances
// the cache's internal countdown as a side effect. Call it exactly once
// per AddDescriptor call.
func (c *DescriptorCache) ShouldSend(itemID, fingerprint uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.state[itemID]
	if !ok || st.fingerprint != fingerprint {
		c.state[itemID] = &descState{fingerprint: fingerprint, countdown: c.ttl}

		return true
	}

	st.countdown--
	if st.countdown <= 0 {
		st.countdown = c.ttl

		return true
	}

	return false
}
