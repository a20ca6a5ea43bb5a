// Package abuse implements the two request-gate protection mechanisms:
// a per-address suspicious-activity state machine and per-address,
// per-route-class fixed-window rate limiting. Both tables are in-memory and
// volatile; in a multi-instance deployment they would need to move behind a
// shared store, which is why all mutation goes through a handful of methods
// holding a single lock per table.
package abuse

import (
	"sync"
	"time"
)

// clientState tracks one client address.
type clientState struct {
	failureCount int
	lastActivity time.Time
	blocked      bool
	blockedUntil time.Time
}

// Status is the result of a block check.
type Status struct {
	Blocked    bool
	RetryAfter time.Duration // remaining block time, zero when not blocked
}

// Tracker is the per-address failure-counting state machine. An address moves
// from clean to blocked once failureCount reaches the threshold, stays blocked
// for blockFor, and is reset lazily on the first check after the block expires.
type Tracker struct {
	mu      sync.Mutex
	entries map[string]*clientState

	threshold   int
	blockFor    time.Duration
	idleTimeout time.Duration

	now func() time.Time
}

// NewTracker creates a Tracker. Entries are created lazily on first check and
// evicted by Evict once idle beyond idleTimeout and not blocked.
func NewTracker(threshold int, blockFor, idleTimeout time.Duration) *Tracker {
	return &Tracker{
		entries:     make(map[string]*clientState),
		threshold:   threshold,
		blockFor:    blockFor,
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Check records an observed request from addr and reports whether it is
// currently blocked. An expired block is cleared here, resetting the failure
// count to zero.
func (t *Tracker) Check(addr string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()

	st, ok := t.entries[addr]
	if !ok {
		st = &clientState{lastActivity: now}
		t.entries[addr] = st

		return Status{}
	}

	st.lastActivity = now

	if st.blocked {
		if now.Before(st.blockedUntil) {
			return Status{Blocked: true, RetryAfter: st.blockedUntil.Sub(now)}
		}

		st.blocked = false
		st.failureCount = 0
	}

	return Status{}
}

// RecordOutcome feeds a response status back into the state machine. Statuses
// below 400 are ignored. The call that brings the failure count to the
// threshold transitions the address to blocked.
func (t *Tracker) RecordOutcome(addr string, status int) {
	if status < 400 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()

	st, ok := t.entries[addr]
	if !ok {
		st = &clientState{}
		t.entries[addr] = st
	}

	st.failureCount++
	st.lastActivity = now

	if !st.blocked && st.failureCount >= t.threshold {
		st.blocked = true
		st.blockedUntil = now.Add(t.blockFor)
	}
}

// FailureCount returns the current failure count for addr.
func (t *Tracker) FailureCount(addr string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if st, ok := t.entries[addr]; ok {
		return st.failureCount
	}

	return 0
}

// Evict removes entries idle beyond the timeout and not currently blocked,
// returning the number removed. Blocked entries are kept so the block
// survives until its expiry regardless of activity.
func (t *Tracker) Evict() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	removed := 0

	for addr, st := range t.entries {
		if !st.blocked && now.Sub(st.lastActivity) > t.idleTimeout {
			delete(t.entries, addr)
			removed++
		}
	}

	return removed
}

// Len returns the number of tracked addresses.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.entries)
}

// SetNow replaces the time source. Tests only.
func (t *Tracker) SetNow(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.now = now
}
