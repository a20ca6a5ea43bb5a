package abuse_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/pdfvault/pkg/internal/abuse"
)

func newTestTracker(current *time.Time) *abuse.Tracker {
	t := abuse.NewTracker(10, 30*time.Minute, time.Hour)
	t.SetNow(func() time.Time { return *current })

	return t
}

func TestTrackerStaysCleanBelowThreshold(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := newTestTracker(&now)

	for range 9 {
		tr.RecordOutcome("10.0.0.1", 404)
	}

	assert.Equal(t, 9, tr.FailureCount("10.0.0.1"))

	st := tr.Check("10.0.0.1")
	assert.False(t, st.Blocked)
}

func TestTrackerBlocksAtThreshold(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := newTestTracker(&now)

	for range 10 {
		tr.RecordOutcome("10.0.0.1", 400)
	}

	st := tr.Check("10.0.0.1")
	require.True(t, st.Blocked)
	assert.Equal(t, 30*time.Minute, st.RetryAfter)
}

func TestTrackerIgnoresSuccesses(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := newTestTracker(&now)

	for range 20 {
		tr.RecordOutcome("10.0.0.1", 200)
	}

	assert.Equal(t, 0, tr.FailureCount("10.0.0.1"))
	assert.False(t, tr.Check("10.0.0.1").Blocked)
}

func TestTrackerResetsAfterBlockExpires(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := newTestTracker(&now)

	for range 10 {
		tr.RecordOutcome("10.0.0.1", 500)
	}

	require.True(t, tr.Check("10.0.0.1").Blocked)

	// Still blocked one minute before expiry.
	now = now.Add(29 * time.Minute)
	require.True(t, tr.Check("10.0.0.1").Blocked)

	// Admitted again once the block has elapsed, with the count reset.
	now = now.Add(2 * time.Minute)
	st := tr.Check("10.0.0.1")
	assert.False(t, st.Blocked)
	assert.Equal(t, 0, tr.FailureCount("10.0.0.1"))
}

func TestTrackerEvictsIdleUnblocked(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := newTestTracker(&now)

	tr.Check("10.0.0.1")
	tr.RecordOutcome("10.0.0.2", 400)

	for range 10 {
		tr.RecordOutcome("10.0.0.3", 403)
	}

	now = now.Add(61 * time.Minute)

	removed := tr.Evict()
	assert.Equal(t, 2, removed)

	// The blocked address must survive eviction.
	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, 10, tr.FailureCount("10.0.0.3"))
}

func TestTrackerAddressesIndependent(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := newTestTracker(&now)

	for range 10 {
		tr.RecordOutcome("10.0.0.1", 400)
	}

	assert.True(t, tr.Check("10.0.0.1").Blocked)
	assert.False(t, tr.Check("10.0.0.2").Blocked)
}
