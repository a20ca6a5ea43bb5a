package abuse

import (
	"sync"
	"time"
)

// Limit is a fixed-window request budget.
type Limit struct {
	Window time.Duration
	Max    int
}

// Decision is the outcome of a limiter check. ResetAt is the end of the
// current window and is reported to clients as retryAfter on rejection.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type window struct {
	start time.Time
	count int
}

// WindowLimiter counts requests per key in non-overlapping fixed windows.
// Keys are caller-defined; the request gate uses "addr|class".
type WindowLimiter struct {
	mu      sync.Mutex
	windows map[string]*window

	now func() time.Time
}

// NewWindowLimiter creates an empty limiter table.
func NewWindowLimiter() *WindowLimiter {
	return &WindowLimiter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow counts one request against key's current window. A new window starts
// when none exists or the previous one has elapsed.
func (l *WindowLimiter) Allow(key string, lim Limit) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= lim.Window {
		w = &window{start: now}
		l.windows[key] = w
	}

	w.count++
	resetAt := w.start.Add(lim.Window)

	if w.count > lim.Max {
		return Decision{Allowed: false, Remaining: 0, ResetAt: resetAt}
	}

	return Decision{Allowed: true, Remaining: lim.Max - w.count, ResetAt: resetAt}
}

// Evict drops windows whose start is older than maxAge, bounding table growth.
func (l *WindowLimiter) Evict(maxAge time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0

	for key, w := range l.windows {
		if now.Sub(w.start) > maxAge {
			delete(l.windows, key)
			removed++
		}
	}

	return removed
}

// SetNow replaces the time source. Tests only.
func (l *WindowLimiter) SetNow(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.now = now
}

// Payload size thresholds for the size-sensitive limit.
const (
	sizeSmall = 1 << 20  // 1 MiB
	sizeLarge = 10 << 20 // 10 MiB
)

// SizeLimit returns the hourly budget for resource-heavy routes based on
// payload size: smaller payloads get higher limits.
func SizeLimit(size int64) Limit {
	switch {
	case size < sizeSmall:
		return Limit{Window: time.Hour, Max: 50}
	case size < sizeLarge:
		return Limit{Window: time.Hour, Max: 30}
	default:
		return Limit{Window: time.Hour, Max: 10}
	}
}
