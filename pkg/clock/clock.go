// Package clock provides the ledger's injectable time source.
//
// The ledger requires system_time to be strictly non-decreasing within one
// writer process, at millisecond granularity, even under sub-millisecond
// append bursts. That requirement is stateful, so the clock is an explicit
// service rather than ad-hoc time.Now calls: components take a Clock and
// tests swap in a Fixed or Manual instance.
package clock

import (
	"sync"
	"time"
)

// Clock supplies timestamps for new cells.
type Clock interface {
	Now() time.Time
}

// Monotonic is the process-wide production clock. It returns UTC wall time
// truncated to milliseconds, and if the wall clock would repeat or regress
// relative to the last issued timestamp it advances by one millisecond
// instead. Reset only at process start.
type Monotonic struct {
	mu   sync.Mutex
	last time.Time
}

// NewMonotonic creates a monotonic clock.
func NewMonotonic() *Monotonic {
	return &Monotonic{}
}

// Now returns a strictly increasing millisecond-granularity UTC timestamp.
func (c *Monotonic) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UTC().Truncate(time.Millisecond)
	if !now.After(c.last) {
		now = c.last.Add(time.Millisecond)
	}
	c.last = now
	return now
}

// Fixed always returns the same instant. For tests.
type Fixed struct {
	T time.Time
}

// NewFixed creates a fixed clock at t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{T: t.UTC().Truncate(time.Millisecond)}
}

func (c *Fixed) Now() time.Time { return c.T }

// Manual is an explicitly advanced clock. For tests that need ordered
// distinct timestamps.
type Manual struct {
	mu sync.Mutex
	t  time.Time
}

// NewManual creates a manual clock starting at t.
func NewManual(t time.Time) *Manual {
	return &Manual{t: t.UTC().Truncate(time.Millisecond)}
}

// Now returns the current manual time.
func (c *Manual) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward by d.
func (c *Manual) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
