package testutil

import (
	"sync"
	"time"
)

// FixedClock provides a thread-safe deterministic time source for tests.
//
// Each call to Now advances the clock by a fixed step, so repeated runs
// of the same test produce identical timestamps in reports and golden
// files.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu   sync.Mutex
	base time.Time
	step time.Duration
	n    int
}

// NewFixedClock creates a clock that starts at base and advances by
// step on every call to Now.
//
// With step 0 the clock is frozen and Now always returns base.
func NewFixedClock(base time.Time, step time.Duration) *FixedClock {
	return &FixedClock{base: base, step: step}
}

// Now returns the current clock time and advances by one step.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.base.Add(time.Duration(c.n) * c.step)
	c.n++
	return t
}

// Reset rewinds the clock to its base time.
//
// Used for test reuse. After Reset(), the next call to Now() returns base.
func (c *FixedClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = 0
}
