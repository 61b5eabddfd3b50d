package engine

import "sync/atomic"

// Clock is the logical time the engine checks event eligibility against.
// Values are opaque ordered integers (the demo dataset uses minutes of day).
// The clock only moves when something sets it; monotonicity is a convention
// of the caller, not enforced here.
type Clock struct {
	now atomic.Uint64
}

// NewClock returns a clock at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Set moves the clock to t.
func (c *Clock) Set(t uint64) {
	c.now.Store(t)
}

// Now returns the current clock value.
func (c *Clock) Now() uint64 {
	return c.now.Load()
}

// TimeBetween reports whether t falls inside [lo, hi], inclusive on both
// ends.
func TimeBetween(t, lo, hi uint64) bool {
	return lo <= t && t <= hi
}
