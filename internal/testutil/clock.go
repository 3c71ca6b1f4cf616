package testutil

import (
	"sync"
	"time"
)

// Clock is a manually advanced time source. Its Now method plugs into any
// `now func() time.Time` field.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a Clock stopped at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Day returns midnight UTC for a YYYY-MM-DD date, panicking on bad input.
func Day(v string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", v, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}
