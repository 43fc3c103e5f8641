package utils

import (
	"sync"
	"time"
)

// Clock is the time source for timestamps and expiry decisions.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FrozenClock stands still until Advance or Set is called.
type FrozenClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFrozenClock(at time.Time) *FrozenClock {
	return &FrozenClock{now: at.UTC()}
}

func (c *FrozenClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FrozenClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *FrozenClock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = at.UTC()
}
