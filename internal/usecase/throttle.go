package usecase

import (
	"strings"
	"sync"

	"token-auth/pkg/utils"

	"github.com/jellydator/ttlcache/v3"
)

// LoginThrottle counts login attempts per email that did not succeed.
// Counters expire one lockout window after the last attempt.
type LoginThrottle struct {
	max   int
	mu    sync.Mutex
	cache *ttlcache.Cache[string, int]
}

func NewLoginThrottle(cfg utils.AuthConfig) *LoginThrottle {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, int](cfg.LockoutWindow),
		ttlcache.WithDisableTouchOnHit[string, int](),
	)
	if cfg.MaxFailedLogins > 0 {
		go cache.Start()
	}
	return &LoginThrottle{max: cfg.MaxFailedLogins, cache: cache}
}

// Allow reserves one attempt for email, or returns ErrTooManyAttempts once
// the budget is spent. The reservation counts as a failure until Reset or
// Release is called, so concurrent attempts cannot exceed the budget.
func (t *LoginThrottle) Allow(email string) error {
	if t.max <= 0 {
		return nil
	}
	key := throttleKey(email)

	t.mu.Lock()
	defer t.mu.Unlock()

	count := 0
	if item := t.cache.Get(key); item != nil {
		count = item.Value()
	}
	if count >= t.max {
		return ErrTooManyAttempts
	}
	t.cache.Set(key, count+1, ttlcache.DefaultTTL)
	return nil
}

// Release returns an attempt that ended for a reason other than bad credentials.
func (t *LoginThrottle) Release(email string) {
	if t.max <= 0 {
		return
	}
	key := throttleKey(email)

	t.mu.Lock()
	defer t.mu.Unlock()

	item := t.cache.Get(key)
	if item == nil {
		return
	}
	if count := item.Value() - 1; count > 0 {
		t.cache.Set(key, count, ttlcache.DefaultTTL)
		return
	}
	t.cache.Delete(key)
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(email string) {
	if t.max <= 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.cache.Delete(throttleKey(email))
}

// Close stops the expiry loop.
func (t *LoginThrottle) Close() {
	if t.max > 0 {
		t.cache.Stop()
	}
}

func throttleKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
