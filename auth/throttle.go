package auth

import (
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
)

type (
	// LoginThrottle counts failed logins per client key (usually the
	// remote IP) inside a rolling window. Entries expire with the
	// cache life window, so a blocked client is unblocked by simply
	// waiting.
	LoginThrottle struct {
		cache *bigcache.BigCache
		max   int
	}
)

// NewLoginThrottle blocks a client after maxFailures failed logins
// within the given window.
func NewLoginThrottle(window time.Duration, maxFailures int) (*LoginThrottle, error) {
	cache, err := bigcache.NewBigCache(bigcache.DefaultConfig(window))
	if err != nil {
		return nil, fmt.Errorf("unable to build the throttle cache, cause %w", err)
	}
	return &LoginThrottle{
		cache: cache,
		max:   maxFailures,
	}, nil
}

// Blocked tells whether the client already burned through its allowed
// failures for the current window.
func (t *LoginThrottle) Blocked(clientKey string) bool {
	buf, err := t.cache.Get(clientKey)
	if err != nil {
		return false
	}
	return len(buf) > 0 && int(buf[0]) >= t.max
}

// RecordFailure bumps the failure counter for the client.
func (t *LoginThrottle) RecordFailure(clientKey string) {
	count := byte(1)
	if buf, err := t.cache.Get(clientKey); err == nil && len(buf) > 0 {
		count = buf[0]
		if count < 0xff {
			count++
		}
	}
	t.cache.Set(clientKey, []byte{count})
}

// Reset forgets the client, called after a successful login.
func (t *LoginThrottle) Reset(clientKey string) {
	t.cache.Delete(clientKey)
}
