package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(windowSize time.Duration, maxRequests int, now *time.Time) *RateLimiter {
	r := &RateLimiter{
		windows:     make(map[string]*window),
		windowSize:  windowSize,
		maxRequests: maxRequests,
		now:         func() time.Time { return *now },
		stop:        make(chan struct{}),
	}
	return r
}

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	r := newTestLimiter(time.Minute, 3, &now)

	for i := 0; i < 3; i++ {
		allowed, retryAfter := r.Check("user1")
		assert.True(t, allowed, "request %d should pass", i+1)
		assert.Zero(t, retryAfter)
	}

	allowed, retryAfter := r.Check("user1")
	assert.False(t, allowed)
	assert.Equal(t, 60, retryAfter)
}

func TestRateLimiter_RetryAfterShrinksWithinWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	r := newTestLimiter(time.Minute, 1, &now)

	allowed, _ := r.Check("user1")
	assert.True(t, allowed)

	now = now.Add(45 * time.Second)
	allowed, retryAfter := r.Check("user1")
	assert.False(t, allowed)
	assert.Equal(t, 15, retryAfter)
}

func TestRateLimiter_FreshWindowAfterExpiry(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	r := newTestLimiter(time.Minute, 1, &now)

	allowed, _ := r.Check("user1")
	assert.True(t, allowed)
	allowed, _ = r.Check("user1")
	assert.False(t, allowed)

	now = now.Add(61 * time.Second)
	allowed, _ = r.Check("user1")
	assert.True(t, allowed, "a new window should start after reset")
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	r := newTestLimiter(time.Minute, 1, &now)

	allowed, _ := r.Check("user1")
	assert.True(t, allowed)

	allowed, _ = r.Check("user2")
	assert.True(t, allowed, "another caller must not share the window")
}

func TestRateLimiter_Remaining(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	r := newTestLimiter(time.Minute, 5, &now)

	assert.Equal(t, 5, r.Remaining("user1"))

	r.Check("user1")
	r.Check("user1")
	assert.Equal(t, 3, r.Remaining("user1"))

	for i := 0; i < 3; i++ {
		r.Check("user1")
	}
	assert.Equal(t, 0, r.Remaining("user1"))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 5, r.Remaining("user1"))
}

func TestRateLimiter_SweepRemovesExpiredWindows(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	r := newTestLimiter(time.Minute, 1, &now)

	r.Check("user1")
	r.Check("user2")

	now = now.Add(2 * time.Minute)
	r.mu.Lock()
	for key, w := range r.windows {
		if w.resetTime.Before(r.now()) {
			delete(r.windows, key)
		}
	}
	r.mu.Unlock()

	assert.Empty(t, r.windows)
}
