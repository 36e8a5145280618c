package security

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

const sweepInterval = time.Minute

type window struct {
	count     int
	resetTime time.Time
}

// RateLimiter counts requests per caller identity in fixed, non-overlapping
// windows. State is process-local; it does not coordinate across instances.
type RateLimiter struct {
	mu          sync.Mutex
	windows     map[string]*window
	windowSize  time.Duration
	maxRequests int

	now  func() time.Time
	stop chan struct{}
}

func NewRateLimiter(windowSize time.Duration, maxRequests int) *RateLimiter {
	r := &RateLimiter{
		windows:     make(map[string]*window),
		windowSize:  windowSize,
		maxRequests: maxRequests,
		now:         time.Now,
		stop:        make(chan struct{}),
	}
	go r.sweep()
	return r
}

// Check starts or advances the window for the key. When the ceiling is
// exceeded it reports the seconds remaining until the window resets.
func (r *RateLimiter) Check(key string) (allowed bool, retryAfter int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	w, ok := r.windows[key]
	if !ok || w.resetTime.Before(now) {
		r.windows[key] = &window{count: 1, resetTime: now.Add(r.windowSize)}
		return true, 0
	}

	if w.count >= r.maxRequests {
		return false, int(w.resetTime.Sub(now).Seconds() + 0.999)
	}

	w.count++
	return true, 0
}

func (r *RateLimiter) Remaining(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.windows[key]
	if !ok || w.resetTime.Before(r.now()) {
		return r.maxRequests
	}
	if w.count >= r.maxRequests {
		return 0
	}
	return r.maxRequests - w.count
}

func (r *RateLimiter) Stop() {
	close(r.stop)
}

func (r *RateLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			now := r.now()
			for key, w := range r.windows {
				if w.resetTime.Before(now) {
					delete(r.windows, key)
				}
			}
			r.mu.Unlock()
		case <-r.stop:
			return
		}
	}
}

// Middleware rejects over-limit callers with 429 and a Retry-After hint.
// Callers are keyed by the X-User-ID header when present, else by IP.
func (r *RateLimiter) Middleware(onReject func()) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		key := e.Request.Header.Get("X-User-ID")
		if key == "" {
			key = e.RealIP()
		}

		allowed, retryAfter := r.Check(key)
		if !allowed {
			if onReject != nil {
				onReject()
			}
			h := e.Response.Header()
			h.Set("Retry-After", strconv.Itoa(retryAfter))
			h.Set("X-RateLimit-Limit", strconv.Itoa(r.maxRequests))
			h.Set("X-RateLimit-Remaining", "0")
			return e.JSON(http.StatusTooManyRequests, map[string]string{
				"error":   "Too many requests",
				"message": fmt.Sprintf("Rate limit exceeded. Please try again after %d seconds.", retryAfter),
			})
		}

		h := e.Response.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(r.maxRequests))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(r.Remaining(key)))

		return e.Next()
	}
}
