package ingest

import (
	"sync"
	"time"
)

// rateLimiter enforces a minimum spacing between successive upstream calls.
// Detail fetches within a category are effectively sequential because every
// call funnels through Wait.
type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	delay    time.Duration
}

func newRateLimiter(delay time.Duration) *rateLimiter {
	return &rateLimiter{delay: delay}
}

// Wait blocks until at least the configured delay has passed since the
// previous call.
func (r *rateLimiter) Wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.delay <= 0 {
		return
	}
	elapsed := time.Since(r.lastCall)
	if elapsed < r.delay {
		time.Sleep(r.delay - elapsed)
	}
	r.lastCall = time.Now()
}
