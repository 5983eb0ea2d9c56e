package classify

import (
	"sync"
	"time"
)

// TokenBucket limits calls to the secondary analyzer. Refill is computed
// lazily from elapsed time on each Allow.
type TokenBucket struct {
	mu         sync.Mutex
	capacity   float64
	tokens     float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

// NewTokenBucket builds a bucket that allows ratePerHour calls sustained.
func NewTokenBucket(ratePerHour int) *TokenBucket {
	return &TokenBucket{
		capacity:   float64(ratePerHour),
		tokens:     float64(ratePerHour),
		refillRate: float64(ratePerHour) / 3600.0,
		lastRefill: time.Now(),
	}
}

func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	if elapsed > 0 {
		tb.tokens += elapsed * tb.refillRate
		if tb.tokens > tb.capacity {
			tb.tokens = tb.capacity
		}
		tb.lastRefill = now
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}
