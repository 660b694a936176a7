package ratelimit

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// DefaultMaxKeys bounds the number of tracked clients when none is configured.
const DefaultMaxKeys = 10000

// Limiter keeps one token bucket per key. The least recently seen key is
// evicted once maxKeys buckets exist; an evicted client starts over with a
// full bucket.
type Limiter struct {
	mu      sync.Mutex
	buckets *lru.Cache[string, *rate.Limiter]
}

func NewLimiter(maxKeys int) (*Limiter, error) {
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}
	buckets, err := lru.New[string, *rate.Limiter](maxKeys)
	if err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return &Limiter{buckets: buckets}, nil
}

// Allow returns true if the request is allowed, false if rate limited.
// An empty key or a non-positive rps/burst disables limiting.
func (l *Limiter) Allow(key string, rps float64, burst int, now time.Time) bool {
	if key == "" {
		return true
	}
	if rps <= 0 || burst <= 0 {
		return true
	}

	l.mu.Lock()
	b, ok := l.buckets.Get(key)
	if !ok {
		b = rate.NewLimiter(rate.Limit(rps), burst)
		l.buckets.Add(key, b)
	}
	l.mu.Unlock()

	if b.Limit() != rate.Limit(rps) {
		b.SetLimitAt(now, rate.Limit(rps))
	}
	if b.Burst() != burst {
		b.SetBurstAt(now, burst)
	}

	return b.AllowN(now, 1)
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	return l.buckets.Len()
}
