// Package limiter keeps one token-bucket rate limiter per client key.
// The SSH server keys it by remote host, the HTTP API by client IP.
package limiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Set hands out a limiter per key, all sharing the same rate and burst.
type Set struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    time.Duration
	burst    int
}

// New returns a set allowing n events per interval for each key, with bursts of up to burst.
func New(n float64, interval time.Duration, burst int) *Set {
	if n <= 0 {
		n = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Set{
		limiters: make(map[string]*rate.Limiter),
		every:    time.Duration(float64(interval) / n),
		burst:    burst,
	}
}

// Get returns the limiter for key, creating it on first use.
func (s *Set) Get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lim, ok := s.limiters[key]; ok {
		return lim
	}
	lim := rate.NewLimiter(rate.Every(s.every), s.burst)
	s.limiters[key] = lim
	return lim
}

// Allow reports whether key may proceed now.
func (s *Set) Allow(key string) bool {
	return s.Get(key).Allow()
}

// Prune forgets keys whose bucket has refilled by now and reports how many were dropped.
// A dropped key starts again with a full bucket, so no pending limit is lost.
func (s *Set) Prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, lim := range s.limiters {
		if lim.TokensAt(now) >= float64(s.burst) {
			delete(s.limiters, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of keys currently tracked.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}
