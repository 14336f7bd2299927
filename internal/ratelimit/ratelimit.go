// Package ratelimit throttles outbound provider requests.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a minimum interval between requests per provider key.
// Each key gets its own lock and timestamp, so unrelated providers never
// block each other. Calls for the same key serialize while one of them is
// waiting out the interval.
type Limiter struct {
	defaultInterval time.Duration

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu       sync.Mutex
	last     time.Time
	interval time.Duration
}

// New creates a limiter with a default minimum interval for unregistered keys.
func New(defaultInterval time.Duration) *Limiter {
	return &Limiter{
		defaultInterval: defaultInterval,
		entries:         make(map[string]*entry),
	}
}

// Register sets a per-key interval override. Zero or negative falls back to
// the default.
func (l *Limiter) Register(key string, interval time.Duration) {
	if interval <= 0 {
		interval = l.defaultInterval
	}
	e := l.entry(key)
	e.mu.Lock()
	e.interval = interval
	e.mu.Unlock()
}

// Wait blocks until at least the configured interval has elapsed since the
// last permitted call for key, then records the new timestamp. The only error
// condition is context cancellation; in that case the timestamp is left
// untouched.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	e := l.entry(key)

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.last.IsZero() {
		if remaining := e.interval - time.Since(e.last); remaining > 0 {
			timer := time.NewTimer(remaining)
			defer timer.Stop()

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	e.last = time.Now()
	return nil
}

func (l *Limiter) entry(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{interval: l.defaultInterval}
		l.entries[key] = e
	}
	return e
}
