// Package ratelimit provides a fixed-window in-memory rate limiter keyed by
// client identifier. Each Limiter instance owns an independent identifier
// map; instances for different use cases (submission, analytics, chat) never
// share state.
//
// The algorithm is deliberately fixed-window, not sliding-window: a client
// can spend its full limit at the end of one window and again at the start
// of the next. Callers that need stronger guarantees must switch algorithms
// explicitly rather than relying on this package tightening up.
package ratelimit

import (
	"sync"
	"time"
)

// Config holds the window parameters for one limiter instance.
type Config struct {
	Limit         int           // Max requests per window
	Window        time.Duration // Window size
	SweepInterval time.Duration // How often expired records are dropped; 0 means the default
}

const defaultSweepInterval = time.Minute

// Result reports the outcome of a single check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetTime time.Time
}

type record struct {
	count     int
	resetTime time.Time
}

// Limiter is a fixed-window counter over client identifiers.
// State lives for the process lifetime and resets on restart.
type Limiter struct {
	mu      sync.Mutex
	records map[string]*record
	limit   int
	window  time.Duration

	// now is swappable for tests.
	now func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a Limiter and starts its background sweep goroutine.
// Call Stop when the limiter is no longer needed.
func New(cfg Config) *Limiter {
	l := &Limiter{
		records: make(map[string]*record),
		limit:   cfg.Limit,
		window:  cfg.Window,
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	interval := cfg.SweepInterval
	if interval == 0 {
		interval = defaultSweepInterval
	}
	go l.sweepLoop(interval)

	return l
}

// Check records one request from the identifier and reports whether it is
// within the window's limit. The read-check-increment sequence is a single
// critical section so two concurrent requests cannot both slip past the
// limit.
func (l *Limiter) Check(identifier string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	rec, ok := l.records[identifier]
	if !ok || now.After(rec.resetTime) {
		rec = &record{count: 1, resetTime: now.Add(l.window)}
		l.records[identifier] = rec
		return Result{Allowed: true, Remaining: l.limit - 1, ResetTime: rec.resetTime}
	}

	if rec.count >= l.limit {
		return Result{Allowed: false, Remaining: 0, ResetTime: rec.resetTime}
	}

	rec.count++
	return Result{Allowed: true, Remaining: l.limit - rec.count, ResetTime: rec.resetTime}
}

// Stop halts the background sweep goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

// sweep drops all records whose window has passed, bounding memory.
func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, rec := range l.records {
		if now.After(rec.resetTime) {
			delete(l.records, key)
		}
	}
}

// size reports the number of live records. Test helper.
func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
