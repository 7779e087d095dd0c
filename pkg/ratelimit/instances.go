package ratelimit

import (
	"net/http"
	"strings"
	"time"
)

// Limiters bundles the pre-configured limiter instances used across the API.
// Each instance owns independent state; there is no cross-instance sharing.
type Limiters struct {
	Strict    *Limiter // sensitive operations (resume tracking)
	Standard  *Limiter // general API calls (feedback submission)
	Relaxed   *Limiter // public data reads
	Chat      *Limiter // AI chat
	Analytics *Limiter // high-volume page view tracking
}

// InstanceConfig holds the per-instance limits sharing one window size.
type InstanceConfig struct {
	Window    time.Duration
	Strict    int
	Standard  int
	Relaxed   int
	Chat      int
	Analytics int
}

// NewLimiters creates the standard set of limiter instances.
func NewLimiters(cfg InstanceConfig) *Limiters {
	return &Limiters{
		Strict:    New(Config{Limit: cfg.Strict, Window: cfg.Window}),
		Standard:  New(Config{Limit: cfg.Standard, Window: cfg.Window}),
		Relaxed:   New(Config{Limit: cfg.Relaxed, Window: cfg.Window}),
		Chat:      New(Config{Limit: cfg.Chat, Window: cfg.Window}),
		Analytics: New(Config{Limit: cfg.Analytics, Window: cfg.Window}),
	}
}

// Stop halts every limiter's sweep goroutine.
func (l *Limiters) Stop() {
	l.Strict.Stop()
	l.Standard.Stop()
	l.Relaxed.Stop()
	l.Chat.Stop()
	l.Analytics.Stop()
}

// ClientIP extracts the best-effort client IP from proxy headers, falling
// back to "unknown" so limiter keys are always non-empty.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := r.Header.Get("X-Real-Ip"); realIP != "" {
		return realIP
	}
	return "unknown"
}
