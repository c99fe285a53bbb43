// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// sweepThreshold is the bucket count past which an allow call also
// sweeps stale buckets out of the map.
const sweepThreshold = 1024

// LoginLimiter throttles the login form per client IP with a fixed
// window counter. Buckets reset on first use after their window ends;
// stale buckets are swept opportunistically, so there is no background
// goroutine to stop.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts int
	window   time.Duration
	buckets  map[string]*loginBucket

	// now is swappable in tests.
	now func() time.Time
}

type loginBucket struct {
	start time.Time
	count int
}

// NewLoginLimiter allows attempts login posts per IP per window.
func NewLoginLimiter(attempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		attempts: attempts,
		window:   window,
		buckets:  make(map[string]*loginBucket),
		now:      time.Now,
	}
}

// allow records one attempt for key and reports whether it fit the
// current window.
func (l *LoginLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	b := l.buckets[key]
	if b == nil || now.Sub(b.start) >= l.window {
		b = &loginBucket{start: now}
		l.buckets[key] = b
	}

	if len(l.buckets) > sweepThreshold {
		l.sweep(now)
	}

	b.count++
	return b.count <= l.attempts
}

// sweep drops buckets whose window has ended. Caller holds mu.
func (l *LoginLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.start) >= l.window {
			delete(l.buckets, key)
		}
	}
}

// Limit rejects over-budget clients with 429 before the login handler
// ever sees the credentials.
func (l *LoginLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(remoteIP(r)) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// remoteIP resolves the client address. The platform runs behind a
// single reverse proxy, so the leftmost X-Forwarded-For hop is the
// client when the header is present; otherwise RemoteAddr minus its
// port.
func remoteIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hop, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(hop)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
