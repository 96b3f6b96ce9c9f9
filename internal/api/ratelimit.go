package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientRateLimiter hands out one token bucket per client address.
type ClientRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientEntry
	r       rate.Limit
	b       int
	now     func() time.Time
}

// NewClientRateLimiter allows r requests per second per client with bursts
// of b. A non-positive r disables limiting.
func NewClientRateLimiter(r rate.Limit, b int) *ClientRateLimiter {
	if b <= 0 {
		b = 1
	}
	return &ClientRateLimiter{
		clients: make(map[string]*clientEntry),
		r:       r,
		b:       b,
		now:     time.Now,
	}
}

// GetLimiter returns the limiter for a client, creating it on first use.
func (l *ClientRateLimiter) GetLimiter(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, exists := l.clients[client]
	if !exists {
		e = &clientEntry{limiter: rate.NewLimiter(l.r, l.b)}
		l.clients[client] = e
	}
	e.lastSeen = l.now()
	return e.limiter
}

// Allow reports whether a request from client may proceed now.
func (l *ClientRateLimiter) Allow(client string) bool {
	if l.r <= 0 {
		return true
	}
	return l.GetLimiter(client).Allow()
}

// Prune forgets clients idle for longer than maxIdle and returns how many
// were dropped.
func (l *ClientRateLimiter) Prune(maxIdle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-maxIdle)
	dropped := 0
	for k, e := range l.clients {
		if e.lastSeen.Before(cutoff) {
			delete(l.clients, k)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of tracked clients.
func (l *ClientRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// clientAddr extracts the host part of the request's remote address.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
