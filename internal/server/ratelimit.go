package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/8wontae4/cost-calculation/pkg/constants"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientRateLimiter hands out one token bucket per client address. Clients
// idle for longer than idleTimeout are dropped on the next sweep.
type clientRateLimiter struct {
	logger      *zap.Logger
	clients     map[string]*client
	mu          sync.Mutex
	r           rate.Limit
	b           int
	idleTimeout time.Duration
	lastSweep   time.Time
	now         func() time.Time
}

func newClientRateLimiter(logger *zap.Logger, cfg RateLimitConfig) *clientRateLimiter {
	if cfg.RequestsPerSecond <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &clientRateLimiter{
		logger:      logger,
		clients:     make(map[string]*client),
		r:           rate.Limit(cfg.RequestsPerSecond),
		b:           burst,
		idleTimeout: constants.DefaultRateLimitIdleTimeout,
		lastSweep:   time.Now(),
		now:         time.Now,
	}
}

func (l *clientRateLimiter) limiter(addr string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTimeout {
		l.sweep(now)
	}

	c, exists := l.clients[addr]
	if !exists {
		c = &client{limiter: rate.NewLimiter(l.r, l.b)}
		l.clients[addr] = c
	}
	c.lastSeen = now
	return c.limiter
}

// sweep drops idle clients. Callers hold mu.
func (l *clientRateLimiter) sweep(now time.Time) {
	evicted := 0
	for addr, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.idleTimeout {
			delete(l.clients, addr)
			evicted++
		}
	}
	l.lastSweep = now
	if evicted > 0 {
		l.logger.Debug("evicted idle rate limit clients",
			zap.String("op", "server.rateLimitSweep"),
			zap.Int("evicted", evicted),
			zap.Int("remaining", len(l.clients)),
		)
	}
}

func (l *clientRateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Middleware rejects requests beyond the client's budget with 429. A nil
// limiter lets everything through.
func (l *clientRateLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr := clientAddress(r)
		if !l.limiter(addr).Allow() {
			l.logger.Warn("rate limit exceeded",
				zap.String("op", "server.rateLimit"),
				zap.String("client", addr),
				zap.String("path", r.URL.Path),
			)
			writeError(w, l.logger, http.StatusTooManyRequests, "too many requests, try again later", "server.rateLimit")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientAddress strips the port that RemoteAddr carries unless a proxy
// header already replaced it.
func clientAddress(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
