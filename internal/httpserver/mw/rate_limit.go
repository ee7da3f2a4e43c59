package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/startpage/internal/utils"
)

// RateLimitConfig configures a per-client token bucket.
type RateLimitConfig struct {
	Burst             int
	RefillPerIPPerMin int
	// MaxEntries forces an early sweep once that many clients are tracked.
	MaxEntries    int
	SweepInterval time.Duration
	IdleTTL       time.Duration
	TrustProxy    bool
}

func (c RateLimitConfig) withDefaults() RateLimitConfig {
	if c.Burst < 1 {
		c.Burst = 1
	}
	if c.RefillPerIPPerMin < 1 {
		c.RefillPerIPPerMin = 1
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 15 * time.Minute
	}
	return c
}

type bucket struct {
	tokens float64
	last   time.Time
}

// RateLimiter hands out tokens per client IP.
type RateLimiter struct {
	cfg       RateLimitConfig
	perSecond float64

	mu        sync.Mutex
	buckets   map[string]bucket
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	cfg = cfg.withDefaults()
	return &RateLimiter{
		cfg:       cfg,
		perSecond: float64(cfg.RefillPerIPPerMin) / 60,
		buckets:   make(map[string]bucket),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Take consumes one token for key. When the bucket is empty it reports how
// long the client should wait.
func (l *RateLimiter) Take(key string) (ok bool, remaining int, retryAfter time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.cfg.SweepInterval ||
		(l.cfg.MaxEntries > 0 && len(l.buckets) >= l.cfg.MaxEntries) {
		l.sweepLocked(now)
	}

	capacity := float64(l.cfg.Burst)
	b, seen := l.buckets[key]
	if !seen {
		b = bucket{tokens: capacity, last: now}
	} else if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = math.Min(capacity, b.tokens+elapsed*l.perSecond)
		b.last = now
	}

	if b.tokens < 1 {
		l.buckets[key] = b
		wait := math.Max(1, math.Ceil((1-b.tokens)/l.perSecond))
		return false, 0, time.Duration(wait) * time.Second
	}
	b.tokens--
	l.buckets[key] = b
	return true, int(b.tokens), 0
}

// Len reports how many clients are tracked.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *RateLimiter) sweepLocked(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.last) > l.cfg.IdleTTL {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

// Handler rejects clients over their budget with 429 and a JSON body.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	limit := strconv.Itoa(l.cfg.Burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, remaining, retry := l.Take(utils.ClientIP(r, l.cfg.TrustProxy))

		h := w.Header()
		h.Set("X-RateLimit-Limit", limit)
		h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			h.Set("Retry-After", strconv.Itoa(int(retry/time.Second)))
			h.Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate_limited","description":"too many requests"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit is shorthand for NewRateLimiter(cfg).Handler.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return NewRateLimiter(cfg).Handler
}
