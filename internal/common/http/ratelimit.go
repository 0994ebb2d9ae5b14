package http

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/AlibekovAA/user-api/internal/common/constants"
	"github.com/AlibekovAA/user-api/internal/common/httpmetrics"
	"github.com/AlibekovAA/user-api/internal/observability/metrics"
)

type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
	cleanup  *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		cleanup:  time.NewTicker(constants.RateLimitCleanupInterval),
		done:     make(chan struct{}),
	}

	go rl.cleanupLimiters()

	return rl
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		rl.cleanup.Stop()
		close(rl.done)
	})
}

func (rl *RateLimiter) cleanupLimiters() {
	for {
		select {
		case <-rl.done:
			return
		case <-rl.cleanup.C:
			rl.mu.Lock()
			for key, limiter := range rl.limiters {
				// a full bucket means the client has been idle
				if limiter.Tokens() >= float64(rl.burst) {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[key]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		limiter, exists = rl.limiters[key]
		if !exists {
			limiter = rate.NewLimiter(rl.rate, rl.burst)
			rl.limiters[key] = limiter
		}
		rl.mu.Unlock()
	}

	return limiter
}

func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// MethodRateLimiter applies a stricter limit to mutating requests than to reads.
type MethodRateLimiter struct {
	readLimiter  *RateLimiter
	writeLimiter *RateLimiter
	exempt       map[string]struct{}
	trustProxy   bool
}

func NewMethodRateLimiter(readRPS float64, readBurst int, writeRPS float64, writeBurst int, exemptPaths ...string) *MethodRateLimiter {
	exempt := make(map[string]struct{}, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt[p] = struct{}{}
	}
	return &MethodRateLimiter{
		readLimiter:  NewRateLimiter(readRPS, readBurst),
		writeLimiter: NewRateLimiter(writeRPS, writeBurst),
		exempt:       exempt,
	}
}

// TrustProxyHeaders makes the limiter key clients by X-Real-IP / X-Forwarded-For.
func (m *MethodRateLimiter) TrustProxyHeaders(trust bool) *MethodRateLimiter {
	m.trustProxy = trust
	return m
}

func (m *MethodRateLimiter) Stop() {
	m.readLimiter.Stop()
	m.writeLimiter.Stop()
}

func (m *MethodRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := m.exempt[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		limiter, limiterType := m.readLimiter, "read"
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			limiter, limiterType = m.writeLimiter, "write"
		}

		if !limiter.Allow(GetClientIP(r, m.trustProxy)) {
			metrics.RateLimitBlocked.WithLabelValues(httpmetrics.NormalizePath(r.URL.Path), limiterType).Inc()
			WriteErrorEnvelope(w, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded", nil, TraceIDFromContext(r.Context()))
			return
		}

		next.ServeHTTP(w, r)
	})
}
