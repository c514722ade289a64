package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter tracks recent write timestamps per key in an explicit
// state table. No module-level state; every instance owns its map and
// its clock.
type RateLimiter struct {
	mu        sync.Mutex
	entries   map[string][]time.Time
	limit     int
	window    time.Duration
	clock     Clock
	logger    *zap.SugaredLogger
	lastSweep time.Time
}

func NewRateLimiter(limit int, window time.Duration, clock Clock, logger *zap.Logger) *RateLimiter {
	if clock == nil {
		clock = RealClock
	}
	return &RateLimiter{
		entries: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		clock:   clock,
		logger:  logger.Sugar(),
	}
}

// Allow records an attempt for key and reports whether it is within the
// limit. Timestamps older than the window are pruned on each call, and at
// most once per window the whole table is swept so idle keys do not
// accumulate.
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.clock.Now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) >= rl.window {
		rl.sweep(cutoff)
		rl.lastSweep = now
	}

	recent := rl.entries[key][:0]
	for _, t := range rl.entries[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= rl.limit {
		rl.entries[key] = recent
		return false
	}

	rl.entries[key] = append(recent, now)
	return true
}

// sweep drops every key whose recorded attempts have all aged out.
func (rl *RateLimiter) sweep(cutoff time.Time) {
	for key, attempts := range rl.entries {
		live := false
		for _, t := range attempts {
			if t.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(rl.entries, key)
		}
	}
}

// Middleware limits mutating requests per client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			rl.logger.Warnw("Rate limit exceeded", "client_ip", c.ClientIP(), "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "message rate limit exceeded, try again later",
			})
			return
		}
		c.Next()
	}
}
