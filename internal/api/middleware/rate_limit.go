package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const defaultLimiterMaxAge = 10 * time.Minute

// RateLimiter mantém um token bucket por IP de origem; entradas paradas expiram após maxAge.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	maxAge   time.Duration
	now      func() time.Time
}

type limiterEntry struct {
	limiter *rate.Limiter
	updated time.Time
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		maxAge:   defaultLimiterMaxAge,
		now:      time.Now,
	}
}

func (r *RateLimiter) limiter(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if entry, ok := r.limiters[key]; ok {
		entry.updated = now
		return entry.limiter
	}

	l := rate.NewLimiter(r.limit, r.burst)
	r.limiters[key] = &limiterEntry{limiter: l, updated: now}
	for k, entry := range r.limiters {
		if now.Sub(entry.updated) > r.maxAge {
			delete(r.limiters, k)
		}
	}
	return l
}

func (r *RateLimiter) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}

func (r *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "muitas tentativas, aguarde"})
			return
		}
		c.Next()
	}
}
