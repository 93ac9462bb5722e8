package http

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig contains configuration for the per-client limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64       // Sustained rate per client; <= 0 disables limiting
	Burst             int           // Requests allowed at once (default: 1)
	IdleTimeout       time.Duration // Forget clients idle this long (default: 10m)
}

// Enabled reports whether limiting should be installed at all.
func (c RateLimitConfig) Enabled() bool {
	return c.RequestsPerSecond > 0
}

// RateLimiter throttles conversion requests per client IP with a token bucket.
// Idle clients are swept lazily on access, so no background goroutine is needed.
type RateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*clientLimiter
	limit       rate.Limit
	burst       int
	idleTimeout time.Duration
	lastSweep   time.Time
	now         func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter with the given configuration.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 10 * time.Minute
	}

	return &RateLimiter{
		clients:     make(map[string]*clientLimiter),
		limit:       rate.Limit(cfg.RequestsPerSecond),
		burst:       cfg.Burst,
		idleTimeout: cfg.IdleTimeout,
		now:         time.Now,
	}
}

// Allow consumes a token for key. When it is refused, retryAfter is how long
// until the next token becomes available.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	client, ok := rl.clients[key]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = client
	}
	client.lastSeen = now

	reservation := client.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, rl.idleTimeout
	}
	delay := reservation.DelayFrom(now)
	if delay > 0 {
		// Give the token back; a refused request must not push the window out.
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.idleTimeout {
		return
	}
	for key, client := range rl.clients {
		if now.Sub(client.lastSeen) >= rl.idleTimeout {
			delete(rl.clients, key)
		}
	}
	rl.lastSweep = now
}

// Middleware rejects over-limit requests with 429 and a Retry-After header.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := rl.Allow(c.ClientIP())
		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "rate limit exceeded, try again later",
				Code:  CodeRateLimited,
			})
			return
		}
		c.Next()
	}
}
