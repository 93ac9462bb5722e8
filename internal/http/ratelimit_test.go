package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestRateLimiter(cfg RateLimitConfig) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(cfg)
	rl.now = clock.Now
	return rl, clock
}

func TestRateLimitConfig_Enabled(t *testing.T) {
	assert.False(t, RateLimitConfig{}.Enabled())
	assert.False(t, RateLimitConfig{RequestsPerSecond: -1}.Enabled())
	assert.True(t, RateLimitConfig{RequestsPerSecond: 0.5}.Enabled())
}

func TestRateLimiter_AllowsBurstThenBlocks(t *testing.T) {
	rl, _ := newTestRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 3})

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("10.0.0.1")
		assert.True(t, allowed, "request %d should be allowed", i)
	}

	allowed, retryAfter := rl.Allow("10.0.0.1")
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Second)
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	rl, clock := newTestRateLimiter(RateLimitConfig{RequestsPerSecond: 2, Burst: 1})

	allowed, _ := rl.Allow("10.0.0.1")
	require.True(t, allowed)
	allowed, _ = rl.Allow("10.0.0.1")
	require.False(t, allowed)

	clock.Advance(500 * time.Millisecond)

	allowed, _ = rl.Allow("10.0.0.1")
	assert.True(t, allowed)
}

func TestRateLimiter_RefusalDoesNotConsumeTokens(t *testing.T) {
	rl, clock := newTestRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1})

	allowed, _ := rl.Allow("10.0.0.1")
	require.True(t, allowed)

	// Hammering while blocked must not push the next token further out
	for i := 0; i < 5; i++ {
		allowed, _ = rl.Allow("10.0.0.1")
		require.False(t, allowed)
	}

	clock.Advance(time.Second)
	allowed, _ = rl.Allow("10.0.0.1")
	assert.True(t, allowed)
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	rl, _ := newTestRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1})

	allowed, _ := rl.Allow("10.0.0.1")
	require.True(t, allowed)
	allowed, _ = rl.Allow("10.0.0.1")
	require.False(t, allowed)

	allowed, _ = rl.Allow("10.0.0.2")
	assert.True(t, allowed)
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	rl, clock := newTestRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, IdleTimeout: time.Minute})

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.2")
	require.Len(t, rl.clients, 2)

	clock.Advance(2 * time.Minute)
	rl.Allow("10.0.0.3")

	assert.Len(t, rl.clients, 1)
	assert.Contains(t, rl.clients, "10.0.0.3")
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl, _ := newTestRateLimiter(RateLimitConfig{RequestsPerSecond: 0.5, Burst: 1})

	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/limited", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/limited", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/limited", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.Equal(t, CodeRateLimited, decodeError(t, w).Code)
}
