package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(5, time.Minute, clock, zap.NewNop())

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "attempt %d should pass", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(2, time.Minute, clock, zap.NewNop())

	assert.True(t, rl.Allow("k"))
	assert.True(t, rl.Allow("k"))
	assert.False(t, rl.Allow("k"))

	clock.Advance(61 * time.Second)
	assert.True(t, rl.Allow("k"), "old attempts fall out of the window")
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(1, time.Minute, clock, zap.NewNop())

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
}

func TestRateLimiter_EvictsIdleKeys(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(5, time.Minute, clock, zap.NewNop())

	assert.True(t, rl.Allow("idle"))
	assert.True(t, rl.Allow("busy"))

	clock.Advance(61 * time.Second)
	assert.True(t, rl.Allow("busy"))

	rl.mu.Lock()
	_, idleKept := rl.entries["idle"]
	_, busyKept := rl.entries["busy"]
	rl.mu.Unlock()
	assert.False(t, idleKept, "key with only aged-out attempts is dropped")
	assert.True(t, busyKept)
}

func TestRateLimiterMiddleware_Rejects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	clock := newFakeClock()
	rl := NewRateLimiter(1, time.Minute, clock, zap.NewNop())

	router := gin.New()
	router.POST("/messages", rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/messages", nil))
	assert.Equal(t, http.StatusCreated, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/messages", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestTimeWindowMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	clock := newFakeClock() // 12:00

	router := gin.New()
	router.POST("/messages", TimeWindowMiddleware(18, 21, clock), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	outside := httptest.NewRecorder()
	router.ServeHTTP(outside, httptest.NewRequest(http.MethodPost, "/messages", nil))
	assert.Equal(t, http.StatusForbidden, outside.Code)

	clock.Advance(7 * time.Hour) // 19:00
	inside := httptest.NewRecorder()
	router.ServeHTTP(inside, httptest.NewRequest(http.MethodPost, "/messages", nil))
	assert.Equal(t, http.StatusCreated, inside.Code)
}
