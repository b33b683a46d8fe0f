package middleware

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/reviewly/backend/config"
	"github.com/reviewly/backend/internal/cache"
)

// WriteLimiter throttles write endpoints per user. When redis is
// available the token bucket lives there, so one budget holds across
// instances; without redis each instance falls back to an in-process
// limiter with the same rate.
type WriteLimiter struct {
	redis *cache.RedisClient

	mu    sync.Mutex
	local map[uuid.UUID]*rate.Limiter
	rate  rate.Limit
	burst int
}

// NewWriteLimiter builds a limiter from the API config. redis may be nil.
func NewWriteLimiter(cfg config.APIConfig, redis *cache.RedisClient) *WriteLimiter {
	wl := &WriteLimiter{
		redis: redis,
		local: make(map[uuid.UUID]*rate.Limiter),
		rate:  rate.Limit(cfg.RateLimitWritesPerSec),
		burst: cfg.RateLimitWritesPerSec * 2,
	}
	go wl.janitor()
	return wl
}

// janitor caps the local limiter map so idle users do not accumulate
func (wl *WriteLimiter) janitor() {
	for range time.Tick(5 * time.Minute) {
		wl.mu.Lock()
		if len(wl.local) > 10000 {
			wl.local = make(map[uuid.UUID]*rate.Limiter)
		}
		wl.mu.Unlock()
	}
}

func (wl *WriteLimiter) allowLocal(userID uuid.UUID) bool {
	wl.mu.Lock()
	limiter, exists := wl.local[userID]
	if !exists {
		limiter = rate.NewLimiter(wl.rate, wl.burst)
		wl.local[userID] = limiter
	}
	wl.mu.Unlock()

	return limiter.Allow()
}

func (wl *WriteLimiter) allow(userID uuid.UUID, action string) bool {
	if wl.redis != nil {
		allowed, err := wl.redis.AllowAction(userID, action, int(wl.rate), wl.burst)
		if err == nil {
			return allowed
		}
		log.Printf("Falling back to local rate limiter: %v", err)
	}
	return wl.allowLocal(userID)
}

// Limit throttles the named action for the authenticated user.
// Anonymous requests pass through; write routes sit behind
// authentication anyway.
func (wl *WriteLimiter) Limit(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)
		if userID == uuid.Nil {
			c.Next()
			return
		}

		if !wl.allow(userID, action) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}
