package middleware

import (
	"testing"

	"github.com/google/uuid"
	"github.com/reviewly/backend/config"
)

func TestWriteLimiterLocalBurst(t *testing.T) {
	wl := NewWriteLimiter(config.APIConfig{RateLimitWritesPerSec: 1}, nil)
	userID := uuid.New()

	// burst is 2x the per-second rate
	for i := 0; i < 2; i++ {
		if !wl.allow(userID, "write") {
			t.Fatalf("request %d denied within burst", i+1)
		}
	}
	if wl.allow(userID, "write") {
		t.Error("request beyond burst allowed")
	}
}

func TestWriteLimiterIsPerUser(t *testing.T) {
	wl := NewWriteLimiter(config.APIConfig{RateLimitWritesPerSec: 1}, nil)

	first := uuid.New()
	for i := 0; i < 3; i++ {
		wl.allow(first, "write")
	}

	if !wl.allow(uuid.New(), "write") {
		t.Error("second user throttled by first user's budget")
	}
}
