package httpapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserRateLimiter_PerUserBuckets(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewUserRateLimiter(1, 2)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("alice"))
	assert.True(t, limiter.Allow("alice"))
	assert.False(t, limiter.Allow("alice"))
	assert.True(t, limiter.Allow("bob"))

	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("alice"))
}

func TestUserRateLimiter_DropsIdleBuckets(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewUserRateLimiter(1, 1)
	limiter.now = func() time.Time { return now }

	limiter.Allow("alice")
	now = now.Add(limiter.idleTTL + time.Minute)
	limiter.Allow("bob")

	limiter.mu.Lock()
	_, kept := limiter.limiters["alice"]
	limiter.mu.Unlock()
	assert.False(t, kept)
}

func TestUserRateLimiter_DisabledAllowsEverything(t *testing.T) {
	t.Parallel()

	var nilLimiter *UserRateLimiter
	assert.True(t, nilLimiter.Allow("alice"))
	assert.True(t, NewUserRateLimiter(0, 1).Allow("alice"))
}
