package httpapi

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// UserRateLimiter hands out one token bucket per user. Idle buckets are
// dropped on access once they have been unused for idleTTL.
type UserRateLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.Mutex
	limiters map[string]*userLimiter
	swept    time.Time
}

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewUserRateLimiter(perSecond float64, burst int) *UserRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &UserRateLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		idleTTL:  10 * time.Minute,
		now:      time.Now,
		limiters: make(map[string]*userLimiter),
	}
}

func (l *UserRateLimiter) Allow(userID string) bool {
	if l == nil || l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.swept) > l.idleTTL {
		for key, entry := range l.limiters {
			if now.Sub(entry.lastSeen) > l.idleTTL {
				delete(l.limiters, key)
			}
		}
		l.swept = now
	}

	entry, ok := l.limiters[userID]
	if !ok {
		entry = &userLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[userID] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// RateLimitByUser must run inside RequireUser.
func RateLimitByUser(limiter *UserRateLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RateLimitByUser")
		defer span.End()

		userID, _ := userIDFromContext(ctx)
		if !limiter.Allow(userID) {
			w.Header().Set("Retry-After", "1")
			writeError(ctx, w, fmt.Errorf("%w: user=%s", errRateLimited, userID))
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
