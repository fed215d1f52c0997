package httpapi

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/prediction-league/internal/usecase"
)

const (
	headerUserID     = "X-User-ID"
	headerAdminToken = "X-Admin-Token"
)

// RequireUser trusts the X-User-ID header set by the upstream gateway.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequireUser")
		defer span.End()

		userID := strings.TrimSpace(r.Header.Get(headerUserID))
		if userID == "" {
			writeError(ctx, w, fmt.Errorf("%w: missing %s header", usecase.ErrUnauthorized, headerUserID))
			return
		}
		next.ServeHTTP(w, r.WithContext(withUserID(ctx, userID)))
	})
}

// RequireAdminToken guards round and league administration. An empty token
// disables the admin surface instead of leaving it open.
func RequireAdminToken(token string, next http.Handler) http.Handler {
	want := []byte(strings.TrimSpace(token))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequireAdminToken")
		defer span.End()

		if len(want) == 0 {
			writeError(ctx, w, fmt.Errorf("%w: admin token is not configured", usecase.ErrDependencyUnavailable))
			return
		}
		got := []byte(strings.TrimSpace(r.Header.Get(headerAdminToken)))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			writeError(ctx, w, fmt.Errorf("%w: invalid admin token", usecase.ErrUnauthorized))
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
