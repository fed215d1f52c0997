package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		wantStatus  int
		wantAllow   string
		wantVary    bool
		wantHandled bool
	}{
		{
			name:        "configured origin",
			allowed:     []string{"https://prediction-league.example.com/"},
			method:      http.MethodGet,
			origin:      "https://prediction-league.example.com",
			wantStatus:  http.StatusOK,
			wantAllow:   "https://prediction-league.example.com",
			wantVary:    true,
			wantHandled: true,
		},
		{
			name:        "wildcard preflight",
			allowed:     []string{"*"},
			method:      http.MethodOptions,
			origin:      "https://prediction-league.example.com",
			wantStatus:  http.StatusNoContent,
			wantAllow:   "*",
			wantHandled: false,
		},
		{
			name:        "unknown origin",
			allowed:     []string{"https://allowed.example.com"},
			method:      http.MethodGet,
			origin:      "https://not-allowed.example.com",
			wantStatus:  http.StatusOK,
			wantHandled: true,
		},
		{
			name:        "preflight from unknown origin",
			allowed:     []string{"https://allowed.example.com"},
			method:      http.MethodOptions,
			origin:      "https://not-allowed.example.com",
			wantStatus:  http.StatusNoContent,
			wantHandled: false,
		},
		{
			name:        "options without origin reaches handler",
			allowed:     []string{"*"},
			method:      http.MethodOptions,
			wantStatus:  http.StatusOK,
			wantHandled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handled := false
			handler := CORS(tt.allowed, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handled = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, "/v1/leagues", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status=%d want=%d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Fatalf("Access-Control-Allow-Origin=%q want=%q", got, tt.wantAllow)
			}
			if got := rec.Header().Get("Vary") == "Origin"; got != tt.wantVary {
				t.Fatalf("Vary Origin=%v want=%v", got, tt.wantVary)
			}
			if handled != tt.wantHandled {
				t.Fatalf("handled=%v want=%v", handled, tt.wantHandled)
			}
		})
	}
}

func TestRequireUser(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = userIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireUser(next)

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues", nil)
	req.Header.Set(headerUserID, "  alice ")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || seen != "alice" {
		t.Fatalf("expected alice with 200, got %q with %d", seen, rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leagues", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireAdminToken_Unconfigured(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAdminToken("", next)

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/rounds", nil)
	req.Header.Set(headerAdminToken, "anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
}

func TestRecoverPanic(t *testing.T) {
	handler := recoverPanic(nil, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leagues", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
}
