package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestShouldTraceRequest(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/healthz", want: false},
		{path: " /healthz ", want: false},
		{path: "/READYZ", want: false},
		{path: "/metrics", want: false},
		{path: "/v1/rounds/r1", want: true},
		{path: "/v1/leagues", want: true},
		{path: "/", want: true},
	}
	for _, tt := range tests {
		if got := shouldTraceRequest(tt.path); got != tt.want {
			t.Fatalf("shouldTraceRequest(%q)=%v want=%v", tt.path, got, tt.want)
		}
	}
}

func TestRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/leagues", nil)
	req.Header.Set(headerRequestID, "req-123")
	assert.Equal(t, "req-123", requestID(req))

	req.Header.Set(headerRequestID, strings.Repeat("x", maxRequestIDLen+1))
	generated := requestID(req)
	assert.Len(t, generated, 36)
	assert.NotEqual(t, generated, requestID(req))
}

func observedLogger() (*logging.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logging.FromZap(zap.New(core)), logs
}

func TestRequestLogging_AccessLine(t *testing.T) {
	logger, logs := observedLogger()

	mux := http.NewServeMux()
	mux.Handle("GET /v1/rounds/{roundID}", RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, span := startHandlerSpan(r, "GetRound")
		defer span.End()
		writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"id": r.PathValue("roundID")})
	})))
	handler := RequestLogging(logger, mux)

	req := httptest.NewRequest(http.MethodGet, "/v1/rounds/r1", nil)
	req.Header.Set(headerUserID, "alice")
	req.Header.Set(headerRequestID, "req-abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-abc", rec.Header().Get(headerRequestID))

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "req-abc", fields["request_id"])
	assert.Equal(t, "alice", fields["user_id"])
	assert.Equal(t, "GET /v1/rounds/{roundID}", fields["route"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.EqualValues(t, rec.Body.Len(), fields["bytes"])
}

func TestRequestLogging_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   zapcore.Level
	}{
		{name: "client error", status: http.StatusConflict, want: zapcore.WarnLevel},
		{name: "server error", status: http.StatusServiceUnavailable, want: zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := observedLogger()
			handler := RequestLogging(logger, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/admin/rounds", nil))

			entries := logs.FilterMessage("http request").All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.want, entries[0].Level)
			_, hasUser := entries[0].ContextMap()["user_id"]
			assert.False(t, hasUser)
		})
	}
}

func TestRequestLogging_SkipsProbes(t *testing.T) {
	logger, logs := observedLogger()
	handler := RequestLogging(logger, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.NotEmpty(t, rec.Header().Get(headerRequestID))
	assert.Zero(t, logs.Len())
}
