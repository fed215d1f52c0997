package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

const (
	headerRequestID  = "X-Request-ID"
	maxRequestIDLen  = 128
	httpServerSpanOp = "prediction-league-http"
)

// untracedPaths are probes and scrapes; they get neither spans nor access logs.
var untracedPaths = map[string]struct{}{
	"/healthz": {},
	"/health":  {},
	"/livez":   {},
	"/readyz":  {},
	"/metrics": {},
}

func shouldTraceRequest(path string) bool {
	_, skip := untracedPaths[strings.ToLower(strings.TrimSpace(path))]
	return !skip
}

// responseRecorder captures what the access log reports about a response.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *responseRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// requestID keeps a caller supplied id when it is sane, otherwise the trace
// id, otherwise a fresh UUID.
func requestID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(headerRequestID)); id != "" && len(id) <= maxRequestIDLen {
		return id
	}
	if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return uuid.NewString()
}

// RequestLogging assigns the request id, echoes it back and writes one access
// log line per request. 5xx responses log at error level, 4xx at warn.
func RequestLogging(logger *logging.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("httpapi")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequestLogging")
		defer span.End()

		meta := &requestMeta{requestID: requestID(r)}
		w.Header().Set(headerRequestID, meta.requestID)

		started := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(withRequestMeta(ctx, meta)))

		if !shouldTraceRequest(r.URL.Path) {
			return
		}
		args := []any{
			"request_id", meta.requestID,
			"method", r.Method,
			"route", meta.route,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(started).Milliseconds(),
		}
		if meta.userID != "" {
			args = append(args, "user_id", meta.userID)
		}
		switch {
		case rec.status >= http.StatusInternalServerError:
			logger.ErrorContext(ctx, "http request", args...)
		case rec.status >= http.StatusBadRequest:
			logger.WarnContext(ctx, "http request", args...)
		default:
			logger.InfoContext(ctx, "http request", args...)
		}
	})
}

// RequestTracing opens the server span. Span names use the method and raw
// path because the mux pattern is only known after routing.
func RequestTracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, httpServerSpanOp,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return shouldTraceRequest(r.URL.Path)
		}),
	)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.ErrorContext(ctx, "panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
			writeInternalError(ctx, w)
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
