package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("prediction-league/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

// routeParams maps path wildcards to the span attributes they become.
var routeParams = []struct {
	param string
	key   attribute.Key
}{
	{param: "leagueID", key: "league.id"},
	{param: "roundID", key: "round.id"},
	{param: "matchID", key: "match.id"},
	{param: "code", key: "boost.code"},
}

// startHandlerSpan opens "httpapi.Handler.<method>" tagged with the route ids
// and the calling user. It also hands the matched mux pattern to the access
// log.
func startHandlerSpan(r *http.Request, method string) (context.Context, trace.Span) {
	ctx := r.Context()
	if meta := requestMetaFromContext(ctx); meta != nil {
		meta.route = r.Pattern
	}
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		// Filtered routes such as /healthz carry no parent span.
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, "httpapi.Handler."+method, trace.WithAttributes(requestAttributes(r)...))
}

// startSpan is for middleware and response helpers; only handler names open
// a real span.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, noopSpan
	}
	if !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name)
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}

func requestAttributes(r *http.Request) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(routeParams)+1)
	for _, p := range routeParams {
		if v := strings.TrimSpace(r.PathValue(p.param)); v != "" {
			attrs = append(attrs, p.key.String(v))
		}
	}
	if userID, ok := userIDFromContext(r.Context()); ok {
		attrs = append(attrs, attribute.String("enduser.id", userID))
	}
	return attrs
}
