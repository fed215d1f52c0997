package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("prediction-league/internal/usecase")
var usecaseNoopSpan = trace.SpanFromContext(context.Background())

// startUsecaseSpan only opens a span under an existing trace; background work
// without a request parent stays untraced.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, usecaseNoopSpan
	}
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func roundAttr(roundID string) attribute.KeyValue {
	return attribute.String("round.id", strings.TrimSpace(roundID))
}

func leagueAttr(leagueID string) attribute.KeyValue {
	return attribute.String("league.id", strings.TrimSpace(leagueID))
}

func userAttr(userID string) attribute.KeyValue {
	return attribute.String("enduser.id", strings.TrimSpace(userID))
}

// spanFailed marks the span as errored and hands err back unchanged.
func spanFailed(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
