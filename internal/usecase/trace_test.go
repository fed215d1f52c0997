package usecase

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartUsecaseSpan_NoParentIsNoop(t *testing.T) {
	ctx := context.Background()
	got, span := startUsecaseSpan(ctx, "usecase.RoundService.Publish", roundAttr("r1"))
	defer span.End()

	assert.Equal(t, ctx, got)
	assert.False(t, span.SpanContext().IsValid())
}

func TestStartUsecaseSpan_RecordsAttributesAndErrors(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	otel.SetTracerProvider(tp)

	ctx, parent := tp.Tracer("test").Start(context.Background(), "parent")
	_, span := startUsecaseSpan(ctx, "usecase.BoostService.Apply", userAttr(" alice "), leagueAttr("office-cup"))
	err := spanFailed(span, errors.New("usage conflict"))
	span.End()
	parent.End()

	require.EqualError(t, err, "usage conflict")
	require.NoError(t, spanFailed(span, nil))

	var applied sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		if s.Name() == "usecase.BoostService.Apply" {
			applied = s
		}
	}
	require.NotNil(t, applied)
	assert.Equal(t, codes.Error, applied.Status().Code)
	assert.Contains(t, applied.Attributes(), attribute.String("enduser.id", "alice"))
	assert.Contains(t, applied.Attributes(), attribute.String("league.id", "office-cup"))
	assert.Equal(t, parent.SpanContext().SpanID(), applied.Parent().SpanID())
}
