package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var engineTracer = otel.Tracer("fpl-sub001/internal/usecase")
var engineNoopSpan = trace.SpanFromContext(context.Background())

// startUsecaseSpan only opens a child span when the caller already traces;
// background calls get the shared noop span.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, engineNoopSpan
	}
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, engineNoopSpan
	}
	return engineTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func markSpanOutcome(span trace.Span, outcome Outcome, reason string) {
	span.SetAttributes(attribute.String("engine.outcome", string(outcome)))
	switch outcome {
	case OutcomeFailed:
		span.SetStatus(codes.Error, reason)
	case OutcomeDegraded:
		span.SetAttributes(attribute.String("engine.degraded_reason", reason))
	}
}
