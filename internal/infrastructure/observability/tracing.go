package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "jan-server/agent-gateway"

// GetTracer returns the tracer for the agent gateway.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// ThreadAttributes returns common attributes for thread spans.
func ThreadAttributes(threadID, userID, status string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("thread.id", threadID),
		attribute.String("thread.user_id", userID),
		attribute.String("thread.status", status),
	}
}

// StartStreamSpan starts a new span for a chat relay.
func StartStreamSpan(ctx context.Context, threadID, userID string) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "chat.stream",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("thread.id", threadID),
			attribute.String("thread.user_id", userID),
		),
	)
	return ctx, span
}

// StartArtifactSpan starts a new span for artifact file operations.
func StartArtifactSpan(ctx context.Context, operation, artifactID string) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "artifact."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("artifact.id", artifactID),
		),
	)
	return ctx, span
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddStatusTransition adds a status transition event to a span.
func AddStatusTransition(span trace.Span, fromStatus, toStatus string) {
	span.AddEvent("status.transition",
		trace.WithAttributes(
			attribute.String("status.from", fromStatus),
			attribute.String("status.to", toStatus),
		),
	)
}
