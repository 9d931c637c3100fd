package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "glasspane"

// StartStreamSpan starts a span covering one streamed assistant reply.
func StartStreamSpan(ctx context.Context, conversationID, tenantID, model string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "chat.stream",
		trace.WithAttributes(
			attribute.String("conversation.id", conversationID),
			attribute.String("tenant.id", tenantID),
			attribute.String("llm.model", model),
		),
	)
}

// StartPersistSpan starts a span for persisting a completed message.
func StartPersistSpan(ctx context.Context, conversationID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "chat.persist",
		trace.WithAttributes(
			attribute.String("conversation.id", conversationID),
		),
	)
}
