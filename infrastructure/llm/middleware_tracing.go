package llm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
)

// tracedProvider wraps backend invocations in OpenTelemetry spans. Only
// the otel API is used; without an SDK pipeline installed the spans are
// no-ops.
type tracedProvider struct {
	next   CoreProvider
	tracer trace.Tracer
}

// TracingMiddleware creates middleware that traces invocations under the
// given service name.
func TracingMiddleware(serviceName string) Middleware {
	tracer := otel.Tracer(serviceName)
	return func(next CoreProvider) CoreProvider {
		return &tracedProvider{next: next, tracer: tracer}
	}
}

// Converse executes the request within a span carrying the provider,
// model, and token usage attributes.
func (t *tracedProvider) Converse(ctx context.Context, req Request) (domain.CompletionResult, error) {
	ctx, span := t.tracer.Start(ctx, "llm.converse", trace.WithAttributes(
		attribute.String("llm.provider", t.next.Name()),
		attribute.String("llm.model", req.Model),
		attribute.Int("llm.turns", len(req.Turns)),
	))
	defer span.End()

	result, err := t.next.Converse(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	span.SetAttributes(
		attribute.Int("llm.tokens.input", result.Usage.InputTokens),
		attribute.Int("llm.tokens.output", result.Usage.OutputTokens),
		attribute.String("llm.stop_reason", result.StopReason),
	)
	return result, nil
}

// Name returns the backend name from the wrapped implementation.
func (t *tracedProvider) Name() string { return t.next.Name() }
