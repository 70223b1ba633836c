// Package ports defines the capability interfaces that connect the
// gateway's orchestration engine to its infrastructure: the remote
// configuration service, the LLM provider backends, the storefront flag
// surface, and metrics collection. Implementations live under
// infrastructure/; the engine depends only on these interfaces.
package ports

import (
	"context"
	"time"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
)

// AIConfigService resolves named completion slots from the remote
// feature-flag/config service and flushes buffered telemetry.
type AIConfigService interface {
	// Completion resolves the configuration slot identified by key for
	// the given evaluation context, interpolating variables into the
	// slot's message template. It returns domain.ErrConfigUnavailable
	// (possibly wrapped) when the service cannot be reached; a resolved
	// configuration with Enabled=false is not an error at this layer.
	Completion(
		ctx context.Context,
		key string,
		ectx domain.EvaluationContext,
		variables map[string]any,
	) (*domain.AIConfig, error)

	// Judge resolves a judge configuration slot. Judge slots default to
	// disabled and receive the prompt/response pair under evaluation as
	// their input variables.
	Judge(
		ctx context.Context,
		key string,
		ectx domain.EvaluationContext,
		promptText, responseText string,
	) (*domain.AIConfig, error)

	// Flush triggers one best-effort delivery of buffered telemetry.
	// It never fails the caller.
	Flush()
}

// ProviderClient invokes a single LLM backend. Exactly one provider is
// active per deployment; all implementations normalize their wire formats
// into domain.CompletionResult so the engine stays provider-agnostic.
type ProviderClient interface {
	// Invoke sends one completion request. Empty completion text is
	// returned as an empty string, not an error; classification belongs
	// to the caller.
	Invoke(
		ctx context.Context,
		model string,
		system []string,
		turns []domain.Message,
	) (domain.CompletionResult, error)

	// Name identifies the backend family, e.g. "bedrock" or "openai".
	Name() string
}

// FlagSource is the collaborator surface the storefront UI consumes:
// flag reads with a default-value fallback and fire-and-forget event
// tracking. It is not part of the completion pipeline.
type FlagSource interface {
	// FlagValue evaluates a flag for the given context, returning
	// defaultValue on any failure.
	FlagValue(key string, ectx domain.EvaluationContext, defaultValue any) any

	// TrackEvent records a custom event with an optional numeric value.
	// Failures are logged and swallowed.
	TrackEvent(name string, ectx domain.EvaluationContext, payload map[string]any, value *float64)
}

// MetricsCollector abstracts operational metrics so infrastructure can
// plug in Prometheus or a test double.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordHistogram records one observation of a distribution.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
