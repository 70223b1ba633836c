package domain

import "context"

// MetricsTracker is the opaque handle attached to a resolved configuration
// that reports generation metrics and judged scores back to the
// configuration service. A nil tracker means the invocation runs without
// any reporting.
//
// Implementations must treat reporting as best-effort: a tracking failure
// is logged and swallowed, never surfaced through the returned error,
// which always belongs to the wrapped invocation itself.
type MetricsTracker interface {
	// TrackMetricsOf executes invoke and reports its duration, outcome,
	// and token usage as a side effect of the call.
	TrackMetricsOf(
		ctx context.Context,
		invoke func(context.Context) (CompletionResult, error),
	) (CompletionResult, error)

	// TrackJudgeVerdict reports a judged score for the configuration
	// instance this tracker belongs to.
	TrackJudgeVerdict(ctx context.Context, verdict JudgeVerdict) error
}

// AIConfig is the configuration resolved for a named completion slot.
// It is fetched once per request, never cached across requests, and never
// mutated after resolution.
type AIConfig struct {
	// Enabled reports whether the slot is turned on for the evaluation
	// context it was resolved against.
	Enabled bool

	// Model is the backend-specific model identifier. May be empty, which
	// the pipeline surfaces as a distinct model-unavailable state.
	Model string

	// ProviderName is an optional hint naming the backend family the
	// configuration targets. The active deployment provider wins; the
	// hint exists for logging and diagnostics.
	ProviderName string

	// Messages is the slot's interpolated message template, possibly
	// empty.
	Messages []Message

	// Tracker reports metrics for this specific configuration instance.
	// Nil when the resolved variation carried no tracking metadata.
	Tracker MetricsTracker
}
