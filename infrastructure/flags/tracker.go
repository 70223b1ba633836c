package flags

import (
	"context"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"go.uber.org/zap"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
)

// Metric event names understood by the configuration service's AI config
// monitoring surface.
const (
	eventDurationTotal     = "$ld:ai:duration:total"
	eventGeneration        = "$ld:ai:generation"
	eventGenerationSuccess = "$ld:ai:generation:success"
	eventGenerationError   = "$ld:ai:generation:error"
	eventTokensInput       = "$ld:ai:tokens:input"
	eventTokensOutput      = "$ld:ai:tokens:output"
	eventTokensTotal       = "$ld:ai:tokens:total"
)

// Tracker reports generation metrics for one resolved configuration
// instance. It is created per resolution and carries the variation
// identity every event is attributed to.
//
// All reporting is best-effort: a tracking failure is logged and
// swallowed, never surfaced to the invocation's caller.
type Tracker struct {
	client       LDClient
	logger       *zap.Logger
	configKey    string
	variationKey string
	version      int
	context      ldcontext.Context
}

var _ domain.MetricsTracker = (*Tracker)(nil)

// TrackMetricsOf executes invoke and reports its duration, outcome, and
// token usage to the configuration service. The invocation's result and
// error pass through unchanged.
func (t *Tracker) TrackMetricsOf(
	ctx context.Context,
	invoke func(context.Context) (domain.CompletionResult, error),
) (domain.CompletionResult, error) {
	start := time.Now()
	result, err := invoke(ctx)
	duration := time.Since(start)

	t.emit(eventDurationTotal, float64(duration.Milliseconds()))
	t.emit(eventGeneration, 1)

	if err != nil {
		t.emit(eventGenerationError, 1)
		return result, err
	}

	t.emit(eventGenerationSuccess, 1)
	if !result.Usage.IsZero() {
		t.emit(eventTokensInput, float64(result.Usage.InputTokens))
		t.emit(eventTokensOutput, float64(result.Usage.OutputTokens))
		t.emit(eventTokensTotal, float64(result.Usage.TotalTokens))
	}
	return result, err
}

// TrackJudgeVerdict reports a judged score under the verdict's metric key.
func (t *Tracker) TrackJudgeVerdict(_ context.Context, verdict domain.JudgeVerdict) error {
	data := ldvalue.ObjectBuild().
		SetString("configKey", t.configKey).
		SetString("variationKey", t.variationKey).
		SetInt("version", t.version).
		SetString("reasoning", verdict.Reasoning).
		Build()

	if err := t.client.TrackMetric(verdict.MetricKey, t.context, verdict.Score, data); err != nil {
		t.logger.Warn("judge verdict tracking failed",
			zap.String("metric_key", verdict.MetricKey),
			zap.Error(err))
		return err
	}
	return nil
}

// emit sends one metric event attributed to this tracker's variation.
func (t *Tracker) emit(event string, value float64) {
	data := ldvalue.ObjectBuild().
		SetString("configKey", t.configKey).
		SetString("variationKey", t.variationKey).
		SetInt("version", t.version).
		Build()

	if err := t.client.TrackMetric(event, t.context, value, data); err != nil {
		t.logger.Warn("metric tracking failed",
			zap.String("event", event),
			zap.Error(err))
	}
}
