package flags

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"go.uber.org/zap"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
	"github.com/launchpad-demo/ai-gateway/internal/ports"
)

// Facade is the collaborator surface the storefront UI consumes: flag
// reads with a default-value fallback and fire-and-forget event tracking.
type Facade struct {
	client LDClient
	logger *zap.Logger
}

var _ ports.FlagSource = (*Facade)(nil)

// NewFacade creates the storefront flag surface over an established
// LaunchDarkly client.
func NewFacade(client LDClient, logger *zap.Logger) *Facade {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Facade{client: client, logger: logger}
}

// FlagValue evaluates a flag for the given context. Any failure, including
// an unreachable service, degrades to the supplied default.
func (f *Facade) FlagValue(key string, ectx domain.EvaluationContext, defaultValue any) any {
	if f.client == nil || !f.client.Initialized() {
		return defaultValue
	}

	value, err := f.client.JSONVariation(key, buildLDContext(ectx), ldvalue.CopyArbitraryValue(defaultValue))
	if err != nil {
		f.logger.Debug("flag evaluation fell back to default",
			zap.String("key", key),
			zap.Error(err))
	}
	return value.AsArbitraryValue()
}

// TrackEvent records a custom event, with a metric value when one is
// supplied. Failures are logged and swallowed.
func (f *Facade) TrackEvent(name string, ectx domain.EvaluationContext, payload map[string]any, value *float64) {
	if f.client == nil {
		return
	}

	ldCtx := buildLDContext(ectx)
	data := ldvalue.Null()
	if payload != nil {
		data = ldvalue.CopyArbitraryValue(payload)
	}

	var err error
	if value != nil {
		err = f.client.TrackMetric(name, ldCtx, *value, data)
	} else {
		err = f.client.TrackData(name, ldCtx, data)
	}
	if err != nil {
		f.logger.Warn("event tracking failed",
			zap.String("event", name),
			zap.Error(err))
	}
}
