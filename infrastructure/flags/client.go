// Package flags implements the gateway's remote-configuration surface on
// LaunchDarkly: resolution of AI configuration slots, generation metric
// tracking, and the flag-read/event-track facade the storefront consumes.
package flags

import (
	"errors"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	ld "github.com/launchdarkly/go-server-sdk/v7"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
)

// ErrMissingSDKKey indicates the configuration service was selected
// without an SDK key.
var ErrMissingSDKKey = errors.New("LaunchDarkly SDK key is required")

// DefaultInitWait bounds how long client construction blocks waiting for
// the initial flag payload.
const DefaultInitWait = 5 * time.Second

// LDClient is the narrow surface of the LaunchDarkly SDK client the
// gateway uses. *ld.LDClient satisfies it; tests substitute a fake.
type LDClient interface {
	Initialized() bool
	JSONVariation(key string, context ldcontext.Context, defaultVal ldvalue.Value) (ldvalue.Value, error)
	BoolVariation(key string, context ldcontext.Context, defaultVal bool) (bool, error)
	TrackMetric(eventName string, context ldcontext.Context, metricValue float64, data ldvalue.Value) error
	TrackData(eventName string, context ldcontext.Context, data ldvalue.Value) error
	Flush()
}

var _ LDClient = (*ld.LDClient)(nil)

// NewLDClient connects to LaunchDarkly, waiting up to waitFor for the
// initial flag payload. A client that times out waiting is still returned;
// it reports uninitialized until the connection recovers.
func NewLDClient(sdkKey string, waitFor time.Duration) (*ld.LDClient, error) {
	if sdkKey == "" {
		return nil, ErrMissingSDKKey
	}
	if waitFor <= 0 {
		waitFor = DefaultInitWait
	}
	return ld.MakeClient(sdkKey, waitFor)
}

// buildLDContext converts an evaluation context into the SDK's context
// shape, mapping well-known fields onto builder calls and everything else
// onto arbitrary attributes.
func buildLDContext(ec domain.EvaluationContext) ldcontext.Context {
	key := ec.Key
	if key == "" {
		key = domain.DefaultContextKey
	}

	builder := ldcontext.NewBuilder(key)
	if ec.Anonymous {
		builder.Anonymous(true)
	}
	if ec.Name != "" {
		builder.Name(ec.Name)
	}
	for attr, value := range map[string]string{
		"state":    ec.State,
		"region":   ec.Region,
		"plan":     ec.Plan,
		"device":   ec.Device,
		"platform": ec.Platform,
	} {
		if value != "" {
			builder.SetString(attr, value)
		}
	}
	if len(ec.OwnedPlatforms) > 0 {
		platforms := make([]ldvalue.Value, len(ec.OwnedPlatforms))
		for i, p := range ec.OwnedPlatforms {
			platforms[i] = ldvalue.String(p)
		}
		builder.SetValue("owned_platforms", ldvalue.ArrayOf(platforms...))
	}
	for attr, value := range ec.Custom {
		builder.SetValue(attr, ldvalue.CopyArbitraryValue(value))
	}
	return builder.Build()
}
