package domain

import "strings"

// DefaultContextKey is used when a request supplies no usable context key.
const DefaultContextKey = "demo-user"

// EvaluationContext is the identity used to resolve configuration variants
// and attribute telemetry. It is built fresh from untyped caller input on
// every request and never persisted.
type EvaluationContext struct {
	// Key uniquely identifies the caller; never empty.
	Key       string
	Anonymous bool

	// Optional demographic and segmentation attributes.
	Name           string
	State          string
	Region         string
	Plan           string
	Device         string
	Platform       string
	OwnedPlatforms []string

	// Custom carries any extension attributes the caller supplied beyond
	// the well-known set above.
	Custom map[string]any
}

// wellKnownContextFields are consumed into typed EvaluationContext fields;
// everything else lands in Custom.
var wellKnownContextFields = map[string]struct{}{
	"key": {}, "anonymous": {}, "name": {}, "state": {}, "region": {},
	"plan": {}, "device": {}, "platform": {}, "owned_platforms": {},
}

// NewEvaluationContext builds an EvaluationContext from an untyped request
// payload. Absent, blank, or mistyped fields degrade to their zero values;
// a missing or blank key falls back to DefaultContextKey. A nil payload is
// valid and yields the default anonymous-free context.
func NewEvaluationContext(payload map[string]any) EvaluationContext {
	ec := EvaluationContext{Key: DefaultContextKey}
	if payload == nil {
		return ec
	}

	if key, ok := payload["key"].(string); ok && strings.TrimSpace(key) != "" {
		ec.Key = key
	}
	ec.Anonymous = payload["anonymous"] == true
	ec.Name, _ = payload["name"].(string)
	ec.State, _ = payload["state"].(string)
	ec.Region, _ = payload["region"].(string)
	ec.Plan, _ = payload["plan"].(string)
	ec.Device, _ = payload["device"].(string)
	ec.Platform, _ = payload["platform"].(string)

	if raw, ok := payload["owned_platforms"].([]any); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				ec.OwnedPlatforms = append(ec.OwnedPlatforms, s)
			}
		}
	}

	for k, v := range payload {
		if _, known := wellKnownContextFields[k]; known {
			continue
		}
		if ec.Custom == nil {
			ec.Custom = make(map[string]any)
		}
		ec.Custom[k] = v
	}

	return ec
}

// Attributes returns the context's non-empty attributes as a flat map,
// suitable for template interpolation under the "ldctx." namespace.
func (ec EvaluationContext) Attributes() map[string]any {
	attrs := map[string]any{"key": ec.Key}
	if ec.Anonymous {
		attrs["anonymous"] = true
	}
	for name, value := range map[string]string{
		"name":     ec.Name,
		"state":    ec.State,
		"region":   ec.Region,
		"plan":     ec.Plan,
		"device":   ec.Device,
		"platform": ec.Platform,
	} {
		if value != "" {
			attrs[name] = value
		}
	}
	if len(ec.OwnedPlatforms) > 0 {
		attrs["owned_platforms"] = ec.OwnedPlatforms
	}
	for k, v := range ec.Custom {
		attrs[k] = v
	}
	return attrs
}
