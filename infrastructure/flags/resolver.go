package flags

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"go.uber.org/zap"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
	"github.com/launchpad-demo/ai-gateway/internal/ports"
)

// placeholderPattern matches {{variable}} message-template placeholders,
// including dotted names like ldctx.plan.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([\w.-]+)\s*\}\}`)

// variationEnvelope is the wire shape of an AI configuration variation.
type variationEnvelope struct {
	Meta *struct {
		Enabled      bool   `json:"enabled"`
		VariationKey string `json:"variationKey"`
		Version      int    `json:"version"`
	} `json:"_ldMeta"`
	Model struct {
		Name       string         `json:"name"`
		Parameters map[string]any `json:"parameters"`
	} `json:"model"`
	Provider struct {
		Name string `json:"name"`
	} `json:"provider"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// Resolver resolves named AI configuration slots from LaunchDarkly. Each
// resolution is performed fresh against the current evaluation context;
// nothing is cached across requests.
type Resolver struct {
	client LDClient
	logger *zap.Logger
}

var _ ports.AIConfigService = (*Resolver)(nil)

// NewResolver creates a Resolver over an established LaunchDarkly client.
func NewResolver(client LDClient, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{client: client, logger: logger}
}

// Completion resolves the configuration slot identified by key,
// interpolating the request's input variables and the evaluation context's
// attributes into the slot's message template.
func (r *Resolver) Completion(
	ctx context.Context,
	key string,
	ectx domain.EvaluationContext,
	variables map[string]any,
) (*domain.AIConfig, error) {
	return r.resolve(ctx, key, ectx, variables)
}

// Judge resolves a judge configuration slot. The prompt/response pair
// under evaluation becomes the slot's input variables.
func (r *Resolver) Judge(
	ctx context.Context,
	key string,
	ectx domain.EvaluationContext,
	promptText, responseText string,
) (*domain.AIConfig, error) {
	return r.resolve(ctx, key, ectx, map[string]any{
		"prompt":   promptText,
		"response": responseText,
	})
}

// Flush triggers one best-effort delivery of buffered analytics events.
func (r *Resolver) Flush() {
	if r.client != nil {
		r.client.Flush()
	}
}

func (r *Resolver) resolve(
	_ context.Context,
	key string,
	ectx domain.EvaluationContext,
	variables map[string]any,
) (*domain.AIConfig, error) {
	if r.client == nil || !r.client.Initialized() {
		return nil, fmt.Errorf("config service not ready: %w", domain.ErrConfigUnavailable)
	}

	ldCtx := buildLDContext(ectx)
	value, err := r.client.JSONVariation(key, ldCtx, ldvalue.Null())
	if err != nil && value.IsNull() {
		return nil, fmt.Errorf("resolving %q: %v: %w", key, err, domain.ErrConfigUnavailable)
	}
	if value.IsNull() {
		return nil, fmt.Errorf("no variation for %q: %w", key, domain.ErrConfigUnavailable)
	}

	var envelope variationEnvelope
	if err := json.Unmarshal([]byte(value.JSONString()), &envelope); err != nil {
		return nil, fmt.Errorf("malformed variation for %q: %v: %w", key, err, domain.ErrConfigUnavailable)
	}

	config := &domain.AIConfig{
		Model:        envelope.Model.Name,
		ProviderName: envelope.Provider.Name,
		Messages:     r.interpolateMessages(envelope, ectx, variables),
	}
	if envelope.Meta != nil {
		config.Enabled = envelope.Meta.Enabled
		config.Tracker = &Tracker{
			client:       r.client,
			logger:       r.logger,
			configKey:    key,
			variationKey: envelope.Meta.VariationKey,
			version:      envelope.Meta.Version,
			context:      ldCtx,
		}
	}

	r.logger.Debug("resolved ai config",
		zap.String("key", key),
		zap.Bool("enabled", config.Enabled),
		zap.String("model", config.Model))
	return config, nil
}

// interpolateMessages expands {{variable}} placeholders in each template
// message from the input variables, with the evaluation context's
// attributes available under the ldctx. prefix.
func (r *Resolver) interpolateMessages(
	envelope variationEnvelope,
	ectx domain.EvaluationContext,
	variables map[string]any,
) []domain.Message {
	if len(envelope.Messages) == 0 {
		return nil
	}

	lookup := make(map[string]any, len(variables))
	for name, value := range variables {
		lookup[name] = value
	}
	for name, value := range ectx.Attributes() {
		lookup["ldctx."+name] = value
	}

	messages := make([]domain.Message, 0, len(envelope.Messages))
	for _, m := range envelope.Messages {
		messages = append(messages, domain.Message{
			Role:    domain.Role(strings.ToLower(m.Role)),
			Content: interpolate(m.Content, lookup),
		})
	}
	return messages
}

// interpolate replaces {{name}} placeholders with their values. Unknown
// placeholders are left in place so a misconfigured template stays visible
// rather than silently collapsing to empty text.
func interpolate(template string, variables map[string]any) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := variables[name]
		if !ok {
			return match
		}
		return fmt.Sprint(value)
	})
}
