package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
)

// AnthropicMaxTokens caps generation length for the messages API, which
// requires an explicit limit on every request.
const AnthropicMaxTokens = 1024

func init() {
	RegisterProviderFactory("anthropic", newAnthropicProvider)
}

// anthropicProvider implements CoreProvider over Anthropic's messages API.
// Like Bedrock it belongs to the family that keeps system instructions
// separate from conversation turns.
type anthropicProvider struct {
	client          anthropic.Client
	errorClassifier *ErrorClassifier
}

func newAnthropicProvider(config ClientConfig) (CoreProvider, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &anthropicProvider{
		client:          anthropic.NewClient(opts...),
		errorClassifier: &ErrorClassifier{Provider: "anthropic"},
	}, nil
}

// Name identifies the backend family.
func (p *anthropicProvider) Name() string { return "anthropic" }

// Converse sends the request through the messages API and concatenates
// the response's text blocks into the completion.
func (p *anthropicProvider) Converse(ctx context.Context, req Request) (domain.CompletionResult, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: AnthropicMaxTokens,
		Messages:  toAnthropicMessages(req.Turns),
	}
	for _, text := range req.System {
		params.System = append(params.System, anthropic.TextBlockParam{Text: text})
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return domain.CompletionResult{}, p.handleError(err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if content, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(content.Text)
		}
	}

	in := int(message.Usage.InputTokens)
	out := int(message.Usage.OutputTokens)
	return domain.CompletionResult{
		Text:       text.String(),
		StopReason: string(message.StopReason),
		Usage:      domain.Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out},
	}, nil
}

func toAnthropicMessages(turns []domain.Message) []anthropic.MessageParam {
	messages := make([]anthropic.MessageParam, 0, len(turns))
	for _, turn := range turns {
		block := anthropic.NewTextBlock(turn.Content)
		if turn.Role == domain.RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		} else {
			messages = append(messages, anthropic.NewUserMessage(block))
		}
	}
	return messages
}

func (p *anthropicProvider) handleError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return p.errorClassifier.ClassifyContextError(err)
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return p.errorClassifier.ClassifyHTTPError(apiErr.StatusCode, apiErr.Error(), err)
	}

	return NewProviderError("anthropic", ErrorTypeUnknown, 0, "request failed", err)
}
