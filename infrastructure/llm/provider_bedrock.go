package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
)

func init() {
	RegisterProviderFactory("bedrock", newBedrockProvider)
}

// bedrockProvider implements CoreProvider over the Bedrock Converse API,
// the managed-model runtime family: models are addressed by identifier,
// turns are wrapped as {role, content:[{text}]}, and system instructions
// travel in a separate array of {text} blocks.
type bedrockProvider struct {
	client          *bedrockruntime.Client
	errorClassifier *ErrorClassifier
}

// newBedrockProvider builds a Bedrock client from the ambient AWS
// credential chain. A region is required; credentials themselves are
// resolved lazily by the SDK on first call.
func newBedrockProvider(config ClientConfig) (CoreProvider, error) {
	if config.Region == "" {
		return nil, ErrMissingRegion
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(config.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	var opts []func(*bedrockruntime.Options)
	if config.BaseURL != "" {
		opts = append(opts, func(o *bedrockruntime.Options) {
			o.BaseEndpoint = aws.String(config.BaseURL)
		})
	}

	return &bedrockProvider{
		client:          bedrockruntime.NewFromConfig(awsCfg, opts...),
		errorClassifier: &ErrorClassifier{Provider: "bedrock"},
	}, nil
}

// Name identifies the backend family.
func (p *bedrockProvider) Name() string { return "bedrock" }

// Converse sends the request through the Converse API and normalizes the
// response. The first text block of the output message is the completion;
// a response without one yields an empty result, not an error.
func (p *bedrockProvider) Converse(ctx context.Context, req Request) (domain.CompletionResult, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(req.Model),
		Messages: toConverseMessages(req.Turns),
		System:   toConverseSystem(req.System),
	}

	out, err := p.client.Converse(ctx, input)
	if err != nil {
		return domain.CompletionResult{}, p.handleError(err)
	}

	result := domain.CompletionResult{
		Text:       firstTextBlock(out.Output),
		StopReason: string(out.StopReason),
	}
	if out.Usage != nil {
		result.Usage = domain.Usage{
			InputTokens:  int(aws.ToInt32(out.Usage.InputTokens)),
			OutputTokens: int(aws.ToInt32(out.Usage.OutputTokens)),
			TotalTokens:  int(aws.ToInt32(out.Usage.TotalTokens)),
		}
	}
	return result, nil
}

// toConverseMessages maps conversation turns into the Converse wire shape.
func toConverseMessages(turns []domain.Message) []brtypes.Message {
	messages := make([]brtypes.Message, 0, len(turns))
	for _, turn := range turns {
		role := brtypes.ConversationRoleUser
		if turn.Role == domain.RoleAssistant {
			role = brtypes.ConversationRoleAssistant
		}
		messages = append(messages, brtypes.Message{
			Role:    role,
			Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: turn.Content}},
		})
	}
	return messages
}

// toConverseSystem maps system instructions into separate system blocks.
// Bedrock rejects an empty system array, so absence maps to nil.
func toConverseSystem(system []string) []brtypes.SystemContentBlock {
	if len(system) == 0 {
		return nil
	}
	blocks := make([]brtypes.SystemContentBlock, 0, len(system))
	for _, text := range system {
		blocks = append(blocks, &brtypes.SystemContentBlockMemberText{Value: text})
	}
	return blocks
}

// firstTextBlock extracts the completion text from a Converse output
// union, tolerating absent messages and non-text leading blocks.
func firstTextBlock(output brtypes.ConverseOutput) string {
	message, ok := output.(*brtypes.ConverseOutputMemberMessage)
	if !ok {
		return ""
	}
	for _, block := range message.Value.Content {
		if text, ok := block.(*brtypes.ContentBlockMemberText); ok {
			return text.Value
		}
	}
	return ""
}

// handleError classifies Bedrock failures by smithy API error code.
func (p *bedrockProvider) handleError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return p.errorClassifier.ClassifyContextError(err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException":
			return NewProviderError("bedrock", ErrorTypeRateLimit, 429, apiErr.ErrorMessage(), err)
		case "AccessDeniedException", "UnrecognizedClientException":
			return NewProviderError("bedrock", ErrorTypeAuthentication, 403, apiErr.ErrorMessage(), err)
		case "ResourceNotFoundException":
			return NewProviderError("bedrock", ErrorTypeNotFound, 404, apiErr.ErrorMessage(), err)
		case "ValidationException":
			return NewProviderError("bedrock", ErrorTypeBadRequest, 400, apiErr.ErrorMessage(), err)
		case "ServiceUnavailableException", "InternalServerException", "ModelErrorException":
			return NewProviderError("bedrock", ErrorTypeServerError, 500, apiErr.ErrorMessage(), err)
		}
		return NewProviderError("bedrock", ErrorTypeUnknown, 0, apiErr.ErrorMessage(), err)
	}

	return NewProviderError("bedrock", ErrorTypeUnknown, 0, "request failed", err)
}
