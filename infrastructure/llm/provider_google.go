package llm

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
)

func init() {
	RegisterProviderFactory("google", newGoogleProvider)
}

// googleProvider implements CoreProvider over the Gemini API. System
// instructions are carried in the generation config, separate from the
// conversation contents, so this backend sits in the managed-runtime
// family alongside Bedrock and Anthropic.
type googleProvider struct {
	client          *genai.Client
	errorClassifier *ErrorClassifier
}

func newGoogleProvider(config ClientConfig) (CoreProvider, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &googleProvider{
		client:          client,
		errorClassifier: &ErrorClassifier{Provider: "google"},
	}, nil
}

// Name identifies the backend family.
func (p *googleProvider) Name() string { return "google" }

// Converse sends the request to Gemini and normalizes the response.
func (p *googleProvider) Converse(ctx context.Context, req Request) (domain.CompletionResult, error) {
	config := &genai.GenerateContentConfig{}
	if len(req.System) > 0 {
		config.SystemInstruction = genai.NewContentFromText(
			strings.Join(req.System, "\n\n"), genai.RoleUser)
	}

	resp, err := p.client.Models.GenerateContent(ctx, req.Model, toGeminiContents(req.Turns), config)
	if err != nil {
		return domain.CompletionResult{}, p.handleError(err)
	}

	result := domain.CompletionResult{Text: resp.Text()}
	if len(resp.Candidates) > 0 {
		result.StopReason = string(resp.Candidates[0].FinishReason)
	}
	if usage := resp.UsageMetadata; usage != nil {
		result.Usage = domain.Usage{
			InputTokens:  int(usage.PromptTokenCount),
			OutputTokens: int(usage.CandidatesTokenCount),
			TotalTokens:  int(usage.TotalTokenCount),
		}
	}
	return result, nil
}

func toGeminiContents(turns []domain.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		var role genai.Role = genai.RoleUser
		if turn.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	return contents
}

func (p *googleProvider) handleError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return p.errorClassifier.ClassifyContextError(err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return p.errorClassifier.ClassifyHTTPError(apiErr.Code, apiErr.Message, err)
	}

	return NewProviderError("google", ErrorTypeUnknown, 0, "request failed", err)
}
