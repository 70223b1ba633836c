// Package llm provides the gateway's provider invoker: a unified interface
// over the LLM backend families the gateway can be deployed against, with
// cross-cutting concerns (metrics, logging, tracing, rate limiting,
// timeouts) composed through a middleware chain.
//
// Exactly one backend is active per deployment, selected by name at
// process configuration time. Two wire-shape families exist: managed-model
// runtimes that keep system instructions separate from conversation turns
// (Bedrock Converse, Anthropic messages, Gemini), and chat-completion APIs
// that take one flat message array with system entries at the head
// (OpenAI). Every backend normalizes its response into
// domain.CompletionResult so downstream code never sees a provider shape.
//
// Basic usage:
//
//	client, err := llm.NewClient("bedrock", llm.ClientConfig{
//	    Region: os.Getenv("AWS_REGION"),
//	})
//	result, err := client.Invoke(ctx, modelID, system, turns)
package llm

import (
	"context"
	"fmt"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
	"github.com/launchpad-demo/ai-gateway/internal/ports"
)

// Request is the normalized input every backend consumes: a model
// identifier, the hoisted system instructions, and the user/assistant
// conversation turns.
type Request struct {
	Model  string
	System []string
	Turns  []domain.Message
}

// CoreProvider is the minimal surface a backend must implement. The
// middleware system wraps any conforming implementation.
type CoreProvider interface {
	// Converse sends one completion request. Implementations return
	// empty completion text as an empty result, never as an error.
	Converse(ctx context.Context, req Request) (domain.CompletionResult, error)

	// Name identifies the backend family for logs and metric labels.
	Name() string
}

// Middleware wraps a CoreProvider to add cross-cutting functionality
// without modifying backend logic.
type Middleware func(CoreProvider) CoreProvider

// ClientConfig holds everything needed to construct a provider client.
type ClientConfig struct {
	// APIKey authenticates requests for key-based backends (OpenAI,
	// Anthropic, Gemini). Ignored by Bedrock, which uses the ambient
	// AWS credential chain.
	APIKey string

	// Region selects the AWS region for the Bedrock backend.
	Region string

	// BaseURL overrides the backend's default endpoint. Used by tests
	// and by deployments fronting the backend with a proxy.
	BaseURL string

	// Middleware is applied in the order given, first entry outermost.
	Middleware []Middleware
}

// ProviderFactory constructs a CoreProvider from configuration. Factories
// self-register in their provider files' init functions.
type ProviderFactory func(ClientConfig) (CoreProvider, error)

var providerFactories = map[string]ProviderFactory{}

// RegisterProviderFactory registers a backend under a name for NewClient.
// Calling it twice with the same name replaces the earlier factory.
func RegisterProviderFactory(name string, factory ProviderFactory) {
	providerFactories[name] = factory
}

// Client implements ports.ProviderClient over a middleware-wrapped
// CoreProvider.
type Client struct {
	core CoreProvider
}

var _ ports.ProviderClient = (*Client)(nil)

// NewClient constructs the named backend and assembles its middleware
// chain. The name must match a registered provider factory.
func NewClient(name string, config ClientConfig) (*Client, error) {
	factory, ok := providerFactories[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider %s: %w", name, err)
	}

	// Apply middleware in reverse order so the first entry is outermost.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	return &Client{core: core}, nil
}

// Invoke sends one completion request to the active backend.
func (c *Client) Invoke(
	ctx context.Context,
	model string,
	system []string,
	turns []domain.Message,
) (domain.CompletionResult, error) {
	return c.core.Converse(ctx, Request{Model: model, System: system, Turns: turns})
}

// Name returns the active backend's family name.
func (c *Client) Name() string { return c.core.Name() }
