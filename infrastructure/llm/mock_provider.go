package llm

import (
	"context"
	"sync"
	"time"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
)

// MockProvider is a configurable CoreProvider implementation for testing
// middleware and the gateway engine without hitting real backends.
type MockProvider struct {
	mu sync.Mutex

	// Response configuration
	Response  string
	TokensIn  int
	TokensOut int
	Error     error
	Provider  string

	// Behavior configuration
	ResponseDelay time.Duration

	// Call tracking
	CallCount      int
	LastRequest    Request
	Requests       []Request
	CallTimestamps []time.Time
}

// NewMockProvider creates a mock with sensible defaults.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Response:       "test response",
		TokensIn:       10,
		TokensOut:      20,
		Provider:       "mock",
		Requests:       make([]Request, 0),
		CallTimestamps: make([]time.Time, 0),
	}
}

// Converse simulates a backend invocation based on the mock's configuration.
func (m *MockProvider) Converse(ctx context.Context, req Request) (domain.CompletionResult, error) {
	m.mu.Lock()

	// Track the call
	m.CallCount++
	m.LastRequest = req
	m.Requests = append(m.Requests, req)
	m.CallTimestamps = append(m.CallTimestamps, time.Now())

	delay := m.ResponseDelay
	resp := m.Response
	tokensIn, tokensOut := m.TokensIn, m.TokensOut
	err := m.Error
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return domain.CompletionResult{}, ctx.Err()
		}
	}

	if err != nil {
		return domain.CompletionResult{}, err
	}

	return domain.CompletionResult{
		Text:       resp,
		StopReason: "end_turn",
		Usage: domain.Usage{
			InputTokens:  tokensIn,
			OutputTokens: tokensOut,
			TotalTokens:  tokensIn + tokensOut,
		},
	}, nil
}

// Name returns the configured provider name.
func (m *MockProvider) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Provider
}

// GetCallCount returns the number of Converse invocations.
func (m *MockProvider) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// Reset clears all tracking data while preserving configuration.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount = 0
	m.LastRequest = Request{}
	m.Requests = make([]Request, 0)
	m.CallTimestamps = make([]time.Time, 0)
}
