package llm

import (
	"context"
	"time"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
)

// timeoutProvider bounds every backend invocation with a deadline so a
// hung upstream cannot stall a request indefinitely.
type timeoutProvider struct {
	next    CoreProvider
	timeout time.Duration
}

// TimeoutMiddleware creates middleware that enforces a per-call timeout.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next CoreProvider) CoreProvider {
		return &timeoutProvider{next: next, timeout: timeout}
	}
}

// Converse executes the request under a bounded context.
func (t *timeoutProvider) Converse(ctx context.Context, req Request) (domain.CompletionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Converse(ctx, req)
}

// Name returns the backend name from the wrapped implementation.
func (t *timeoutProvider) Name() string { return t.next.Name() }
