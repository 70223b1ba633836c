package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
)

// rateLimitedProvider paces backend invocations with a token bucket so the
// gateway stays inside provider rate limits.
type rateLimitedProvider struct {
	next    CoreProvider
	limiter *rate.Limiter
}

// RateLimitMiddleware creates middleware enforcing a sustained
// requests-per-second limit with the given burst allowance.
func RateLimitMiddleware(limit rate.Limit, burst int) Middleware {
	limiter := rate.NewLimiter(limit, burst)
	return func(next CoreProvider) CoreProvider {
		return &rateLimitedProvider{next: next, limiter: limiter}
	}
}

// Converse blocks until a token is available, then forwards the request.
func (r *rateLimitedProvider) Converse(ctx context.Context, req Request) (domain.CompletionResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.CompletionResult{}, fmt.Errorf("rate limit: %w", err)
	}
	return r.next.Converse(ctx, req)
}

// Name returns the backend name from the wrapped implementation.
func (r *rateLimitedProvider) Name() string { return r.next.Name() }
