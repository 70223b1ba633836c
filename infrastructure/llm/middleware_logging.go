package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
)

// loggingProvider logs every backend invocation with its outcome, timing,
// and token usage. Completion text itself is never logged.
type loggingProvider struct {
	next   CoreProvider
	logger *zap.Logger
}

// LoggingMiddleware creates middleware that logs invocations through the
// given zap logger.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next CoreProvider) CoreProvider {
		return &loggingProvider{next: next, logger: logger}
	}
}

// Converse executes the request and logs the result.
func (l *loggingProvider) Converse(ctx context.Context, req Request) (domain.CompletionResult, error) {
	start := time.Now()
	result, err := l.next.Converse(ctx, req)

	fields := []zap.Field{
		zap.String("provider", l.next.Name()),
		zap.String("model", req.Model),
		zap.Int("turns", len(req.Turns)),
		zap.Int("system_blocks", len(req.System)),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		l.logger.Warn("model invocation failed", append(fields, zap.Error(err))...)
		return result, err
	}

	l.logger.Info("model invocation complete", append(fields,
		zap.String("stop_reason", result.StopReason),
		zap.Int("input_tokens", result.Usage.InputTokens),
		zap.Int("output_tokens", result.Usage.OutputTokens),
	)...)
	return result, nil
}

// Name returns the backend name from the wrapped implementation.
func (l *loggingProvider) Name() string { return l.next.Name() }
