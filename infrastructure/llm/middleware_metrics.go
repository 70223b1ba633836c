package llm

import (
	"context"
	"time"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
	"github.com/launchpad-demo/ai-gateway/internal/ports"
)

// metricsProvider collects request metrics for every backend invocation:
// latency, request counts by status, and token usage.
type metricsProvider struct {
	next      CoreProvider
	collector ports.MetricsCollector
}

// MetricsMiddleware creates middleware that records invocation metrics
// through the given collector.
func MetricsMiddleware(collector ports.MetricsCollector) Middleware {
	return func(next CoreProvider) CoreProvider {
		return &metricsProvider{next: next, collector: collector}
	}
}

// Converse executes the request while recording latency, status, and
// token counters.
func (m *metricsProvider) Converse(ctx context.Context, req Request) (domain.CompletionResult, error) {
	start := time.Now()
	result, err := m.next.Converse(ctx, req)

	labels := map[string]string{
		"provider": m.next.Name(),
		"model":    req.Model,
		"status":   "success",
	}
	if err != nil {
		labels["status"] = "error"
		if ctx.Err() == context.DeadlineExceeded {
			labels["status"] = "timeout"
		}
	}

	if m.collector != nil {
		m.collector.RecordHistogram("llm_latency_seconds", time.Since(start).Seconds(), labels)
		m.collector.RecordCounter("llm_requests_total", 1, labels)

		if err == nil {
			labels["token_type"] = "input"
			m.collector.RecordCounter("llm_tokens_total", float64(result.Usage.InputTokens), labels)

			labels["token_type"] = "output"
			m.collector.RecordCounter("llm_tokens_total", float64(result.Usage.OutputTokens), labels)
		}
	}

	return result, err
}

// Name returns the backend name from the wrapped implementation.
func (m *metricsProvider) Name() string { return m.next.Name() }
