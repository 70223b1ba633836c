package gateway

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
)

// evaluateJudge scores a prompt/response pair through the judge
// configuration slot. It returns nil ("absent") rather than an error for
// every failure mode: empty inputs, a disabled or model-less judge
// configuration, empty judge output, or output that fails verdict
// extraction. Judge evaluation is best-effort and never aborts the primary
// request; any panic in this path is caught and converted to absent.
func (e *Engine) evaluateJudge(
	ctx context.Context,
	clients *ClientSet,
	ectx domain.EvaluationContext,
	promptText, responseText string,
) (verdict *domain.JudgeVerdict) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("judge evaluation panicked", zap.Any("panic", r))
			verdict = nil
		}
	}()

	if strings.TrimSpace(promptText) == "" || strings.TrimSpace(responseText) == "" {
		return nil
	}

	config, err := clients.Config.Judge(ctx, e.keys.JudgeEval, ectx, promptText, responseText)
	if err != nil {
		e.logger.Warn("judge config resolution failed", zap.Error(err))
		return nil
	}
	if !config.Enabled || config.Model == "" {
		return nil
	}

	system, turns := domain.SplitSystem(config.Messages)
	if len(turns) == 0 {
		if turn := synthesizeTurn(promptText, responseText); turn != nil {
			turns = []domain.Message{*turn}
		}
	}

	result, err := e.invoke(ctx, clients, config, system, turns)
	if err != nil {
		e.logger.Warn("judge invocation failed", zap.Error(err))
		return nil
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return nil
	}

	fields, ok := ExtractVerdict(text)
	if !ok {
		e.logger.Debug("judge output had no verdict shape")
		return nil
	}

	var raw float64
	if fields.Score != nil {
		raw = *fields.Score
	}
	reasoning := fields.Comment
	if reasoning == "" {
		reasoning = fields.Verdict
	}

	v := &domain.JudgeVerdict{
		MetricKey: e.keys.JudgeEval,
		Score:     domain.NormalizeScore(raw),
		Reasoning: reasoning,
	}

	if config.Tracker != nil {
		if err := config.Tracker.TrackJudgeVerdict(ctx, *v); err != nil {
			e.logger.Warn("judge verdict reporting failed", zap.Error(err))
		}
	}
	return v
}

// synthesizeTurn builds the fallback user turn for a judge configuration
// with no message template. It returns nil when both values are blank so a
// fully empty pair produces no turn at all.
func synthesizeTurn(promptText, responseText string) *domain.Message {
	if strings.TrimSpace(promptText) == "" && strings.TrimSpace(responseText) == "" {
		return nil
	}
	return &domain.Message{
		Role:    domain.RoleUser,
		Content: fmt.Sprintf("Prompt: %s\nResponse: %s", promptText, responseText),
	}
}
