// Package gateway contains the orchestration engine of the AI-completion
// gateway: per-request configuration resolution, message normalization,
// provider invocation with metric tracking, tolerant output parsing, and
// best-effort judge evaluation. The engine depends only on the interfaces
// in internal/ports; all external connections arrive through the shared
// ClientHolder.
package gateway

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
)

// Completion request types accepted by the engine.
const (
	TypePrompt = "prompt"
	TypeJudge  = "judge"
)

// SlotKeys names the three configuration slots the engine resolves:
// the primary prompt slot, the judge-answer slot driving type=judge
// completions, and the judge-score slot used for scoring.
type SlotKeys struct {
	Prompt      string
	JudgeAnswer string
	JudgeEval   string
}

// Request is one inbound completion request after transport decoding.
// Input and Context are free-form caller payloads; malformed or missing
// fields degrade rather than fail.
type Request struct {
	Type    string         `json:"type"`
	Input   map[string]any `json:"input"`
	Context map[string]any `json:"context"`
}

// Engine orchestrates the completion pipeline.
type Engine struct {
	holder *ClientHolder
	keys   SlotKeys
	logger *zap.Logger
}

// NewEngine creates the orchestration engine.
func NewEngine(holder *ClientHolder, keys SlotKeys, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{holder: holder, keys: keys, logger: logger}
}

// Handle runs one completion request through the pipeline and returns the
// structured response body. Failures never surface as raw errors; every
// outcome is a JSON-ready map carrying either the payload or a single
// error code.
func (e *Engine) Handle(ctx context.Context, req Request) (resp map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("completion pipeline panicked", zap.Any("panic", r))
			resp = errorBody(domain.CodeConfigError)
		}
	}()

	switch req.Type {
	case TypePrompt:
		return e.handlePrompt(ctx, req)
	case TypeJudge:
		return e.handleJudge(ctx, req)
	default:
		return errorBody(domain.CodeUnknownType)
	}
}

// handlePrompt runs the primary completion and attaches a best-effort
// judge verdict over its own output.
func (e *Engine) handlePrompt(ctx context.Context, req Request) map[string]any {
	clients, err := e.holder.Get(ctx)
	if err != nil {
		e.logger.Error("client initialization failed", zap.Error(err))
		return errorBody(domain.CodeConfigUnavailable)
	}

	ectx := domain.NewEvaluationContext(req.Context)
	config, err := clients.Config.Completion(ctx, e.keys.Prompt, ectx, req.Input)
	if err != nil {
		return errorBodyFor(err)
	}
	if !config.Enabled {
		return errorBody(domain.CodeConfigDisabled)
	}
	if config.Model == "" {
		return errorBody(domain.CodeModelUnavailable)
	}

	system, turns := domain.SplitSystem(config.Messages)
	result, err := e.invoke(ctx, clients, config, system, turns)
	if err != nil {
		e.logger.Warn("prompt invocation failed", zap.Error(err))
		return errorBodyFor(err)
	}
	clients.Config.Flush()

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return errorBody(domain.CodeInvalidPrompt)
	}

	body := map[string]any{
		"prompt": text,
		"meta":   buildMeta(result),
	}
	if verdict := e.evaluateJudge(ctx, clients, ectx, text, text); verdict != nil {
		body["judge"] = verdict
	}
	return body
}

// handleJudge runs a judge-answer completion over a caller-supplied
// prompt/response pair, with the full caller input serving as template
// variables. The response carries the recognized verdict fields when the
// output is structured and the raw text otherwise; the scoring judge runs
// over the same pair in both cases.
func (e *Engine) handleJudge(ctx context.Context, req Request) map[string]any {
	clients, err := e.holder.Get(ctx)
	if err != nil {
		e.logger.Error("client initialization failed", zap.Error(err))
		return errorBody(domain.CodeConfigUnavailable)
	}

	promptText, _ := req.Input["prompt"].(string)
	responseText, _ := req.Input["response"].(string)

	ectx := domain.NewEvaluationContext(req.Context)
	config, err := clients.Config.Completion(ctx, e.keys.JudgeAnswer, ectx, req.Input)
	if err != nil {
		return errorBodyFor(err)
	}
	if !config.Enabled {
		return errorBody(domain.CodeConfigDisabled)
	}
	if config.Model == "" {
		return errorBody(domain.CodeModelUnavailable)
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
		return errorBodyFor(err)
	}
	clients.Config.Flush()

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return errorBody(domain.CodeInvalidJudge)
	}

	body := mergedVerdict(text)
	body["meta"] = buildMeta(result)

	if verdict := e.evaluateJudge(ctx, clients, ectx, promptText, responseText); verdict != nil {
		body["judge"] = verdict
	}
	return body
}

// invoke sends exactly one completion request to the active backend,
// routed through the configuration's tracker when one is attached.
func (e *Engine) invoke(
	ctx context.Context,
	clients *ClientSet,
	config *domain.AIConfig,
	system []string,
	turns []domain.Message,
) (domain.CompletionResult, error) {
	call := func(ctx context.Context) (domain.CompletionResult, error) {
		return clients.Provider.Invoke(ctx, config.Model, system, turns)
	}
	if config.Tracker != nil {
		return config.Tracker.TrackMetricsOf(ctx, call)
	}
	return call(ctx)
}

// mergedVerdict builds the judge-type response payload: the recognized
// verdict fields with the score normalized, even when the judge wrapped
// them under an output or result object. Text with no verdict shape comes
// back whole under the verdict key.
func mergedVerdict(text string) map[string]any {
	fields, ok := ExtractVerdict(text)
	if !ok {
		return map[string]any{"verdict": text}
	}

	body := map[string]any{}
	if fields.Score != nil {
		body["score"] = domain.NormalizeScore(*fields.Score)
	}
	if fields.Label != "" {
		body["label"] = fields.Label
	}
	if fields.Verdict != "" {
		body["verdict"] = fields.Verdict
	}
	if fields.Comment != "" {
		body["comment"] = fields.Comment
	}
	return body
}

// buildMeta assembles the response metadata from a completion result,
// omitting fields the backend did not report.
func buildMeta(result domain.CompletionResult) map[string]any {
	meta := map[string]any{}
	if result.StopReason != "" {
		meta["stopReason"] = result.StopReason
	}
	if !result.Usage.IsZero() {
		meta["usage"] = result.Usage
	}
	return meta
}

func errorBody(code domain.ErrorCode) map[string]any {
	return map[string]any{"error": string(code)}
}

func errorBodyFor(err error) map[string]any {
	return errorBody(domain.CodeFor(err))
}
