package gateway

import (
	"context"
	"sync"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
)

// fakeConfigService serves canned configurations per slot key.
type fakeConfigService struct {
	mu sync.Mutex

	configs    map[string]*domain.AIConfig
	errs       map[string]error
	flushCount int

	completionCalls []completionCall
	judgeCalls      []judgeCall
}

type completionCall struct {
	key       string
	variables map[string]any
}

type judgeCall struct {
	key          string
	promptText   string
	responseText string
}

func newFakeConfigService() *fakeConfigService {
	return &fakeConfigService{
		configs: make(map[string]*domain.AIConfig),
		errs:    make(map[string]error),
	}
}

func (f *fakeConfigService) Completion(
	_ context.Context, key string, _ domain.EvaluationContext, variables map[string]any,
) (*domain.AIConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completionCalls = append(f.completionCalls, completionCall{key, variables})
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	return f.configs[key], nil
}

func (f *fakeConfigService) Judge(
	_ context.Context, key string, _ domain.EvaluationContext, promptText, responseText string,
) (*domain.AIConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.judgeCalls = append(f.judgeCalls, judgeCall{key, promptText, responseText})
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	return f.configs[key], nil
}

func (f *fakeConfigService) Flush() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushCount++
}

// fakeProvider returns a canned completion per model identifier so the
// primary and judge invocations can behave differently in one test.
type fakeProvider struct {
	mu sync.Mutex

	responses map[string]domain.CompletionResult
	errs      map[string]error
	panicFor  string

	calls []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		responses: make(map[string]domain.CompletionResult),
		errs:      make(map[string]error),
	}
}

func (f *fakeProvider) Invoke(
	_ context.Context, model string, _ []string, _ []domain.Message,
) (domain.CompletionResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, model)
	f.mu.Unlock()

	if model == f.panicFor {
		panic("provider blew up")
	}
	if err := f.errs[model]; err != nil {
		return domain.CompletionResult{}, err
	}
	return f.responses[model], nil
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeTracker records TrackMetricsOf and verdict reporting.
type fakeTracker struct {
	mu sync.Mutex

	wrapped  int
	verdicts []domain.JudgeVerdict
}

func (f *fakeTracker) TrackMetricsOf(
	ctx context.Context, invoke func(context.Context) (domain.CompletionResult, error),
) (domain.CompletionResult, error) {
	f.mu.Lock()
	f.wrapped++
	f.mu.Unlock()
	return invoke(ctx)
}

func (f *fakeTracker) TrackJudgeVerdict(_ context.Context, verdict domain.JudgeVerdict) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verdicts = append(f.verdicts, verdict)
	return nil
}

// enabledConfig builds an enabled configuration for a model with an
// optional message template.
func enabledConfig(model string, messages ...domain.Message) *domain.AIConfig {
	return &domain.AIConfig{Enabled: true, Model: model, Messages: messages}
}

// testKeys are the slot keys every engine test resolves against.
var testKeys = SlotKeys{
	Prompt:      "prompt-slot",
	JudgeAnswer: "judge-answer-slot",
	JudgeEval:   "judge-eval-slot",
}

// newTestEngine wires an engine over the fakes with an always-ready holder.
func newTestEngine(config *fakeConfigService, provider *fakeProvider) *Engine {
	holder := NewClientHolder(func(context.Context) (*ClientSet, error) {
		return &ClientSet{Config: config, Provider: provider}, nil
	})
	return NewEngine(holder, testKeys, nil)
}
