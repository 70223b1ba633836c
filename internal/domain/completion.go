package domain

// Usage reports the token accounting for a single provider invocation.
// Backends that do not track usage leave all counters at zero.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
	TotalTokens  int `json:"totalTokens"`
}

// IsZero reports whether the backend supplied no usage accounting at all.
func (u Usage) IsZero() bool {
	return u.InputTokens == 0 && u.OutputTokens == 0 && u.TotalTokens == 0
}

// CompletionResult is the provider-agnostic outcome of exactly one model
// invocation. Text may legitimately be empty; classifying an empty
// completion as a failure is the caller's responsibility, not the
// provider's.
type CompletionResult struct {
	// Text is the raw completion, untrimmed.
	Text string

	// StopReason is the backend's stated reason for ending generation,
	// empty when the backend does not report one.
	StopReason string

	// Usage carries token counters when the backend tracks them.
	Usage Usage
}
