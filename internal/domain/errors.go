package domain

import "errors"

// ErrorCode is the single machine-readable code a failed request maps to.
// Every pipeline failure resolves to exactly one code; callers see a
// structured `{"error": <code>}` body and never a raw error message.
type ErrorCode string

const (
	// CodeUnknownType: the request did not specify a recognized
	// completion type.
	CodeUnknownType ErrorCode = "unknown_type"
	// CodeConfigUnavailable: client setup never completed (missing
	// credentials, missing region, service unreachable).
	CodeConfigUnavailable ErrorCode = "config_unavailable"
	// CodeConfigDisabled: the configuration exists but is turned off for
	// this context.
	CodeConfigDisabled ErrorCode = "config_disabled"
	// CodeModelUnavailable: the configuration is enabled but names no
	// usable model.
	CodeModelUnavailable ErrorCode = "model_unavailable"
	// CodeInvalidPrompt: the model returned empty text for a prompt
	// request.
	CodeInvalidPrompt ErrorCode = "invalid_prompt"
	// CodeInvalidJudge: the model returned empty text for a judge
	// request.
	CodeInvalidJudge ErrorCode = "invalid_judge"
	// CodeConfigError: catch-all for any other failure during the
	// pipeline.
	CodeConfigError ErrorCode = "config_error"
)

// Sentinel errors for the distinct non-ready states of the pipeline.
// They are checked with errors.Is so lower layers may wrap them with
// additional context.
var (
	ErrUnknownType       = errors.New("unknown completion type")
	ErrConfigUnavailable = errors.New("configuration service unavailable")
	ErrConfigDisabled    = errors.New("configuration disabled for context")
	ErrModelUnavailable  = errors.New("configuration names no usable model")
	ErrInvalidPrompt     = errors.New("model returned empty prompt completion")
	ErrInvalidJudge      = errors.New("model returned empty judge completion")
)

// CodeFor maps a pipeline error onto its response code. Unrecognized
// errors collapse into CodeConfigError.
func CodeFor(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrUnknownType):
		return CodeUnknownType
	case errors.Is(err, ErrConfigUnavailable):
		return CodeConfigUnavailable
	case errors.Is(err, ErrConfigDisabled):
		return CodeConfigDisabled
	case errors.Is(err, ErrModelUnavailable):
		return CodeModelUnavailable
	case errors.Is(err, ErrInvalidPrompt):
		return CodeInvalidPrompt
	case errors.Is(err, ErrInvalidJudge):
		return CodeInvalidJudge
	default:
		return CodeConfigError
	}
}
