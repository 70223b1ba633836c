package gateway

import (
	"strings"

	"github.com/tidwall/gjson"
)

// StripCodeFence removes a surrounding triple-backtick fence from model
// output. Only text that opens with a fence is touched; the opening and
// closing lines may both carry trailing characters such as a language tag.
// Stripping is idempotent, so already-unfenced text passes through
// unchanged.
func StripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	lines := strings.Split(trimmed, "\n")
	end := len(lines)
	if strings.HasPrefix(lines[end-1], "```") {
		end--
	}
	if end < 1 {
		return ""
	}
	return strings.TrimSpace(strings.Join(lines[1:end], "\n"))
}

// VerdictFields are the recognized judge-output fields. A verdict is
// considered present when at least one of score, label, or verdict was
// found; comment alone is not a verdict.
type VerdictFields struct {
	Score   *float64
	Label   string
	Verdict string
	Comment string
}

// ExtractVerdict pulls verdict fields out of judge model output. Fields
// are looked up at the top level first, then nested one level under an
// "output" or "result" wrapper, matching the shapes judge prompts actually
// produce.
func ExtractVerdict(s string) (*VerdictFields, bool) {
	stripped := StripCodeFence(s)
	if !gjson.Valid(stripped) {
		return nil, false
	}

	root := gjson.Parse(stripped)
	for _, candidate := range []gjson.Result{root, root.Get("output"), root.Get("result")} {
		if !candidate.IsObject() {
			continue
		}
		if fields, ok := verdictFrom(candidate); ok {
			return fields, true
		}
	}
	return nil, false
}

func verdictFrom(obj gjson.Result) (*VerdictFields, bool) {
	fields := &VerdictFields{}
	found := false

	if score := obj.Get("score"); score.Type == gjson.Number {
		value := score.Float()
		fields.Score = &value
		found = true
	}
	if label := obj.Get("label"); label.Type == gjson.String {
		fields.Label = label.String()
		found = true
	}
	if verdict := obj.Get("verdict"); verdict.Type == gjson.String {
		fields.Verdict = verdict.String()
		found = true
	}
	if comment := obj.Get("comment"); comment.Type == gjson.String {
		fields.Comment = comment.String()
	}
	return fields, found
}
