package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCodeFor tests the error-to-code mapping, including wrapped sentinels
// and the catch-all for everything else.
func TestCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorCode
	}{
		{err: ErrUnknownType, want: CodeUnknownType},
		{err: ErrConfigUnavailable, want: CodeConfigUnavailable},
		{err: ErrConfigDisabled, want: CodeConfigDisabled},
		{err: ErrModelUnavailable, want: CodeModelUnavailable},
		{err: ErrInvalidPrompt, want: CodeInvalidPrompt},
		{err: ErrInvalidJudge, want: CodeInvalidJudge},
		{err: fmt.Errorf("resolving slot: %w", ErrConfigUnavailable), want: CodeConfigUnavailable},
		{err: errors.New("anything else"), want: CodeConfigError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CodeFor(tt.err), "%v should map to %s", tt.err, tt.want)
	}
}
