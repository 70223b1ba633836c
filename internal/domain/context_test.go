package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewEvaluationContext tests construction from untyped payloads:
// defaulted keys, degraded mistyped fields, and custom attribute routing.
func TestNewEvaluationContext(t *testing.T) {
	t.Run("nil payload defaults", func(t *testing.T) {
		ec := NewEvaluationContext(nil)
		assert.Equal(t, DefaultContextKey, ec.Key, "key should default")
		assert.False(t, ec.Anonymous, "anonymous should default false")
	})

	t.Run("blank key defaults", func(t *testing.T) {
		ec := NewEvaluationContext(map[string]any{"key": "   "})
		assert.Equal(t, DefaultContextKey, ec.Key, "blank key should fall back")
	})

	t.Run("full payload", func(t *testing.T) {
		ec := NewEvaluationContext(map[string]any{
			"key":             "user-7",
			"anonymous":       true,
			"name":            "Sam",
			"plan":            "pro",
			"owned_platforms": []any{"pc", "switch"},
			"favorite_genre":  "rpg",
		})

		assert.Equal(t, "user-7", ec.Key, "key should be taken from payload")
		assert.True(t, ec.Anonymous, "anonymous should be parsed")
		assert.Equal(t, "Sam", ec.Name, "name should be parsed")
		assert.Equal(t, "pro", ec.Plan, "plan should be parsed")
		assert.Equal(t, []string{"pc", "switch"}, ec.OwnedPlatforms,
			"platform list should be parsed")
		assert.Equal(t, map[string]any{"favorite_genre": "rpg"}, ec.Custom,
			"unrecognized fields should land in custom attributes")
	})

	t.Run("mistyped fields degrade", func(t *testing.T) {
		ec := NewEvaluationContext(map[string]any{
			"key":       42,
			"anonymous": "yes",
			"name":      []any{"not", "a", "string"},
		})

		assert.Equal(t, DefaultContextKey, ec.Key, "non-string key should fall back")
		assert.False(t, ec.Anonymous, "non-bool anonymous should degrade to false")
		assert.Empty(t, ec.Name, "non-string name should degrade to empty")
	})
}

// TestEvaluationContext_Attributes tests the flattened attribute view used
// for template interpolation.
func TestEvaluationContext_Attributes(t *testing.T) {
	ec := EvaluationContext{
		Key:    "user-7",
		Name:   "Sam",
		Plan:   "pro",
		Custom: map[string]any{"tier": 2},
	}

	attrs := ec.Attributes()
	assert.Equal(t, "user-7", attrs["key"], "key should always be present")
	assert.Equal(t, "Sam", attrs["name"], "set fields should appear")
	assert.Equal(t, 2, attrs["tier"], "custom attributes should appear")
	assert.NotContains(t, attrs, "region", "empty fields should be omitted")
	assert.NotContains(t, attrs, "anonymous", "false anonymous should be omitted")
}
