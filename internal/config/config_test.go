package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearGatewayEnv blanks every variable Load consults so tests control the
// full environment.
func clearGatewayEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"GATEWAY_CONFIG", "GATEWAY_ADDR", "LOG_MODE",
		"GATEWAY_PROVIDER", "AWS_REGION", "AWS_DEFAULT_REGION",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY",
		"GATEWAY_PROVIDER_BASE_URL", "LAUNCHDARKLY_SDK_KEY",
		"LD_AI_CONFIG_PROMPT_KEY", "LD_AI_CONFIG_JUDGE_KEY",
		"LD_AI_CONFIG_JUDGE_EVAL_KEY",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

// TestLoad_Defaults tests the fallback configuration with no environment
// and no file, including the hard-coded slot keys.
func TestLoad_Defaults(t *testing.T) {
	clearGatewayEnv(t)

	cfg, err := Load()
	require.NoError(t, err, "defaults alone should validate")

	assert.Equal(t, ":8080", cfg.Addr, "default listen address")
	assert.Equal(t, "production", cfg.LogMode, "default log mode")
	assert.Equal(t, "bedrock", cfg.Provider.Name, "default provider")
	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout(), "default timeout")
	assert.Equal(t, "talkin-ship-prompt", cfg.LaunchDarkly.PromptKey, "default prompt slot")
	assert.Equal(t, "talkin-ship-judge", cfg.LaunchDarkly.JudgeKey, "default judge slot")
	assert.Equal(t, "brand-accuracy", cfg.LaunchDarkly.JudgeEvalKey, "default scoring slot")
	assert.Empty(t, cfg.LaunchDarkly.SDKKey, "missing SDK key is not a boot failure")
}

// TestLoad_EnvironmentOverrides tests that environment variables win over
// defaults, including the AWS region alias.
func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearGatewayEnv(t)
	t.Setenv("GATEWAY_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AWS_DEFAULT_REGION", "eu-west-1")
	t.Setenv("LD_AI_CONFIG_PROMPT_KEY", "custom-prompt")
	t.Setenv("LAUNCHDARKLY_SDK_KEY", "sdk-123")

	cfg, err := Load()
	require.NoError(t, err, "environment overrides should validate")

	assert.Equal(t, "openai", cfg.Provider.Name, "provider should come from env")
	assert.Equal(t, "sk-test", cfg.Provider.APIKey(), "active backend key should resolve")
	assert.Equal(t, "eu-west-1", cfg.Provider.Region, "region alias should apply")
	assert.Equal(t, "custom-prompt", cfg.LaunchDarkly.PromptKey, "slot key should come from env")
	assert.Equal(t, "sdk-123", cfg.LaunchDarkly.SDKKey, "SDK key should come from env")
}

// TestLoad_YAMLFileAndPrecedence tests file loading and that environment
// variables beat file values.
func TestLoad_YAMLFileAndPrecedence(t *testing.T) {
	clearGatewayEnv(t)

	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":9090"
log_mode: development
provider:
  name: anthropic
  anthropic_api_key: from-file
  timeout_seconds: 10
`), 0o600), "writing fixture should succeed")
	t.Setenv("GATEWAY_CONFIG", path)
	t.Setenv("GATEWAY_PROVIDER", "google")

	cfg, err := Load()
	require.NoError(t, err, "file plus env should validate")

	assert.Equal(t, ":9090", cfg.Addr, "file value should apply")
	assert.Equal(t, "development", cfg.LogMode, "file value should apply")
	assert.Equal(t, 10*time.Second, cfg.Provider.Timeout(), "file timeout should parse")
	assert.Equal(t, "google", cfg.Provider.Name, "env should beat the file")
}

// TestLoad_InvalidProvider tests that an unrecognized provider name fails
// validation.
func TestLoad_InvalidProvider(t *testing.T) {
	clearGatewayEnv(t)
	t.Setenv("GATEWAY_PROVIDER", "llamacpp")

	_, err := Load()
	require.Error(t, err, "unknown provider should fail validation")
	assert.Contains(t, err.Error(), "oneof", "validator should flag the provider name")
}

// TestProviderConfig_APIKey tests key selection per backend family.
func TestProviderConfig_APIKey(t *testing.T) {
	p := ProviderConfig{
		OpenAIAPIKey:    "openai-key",
		AnthropicAPIKey: "anthropic-key",
		GeminiAPIKey:    "gemini-key",
	}

	p.Name = "openai"
	assert.Equal(t, "openai-key", p.APIKey(), "openai should pick its key")
	p.Name = "anthropic"
	assert.Equal(t, "anthropic-key", p.APIKey(), "anthropic should pick its key")
	p.Name = "google"
	assert.Equal(t, "gemini-key", p.APIKey(), "google should pick the gemini key")
	p.Name = "bedrock"
	assert.Empty(t, p.APIKey(), "bedrock uses the ambient credential chain")
}
