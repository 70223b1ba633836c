// Package config loads the gateway's process configuration: environment
// variables layered over an optional YAML file, with hard-coded fallback
// defaults and struct validation.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Default configuration-slot keys. All three are environment-overridable.
const (
	DefaultPromptKey    = "talkin-ship-prompt"
	DefaultJudgeKey     = "talkin-ship-judge"
	DefaultJudgeEvalKey = "brand-accuracy"
)

// Config is the gateway's complete process configuration.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string `yaml:"addr" validate:"required"`
	// LogMode selects the zap logger profile.
	LogMode string `yaml:"log_mode" validate:"required,oneof=development production"`

	Provider     ProviderConfig     `yaml:"provider"`
	LaunchDarkly LaunchDarklyConfig `yaml:"launchdarkly"`
}

// ProviderConfig selects and credentials the active LLM backend. Exactly
// one backend is active per deployment.
type ProviderConfig struct {
	// Name picks the backend family.
	Name string `yaml:"name" validate:"required,oneof=bedrock openai anthropic google"`
	// Region selects the AWS region for the bedrock backend. Left empty
	// it fails at first request, not at boot, so a deployment using a
	// key-based backend never needs it.
	Region string `yaml:"region"`
	// Per-backend API keys; only the active backend's key is consulted.
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	GeminiAPIKey    string `yaml:"gemini_api_key"`
	// BaseURL overrides the backend's default endpoint, mainly for
	// proxied deployments.
	BaseURL string `yaml:"base_url"`
	// TimeoutSeconds bounds every backend invocation.
	TimeoutSeconds int `yaml:"timeout_seconds" validate:"required,min=1,max=600"`
	// RequestsPerSecond rate-limits backend calls; zero disables limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"min=0"`
}

// Timeout returns the per-invocation deadline.
func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// LaunchDarklyConfig connects the gateway to its configuration service.
type LaunchDarklyConfig struct {
	// SDKKey authenticates the SDK connection. Left empty it fails at
	// first request with config_unavailable, never at boot.
	SDKKey string `yaml:"sdk_key"`
	// InitWaitSeconds bounds how long client setup waits for the initial
	// flag payload.
	InitWaitSeconds int `yaml:"init_wait_seconds" validate:"required,min=1,max=60"`

	// Configuration-slot keys.
	PromptKey    string `yaml:"prompt_key" validate:"required"`
	JudgeKey     string `yaml:"judge_key" validate:"required"`
	JudgeEvalKey string `yaml:"judge_eval_key" validate:"required"`
}

// InitWait returns the SDK initialization deadline.
func (l LaunchDarklyConfig) InitWait() time.Duration {
	return time.Duration(l.InitWaitSeconds) * time.Second
}

// APIKey returns the credential for the named backend, empty for bedrock
// which uses the ambient AWS credential chain.
func (p ProviderConfig) APIKey() string {
	switch p.Name {
	case "openai":
		return p.OpenAIAPIKey
	case "anthropic":
		return p.AnthropicAPIKey
	case "google":
		return p.GeminiAPIKey
	default:
		return ""
	}
}

func defaults() *Config {
	return &Config{
		Addr:    ":8080",
		LogMode: "production",
		Provider: ProviderConfig{
			Name:           "bedrock",
			TimeoutSeconds: 30,
		},
		LaunchDarkly: LaunchDarklyConfig{
			InitWaitSeconds: 5,
			PromptKey:       DefaultPromptKey,
			JudgeKey:        DefaultJudgeKey,
			JudgeEvalKey:    DefaultJudgeEvalKey,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file
// named by GATEWAY_CONFIG, and environment overrides, in that order of
// increasing precedence.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("GATEWAY_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.Addr, "GATEWAY_ADDR")
	setFromEnv(&cfg.LogMode, "LOG_MODE")

	setFromEnv(&cfg.Provider.Name, "GATEWAY_PROVIDER")
	setFromEnv(&cfg.Provider.Region, "AWS_REGION", "AWS_DEFAULT_REGION")
	setFromEnv(&cfg.Provider.OpenAIAPIKey, "OPENAI_API_KEY")
	setFromEnv(&cfg.Provider.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setFromEnv(&cfg.Provider.GeminiAPIKey, "GEMINI_API_KEY")
	setFromEnv(&cfg.Provider.BaseURL, "GATEWAY_PROVIDER_BASE_URL")

	setFromEnv(&cfg.LaunchDarkly.SDKKey, "LAUNCHDARKLY_SDK_KEY")
	setFromEnv(&cfg.LaunchDarkly.PromptKey, "LD_AI_CONFIG_PROMPT_KEY")
	setFromEnv(&cfg.LaunchDarkly.JudgeKey, "LD_AI_CONFIG_JUDGE_KEY")
	setFromEnv(&cfg.LaunchDarkly.JudgeEvalKey, "LD_AI_CONFIG_JUDGE_EVAL_KEY")
}

// setFromEnv assigns the first non-empty value among the named variables.
func setFromEnv(target *string, names ...string) {
	for _, name := range names {
		if value := os.Getenv(name); value != "" {
			*target = value
			return
		}
	}
}
