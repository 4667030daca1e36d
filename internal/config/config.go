package config

import (
	"fmt"
	"time"
)

const (
	LLMProviderOpenAI    = "openai"
	LLMProviderGemini    = "gemini"
	LLMProviderAnthropic = "anthropic"
	LLMProviderOllama    = "ollama"
)

type Config struct {
	Env                       string
	DiscordToken              string
	DiscordGuildID            string
	DiscordInterviewChannelID string
	LLMProvider               string
	LLMModel                  string
	OpenAIAPIKey              string
	OpenAIBaseURL             string
	GeminiAPIKey              string
	GeminiBaseURL             string
	AnthropicAPIKey           string
	AnthropicBaseURL          string
	OllamaHost                string
	LLMRequestTimeoutSec      int
	PromptsDir                string
	ReportDir                 string
	ReportTimezone            string
	ReportKeepFiles           bool
	ReportWebhookURL          string
	DatabaseURL               string
	MetricsAddr               string
	SessionTTLHours           int
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if key, ok := c.providerKeyCheck(); ok && key.value == "" {
		return fmt.Errorf("%s is required when LLM_PROVIDER=%s", key.name, c.LLMProvider)
	}
	if !isKnownProvider(c.LLMProvider) {
		return fmt.Errorf("LLM_PROVIDER must be one of openai, gemini, anthropic, ollama, got %q", c.LLMProvider)
	}
	if c.LLMRequestTimeoutSec <= 0 {
		return fmt.Errorf("LLM_REQUEST_TIMEOUT_SEC must be positive, got %d", c.LLMRequestTimeoutSec)
	}
	if c.SessionTTLHours < 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must not be negative, got %d", c.SessionTTLHours)
	}
	if _, err := time.LoadLocation(c.ReportTimezone); err != nil {
		return fmt.Errorf("REPORT_TIMEZONE is invalid: %w", err)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "DISCORD_TOKEN", value: c.DiscordToken},
		{name: "LLM_PROVIDER", value: c.LLMProvider},
		{name: "PROMPTS_DIR", value: c.PromptsDir},
		{name: "REPORT_DIR", value: c.ReportDir},
		{name: "REPORT_TIMEZONE", value: c.ReportTimezone},
	}
}

func (c *Config) providerKeyCheck() (requiredEnvField, bool) {
	switch c.LLMProvider {
	case LLMProviderOpenAI:
		return requiredEnvField{name: "OPENAI_API_KEY", value: c.OpenAIAPIKey}, true
	case LLMProviderGemini:
		return requiredEnvField{name: "GEMINI_API_KEY", value: c.GeminiAPIKey}, true
	case LLMProviderAnthropic:
		return requiredEnvField{name: "ANTHROPIC_API_KEY", value: c.AnthropicAPIKey}, true
	case LLMProviderOllama:
		return requiredEnvField{name: "OLLAMA_HOST", value: c.OllamaHost}, true
	default:
		return requiredEnvField{}, false
	}
}

func isKnownProvider(provider string) bool {
	switch provider {
	case LLMProviderOpenAI, LLMProviderGemini, LLMProviderAnthropic, LLMProviderOllama:
		return true
	default:
		return false
	}
}

// Model returns the configured model, or the provider default when LLM_MODEL is empty.
func (c *Config) Model() string {
	if c.LLMModel != "" {
		return c.LLMModel
	}
	switch c.LLMProvider {
	case LLMProviderGemini:
		return "gemini-2.5-flash"
	case LLMProviderAnthropic:
		return "claude-sonnet-4-5"
	case LLMProviderOllama:
		return "llama3.1"
	default:
		return "gpt-4.1-mini"
	}
}

func (c *Config) LLMRequestTimeout() time.Duration {
	return time.Duration(c.LLMRequestTimeoutSec) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *Config) ReportLocation() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
