package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/mensetsu/internal/config"
)

type envConfig struct {
	Env                       string `env:"ENV" envDefault:"production"`
	DiscordToken              string `env:"DISCORD_TOKEN,required"`
	DiscordGuildID            string `env:"DISCORD_GUILD_ID"`
	DiscordInterviewChannelID string `env:"DISCORD_INTERVIEW_CHANNEL_ID"`
	LLMProvider               string `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMModel                  string `env:"LLM_MODEL"`
	OpenAIAPIKey              string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL             string `env:"OPENAI_BASE_URL"`
	GeminiAPIKey              string `env:"GEMINI_API_KEY"`
	GeminiBaseURL             string `env:"GEMINI_BASE_URL"`
	AnthropicAPIKey           string `env:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL          string `env:"ANTHROPIC_BASE_URL"`
	OllamaHost                string `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`
	LLMRequestTimeoutSec      int    `env:"LLM_REQUEST_TIMEOUT_SEC" envDefault:"120"`
	PromptsDir                string `env:"PROMPTS_DIR" envDefault:"prompts"`
	ReportDir                 string `env:"REPORT_DIR" envDefault:"dialogs"`
	ReportTimezone            string `env:"REPORT_TIMEZONE" envDefault:"Europe/Moscow"`
	ReportKeepFiles           bool   `env:"REPORT_KEEP_FILES" envDefault:"true"`
	ReportWebhookURL          string `env:"REPORT_WEBHOOK_URL"`
	DatabaseURL               string `env:"DATABASE_URL"`
	MetricsAddr               string `env:"METRICS_ADDR"`
	SessionTTLHours           int    `env:"SESSION_TTL_HOURS" envDefault:"168"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                       raw.Env,
		DiscordToken:              raw.DiscordToken,
		DiscordGuildID:            raw.DiscordGuildID,
		DiscordInterviewChannelID: raw.DiscordInterviewChannelID,
		LLMProvider:               raw.LLMProvider,
		LLMModel:                  raw.LLMModel,
		OpenAIAPIKey:              raw.OpenAIAPIKey,
		OpenAIBaseURL:             raw.OpenAIBaseURL,
		GeminiAPIKey:              raw.GeminiAPIKey,
		GeminiBaseURL:             raw.GeminiBaseURL,
		AnthropicAPIKey:           raw.AnthropicAPIKey,
		AnthropicBaseURL:          raw.AnthropicBaseURL,
		OllamaHost:                raw.OllamaHost,
		LLMRequestTimeoutSec:      raw.LLMRequestTimeoutSec,
		PromptsDir:                raw.PromptsDir,
		ReportDir:                 raw.ReportDir,
		ReportTimezone:            raw.ReportTimezone,
		ReportKeepFiles:           raw.ReportKeepFiles,
		ReportWebhookURL:          raw.ReportWebhookURL,
		DatabaseURL:               raw.DatabaseURL,
		MetricsAddr:               raw.MetricsAddr,
		SessionTTLHours:           raw.SessionTTLHours,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
