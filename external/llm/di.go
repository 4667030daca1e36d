package llm

import (
	"fmt"

	"github.com/foxseedlab/mensetsu/internal/config"
	"github.com/foxseedlab/mensetsu/internal/llm"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (llm.Completer, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewCompleter(c)
	})
}

func NewCompleter(c *config.Config) (llm.Completer, error) {
	switch c.LLMProvider {
	case config.LLMProviderOpenAI:
		return NewOpenAICompleter(OpenAIConfig{
			APIKey:  c.OpenAIAPIKey,
			BaseURL: c.OpenAIBaseURL,
			Model:   c.Model(),
		}), nil
	case config.LLMProviderGemini:
		return NewGeminiCompleter(GeminiConfig{
			APIKey:  c.GeminiAPIKey,
			BaseURL: c.GeminiBaseURL,
			Model:   c.Model(),
		}), nil
	case config.LLMProviderAnthropic:
		return NewAnthropicCompleter(AnthropicConfig{
			APIKey:  c.AnthropicAPIKey,
			BaseURL: c.AnthropicBaseURL,
			Model:   c.Model(),
		}), nil
	case config.LLMProviderOllama:
		return NewOllamaCompleter(OllamaConfig{
			Host:  c.OllamaHost,
			Model: c.Model(),
		})
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", c.LLMProvider)
	}
}
