package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/foxseedlab/mensetsu/internal/llm"
	"google.golang.org/genai"
)

type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// GeminiCompleter creates its SDK client on first use because genai.NewClient needs a context.
type GeminiCompleter struct {
	apiKey  string
	baseURL string
	model   string

	mu     sync.Mutex
	client *genai.Client
}

func NewGeminiCompleter(cfg GeminiConfig) llm.Completer {
	return &GeminiCompleter{apiKey: cfg.APIKey, baseURL: cfg.BaseURL, model: cfg.Model}
}

func (g *GeminiCompleter) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: g.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	g.client = client
	return client, nil
}

func (g *GeminiCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return "", err
	}

	system, rest := llm.SplitSystem(req.Messages)
	contents := make([]*genai.Content, 0, len(rest))
	for _, m := range rest {
		contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
	}

	temperature := float32(req.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	result, err := client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	text := result.Text()
	if text == "" {
		return "", errors.New("gemini returned no text")
	}
	return text, nil
}

func (g *GeminiCompleter) Provider() string {
	return "gemini"
}

func (g *GeminiCompleter) Model() string {
	return g.model
}
