package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/foxseedlab/mensetsu/internal/llm"
	"github.com/ollama/ollama/api"
)

type OllamaConfig struct {
	Host  string
	Model string
}

type OllamaCompleter struct {
	client *api.Client
	model  string
}

func NewOllamaCompleter(cfg OllamaConfig) (llm.Completer, error) {
	host, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_HOST %q: %w", cfg.Host, err)
	}
	return &OllamaCompleter{
		client: api.NewClient(host, http.DefaultClient),
		model:  cfg.Model,
	}, nil
}

func (o *OllamaCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	messages := make([]api.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, api.Message{Role: string(m.Role), Content: m.Content})
	}

	stream := false
	chatReq := &api.ChatRequest{
		Model:    o.model,
		Messages: messages,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": req.Temperature,
			"num_predict": req.MaxTokens,
		},
	}

	var response api.ChatResponse
	err := o.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		response = resp
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	return response.Message.Content, nil
}

func (o *OllamaCompleter) Provider() string {
	return "ollama"
}

func (o *OllamaCompleter) Model() string {
	return o.model
}
