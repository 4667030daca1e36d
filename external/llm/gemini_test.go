package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foxseedlab/mensetsu/internal/llm"
)

func newGeminiServer(t *testing.T, response string, got *map[string]any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGeminiComplete_SendsSystemInstructionAndLimits(t *testing.T) {
	var got map[string]any
	server := newGeminiServer(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Здравствуйте"}]}}]}`, &got)

	c := NewGeminiCompleter(GeminiConfig{APIKey: "k", BaseURL: server.URL, Model: "gemini-test"})
	reply, err := c.Complete(context.Background(), llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "sys"},
			{Role: llm.RoleUser, Content: "user"},
		},
		MaxTokens:   3000,
		Temperature: 0.3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Здравствуйте" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	contents, ok := got["contents"].([]any)
	if !ok || len(contents) != 1 {
		t.Fatalf("expected only the user message in contents, got %v", got["contents"])
	}
	system, ok := got["systemInstruction"].(map[string]any)
	if !ok {
		t.Fatalf("expected system instruction, got %v", got["systemInstruction"])
	}
	parts, _ := system["parts"].([]any)
	if len(parts) != 1 || parts[0].(map[string]any)["text"] != "sys" {
		t.Fatalf("unexpected system instruction: %v", system)
	}
	gen, ok := got["generationConfig"].(map[string]any)
	if !ok {
		t.Fatalf("expected generation config, got %v", got)
	}
	if temp, _ := gen["temperature"].(float64); temp < 0.29 || temp > 0.31 {
		t.Fatalf("unexpected temperature: %v", gen["temperature"])
	}
	if gen["maxOutputTokens"] != float64(3000) {
		t.Fatalf("unexpected max tokens: %v", gen["maxOutputTokens"])
	}
	if c.Provider() != "gemini" || c.Model() != "gemini-test" {
		t.Fatalf("unexpected identity: %s/%s", c.Provider(), c.Model())
	}
}

func TestGeminiComplete_EmptyTextIsError(t *testing.T) {
	var got map[string]any
	server := newGeminiServer(t, `{"candidates":[]}`, &got)

	c := NewGeminiCompleter(GeminiConfig{APIKey: "k", BaseURL: server.URL, Model: "gemini-test"})
	reply, err := c.Complete(context.Background(), llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: "user"}},
		MaxTokens:   100,
		Temperature: 0.7,
	})
	if err == nil {
		t.Fatalf("expected error for empty reply, got %q", reply)
	}
}
