package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foxseedlab/mensetsu/internal/llm"
)

func TestAnthropicComplete_SystemIsSeparated(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"m1","type":"message","role":"assistant","model":"claude-test","content":[{"type":"text","text":"Hello "},{"type":"text","text":"there"}],"stop_reason":"end_turn","usage":{"input_tokens":3,"output_tokens":2}}`)
	}))
	defer server.Close()

	c := NewAnthropicCompleter(AnthropicConfig{APIKey: "k", BaseURL: server.URL, Model: "claude-test"})
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
	if reply != "Hello there" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	msgs, ok := got["messages"].([]any)
	if !ok || len(msgs) != 1 {
		t.Fatalf("expected only the user message, got %v", got["messages"])
	}
	system, ok := got["system"].([]any)
	if !ok || len(system) != 1 {
		t.Fatalf("expected system block, got %v", got["system"])
	}
	if c.Model() != "claude-test" || c.Provider() != "anthropic" {
		t.Fatalf("unexpected identity: %s/%s", c.Provider(), c.Model())
	}
}
