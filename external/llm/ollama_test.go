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

func TestOllamaComplete_NonStreaming(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"model":"llama-test","created_at":"2024-01-01T00:00:00Z","message":{"role":"assistant","content":"Привет"},"done":true}`)
	}))
	defer server.Close()

	c, err := NewOllamaCompleter(OllamaConfig{Host: server.URL, Model: "llama-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reply, err := c.Complete(context.Background(), llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleSystem, Content: "sys"}, {Role: llm.RoleUser, Content: "user"}},
		MaxTokens:   100,
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Привет" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if got["stream"] != false {
		t.Fatalf("expected non-streaming request, got %v", got["stream"])
	}
	options, _ := got["options"].(map[string]any)
	if options["num_predict"] != float64(100) {
		t.Fatalf("unexpected options: %v", options)
	}
}

func TestNewOllamaCompleter_InvalidHost(t *testing.T) {
	if _, err := NewOllamaCompleter(OllamaConfig{Host: "://bad", Model: "m"}); err == nil {
		t.Fatal("expected error for invalid host")
	}
}
