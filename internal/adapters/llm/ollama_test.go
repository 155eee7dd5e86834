package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaLLM_Complete(t *testing.T) {
	var got ollamaGenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"response": "Hello there!",
			"done":     true,
		})
	}))
	defer server.Close()

	adapter := NewOllamaLLMAdapter(server.URL, "test-model", 0.7, 512)
	resp, err := adapter.Complete(context.Background(), "be brief", "Hi")

	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if resp != "Hello there!" {
		t.Errorf("unexpected response: %s", resp)
	}
	if got.System != "be brief" || got.Prompt != "Hi" {
		t.Errorf("messages not forwarded: %+v", got)
	}
	if got.Stream {
		t.Error("request should not stream")
	}
	if got.Options.NumPredict != 512 {
		t.Errorf("max tokens not forwarded: %+v", got.Options)
	}
}

func TestOllamaLLM_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	adapter := NewOllamaLLMAdapter(server.URL, "test", 0, 0)
	_, err := adapter.Complete(context.Background(), "", "test")

	if err == nil {
		t.Error("should error on 404")
	}
}

func TestOllamaLLM_DefaultValues(t *testing.T) {
	adapter := NewOllamaLLMAdapter("", "", 0, 0)
	if adapter.baseURL != "http://localhost:11434" {
		t.Error("should default to localhost")
	}
	if adapter.model != "llama3.2" {
		t.Error("should default to llama3.2")
	}
}
