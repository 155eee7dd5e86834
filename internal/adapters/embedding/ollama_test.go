package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func TestOllamaAdapter_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": []float32{0.1, 0.2, 0.3},
		})
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "test-model")
	emb, err := adapter.Embed(context.Background(), "hello")

	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	if len(emb) != 3 {
		t.Errorf("expected 3 dims, got %d", len(emb))
	}
}

func TestOllamaAdapter_EmbedBatch(t *testing.T) {
	callCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": []float32{float32(callCount) * 0.1},
		})
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "test-model")
	results, err := adapter.EmbedBatch(context.Background(), []string{"a", "b", "c"})

	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestOllamaAdapter_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "test")
	_, err := adapter.Embed(context.Background(), "test")

	if err == nil {
		t.Error("should error on 500")
	}
}

func TestOllamaAdapter_EmptyEmbedding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embedding":[]}`))
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "test")
	if _, err := adapter.Embed(context.Background(), "test"); err == nil {
		t.Error("empty embedding should be an error")
	}
}

func TestOllamaAdapter_DefaultValues(t *testing.T) {
	adapter := NewOllamaAdapter("", "")
	if adapter.endpoint != "http://localhost:11434/api/embeddings" {
		t.Errorf("should default to localhost, got %s", adapter.endpoint)
	}
	if adapter.model != "nomic-embed-text" {
		t.Error("should default to nomic-embed-text")
	}
}

func TestOllamaAdapter_TrailingSlash(t *testing.T) {
	adapter := NewOllamaAdapter("http://ollama:11434/", "m")
	if adapter.endpoint != "http://ollama:11434/api/embeddings" {
		t.Errorf("unexpected endpoint: %s", adapter.endpoint)
	}
}

func TestOllamaAdapter_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model \"missing\" not found"}`))
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "missing")
	_, err := adapter.Embed(context.Background(), "test")

	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected Ollama's message in error, got %v", err)
	}
}

func TestOllamaAdapter_DimensionDrift(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	sizes := []int{3, 3, 2}
	call := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		emb := make([]float32, sizes[call])
		emb[0] = 1
		call++
		json.NewEncoder(w).Encode(map[string]interface{}{"embedding": emb})
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "test-model")
	if adapter.Dimensions() != 0 {
		t.Fatalf("dimensions before first call = %d", adapter.Dimensions())
	}

	results, err := adapter.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if len(results[2]) != 2 {
		t.Errorf("drifted vector should still be returned, got %d dims", len(results[2]))
	}
	if adapter.Dimensions() != 3 {
		t.Errorf("Dimensions() = %d, want first seen 3", adapter.Dimensions())
	}
	if strings.Count(buf.String(), "[WARN]") != 1 {
		t.Errorf("expected one drift warning, log:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "from 3 to 2") {
		t.Errorf("warning should name both sizes, log:\n%s", buf.String())
	}
}

func TestOllamaAdapter_EmbedBatchCancelled(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]interface{}{"embedding": []float32{1}})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	adapter := NewOllamaAdapter(server.URL, "test-model")
	_, err := adapter.EmbedBatch(ctx, []string{"a", "b"})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("no requests expected after cancel, got %d", calls)
	}
}
