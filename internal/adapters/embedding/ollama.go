// Package embedding provides embedding adapters.
// Clean Architecture: Adapters that implement ports.EmbeddingService.
// They know about provider specifics but the domain layer doesn't.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/ports"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "nomic-embed-text"
)

// OllamaAdapter implements ports.EmbeddingService against Ollama's
// /api/embeddings endpoint.
type OllamaAdapter struct {
	endpoint string
	model    string
	client   *http.Client

	mu   sync.Mutex
	dims int
}

// NewOllamaAdapter creates a new Ollama embedding adapter.
func NewOllamaAdapter(baseURL, model string) *OllamaAdapter {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if model == "" {
		model = defaultOllamaModel
	}
	return &OllamaAdapter{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/embeddings",
		model:    model,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error"`
}

// Dimensions reports the vector size of the first embedding returned,
// or 0 before any call succeeded.
func (a *OllamaAdapter) Dimensions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dims
}

// Embed generates an embedding for a single text.
func (a *OllamaAdapter) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: a.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		log.Printf("[ERROR] Ollama call error: %v", err)
		return nil, fmt.Errorf("calling Ollama: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var out embedResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && out.Error != "" {
			return nil, fmt.Errorf("Ollama returned status %d: %s", resp.StatusCode, out.Error)
		}
		return nil, fmt.Errorf("Ollama returned status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decoding response: %w", decodeErr)
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("Ollama returned an empty embedding for model %s", a.model)
	}

	a.observe(len(out.Embedding))
	return out.Embedding, nil
}

// observe pins the dimension on first use and flags later drift, which
// usually means the embedding model was swapped under an existing index.
func (a *OllamaAdapter) observe(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case a.dims == 0:
		a.dims = n
		log.Printf("[INFO] Embedding model %s produces %d dimensions", a.model, n)
	case a.dims != n:
		log.Printf("[WARN] Embedding dimension changed from %d to %d (model %s); rebuild the index with --force", a.dims, n, a.model)
	}
}

// EmbedBatch generates embeddings for multiple texts.
// Ollama's endpoint takes one prompt per call, so texts are sent in order.
func (a *OllamaAdapter) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		emb, err := a.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		embeddings = append(embeddings, emb)
	}
	return embeddings, nil
}

var _ ports.EmbeddingService = (*OllamaAdapter)(nil)
