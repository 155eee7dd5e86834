package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
)

func TestRetriever_ReturnsAscendingDistance(t *testing.T) {
	store := &mockVectorStore{
		chunks: []entities.Chunk{
			{ID: "c1", Text: "far"},
			{ID: "c2", Text: "near"},
		},
		distances: []float64{0.8, 0.2},
	}
	r := NewRetriever(&mockEmbedder{}, store)

	results := r.Lookup(context.Background(), "q", 4)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Chunk.ID != "c2" {
		t.Error("nearest chunk should come first")
	}
}

func TestRetriever_EmbeddingFailureIsEmpty(t *testing.T) {
	embedder := &mockEmbedder{embedFn: func(string) ([]float32, error) {
		return nil, errors.New("embedding service down")
	}}
	r := NewRetriever(embedder, &mockVectorStore{chunks: []entities.Chunk{{ID: "c1"}}})

	if got := r.Lookup(context.Background(), "q", 4); len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}

func TestRetriever_StoreFailureIsEmpty(t *testing.T) {
	r := NewRetriever(&mockEmbedder{}, &mockVectorStore{searchErr: errors.New("disk I/O error")})

	if got := r.Lookup(context.Background(), "q", 4); len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}

func TestRetriever_NilIsEmpty(t *testing.T) {
	var r *Retriever
	if got := r.Lookup(context.Background(), "q", 4); got != nil {
		t.Errorf("nil retriever should return nil, got %v", got)
	}
}

func TestRetriever_RespectsK(t *testing.T) {
	store := &mockVectorStore{chunks: []entities.Chunk{{ID: "1"}, {ID: "2"}, {ID: "3"}}}
	r := NewRetriever(&mockEmbedder{}, store)

	if got := r.Lookup(context.Background(), "q", 2); len(got) != 2 {
		t.Errorf("expected 2 results, got %d", len(got))
	}
}
