package vectordb

import (
	"context"
	"testing"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
)

func TestInMemoryStore_SearchOrdersByDistance(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	store.Store(ctx, []entities.Chunk{
		{ID: "far", DocumentID: "d", Embedding: []float32{0, 1}},
		{ID: "near", DocumentID: "d", Embedding: []float32{1, 0.1}},
	})

	results, err := store.Search(ctx, []float32{1, 0}, 1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 || results[0].Chunk.ID != "near" {
		t.Errorf("expected nearest chunk only, got %+v", results)
	}
}

func TestInMemoryStore_DeleteAndCount(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	store.Store(ctx, []entities.Chunk{
		{ID: "a", DocumentID: "d1", Embedding: []float32{1}},
		{ID: "b", DocumentID: "d2", Embedding: []float32{1}},
	})
	store.Store(ctx, []entities.Chunk{{ID: "a", DocumentID: "d1", Embedding: []float32{1}}})

	store.Delete(ctx, "d1")

	if n, _ := store.Count(ctx); n != 1 {
		t.Errorf("expected 1 chunk, got %d", n)
	}
	store.Clear(ctx)
	if n, _ := store.Count(ctx); n != 0 {
		t.Errorf("expected 0 chunks, got %d", n)
	}
}

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 0},
		{"orthogonal", []float32{1, 0, 0}, []float32{0, 1, 0}, 1},
		{"scaled copy", []float32{3, 4}, []float32{6, 8}, 0},
		{"sixty degrees", []float32{2, 0}, []float32{0.5, 0.8660254}, 0.5},
		{"opposite is clamped", []float32{1, 0}, []float32{-1, 0}, 1},
		{"length mismatch", []float32{1, 0}, []float32{1}, MaxDistance},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, MaxDistance},
		{"empty", nil, nil, MaxDistance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineDistance(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-5 || diff < -1e-5 {
				t.Errorf("cosineDistance = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestEmbeddingEncoding(t *testing.T) {
	vec := []float32{0.5, -1.25, 3}
	got, err := decodeEmbedding(encodeEmbedding(vec))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Errorf("index %d: got %f want %f", i, got[i], vec[i])
		}
	}
	if _, err := decodeEmbedding([]byte{1, 2, 3}); err == nil {
		t.Error("truncated blob should fail to decode")
	}
}
