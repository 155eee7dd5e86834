package usecases

import (
	"context"
	"log"
	"sort"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
	"github.com/0xcro3dile/hybridrag-go/internal/domain/ports"
)

// Retriever implements ports.DocumentIndex over an embedder and a vector store.
// Any embedding or storage failure degrades to an empty result.
type Retriever struct {
	embedder    ports.EmbeddingService
	vectorStore ports.VectorStore
}

// NewRetriever creates a Retriever with injected dependencies.
func NewRetriever(embedder ports.EmbeddingService, vectorStore ports.VectorStore) *Retriever {
	return &Retriever{embedder: embedder, vectorStore: vectorStore}
}

// Lookup embeds the query and returns up to k chunks, nearest first.
func (r *Retriever) Lookup(ctx context.Context, query string, k int) []entities.ScoredChunk {
	if r == nil || r.embedder == nil || r.vectorStore == nil || k <= 0 {
		return nil
	}

	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		log.Printf("[WARN] Embedding query failed, treating index as empty: %v", err)
		return nil
	}

	results, err := r.vectorStore.Search(ctx, embedding, k)
	if err != nil {
		log.Printf("[WARN] Searching index failed, treating index as empty: %v", err)
		return nil
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if len(results) > k {
		results = results[:k]
	}
	return results
}

var _ ports.DocumentIndex = (*Retriever)(nil)
