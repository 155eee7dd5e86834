package usecases

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
)

// mockIndex implements ports.DocumentIndex with a fixed snapshot.
type mockIndex struct {
	chunks []entities.ScoredChunk
	calls  int
	lastK  int
}

func (m *mockIndex) Lookup(ctx context.Context, query string, k int) []entities.ScoredChunk {
	m.calls++
	m.lastK = k
	if len(m.chunks) > k {
		return m.chunks[:k]
	}
	return m.chunks
}

// mockSearcher implements ports.WebSearcher and counts invocations.
type mockSearcher struct {
	results []entities.SearchResult
	err     error
	calls   int
	lastMax int
}

func (m *mockSearcher) Search(ctx context.Context, query string, maxResults int) ([]entities.SearchResult, error) {
	m.calls++
	m.lastMax = maxResults
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// mockModel implements ports.ChatModel.
type mockModel struct {
	response   string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (m *mockModel) Complete(ctx context.Context, system, user string) (string, error) {
	m.calls++
	m.lastSystem = system
	m.lastUser = user
	if m.err != nil {
		return "", m.err
	}
	if m.response != "" {
		return m.response, nil
	}
	return "mocked answer", nil
}

// mockEmbedder implements ports.EmbeddingService for testing.
type mockEmbedder struct {
	embedFn func(text string) ([]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.embedFn != nil {
		return m.embedFn(text)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i := range texts {
		emb, err := m.Embed(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		result[i] = emb
	}
	return result, nil
}

// mockVectorStore implements ports.VectorStore for testing.
type mockVectorStore struct {
	chunks    []entities.Chunk
	distances []float64
	searchErr error
	storeFn   func(chunks []entities.Chunk) error
	deleted   []string
	cleared   int
}

func (m *mockVectorStore) Store(ctx context.Context, chunks []entities.Chunk) error {
	if m.storeFn != nil {
		return m.storeFn(chunks)
	}
	m.chunks = append(m.chunks, chunks...)
	return nil
}

func (m *mockVectorStore) Search(ctx context.Context, emb []float32, topK int) ([]entities.ScoredChunk, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	var results []entities.ScoredChunk
	for i, c := range m.chunks {
		if i >= topK {
			break
		}
		d := 0.1
		if i < len(m.distances) {
			d = m.distances[i]
		}
		results = append(results, entities.ScoredChunk{Chunk: c, Distance: d})
	}
	return results, nil
}

func (m *mockVectorStore) Delete(ctx context.Context, docID string) error {
	m.deleted = append(m.deleted, docID)
	kept := m.chunks[:0]
	for _, c := range m.chunks {
		if c.DocumentID != docID {
			kept = append(kept, c)
		}
	}
	m.chunks = kept
	return nil
}

func (m *mockVectorStore) Clear(ctx context.Context) error {
	m.cleared++
	m.chunks = nil
	return nil
}

func (m *mockVectorStore) Count(ctx context.Context) (int, error) {
	return len(m.chunks), nil
}

// mockLoader implements ports.DocumentLoader with canned pages per file name.
type mockLoader struct {
	pages map[string][]entities.Page
}

func (m *mockLoader) Load(ctx context.Context, path string) (*entities.Document, error) {
	name := filepath.Base(path)
	pages, ok := m.pages[name]
	if !ok {
		return nil, errors.New("unreadable file")
	}
	return &entities.Document{Name: name, Path: path, Pages: pages}, nil
}

func (m *mockLoader) SupportedExtensions() []string {
	return []string{".txt", ".pdf"}
}

func scored(source string, page int, text string, distance float64) entities.ScoredChunk {
	return entities.ScoredChunk{
		Chunk:    entities.Chunk{SourceID: source, Page: page, Text: text},
		Distance: distance,
	}
}
