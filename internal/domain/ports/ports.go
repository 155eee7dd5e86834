// Package ports defines interfaces for external dependencies.
// Usecases depend on these abstractions, adapters implement them.
package ports

import (
	"context"
	"errors"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
)

// Error taxonomy shared by adapters and usecases.
var (
	ErrIndexUnavailable = errors.New("document index unavailable")
	ErrSearchFailed     = errors.New("web search failed")
	ErrGenerationFailed = errors.New("generation failed")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

// DocumentIndex looks up stored chunks nearest to a query.
// Results are ordered by ascending distance. An empty or absent index
// yields an empty slice, never an error.
type DocumentIndex interface {
	Lookup(ctx context.Context, query string, k int) []entities.ScoredChunk
}

// WebSearcher queries an external search provider.
// Results keep the provider's rank order, truncated to maxResults.
type WebSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]entities.SearchResult, error)
}

// ChatModel produces a single completion for a system + user message pair.
type ChatModel interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// EmbeddingService generates vector embeddings for text.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore persists and queries chunk embeddings.
type VectorStore interface {
	// Store saves chunks with their embeddings.
	Store(ctx context.Context, chunks []entities.Chunk) error

	// Search returns the topK chunks nearest to the embedding,
	// with cosine distance in [0,1], best match first.
	Search(ctx context.Context, embedding []float32, topK int) ([]entities.ScoredChunk, error)

	// Delete removes all chunks for a document.
	Delete(ctx context.Context, documentID string) error

	// Clear removes all data from the store.
	Clear(ctx context.Context) error

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)
}

// DocumentLoader reads and parses documents from various formats.
type DocumentLoader interface {
	// Load reads a document from the given path.
	Load(ctx context.Context, path string) (*entities.Document, error)

	// SupportedExtensions returns file extensions this loader handles.
	SupportedExtensions() []string
}

// DocumentParser extracts per-page text from binary formats (PDF).
type DocumentParser interface {
	Parse(ctx context.Context, data []byte, filename string) ([]entities.Page, error)
	SupportedFormats() []string
}

// FileWatcher monitors a directory for changes.
type FileWatcher interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)

func (op FileOperation) String() string {
	switch op {
	case FileCreated:
		return "created"
	case FileModified:
		return "modified"
	case FileDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}
