package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
	"github.com/0xcro3dile/hybridrag-go/internal/domain/ports"
)

// Chunking defaults, in characters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// maxParallelLoads bounds concurrent document loading.
const maxParallelLoads = 4

// IngestReport summarises one folder ingestion.
type IngestReport struct {
	Dir    string `json:"dir"`
	Files  int    `json:"files"`
	Pages  int    `json:"pages"`
	Chunks int    `json:"chunks"`
	Reused bool   `json:"reused"`
}

// HasIndex reports whether the ingestion left a usable index behind.
func (r *IngestReport) HasIndex() bool {
	return r != nil && r.Chunks > 0
}

// IngestUseCase builds the local document index: load, chunk, embed, store.
type IngestUseCase struct {
	loader       ports.DocumentLoader
	embedder     ports.EmbeddingService
	vectorStore  ports.VectorStore
	chunkSize    int
	chunkOverlap int
}

// NewIngestUseCase creates an IngestUseCase with injected dependencies.
func NewIngestUseCase(
	loader ports.DocumentLoader,
	embedder ports.EmbeddingService,
	vectorStore ports.VectorStore,
	chunkSize, chunkOverlap int,
) *IngestUseCase {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 5
	}
	return &IngestUseCase{
		loader:       loader,
		embedder:     embedder,
		vectorStore:  vectorStore,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// IngestFolder initialises the index from every supported file in dir.
// Unless force is set, an index that already holds chunks is reused as is.
// A missing dir is created and results in an empty report. Every document
// is chunked and embedded before the store is cleared, so a failed rebuild
// leaves the previous index in place.
func (uc *IngestUseCase) IngestFolder(ctx context.Context, dir string, force bool) (*IngestReport, error) {
	report := &IngestReport{Dir: dir}

	if !force {
		count, err := uc.vectorStore.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("counting stored chunks: %w", err)
		}
		if count > 0 {
			log.Printf("[OK] Reusing existing index with %d chunks", count)
			report.Chunks = count
			report.Reused = true
			return report, nil
		}
	}

	paths, err := uc.listFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		log.Printf("[WARN] No documents found in %s", dir)
	} else {
		log.Printf("[OK] Found %d documents in %s", len(paths), dir)
	}

	var chunks []entities.Chunk
	for _, doc := range uc.loadAll(ctx, paths) {
		docChunks, err := uc.embedDocument(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("ingesting %s: %w", doc.Name, err)
		}
		chunks = append(chunks, docChunks...)
		report.Files++
		report.Pages += len(doc.Pages)
	}

	if err := uc.vectorStore.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clearing index: %w", err)
	}
	if len(chunks) > 0 {
		if err := uc.vectorStore.Store(ctx, chunks); err != nil {
			return nil, fmt.Errorf("storing chunks: %w", err)
		}
	}
	report.Chunks = len(chunks)

	if report.Files > 0 {
		log.Printf("[OK] Indexed %d chunks from %d files", report.Chunks, report.Files)
	}
	return report, nil
}

// IngestFile (re)indexes a single file, replacing its previous chunks.
func (uc *IngestUseCase) IngestFile(ctx context.Context, path string) (int, error) {
	doc, err := uc.loader.Load(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("loading %s: %w", path, err)
	}
	doc.ID = entities.DocumentID(path)
	if err := uc.vectorStore.Delete(ctx, doc.ID); err != nil {
		return 0, fmt.Errorf("removing old chunks: %w", err)
	}
	return uc.Ingest(ctx, doc)
}

// RemoveFile drops every chunk that came from path.
func (uc *IngestUseCase) RemoveFile(ctx context.Context, path string) error {
	return uc.Delete(ctx, entities.DocumentID(path))
}

// Apply keeps the index in step with one file system event.
func (uc *IngestUseCase) Apply(ctx context.Context, event ports.FileEvent) error {
	if !uc.Supports(event.Path) {
		return nil
	}
	switch event.Operation {
	case ports.FileCreated, ports.FileModified:
		n, err := uc.IngestFile(ctx, event.Path)
		if err != nil {
			return err
		}
		log.Printf("[OK] Re-indexed %s (%d chunks)", filepath.Base(event.Path), n)
	case ports.FileDeleted:
		if err := uc.RemoveFile(ctx, event.Path); err != nil {
			return err
		}
		log.Printf("[OK] Removed %s from index", filepath.Base(event.Path))
	}
	return nil
}

// Ingest processes a document: chunks it, embeds it, stores it.
// It returns the number of chunks stored.
func (uc *IngestUseCase) Ingest(ctx context.Context, doc *entities.Document) (int, error) {
	chunks, err := uc.embedDocument(ctx, doc)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, nil // Empty document
	}
	if err := uc.vectorStore.Store(ctx, chunks); err != nil {
		return 0, fmt.Errorf("storing chunks: %w", err)
	}
	return len(chunks), nil
}

// embedDocument chunks doc and attaches an embedding to every chunk.
func (uc *IngestUseCase) embedDocument(ctx context.Context, doc *entities.Document) ([]entities.Chunk, error) {
	chunks := uc.chunkDocument(doc)
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	embeddings, err := uc.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedding chunks: got %d vectors for %d chunks", len(embeddings), len(chunks))
	}

	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}
	return chunks, nil
}

// Delete removes a document from the store.
func (uc *IngestUseCase) Delete(ctx context.Context, documentID string) error {
	return uc.vectorStore.Delete(ctx, documentID)
}

// Supports reports whether path has an extension the loader handles.
func (uc *IngestUseCase) Supports(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range uc.loader.SupportedExtensions() {
		if ext == e {
			return true
		}
	}
	return false
}

func (uc *IngestUseCase) listFiles(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		log.Printf("[INFO] Created %s, add documents there to build the index", dir)
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if uc.Supports(path) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// loadAll loads documents concurrently. Files that fail to load are
// logged and skipped.
func (uc *IngestUseCase) loadAll(ctx context.Context, paths []string) []*entities.Document {
	docs := make([]*entities.Document, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for i, path := range paths {
		g.Go(func() error {
			doc, err := uc.loader.Load(gctx, path)
			if err != nil {
				log.Printf("[ERROR] Loading %s: %v", filepath.Base(path), err)
				return nil
			}
			doc.ID = entities.DocumentID(path)
			log.Printf("[OK] Loaded: %s (%d pages)", doc.Name, len(doc.Pages))
			docs[i] = doc
			return nil
		})
	}
	_ = g.Wait()

	out := docs[:0]
	for _, d := range docs {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

// chunkDocument splits every page into overlapping chunks, so each chunk
// keeps the page it came from.
func (uc *IngestUseCase) chunkDocument(doc *entities.Document) []entities.Chunk {
	var chunks []entities.Chunk
	index := 0
	for _, page := range doc.Pages {
		for _, text := range splitText(page.Text, uc.chunkSize, uc.chunkOverlap) {
			chunks = append(chunks, entities.Chunk{
				ID:         generateChunkID(doc.ID, index),
				DocumentID: doc.ID,
				SourceID:   doc.Name,
				Page:       page.Number,
				Text:       text,
				Index:      index,
			})
			index++
		}
	}
	return chunks
}

// splitText cuts content into windows of at most size runes, preferring to
// break at whitespace, with overlap runes shared between neighbours.
func splitText(content string, size, overlap int) []string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) == 0 {
		return nil
	}

	var out []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else if cut := lastSpace(runes[start:end]); cut > 0 {
			end = start + cut
		}

		if text := strings.TrimSpace(string(runes[start:end])); text != "" {
			out = append(out, text)
		}
		if end == len(runes) {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return out
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i > 0; i-- {
		if unicode.IsSpace(rs[i]) {
			return i
		}
	}
	return -1
}

// generateChunkID creates a deterministic ID for a chunk.
func generateChunkID(docID string, index int) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", docID, index)))
	return hex.EncodeToString(hash[:8])
}
