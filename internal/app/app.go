// Package app wires configuration into adapters and use cases.
// Clean Architecture: the composition root, the only place that knows every
// concrete adapter.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/0xcro3dile/hybridrag-go/internal/adapters/embedding"
	"github.com/0xcro3dile/hybridrag-go/internal/adapters/filewatcher"
	"github.com/0xcro3dile/hybridrag-go/internal/adapters/llm"
	"github.com/0xcro3dile/hybridrag-go/internal/adapters/loader"
	"github.com/0xcro3dile/hybridrag-go/internal/adapters/parser"
	"github.com/0xcro3dile/hybridrag-go/internal/adapters/vectordb"
	"github.com/0xcro3dile/hybridrag-go/internal/adapters/websearch"
	"github.com/0xcro3dile/hybridrag-go/internal/config"
	"github.com/0xcro3dile/hybridrag-go/internal/domain/ports"
	"github.com/0xcro3dile/hybridrag-go/internal/domain/usecases"
)

// App holds the assembled pipeline.
type App struct {
	Config *config.Config
	Store  ports.VectorStore
	Ingest *usecases.IngestUseCase
	Hybrid *usecases.HybridUseCase

	loader  ports.DocumentLoader
	closers []func()
}

// New builds every component named by cfg. It does not touch the data
// folder; call Index for that.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg}

	store, err := newStore(cfg.Index)
	if err != nil {
		return nil, err
	}
	a.Store = store
	if c, ok := store.(interface{ Close() error }); ok {
		a.closers = append(a.closers, func() { c.Close() })
	}

	embedder, err := newEmbedder(cfg.Embedding)
	if err != nil {
		a.Close()
		return nil, err
	}
	model, err := newChatModel(cfg.Chat)
	if err != nil {
		a.Close()
		return nil, err
	}
	searcher, err := newSearcher(cfg.Search)
	if err != nil {
		a.Close()
		return nil, err
	}

	pdf := a.newPDFParser(ctx, cfg.Index)
	a.loader = loader.NewMultiLoader(pdf)

	a.Ingest = usecases.NewIngestUseCase(a.loader, embedder, store, cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
	a.Hybrid, err = usecases.NewHybridUseCase(usecases.NewRetriever(embedder, store), searcher, model, opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Index initialises the index from the data folder.
func (a *App) Index(ctx context.Context, force bool) (*usecases.IngestReport, error) {
	return a.Ingest.IngestFolder(ctx, a.Config.Index.DataDir, force)
}

// Count reports how many chunks the index holds.
func (a *App) Count(ctx context.Context) (int, error) {
	return a.Store.Count(ctx)
}

// Watch re-indexes files in the data folder as they change, until ctx is
// cancelled.
func (a *App) Watch(ctx context.Context) error {
	watcher, err := filewatcher.NewFSNotifyWatcher(a.loader.SupportedExtensions())
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Stop()

	events, err := watcher.Watch(ctx, a.Config.Index.DataDir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", a.Config.Index.DataDir, err)
	}
	log.Printf("[INFO] Watching %s for changes", a.Config.Index.DataDir)

	for event := range events {
		if err := a.Ingest.Apply(ctx, event); err != nil {
			log.Printf("[ERROR] Updating index for %s: %v", event.Path, err)
		}
	}
	return nil
}

// Close releases the store and stops any helper processes.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func newStore(cfg config.IndexConfig) (ports.VectorStore, error) {
	if cfg.DBPath == config.MemoryDB {
		return vectordb.NewInMemoryStore(), nil
	}
	store, err := vectordb.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	log.Printf("[OK] Opened index database %s", store.Path())
	return store, nil
}

func newEmbedder(cfg config.EmbeddingConfig) (ports.EmbeddingService, error) {
	switch cfg.Provider {
	case "openai":
		return embedding.NewOpenAIAdapter(cfg.APIKey(), cfg.BaseURL, cfg.Model)
	default:
		return embedding.NewOllamaAdapter(cfg.BaseURL, cfg.Model), nil
	}
}

func newChatModel(cfg config.ChatConfig) (ports.ChatModel, error) {
	switch cfg.Provider {
	case "ollama":
		return llm.NewOllamaLLMAdapter(cfg.BaseURL, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil
	default:
		oc := llm.DefaultOpenAIConfig(cfg.APIKey())
		if cfg.BaseURL != "" {
			oc.BaseURL = cfg.BaseURL
		}
		if cfg.Model != "" {
			oc.Model = cfg.Model
		}
		oc.Temperature = cfg.Temperature
		if cfg.MaxTokens > 0 {
			oc.MaxTokens = cfg.MaxTokens
		}
		oc.MaxRetries = cfg.MaxRetries
		model, err := llm.NewOpenAIAdapter(oc)
		if err != nil {
			return nil, err
		}
		log.Printf("[INFO] Chat model: %s", model.Model())
		return model, nil
	}
}

// newSearcher falls back to a disabled searcher when no key is available,
// so a missing key costs web fallback but not the whole pipeline.
func newSearcher(cfg config.SearchConfig) (ports.WebSearcher, error) {
	if cfg.Provider == "none" {
		return websearch.Disabled{}, nil
	}
	key := cfg.APIKey()
	if key == "" {
		log.Printf("[WARN] %s not set, web search disabled", cfg.APIKeyEnv)
		return websearch.Disabled{}, nil
	}
	return websearch.NewTavilyAdapter(key, cfg.Endpoint)
}

// newPDFParser returns nil when PDF support is disabled.
func (a *App) newPDFParser(ctx context.Context, cfg config.IndexConfig) ports.DocumentParser {
	if cfg.PDFServiceURL == "" {
		return nil
	}
	p := parser.NewPythonPDFParser(cfg.PDFServiceURL)

	if cfg.PDFServiceDir != "" {
		stop, err := p.StartService(ctx, cfg.PDFServiceDir)
		if err != nil {
			log.Printf("[WARN] Could not start PDF service: %v", err)
		} else {
			a.closers = append(a.closers, stop)
		}
	}
	if !p.IsServiceHealthy(ctx) {
		log.Printf("[WARN] PDF service at %s is not reachable, PDF files will fail to load", cfg.PDFServiceURL)
	}
	return p
}
