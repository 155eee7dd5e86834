// Package usecases contains application business rules.
// Usecases orchestrate entities and depend on port interfaces only.
package usecases

import (
	"context"
	"fmt"
	"log"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
	"github.com/0xcro3dile/hybridrag-go/internal/domain/ports"
)

// Defaults for Options.
const (
	DefaultRelevanceThreshold = 0.5
	DefaultTopKLocal          = 4
	DefaultTopKWeb            = 3
)

// Options configures a HybridUseCase. It is fixed at construction.
type Options struct {
	RelevanceThreshold float64
	TopKLocal          int
	TopKWeb            int
	Language           Language
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		RelevanceThreshold: DefaultRelevanceThreshold,
		TopKLocal:          DefaultTopKLocal,
		TopKWeb:            DefaultTopKWeb,
		Language:           LanguageEnglish,
	}
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	if !(o.RelevanceThreshold > 0 && o.RelevanceThreshold < 1) {
		return fmt.Errorf("%w: relevance threshold must be in (0,1), got %v", ports.ErrInvalidConfig, o.RelevanceThreshold)
	}
	if o.TopKLocal <= 0 {
		return fmt.Errorf("%w: top_k_local must be positive, got %d", ports.ErrInvalidConfig, o.TopKLocal)
	}
	if o.TopKWeb <= 0 {
		return fmt.Errorf("%w: top_k_web must be positive, got %d", ports.ErrInvalidConfig, o.TopKWeb)
	}
	if _, ok := phrasebook[o.Language]; !ok {
		return fmt.Errorf("%w: unsupported response language %q", ports.ErrInvalidConfig, o.Language)
	}
	return nil
}

// Route is the branch a query took after the relevance gate.
type Route string

const (
	RouteLocal Route = "local"
	RouteWeb   Route = "web"
)

// HybridUseCase answers a query from local documents when they are relevant
// enough, and from web search otherwise. It holds no per-query state.
type HybridUseCase struct {
	index     ports.DocumentIndex
	searcher  ports.WebSearcher
	gate      RelevanceGate
	formatter *ContextFormatter
	generator *AnswerGenerator
	opts      Options
}

// NewHybridUseCase creates a HybridUseCase with injected dependencies.
// index and searcher may be nil: an absent index always falls back to the
// web, an absent searcher always yields no web results.
func NewHybridUseCase(
	index ports.DocumentIndex,
	searcher ports.WebSearcher,
	model ports.ChatModel,
	opts Options,
) (*HybridUseCase, error) {
	if opts.Language == "" {
		opts.Language = LanguageEnglish
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, fmt.Errorf("%w: chat model is required", ports.ErrInvalidConfig)
	}
	gate, err := NewRelevanceGate(opts.RelevanceThreshold)
	if err != nil {
		return nil, err
	}
	return &HybridUseCase{
		index:     index,
		searcher:  searcher,
		gate:      gate,
		formatter: NewContextFormatter(opts.Language),
		generator: NewAnswerGenerator(model, opts.Language),
		opts:      opts,
	}, nil
}

// Ask runs Retrieve -> Gate -> (Local|Web) -> Answer for one query.
// It always returns a result; provider failures degrade to empty context
// or an apology answer.
func (uc *HybridUseCase) Ask(ctx context.Context, query string) entities.QueryResult {
	// 1. Retrieve
	chunks := uc.lookup(ctx, query)

	// 2. Gate
	route := RouteWeb
	if uc.gate.Accept(chunks) {
		route = RouteLocal
	}
	uc.logDecision(route, chunks)

	// 3. Local or Web
	var block entities.ContextBlock
	switch route {
	case RouteLocal:
		block = uc.formatter.Format(chunks, nil)
	case RouteWeb:
		block = uc.formatter.Format(nil, uc.search(ctx, query))
	}

	// 4. Answer
	answer, ok := uc.generator.Generate(ctx, query, block)

	result := entities.QueryResult{
		Answer:        answer,
		Sources:       entities.SourceSet(block.Provenance),
		UsedWebSearch: route == RouteWeb,
		LocalHitCount: block.LocalHits,
		WebHitCount:   block.WebHits,
	}
	if !ok {
		result.Sources = []string{}
	}
	return result
}

func (uc *HybridUseCase) lookup(ctx context.Context, query string) []entities.ScoredChunk {
	if uc.index == nil {
		return nil
	}
	return uc.index.Lookup(ctx, query, uc.opts.TopKLocal)
}

// search never fails: provider errors and an absent searcher both mean
// no web results.
func (uc *HybridUseCase) search(ctx context.Context, query string) []entities.SearchResult {
	if uc.searcher == nil {
		return nil
	}
	results, err := uc.searcher.Search(ctx, query, uc.opts.TopKWeb)
	if err != nil {
		log.Printf("[WARN] Web search failed, continuing without web results: %v", err)
		return nil
	}
	if len(results) > uc.opts.TopKWeb {
		results = results[:uc.opts.TopKWeb]
	}
	return results
}

func (uc *HybridUseCase) logDecision(route Route, chunks []entities.ScoredChunk) {
	best, ok := BestDistance(chunks)
	if !ok {
		log.Printf("[INFO] No local chunks found. Triggering web search...")
		return
	}
	if route == RouteLocal {
		log.Printf("[INFO] Using local documents (best distance %.3f < cutoff %.3f)", best, uc.gate.Cutoff())
		return
	}
	log.Printf("[INFO] Local docs not relevant (best distance %.3f >= cutoff %.3f). Triggering web search...", best, uc.gate.Cutoff())
}
