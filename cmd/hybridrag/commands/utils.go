package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/joho/godotenv"

	"github.com/0xcro3dile/hybridrag-go/internal/app"
	"github.com/0xcro3dile/hybridrag-go/internal/config"
	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
	"github.com/0xcro3dile/hybridrag-go/internal/domain/usecases"
)

// buildApp loads .env and configuration and builds the pipeline.
func buildApp(ctx context.Context) (*app.App, error) {
	// Load .env file if it exists (for API keys)
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing: %w", err)
	}
	return a, nil
}

// openApp builds the pipeline and initialises the index. A failed index
// build is logged; queries then fall back to the web.
func openApp(ctx context.Context) (*app.App, error) {
	a, err := buildApp(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := a.Index(ctx, false); err != nil {
		log.Printf("[WARN] Building index failed, answers will use web search only: %v", err)
	}
	return a, nil
}

// renderResult writes res as JSON or as a human readable answer.
func renderResult(w io.Writer, res entities.QueryResult, format string) error {
	if format == "json" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(w, "%s\n", data)
		return nil
	}

	fmt.Fprintf(w, "%s\n", res.Answer)
	if len(res.Sources) > 0 {
		fmt.Fprintf(w, "\nSources:\n")
		for _, s := range res.Sources {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	if !quiet {
		if res.UsedWebSearch {
			fmt.Fprintf(w, "\n[web search, %d results]\n", res.WebHitCount)
		} else {
			fmt.Fprintf(w, "\n[local documents, %d passages]\n", res.LocalHitCount)
		}
	}
	return nil
}

// renderReport writes an ingestion summary.
func renderReport(w io.Writer, r *usecases.IngestReport, format string) error {
	if format == "json" {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(w, "%s\n", data)
		return nil
	}
	if r.Reused {
		fmt.Fprintf(w, "Reused existing index with %d chunks\n", r.Chunks)
		return nil
	}
	fmt.Fprintf(w, "Indexed %d chunks from %d files (%d pages) in %s\n", r.Chunks, r.Files, r.Pages, r.Dir)
	return nil
}
