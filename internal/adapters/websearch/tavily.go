// Package websearch provides web search adapters.
// Clean Architecture: Adapters implementing ports.WebSearcher.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
	"github.com/0xcro3dile/hybridrag-go/internal/domain/ports"
)

// DefaultTavilyURL is the Tavily search endpoint.
const DefaultTavilyURL = "https://api.tavily.com/search"

// untitled is used for hits that come back without a title.
const untitled = "No title"

// TavilyAdapter implements ports.WebSearcher using the Tavily API.
type TavilyAdapter struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewTavilyAdapter creates a Tavily search adapter. endpoint may be empty.
func NewTavilyAdapter(apiKey, endpoint string) (*TavilyAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: web search API key is required", ports.ErrInvalidConfig)
	}
	if endpoint == "" {
		endpoint = DefaultTavilyURL
	}
	return &TavilyAdapter{
		apiKey:   apiKey,
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type tavilyRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search returns at most maxResults hits for query.
func (a *TavilyAdapter) Search(ctx context.Context, query string, maxResults int) ([]entities.SearchResult, error) {
	jsonData, err := json.Marshal(tavilyRequest{
		APIKey:     a.apiKey,
		Query:      query,
		MaxResults: maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: calling Tavily: %w", ports.ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: Tavily returned status %d: %s", ports.ErrSearchFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var searchResp tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ports.ErrSearchFailed, err)
	}

	results := make([]entities.SearchResult, 0, len(searchResp.Results))
	for _, r := range searchResp.Results {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = untitled
		}
		results = append(results, entities.SearchResult{
			Title:   title,
			URL:     r.URL,
			Snippet: r.Content,
		})
	}
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// Disabled is a WebSearcher that never finds anything. It is used when no
// search provider is configured, so web fallback yields an empty context.
type Disabled struct{}

// Search always returns no results.
func (Disabled) Search(ctx context.Context, query string, maxResults int) ([]entities.SearchResult, error) {
	return nil, nil
}

var (
	_ ports.WebSearcher = (*TavilyAdapter)(nil)
	_ ports.WebSearcher = Disabled{}
)
