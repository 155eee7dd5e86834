// Package entities contains core business entities.
// These are pure domain objects with no external dependencies.
package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"
)

// PageUnknown marks a chunk whose page could not be determined.
const PageUnknown = 0

// Page is a single page of extracted document text.
// Number is 1-based; PageUnknown when the format has no pages.
type Page struct {
	Number int
	Text   string
}

// Document represents a source document (PDF, TXT, MD).
type Document struct {
	ID        string
	Name      string
	Path      string
	Pages     []Page
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentID creates a deterministic ID for the document at path.
func DocumentID(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:8])
}

// Content joins all page texts.
func (d *Document) Content() string {
	var n int
	for _, p := range d.Pages {
		n += len(p.Text) + 1
	}
	b := make([]byte, 0, n)
	for i, p := range d.Pages {
		if i > 0 {
			b = append(b, '\n')
		}
		b = append(b, p.Text...)
	}
	return string(b)
}

// Chunk is an immutable unit of ingested text.
type Chunk struct {
	ID         string
	DocumentID string
	SourceID   string // file name shown in citations
	Page       int
	Text       string
	Index      int       // position in document
	Embedding  []float32 // populated by the embedding adapter
}

// Provenance returns the citation label for the chunk.
func (c Chunk) Provenance() string {
	if c.Page == PageUnknown {
		return c.SourceID
	}
	return fmt.Sprintf("%s, page %d", c.SourceID, c.Page)
}

// PageLabel renders the page for display, "N/A" when unknown.
func (c Chunk) PageLabel() string {
	if c.Page == PageUnknown {
		return "N/A"
	}
	return fmt.Sprint(c.Page)
}

// ScoredChunk pairs a chunk with its distance to a query.
// Lower distance means more similar.
type ScoredChunk struct {
	Chunk    Chunk
	Distance float64
}

// SearchResult is a single web hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provenance returns the citation label for the web hit.
func (r SearchResult) Provenance() string {
	return r.Title + " - " + r.URL
}

// ContextBlock is the formatted grounding context for one query.
type ContextBlock struct {
	Text       string
	LocalHits  int
	WebHits    int
	Provenance []string
}

// Empty reports whether no items were formatted into the block.
func (b ContextBlock) Empty() bool {
	return b.LocalHits == 0 && b.WebHits == 0
}

// QueryResult is returned to the caller of Ask.
type QueryResult struct {
	Answer        string   `json:"answer"`
	Sources       []string `json:"sources"`
	UsedWebSearch bool     `json:"used_web_search"`
	LocalHitCount int      `json:"local_hit_count"`
	WebHitCount   int      `json:"web_hit_count"`
}

// SourceSet collapses provenance labels into a sorted set.
func SourceSet(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
