package usecases

import (
	"fmt"
	"strings"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
)

// ContextFormatter renders chunks and web hits into one grounding context,
// labelling each item with its provenance.
type ContextFormatter struct {
	p phrases
}

// NewContextFormatter creates a formatter for the given response language.
func NewContextFormatter(lang Language) *ContextFormatter {
	return &ContextFormatter{p: phrasesFor(lang)}
}

// Format is deterministic: the same inputs always produce the same block.
// With no inputs it emits the no-context sentinel.
func (f *ContextFormatter) Format(chunks []entities.ScoredChunk, results []entities.SearchResult) entities.ContextBlock {
	block := entities.ContextBlock{
		LocalHits:  len(chunks),
		WebHits:    len(results),
		Provenance: make([]string, 0, len(chunks)+len(results)),
	}

	var parts []string
	if len(chunks) > 0 {
		parts = append(parts, f.p.localHeader)
		for i, c := range chunks {
			parts = append(parts,
				fmt.Sprintf("\n[%s %d: %s, %s %s]", f.p.docLabel, i+1, c.Chunk.SourceID, f.p.pageWord, c.Chunk.PageLabel()),
				c.Chunk.Text,
			)
			block.Provenance = append(block.Provenance, c.Chunk.Provenance())
		}
	}

	if len(results) > 0 {
		parts = append(parts, "\n\n"+f.p.webHeader)
		for i, r := range results {
			parts = append(parts,
				fmt.Sprintf("\n[%s %d: %s]", f.p.webLabel, i+1, r.Title),
				"URL: "+r.URL,
				r.Snippet,
			)
			block.Provenance = append(block.Provenance, r.Provenance())
		}
	}

	if len(parts) == 0 {
		block.Text = f.p.noContext
		return block
	}
	block.Text = strings.Join(parts, "\n")
	return block
}

// NoContext returns the sentinel used when nothing could be retrieved.
func (f *ContextFormatter) NoContext() string {
	return f.p.noContext
}
