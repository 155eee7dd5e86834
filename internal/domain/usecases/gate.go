package usecases

import (
	"fmt"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
	"github.com/0xcro3dile/hybridrag-go/internal/domain/ports"
)

// IsRelevant reports whether a best-match distance passes the threshold.
// threshold is similarity-like in (0,1); the distance cutoff is 1-threshold.
func IsRelevant(bestDistance, threshold float64) bool {
	return bestDistance < 1-threshold
}

// RelevanceGate decides between local documents and web fallback.
// The threshold is fixed for the lifetime of the gate.
type RelevanceGate struct {
	threshold float64
}

// NewRelevanceGate validates threshold and returns a gate.
func NewRelevanceGate(threshold float64) (RelevanceGate, error) {
	if !(threshold > 0 && threshold < 1) {
		return RelevanceGate{}, fmt.Errorf("%w: relevance threshold must be in (0,1), got %v", ports.ErrInvalidConfig, threshold)
	}
	return RelevanceGate{threshold: threshold}, nil
}

// Threshold returns the configured similarity threshold.
func (g RelevanceGate) Threshold() float64 { return g.threshold }

// Cutoff returns the distance a best match must stay strictly below.
func (g RelevanceGate) Cutoff() float64 { return 1 - g.threshold }

// Accept decides on the single lowest-distance chunk. No chunks means reject.
func (g RelevanceGate) Accept(chunks []entities.ScoredChunk) bool {
	best, ok := BestDistance(chunks)
	if !ok {
		return false
	}
	return IsRelevant(best, g.threshold)
}

// BestDistance returns the lowest distance among chunks.
func BestDistance(chunks []entities.ScoredChunk) (float64, bool) {
	if len(chunks) == 0 {
		return 0, false
	}
	best := chunks[0].Distance
	for _, c := range chunks[1:] {
		if c.Distance < best {
			best = c.Distance
		}
	}
	return best, true
}
