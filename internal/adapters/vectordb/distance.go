package vectordb

import (
	"sort"

	"github.com/viant/vec/search"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/entities"
)

// MaxDistance is returned for vectors that cannot be compared.
const MaxDistance = 1.0

// cosineDistance returns 1 - cos(a, b), clamped to [0, 1].
// Opposed vectors are treated the same as unrelated ones.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return MaxDistance
	}
	va := search.Float32s(a)
	if va.Magnitude() == 0 || search.Float32s(b).Magnitude() == 0 {
		return MaxDistance
	}
	d := float64(va.CosineDistance(b))
	switch {
	case d < 0:
		return 0
	case d > MaxDistance:
		return MaxDistance
	}
	return d
}

// nearest sorts scored chunks by ascending distance, breaking ties by chunk
// ID, and keeps the first topK.
func nearest(results []entities.ScoredChunk, topK int) []entities.ScoredChunk {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})
	if topK < 0 {
		topK = 0
	}
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}
