// Package hash provides a deterministic, dependency-free embedding service.
//
// Vectors are built from word unigrams and adjacent bigrams hashed into a
// fixed-size float vector, then L2-normalized. This gives reproducible,
// structurally meaningful vectors for keyword/topic matching, not true
// semantic similarity. It is the always-available fallback backend.
package hash

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/unnitin/slides/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions matches the all-MiniLM-L6-v2 slot so hash vectors and
// model vectors are interchangeable in the store.
const DefaultDimensions = 384

// EmbeddingService generates hash-based pseudo-embeddings.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a hash embedding service. A non-positive
// dimension falls back to DefaultDimensions.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed generates a vector for the given text. Identical input always
// yields an identical vector; empty input yields the zero vector.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, s.dimensions)
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return vec, nil
	}

	grams := make([]string, 0, len(tokens)*2-1)
	grams = append(grams, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		grams = append(grams, tokens[i]+" "+tokens[i+1])
	}

	freq := make(map[string]int, len(grams))
	for _, g := range grams {
		freq[g]++
	}

	// IDF-lite: down-weight grams that repeat within the text.
	for gram, count := range freq {
		h := fnv.New32a()
		h.Write([]byte(gram))
		idx := int(h.Sum32()) % s.dimensions
		if idx < 0 {
			idx += s.dimensions
		}
		vec[idx] += float32(1.0 / (1.0 + float64(count)))
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1.0 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// Name identifies the backend.
func (s *EmbeddingService) Name() string {
	return "hash"
}

// Ping always succeeds; the backend is purely local.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
