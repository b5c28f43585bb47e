package services

import (
	"context"
	"fmt"

	"github.com/unnitin/slides/internal/core/domain"
	"github.com/unnitin/slides/internal/core/ports/driven"
	"github.com/unnitin/slides/internal/logger"
)

// Embeddable is any chunk record that can carry a vector. DeckRecord,
// SlideRecord, and ElementRecord all satisfy it.
type Embeddable interface {
	ChunkID() string
	EmbeddingText() string
	SetEmbedding(vec []float32)
}

// EmbedRecords computes and attaches a vector to each record in place.
// Records that fail to embed are skipped with a warning rather than
// aborting the batch; the first error is returned after the batch
// completes so callers can surface it.
//
// Each record's computation is independent, so callers may shard the input
// and run EmbedRecords concurrently per shard.
func EmbedRecords(ctx context.Context, svc driven.EmbeddingService, records []Embeddable) error {
	if svc == nil {
		return nil
	}
	var firstErr error
	for _, rec := range records {
		vec, err := svc.Embed(ctx, rec.EmbeddingText())
		if err == nil && len(vec) != svc.Dimensions() {
			err = fmt.Errorf("%w: got %d, index uses %d",
				domain.ErrDimensionMismatch, len(vec), svc.Dimensions())
		}
		if err != nil {
			logger.Warn("Failed to embed chunk %s: %v", rec.ChunkID(), err)
			if firstErr == nil {
				firstErr = fmt.Errorf("embed chunk %s: %w", rec.ChunkID(), err)
			}
			continue
		}
		rec.SetEmbedding(vec)
	}
	return firstErr
}
