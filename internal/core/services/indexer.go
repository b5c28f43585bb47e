package services

import (
	"context"
	"fmt"

	"github.com/unnitin/slides/internal/core/domain"
	"github.com/unnitin/slides/internal/core/ports/driven"
	"github.com/unnitin/slides/internal/core/ports/driving"
	"github.com/unnitin/slides/internal/logger"
)

// Ensure IndexerService implements the interface.
var _ driving.IndexerService = (*IndexerService)(nil)

// IndexerService runs the full ingestion pipeline: chunk, embed, persist.
type IndexerService struct {
	chunker   driving.ChunkerService
	store     driven.IndexStore
	embedding driven.EmbeddingService
}

// NewIndexerService wires the ingestion pipeline. The embedding service
// may be nil; chunks are then stored without vectors.
func NewIndexerService(
	chunker driving.ChunkerService,
	store driven.IndexStore,
	embedding driven.EmbeddingService,
) *IndexerService {
	return &IndexerService{chunker: chunker, store: store, embedding: embedding}
}

// Index ingests one presentation. Parents are written before children so
// referential integrity holds at every point during the write.
func (s *IndexerService) Index(
	ctx context.Context, p domain.Presentation, sourceFile string,
) (string, int, int, error) {
	if len(p.Slides) == 0 {
		return "", 0, 0, fmt.Errorf("%w: presentation has no slides", domain.ErrInvalidInput)
	}

	deck, slides, elements := s.chunker.Chunk(p, sourceFile)
	logger.Debug("Chunked %q: %d slides, %d elements", deck.Title, len(slides), len(elements))

	records := make([]Embeddable, 0, 1+len(slides)+len(elements))
	records = append(records, &deck)
	for i := range slides {
		records = append(records, &slides[i])
	}
	for i := range elements {
		records = append(records, &elements[i])
	}
	// Chunks that failed to embed are stored without a vector; they stay
	// reachable through keyword and structural search.
	if err := EmbedRecords(ctx, s.embedding, records); err != nil {
		logger.Warn("Embedding incomplete: %v", err)
	}

	if err := s.store.UpsertDeck(ctx, &deck); err != nil {
		return "", 0, 0, fmt.Errorf("upsert deck: %w", err)
	}
	for i := range slides {
		if err := s.store.UpsertSlide(ctx, &slides[i]); err != nil {
			return "", 0, 0, fmt.Errorf("upsert slide %d: %w", i, err)
		}
	}
	for i := range elements {
		if err := s.store.UpsertElement(ctx, &elements[i]); err != nil {
			return "", 0, 0, fmt.Errorf("upsert element %d: %w", i, err)
		}
	}

	return deck.ID, len(slides), len(elements), nil
}

// Stats reports index-wide counts.
func (s *IndexerService) Stats(ctx context.Context) (*domain.IndexStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
