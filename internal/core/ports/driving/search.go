package driving

import (
	"context"

	"github.com/unnitin/slides/internal/core/domain"
)

// Retriever provides hybrid search over the design index, combining
// semantic similarity, structural filters, and keyword matching.
type Retriever interface {
	// Search runs a hybrid query at the requested granularity.
	// Results are ordered by combined score, best first.
	Search(ctx context.Context, q domain.SearchQuery) ([]domain.SearchResult, error)

	// FindSimilarSlides returns slides structurally and semantically
	// similar to the given slide text.
	FindSimilarSlides(ctx context.Context, slideText string, limit int) ([]domain.SearchResult, error)

	// GetSlideContext returns a slide's neighbourhood within its deck
	// by direct lookup: deck title and summary, prev/next slides,
	// section, and position.
	GetSlideContext(ctx context.Context, slideChunkID string) (*domain.SlideContext, error)

	// SuggestNextSlide proposes slides that historically follow the
	// last of the given slide types. An empty history suggests deck
	// openers.
	SuggestNextSlide(ctx context.Context, currentSlideTypes []domain.SlideType, limit int) ([]domain.SearchResult, error)

	// BestDesignFor returns the single best proven slide design for a
	// content type and topic, optionally narrowed by audience. Returns
	// nil when nothing clears the score threshold.
	BestDesignFor(ctx context.Context, contentType domain.SlideType, topic, audience string) (*domain.SearchResult, error)
}
