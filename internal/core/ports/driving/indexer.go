package driving

import (
	"context"

	"github.com/unnitin/slides/internal/core/domain"
)

// IndexerService ingests presentations into the design index: chunking,
// embedding, and persistence in one operation.
type IndexerService interface {
	// Index chunks the presentation, embeds every chunk, and upserts
	// the results. Returns the deck chunk id and the number of slide
	// and element chunks written.
	Index(ctx context.Context, p domain.Presentation, sourceFile string) (deckChunkID string, slides, elements int, err error)

	// Stats reports index-wide counts.
	Stats(ctx context.Context) (*domain.IndexStats, error)
}
