package driving

import (
	"github.com/unnitin/slides/internal/core/domain"
)

// ChunkerService decomposes a presentation into indexable chunks at
// three granularities: one deck record, one record per slide, and one
// record per design element.
type ChunkerService interface {
	// Chunk produces the full chunk set for a presentation. Chunk ids
	// are freshly generated; cross-references (deck to slides, slides
	// to elements, prev/next slide types) are fully populated.
	// Embeddings are not set; callers embed separately.
	Chunk(p domain.Presentation, sourceFile string) (domain.DeckRecord, []domain.SlideRecord, []domain.ElementRecord)
}
