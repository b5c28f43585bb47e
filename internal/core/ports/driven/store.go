package driven

import (
	"context"

	"github.com/unnitin/slides/internal/core/domain"
)

// EmbeddingRow pairs a chunk id with its stored vector, as returned by
// IndexStore.AllEmbeddings. No ordering is guaranteed.
type EmbeddingRow struct {
	ChunkID   string
	Embedding []float32
}

// KeywordHit is a full-text match. Rank is the engine's raw relevance
// signal (SQLite FTS5 bm25 rank: negative, lower is better); the retriever
// normalizes it into [0,1].
type KeywordHit struct {
	ChunkID string
	Rank    float64
}

// IndexStore persists the three chunk collections plus the phrase-trigger
// and feedback logs. Backed by SQLite with FTS5 full-text tables.
//
// Upserts are insert-or-replace by id and refresh the record's full-text
// entry in the same transaction. Referential integrity is the caller's
// responsibility: parents must be upserted before children, which the
// chunker's output order already satisfies.
//
// The store supports concurrent readers and a single writer per database
// handle (WAL mode); multi-writer throughput must be sharded or queued by
// the caller.
type IndexStore interface {
	// UpsertDeck inserts or replaces a deck record by id.
	UpsertDeck(ctx context.Context, deck *domain.DeckRecord) error

	// UpsertSlide inserts or replaces a slide record by id.
	UpsertSlide(ctx context.Context, slide *domain.SlideRecord) error

	// UpsertElement inserts or replaces an element record by id.
	UpsertElement(ctx context.Context, element *domain.ElementRecord) error

	// GetDeck retrieves a deck by id, or domain.ErrNotFound.
	GetDeck(ctx context.Context, id string) (*domain.DeckRecord, error)

	// GetSlide retrieves a slide by id, or domain.ErrNotFound.
	GetSlide(ctx context.Context, id string) (*domain.SlideRecord, error)

	// GetElement retrieves an element by id, or domain.ErrNotFound.
	GetElement(ctx context.Context, id string) (*domain.ElementRecord, error)

	// GetSlidesForDeck returns a deck's slides ordered by slide index.
	GetSlidesForDeck(ctx context.Context, deckID string) ([]domain.SlideRecord, error)

	// GetElementsForSlide returns a slide's elements ordered by position.
	GetElementsForSlide(ctx context.Context, slideID string) ([]domain.ElementRecord, error)

	// AllEmbeddings returns every stored (id, vector) pair in a collection,
	// skipping records with no vector. Used for brute-force similarity
	// scans; bounding scan cost is the caller's concern.
	AllEmbeddings(ctx context.Context, c domain.Collection) ([]EmbeddingRow, error)

	// SearchKeyword runs a full-text query over a collection's text fields.
	// Extra keywords are joined disjunctively with the query. An empty or
	// not-yet-populated index yields an empty result, never an error.
	SearchKeyword(ctx context.Context, c domain.Collection, query string, keywords []string, limit int) ([]KeywordHit, error)

	// MatchFields reports whether the record's stored fields exactly match
	// every filter predicate. Unknown field names never match.
	MatchFields(ctx context.Context, c domain.Collection, id string, filters map[string]string) (bool, error)

	// RecordPhraseTrigger normalizes the phrase and either increments the
	// existing trigger's hit counter (updating the matched target) or
	// inserts a new trigger with hit count 1.
	RecordPhraseTrigger(ctx context.Context, phrase, slideChunkID, elementChunkID string) error

	// GetPhraseTrigger retrieves a trigger by its already-normalized key,
	// or domain.ErrNotFound.
	GetPhraseTrigger(ctx context.Context, normalized string) (*domain.PhraseTrigger, error)

	// RecordFeedback appends one event to the feedback log and, for slide
	// use/keep/edit/regen signals, atomically increments the slide's counter.
	// Feedback against an unknown chunk id is domain.ErrNotFound.
	RecordFeedback(ctx context.Context, chunkID string, c domain.Collection, signal domain.FeedbackSignal, context map[string]any) error

	// Stats returns per-collection row counts.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Close releases the underlying database handle.
	Close() error
}
