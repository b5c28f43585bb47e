package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/unnitin/slides/internal/core/domain"
	"github.com/unnitin/slides/internal/core/ports/driven"
	"github.com/unnitin/slides/internal/core/ports/driving"
	"github.com/unnitin/slides/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.Retriever = (*RetrieverService)(nil)

// Default search parameters.
const (
	defaultSearchLimit    = 10
	defaultMinScore       = 0.1
	keywordOverfetch      = 3
	keywordRankNormaliser = 10.0
)

// RetrieverService ranks indexed chunks by fusing cosine similarity over
// stored vectors, full-text relevance, and exact structural predicates into
// one combined score.
type RetrieverService struct {
	store     driven.IndexStore
	embedding driven.EmbeddingService
}

// NewRetrieverService creates a retriever. The embedding service is
// optional; without it search degrades to keyword plus structural scoring.
func NewRetrieverService(store driven.IndexStore, embedding driven.EmbeddingService) *RetrieverService {
	return &RetrieverService{store: store, embedding: embedding}
}

// Search runs one hybrid query.
func (r *RetrieverService) Search(ctx context.Context, q domain.SearchQuery) ([]domain.SearchResult, error) {
	if q.Granularity == "" {
		q.Granularity = domain.CollectionSlide
	}
	if !q.Granularity.Valid() {
		return nil, fmt.Errorf("%w: granularity %q", domain.ErrUnknownCollection, q.Granularity)
	}
	if q.Limit <= 0 {
		q.Limit = defaultSearchLimit
	}
	if q.MinScore <= 0 {
		q.MinScore = defaultMinScore
	}

	logger.Debug("Search: %q granularity=%s limit=%d", q.Query, q.Granularity, q.Limit)

	candidates := make(map[string]*domain.SearchResult)

	// Semantic pass: brute-force cosine scan over stored vectors. The
	// pre-filter threshold is deliberately loose so keyword or structural
	// signals can still lift borderline candidates.
	if r.embedding != nil {
		queryVec, err := r.embedding.Embed(ctx, q.Query)
		if err != nil {
			return nil, fmt.Errorf("embed query: %w", err)
		}
		rows, err := r.store.AllEmbeddings(ctx, q.Granularity)
		if err != nil {
			return nil, fmt.Errorf("load embeddings: %w", err)
		}
		preFilter := q.MinScore * 0.5
		for _, row := range rows {
			sim := cosineSimilarity(queryVec, row.Embedding)
			if sim >= preFilter {
				candidates[row.ChunkID] = &domain.SearchResult{
					ChunkID:       row.ChunkID,
					ChunkType:     q.Granularity,
					SemanticScore: sim,
				}
			}
		}
		logger.Debug("Semantic candidates: %d of %d vectors", len(candidates), len(rows))
	}

	// Keyword pass. An unpopulated full-text index yields no hits, not an
	// error, so the semantic candidates survive either way.
	hits, err := r.store.SearchKeyword(ctx, q.Granularity, q.Query, q.Keywords, q.Limit*keywordOverfetch)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	for _, hit := range hits {
		score := normaliseRank(hit.Rank)
		if c, ok := candidates[hit.ChunkID]; ok {
			c.KeywordScore = score
		} else {
			candidates[hit.ChunkID] = &domain.SearchResult{
				ChunkID:      hit.ChunkID,
				ChunkType:    q.Granularity,
				KeywordScore: score,
			}
		}
	}

	// Structural pass. Filters rescore existing candidates only; a record
	// matching every predicate but absent from both passes stays absent.
	if len(q.Filters) > 0 {
		for id, c := range candidates {
			match, err := r.store.MatchFields(ctx, q.Granularity, id, q.Filters)
			if err != nil {
				return nil, fmt.Errorf("match fields: %w", err)
			}
			if match {
				c.StructuralScore = 1.0
			}
		}
	}

	// Quality counters feed the combined score, so hydrate before ranking.
	ranked := make([]*domain.SearchResult, 0, len(candidates))
	for _, c := range candidates {
		if err := r.hydrate(ctx, c); err != nil {
			return nil, err
		}
		c.Score = c.CombinedScore()
		if c.Score >= q.MinScore {
			ranked = append(ranked, c)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ChunkID < ranked[j].ChunkID
	})
	if len(ranked) > q.Limit {
		ranked = ranked[:q.Limit]
	}

	results := make([]domain.SearchResult, len(ranked))
	for i, c := range ranked {
		results[i] = *c
	}
	logger.Debug("Search returned %d results", len(results))
	return results, nil
}

// FindSimilarSlides searches the slide collection with the given text.
func (r *RetrieverService) FindSimilarSlides(ctx context.Context, slideText string, limit int) ([]domain.SearchResult, error) {
	return r.Search(ctx, domain.SearchQuery{
		Query:       slideText,
		Granularity: domain.CollectionSlide,
		Limit:       limit,
	})
}

// GetSlideContext assembles a slide's deck neighbourhood by direct lookup.
func (r *RetrieverService) GetSlideContext(ctx context.Context, slideChunkID string) (*domain.SlideContext, error) {
	slide, err := r.store.GetSlide(ctx, slideChunkID)
	if err != nil {
		return nil, err
	}
	deck, err := r.store.GetDeck(ctx, slide.DeckChunkID)
	if err != nil {
		return nil, err
	}
	all, err := r.store.GetSlidesForDeck(ctx, slide.DeckChunkID)
	if err != nil {
		return nil, err
	}

	sc := &domain.SlideContext{
		DeckTitle:    deck.Title,
		DeckSummary:  deck.NarrativeSummary,
		SlideIndex:   slide.SlideIndex,
		TotalSlides:  len(all),
		SectionName:  slide.SectionName,
		DeckPosition: slide.DeckPosition,
	}
	if slide.SlideIndex > 0 && slide.SlideIndex-1 < len(all) {
		prev := all[slide.SlideIndex-1]
		sc.PrevSlide = &prev
	}
	if slide.SlideIndex+1 < len(all) {
		next := all[slide.SlideIndex+1]
		sc.NextSlide = &next
	}
	return sc, nil
}

// SuggestNextSlide proposes follow-on slides from historical ordering.
func (r *RetrieverService) SuggestNextSlide(ctx context.Context, currentSlideTypes []domain.SlideType, limit int) ([]domain.SearchResult, error) {
	if len(currentSlideTypes) == 0 {
		return r.Search(ctx, domain.SearchQuery{
			Query:       "title opening",
			Granularity: domain.CollectionSlide,
			Limit:       limit,
		})
	}
	last := currentSlideTypes[len(currentSlideTypes)-1]
	return r.Search(ctx, domain.SearchQuery{
		Query:       fmt.Sprintf("slide that follows %s", last),
		Granularity: domain.CollectionSlide,
		Filters:     map[string]string{"prev_slide_type": string(last)},
		Limit:       limit,
	})
}

// BestDesignFor returns the top proven slide for a content type and topic.
func (r *RetrieverService) BestDesignFor(ctx context.Context, contentType domain.SlideType, topic, audience string) (*domain.SearchResult, error) {
	query := strings.TrimSpace(topic + " " + string(contentType))
	if audience != "" {
		query += " " + audience
	}
	results, err := r.Search(ctx, domain.SearchQuery{
		Query:       query,
		Granularity: domain.CollectionSlide,
		Filters:     map[string]string{"slide_type": string(contentType)},
		Limit:       1,
	})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// hydrate populates a result with full record fields for its collection.
func (r *RetrieverService) hydrate(ctx context.Context, result *domain.SearchResult) error {
	switch result.ChunkType {
	case domain.CollectionSlide:
		slide, err := r.store.GetSlide(ctx, result.ChunkID)
		if err != nil {
			return fmt.Errorf("hydrate slide %s: %w", result.ChunkID, err)
		}
		result.DSLText = slide.DSLText
		result.SemanticSummary = slide.SemanticSummary
		result.SlideType = slide.SlideType
		result.ThumbnailPath = slide.ThumbnailPath
		result.TopicTags = slide.TopicTags
		result.KeepCount = slide.KeepCount
		result.RegenCount = slide.RegenCount
		if deck, err := r.store.GetDeck(ctx, slide.DeckChunkID); err == nil {
			result.DeckTitle = deck.Title
		}

	case domain.CollectionElement:
		element, err := r.store.GetElement(ctx, result.ChunkID)
		if err != nil {
			return fmt.Errorf("hydrate element %s: %w", result.ChunkID, err)
		}
		result.Payload = element.Payload
		result.SemanticSummary = element.SemanticSummary
		result.SlideType = element.SlideType
		result.TopicTags = element.TopicTags

	case domain.CollectionDeck:
		deck, err := r.store.GetDeck(ctx, result.ChunkID)
		if err != nil {
			return fmt.Errorf("hydrate deck %s: %w", result.ChunkID, err)
		}
		result.DeckTitle = deck.Title
		result.SemanticSummary = deck.NarrativeSummary
		result.TopicTags = deck.TopicTags
	}
	return nil
}

// normaliseRank maps a full-text rank (bm25: negative, lower is better)
// into [0,1].
func normaliseRank(rank float64) float64 {
	return math.Min(1.0, math.Abs(rank)/keywordRankNormaliser)
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths or zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
