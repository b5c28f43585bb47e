package domain

// SearchQuery configures one hybrid search against the index.
type SearchQuery struct {
	// Query is the natural-language search text.
	Query string

	// Granularity selects the collection to search. Defaults to slide.
	Granularity Collection

	// Filters are exact field-value predicates (e.g. slide_type ->
	// stat_callout). Filters rescore existing candidates; they never
	// synthesize candidates on their own.
	Filters map[string]string

	// Keywords are extra full-text terms joined disjunctively with Query.
	Keywords []string

	// Limit is the maximum number of results. Defaults to 10.
	Limit int

	// MinScore is the combined-score threshold. Defaults to 0.1.
	MinScore float64
}

// Scoring weights for hybrid search. The quality boost is a flat bonus for
// designs whose quality score exceeds QualityBoostThreshold.
const (
	WeightSemantic        = 0.5
	WeightStructural      = 0.3
	WeightKeyword         = 0.2
	QualityBoost          = 0.1
	QualityBoostThreshold = 0.6
)

// SearchResult is a single ranked, hydrated hit from the index.
type SearchResult struct {
	ChunkID   string
	ChunkType Collection

	// Score is the combined relevance in [0,1] (plus quality bonus).
	Score           float64
	SemanticScore   float64
	StructuralScore float64
	KeywordScore    float64

	// Content, populated during hydration.
	DSLText         string
	Payload         ElementPayload
	SemanticSummary string
	TopicTags       []string

	// Context
	DeckTitle     string
	SlideType     SlideType
	ThumbnailPath string

	// Quality signals
	KeepCount  int
	RegenCount int
}

// QualityScore mirrors SlideRecord.QualityScore on hydrated results.
func (r *SearchResult) QualityScore() float64 {
	total := r.KeepCount + r.RegenCount
	if total == 0 {
		return 0.5
	}
	return float64(r.KeepCount) / float64(total)
}

// CombinedScore folds the component scores into the final ranking value.
func (r *SearchResult) CombinedScore() float64 {
	score := WeightSemantic*r.SemanticScore +
		WeightStructural*r.StructuralScore +
		WeightKeyword*r.KeywordScore
	if r.QualityScore() > QualityBoostThreshold {
		score += QualityBoost
	}
	return score
}

// SlideContext is the full neighbourhood of one slide within its deck,
// assembled by direct lookup rather than search.
type SlideContext struct {
	DeckTitle    string
	DeckSummary  string
	SlideIndex   int
	TotalSlides  int
	PrevSlide    *SlideRecord
	NextSlide    *SlideRecord
	SectionName  string
	DeckPosition DeckPosition
}
