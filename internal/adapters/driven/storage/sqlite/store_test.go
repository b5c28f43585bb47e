package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unnitin/slides/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testDeck(id string) *domain.DeckRecord {
	return &domain.DeckRecord{
		ID:                id,
		SourceFile:        "q3.deck",
		Title:             "Q3 Business Review",
		Author:            "Dana",
		Company:           "Acme",
		CreatedAt:         time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		SlideCount:        2,
		SlideTypeSequence: []domain.SlideType{domain.SlideTypeTitle, domain.SlideTypeClosing},
		TopicTags:         []string{"revenue", "retention"},
		TemplateUsed:      "corporate",
		BrandColors:       []string{"#1a1a2e", "#16213e", "#e94560"},
		Date:              "2026-08-01",
		Confidentiality:   "internal",
		Embedding:         []float32{0.5, 0.25, -0.125},
		SlideChunkIDs:     []string{"s-1", "s-2"},
	}
}

func testSlide(id, deckID string, index int) *domain.SlideRecord {
	return &domain.SlideRecord{
		ID:          id,
		DeckChunkID: deckID,
		SlideIndex:  index,
		SlideName:   "pipeline-metrics",
		SlideType:   domain.SlideTypeStatCallout,
		Background:  domain.BackgroundDark,
		Fingerprint: domain.Fingerprint{
			HasStats:  true,
			StatCount: 3,
		},
		DSLText:       "slide: pipeline metrics",
		PrevSlideType: domain.SlideTypeTitle,
		SectionName:   "Performance",
		DeckPosition:  domain.PositionMiddle,
		Embedding:     []float32{1, 0},
	}
}

func testElement(id, slideID, deckID string) *domain.ElementRecord {
	return &domain.ElementRecord{
		ID:              id,
		SlideChunkID:    slideID,
		DeckChunkID:     deckID,
		Type:            domain.ElementStat,
		PositionInSlide: 1,
		SiblingCount:    3,
		Payload: &domain.StatPayload{
			Value: "94%", Label: "Retention", IndexInGroup: 0, GroupSize: 3,
		},
		SlideType: domain.SlideTypeStatCallout,
		Embedding: []float32{0, 1},
	}
}

func TestUpsertDeck_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	deck := testDeck("d-1")

	require.NoError(t, store.UpsertDeck(ctx, deck))

	got, err := store.GetDeck(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, deck.Title, got.Title)
	assert.Equal(t, deck.SlideTypeSequence, got.SlideTypeSequence)
	assert.Equal(t, deck.TopicTags, got.TopicTags)
	assert.Equal(t, deck.BrandColors, got.BrandColors)
	assert.Equal(t, deck.SlideChunkIDs, got.SlideChunkIDs)
	assert.Equal(t, deck.Embedding, got.Embedding)
	assert.Equal(t, deck.Confidentiality, got.Confidentiality)
}

func TestUpsertDeck_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	deck := testDeck("d-1")

	require.NoError(t, store.UpsertDeck(ctx, deck))
	deck.Title = "Q3 Review (final)"
	require.NoError(t, store.UpsertDeck(ctx, deck))

	got, err := store.GetDeck(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, "Q3 Review (final)", got.Title)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Decks)
}

func TestGet_NotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.GetDeck(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetSlide(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetElement(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetPhraseTrigger(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpsertSlide_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.UpsertDeck(ctx, testDeck("d-1")))
	slide := testSlide("s-1", "d-1", 4)

	require.NoError(t, store.UpsertSlide(ctx, slide))

	got, err := store.GetSlide(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, slide.SlideName, got.SlideName)
	assert.Equal(t, slide.SlideType, got.SlideType)
	assert.Equal(t, 4, got.SlideIndex)
	assert.Equal(t, slide.Fingerprint, got.Fingerprint)
	assert.Equal(t, slide.DSLText, got.DSLText)
	assert.Equal(t, domain.PositionMiddle, got.DeckPosition)
	assert.Equal(t, slide.Embedding, got.Embedding)
}

func TestUpsertElement_RoundTripPayload(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.UpsertDeck(ctx, testDeck("d-1")))
	require.NoError(t, store.UpsertSlide(ctx, testSlide("s-1", "d-1", 0)))
	element := testElement("e-1", "s-1", "d-1")

	require.NoError(t, store.UpsertElement(ctx, element))

	got, err := store.GetElement(ctx, "e-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ElementStat, got.Type)
	assert.Equal(t, 1, got.PositionInSlide)
	assert.Equal(t, 3, got.SiblingCount)

	stat, ok := got.Payload.(*domain.StatPayload)
	require.True(t, ok, "payload decodes to its concrete type")
	assert.Equal(t, "94%", stat.Value)
	assert.Equal(t, "Retention", stat.Label)
	assert.Equal(t, 3, stat.GroupSize)
}

func TestGetSlidesForDeck_Ordering(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.UpsertDeck(ctx, testDeck("d-1")))
	require.NoError(t, store.UpsertDeck(ctx, testDeck("d-2")))

	// Insert out of order; reads must come back by slide index.
	for _, idx := range []int{2, 0, 1} {
		slide := testSlide("s-"+string(rune('a'+idx)), "d-1", idx)
		require.NoError(t, store.UpsertSlide(ctx, slide))
	}
	other := testSlide("s-other", "d-2", 0)
	require.NoError(t, store.UpsertSlide(ctx, other))

	slides, err := store.GetSlidesForDeck(ctx, "d-1")
	require.NoError(t, err)
	require.Len(t, slides, 3)
	for i, slide := range slides {
		assert.Equal(t, i, slide.SlideIndex)
	}
}

func TestGetElementsForSlide_Ordering(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.UpsertDeck(ctx, testDeck("d-1")))
	require.NoError(t, store.UpsertSlide(ctx, testSlide("s-1", "d-1", 0)))

	for _, pos := range []int{1, 0} {
		element := testElement("e-"+string(rune('a'+pos)), "s-1", "d-1")
		element.PositionInSlide = pos
		require.NoError(t, store.UpsertElement(ctx, element))
	}

	elements, err := store.GetElementsForSlide(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, elements, 2)
	assert.Equal(t, 0, elements[0].PositionInSlide)
	assert.Equal(t, 1, elements[1].PositionInSlide)
}

func TestAllEmbeddings_SkipsMissingVectors(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.UpsertDeck(ctx, testDeck("d-1")))

	withVec := testSlide("s-1", "d-1", 0)
	require.NoError(t, store.UpsertSlide(ctx, withVec))
	noVec := testSlide("s-2", "d-1", 1)
	noVec.Embedding = nil
	require.NoError(t, store.UpsertSlide(ctx, noVec))

	rows, err := store.AllEmbeddings(ctx, domain.CollectionSlide)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "s-1", rows[0].ChunkID)
	assert.Equal(t, []float32{1, 0}, rows[0].Embedding)
}

func TestSearchKeyword(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.UpsertDeck(ctx, testDeck("d-1")))

	hit := testSlide("s-hit", "d-1", 0)
	require.NoError(t, store.UpsertSlide(ctx, hit))
	miss := testSlide("s-miss", "d-1", 1)
	miss.SlideName = "org-chart"
	miss.DSLText = "slide: org chart"
	require.NoError(t, store.UpsertSlide(ctx, miss))

	hits, err := store.SearchKeyword(ctx, domain.CollectionSlide, "pipeline", nil, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "s-hit", hits[0].ChunkID)
	assert.Negative(t, hits[0].Rank)
}

func TestSearchKeyword_Keywords(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.UpsertDeck(ctx, testDeck("d-1")))
	require.NoError(t, store.UpsertSlide(ctx, testSlide("s-1", "d-1", 0)))

	// Keywords are disjunctive: a miss on the query text still matches.
	hits, err := store.SearchKeyword(ctx, domain.CollectionSlide, "zzzz", []string{"metrics"}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "s-1", hits[0].ChunkID)
}

func TestSearchKeyword_EmptyIndexAndAdversarialInput(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	hits, err := store.SearchKeyword(ctx, domain.CollectionSlide, "anything", nil, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = store.SearchKeyword(ctx, domain.CollectionSlide, "", nil, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	// FTS operators in user input must not produce a syntax error.
	hits, err = store.SearchKeyword(ctx, domain.CollectionSlide, `"NEAR( AND`, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchKeyword_ClosedStoreReturnsError(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.UpsertDeck(ctx, testDeck("d-1")))
	require.NoError(t, store.UpsertSlide(ctx, testSlide("s-1", "d-1", 0)))
	require.NoError(t, store.Close())

	// A broken store is a failure, not an empty result set.
	hits, err := store.SearchKeyword(ctx, domain.CollectionSlide, "pipeline", nil, 10)
	require.Error(t, err)
	assert.Nil(t, hits)
}

func TestMatchFields(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.UpsertDeck(ctx, testDeck("d-1")))
	require.NoError(t, store.UpsertSlide(ctx, testSlide("s-1", "d-1", 0)))

	match, err := store.MatchFields(ctx, domain.CollectionSlide, "s-1", map[string]string{
		"slide_type":    "stat_callout",
		"deck_position": "middle",
		"has_stats":     "1",
		"stat_count":    "3",
	})
	require.NoError(t, err)
	assert.True(t, match)

	match, err = store.MatchFields(ctx, domain.CollectionSlide, "s-1", map[string]string{
		"slide_type": "timeline",
	})
	require.NoError(t, err)
	assert.False(t, match)

	// Unknown fields and unknown ids never match.
	match, err = store.MatchFields(ctx, domain.CollectionSlide, "s-1", map[string]string{
		"no_such_field": "x",
	})
	require.NoError(t, err)
	assert.False(t, match)

	match, err = store.MatchFields(ctx, domain.CollectionSlide, "missing", map[string]string{
		"slide_type": "stat_callout",
	})
	require.NoError(t, err)
	assert.False(t, match)

	// No filters is a vacuous match.
	match, err = store.MatchFields(ctx, domain.CollectionSlide, "s-1", nil)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestRecordPhraseTrigger_AccumulatesHits(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.RecordPhraseTrigger(ctx, "show me the pipeline metrics", "s-1", ""))
	require.NoError(t, store.RecordPhraseTrigger(ctx, "pipeline metrics", "s-2", "e-9"))

	trigger, err := store.GetPhraseTrigger(ctx, "pipeline metrics")
	require.NoError(t, err)
	assert.Equal(t, 2, trigger.HitCount)
	assert.Equal(t, "s-2", trigger.MatchedSlideChunkID)
	assert.Equal(t, "e-9", trigger.MatchedElementChunkID)
	assert.Equal(t, domain.DefaultTriggerConfidence, trigger.Confidence)
}

func TestRecordFeedback_Counters(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.UpsertDeck(ctx, testDeck("d-1")))
	require.NoError(t, store.UpsertSlide(ctx, testSlide("s-1", "d-1", 0)))

	require.NoError(t, store.RecordFeedback(ctx, "s-1", domain.CollectionSlide, domain.SignalUse, nil))
	require.NoError(t, store.RecordFeedback(ctx, "s-1", domain.CollectionSlide, domain.SignalKeep, nil))
	require.NoError(t, store.RecordFeedback(ctx, "s-1", domain.CollectionSlide, domain.SignalEdit,
		map[string]any{"edited_dsl": "tightened heading"}))
	require.NoError(t, store.RecordFeedback(ctx, "s-1", domain.CollectionSlide, domain.SignalRegen, nil))

	slide, err := store.GetSlide(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, 1, slide.UseCount)
	assert.Equal(t, 1, slide.KeepCount)
	assert.Equal(t, 1, slide.EditCount)
	assert.Equal(t, 1, slide.RegenCount)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.FeedbackEvents)
}

func TestRecordFeedback_UnknownChunk(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	err := store.RecordFeedback(ctx, "missing", domain.CollectionSlide, domain.SignalKeep, nil)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordFeedback_InvalidSignal(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.UpsertDeck(ctx, testDeck("d-1")))
	require.NoError(t, store.UpsertSlide(ctx, testSlide("s-1", "d-1", 0)))

	err := store.RecordFeedback(ctx, "s-1", domain.CollectionSlide, "applaud", nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.UpsertDeck(ctx, testDeck("d-1")))
	require.NoError(t, store.UpsertSlide(ctx, testSlide("s-1", "d-1", 0)))
	require.NoError(t, store.UpsertElement(ctx, testElement("e-1", "s-1", "d-1")))
	require.NoError(t, store.RecordPhraseTrigger(ctx, "pipeline metrics", "s-1", ""))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Decks)
	assert.Equal(t, 1, stats.Slides)
	assert.Equal(t, 1, stats.Elements)
	assert.Equal(t, 1, stats.PhraseTriggers)
	assert.Zero(t, stats.FeedbackEvents)
}

func TestStore_ReopenPersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.UpsertDeck(ctx, testDeck("d-1")))
	require.NoError(t, store.Close())

	// Reopening must not re-run migrations destructively.
	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetDeck(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, "Q3 Business Review", got.Title)
}
