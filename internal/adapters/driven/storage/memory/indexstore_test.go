package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unnitin/slides/internal/core/domain"
)

func TestIndexStore_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewIndexStore()

	deck := domain.DeckRecord{ID: "d-1", Title: "Q3 Review"}
	require.NoError(t, store.UpsertDeck(ctx, &deck))

	got, err := store.GetDeck(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, "Q3 Review", got.Title)

	_, err = store.GetDeck(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndexStore_ChildOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewIndexStore()

	for _, idx := range []int{2, 0, 1} {
		slide := domain.SlideRecord{
			ID: "s-" + string(rune('a'+idx)), DeckChunkID: "d-1", SlideIndex: idx,
		}
		require.NoError(t, store.UpsertSlide(ctx, &slide))
	}

	slides, err := store.GetSlidesForDeck(ctx, "d-1")
	require.NoError(t, err)
	require.Len(t, slides, 3)
	for i, slide := range slides {
		assert.Equal(t, i, slide.SlideIndex)
	}
}

func TestIndexStore_SearchKeyword(t *testing.T) {
	ctx := context.Background()
	store := NewIndexStore()

	hit := domain.SlideRecord{ID: "s-hit", SlideName: "pipeline metrics"}
	require.NoError(t, store.UpsertSlide(ctx, &hit))
	miss := domain.SlideRecord{ID: "s-miss", SlideName: "org chart"}
	require.NoError(t, store.UpsertSlide(ctx, &miss))

	hits, err := store.SearchKeyword(ctx, domain.CollectionSlide, "pipeline", nil, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "s-hit", hits[0].ChunkID)
	assert.Negative(t, hits[0].Rank)

	empty, err := store.SearchKeyword(ctx, domain.CollectionSlide, "", nil, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestIndexStore_MatchFields(t *testing.T) {
	ctx := context.Background()
	store := NewIndexStore()

	slide := domain.SlideRecord{
		ID:        "s-1",
		SlideType: domain.SlideTypeStatCallout,
		Fingerprint: domain.Fingerprint{
			HasStats: true, StatCount: 3,
		},
	}
	require.NoError(t, store.UpsertSlide(ctx, &slide))

	match, err := store.MatchFields(ctx, domain.CollectionSlide, "s-1", map[string]string{
		"slide_type": "stat_callout", "has_stats": "1", "stat_count": "3",
	})
	require.NoError(t, err)
	assert.True(t, match)

	match, err = store.MatchFields(ctx, domain.CollectionSlide, "s-1", map[string]string{
		"not_a_field": "x",
	})
	require.NoError(t, err)
	assert.False(t, match)
}

func TestIndexStore_MutationsDoNotLeak(t *testing.T) {
	ctx := context.Background()
	store := NewIndexStore()

	slide := domain.SlideRecord{ID: "s-1", SlideName: "before"}
	require.NoError(t, store.UpsertSlide(ctx, &slide))

	// Mutating the caller's record after the write must not change the
	// stored copy.
	slide.SlideName = "after"

	got, err := store.GetSlide(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "before", got.SlideName)
}
