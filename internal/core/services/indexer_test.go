package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unnitin/slides/internal/adapters/driven/storage/memory"
	"github.com/unnitin/slides/internal/core/domain"
)

func TestIndex_FullPipeline(t *testing.T) {
	ctx := context.Background()
	store := memory.NewIndexStore()
	indexer := NewIndexerService(newTestChunker(), store, nil)

	deckID, slideCount, elementCount, err := indexer.Index(ctx, testPresentation(), "q3.deck")

	require.NoError(t, err)
	assert.NotEmpty(t, deckID)
	assert.Equal(t, 4, slideCount)
	assert.Greater(t, elementCount, 0)

	deck, err := store.GetDeck(ctx, deckID)
	require.NoError(t, err)
	assert.Equal(t, "Q3 Business Review", deck.Title)

	slides, err := store.GetSlidesForDeck(ctx, deckID)
	require.NoError(t, err)
	require.Len(t, slides, 4)

	elements, err := store.GetElementsForSlide(ctx, slides[1].ID)
	require.NoError(t, err)
	assert.Len(t, elements, len(slides[1].ElementChunkIDs))

	stats, err := indexer.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Decks)
	assert.Equal(t, 4, stats.Slides)
	assert.Equal(t, elementCount, stats.Elements)
}

func TestIndex_EmptyPresentation(t *testing.T) {
	indexer := NewIndexerService(newTestChunker(), memory.NewIndexStore(), nil)

	_, _, _, err := indexer.Index(context.Background(), domain.Presentation{}, "empty.deck")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIndex_AttachesEmbeddings(t *testing.T) {
	ctx := context.Background()
	store := memory.NewIndexStore()
	embedding := &fixtureEmbedding{dims: 2}
	indexer := NewIndexerService(newTestChunker(), store, embedding)

	deckID, _, _, err := indexer.Index(ctx, testPresentation(), "q3.deck")
	require.NoError(t, err)

	deck, err := store.GetDeck(ctx, deckID)
	require.NoError(t, err)
	assert.Len(t, deck.Embedding, 2)

	rows, err := store.AllEmbeddings(ctx, domain.CollectionSlide)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestIndex_Reingest(t *testing.T) {
	ctx := context.Background()
	store := memory.NewIndexStore()
	indexer := NewIndexerService(newTestChunker(), store, nil)

	_, _, _, err := indexer.Index(ctx, testPresentation(), "q3.deck")
	require.NoError(t, err)
	_, _, _, err = indexer.Index(ctx, testPresentation(), "q3.deck")
	require.NoError(t, err)

	// Chunk ids are freshly minted per ingest, so a re-ingest adds a second
	// copy of the deck rather than replacing the first.
	stats, err := indexer.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Decks)
	assert.Equal(t, 8, stats.Slides)
}
