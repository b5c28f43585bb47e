package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unnitin/slides/internal/core/domain"
)

// flakyEmbedding fails for one specific text and otherwise delegates to
// fixtureEmbedding.
type flakyEmbedding struct {
	fixtureEmbedding
	failOn string
}

var errEmbedDown = errors.New("backend down")

func (f *flakyEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == f.failOn {
		return nil, errEmbedDown
	}
	return f.fixtureEmbedding.Embed(ctx, text)
}

func TestEmbedRecords_SkipsFailures(t *testing.T) {
	good := &domain.SlideRecord{ID: "s-good", SlideName: "metrics"}
	bad := &domain.SlideRecord{ID: "s-bad", SlideName: "broken"}
	svc := &flakyEmbedding{
		fixtureEmbedding: fixtureEmbedding{dims: 2},
		failOn:           bad.EmbeddingText(),
	}

	err := EmbedRecords(context.Background(), svc, []Embeddable{good, bad})

	// The batch completes; the failure is reported but s-good keeps its
	// vector.
	require.ErrorIs(t, err, errEmbedDown)
	assert.Len(t, good.Embedding, 2)
	assert.Nil(t, bad.Embedding)
}

func TestEmbedRecords_DimensionMismatch(t *testing.T) {
	rec := &domain.SlideRecord{ID: "s-1", SlideName: "metrics"}
	svc := &fixtureEmbedding{
		dims:    4,
		vectors: map[string][]float32{rec.EmbeddingText(): {1, 0}},
	}

	err := EmbedRecords(context.Background(), svc, []Embeddable{rec})

	require.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Nil(t, rec.Embedding)
}

func TestEmbedRecords_NilService(t *testing.T) {
	rec := &domain.SlideRecord{ID: "s-1"}

	require.NoError(t, EmbedRecords(context.Background(), nil, []Embeddable{rec}))
	assert.Nil(t, rec.Embedding)
}
