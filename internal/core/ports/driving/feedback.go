package driving

import (
	"context"

	"github.com/unnitin/slides/internal/core/domain"
)

// FeedbackService records usage signals against indexed chunks so that
// retrieval can prefer designs that users keep over designs they
// regenerate.
type FeedbackService interface {
	// RecordUse marks a slide's design as reused in a new deck.
	RecordUse(ctx context.Context, slideChunkID string) error

	// RecordKeep marks a slide's design as accepted unchanged.
	RecordKeep(ctx context.Context, slideChunkID string) error

	// RecordEdit marks a slide as kept after manual changes. The edit
	// description is stored for later analysis.
	RecordEdit(ctx context.Context, slideChunkID, description string) error

	// RecordRegen marks a slide's design as rejected and regenerated.
	RecordRegen(ctx context.Context, slideChunkID, reason string) error

	// RecordPhraseHit associates a brief phrase with the design that
	// satisfied it, creating or reinforcing a phrase trigger.
	RecordPhraseHit(ctx context.Context, phrase, slideChunkID, elementChunkID string) error

	// LookupPhrase returns the trigger for a phrase, if one exists.
	LookupPhrase(ctx context.Context, phrase string) (*domain.PhraseTrigger, error)
}
