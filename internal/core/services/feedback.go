package services

import (
	"context"
	"fmt"

	"github.com/unnitin/slides/internal/core/domain"
	"github.com/unnitin/slides/internal/core/ports/driven"
	"github.com/unnitin/slides/internal/core/ports/driving"
)

// Ensure FeedbackProcessor implements the interface.
var _ driving.FeedbackService = (*FeedbackProcessor)(nil)

// editContextLimit caps stored edit descriptions so one giant paste cannot
// bloat the feedback log.
const editContextLimit = 500

// FeedbackProcessor routes user signals into the index so retrieval can
// rank proven designs above rejected ones.
type FeedbackProcessor struct {
	store driven.IndexStore
}

// NewFeedbackProcessor creates a feedback processor over the given store.
func NewFeedbackProcessor(store driven.IndexStore) *FeedbackProcessor {
	return &FeedbackProcessor{store: store}
}

// RecordUse marks a slide's design as reused in a new deck.
func (f *FeedbackProcessor) RecordUse(ctx context.Context, slideChunkID string) error {
	return f.store.RecordFeedback(ctx, slideChunkID, domain.CollectionSlide, domain.SignalUse, nil)
}

// RecordKeep marks a slide's design as accepted unchanged.
func (f *FeedbackProcessor) RecordKeep(ctx context.Context, slideChunkID string) error {
	return f.store.RecordFeedback(ctx, slideChunkID, domain.CollectionSlide, domain.SignalKeep, nil)
}

// RecordEdit marks a slide as kept after manual changes.
func (f *FeedbackProcessor) RecordEdit(ctx context.Context, slideChunkID, description string) error {
	var fbCtx map[string]any
	if description != "" {
		fbCtx = map[string]any{"edited_dsl": truncate(description, editContextLimit)}
	}
	return f.store.RecordFeedback(ctx, slideChunkID, domain.CollectionSlide, domain.SignalEdit, fbCtx)
}

// RecordRegen marks a slide's design as rejected and regenerated.
func (f *FeedbackProcessor) RecordRegen(ctx context.Context, slideChunkID, reason string) error {
	var fbCtx map[string]any
	if reason != "" {
		fbCtx = map[string]any{"reason": truncate(reason, editContextLimit)}
	}
	return f.store.RecordFeedback(ctx, slideChunkID, domain.CollectionSlide, domain.SignalRegen, fbCtx)
}

// RecordPhraseHit creates or reinforces the trigger for a phrase.
func (f *FeedbackProcessor) RecordPhraseHit(ctx context.Context, phrase, slideChunkID, elementChunkID string) error {
	if domain.NormalizePhrase(phrase) == "" {
		return fmt.Errorf("%w: phrase normalizes to empty", domain.ErrInvalidInput)
	}
	return f.store.RecordPhraseTrigger(ctx, phrase, slideChunkID, elementChunkID)
}

// LookupPhrase returns the trigger for a phrase, if one exists.
func (f *FeedbackProcessor) LookupPhrase(ctx context.Context, phrase string) (*domain.PhraseTrigger, error) {
	return f.store.GetPhraseTrigger(ctx, domain.NormalizePhrase(phrase))
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
