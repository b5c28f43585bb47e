// Package memory provides an in-memory IndexStore. It mirrors the SQLite
// store's contract (upsert-by-id, ErrNotFound, field filtering) with naive
// substring keyword matching in place of FTS5, and is used as a lightweight
// backing store in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unnitin/slides/internal/core/domain"
	"github.com/unnitin/slides/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore is an in-memory implementation of driven.IndexStore.
type IndexStore struct {
	mu       sync.RWMutex
	decks    map[string]domain.DeckRecord
	slides   map[string]domain.SlideRecord
	elements map[string]domain.ElementRecord
	triggers map[string]domain.PhraseTrigger
	events   []domain.FeedbackEvent
}

// NewIndexStore creates a new in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{
		decks:    make(map[string]domain.DeckRecord),
		slides:   make(map[string]domain.SlideRecord),
		elements: make(map[string]domain.ElementRecord),
		triggers: make(map[string]domain.PhraseTrigger),
	}
}

// UpsertDeck inserts or replaces a deck record by id.
func (s *IndexStore) UpsertDeck(_ context.Context, deck *domain.DeckRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decks[deck.ID] = *deck
	return nil
}

// UpsertSlide inserts or replaces a slide record by id.
func (s *IndexStore) UpsertSlide(_ context.Context, slide *domain.SlideRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slides[slide.ID] = *slide
	return nil
}

// UpsertElement inserts or replaces an element record by id.
func (s *IndexStore) UpsertElement(_ context.Context, element *domain.ElementRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements[element.ID] = *element
	return nil
}

// GetDeck retrieves a deck by id.
func (s *IndexStore) GetDeck(_ context.Context, id string) (*domain.DeckRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deck, ok := s.decks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &deck, nil
}

// GetSlide retrieves a slide by id.
func (s *IndexStore) GetSlide(_ context.Context, id string) (*domain.SlideRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slide, ok := s.slides[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &slide, nil
}

// GetElement retrieves an element by id.
func (s *IndexStore) GetElement(_ context.Context, id string) (*domain.ElementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	element, ok := s.elements[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &element, nil
}

// GetSlidesForDeck returns a deck's slides ordered by slide index.
func (s *IndexStore) GetSlidesForDeck(_ context.Context, deckID string) ([]domain.SlideRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var slides []domain.SlideRecord
	for _, slide := range s.slides {
		if slide.DeckChunkID == deckID {
			slides = append(slides, slide)
		}
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].SlideIndex < slides[j].SlideIndex })
	return slides, nil
}

// GetElementsForSlide returns a slide's elements ordered by position.
func (s *IndexStore) GetElementsForSlide(_ context.Context, slideID string) ([]domain.ElementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var elements []domain.ElementRecord
	for _, element := range s.elements {
		if element.SlideChunkID == slideID {
			elements = append(elements, element)
		}
	}
	sort.Slice(elements, func(i, j int) bool {
		return elements[i].PositionInSlide < elements[j].PositionInSlide
	})
	return elements, nil
}

// AllEmbeddings returns every stored (id, vector) pair in a collection,
// skipping records with no vector.
func (s *IndexStore) AllEmbeddings(_ context.Context, c domain.Collection) ([]driven.EmbeddingRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []driven.EmbeddingRow
	switch c {
	case domain.CollectionDeck:
		for _, deck := range s.decks {
			if len(deck.Embedding) > 0 {
				rows = append(rows, driven.EmbeddingRow{ChunkID: deck.ID, Embedding: deck.Embedding})
			}
		}
	case domain.CollectionSlide:
		for _, slide := range s.slides {
			if len(slide.Embedding) > 0 {
				rows = append(rows, driven.EmbeddingRow{ChunkID: slide.ID, Embedding: slide.Embedding})
			}
		}
	case domain.CollectionElement:
		for _, element := range s.elements {
			if len(element.Embedding) > 0 {
				rows = append(rows, driven.EmbeddingRow{ChunkID: element.ID, Embedding: element.Embedding})
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCollection, c)
	}
	return rows, nil
}

// SearchKeyword matches query and keyword tokens as substrings of each
// record's searchable text. Rank counts matched tokens, negated to match
// the bm25 convention of lower-is-better.
func (s *IndexStore) SearchKeyword(_ context.Context, c domain.Collection, query string, keywords []string, limit int) ([]driven.KeywordHit, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCollection, c)
	}
	tokens := strings.Fields(strings.ToLower(query))
	for _, kw := range keywords {
		tokens = append(tokens, strings.Fields(strings.ToLower(kw))...)
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var hits []driven.KeywordHit
	for id, text := range s.searchTexts(c) {
		matched := 0
		for _, tok := range tokens {
			if strings.Contains(text, tok) {
				matched++
			}
		}
		if matched > 0 {
			hits = append(hits, driven.KeywordHit{ChunkID: id, Rank: -float64(matched)})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Rank != hits[j].Rank {
			return hits[i].Rank < hits[j].Rank
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (s *IndexStore) searchTexts(c domain.Collection) map[string]string {
	texts := make(map[string]string)
	switch c {
	case domain.CollectionDeck:
		for id, deck := range s.decks {
			texts[id] = strings.ToLower(strings.Join([]string{
				deck.Title, deck.Author, deck.Company, deck.NarrativeSummary,
				deck.Audience, deck.Purpose, strings.Join(deck.TopicTags, " "),
			}, " "))
		}
	case domain.CollectionSlide:
		for id, slide := range s.slides {
			texts[id] = strings.ToLower(strings.Join([]string{
				slide.SlideName, string(slide.SlideType), slide.SemanticSummary,
				slide.SectionName, slide.ContentDomain, slide.DSLText,
				strings.Join(slide.TopicTags, " "),
			}, " "))
		}
	case domain.CollectionElement:
		for id, element := range s.elements {
			payload, _ := domain.MarshalPayload(element.Payload)
			texts[id] = strings.ToLower(strings.Join([]string{
				string(element.Type), element.SemanticSummary,
				strings.Join(element.TopicTags, " "), string(payload),
			}, " "))
		}
	}
	return texts
}

// MatchFields reports whether the record's fields exactly match every
// filter predicate. Field names and value formatting follow the SQLite
// store: booleans compare as "0"/"1", unknown fields never match.
func (s *IndexStore) MatchFields(_ context.Context, c domain.Collection, id string, filters map[string]string) (bool, error) {
	if len(filters) == 0 {
		return true, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields, ok := s.filterFields(c, id)
	if !ok {
		return false, nil
	}
	for field, want := range filters {
		got, known := fields[field]
		if !known || got != want {
			return false, nil
		}
	}
	return true, nil
}

func (s *IndexStore) filterFields(c domain.Collection, id string) (map[string]string, bool) {
	switch c {
	case domain.CollectionDeck:
		deck, ok := s.decks[id]
		if !ok {
			return nil, false
		}
		return map[string]string{
			"source_file": deck.SourceFile, "title": deck.Title,
			"author": deck.Author, "company": deck.Company,
			"template_used": deck.TemplateUsed, "date": deck.Date,
			"confidentiality": deck.Confidentiality, "audience": deck.Audience,
			"purpose":     deck.Purpose,
			"slide_count": strconv.Itoa(deck.SlideCount),
		}, true
	case domain.CollectionSlide:
		slide, ok := s.slides[id]
		if !ok {
			return nil, false
		}
		return map[string]string{
			"slide_type":      string(slide.SlideType),
			"layout_variant":  slide.LayoutVariant,
			"background":      string(slide.Background),
			"prev_slide_type": string(slide.PrevSlideType),
			"next_slide_type": string(slide.NextSlideType),
			"section_name":    slide.SectionName,
			"deck_position":   string(slide.DeckPosition),
			"content_domain":  slide.ContentDomain,
			"deck_chunk_id":   slide.DeckChunkID,
			"has_stats":       boolField(slide.HasStats),
			"stat_count":      strconv.Itoa(slide.StatCount),
			"has_bullets":     boolField(slide.HasBullets),
			"bullet_count":    strconv.Itoa(slide.BulletCount),
			"has_columns":     boolField(slide.HasColumns),
			"column_count":    strconv.Itoa(slide.ColumnCount),
			"has_timeline":    boolField(slide.HasTimeline),
			"step_count":      strconv.Itoa(slide.StepCount),
			"has_comparison":  boolField(slide.HasComparison),
			"has_image":       boolField(slide.HasImage),
			"has_icons":       boolField(slide.HasIcons),
			"has_source":      boolField(slide.HasSource),
			"has_exhibit":     boolField(slide.HasExhibit),
			"has_next_steps":  boolField(slide.HasNextSteps),
			"next_step_count": strconv.Itoa(slide.NextStepCount),
		}, true
	case domain.CollectionElement:
		element, ok := s.elements[id]
		if !ok {
			return nil, false
		}
		return map[string]string{
			"element_type":      string(element.Type),
			"slide_type":        string(element.SlideType),
			"slide_chunk_id":    element.SlideChunkID,
			"deck_chunk_id":     element.DeckChunkID,
			"position_in_slide": strconv.Itoa(element.PositionInSlide),
			"sibling_count":     strconv.Itoa(element.SiblingCount),
		}, true
	}
	return nil, false
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// RecordPhraseTrigger inserts a trigger for the normalized phrase or
// increments the existing trigger's hit counter, repointing it at the most
// recent match.
func (s *IndexStore) RecordPhraseTrigger(_ context.Context, phrase, slideChunkID, elementChunkID string) error {
	normalized := domain.NormalizePhrase(phrase)
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if trigger, ok := s.triggers[normalized]; ok {
		trigger.HitCount++
		trigger.MatchedSlideChunkID = slideChunkID
		trigger.MatchedElementChunkID = elementChunkID
		trigger.UpdatedAt = now
		s.triggers[normalized] = trigger
		return nil
	}
	s.triggers[normalized] = domain.PhraseTrigger{
		ID:                    uuid.NewString(),
		Phrase:                phrase,
		NormalizedPhrase:      normalized,
		MatchedSlideChunkID:   slideChunkID,
		MatchedElementChunkID: elementChunkID,
		Confidence:            domain.DefaultTriggerConfidence,
		HitCount:              1,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	return nil
}

// GetPhraseTrigger retrieves a trigger by its already-normalized key.
func (s *IndexStore) GetPhraseTrigger(_ context.Context, normalized string) (*domain.PhraseTrigger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trigger, ok := s.triggers[normalized]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &trigger, nil
}

// RecordFeedback appends one event to the feedback log and, for slide
// keep/edit/regen signals, increments the slide's counter.
func (s *IndexStore) RecordFeedback(_ context.Context, chunkID string, c domain.Collection, signal domain.FeedbackSignal, context map[string]any) error {
	if !signal.Valid() {
		return fmt.Errorf("%w: feedback signal %q", domain.ErrInvalidInput, signal)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	exists := false
	switch c {
	case domain.CollectionDeck:
		_, exists = s.decks[chunkID]
	case domain.CollectionSlide:
		_, exists = s.slides[chunkID]
	case domain.CollectionElement:
		_, exists = s.elements[chunkID]
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownCollection, c)
	}
	if !exists {
		return domain.ErrNotFound
	}

	s.events = append(s.events, domain.FeedbackEvent{
		ID:        uuid.NewString(),
		ChunkID:   chunkID,
		ChunkType: c,
		Signal:    signal,
		Context:   context,
		CreatedAt: time.Now().UTC(),
	})

	if c == domain.CollectionSlide {
		slide := s.slides[chunkID]
		switch signal {
		case domain.SignalUse:
			slide.UseCount++
		case domain.SignalKeep:
			slide.KeepCount++
		case domain.SignalEdit:
			slide.EditCount++
		case domain.SignalRegen:
			slide.RegenCount++
		}
		s.slides[chunkID] = slide
	}
	return nil
}

// Stats returns per-collection row counts.
func (s *IndexStore) Stats(_ context.Context) (domain.IndexStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.IndexStats{
		Decks:          len(s.decks),
		Slides:         len(s.slides),
		Elements:       len(s.elements),
		PhraseTriggers: len(s.triggers),
		FeedbackEvents: len(s.events),
	}, nil
}

// Close is a no-op for the in-memory store.
func (s *IndexStore) Close() error { return nil }
