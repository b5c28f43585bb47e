package domain

import (
	"strings"
	"time"
)

// FeedbackSignal is one user signal against a chunk.
type FeedbackSignal string

// Feedback signals. Only use/keep/edit/regen on slide chunks also increment
// the slide's materialized counters; delete is log-only.
const (
	SignalUse    FeedbackSignal = "use"
	SignalKeep   FeedbackSignal = "keep"
	SignalEdit   FeedbackSignal = "edit"
	SignalRegen  FeedbackSignal = "regen"
	SignalDelete FeedbackSignal = "delete"
)

// Valid reports whether s names a known signal.
func (s FeedbackSignal) Valid() bool {
	switch s {
	case SignalUse, SignalKeep, SignalEdit, SignalRegen, SignalDelete:
		return true
	}
	return false
}

// FeedbackEvent is one immutable, append-only user signal. The slide usage
// counters are a materialized view over these events, kept consistent with
// the log on every write; the log remains the source of truth.
type FeedbackEvent struct {
	ID        string
	ChunkID   string
	ChunkType Collection
	Signal    FeedbackSignal
	Context   map[string]any
	CreatedAt time.Time
}

// PhraseTrigger maps a normalized natural-language phrase to the slide or
// element it most recently matched. Confidence is seeded at 0.5 and is not
// adapted by evidence; only the hit counter grows. Adaptive confidence is a
// noted extension point, deliberately not implemented.
type PhraseTrigger struct {
	ID                    string
	Phrase                string
	NormalizedPhrase      string
	MatchedSlideChunkID   string
	MatchedElementChunkID string
	Confidence            float64
	HitCount              int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// DefaultTriggerConfidence is the seed confidence for new phrase triggers.
const DefaultTriggerConfidence = 0.5

// phraseStopwords are dropped during phrase normalization so request
// phrasings like "show me the pipeline metrics" and "pipeline metrics"
// collapse to the same trigger key.
var phraseStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "may": {}, "might": {}, "can": {}, "shall": {}, "to": {},
	"of": {}, "in": {}, "for": {}, "on": {}, "with": {}, "at": {}, "by": {},
	"from": {}, "as": {}, "into": {}, "about": {}, "like": {}, "through": {},
	"after": {}, "over": {}, "between": {}, "out": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "it": {}, "its": {}, "my": {}, "your": {},
	"our": {}, "their": {}, "me": {}, "we": {}, "you": {}, "show": {},
	"make": {}, "create": {}, "build": {}, "give": {}, "how": {}, "what": {},
}

// NormalizePhrase lowercases, strips stopwords, and collapses whitespace,
// producing the key under which phrase triggers accumulate hits.
func NormalizePhrase(phrase string) string {
	words := strings.Fields(strings.ToLower(phrase))
	filtered := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := phraseStopwords[w]; stop {
			continue
		}
		filtered = append(filtered, w)
	}
	return strings.Join(filtered, " ")
}

// IndexStats reports per-collection row counts for index health reporting.
type IndexStats struct {
	Decks          int
	Slides         int
	Elements       int
	PhraseTriggers int
	FeedbackEvents int
}
