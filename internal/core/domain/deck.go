package domain

import (
	"fmt"
	"strings"
	"time"
)

// Collection identifies one of the three chunk granularities.
type Collection string

// The three collections of the index.
const (
	CollectionDeck    Collection = "deck"
	CollectionSlide   Collection = "slide"
	CollectionElement Collection = "element"
)

// Valid reports whether c names a known collection.
func (c Collection) Valid() bool {
	switch c {
	case CollectionDeck, CollectionSlide, CollectionElement:
		return true
	}
	return false
}

// DeckRecord is the deck-level chunk: the presentation as a whole.
//
// Structural fields are computed deterministically at chunk time. Semantic
// fields (NarrativeSummary, Audience, Purpose) are empty until an external
// enrichment step populates them.
type DeckRecord struct {
	ID         string
	SourceFile string
	Title      string
	Author     string
	Company    string
	CreatedAt  time.Time

	// Structural (computed deterministically)
	SlideCount        int
	SlideTypeSequence []SlideType
	TopicTags         []string
	TemplateUsed      string
	BrandColors       []string

	// Presentation metadata carried verbatim from the frontmatter.
	Date            string
	Confidentiality string

	// Semantic (enrichment-populated)
	NarrativeSummary string
	Audience         string
	Purpose          string

	Embedding []float32

	// Child references, in slide order. Invariant after chunking:
	// len(SlideChunkIDs) == SlideCount.
	SlideChunkIDs []string
}

// EmbeddingText returns the text representation used for embedding
// generation. Structure and topics are included so the hash backend still
// produces discriminative vectors before enrichment runs.
func (d *DeckRecord) EmbeddingText() string {
	parts := []string{d.Title}
	if d.NarrativeSummary != "" {
		parts = append(parts, d.NarrativeSummary)
	}
	if d.Audience != "" {
		parts = append(parts, "Audience: "+d.Audience)
	}
	if d.Purpose != "" {
		parts = append(parts, "Purpose: "+d.Purpose)
	}
	if len(d.TopicTags) > 0 {
		parts = append(parts, "Topics: "+strings.Join(d.TopicTags, ", "))
	}
	types := make([]string, len(d.SlideTypeSequence))
	for i, t := range d.SlideTypeSequence {
		types[i] = string(t)
	}
	parts = append(parts, fmt.Sprintf("Structure: %s", strings.Join(types, " > ")))
	return strings.Join(parts, ". ")
}

// SetEmbedding attaches a vector to the record.
func (d *DeckRecord) SetEmbedding(vec []float32) { d.Embedding = vec }

// ChunkID returns the record's id. Part of the Embeddable contract.
func (d *DeckRecord) ChunkID() string { return d.ID }
