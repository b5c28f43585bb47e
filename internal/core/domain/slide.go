package domain

import (
	"fmt"
	"strings"
)

// DeckPosition is the coarse location of a slide within its deck.
type DeckPosition string

// Deck positions. The first two slides are "opening", the last two
// "closing", everything else "middle". Opening wins for index 0 and closing
// for the last index when both rules fire in a short deck.
const (
	PositionOpening DeckPosition = "opening"
	PositionMiddle  DeckPosition = "middle"
	PositionClosing DeckPosition = "closing"
)

// Fingerprint is the deterministic structural shape of one slide: has/count
// pairs computed directly from the typed content groups, with no semantic
// interpretation.
type Fingerprint struct {
	HasStats      bool
	StatCount     int
	HasBullets    bool
	BulletCount   int
	HasColumns    bool
	ColumnCount   int
	HasTimeline   bool
	StepCount     int
	HasComparison bool
	HasImage      bool
	HasIcons      bool
	HasSource     bool
	HasExhibit    bool
	HasNextSteps  bool
	NextStepCount int
}

// SlideRecord is the slide-level chunk: one slide's full context within its
// deck. DeckPosition and the neighbourhood fields are computed once at chunk
// time and never recomputed.
type SlideRecord struct {
	ID          string
	DeckChunkID string
	SlideIndex  int

	// Identity
	SlideName     string
	SlideType     SlideType
	LayoutVariant string
	Background    BackgroundType

	Fingerprint

	// DSLText is the slide's canonical serialized form, stored verbatim for
	// downstream prompting and QA.
	DSLText string

	// Neighbourhood context. Prev/NextSlideType are empty at deck edges.
	PrevSlideType SlideType
	NextSlideType SlideType
	SectionName   string
	DeckPosition  DeckPosition

	// Semantic (enrichment-populated)
	SemanticSummary string
	TopicTags       []string
	ContentDomain   string

	// Visual (populated after external rendering)
	ThumbnailPath string
	ColorPalette  []string

	// Usage counters, incremented by the feedback writer.
	UseCount   int
	KeepCount  int
	EditCount  int
	RegenCount int

	Embedding []float32

	// Child references, in element-position order.
	ElementChunkIDs []string
}

// QualityScore is the ratio of keeps to keep+regen interactions. It is
// derived, never stored; an unused slide scores a neutral 0.5.
func (s *SlideRecord) QualityScore() float64 {
	total := s.KeepCount + s.RegenCount
	if total == 0 {
		return 0.5
	}
	return float64(s.KeepCount) / float64(total)
}

// EmbeddingText returns the text representation used for embedding
// generation, combining identity, topics, structural shape, and position.
func (s *SlideRecord) EmbeddingText() string {
	parts := []string{s.SlideName}
	if s.SemanticSummary != "" {
		parts = append(parts, s.SemanticSummary)
	}
	parts = append(parts, "Type: "+string(s.SlideType))
	if s.LayoutVariant != "" {
		parts = append(parts, "Layout: "+s.LayoutVariant)
	}
	if len(s.TopicTags) > 0 {
		parts = append(parts, "Topics: "+strings.Join(s.TopicTags, ", "))
	}

	var shape []string
	if s.StatCount > 0 {
		shape = append(shape, fmt.Sprintf("%d stats", s.StatCount))
	}
	if s.BulletCount > 0 {
		shape = append(shape, fmt.Sprintf("%d bullets", s.BulletCount))
	}
	if s.ColumnCount > 0 {
		shape = append(shape, fmt.Sprintf("%d columns", s.ColumnCount))
	}
	if s.StepCount > 0 {
		shape = append(shape, fmt.Sprintf("%d timeline steps", s.StepCount))
	}
	if s.HasComparison {
		shape = append(shape, "comparison table")
	}
	if s.HasImage {
		shape = append(shape, "image")
	}
	if len(shape) > 0 {
		parts = append(parts, "Contains: "+strings.Join(shape, ", "))
	}

	parts = append(parts, "Position: "+string(s.DeckPosition))
	if s.ContentDomain != "" {
		parts = append(parts, "Domain: "+s.ContentDomain)
	}
	if s.HasSource {
		parts = append(parts, "Has source attribution")
	}
	if s.HasNextSteps {
		parts = append(parts, fmt.Sprintf("%d action items", s.NextStepCount))
	}
	return strings.Join(parts, ". ")
}

// SetEmbedding attaches a vector to the record.
func (s *SlideRecord) SetEmbedding(vec []float32) { s.Embedding = vec }

// ChunkID returns the record's id. Part of the Embeddable contract.
func (s *SlideRecord) ChunkID() string { return s.ID }
