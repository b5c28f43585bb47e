package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ElementType labels one addressable visual unit inside a slide.
type ElementType string

// Element types produced by the chunker, in extraction order.
const (
	ElementHeading         ElementType = "heading"
	ElementStat            ElementType = "stat"
	ElementBulletGroup     ElementType = "bullet_group"
	ElementIconBulletGroup ElementType = "icon_bullet_group"
	ElementColumn          ElementType = "column"
	ElementTimelineStep    ElementType = "timeline_step"
	ElementActionItem      ElementType = "action_item"
	ElementComparisonRow   ElementType = "comparison_row"
)

// ElementPayload is the type-specific content of an element. It is a sealed
// sum type: the element's type label determines which concrete payload shape
// is stored, so callers never reach into stringly-typed maps.
type ElementPayload interface {
	// PayloadType returns the element type this payload belongs to.
	PayloadType() ElementType
}

// HeadingPayload is the payload of a heading element.
type HeadingPayload struct {
	Heading    string `json:"heading"`
	Subheading string `json:"subheading,omitempty"`
}

// PayloadType implements ElementPayload.
func (HeadingPayload) PayloadType() ElementType { return ElementHeading }

// StatPayload is the payload of a single stat callout.
type StatPayload struct {
	Value        string `json:"value"`
	Label        string `json:"label"`
	Description  string `json:"description,omitempty"`
	IndexInGroup int    `json:"index_in_group"`
	GroupSize    int    `json:"group_size"`
}

// PayloadType implements ElementPayload.
func (StatPayload) PayloadType() ElementType { return ElementStat }

// BulletGroupPayload aggregates all of a slide's bullets into one element.
// HasIcons distinguishes the icon_bullet_group variant.
type BulletGroupPayload struct {
	Items    []BulletItem `json:"items"`
	HasIcons bool         `json:"has_icons"`
	Count    int          `json:"count"`
}

// PayloadType implements ElementPayload.
func (p BulletGroupPayload) PayloadType() ElementType {
	if p.HasIcons {
		return ElementIconBulletGroup
	}
	return ElementBulletGroup
}

// ColumnPayload is the payload of one column in a two_column slide.
type ColumnPayload struct {
	Title        string       `json:"title,omitempty"`
	Bullets      []BulletItem `json:"bullets"`
	BulletCount  int          `json:"bullet_count"`
	IndexInGroup int          `json:"index_in_group"`
	GroupSize    int          `json:"group_size"`
}

// PayloadType implements ElementPayload.
func (ColumnPayload) PayloadType() ElementType { return ElementColumn }

// TimelineStepPayload is the payload of one timeline step.
type TimelineStepPayload struct {
	Time         string `json:"time"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	IndexInGroup int    `json:"index_in_group"`
	GroupSize    int    `json:"group_size"`
}

// PayloadType implements ElementPayload.
func (TimelineStepPayload) PayloadType() ElementType { return ElementTimelineStep }

// ActionItemPayload is the payload of one next-step action item.
type ActionItemPayload struct {
	Action       string `json:"action"`
	Owner        string `json:"owner,omitempty"`
	Timeline     string `json:"timeline,omitempty"`
	IndexInGroup int    `json:"index_in_group"`
	GroupSize    int    `json:"group_size"`
}

// PayloadType implements ElementPayload.
func (ActionItemPayload) PayloadType() ElementType { return ElementActionItem }

// ComparisonRowPayload is the payload of one comparison-table row. Cells are
// kept in header order; Headers may be empty for headerless tables.
type ComparisonRowPayload struct {
	Headers      []string `json:"headers"`
	Cells        []string `json:"cells"`
	IndexInGroup int      `json:"index_in_group"`
	GroupSize    int      `json:"group_size"`
}

// PayloadType implements ElementPayload.
func (ComparisonRowPayload) PayloadType() ElementType { return ElementComparisonRow }

// PayloadForType returns a zero payload of the concrete type matching t,
// ready for JSON unmarshalling.
func PayloadForType(t ElementType) (ElementPayload, error) {
	switch t {
	case ElementHeading:
		return &HeadingPayload{}, nil
	case ElementStat:
		return &StatPayload{}, nil
	case ElementBulletGroup:
		return &BulletGroupPayload{}, nil
	case ElementIconBulletGroup:
		return &BulletGroupPayload{HasIcons: true}, nil
	case ElementColumn:
		return &ColumnPayload{}, nil
	case ElementTimelineStep:
		return &TimelineStepPayload{}, nil
	case ElementActionItem:
		return &ActionItemPayload{}, nil
	case ElementComparisonRow:
		return &ComparisonRowPayload{}, nil
	}
	return nil, fmt.Errorf("%w: element type %q", ErrInvalidInput, t)
}

// MarshalPayload serializes a payload to its stored JSON form.
func MarshalPayload(p ElementPayload) ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

// UnmarshalPayload deserializes a stored payload according to the element
// type label. The returned value is a pointer to the concrete payload type.
func UnmarshalPayload(t ElementType, data []byte) (ElementPayload, error) {
	p, err := PayloadForType(t)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", t, err)
	}
	return p, nil
}

// ElementRecord is the element-level chunk: one addressable visual unit
// inside a slide. DeckChunkID is denormalized so element queries can filter
// by deck without a join.
type ElementRecord struct {
	ID           string
	SlideChunkID string
	DeckChunkID  string

	Type ElementType

	// PositionInSlide is the extraction-order index within the slide.
	// SiblingCount is the slide's total element count; group-relative
	// indices live inside the payload.
	PositionInSlide int
	SiblingCount    int

	Payload ElementPayload

	// SlideType is the parent slide's type label, denormalized for search.
	SlideType SlideType

	// Semantic (enrichment-populated)
	SemanticSummary string
	TopicTags       []string

	// VisualTreatment is populated after external rendering.
	VisualTreatment map[string]any

	Embedding []float32
}

// EmbeddingText returns the text representation used for embedding
// generation. The payload excerpt is capped so huge tables do not dominate
// the vector.
func (e *ElementRecord) EmbeddingText() string {
	parts := []string{string(e.Type)}
	if e.SemanticSummary != "" {
		parts = append(parts, e.SemanticSummary)
	}
	if len(e.TopicTags) > 0 {
		parts = append(parts, "Topics: "+strings.Join(e.TopicTags, ", "))
	}
	if raw, err := MarshalPayload(e.Payload); err == nil {
		excerpt := string(raw)
		if len(excerpt) > 200 {
			excerpt = excerpt[:200]
		}
		parts = append(parts, "Content: "+excerpt)
	}
	parts = append(parts, fmt.Sprintf("Context: %s slide", e.SlideType))
	return strings.Join(parts, ". ")
}

// SetEmbedding attaches a vector to the record.
func (e *ElementRecord) SetEmbedding(vec []float32) { e.Embedding = vec }

// ChunkID returns the record's id. Part of the Embeddable contract.
func (e *ElementRecord) ChunkID() string { return e.ID }
