package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/unnitin/slides/internal/core/domain"
	"github.com/unnitin/slides/internal/core/ports/driven"
	"github.com/unnitin/slides/internal/core/ports/driving"
)

// Ensure ChunkerService implements the interface.
var _ driving.ChunkerService = (*ChunkerService)(nil)

// ChunkerService decomposes presentations into deck, slide, and element
// chunks. It is deterministic: structural metadata is computed from the
// typed content, and semantic fields are left empty for later enrichment.
type ChunkerService struct {
	serializer driven.SlideSerializer
	newID      func() string
	now        func() time.Time
}

// NewChunkerService creates a chunker using the given serializer for
// canonical slide text.
func NewChunkerService(serializer driven.SlideSerializer) *ChunkerService {
	return &ChunkerService{
		serializer: serializer,
		newID:      func() string { return uuid.NewString() },
		now:        time.Now,
	}
}

// Chunk produces the full chunk set for a presentation.
func (c *ChunkerService) Chunk(
	p domain.Presentation, sourceFile string,
) (domain.DeckRecord, []domain.SlideRecord, []domain.ElementRecord) {
	deckID := c.newID()
	now := c.now().UTC()

	slideTypes := make([]domain.SlideType, len(p.Slides))
	for i, s := range p.Slides {
		slideTypes[i] = s.Type
	}

	brand := p.Meta.Brand
	deck := domain.DeckRecord{
		ID:                deckID,
		SourceFile:        sourceFile,
		Title:             p.Meta.Title,
		Author:            p.Meta.Author,
		Company:           p.Meta.Company,
		CreatedAt:         now,
		SlideCount:        len(p.Slides),
		SlideTypeSequence: slideTypes,
		TemplateUsed:      p.Meta.Template,
		BrandColors:       []string{brand.Primary, brand.Secondary, brand.Accent},
		Date:              p.Meta.Date,
		Confidentiality:   p.Meta.Confidentiality,
	}

	var (
		slides   []domain.SlideRecord
		elements []domain.ElementRecord
		section  string
	)

	for i, slide := range p.Slides {
		slideID := c.newID()

		// A divider opens a new section that covers itself and every
		// following slide until the next divider.
		if slide.Type == domain.SlideTypeSectionDivider {
			section = slide.Heading
			if section == "" {
				section = slide.Name
			}
		}

		rec := domain.SlideRecord{
			ID:            slideID,
			DeckChunkID:   deckID,
			SlideIndex:    i,
			SlideName:     slide.Name,
			SlideType:     slide.Type,
			LayoutVariant: slide.Layout,
			Background:    slide.Background,
			Fingerprint:   fingerprintSlide(slide),
			DSLText:       c.serializer.SerializeSlide(slide),
			SectionName:   section,
			DeckPosition:  deckPosition(i, len(p.Slides)),
		}
		if i > 0 {
			rec.PrevSlideType = p.Slides[i-1].Type
		}
		if i < len(p.Slides)-1 {
			rec.NextSlideType = p.Slides[i+1].Type
		}

		slideElements := c.chunkElements(slide, slideID, deckID)
		rec.ElementChunkIDs = make([]string, len(slideElements))
		for j, e := range slideElements {
			rec.ElementChunkIDs[j] = e.ID
		}

		slides = append(slides, rec)
		elements = append(elements, slideElements...)
		deck.SlideChunkIDs = append(deck.SlideChunkIDs, slideID)
	}

	return deck, slides, elements
}

// deckPosition labels a slide's coarse location. The first two slides are
// opening and the last two closing; in short decks the closing rule wins
// for the final slide and opening for the first.
func deckPosition(i, total int) domain.DeckPosition {
	switch {
	case i == 0:
		return domain.PositionOpening
	case i >= total-1:
		return domain.PositionClosing
	case i <= 1:
		return domain.PositionOpening
	case i >= total-2:
		return domain.PositionClosing
	default:
		return domain.PositionMiddle
	}
}

// fingerprintSlide computes the deterministic structural shape of a slide.
func fingerprintSlide(s domain.Slide) domain.Fingerprint {
	return domain.Fingerprint{
		HasStats:      len(s.Stats) > 0,
		StatCount:     len(s.Stats),
		HasBullets:    len(s.Bullets) > 0,
		BulletCount:   len(s.Bullets),
		HasColumns:    len(s.Columns) > 0,
		ColumnCount:   len(s.Columns),
		HasTimeline:   len(s.Timeline) > 0,
		StepCount:     len(s.Timeline),
		HasComparison: s.Compare != nil,
		HasImage:      s.Image != "",
		HasIcons:      s.HasIconBullets(),
		HasSource:     s.Source != "",
		HasExhibit:    s.ExhibitLabel != "",
		HasNextSteps:  len(s.NextSteps) > 0,
		NextStepCount: len(s.NextSteps),
	}
}

// chunkElements extracts element chunks in a fixed order: heading, stats,
// bullet group, columns, timeline steps, action items, comparison rows.
// SiblingCount is the slide's total element count for every element;
// group-relative indices live in the payloads.
func (c *ChunkerService) chunkElements(
	slide domain.Slide, slideChunkID, deckChunkID string,
) []domain.ElementRecord {
	var elements []domain.ElementRecord

	add := func(payload domain.ElementPayload) {
		elements = append(elements, domain.ElementRecord{
			ID:              c.newID(),
			SlideChunkID:    slideChunkID,
			DeckChunkID:     deckChunkID,
			Type:            payload.PayloadType(),
			PositionInSlide: len(elements),
			Payload:         payload,
			SlideType:       slide.Type,
		})
	}

	if slide.Heading != "" {
		add(&domain.HeadingPayload{
			Heading:    slide.Heading,
			Subheading: slide.Subheading,
		})
	}

	for j, stat := range slide.Stats {
		add(&domain.StatPayload{
			Value:        stat.Value,
			Label:        stat.Label,
			Description:  stat.Description,
			IndexInGroup: j,
			GroupSize:    len(slide.Stats),
		})
	}

	if len(slide.Bullets) > 0 {
		add(&domain.BulletGroupPayload{
			Items:    slide.Bullets,
			HasIcons: slide.HasIconBullets(),
			Count:    len(slide.Bullets),
		})
	}

	for j, col := range slide.Columns {
		add(&domain.ColumnPayload{
			Title:        col.Title,
			Bullets:      col.Bullets,
			BulletCount:  len(col.Bullets),
			IndexInGroup: j,
			GroupSize:    len(slide.Columns),
		})
	}

	for j, step := range slide.Timeline {
		add(&domain.TimelineStepPayload{
			Time:         step.Time,
			Title:        step.Title,
			Description:  step.Description,
			IndexInGroup: j,
			GroupSize:    len(slide.Timeline),
		})
	}

	for j, ns := range slide.NextSteps {
		add(&domain.ActionItemPayload{
			Action:       ns.Action,
			Owner:        ns.Owner,
			Timeline:     ns.Timeline,
			IndexInGroup: j,
			GroupSize:    len(slide.NextSteps),
		})
	}

	if slide.Compare != nil {
		for j, row := range slide.Compare.Rows {
			add(&domain.ComparisonRowPayload{
				Headers:      slide.Compare.Headers,
				Cells:        row,
				IndexInGroup: j,
				GroupSize:    len(slide.Compare.Rows),
			})
		}
	}

	for j := range elements {
		elements[j].SiblingCount = len(elements)
	}
	return elements
}
