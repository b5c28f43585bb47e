package driven

import "github.com/unnitin/slides/internal/core/domain"

// SlideSerializer renders typed slide content to the canonical text
// notation stored alongside each slide chunk. The output round-trips
// the visible content only; it does not encode internal identifiers.
type SlideSerializer interface {
	// SerializeSlide renders a single slide.
	SerializeSlide(slide domain.Slide) string

	// SerializePresentation renders the whole deck with its front matter.
	SerializePresentation(p domain.Presentation) string
}
