// Package text renders typed slide content to the canonical deck notation.
// The output is what gets stored verbatim on each slide chunk and fed to
// downstream prompting, so the format is stable: one directive per line,
// pipe-separated fields, two-space indentation per bullet level.
package text

import (
	"fmt"
	"strings"

	"github.com/unnitin/slides/internal/core/domain"
	"github.com/unnitin/slides/internal/core/ports/driven"
)

// Ensure Serializer implements the interface.
var _ driven.SlideSerializer = (*Serializer)(nil)

// Serializer renders slides and presentations to canonical text.
type Serializer struct{}

// NewSerializer creates a serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// SerializeSlide renders a single slide.
func (sz *Serializer) SerializeSlide(s domain.Slide) string {
	var lines []string
	lines = append(lines, "# "+s.Name)
	lines = append(lines, "@type: "+string(s.Type))

	if s.Background != "" && s.Background != domain.BackgroundLight {
		lines = append(lines, "@background: "+string(s.Background))
	}
	if s.Layout != "" {
		lines = append(lines, "@layout: "+s.Layout)
	}
	if s.Image != "" {
		lines = append(lines, "@image: "+s.Image)
	}

	lines = append(lines, "")

	if s.Heading != "" {
		lines = append(lines, "## "+s.Heading)
	}
	if s.Subheading != "" {
		lines = append(lines, "### "+s.Subheading)
	}
	if s.Body != "" {
		lines = append(lines, s.Body)
	}

	for _, stat := range s.Stats {
		line := fmt.Sprintf("@stat: %s | %s", stat.Value, stat.Label)
		if stat.Description != "" {
			line += " | " + stat.Description
		}
		lines = append(lines, line)
	}

	for _, step := range s.Timeline {
		line := fmt.Sprintf("@step: %s | %s", step.Time, step.Title)
		if step.Description != "" {
			line += " | " + step.Description
		}
		lines = append(lines, line)
	}

	for _, col := range s.Columns {
		lines = append(lines, "", "@col:")
		if col.Title != "" {
			lines = append(lines, "  ## "+col.Title)
		}
		for _, b := range col.Bullets {
			indent := strings.Repeat("  ", b.Level+1)
			lines = append(lines, indent+"- "+b.Text)
		}
	}

	if s.Compare != nil {
		lines = append(lines, "", "@compare:")
		if len(s.Compare.Headers) > 0 {
			lines = append(lines, "  header: "+strings.Join(s.Compare.Headers, " | "))
		}
		for _, row := range s.Compare.Rows {
			lines = append(lines, "  row: "+strings.Join(row, " | "))
		}
	}

	for _, b := range s.Bullets {
		indent := strings.Repeat("  ", b.Level)
		if b.Icon != "" {
			lines = append(lines, fmt.Sprintf("%s- @icon: %s | %s", indent, b.Icon, b.Text))
		} else {
			lines = append(lines, indent+"- "+b.Text)
		}
	}

	for _, ns := range s.NextSteps {
		line := "@action: " + ns.Action
		if ns.Owner != "" {
			line += " | " + ns.Owner
		}
		if ns.Timeline != "" {
			line += " | " + ns.Timeline
		}
		lines = append(lines, line)
	}

	if s.ExhibitLabel != "" {
		lines = append(lines, "", "@exhibit: "+s.ExhibitLabel)
	}

	for _, fn := range s.Footnotes {
		lines = append(lines, "@footnote: "+fn)
	}

	if s.Source != "" {
		lines = append(lines, "@source: "+s.Source)
	}

	if s.SpeakerNotes != "" {
		lines = append(lines, "", "@notes: "+s.SpeakerNotes)
	}

	return strings.Join(lines, "\n")
}

// SerializePresentation renders the whole deck: frontmatter, then each
// slide, separated by horizontal rules.
func (sz *Serializer) SerializePresentation(p domain.Presentation) string {
	parts := []string{sz.frontmatter(p.Meta)}
	for _, slide := range p.Slides {
		parts = append(parts, sz.SerializeSlide(slide))
	}
	return strings.Join(parts, "\n\n---\n\n") + "\n"
}

func (sz *Serializer) frontmatter(m domain.PresentationMeta) string {
	lines := []string{"---", "presentation:", fmt.Sprintf("  title: %q", m.Title)}
	if m.Author != "" {
		lines = append(lines, fmt.Sprintf("  author: %q", m.Author))
	}
	if m.Company != "" {
		lines = append(lines, fmt.Sprintf("  company: %q", m.Company))
	}
	if m.Date != "" {
		lines = append(lines, fmt.Sprintf("  date: %q", m.Date))
	}
	if m.Confidentiality != "" {
		lines = append(lines, fmt.Sprintf("  confidentiality: %q", m.Confidentiality))
	}
	if m.Template != "" {
		lines = append(lines, fmt.Sprintf("  template: %q", m.Template))
	}
	lines = append(lines, fmt.Sprintf("  output: %q", m.Output))
	lines = append(lines, "  brand:")
	b := m.Brand
	lines = append(lines, fmt.Sprintf("    primary: %q", b.Primary))
	lines = append(lines, fmt.Sprintf("    secondary: %q", b.Secondary))
	lines = append(lines, fmt.Sprintf("    accent: %q", b.Accent))
	lines = append(lines, fmt.Sprintf("    header_font: %q", b.HeaderFont))
	lines = append(lines, fmt.Sprintf("    body_font: %q", b.BodyFont))
	if b.Logo != "" {
		lines = append(lines, fmt.Sprintf("    logo: %q", b.Logo))
	}
	lines = append(lines, "---")
	return strings.Join(lines, "\n")
}
