package domain

// SlideType is the fixed enumeration of slide layouts the upstream parser
// can produce. The chunker treats it as an opaque label except for
// SlideTypeSectionDivider, which drives section tracking.
type SlideType string

// Slide types recognised by the parsed-document contract.
const (
	SlideTypeTitle          SlideType = "title"
	SlideTypeSectionDivider SlideType = "section_divider"
	SlideTypeBulletPoints   SlideType = "bullet_points"
	SlideTypeTwoColumn      SlideType = "two_column"
	SlideTypeImageText      SlideType = "image_text"
	SlideTypeStatCallout    SlideType = "stat_callout"
	SlideTypeComparison     SlideType = "comparison"
	SlideTypeTimeline       SlideType = "timeline"
	SlideTypeQuote          SlideType = "quote"
	SlideTypeClosing        SlideType = "closing"
	SlideTypeExecSummary    SlideType = "exec_summary"
	SlideTypeNextSteps      SlideType = "next_steps"
	SlideTypeFreeform       SlideType = "freeform"
)

// BackgroundType is the slide background style label.
type BackgroundType string

// Background styles.
const (
	BackgroundLight    BackgroundType = "light"
	BackgroundDark     BackgroundType = "dark"
	BackgroundGradient BackgroundType = "gradient"
	BackgroundImage    BackgroundType = "image"
)

// BrandConfig carries deck-level brand settings from the frontmatter.
type BrandConfig struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	HeaderFont string `json:"header_font,omitempty"`
	BodyFont   string `json:"body_font,omitempty"`
	Logo       string `json:"logo,omitempty"`
}

// PresentationMeta is the presentation-level metadata from the frontmatter.
type PresentationMeta struct {
	Title           string      `json:"title"`
	Author          string      `json:"author,omitempty"`
	Company         string      `json:"company,omitempty"`
	Date            string      `json:"date,omitempty"`
	Confidentiality string      `json:"confidentiality,omitempty"`
	Template        string      `json:"template,omitempty"`
	Output          string      `json:"output,omitempty"`
	Brand           BrandConfig `json:"brand"`
}

// BulletItem is one bullet point, optionally nested and/or icon-bearing.
type BulletItem struct {
	Text  string `json:"text"`
	Level int    `json:"level"` // 0 = top-level, 1 = sub, 2 = sub-sub
	Icon  string `json:"icon,omitempty"`
}

// StatItem is a big-number stat callout.
type StatItem struct {
	Value       string `json:"value"` // "94%", "3.2B", "$240K"
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// TimelineStep is one step in a timeline progression.
type TimelineStep struct {
	Time        string `json:"time"` // "Jan 2025", "Q2 2025"
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// CompareTable is a comparison/matrix table.
type CompareTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ColumnContent is the content of one column in a two_column slide.
type ColumnContent struct {
	Title   string       `json:"title,omitempty"`
	Bullets []BulletItem `json:"bullets,omitempty"`
	Body    string       `json:"body,omitempty"`
}

// NextStep is one action item with optional ownership and timing.
type NextStep struct {
	Action   string `json:"action"`
	Owner    string `json:"owner,omitempty"`
	Timeline string `json:"timeline,omitempty"`
}

// Slide is one parsed slide. All structured sub-content fields are optional;
// a slide with none of them is still valid input to the chunker.
type Slide struct {
	Name         string          `json:"slide_name"`
	Type         SlideType       `json:"slide_type"`
	Background   BackgroundType  `json:"background,omitempty"`
	Layout       string          `json:"layout,omitempty"`
	Heading      string          `json:"heading,omitempty"`
	Subheading   string          `json:"subheading,omitempty"`
	Body         string          `json:"body,omitempty"`
	Bullets      []BulletItem    `json:"bullets,omitempty"`
	Columns      []ColumnContent `json:"columns,omitempty"`
	Stats        []StatItem      `json:"stats,omitempty"`
	Timeline     []TimelineStep  `json:"timeline,omitempty"`
	Compare      *CompareTable   `json:"compare,omitempty"`
	NextSteps    []NextStep      `json:"next_steps,omitempty"`
	Source       string          `json:"source,omitempty"`
	ExhibitLabel string          `json:"exhibit_label,omitempty"`
	Footnotes    []string        `json:"footnotes,omitempty"`
	SpeakerNotes string          `json:"speaker_notes,omitempty"`
	Image        string          `json:"image,omitempty"`
}

// HasIconBullets reports whether any top-level bullet carries an icon.
func (s Slide) HasIconBullets() bool {
	for _, b := range s.Bullets {
		if b.Icon != "" {
			return true
		}
	}
	return false
}

// Presentation is one fully parsed document: frontmatter metadata plus the
// ordered slide sequence. This is the upstream contract the index consumes;
// producing it (parsing the DSL grammar) happens outside this module.
type Presentation struct {
	Meta   PresentationMeta `json:"meta"`
	Slides []Slide          `json:"slides"`
}
