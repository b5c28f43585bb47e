package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unnitin/slides/internal/core/domain"
)

func TestSerializeSlide_TitleSlide(t *testing.T) {
	sz := NewSerializer()

	got := sz.SerializeSlide(domain.Slide{
		Name:       "cover",
		Type:       domain.SlideTypeTitle,
		Background: domain.BackgroundDark,
		Heading:    "Q3 Business Review",
		Subheading: "Prepared for the board",
	})

	want := strings.Join([]string{
		"# cover",
		"@type: title",
		"@background: dark",
		"",
		"## Q3 Business Review",
		"### Prepared for the board",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestSerializeSlide_LightBackgroundOmitted(t *testing.T) {
	sz := NewSerializer()

	got := sz.SerializeSlide(domain.Slide{
		Name:       "plain",
		Type:       domain.SlideTypeFreeform,
		Background: domain.BackgroundLight,
	})

	assert.NotContains(t, got, "@background")
}

func TestSerializeSlide_StatsAndSource(t *testing.T) {
	sz := NewSerializer()

	got := sz.SerializeSlide(domain.Slide{
		Name:    "results",
		Type:    domain.SlideTypeStatCallout,
		Heading: "Results",
		Stats: []domain.StatItem{
			{Value: "94%", Label: "Retention", Description: "up from 89%"},
			{Value: "$2.4M", Label: "ARR"},
		},
		Source: "Finance, Aug 2026",
	})

	assert.Contains(t, got, "@stat: 94% | Retention | up from 89%")
	assert.Contains(t, got, "@stat: $2.4M | ARR")
	assert.Contains(t, got, "@source: Finance, Aug 2026")
}

func TestSerializeSlide_NestedAndIconBullets(t *testing.T) {
	sz := NewSerializer()

	got := sz.SerializeSlide(domain.Slide{
		Name: "themes",
		Type: domain.SlideTypeBulletPoints,
		Bullets: []domain.BulletItem{
			{Text: "Expansion", Icon: "chart"},
			{Text: "EMEA up 40%", Level: 1},
			{Text: "Churn", Level: 0},
		},
	})

	assert.Contains(t, got, "- @icon: chart | Expansion")
	assert.Contains(t, got, "  - EMEA up 40%")
	assert.Contains(t, got, "\n- Churn")
}

func TestSerializeSlide_ColumnsAndCompare(t *testing.T) {
	sz := NewSerializer()

	got := sz.SerializeSlide(domain.Slide{
		Name: "tradeoffs",
		Type: domain.SlideTypeTwoColumn,
		Columns: []domain.ColumnContent{
			{Title: "Build", Bullets: []domain.BulletItem{{Text: "Full control"}}},
			{Title: "Buy", Bullets: []domain.BulletItem{{Text: "Faster"}}},
		},
		Compare: &domain.CompareTable{
			Headers: []string{"", "Build", "Buy"},
			Rows:    [][]string{{"Cost", "High", "Low"}},
		},
	})

	assert.Contains(t, got, "@col:\n  ## Build\n  - Full control")
	assert.Contains(t, got, "@col:\n  ## Buy\n  - Faster")
	assert.Contains(t, got, "@compare:\n  header:  | Build | Buy\n  row: Cost | High | Low")
}

func TestSerializeSlide_TimelineActionsNotes(t *testing.T) {
	sz := NewSerializer()

	got := sz.SerializeSlide(domain.Slide{
		Name: "plan",
		Type: domain.SlideTypeNextSteps,
		Timeline: []domain.TimelineStep{
			{Time: "Q4 2026", Title: "Pilot", Description: "three accounts"},
		},
		NextSteps: []domain.NextStep{
			{Action: "Sign off scope", Owner: "PMO", Timeline: "Sep"},
			{Action: "Kick off"},
		},
		ExhibitLabel: "Exhibit 2",
		Footnotes:    []string{"Excludes services revenue"},
		SpeakerNotes: "Pause here for questions",
	})

	assert.Contains(t, got, "@step: Q4 2026 | Pilot | three accounts")
	assert.Contains(t, got, "@action: Sign off scope | PMO | Sep")
	assert.Contains(t, got, "@action: Kick off")
	assert.Contains(t, got, "@exhibit: Exhibit 2")
	assert.Contains(t, got, "@footnote: Excludes services revenue")
	assert.Contains(t, got, "@notes: Pause here for questions")
}

func TestSerializePresentation(t *testing.T) {
	sz := NewSerializer()

	got := sz.SerializePresentation(domain.Presentation{
		Meta: domain.PresentationMeta{
			Title:  "Q3 Review",
			Author: "Dana",
			Brand:  domain.BrandConfig{Primary: "#1a1a2e"},
		},
		Slides: []domain.Slide{
			{Name: "cover", Type: domain.SlideTypeTitle},
			{Name: "wrap", Type: domain.SlideTypeClosing},
		},
	})

	require.True(t, strings.HasPrefix(got, "---\npresentation:\n"))
	assert.Contains(t, got, `  title: "Q3 Review"`)
	assert.Contains(t, got, `  author: "Dana"`)
	assert.Contains(t, got, `    primary: "#1a1a2e"`)
	assert.Equal(t, 2, strings.Count(got, "\n\n---\n\n"), "slides separated by rules")
	assert.True(t, strings.HasSuffix(got, "\n"))
}
