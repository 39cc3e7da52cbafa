package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/aeo-meter/internal/document"
)

const samplePage = `<html><head>
<title>Acme Guide to Widgets</title>
<meta property="article:published_time" content="2026-01-10T00:00:00Z">
<meta property="article:modified_time" content="2026-02-01T00:00:00Z">
<meta name="author" content="Jane Doe">
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"Organization","name":"Acme","sameAs":["https://x.com/acme","https://linkedin.com/company/acme"]}
</script>
</head><body>
<h1>Widgets</h1>
<p>Acme widgets are devices that measure output with far better accuracy than rivals.</p>
<h2>What is a widget?</h2>
<p>A widget is a small tool that does one job well and nothing else at all.</p>
<h2>Specifications</h2>
<table><tr><td>width</td><td>narrow</td></tr></table>
<ul><li>portable</li><li>durable</li></ul>
<ol><li>unbox the widget</li><li>attach the clamp</li></ol>
<a href="https://www.nih.gov/widgets">NIH reference</a>
<a href="https://example.com/other">another source</a>
</body></html>`

func TestExtractFeaturesStructure(t *testing.T) {
	doc := document.Parse(samplePage)
	bag := ExtractFeatures(doc, AnalysisOptions{})

	assert.Equal(t, 1, bag.H1Count)
	assert.Equal(t, 2, bag.H2Count)
	assert.Equal(t, 1, bag.QuestionHeadings)
	assert.Equal(t, 1, bag.FAQPairs)
	assert.Equal(t, 1, bag.TableCount)
	assert.Equal(t, 2, bag.ListCount)
	assert.Equal(t, 2, bag.OrderedSteps)
	assert.True(t, bag.LeadAnswer)
}

func TestExtractFeaturesTrust(t *testing.T) {
	doc := document.Parse(samplePage)
	bag := ExtractFeatures(doc, AnalysisOptions{})

	assert.Equal(t, 2, bag.CitationCount)
	assert.Equal(t, 1, bag.AuthoritativeCitations)
	assert.True(t, bag.HasAuthorByline)
}

func TestExtractFeaturesSchema(t *testing.T) {
	doc := document.Parse(samplePage)
	bag := ExtractFeatures(doc, AnalysisOptions{})

	assert.Contains(t, bag.SchemaTypes, "Organization")
	assert.True(t, bag.HasOrgSchema)
	assert.False(t, bag.HasAuthorSchema)
	assert.Equal(t, 2, bag.SameAsLinks)
}

func TestExtractFeaturesDates(t *testing.T) {
	doc := document.Parse(samplePage)
	bag := ExtractFeatures(doc, AnalysisOptions{})

	assert.Equal(t, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), bag.PublishedAt)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), bag.ModifiedAt)
}

func TestExtractFeaturesBrand(t *testing.T) {
	doc := document.Parse(samplePage)

	withBrand := ExtractFeatures(doc, AnalysisOptions{BrandName: "Acme"})
	assert.GreaterOrEqual(t, withBrand.BrandMentions, 2)
	assert.True(t, withBrand.BrandInTitle)

	// Folded matching: case differences still count.
	folded := ExtractFeatures(doc, AnalysisOptions{BrandName: "ACME"})
	assert.Equal(t, withBrand.BrandMentions, folded.BrandMentions)

	noBrand := ExtractFeatures(doc, AnalysisOptions{})
	assert.Zero(t, noBrand.BrandMentions)
	assert.False(t, noBrand.BrandInTitle)
}

func TestExtractFeaturesEmptyDocument(t *testing.T) {
	doc := document.Parse("")
	bag := ExtractFeatures(doc, AnalysisOptions{BrandName: "Acme"})

	assert.Zero(t, bag.WordCount)
	assert.Zero(t, bag.FAQPairs)
	assert.Zero(t, bag.CitationCount)
	assert.Zero(t, bag.BrandMentions)
	assert.True(t, bag.PublishedAt.IsZero())
}

func TestExtractFeaturesRepairedSchema(t *testing.T) {
	// Trailing comma and single quotes: invalid JSON that repairs cleanly.
	markup := `<head><script type="application/ld+json">
	{'@type': 'Organization', 'name': 'Acme',}
	</script></head><body><p>body</p></body>`

	doc := document.Parse(markup)
	bag := ExtractFeatures(doc, AnalysisOptions{})

	assert.Contains(t, bag.SchemaTypes, "Organization")
	assert.True(t, bag.HasOrgSchema)
}

func TestQuestionHeadingWithoutAnswerIsNotAPair(t *testing.T) {
	markup := `<body>
	<h2>What is a widget?</h2>
	<h2>Why widgets?</h2>
	<p>Only the second question gets a real answer right here in this text.</p>
	</body>`

	doc := document.Parse(markup)
	bag := ExtractFeatures(doc, AnalysisOptions{})

	assert.Equal(t, 2, bag.QuestionHeadings)
	assert.Equal(t, 1, bag.FAQPairs)
}

func TestDefinitionAndStatDetection(t *testing.T) {
	markup := `<body>
	<p>A semaphore is a synchronization primitive used in concurrent programs.</p>
	<p>Adoption grew 42% in 2025 and reached 3,000 teams across many regions.</p>
	</body>`

	doc := document.Parse(markup)
	bag := ExtractFeatures(doc, AnalysisOptions{})

	require.GreaterOrEqual(t, bag.DefinitionCount, 1)
	assert.GreaterOrEqual(t, bag.StatCount, 3)
}

func TestExperienceAndCredentialMarkers(t *testing.T) {
	markup := `<body>
	<p>In my experience the clamp slips, so we tested four alternatives hands-on over several weeks.</p>
	<p>Dr. Smith, a board-certified engineer with 12 years of experience, reviewed this guide.</p>
	</body>`

	doc := document.Parse(markup)
	bag := ExtractFeatures(doc, AnalysisOptions{})

	assert.GreaterOrEqual(t, bag.ExperienceMarkers, 3)
	assert.GreaterOrEqual(t, bag.CredentialMentions, 2)
}
