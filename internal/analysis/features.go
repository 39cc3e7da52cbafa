package analysis

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"

	"github.com/ZanzyTHEbar/aeo-meter/internal/document"
)

// VisibilityRecord is one answer-engine citation observation supplied by the
// visibility collaborator. An empty slice in the bag means the collaborator
// was unavailable, which downstream scoring treats as no data.
type VisibilityRecord struct {
	Platform string `json:"platform"`
	Appeared bool   `json:"appeared"`
	Position int    `json:"position"`
	Context  string `json:"context"`
}

// FeatureBag is the ephemeral per-analysis measurement set. Created fresh for
// each call, consumed by the dimension scorers, then discarded.
type FeatureBag struct {
	// Text metrics
	WordCount           int
	SentenceCount       int
	SentenceLenVariance float64
	VocabularyRichness  float64
	ContractionCount    int
	FirstPersonCount    int
	ExperienceMarkers   int
	StatCount           int
	QuotableSentences   int
	DefinitionCount     int

	// Structure
	H1Count          int
	H2Count          int
	H3Count          int
	QuestionHeadings int
	FAQPairs         int
	TableCount       int
	ListCount        int
	OrderedSteps     int
	LeadAnswer       bool

	// Trust and sourcing
	CitationCount          int
	AuthoritativeCitations int
	HasAuthorByline        bool
	CredentialMentions     int
	SchemaTypes            []string
	HasAuthorSchema        bool
	HasOrgSchema           bool
	SameAsLinks            int

	// Dates
	PublishedAt time.Time
	ModifiedAt  time.Time

	// Entity
	BrandMentions int
	BrandInTitle  bool

	// Visibility collaborator output; nil when unavailable
	Visibility []VisibilityRecord
}

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+\s+`)
	statRe          = regexp.MustCompile(`\b\d+(?:[.,]\d+)?%?`)
	firstPersonRe   = regexp.MustCompile(`(?i)\b(?:i|we|my|our)\b`)
	contractionRe   = regexp.MustCompile(`(?i)\b\w+(?:n't|'re|'ll|'ve|'m)\b`)
	definitionRe    = regexp.MustCompile(`(?m)^[A-Z][^.!?]{2,80}\s(?:is|are|refers to|means)\s`)
)

var experienceMarkers = []string{
	"in my experience",
	"in our experience",
	"we tested",
	"i tested",
	"i tried",
	"we tried",
	"hands-on",
	"first-hand",
	"firsthand",
}

var credentialMarkers = []string{
	"phd",
	"ph.d",
	"m.d.",
	"md,",
	"certified",
	"licensed",
	"professor",
	"years of experience",
	"board-certified",
}

// Hosts whose citations carry extra trust weight, beyond .gov/.edu suffixes.
var authoritativeHosts = []string{
	"wikipedia.org",
	"nature.com",
	"sciencedirect.com",
	"nih.gov",
	"pubmed.ncbi.nlm.nih.gov",
	"who.int",
	"reuters.com",
}

// ExtractFeatures derives the feature bag for one parsed document. Every scan
// is an independent pass; an empty document yields a zero-valued bag.
func ExtractFeatures(doc *document.Document, opts AnalysisOptions) FeatureBag {
	bag := FeatureBag{}

	pre := NewPreprocessor(30)
	paragraphs := pre.CleanParagraphs(doc.Paragraphs())
	text := doc.Text()

	extractTextMetrics(&bag, text, paragraphs)
	extractStructure(&bag, doc, paragraphs)
	extractTrust(&bag, doc)
	extractSchema(&bag, doc)
	extractDates(&bag, doc)
	extractEntity(&bag, doc, text, opts.BrandName)

	return bag
}

func extractTextMetrics(bag *FeatureBag, text string, paragraphs []string) {
	words := strings.Fields(text)
	bag.WordCount = len(words)
	bag.VocabularyRichness = typeTokenRatio(words, 2000)
	bag.ContractionCount = len(contractionRe.FindAllString(text, -1))
	bag.FirstPersonCount = len(firstPersonRe.FindAllString(text, -1))
	bag.StatCount = len(statRe.FindAllString(text, -1))

	lower := strings.ToLower(text)
	for _, marker := range experienceMarkers {
		bag.ExperienceMarkers += strings.Count(lower, marker)
	}
	for _, marker := range credentialMarkers {
		bag.CredentialMentions += strings.Count(lower, marker)
	}

	sentences := sentenceSplitRe.Split(text, -1)
	var lengths []float64
	for _, s := range sentences {
		n := len(strings.Fields(s))
		if n == 0 {
			continue
		}
		lengths = append(lengths, float64(n))
		if n >= 8 && n <= 30 && statRe.MatchString(s) {
			bag.QuotableSentences++
		}
	}
	bag.SentenceCount = len(lengths)
	bag.SentenceLenVariance = variance(lengths)

	for _, p := range paragraphs {
		bag.DefinitionCount += len(definitionRe.FindAllString(p, -1))
	}
}

func extractStructure(bag *FeatureBag, doc *document.Document, paragraphs []string) {
	bag.H1Count = doc.CountTag("h1")
	bag.H2Count = doc.CountTag("h2")
	bag.H3Count = doc.CountTag("h3")
	bag.TableCount = doc.CountTag("table")
	bag.ListCount = doc.CountTag("ul") + doc.CountTag("ol")

	for _, ol := range doc.FindAll("ol") {
		for c := ol.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "li" {
				bag.OrderedSteps++
			}
		}
	}

	doc.Walk(func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "h2", "h3", "h4", "dt", "summary":
			text := strings.TrimSpace(document.NodeText(n))
			if !strings.HasSuffix(text, "?") {
				return
			}
			bag.QuestionHeadings++
			if answer := nextContentSibling(n); answer != "" {
				bag.FAQPairs++
			}
		}
	})

	if len(paragraphs) > 0 {
		lead := paragraphs[0]
		bag.LeadAnswer = len(lead) >= 40 && len(lead) <= 320
	}
}

// nextContentSibling returns the text of the first following element sibling
// that can hold an answer block.
func nextContentSibling(n *html.Node) string {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type != html.ElementNode {
			continue
		}
		switch s.Data {
		case "p", "div", "dd", "ul", "ol":
			if text := strings.TrimSpace(document.NodeText(s)); text != "" {
				return text
			}
		case "h1", "h2", "h3", "h4":
			return ""
		}
	}
	return ""
}

func extractTrust(bag *FeatureBag, doc *document.Document) {
	for _, a := range doc.FindAll("a") {
		href := document.Attr(a, "href")
		if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
			continue
		}
		bag.CitationCount++
		if isAuthoritativeLink(href) {
			bag.AuthoritativeCitations++
		}
		if document.Attr(a, "rel") == "author" {
			bag.HasAuthorByline = true
		}
	}

	if doc.MetaContent("author") != "" {
		bag.HasAuthorByline = true
	}
	doc.Walk(func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		class := strings.ToLower(document.Attr(n, "class"))
		if strings.Contains(class, "author") || strings.Contains(class, "byline") {
			bag.HasAuthorByline = true
		}
	})
}

func isAuthoritativeLink(href string) bool {
	host := href
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	host = strings.ToLower(host)

	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".edu") {
		return true
	}
	for _, known := range authoritativeHosts {
		if host == known || strings.HasSuffix(host, "."+known) {
			return true
		}
	}
	return false
}

// extractSchema scans JSON-LD blocks. Blocks are repaired before decoding so
// the sloppy JSON found in the wild still yields types instead of a silent
// zero.
func extractSchema(bag *FeatureBag, doc *document.Document) {
	for _, script := range doc.FindAll("script") {
		if document.Attr(script, "type") != "application/ld+json" {
			continue
		}
		if script.FirstChild == nil {
			continue
		}

		raw := script.FirstChild.Data
		repaired, err := jsonrepair.JSONRepair(raw)
		if err != nil {
			repaired = raw
		}

		var payload interface{}
		if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
			continue
		}

		collectSchemaValues(bag, payload)
	}

	for _, t := range bag.SchemaTypes {
		if t == "Organization" {
			bag.HasOrgSchema = true
		}
	}
}

func collectSchemaValues(bag *FeatureBag, v interface{}) {
	switch node := v.(type) {
	case map[string]interface{}:
		if t, ok := node["@type"].(string); ok {
			bag.SchemaTypes = append(bag.SchemaTypes, t)
		}
		if node["author"] != nil {
			bag.HasAuthorSchema = true
		}
		if sameAs, ok := node["sameAs"].([]interface{}); ok {
			bag.SameAsLinks += len(sameAs)
		}
		for _, child := range node {
			collectSchemaValues(bag, child)
		}
	case []interface{}:
		for _, child := range node {
			collectSchemaValues(bag, child)
		}
	}
}

func extractDates(bag *FeatureBag, doc *document.Document) {
	published := doc.MetaContent("article:published_time")
	modified := doc.MetaContent("article:modified_time")

	if published == "" || modified == "" {
		for _, t := range doc.FindAll("time") {
			dt := document.Attr(t, "datetime")
			if dt == "" {
				continue
			}
			if published == "" {
				published = dt
			} else if modified == "" {
				modified = dt
			}
		}
	}

	bag.PublishedAt = parseDate(published)
	bag.ModifiedAt = parseDate(modified)
}

func parseDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func extractEntity(bag *FeatureBag, doc *document.Document, text, brand string) {
	if brand == "" {
		return
	}

	fold := cases.Fold()
	foldedBrand := fold.String(brand)
	bag.BrandMentions = strings.Count(fold.String(text), foldedBrand)
	bag.BrandInTitle = strings.Contains(fold.String(doc.Title()), foldedBrand)
}
