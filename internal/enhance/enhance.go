// Package enhance generates structured-data additions for analyzed pages.
// Enhance is a pure transform: the same markup and report always produce the
// same output, and the input markup is never modified in place.
package enhance

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/ZanzyTHEbar/aeo-meter/internal/analysis"
	"github.com/ZanzyTHEbar/aeo-meter/internal/document"
)

// Options carries the page context used to fill schema fields.
type Options struct {
	// URL becomes the Article mainEntityOfPage. Optional.
	URL string
	// BrandName becomes the Article publisher. Optional.
	BrandName string
}

// FAQPair is one question heading with its answer text.
type FAQPair struct {
	Question string
	Answer   string
}

// Enhance returns a copy of markup with FAQPage and Article JSON-LD blocks
// inserted before </head>. Blocks whose type the page already declares are
// skipped, as are blocks with no data to carry. Markup without a head tag is
// returned unchanged alongside the scripts that could not be placed.
func Enhance(markup string, report analysis.Report, opts Options) (string, error) {
	doc := document.Parse(markup)

	existing := declaredSchemaTypes(doc)
	var scripts []string

	if !existing["FAQPage"] {
		if pairs := CollectFAQPairs(doc); len(pairs) > 0 {
			block, err := faqSchema(pairs)
			if err != nil {
				return "", fmt.Errorf("building faq schema: %w", err)
			}
			scripts = append(scripts, block)
		}
	}

	if !existing["Article"] {
		block, err := articleSchema(doc, report, opts)
		if err != nil {
			return "", fmt.Errorf("building article schema: %w", err)
		}
		if block != "" {
			scripts = append(scripts, block)
		}
	}

	if len(scripts) == 0 {
		return markup, nil
	}
	return insertBeforeHeadClose(markup, strings.Join(scripts, "\n")), nil
}

// CollectFAQPairs finds question headings with following answer blocks, the
// same shape the structure scorer counts.
func CollectFAQPairs(doc *document.Document) []FAQPair {
	var pairs []FAQPair
	doc.Walk(func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "h2", "h3", "h4", "dt", "summary":
			question := strings.TrimSpace(document.NodeText(n))
			if !strings.HasSuffix(question, "?") {
				return
			}
			if answer := followingAnswer(n); answer != "" {
				pairs = append(pairs, FAQPair{Question: question, Answer: answer})
			}
		}
	})
	return pairs
}

func followingAnswer(n *html.Node) string {
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

func declaredSchemaTypes(doc *document.Document) map[string]bool {
	types := make(map[string]bool)
	for _, script := range doc.FindAll("script") {
		if document.Attr(script, "type") != "application/ld+json" {
			continue
		}
		raw := document.NodeText(script)
		for _, t := range []string{"FAQPage", "Article", "NewsArticle", "BlogPosting"} {
			if strings.Contains(raw, `"`+t+`"`) {
				if t == "NewsArticle" || t == "BlogPosting" {
					types["Article"] = true
				} else {
					types[t] = true
				}
			}
		}
	}
	return types
}

func faqSchema(pairs []FAQPair) (string, error) {
	entities := make([]map[string]interface{}, len(pairs))
	for i, p := range pairs {
		entities[i] = map[string]interface{}{
			"@type": "Question",
			"name":  p.Question,
			"acceptedAnswer": map[string]interface{}{
				"@type": "Answer",
				"text":  p.Answer,
			},
		}
	}
	return renderSchema(map[string]interface{}{
		"@context":   "https://schema.org",
		"@type":      "FAQPage",
		"mainEntity": entities,
	})
}

func articleSchema(doc *document.Document, report analysis.Report, opts Options) (string, error) {
	headline := report.Title
	if headline == "" {
		headline = doc.Title()
	}
	if headline == "" {
		return "", nil
	}

	schema := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "Article",
		"headline": headline,
	}
	if opts.URL != "" {
		schema["mainEntityOfPage"] = opts.URL
	}
	if opts.BrandName != "" {
		schema["publisher"] = map[string]interface{}{
			"@type": "Organization",
			"name":  opts.BrandName,
		}
	}
	return renderSchema(schema)
}

func renderSchema(schema map[string]interface{}) (string, error) {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}
	return `<script type="application/ld+json">` + "\n" + string(data) + "\n</script>", nil
}

// insertBeforeHeadClose places block just before the first closing head tag.
// Without a head the block goes before </html>, and failing that is appended.
func insertBeforeHeadClose(markup, block string) string {
	for _, closer := range []string{"</head>", "</HEAD>", "</html>", "</HTML>"} {
		if idx := strings.Index(markup, closer); idx >= 0 {
			return markup[:idx] + block + "\n" + markup[idx:]
		}
	}
	return markup + "\n" + block
}
