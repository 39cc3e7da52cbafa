package analysis

import "strings"

// Boilerplate fragments that carry no analyzable content. Matching is
// case-folded substring.
var boilerplateMarkers = []string{
	"all rights reserved",
	"cookie policy",
	"accept cookies",
	"subscribe to our newsletter",
	"terms of service",
	"privacy policy",
}

// Preprocessor cleans extracted paragraph text before feature scans: dedupes
// repeated blocks and drops navigation/footer boilerplate so template chrome
// does not inflate text metrics.
type Preprocessor struct {
	minParagraphChars int
}

// NewPreprocessor creates a preprocessor. Paragraphs shorter than minChars
// are treated as chrome and discarded.
func NewPreprocessor(minChars int) *Preprocessor {
	return &Preprocessor{minParagraphChars: minChars}
}

// CleanParagraphs returns the analyzable subset of paragraphs.
func (p *Preprocessor) CleanParagraphs(paragraphs []string) []string {
	seen := make(map[string]struct{}, len(paragraphs))
	cleaned := make([]string, 0, len(paragraphs))

	for _, para := range paragraphs {
		text := strings.TrimSpace(para)
		if len(text) < p.minParagraphChars {
			continue
		}
		if isBoilerplate(text) {
			continue
		}

		// Repeated paragraphs are template artifacts, count them once.
		key := strings.ToLower(text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		cleaned = append(cleaned, text)
	}

	return cleaned
}

func isBoilerplate(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range boilerplateMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
