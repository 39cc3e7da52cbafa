// Package visibility wraps the external answer-engine citation APIs. What a
// platform counts as "appeared" or how it assigns "position" is the
// platform's business; this package only carries the contract and makes sure
// outages degrade to missing data instead of scoring errors.
package visibility

import "context"

// CitationRecord is one platform's answer about whether a page is cited for
// a query.
type CitationRecord struct {
	Platform string `json:"platform"`
	Appeared bool   `json:"appeared"`
	Position int    `json:"position"`
	Context  string `json:"context"`
}

// Checker is the citation/visibility collaborator contract. Implementations
// may be unavailable; callers must treat an error as "feature unavailable".
type Checker interface {
	Check(ctx context.Context, pageURL, query string) ([]CitationRecord, error)
}

// StaticChecker returns fixed records. It backs tests and offline runs where
// no visibility endpoint is configured but deterministic results are needed.
type StaticChecker struct {
	Records []CitationRecord
	Err     error
}

func (s *StaticChecker) Check(ctx context.Context, pageURL, query string) ([]CitationRecord, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Records, nil
}
