package types

// AnalyzeRequest is the request body for the analyze endpoint.
type AnalyzeRequest struct {
	// Markup is the raw HTML to analyze.
	Markup string `json:"markup" binding:"required"`
	// URL is the page's canonical URL, used for visibility and history.
	URL string `json:"url,omitempty"`
	// BrandName is the entity whose mentions are counted.
	BrandName string `json:"brand_name,omitempty"`
	// CompetitorAgeDays overrides the benchmark freshness baseline.
	CompetitorAgeDays float64 `json:"competitor_age_days,omitempty"`
	// Vertical selects the benchmark baseline, defaulting to "default".
	Vertical string `json:"vertical,omitempty"`
}

// EnhanceRequest is the request body for the enhance endpoint.
type EnhanceRequest struct {
	Markup    string `json:"markup" binding:"required"`
	URL       string `json:"url,omitempty"`
	BrandName string `json:"brand_name,omitempty"`
}

// EnhanceResponse returns the transformed markup alongside the report that
// drove the transformation. Markdown is the plain-content projection of the
// enhanced document, the form answer engines consume.
type EnhanceResponse struct {
	Markup   string      `json:"markup"`
	Markdown string      `json:"markdown"`
	Report   interface{} `json:"report"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
