package analysis

import "time"

// Dimension identifies one scored content dimension.
type Dimension string

const (
	DimensionEntity     Dimension = "entity"
	DimensionCitation   Dimension = "citation"
	DimensionStructure  Dimension = "structure"
	DimensionEEAT       Dimension = "eeat"
	DimensionVisibility Dimension = "visibility"
	DimensionFreshness  Dimension = "freshness"
	DimensionAIHuman    Dimension = "ai_human"
)

// Signal is one observed contribution to a dimension score.
type Signal struct {
	Type        string  `json:"type"`
	Strength    float64 `json:"strength"`
	Description string  `json:"description"`
}

// DimensionScore holds a clamped [0,1] score and the signals that produced it.
// A score with no signals means no data was observed, not a partial default.
type DimensionScore struct {
	Value   float64  `json:"value"`
	Signals []Signal `json:"signals"`
}

// FreshnessScore extends DimensionScore with age context and the update
// urgency derived from the competitor baseline comparison.
type FreshnessScore struct {
	DimensionScore
	AgeDays       float64 `json:"age_days"`
	BaselineDays  float64 `json:"baseline_days,omitempty"`
	UpdateUrgency string  `json:"update_urgency"`
}

// Dimensions collects every computed dimension score for one document.
type Dimensions struct {
	Entity     DimensionScore `json:"entity"`
	Citation   DimensionScore `json:"citation"`
	Structure  DimensionScore `json:"structure"`
	EEAT       DimensionScore `json:"eeat"`
	Visibility DimensionScore `json:"visibility"`
	Freshness  FreshnessScore `json:"freshness"`
	AIHuman    DimensionScore `json:"ai_human"`
}

// Recommendation is a threshold-triggered improvement suggestion.
type Recommendation struct {
	Type            string `json:"type"`
	Priority        int    `json:"priority"`
	Description     string `json:"description"`
	EstimatedImpact string `json:"estimated_impact"`
}

// Recommendation priorities, highest first in rendered output.
const (
	PriorityHigh   = 3
	PriorityMedium = 2
	PriorityLow    = 1
)

// FeatureSummary carries the raw counts surfaced in the report appendix.
type FeatureSummary struct {
	WordCount     int `json:"word_count"`
	HeadingCount  int `json:"heading_count"`
	FAQPairs      int `json:"faq_pairs"`
	Tables        int `json:"tables"`
	Lists         int `json:"lists"`
	Citations     int `json:"citations"`
	SchemaBlocks  int `json:"schema_blocks"`
	BrandMentions int `json:"brand_mentions"`
}

// Report is the terminal artifact of one analysis. It is never mutated after
// Aggregate produces it.
type Report struct {
	ID              string                `json:"id"`
	URL             string                `json:"url,omitempty"`
	Title           string                `json:"title,omitempty"`
	AnalyzedAt      time.Time             `json:"analyzed_at"`
	Overall         float64               `json:"overall"`
	Dimensions      Dimensions            `json:"dimensions"`
	Recommendations []Recommendation      `json:"recommendations"`
	Features        FeatureSummary        `json:"features"`
	Benchmark       map[Dimension]float64 `json:"benchmark,omitempty"`
}

// AnalysisOptions carries the caller-supplied context for one analysis.
type AnalysisOptions struct {
	// BrandName is the entity whose mentions are counted. Optional.
	BrandName string
	// CompetitorAgeDays is the reference average content age used by the
	// freshness comparison. Zero means no baseline was supplied.
	CompetitorAgeDays float64
	// PageURL is used for visibility checks and history lookups. Optional.
	PageURL string
	// Vertical selects the benchmark baseline. Empty means "default".
	Vertical string
	// Now anchors age computations; the zero value means time.Now().
	Now time.Time
}
