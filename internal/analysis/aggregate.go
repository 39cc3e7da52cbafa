package analysis

import (
	"fmt"
	"math"
	"sort"
)

// Overall score weights. Freshness and AI/human balance inform
// recommendations and the report but sit outside the weighted overall.
var dimensionWeights = map[Dimension]float64{
	DimensionEntity:     0.20,
	DimensionCitation:   0.25,
	DimensionStructure:  0.15,
	DimensionEEAT:       0.20,
	DimensionVisibility: 0.20,
}

// weightedOrder fixes the iteration order for the dot product and the
// rendered scorecard.
var weightedOrder = []Dimension{
	DimensionEntity,
	DimensionCitation,
	DimensionStructure,
	DimensionEEAT,
	DimensionVisibility,
}

// ValidateWeights rejects a weight table that does not sum to 1. This is the
// pipeline's only hard failure and belongs at startup, not per call.
func ValidateWeights() error {
	sum := 0.0
	for _, w := range dimensionWeights {
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("dimension weights sum to %v, want 1.0", sum)
	}
	return nil
}

func weightedScore(d Dimensions, dim Dimension) float64 {
	switch dim {
	case DimensionEntity:
		return d.Entity.Value
	case DimensionCitation:
		return d.Citation.Value
	case DimensionStructure:
		return d.Structure.Value
	case DimensionEEAT:
		return d.EEAT.Value
	case DimensionVisibility:
		return d.Visibility.Value
	}
	return 0
}

// OverallScore computes the fixed-weight dot product over the weighted
// dimensions.
func OverallScore(d Dimensions) float64 {
	overall := 0.0
	for _, dim := range weightedOrder {
		overall += dimensionWeights[dim] * weightedScore(d, dim)
	}
	return overall
}

// recommendationRule fires once when its dimension scores below the
// threshold. Declaration order is the tiebreak for equal priorities.
type recommendationRule struct {
	dimension Dimension
	threshold float64
	recType   string
	priority  int
	desc      string
	impact    string
}

var recommendationRules = []recommendationRule{
	{DimensionCitation, 0.5, "add_citable_facts", PriorityHigh,
		"Add statistics, definitions, and quotable fact sentences answer engines can lift verbatim.",
		"+20% citation likelihood"},
	{DimensionVisibility, 0.5, "improve_visibility", PriorityHigh,
		"Content is not being cited by answer platforms; target the queries it should answer.",
		"+15% AI visibility"},
	{DimensionEEAT, 0.5, "strengthen_trust_signals", PriorityHigh,
		"Add an author byline with credentials and cite authoritative sources.",
		"+15% trust score"},
	{DimensionEntity, 0.5, "add_entity_markup", PriorityMedium,
		"Add Organization structured data and sameAs profile links so the brand is machine-recognizable.",
		"+12% entity recognition"},
	{DimensionStructure, 0.5, "restructure_content", PriorityMedium,
		"Add FAQ pairs, tables, and question-form headings for extractable answers.",
		"+10% answer extraction"},
	{DimensionFreshness, 0.6, "refresh_content", PriorityMedium,
		"Update the content and declare a fresh modified date.",
		"+8% freshness score"},
	{DimensionAIHuman, 0.5, "humanize_copy", PriorityLow,
		"Vary sentence length and add first-hand observations.",
		"+5% perceived authenticity"},
}

func ruleScore(d Dimensions, dim Dimension) float64 {
	switch dim {
	case DimensionFreshness:
		return d.Freshness.Value
	case DimensionAIHuman:
		return d.AIHuman.Value
	}
	return weightedScore(d, dim)
}

// Recommendations evaluates every rule against the dimension scores. Rules
// are independent and fire at most once; output is ordered by descending
// priority, then rule declaration order.
func Recommendations(d Dimensions) []Recommendation {
	recs := make([]Recommendation, 0, len(recommendationRules))
	for _, rule := range recommendationRules {
		if ruleScore(d, rule.dimension) < rule.threshold {
			recs = append(recs, Recommendation{
				Type:            rule.recType,
				Priority:        rule.priority,
				Description:     rule.desc,
				EstimatedImpact: rule.impact,
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority > recs[j].Priority
	})

	return recs
}

// Aggregate combines dimension scores into the overall score and the
// recommendation list.
func Aggregate(d Dimensions) (float64, []Recommendation) {
	return OverallScore(d), Recommendations(d)
}

// Status label breakpoints. The renderer must use this same table so a
// dimension never reads "good" in one section and "fair" in another.
func statusLabel(value float64) string {
	switch {
	case value >= 0.8:
		return "excellent"
	case value >= 0.6:
		return "good"
	case value >= 0.4:
		return "fair"
	default:
		return "poor"
	}
}

// StatusLabel exposes the breakpoint table for callers outside the scoring
// core.
func StatusLabel(value float64) string {
	return statusLabel(value)
}
