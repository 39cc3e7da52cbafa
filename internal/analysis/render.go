package analysis

import (
	"fmt"
	"strings"
	"time"
)

// HistoryPoint is one past overall score, supplied by the caller from its own
// report store for the trend appendix.
type HistoryPoint struct {
	AnalyzedAt time.Time `json:"analyzed_at"`
	Overall    float64   `json:"overall"`
}

func priorityLabel(p int) string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// Render produces the markdown report. Section order is fixed: summary,
// scorecard, per-dimension detail, recommendations, appendix. Missing
// optional data (benchmark, history, urgency) drops its line rather than
// erroring.
func Render(r Report, history []HistoryPoint) string {
	var b strings.Builder

	renderSummary(&b, r)
	renderScorecard(&b, r)
	renderDetails(&b, r)
	renderRecommendations(&b, r)
	renderAppendix(&b, r, history)

	return b.String()
}

func renderSummary(b *strings.Builder, r Report) {
	b.WriteString("# Content Analysis Report\n\n")
	if r.Title != "" {
		fmt.Fprintf(b, "**Page:** %s\n\n", r.Title)
	}
	if r.URL != "" {
		fmt.Fprintf(b, "**URL:** %s\n\n", r.URL)
	}
	fmt.Fprintf(b, "**Overall score:** %s (%s) — %s\n\n",
		formatScore(r.Overall), formatPercent(r.Overall), statusLabel(r.Overall))
	if !r.AnalyzedAt.IsZero() {
		fmt.Fprintf(b, "Analyzed %s\n\n", r.AnalyzedAt.Format("2006-01-02 15:04 MST"))
	}
}

func renderScorecard(b *strings.Builder, r Report) {
	b.WriteString("## Scorecard\n\n")

	hasBenchmark := len(r.Benchmark) > 0
	if hasBenchmark {
		b.WriteString("| Dimension | Score | Weight | Status | Benchmark |\n")
		b.WriteString("|---|---|---|---|---|\n")
	} else {
		b.WriteString("| Dimension | Score | Weight | Status |\n")
		b.WriteString("|---|---|---|---|\n")
	}

	for _, dim := range weightedOrder {
		score := weightedScore(r.Dimensions, dim)
		row := fmt.Sprintf("| %s | %s | %s | %s |",
			dimensionTitle(dim), formatScore(score),
			formatPercent(dimensionWeights[dim]), statusLabel(score))
		if hasBenchmark {
			if bench, ok := r.Benchmark[dim]; ok {
				row += fmt.Sprintf(" %s |", formatScore(bench))
			} else {
				row += " – |"
			}
		}
		b.WriteString(row + "\n")
	}
	b.WriteString("\n")
}

func renderDetails(b *strings.Builder, r Report) {
	b.WriteString("## Dimension Detail\n\n")

	writeDimension(b, dimensionTitle(DimensionEntity), r.Dimensions.Entity)
	writeDimension(b, dimensionTitle(DimensionCitation), r.Dimensions.Citation)
	writeDimension(b, dimensionTitle(DimensionStructure), r.Dimensions.Structure)
	writeDimension(b, dimensionTitle(DimensionEEAT), r.Dimensions.EEAT)
	writeDimension(b, dimensionTitle(DimensionVisibility), r.Dimensions.Visibility)

	fr := r.Dimensions.Freshness
	writeDimension(b, dimensionTitle(DimensionFreshness), fr.DimensionScore)
	if fr.UpdateUrgency != "" && fr.UpdateUrgency != UrgencyUnknown {
		fmt.Fprintf(b, "Update urgency: **%s** (age %.0f days", fr.UpdateUrgency, fr.AgeDays)
		if fr.BaselineDays > 0 {
			fmt.Fprintf(b, ", competitor average %.0f days", fr.BaselineDays)
		}
		b.WriteString(")\n\n")
	}

	writeDimension(b, dimensionTitle(DimensionAIHuman), r.Dimensions.AIHuman)
}

func writeDimension(b *strings.Builder, title string, score DimensionScore) {
	fmt.Fprintf(b, "### %s — %s (%s)\n\n", title, formatScore(score.Value), statusLabel(score.Value))
	if len(score.Signals) == 0 {
		b.WriteString("No signals observed.\n\n")
		return
	}
	for _, s := range score.Signals {
		fmt.Fprintf(b, "- %s (+%s)\n", s.Description, formatScore(s.Strength))
	}
	b.WriteString("\n")
}

func renderRecommendations(b *strings.Builder, r Report) {
	b.WriteString("## Recommendations\n\n")
	if len(r.Recommendations) == 0 {
		b.WriteString("No recommendations; all dimensions meet their thresholds.\n\n")
		return
	}
	for i, rec := range r.Recommendations {
		fmt.Fprintf(b, "%d. **[%s]** %s _(est. %s)_\n",
			i+1, priorityLabel(rec.Priority), rec.Description, rec.EstimatedImpact)
	}
	b.WriteString("\n")
}

func renderAppendix(b *strings.Builder, r Report, history []HistoryPoint) {
	b.WriteString("## Appendix\n\n")

	f := r.Features
	fmt.Fprintf(b, "- Words: %d\n", f.WordCount)
	fmt.Fprintf(b, "- Headings: %d\n", f.HeadingCount)
	fmt.Fprintf(b, "- FAQ pairs: %d\n", f.FAQPairs)
	fmt.Fprintf(b, "- Tables: %d\n", f.Tables)
	fmt.Fprintf(b, "- Lists: %d\n", f.Lists)
	fmt.Fprintf(b, "- Outbound citations: %d\n", f.Citations)
	fmt.Fprintf(b, "- Structured data blocks: %d\n", f.SchemaBlocks)
	if f.BrandMentions > 0 {
		fmt.Fprintf(b, "- Brand mentions: %d\n", f.BrandMentions)
	}

	if len(history) > 0 {
		b.WriteString("\n### Score Trend\n\n")
		for _, h := range history {
			fmt.Fprintf(b, "- %s: %s\n", h.AnalyzedAt.Format("2006-01-02"), formatScore(h.Overall))
		}
	}
	b.WriteString("\n")
}

func dimensionTitle(d Dimension) string {
	switch d {
	case DimensionEntity:
		return "Entity"
	case DimensionCitation:
		return "Citation-Worthiness"
	case DimensionStructure:
		return "Structure"
	case DimensionEEAT:
		return "E-E-A-T"
	case DimensionVisibility:
		return "AI Visibility"
	case DimensionFreshness:
		return "Freshness"
	case DimensionAIHuman:
		return "AI/Human Balance"
	}
	return string(d)
}
