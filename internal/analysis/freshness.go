package analysis

import (
	"fmt"
	"time"
)

// Update urgency levels emitted by the freshness scorer.
const (
	UrgencyCritical = "critical"
	UrgencyHigh     = "high"
	UrgencyMedium   = "medium"
	UrgencyLow      = "low"
	UrgencyUnknown  = "unknown"
)

// Stepwise recency breakpoints. Deliberately not a continuous decay curve:
// content either sits inside a maintenance window or it does not.
var recencySteps = []struct {
	maxAgeDays float64
	value      float64
}{
	{30, 1.0},
	{90, 0.8},
	{180, 0.6},
	{365, 0.35},
}

const recencyFloor = 0.15

// recencyValue maps age in days onto the stepped scale.
func recencyValue(ageDays float64) float64 {
	for _, step := range recencySteps {
		if ageDays <= step.maxAgeDays {
			return step.value
		}
	}
	return recencyFloor
}

// scoreFreshness scores recency against the caller-supplied competitor
// baseline. A document with no discoverable date scores 0 with no signals,
// the same as any other missing feature.
func scoreFreshness(f FeatureBag, opts AnalysisOptions) FreshnessScore {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	updated := f.ModifiedAt
	if updated.IsZero() {
		updated = f.PublishedAt
	}
	if updated.IsZero() {
		return FreshnessScore{
			DimensionScore: DimensionScore{Value: 0, Signals: []Signal{}},
			UpdateUrgency:  UrgencyUnknown,
		}
	}

	ageDays := now.Sub(updated).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}

	var a accumulator
	base := recencyValue(ageDays)
	a.add("recency", base, fmt.Sprintf("last updated %.0f days ago", ageDays))

	baseline := opts.CompetitorAgeDays
	if baseline > 0 && ageDays < baseline {
		// Bonus is re-derived from whatever comparison value the caller
		// supplied, never a constant tied to a fixed competitor set.
		a.add("ahead_of_competitors", 0.10,
			fmt.Sprintf("newer than the %.0f-day competitor average", baseline))
	}

	return FreshnessScore{
		DimensionScore: a.score(),
		AgeDays:        ageDays,
		BaselineDays:   baseline,
		UpdateUrgency:  updateUrgency(ageDays, baseline),
	}
}

func updateUrgency(ageDays, baseline float64) string {
	if baseline > 0 && ageDays > 2*baseline {
		return UrgencyCritical
	}
	switch {
	case ageDays > 365:
		return UrgencyHigh
	case ageDays > 180:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}
