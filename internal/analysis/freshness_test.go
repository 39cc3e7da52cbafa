package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bagUpdatedDaysAgo(now time.Time, days int) FeatureBag {
	return FeatureBag{ModifiedAt: now.AddDate(0, 0, -days)}
}

func TestRecencySteps(t *testing.T) {
	tests := []struct {
		ageDays float64
		want    float64
	}{
		{0, 1.0},
		{30, 1.0},
		{31, 0.8},
		{90, 0.8},
		{120, 0.6},
		{180, 0.6},
		{300, 0.35},
		{365, 0.35},
		{366, 0.15},
		{2000, 0.15},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, recencyValue(tt.ageDays), "age=%v", tt.ageDays)
	}
}

func TestFreshnessNoDateScoresZero(t *testing.T) {
	score := scoreFreshness(FeatureBag{}, AnalysisOptions{})

	assert.Equal(t, 0.0, score.Value)
	require.NotNil(t, score.Signals)
	assert.Empty(t, score.Signals)
	assert.Equal(t, UrgencyUnknown, score.UpdateUrgency)
}

func TestFreshnessRecentContent(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	score := scoreFreshness(bagUpdatedDaysAgo(now, 10), AnalysisOptions{Now: now})

	assert.InDelta(t, 1.0, score.Value, 1e-9)
	assert.InDelta(t, 10, score.AgeDays, 0.01)
	assert.Equal(t, UrgencyLow, score.UpdateUrgency)
}

func TestFreshnessCompetitorBonus(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// 60 days old beats a 90-day competitor average: 0.8 base + 0.1 bonus.
	score := scoreFreshness(bagUpdatedDaysAgo(now, 60),
		AnalysisOptions{Now: now, CompetitorAgeDays: 90})
	assert.InDelta(t, 0.9, score.Value, 1e-9)
	assert.Equal(t, 90.0, score.BaselineDays)

	// Older than the baseline gets no bonus.
	noBonus := scoreFreshness(bagUpdatedDaysAgo(now, 60),
		AnalysisOptions{Now: now, CompetitorAgeDays: 30})
	assert.InDelta(t, 0.8, noBonus.Value, 1e-9)
}

func TestFreshnessBonusClampedAtOne(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	score := scoreFreshness(bagUpdatedDaysAgo(now, 5),
		AnalysisOptions{Now: now, CompetitorAgeDays: 45})

	assert.Equal(t, 1.0, score.Value)
}

func TestUpdateUrgencyLadder(t *testing.T) {
	tests := []struct {
		name     string
		ageDays  float64
		baseline float64
		want     string
	}{
		{"critical when double the baseline", 40, 15, UrgencyCritical},
		{"fresh against baseline", 10, 45, UrgencyLow},
		{"high past a year", 400, 0, UrgencyHigh},
		{"medium past six months", 200, 0, UrgencyMedium},
		{"low inside six months", 100, 0, UrgencyLow},
		{"baseline beats year rule", 800, 300, UrgencyCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, updateUrgency(tt.ageDays, tt.baseline))
		})
	}
}

func TestFreshnessPrefersModifiedOverPublished(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	bag := FeatureBag{
		PublishedAt: now.AddDate(-2, 0, 0),
		ModifiedAt:  now.AddDate(0, 0, -20),
	}

	score := scoreFreshness(bag, AnalysisOptions{Now: now})
	assert.InDelta(t, 1.0, score.Value, 1e-9)
	assert.Equal(t, UrgencyLow, score.UpdateUrgency)
}

func TestFreshnessFutureDateClampsToZeroAge(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	bag := FeatureBag{ModifiedAt: now.AddDate(0, 0, 5)}

	score := scoreFreshness(bag, AnalysisOptions{Now: now})
	assert.Equal(t, 0.0, score.AgeDays)
	assert.InDelta(t, 1.0, score.Value, 1e-9)
}
