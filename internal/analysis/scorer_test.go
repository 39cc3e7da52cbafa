package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// richBag returns a bag with strong signals in every dimension.
func richBag() FeatureBag {
	return FeatureBag{
		WordCount:           1200,
		SentenceCount:       60,
		SentenceLenVariance: 35,
		VocabularyRichness:  0.55,
		ContractionCount:    12,
		FirstPersonCount:    15,
		ExperienceMarkers:   3,
		StatCount:           20,
		QuotableSentences:   6,
		DefinitionCount:     4,

		H1Count:          1,
		H2Count:          5,
		H3Count:          3,
		QuestionHeadings: 4,
		FAQPairs:         5,
		TableCount:       3,
		ListCount:        4,
		OrderedSteps:     6,
		LeadAnswer:       true,

		CitationCount:          10,
		AuthoritativeCitations: 5,
		HasAuthorByline:        true,
		CredentialMentions:     3,
		SchemaTypes:            []string{"Organization", "Article", "FAQPage"},
		HasAuthorSchema:        true,
		HasOrgSchema:           true,
		SameAsLinks:            3,

		BrandMentions: 8,
		BrandInTitle:  true,

		Visibility: []VisibilityRecord{
			{Platform: "perplexity", Appeared: true, Position: 1},
			{Platform: "chatgpt", Appeared: true, Position: 2},
			{Platform: "gemini", Appeared: true, Position: 5},
			{Platform: "claude", Appeared: false},
		},
	}
}

func TestAllScoresInRange(t *testing.T) {
	bags := map[string]FeatureBag{
		"empty": {},
		"rich":  richBag(),
		"extreme": {
			FAQPairs: 1000, TableCount: 1000, ListCount: 1000,
			H2Count: 1000, StatCount: 100000, CitationCount: 10000,
			BrandMentions: 100000, ContractionCount: 100000,
		},
	}

	for name, bag := range bags {
		t.Run(name, func(t *testing.T) {
			d := ScoreDimensions(bag, AnalysisOptions{})
			for dim, v := range map[string]float64{
				"entity":     d.Entity.Value,
				"citation":   d.Citation.Value,
				"structure":  d.Structure.Value,
				"eeat":       d.EEAT.Value,
				"visibility": d.Visibility.Value,
				"freshness":  d.Freshness.Value,
				"ai_human":   d.AIHuman.Value,
			} {
				assert.GreaterOrEqual(t, v, 0.0, dim)
				assert.LessOrEqual(t, v, 1.0, dim)
			}
		})
	}
}

func TestEmptyBagScoresZeroWithEmptySignals(t *testing.T) {
	d := ScoreDimensions(FeatureBag{}, AnalysisOptions{})

	for name, score := range map[string]DimensionScore{
		"entity":     d.Entity,
		"citation":   d.Citation,
		"structure":  d.Structure,
		"eeat":       d.EEAT,
		"visibility": d.Visibility,
		"freshness":  d.Freshness.DimensionScore,
		"ai_human":   d.AIHuman,
	} {
		assert.Equal(t, 0.0, score.Value, name)
		require.NotNil(t, score.Signals, name)
		assert.Empty(t, score.Signals, name)
	}
}

func TestStructureMonotonicInFAQPairs(t *testing.T) {
	prev := -1.0
	for pairs := 0; pairs <= 12; pairs++ {
		score := scoreStructure(FeatureBag{FAQPairs: pairs}).Value
		assert.GreaterOrEqual(t, score, prev, "pairs=%d", pairs)
		prev = score
	}
}

func TestStructureSignalsSaturate(t *testing.T) {
	few := scoreStructure(FeatureBag{FAQPairs: 4}).Value
	many := scoreStructure(FeatureBag{FAQPairs: 400}).Value

	// 4 pairs already exceeds the cap; piling on more changes nothing.
	assert.Equal(t, few, many)
	assert.InDelta(t, 0.30, many, 1e-9)
}

func TestStructureRichScenario(t *testing.T) {
	bag := FeatureBag{
		FAQPairs:     5,
		TableCount:   2,
		ListCount:    3,
		H2Count:      4,
		H3Count:      2,
		OrderedSteps: 5,
		LeadAnswer:   true,
		H1Count:      1,
	}
	score := scoreStructure(bag)

	// 0.30 faq + 0.12 tables + 0.12 lists + 0.18 headings + 0.10 steps
	// + 0.10 lead + 0.05 h1
	assert.InDelta(t, 0.97, score.Value, 1e-9)
	assert.Len(t, score.Signals, 7)
}

func TestCitationDepthRequiresAnswerFriendlyLength(t *testing.T) {
	short := scoreCitationWorthiness(FeatureBag{WordCount: 100})
	inRange := scoreCitationWorthiness(FeatureBag{WordCount: 1500})
	long := scoreCitationWorthiness(FeatureBag{WordCount: 9000})

	assert.Equal(t, 0.0, short.Value)
	assert.InDelta(t, 0.10, inRange.Value, 1e-9)
	assert.Equal(t, 0.0, long.Value)
}

func TestVisibilityCountsOnlyAppearances(t *testing.T) {
	none := scoreVisibility(FeatureBag{Visibility: []VisibilityRecord{
		{Platform: "perplexity", Appeared: false},
		{Platform: "chatgpt", Appeared: false},
	}})
	assert.Equal(t, 0.0, none.Value)
	assert.Empty(t, none.Signals)

	one := scoreVisibility(FeatureBag{Visibility: []VisibilityRecord{
		{Platform: "perplexity", Appeared: true, Position: 7},
	}})
	assert.InDelta(t, 0.25, one.Value, 1e-9)

	topThree := scoreVisibility(FeatureBag{Visibility: []VisibilityRecord{
		{Platform: "perplexity", Appeared: true, Position: 1},
	}})
	assert.InDelta(t, 0.35, topThree.Value, 1e-9)
}

func TestEEATDateSignals(t *testing.T) {
	bare := scoreEEAT(FeatureBag{})
	assert.Equal(t, 0.0, bare.Value)

	withByline := scoreEEAT(FeatureBag{HasAuthorByline: true})
	assert.InDelta(t, 0.15, withByline.Value, 1e-9)
	require.Len(t, withByline.Signals, 1)
	assert.Equal(t, "author_byline", withByline.Signals[0].Type)
}

func TestAIHumanThresholdSignals(t *testing.T) {
	flat := scoreAIHuman(FeatureBag{VocabularyRichness: 0.2, SentenceLenVariance: 5})
	assert.Equal(t, 0.0, flat.Value)

	varied := scoreAIHuman(FeatureBag{VocabularyRichness: 0.5, SentenceLenVariance: 30})
	assert.InDelta(t, 0.50, varied.Value, 1e-9)
}

func TestScoresAreDeterministic(t *testing.T) {
	bag := richBag()
	opts := AnalysisOptions{BrandName: "Acme"}

	first := ScoreDimensions(bag, opts)
	second := ScoreDimensions(bag, opts)
	assert.Equal(t, first, second)
}
