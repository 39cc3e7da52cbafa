package analysis

import "fmt"

// accumulator collects pre-capped signal contributions for one dimension.
// Every contribution is non-negative, so scores are monotonic in their
// signals, and each is saturated before it lands, so no single signal can
// carry the dimension alone.
type accumulator struct {
	total   float64
	signals []Signal
}

func (a *accumulator) add(sigType string, strength float64, description string) {
	if strength <= 0 {
		return
	}
	a.total += strength
	a.signals = append(a.signals, Signal{
		Type:        sigType,
		Strength:    strength,
		Description: description,
	})
}

// score clamps the accumulated total to [0,1]. No observed signals means
// exactly 0 with an empty (non-nil) signal list.
func (a *accumulator) score() DimensionScore {
	if len(a.signals) == 0 {
		return DimensionScore{Value: 0, Signals: []Signal{}}
	}
	return DimensionScore{Value: clip(a.total, 0, 1), Signals: a.signals}
}

func scoreStructure(f FeatureBag) DimensionScore {
	var a accumulator

	a.add("faq_pairs", capped(float64(f.FAQPairs), 0.08, 0.30),
		fmt.Sprintf("%d FAQ question/answer pairs", f.FAQPairs))
	a.add("tables", capped(float64(f.TableCount), 0.06, 0.15),
		fmt.Sprintf("%d data tables", f.TableCount))
	a.add("lists", capped(float64(f.ListCount), 0.04, 0.12),
		fmt.Sprintf("%d lists", f.ListCount))
	a.add("headings", capped(float64(f.H2Count+f.H3Count), 0.03, 0.18),
		fmt.Sprintf("%d section headings", f.H2Count+f.H3Count))
	a.add("ordered_steps", capped(float64(f.OrderedSteps), 0.02, 0.10),
		fmt.Sprintf("%d ordered steps", f.OrderedSteps))
	if f.LeadAnswer {
		a.add("lead_answer", 0.10, "opening paragraph gives a direct answer")
	}
	if f.H1Count >= 1 {
		a.add("h1_present", 0.05, "page has a top-level heading")
	}

	return a.score()
}

func scoreEEAT(f FeatureBag) DimensionScore {
	var a accumulator

	if f.HasAuthorByline {
		a.add("author_byline", 0.15, "author byline present")
	}
	a.add("credentials", capped(float64(f.CredentialMentions), 0.05, 0.15),
		fmt.Sprintf("%d credential mentions", f.CredentialMentions))
	a.add("authoritative_citations", capped(float64(f.AuthoritativeCitations), 0.05, 0.20),
		fmt.Sprintf("%d citations to authoritative sources", f.AuthoritativeCitations))
	a.add("citations", capped(float64(f.CitationCount), 0.02, 0.15),
		fmt.Sprintf("%d outbound references", f.CitationCount))
	a.add("experience", capped(float64(f.ExperienceMarkers), 0.04, 0.15),
		fmt.Sprintf("%d first-hand experience markers", f.ExperienceMarkers))
	if f.HasAuthorSchema {
		a.add("author_schema", 0.10, "structured author markup present")
	}
	if !f.PublishedAt.IsZero() {
		a.add("publish_date", 0.05, "publish date declared")
	}
	if !f.ModifiedAt.IsZero() {
		a.add("modified_date", 0.05, "last-modified date declared")
	}

	return a.score()
}

func scoreCitationWorthiness(f FeatureBag) DimensionScore {
	var a accumulator

	a.add("statistics", capped(float64(f.StatCount), 0.02, 0.25),
		fmt.Sprintf("%d statistics and figures", f.StatCount))
	a.add("quotable", capped(float64(f.QuotableSentences), 0.05, 0.25),
		fmt.Sprintf("%d quotable fact sentences", f.QuotableSentences))
	a.add("definitions", capped(float64(f.DefinitionCount), 0.05, 0.15),
		fmt.Sprintf("%d definition statements", f.DefinitionCount))
	a.add("question_headings", capped(float64(f.QuestionHeadings), 0.03, 0.10),
		fmt.Sprintf("%d question-form headings", f.QuestionHeadings))
	a.add("data_tables", capped(float64(f.TableCount), 0.05, 0.15),
		fmt.Sprintf("%d data tables", f.TableCount))
	if f.WordCount >= 300 && f.WordCount <= 5000 {
		a.add("depth", 0.10, "word count in the answer-friendly range")
	}

	return a.score()
}

func scoreAIHuman(f FeatureBag) DimensionScore {
	var a accumulator

	if f.VocabularyRichness >= 0.40 {
		a.add("vocabulary", 0.25, "vocabulary richness above the human-typical floor")
	}
	if f.SentenceLenVariance >= 20 {
		a.add("sentence_variance", 0.25, "sentence length varies naturally")
	}
	a.add("contractions", capped(float64(f.ContractionCount), 0.02, 0.20),
		fmt.Sprintf("%d contractions", f.ContractionCount))
	a.add("first_person", capped(float64(f.FirstPersonCount), 0.02, 0.20),
		fmt.Sprintf("%d first-person references", f.FirstPersonCount))
	a.add("experience", capped(float64(f.ExperienceMarkers), 0.05, 0.10),
		fmt.Sprintf("%d experience markers", f.ExperienceMarkers))

	return a.score()
}

func scoreEntity(f FeatureBag) DimensionScore {
	var a accumulator

	a.add("brand_mentions", capped(float64(f.BrandMentions), 0.04, 0.30),
		fmt.Sprintf("%d brand mentions", f.BrandMentions))
	if f.BrandInTitle {
		a.add("brand_in_title", 0.15, "brand named in the title")
	}
	if f.HasOrgSchema {
		a.add("organization_schema", 0.20, "Organization structured data present")
	}
	a.add("same_as", capped(float64(f.SameAsLinks), 0.05, 0.15),
		fmt.Sprintf("%d sameAs profile links", f.SameAsLinks))
	a.add("schema_coverage", capped(float64(len(f.SchemaTypes)), 0.05, 0.20),
		fmt.Sprintf("%d structured data types", len(f.SchemaTypes)))

	return a.score()
}

func scoreVisibility(f FeatureBag) DimensionScore {
	var a accumulator

	appeared := 0
	top3 := 0
	for _, r := range f.Visibility {
		if !r.Appeared {
			continue
		}
		appeared++
		if r.Position >= 1 && r.Position <= 3 {
			top3++
		}
	}

	a.add("platform_appearances", capped(float64(appeared), 0.25, 0.75),
		fmt.Sprintf("cited on %d answer platforms", appeared))
	a.add("top_positions", capped(float64(top3), 0.10, 0.25),
		fmt.Sprintf("%d top-3 placements", top3))

	return a.score()
}

// ScoreDimensions runs every dimension scorer over one feature bag.
func ScoreDimensions(f FeatureBag, opts AnalysisOptions) Dimensions {
	return Dimensions{
		Entity:     scoreEntity(f),
		Citation:   scoreCitationWorthiness(f),
		Structure:  scoreStructure(f),
		EEAT:       scoreEEAT(f),
		Visibility: scoreVisibility(f),
		Freshness:  scoreFreshness(f, opts),
		AIHuman:    scoreAIHuman(f),
	}
}
