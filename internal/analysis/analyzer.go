package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ZanzyTHEbar/aeo-meter/internal/benchmarks"
	"github.com/ZanzyTHEbar/aeo-meter/internal/document"
	"github.com/ZanzyTHEbar/aeo-meter/internal/visibility"
)

// Analyzer orchestrates the full pipeline: parse, extract, score, aggregate.
// It holds no per-document state; concurrent Analyze calls are independent.
type Analyzer struct {
	benchmarks *benchmarks.Store
	checker    visibility.Checker
}

// NewAnalyzer creates an analyzer. checker may be nil when no visibility
// endpoint is configured; visibility then scores as missing data.
func NewAnalyzer(benchmarkStore *benchmarks.Store, checker visibility.Checker) *Analyzer {
	return &Analyzer{
		benchmarks: benchmarkStore,
		checker:    checker,
	}
}

// Analyze scores one document. Malformed markup and collaborator outages
// degrade to lower scores; the only errors this can return come from the
// context.
func (a *Analyzer) Analyze(ctx context.Context, markup string, opts AnalysisOptions) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	doc := document.Parse(markup)
	bag := ExtractFeatures(doc, opts)
	bag.Visibility = a.checkVisibility(ctx, doc, opts)

	baseline := a.loadBaseline(opts)
	if opts.CompetitorAgeDays == 0 && baseline != nil {
		opts.CompetitorAgeDays = baseline.CompetitorAgeDays
	}

	dims := ScoreDimensions(bag, opts)
	overall, recs := Aggregate(dims)

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	report := Report{
		ID:              uuid.NewString(),
		URL:             opts.PageURL,
		Title:           doc.Title(),
		AnalyzedAt:      now,
		Overall:         overall,
		Dimensions:      dims,
		Recommendations: recs,
		Features: FeatureSummary{
			WordCount:     bag.WordCount,
			HeadingCount:  bag.H1Count + bag.H2Count + bag.H3Count,
			FAQPairs:      bag.FAQPairs,
			Tables:        bag.TableCount,
			Lists:         bag.ListCount,
			Citations:     bag.CitationCount,
			SchemaBlocks:  len(bag.SchemaTypes),
			BrandMentions: bag.BrandMentions,
		},
	}

	if baseline != nil {
		report.Benchmark = map[Dimension]float64{}
		for name, score := range baseline.TypicalScores {
			report.Benchmark[Dimension(name)] = score
		}
	}

	return report, nil
}

// checkVisibility queries the citation collaborator when one is configured.
// Failures are logged and swallowed: the bag simply lacks visibility records.
func (a *Analyzer) checkVisibility(ctx context.Context, doc *document.Document, opts AnalysisOptions) []VisibilityRecord {
	if a.checker == nil || opts.PageURL == "" {
		return nil
	}

	query := doc.Title()
	if query == "" {
		return nil
	}

	records, err := a.checker.Check(ctx, opts.PageURL, query)
	if err != nil {
		slog.Warn("visibility check unavailable, scoring without it",
			"url", opts.PageURL, "error", err)
		return nil
	}

	converted := make([]VisibilityRecord, len(records))
	for i, r := range records {
		converted[i] = VisibilityRecord{
			Platform: r.Platform,
			Appeared: r.Appeared,
			Position: r.Position,
			Context:  r.Context,
		}
	}
	return converted
}

func (a *Analyzer) loadBaseline(opts AnalysisOptions) *benchmarks.Baseline {
	if a.benchmarks == nil {
		return nil
	}
	vertical := opts.Vertical
	if vertical == "" {
		vertical = "default"
	}
	baseline, err := a.benchmarks.Load(vertical)
	if err != nil {
		slog.Warn("failed to load benchmark baseline", "error", err)
		return nil
	}
	return baseline
}
