// Package history persists past aggregate reports per URL so callers can
// hand the scoring pipeline a bounded window of prior results for trend
// lines. The store is caller-owned and injected; the scoring core never
// reaches into it.
package history

import (
	"context"
	"time"

	"github.com/ZanzyTHEbar/aeo-meter/internal/analysis"
)

// StoredReport is one persisted analysis result.
type StoredReport struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Overall    float64   `json:"overall"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// Store is the time-series contract the HTTP layer owns.
type Store interface {
	Append(ctx context.Context, report analysis.Report) error
	Window(ctx context.Context, url string, n int) ([]StoredReport, error)
	Close() error
}

// Points converts stored reports into the history points the renderer
// accepts, oldest first.
func Points(reports []StoredReport) []analysis.HistoryPoint {
	points := make([]analysis.HistoryPoint, 0, len(reports))
	for i := len(reports) - 1; i >= 0; i-- {
		points = append(points, analysis.HistoryPoint{
			AnalyzedAt: reports[i].AnalyzedAt,
			Overall:    reports[i].Overall,
		})
	}
	return points
}
