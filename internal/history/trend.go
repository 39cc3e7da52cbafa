package history

import "sort"

// Direction labels for a score trend over a window of past reports.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendFlat      = "flat"
)

// Deltas smaller than this are indistinguishable from scoring noise.
const trendDeadband = 0.03

// Trend summarizes a window of past reports.
type Trend struct {
	Direction string  `json:"direction"`
	Delta     float64 `json:"delta"`
	Median    float64 `json:"median"`
}

// ComputeTrend blends a short and a long horizon over the window (newest
// first): the recent half average against the full-window average, so one
// outlier analysis does not flip the direction label.
func ComputeTrend(window []StoredReport) Trend {
	if len(window) < 2 {
		return Trend{Direction: TrendFlat}
	}

	scores := make([]float64, len(window))
	for i, r := range window {
		scores[i] = r.Overall
	}

	recent := scores[:len(scores)/2]
	shortAvg := average(recent)
	longAvg := average(scores)

	// Equal-weight blend of the two horizons against the long average
	// isolates the recent movement.
	blended := 0.5*shortAvg + 0.5*longAvg
	delta := blended - longAvg

	direction := TrendFlat
	switch {
	case delta > trendDeadband:
		direction = TrendImproving
	case delta < -trendDeadband:
		direction = TrendDeclining
	}

	return Trend{
		Direction: direction,
		Delta:     delta,
		Median:    median(scores),
	}
}

func average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := 0.0
	for _, v := range xs {
		s += v
	}
	return s / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	mid := len(cp) / 2
	if len(cp)%2 == 1 {
		return cp[mid]
	}
	return 0.5 * (cp[mid-1] + cp[mid])
}
