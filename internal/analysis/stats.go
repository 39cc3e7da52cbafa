package analysis

import (
	"strings"
)

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// capped returns count*unit saturated at cap, so no single signal can carry a
// dimension past its share of the score.
func capped(count float64, unit, cap float64) float64 {
	if count <= 0 {
		return 0
	}
	v := count * unit
	if v > cap {
		return cap
	}
	return v
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := 0.0
	for _, v := range xs {
		s += v
	}
	return s / float64(len(xs))
}

func variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	s := 0.0
	for _, v := range xs {
		d := v - m
		s += d * d
	}
	return s / float64(len(xs))
}

// typeTokenRatio measures vocabulary richness over at most the first
// maxSample words so long documents are not penalized by Heaps' law.
func typeTokenRatio(words []string, maxSample int) float64 {
	if len(words) == 0 {
		return 0
	}
	if maxSample > 0 && len(words) > maxSample {
		words = words[:maxSample]
	}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[strings.ToLower(w)] = struct{}{}
	}
	return float64(len(seen)) / float64(len(words))
}
