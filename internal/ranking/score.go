// Package ranking turns a raw analysis result plus user-chosen filter, sort,
// and page state into the exact ordered subset shown to the user. All
// functions are pure: they never mutate their inputs, so deriving the same
// view twice from the same state yields the same output.
package ranking

import (
	"math"
	"strconv"
	"strings"
)

// labelPercents maps categorical score labels to display percents.
var labelPercents = map[string]float64{
	"excellent":          95,
	"very good":          85,
	"strong":             80,
	"good":               70,
	"moderate":           60,
	"solid (hard asset)": 75,
	"index-based":        85,
	"n/a":                0,
}

// ScoreToPercent converts an agent score string to a display percent in
// [0, 100]. Known categorical labels map through a fixed table
// (case-insensitive, trimmed); numeric scores are on a 0-10 scale and are
// scaled and clamped. Anything else yields 0 — never an error.
func ScoreToPercent(score string) float64 {
	s := strings.ToLower(strings.TrimSpace(score))
	if v, ok := labelPercents[s]; ok {
		return v
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return clampPercent(v / 10 * 100)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
