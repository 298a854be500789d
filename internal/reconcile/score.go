package reconcile

import (
	"math"
	"strconv"
)

// MaxScore is the backend's similarity scale: 256 means every hash bit matches.
const MaxScore = 256

// NormalizeScore maps a raw score to a percentage rounded to two decimals
// and clamped to [0, 100].
func NormalizeScore(raw float64) float64 {
	if math.IsNaN(raw) || raw <= 0 {
		return 0
	}
	percent := math.Round(raw/MaxScore*100*100) / 100
	if percent > 100 {
		return 100
	}
	return percent
}

// FormatPercent renders a normalized score. A full match collapses to the
// integer form "100 %"; everything else keeps two decimals.
func FormatPercent(percent float64) string {
	if percent == 100 {
		return "100 %"
	}
	return strconv.FormatFloat(percent, 'f', 2, 64) + " %"
}
