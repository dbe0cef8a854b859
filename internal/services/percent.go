package services

import "math"

// pct returns round(100*n/d) clamped to the integer percent scale, with a
// zero denominator defined as 0 rather than an error.
func pct(numerator, denominator int64) int {
	if denominator == 0 {
		return 0
	}
	return int(math.Round(100 * float64(numerator) / float64(denominator)))
}

// pctFloor is pct with a floor of 1 when the numerator is genuinely nonzero,
// so a handful of contacted leads never displays as "0%". Applied to the
// contacted/exported metrics only; presence percentages stay unfloored.
func pctFloor(numerator, denominator int64) int {
	p := pct(numerator, denominator)
	if p == 0 && numerator > 0 {
		return 1
	}
	return p
}
