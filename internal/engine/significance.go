package engine

import "math"

// significanceThreshold is the two-tailed 95% critical value.
const significanceThreshold = 1.96

// Predictive-strength labels, strongest first.
const (
	StrengthVeryStrong = "Very Strong"
	StrengthStrong     = "Strong"
	StrengthModerate   = "Moderate"
	StrengthFair       = "Fair"
	StrengthWeak       = "Weak"
	StrengthMinimal    = "Minimal"
	StrengthVeryWeak   = "Very Weak"
)

// TStat converts a correlation and sample size into a t statistic,
// t = r*sqrt((N-2)/(1-r^2)). Degenerate inputs (negligible correlation,
// tiny samples, r close to ±1) are guarded to 0 rather than NaN/Inf.
func TStat(r float64, n int) float64 {
	if math.Abs(r) <= 0.001 || n <= 2 {
		return 0
	}
	oneMinusR2 := 1 - r*r
	if oneMinusR2 <= 0.001 {
		return 0
	}
	return r * math.Sqrt(float64(n-2)/oneMinusR2)
}

// Significant reports whether a t statistic clears the 95% threshold.
func Significant(t float64) bool {
	return math.Abs(t) >= significanceThreshold
}

// PredictiveStrength classifies a (correlation, t-stat) pair into one of
// seven ordered labels.
//
// Stage 1 filters noise: anything statistically insignificant is Very Weak
// outright. Stage 2 weights effect size over significance (0.9 vs 0.1)
// because at dashboard sample sizes nearly every t-stat is "significant",
// so correlation does the real discriminating.
func PredictiveStrength(r, t float64) string {
	if !Significant(t) {
		return StrengthVeryWeak
	}

	score := 0.9*correlationScore(r) + 0.1*tScore(t)
	switch {
	case score >= 5.5:
		return StrengthVeryStrong
	case score >= 4.5:
		return StrengthStrong
	case score >= 3.5:
		return StrengthModerate
	case score >= 2.5:
		return StrengthFair
	case score >= 1.5:
		return StrengthWeak
	case score >= 0.5:
		return StrengthMinimal
	default:
		return StrengthVeryWeak
	}
}

// correlationScore maps |r| onto 0-6 via fixed breakpoints.
func correlationScore(r float64) float64 {
	abs := math.Abs(r)
	switch {
	case abs >= 0.50:
		return 6
	case abs >= 0.30:
		return 5
	case abs >= 0.20:
		return 4
	case abs >= 0.10:
		return 3
	case abs >= 0.05:
		return 2
	case abs >= 0.02:
		return 1
	default:
		return 0
	}
}

// tScore maps |t| onto 0-6 using the 99.9%, 99% and 95% critical values.
func tScore(t float64) float64 {
	abs := math.Abs(t)
	switch {
	case abs >= 3.29:
		return 6
	case abs >= 2.58:
		return 4
	case abs >= significanceThreshold:
		return 2
	default:
		return 0
	}
}
