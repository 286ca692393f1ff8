// Package trust turns a risk probability and its prediction interval into
// the display geometry used by the risk gauge: a rounded percentage, a
// severity band, and the interval bar's position on a 0-100 track.
package trust

import (
	"math"

	"github.com/respira/respira/internal/domain/record"
)

// LowConfidenceWidth is the interval width above which a prediction gets the
// low-confidence display treatment regardless of the backend's own label.
const LowConfidenceWidth = 0.20

// Severity bands the rounded risk percentage for display coloring. The
// banding is independent of the backend-supplied trust rating.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Signal is the risk probability plus prediction interval delivered by the
// backend for one assessment.
type Signal struct {
	RiskScore   float64       `json:"risk_score"`
	LowerBound  float64       `json:"lower_bound"`
	UpperBound  float64       `json:"upper_bound"`
	TrustRating record.Rating `json:"trust_rating"`
}

// Display is the evaluated, render-ready form of a Signal.
type Display struct {
	Percentage      int           `json:"percentage"`
	Severity        Severity      `json:"severity"`
	IsLowConfidence bool          `json:"is_low_confidence"`
	BarLeftPct      int           `json:"bar_left_pct"`
	BarWidthPct     int           `json:"bar_width_pct"`
	TrustRating     record.Rating `json:"trust_rating"`
}

// Evaluate computes the display treatment for a signal. Inputs originate
// from an external service whose output is not contractually validated, so
// every numeric field is clamped; inverted bounds floor the bar width at 0.
func Evaluate(sig Signal) Display {
	risk := clamp01(sig.RiskScore)
	percentage := int(math.Round(risk * 100))

	severity := SeverityLow
	switch {
	case percentage >= 70:
		severity = SeverityHigh
	case percentage >= 30:
		severity = SeverityMedium
	}

	lower := clamp01(sig.LowerBound)
	upper := clamp01(sig.UpperBound)

	barLeft := int(math.Round(lower * 100))
	barWidth := int(math.Round(upper*100)) - barLeft
	if barWidth < 0 {
		barWidth = 0
	}

	return Display{
		Percentage:      percentage,
		Severity:        severity,
		IsLowConfidence: sig.UpperBound-sig.LowerBound > LowConfidenceWidth,
		BarLeftPct:      barLeft,
		BarWidthPct:     barWidth,
		TrustRating:     sig.TrustRating,
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
