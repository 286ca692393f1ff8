// Package airquality converts raw PM2.5 concentrations into the standardized
// air-quality index and severity category shown on the environmental card.
package airquality

import "math"

// Label is the severity category derived from the computed index.
type Label string

const (
	LabelGood               Label = "good"
	LabelModerate           Label = "moderate"
	LabelUnhealthySensitive Label = "unhealthy-sensitive"
	LabelUnhealthy          Label = "unhealthy"
	LabelVeryUnhealthy      Label = "very-unhealthy"
	LabelHazardous          Label = "hazardous"
)

// Classification is the display-ready result of classifying a concentration.
type Classification struct {
	Index int   `json:"index"`
	Label Label `json:"label"`
}

// breakpoint is one band of the EPA PM2.5 breakpoint table.
type breakpoint struct {
	concLow, concHigh   float64
	indexLow, indexHigh int
}

var breakpoints = []breakpoint{
	{0.0, 12.0, 0, 50},
	{12.1, 35.4, 51, 100},
	{35.5, 55.4, 101, 150},
	{55.5, 150.4, 151, 200},
	{150.5, 250.4, 201, 300},
	{250.5, 350.4, 301, 400},
	{350.5, 500.4, 401, 500},
}

// Classify maps a PM2.5 concentration (µg/m³) to an AQI value by linear
// interpolation within the matching breakpoint band. Negative input clamps
// to 0 and concentrations above the table saturate at 500; the function is
// total over the real line and monotonic non-decreasing.
func Classify(pm25 float64) Classification {
	if pm25 < 0 || math.IsNaN(pm25) {
		pm25 = 0
	}

	index := 500
	for _, bp := range breakpoints {
		if pm25 <= bp.concHigh {
			span := bp.concHigh - bp.concLow
			ratio := float64(bp.indexHigh-bp.indexLow) / span
			index = int(math.Round(ratio*(pm25-bp.concLow) + float64(bp.indexLow)))
			break
		}
	}

	return Classification{Index: index, Label: labelFor(index)}
}

func labelFor(index int) Label {
	switch {
	case index <= 50:
		return LabelGood
	case index <= 100:
		return LabelModerate
	case index <= 150:
		return LabelUnhealthySensitive
	case index <= 200:
		return LabelUnhealthy
	case index <= 300:
		return LabelVeryUnhealthy
	default:
		return LabelHazardous
	}
}
