package airquality

import "testing"

// ---------------------------------------------------------------------------
// Classify
// ---------------------------------------------------------------------------

func TestClassify_BreakpointAnchors(t *testing.T) {
	cases := []struct {
		pm25      float64
		wantIndex int
		wantLabel Label
	}{
		{0, 0, LabelGood},
		{12.0, 50, LabelGood},
		{12.1, 51, LabelModerate},
		{35.4, 100, LabelModerate},
		{35.5, 101, LabelUnhealthySensitive},
		{55.4, 150, LabelUnhealthySensitive},
		{55.5, 151, LabelUnhealthy},
		{150.4, 200, LabelUnhealthy},
		{250.4, 300, LabelVeryUnhealthy},
		{350.5, 401, LabelHazardous},
		{500.4, 500, LabelHazardous},
	}

	for _, tc := range cases {
		got := Classify(tc.pm25)
		if got.Index != tc.wantIndex {
			t.Errorf("Classify(%v).Index = %d, want %d", tc.pm25, got.Index, tc.wantIndex)
		}
		if got.Label != tc.wantLabel {
			t.Errorf("Classify(%v).Label = %v, want %v", tc.pm25, got.Label, tc.wantLabel)
		}
	}
}

func TestClassify_NegativeClampsToZero(t *testing.T) {
	got := Classify(-10)
	if got.Index != 0 {
		t.Errorf("Classify(-10).Index = %d, want 0", got.Index)
	}
}

func TestClassify_SaturatesAboveTable(t *testing.T) {
	for _, pm25 := range []float64{500.5, 1000, 99999} {
		if got := Classify(pm25); got.Index != 500 {
			t.Errorf("Classify(%v).Index = %d, want 500", pm25, got.Index)
		}
	}
}

func TestClassify_MonotonicNonDecreasing(t *testing.T) {
	prev := -1
	for pm25 := 0.0; pm25 <= 600; pm25 += 0.7 {
		got := Classify(pm25)
		if got.Index < prev {
			t.Fatalf("Classify(%v).Index = %d dropped below previous %d", pm25, got.Index, prev)
		}
		prev = got.Index
	}
}

func TestClassify_MidBandInterpolation(t *testing.T) {
	// Midpoint of the 12.1-35.4 band should land near the middle of 51-100.
	got := Classify(23.75)
	if got.Index < 70 || got.Index > 80 {
		t.Errorf("Classify(23.75).Index = %d, want roughly 75", got.Index)
	}
}

// ---------------------------------------------------------------------------
// Sample
// ---------------------------------------------------------------------------

func TestSample_NormalizeClampsPM25(t *testing.T) {
	s := Sample{PM25: -3, Source: SourceLive}.Normalize()
	if s.PM25 != 0 {
		t.Errorf("PM25 = %v, want 0", s.PM25)
	}
	if s.Source != SourceLive {
		t.Errorf("Source = %v, want live", s.Source)
	}
}

func TestSample_NormalizeUnknownSource(t *testing.T) {
	s := Sample{PM25: 12, Source: "cached"}.Normalize()
	if s.Source != SourceFallback {
		t.Errorf("Source = %v, want fallback", s.Source)
	}
}

func TestFallbackSample_DeterministicPerZip(t *testing.T) {
	a := FallbackSample("560001")
	b := FallbackSample("560001")
	if a != b {
		t.Errorf("same zip produced different samples: %+v vs %+v", a, b)
	}

	c := FallbackSample("400001")
	if a == c {
		t.Error("different zips produced identical samples")
	}
}

func TestFallbackSample_WithinDocumentedRanges(t *testing.T) {
	for _, zip := range []string{"110001", "999999", "not-a-zip"} {
		s := FallbackSample(zip)
		if s.PM25 < 5 || s.PM25 > 55 {
			t.Errorf("zip %s: PM25 = %v, want [5,55]", zip, s.PM25)
		}
		if s.Temperature < 10 || s.Temperature > 35 {
			t.Errorf("zip %s: Temperature = %v, want [10,35]", zip, s.Temperature)
		}
		if s.Humidity < 30 || s.Humidity > 80 {
			t.Errorf("zip %s: Humidity = %v, want [30,80]", zip, s.Humidity)
		}
		if s.Source != SourceFallback {
			t.Errorf("zip %s: Source = %v, want fallback", zip, s.Source)
		}
	}
}
