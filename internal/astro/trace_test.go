package astro

import (
	"math"
	"testing"
	"time"
)

func TestAltitudeTrace(t *testing.T) {
	obs := Observer{LatDeg: 35.4267, LonDeg: -116.89}
	vega := testStars["vega"]
	now := time.Date(2024, 7, 15, 1, 0, 0, 0, time.UTC)

	v := CalculateTargetVisibility(vega.RAdeg, vega.DecDeg, obs, 30, now)
	if v.ImagingWindow == nil {
		t.Fatal("expected imaging window")
	}

	samples := AltitudeTrace(obs, vega.RAdeg, vega.DecDeg, *v.ImagingWindow, 0)
	if len(samples) < 2 {
		t.Fatalf("got %d samples", len(samples))
	}
	if !samples[0].Time.Equal(v.ImagingWindow.Start) || !samples[len(samples)-1].Time.Equal(v.ImagingWindow.End) {
		t.Error("trace should include both window ends")
	}
	for i := 1; i < len(samples); i++ {
		if gap := samples[i].Time.Sub(samples[i-1].Time); gap > DefaultTraceStep || gap <= 0 {
			t.Errorf("sample %d gap %v", i, gap)
		}
	}

	peak, ok := PeakSample(samples)
	if !ok {
		t.Fatal("PeakSample reported empty trace")
	}
	if math.Abs(peak.Altitude-v.TransitAltitude) > 1 {
		t.Errorf("peak %.2f°, want near transit altitude %.2f°", peak.Altitude, v.TransitAltitude)
	}
}

func TestAltitudeTrace_Edges(t *testing.T) {
	start := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	obs := Observer{LatDeg: 10}

	if got := AltitudeTrace(obs, 0, 0, Window{Start: start, End: start.Add(-time.Hour)}, time.Minute); got != nil {
		t.Errorf("inverted window gave %d samples", len(got))
	}
	if got := AltitudeTrace(obs, 0, 0, Window{Start: start, End: start}, time.Minute); len(got) != 1 {
		t.Errorf("zero-length window gave %d samples, want 1", len(got))
	}
	if _, ok := PeakSample(nil); ok {
		t.Error("PeakSample(nil) should report false")
	}
}
