package astro

import (
	"time"
)

// AltitudeSample is a single altitude measurement at a point in time.
type AltitudeSample struct {
	Time     time.Time `json:"time"`
	Altitude float64   `json:"altitude"` // degrees above horizon
}

// DefaultTraceStep is the default spacing between altitude samples.
const DefaultTraceStep = 15 * time.Minute

// AltitudeTrace samples a target's altitude across a window, inclusive of
// both ends. A non-positive step uses DefaultTraceStep.
func AltitudeTrace(obs Observer, raDeg, decDeg float64, w Window, step time.Duration) []AltitudeSample {
	if step <= 0 {
		step = DefaultTraceStep
	}
	if w.End.Before(w.Start) {
		return nil
	}

	samples := make([]AltitudeSample, 0, int(w.Duration()/step)+2)
	for t := w.Start; !t.After(w.End); t = t.Add(step) {
		samples = append(samples, AltitudeSample{
			Time:     t,
			Altitude: AltitudeAt(obs, raDeg, decDeg, t),
		})
	}
	if last := samples[len(samples)-1]; last.Time.Before(w.End) {
		samples = append(samples, AltitudeSample{
			Time:     w.End,
			Altitude: AltitudeAt(obs, raDeg, decDeg, w.End),
		})
	}
	return samples
}

// PeakSample returns the highest sample, or false for an empty trace.
func PeakSample(samples []AltitudeSample) (AltitudeSample, bool) {
	if len(samples) == 0 {
		return AltitudeSample{}, false
	}
	peak := samples[0]
	for _, s := range samples[1:] {
		if s.Altitude > peak.Altitude {
			peak = s
		}
	}
	return peak, true
}
