package astro

import (
	"math"
	"time"
)

// DefaultMinAltitude is the default minimum altitude for imaging, in degrees.
const DefaultMinAltitude = 30.0

// siderealDay is one full rotation of the sky in clock time.
var siderealDay = SiderealHoursToSolar(24)

// VisibilityClass classifies a target's daily motion for an observer.
type VisibilityClass int

const (
	NormalRiseSet VisibilityClass = iota // Rises and sets every day
	Circumpolar                          // Never sets
	NeverRisesClass                      // Never clears the horizon
)

// String returns the class name.
func (c VisibilityClass) String() string {
	switch c {
	case NormalRiseSet:
		return "rise_set"
	case Circumpolar:
		return "circumpolar"
	case NeverRisesClass:
		return "never_rises"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c VisibilityClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Classify decides whether a declination is circumpolar, never rises, or
// rises and sets, by comparing it against the co-latitude 90 - |lat|.
func Classify(decDeg, latDeg float64) VisibilityClass {
	colat := 90 - math.Abs(latDeg)
	// Flip declination into the observer's hemisphere
	d := decDeg
	if latDeg < 0 {
		d = -decDeg
	}

	switch {
	case latDeg == 0:
		return NormalRiseSet
	case d > colat:
		return Circumpolar
	case d < -colat:
		return NeverRisesClass
	default:
		return NormalRiseSet
	}
}

// TargetVisibility describes when a target is up and imageable for one night.
type TargetVisibility struct {
	Class   VisibilityClass `json:"class"`
	Rise    *time.Time      `json:"rise,omitempty"`
	Transit *time.Time      `json:"transit,omitempty"`
	Set     *time.Time      `json:"set,omitempty"`

	TransitAltitude   float64 `json:"transit_altitude"`
	CurrentAltitude   float64 `json:"current_altitude"`
	CurrentAzimuth    float64 `json:"current_azimuth"`
	HoursAboveHorizon float64 `json:"hours_above_horizon"`

	IsVisible     bool `json:"is_visible"` // Currently above the minimum altitude
	IsCircumpolar bool `json:"is_circumpolar"`
	NeverRises    bool `json:"never_rises"`

	// Imaging window: above the minimum altitude.
	ImagingWindow *Window `json:"imaging_window,omitempty"`
	ImagingHours  float64 `json:"imaging_hours"`

	// Dark window: imaging window intersected with astronomical night.
	DarkWindow *Window `json:"dark_window,omitempty"`
	DarkHours  float64 `json:"dark_hours"`
}

// CalculateTargetVisibility computes rise/transit/set, the imaging window
// above minAltitude and its intersection with astronomical night.
func CalculateTargetVisibility(raDeg, decDeg float64, obs Observer, minAltitude float64, t time.Time) TargetVisibility {
	return VisibilityWithTwilight(raDeg, decDeg, obs, minAltitude, t, Twilight(obs, t))
}

// VisibilityWithTwilight is CalculateTargetVisibility with a precomputed
// twilight table, for batch callers evaluating many targets for one night.
func VisibilityWithTwilight(raDeg, decDeg float64, obs Observer, minAltitude float64, t time.Time, tw TwilightTimes) TargetVisibility {
	current := EquatorialToHorizontal(SkyCoord{RAdeg: raDeg, DecDeg: decDeg}, obs, t)
	class := Classify(decDeg, obs.LatDeg)

	v := TargetVisibility{
		Class:           class,
		TransitAltitude: 90 - math.Abs(obs.LatDeg-decDeg),
		CurrentAltitude: current.ElDeg,
		CurrentAzimuth:  current.AzDeg,
		IsVisible:       current.ElDeg >= minAltitude,
		IsCircumpolar:   class == Circumpolar,
		NeverRises:      class == NeverRisesClass,
	}

	if v.NeverRises {
		return v
	}

	night, hasNight := tw.Night()
	threshold := HourAngleAtAltitude(minAltitude, obs.LatDeg, decDeg)

	transit := TransitTime(raDeg, obs.LonDeg, t).Transit
	if threshold.Kind == HourAngleNormal && threshold.Deg > 0 && hasNight {
		// The next transit may fall after tonight; the previous culmination
		// can cover more of the night. Everything below follows the chosen one.
		half := SiderealHoursToSolar(threshold.Deg / 15)
		next := Window{Start: transit.Add(-half), End: transit.Add(half)}
		prev := Window{Start: next.Start.Add(-siderealDay), End: next.End.Add(-siderealDay)}
		if prev.Overlap(night) > next.Overlap(night) {
			transit = transit.Add(-siderealDay)
		}
	}
	v.Transit = &transit

	horizon := HourAngleAtAltitude(0, obs.LatDeg, decDeg)
	switch {
	case class == Circumpolar || horizon.Kind == AlwaysAbove:
		v.HoursAboveHorizon = 24
	case horizon.Kind == HourAngleNormal && horizon.Deg > 0:
		half := SiderealHoursToSolar(horizon.Deg / 15)
		rise := transit.Add(-half)
		set := transit.Add(half)
		v.Rise = &rise
		v.Set = &set
		v.HoursAboveHorizon = (2 * half).Hours()
	}

	switch {
	case threshold.Kind == AlwaysAbove:
		// Synthetic full-day window, centred on the night when there is one
		center := t
		if hasNight {
			center = night.Start.Add(night.Duration() / 2)
		}
		w := Window{Start: center.Add(-12 * time.Hour), End: center.Add(12 * time.Hour)}
		v.ImagingWindow = &w
	case threshold.Kind == HourAngleNormal && threshold.Deg > 0:
		half := SiderealHoursToSolar(threshold.Deg / 15)
		w := Window{Start: transit.Add(-half), End: transit.Add(half)}
		v.ImagingWindow = &w
	}

	if v.ImagingWindow == nil {
		return v
	}
	v.ImagingHours = v.ImagingWindow.Hours()

	if hasNight {
		if dark, ok := v.ImagingWindow.Intersect(night); ok {
			v.DarkWindow = &dark
			v.DarkHours = dark.Hours()
		}
	}

	return v
}

// CurrentElevation computes the elevation of an object at a given time.
func CurrentElevation(obs Observer, raDeg, decDeg float64, t time.Time) float64 {
	return AltitudeAt(obs, raDeg, decDeg, t)
}

// ElevationTier categorizes elevation for display.
type ElevationTier int

const (
	ElevationNone   ElevationTier = iota // Below horizon
	ElevationLow                         // 0-15 degrees
	ElevationMedium                      // 15-45 degrees
	ElevationHigh                        // 45+ degrees
)

// GetElevationTier returns the tier for a given elevation.
func GetElevationTier(elDeg float64) ElevationTier {
	switch {
	case elDeg <= 0:
		return ElevationNone
	case elDeg < 15:
		return ElevationLow
	case elDeg < 45:
		return ElevationMedium
	default:
		return ElevationHigh
	}
}
