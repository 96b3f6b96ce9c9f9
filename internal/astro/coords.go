// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/unit"
)

// J2000 is the Julian Date of the J2000.0 epoch.
const J2000 = 2451545.0

// SiderealToSolarRatio is the number of sidereal hours per solar hour.
const SiderealToSolarRatio = 1.00273790935

// Observer validation errors.
var (
	ErrInvalidLatitude  = errors.New("latitude out of range [-90, 90]")
	ErrInvalidLongitude = errors.New("longitude out of range [-180, 180]")
)

// SkyCoord represents celestial coordinates with both equatorial (RA/Dec)
// and horizontal (Az/El) components.
type SkyCoord struct {
	// Equatorial coordinates (J2000)
	RAdeg  float64 // Right Ascension in degrees (0-360)
	DecDeg float64 // Declination in degrees (-90 to +90)

	// Horizontal coordinates (observer-relative)
	AzDeg float64 // Azimuth in degrees (0=N, 90=E, 180=S, 270=W)
	ElDeg float64 // Elevation/Altitude in degrees (0=horizon, 90=zenith)
}

// Observer represents a ground-based observer location.
type Observer struct {
	LatDeg float64 `json:"lat"`            // Latitude in degrees (north positive)
	LonDeg float64 `json:"lon"`            // Longitude in degrees (east positive)
	Name   string  `json:"name,omitempty"` // Optional name for the site
}

// Validate checks the observer coordinates are within range.
func (o Observer) Validate() error {
	if math.IsNaN(o.LatDeg) || o.LatDeg < -90 || o.LatDeg > 90 {
		return fmt.Errorf("observer %q: %w (got %v)", o.Name, ErrInvalidLatitude, o.LatDeg)
	}
	if math.IsNaN(o.LonDeg) || o.LonDeg < -180 || o.LonDeg > 180 {
		return fmt.Errorf("observer %q: %w (got %v)", o.Name, ErrInvalidLongitude, o.LonDeg)
	}
	return nil
}

// EquatorialToHorizontal converts equatorial coordinates (RA/Dec) to horizontal
// coordinates (Az/El) for a given observer and time.
//
// The function preserves the input RA/Dec values and populates Az/El.
// Uses standard astronomical conventions:
//   - Azimuth: 0° = North, 90° = East, 180° = South, 270° = West
//   - Elevation: 0° = horizon, 90° = zenith
func EquatorialToHorizontal(eq SkyCoord, obs Observer, t time.Time) SkyCoord {
	lat := DegToRad(obs.LatDeg)
	dec := DegToRad(eq.DecDeg)

	// Hour Angle = LST - RA
	ha := DegToRad(LocalSiderealTime(obs.LonDeg, t) - eq.RAdeg)

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(clampUnit(sinAlt))

	cosAz := (math.Sin(dec) - math.Sin(alt)*math.Sin(lat)) / (math.Cos(alt) * math.Cos(lat))
	az := math.Acos(clampUnit(cosAz))

	// Hour angle positive means the object is west of the meridian
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}
	if math.IsNaN(az) {
		// Zenith or pole: azimuth is undefined
		az = 0
	}

	return SkyCoord{
		RAdeg:  eq.RAdeg,
		DecDeg: eq.DecDeg,
		AzDeg:  NormalizeDegrees(RadToDeg(az)),
		ElDeg:  RadToDeg(alt),
	}
}

// HorizontalToEquatorial converts an altitude/azimuth seen by the observer
// at t back to RA/Dec. Azimuth follows EquatorialToHorizontal: 0° = North,
// increasing eastward.
func HorizontalToEquatorial(altDeg, azDeg float64, obs Observer, t time.Time) SkyCoord {
	// Meeus measures azimuth westward from South and longitude positive west.
	ra, dec := coord.HzToEq(
		unit.AngleFromDeg(azDeg-180),
		unit.AngleFromDeg(altDeg),
		unit.AngleFromDeg(obs.LatDeg),
		unit.AngleFromDeg(-obs.LonDeg),
		unit.AngleFromDeg(GreenwichMeanSiderealTime(t)).Time(),
	)
	return SkyCoord{
		RAdeg:  NormalizeDegrees(ra.Deg()),
		DecDeg: dec.Deg(),
		AzDeg:  NormalizeDegrees(azDeg),
		ElDeg:  altDeg,
	}
}

// AltitudeAt returns the altitude in degrees of an RA/Dec position.
func AltitudeAt(obs Observer, raDeg, decDeg float64, t time.Time) float64 {
	return EquatorialToHorizontal(SkyCoord{RAdeg: raDeg, DecDeg: decDeg}, obs, t).ElDeg
}

// LocalSiderealTime calculates the Local Sidereal Time in degrees [0, 360)
// for an observer longitude and UTC instant.
func LocalSiderealTime(lonDeg float64, t time.Time) float64 {
	return NormalizeDegrees(GreenwichMeanSiderealTime(t) + lonDeg)
}

// GreenwichMeanSiderealTime calculates GMST in degrees for a given UTC time.
// Uses the IAU 1982 formula based on Julian Date.
func GreenwichMeanSiderealTime(t time.Time) float64 {
	jd := DateToJulianDate(t)

	// Julian centuries since J2000.0
	T := (jd - J2000) / 36525.0

	gmst := 280.46061837 +
		360.98564736629*(jd-J2000) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return NormalizeDegrees(gmst)
}

// DateToJulianDate returns the Julian Date of a UTC instant.
func DateToJulianDate(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// JulianDateToTime converts a Julian Date back to a UTC instant.
func JulianDateToTime(jd float64) time.Time {
	return julian.JDToTime(jd).UTC()
}

// AngularSeparation calculates the great-circle separation between two points
// on the celestial sphere using the spherical law of cosines.
// All coordinates in degrees. Returns separation in degrees [0, 180].
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	dec1Rad := DegToRad(dec1)
	dec2Rad := DegToRad(dec2)
	dRA := DegToRad(ra1 - ra2)

	cosSep := math.Sin(dec1Rad)*math.Sin(dec2Rad) +
		math.Cos(dec1Rad)*math.Cos(dec2Rad)*math.Cos(dRA)

	// Rounding can push the ratio just past ±1 for identical or antipodal points.
	return RadToDeg(math.Acos(clampUnit(cosSep)))
}

// HourAngleKind classifies the result of an hour-angle inversion.
type HourAngleKind int

const (
	HourAngleNormal HourAngleKind = iota // Crosses the altitude twice per day
	NeverReaches                         // Always below the altitude
	AlwaysAbove                          // Always above the altitude
)

// HourAngle is the hour angle at which an object crosses a given altitude.
type HourAngle struct {
	Kind HourAngleKind
	Deg  float64 // Half-arc in degrees [0, 180]; only meaningful for HourAngleNormal
}

// HourAngleAtAltitude solves
//
//	cosH = (sin(alt) - sin(lat)·sin(dec)) / (cos(lat)·cos(dec))
//
// for the hour angle at which an object of declination dec crosses altitude alt.
// cosH > 1 means the object never reaches alt; cosH < -1 means it never drops below.
func HourAngleAtAltitude(altDeg, latDeg, decDeg float64) HourAngle {
	lat := DegToRad(latDeg)
	dec := DegToRad(decDeg)
	alt := DegToRad(altDeg)

	denom := math.Cos(lat) * math.Cos(dec)
	if math.Abs(denom) < 1e-12 {
		// Observer at a pole or target at a celestial pole: altitude is constant
		constAlt := math.Sin(lat) * math.Sin(dec)
		if constAlt >= math.Sin(alt) {
			return HourAngle{Kind: AlwaysAbove, Deg: 180}
		}
		return HourAngle{Kind: NeverReaches}
	}

	cosH := (math.Sin(alt) - math.Sin(lat)*math.Sin(dec)) / denom
	switch {
	case cosH > 1:
		return HourAngle{Kind: NeverReaches}
	case cosH < -1:
		return HourAngle{Kind: AlwaysAbove, Deg: 180}
	}

	return HourAngle{Kind: HourAngleNormal, Deg: RadToDeg(math.Acos(cosH))}
}

// SiderealHoursToSolar converts an interval measured in sidereal hours into
// elapsed solar (clock) time. Every transit, rise/set and window offset goes
// through here.
func SiderealHoursToSolar(siderealHours float64) time.Duration {
	return time.Duration(siderealHours / SiderealToSolarRatio * float64(time.Hour))
}

// TransitInfo describes the next meridian crossing of a target.
type TransitInfo struct {
	TransitLST        float64   // LST at transit in degrees (equals the target RA)
	HoursUntilTransit float64   // Sidereal hours from t until transit [0, 24)
	Transit           time.Time // Instant of the next transit
}

// TransitTime computes the next meridian transit at or after t.
func TransitTime(raDeg, lonDeg float64, t time.Time) TransitInfo {
	lst := LocalSiderealTime(lonDeg, t)
	hours := NormalizeDegrees(raDeg-lst) / 15.0

	return TransitInfo{
		TransitLST:        NormalizeDegrees(raDeg),
		HoursUntilTransit: hours,
		Transit:           t.Add(SiderealHoursToSolar(hours)),
	}
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeDegrees normalizes an angle to [0, 360).
func NormalizeDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
