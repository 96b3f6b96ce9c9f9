package astro

import (
	"math"
	"time"
)

// Solar altitude thresholds in degrees.
const (
	SunriseAltitude      = -0.8333 // Upper limb on the horizon, refraction included
	CivilAltitude        = -6.0
	NauticalAltitude     = -12.0
	AstronomicalAltitude = -18.0
)

// SunPosition calculates the apparent equatorial coordinates of the Sun.
// Uses a simplified solar ephemeris based on the Astronomical Almanac.
// Accuracy: ~0.01 degrees for RA, ~0.001 degrees for Dec.
func SunPosition(t time.Time) (raDeg, decDeg float64) {
	T := (DateToJulianDate(t) - J2000) / 36525.0

	// Mean longitude of the Sun (degrees)
	L0 := NormalizeDegrees(280.46646 + 36000.76983*T + 0.0003032*T*T)

	// Mean anomaly of the Sun (degrees)
	M := NormalizeDegrees(357.52911 + 35999.05029*T - 0.0001537*T*T)
	Mrad := DegToRad(M)

	// Equation of center
	C := (1.914602 - 0.004817*T - 0.000014*T*T) * math.Sin(Mrad)
	C += (0.019993 - 0.000101*T) * math.Sin(2*Mrad)
	C += 0.000289 * math.Sin(3*Mrad)

	sunLon := L0 + C

	// Apparent longitude (aberration and nutation)
	omega := 125.04 - 1934.136*T
	sunLonApp := sunLon - 0.00569 - 0.00478*math.Sin(DegToRad(omega))

	eps := meanObliquity(T) + 0.00256*math.Cos(DegToRad(omega))

	sunLonRad := DegToRad(sunLonApp)
	epsRad := DegToRad(eps)

	ra := math.Atan2(math.Cos(epsRad)*math.Sin(sunLonRad), math.Cos(sunLonRad))
	raDeg = NormalizeDegrees(RadToDeg(ra))

	decDeg = RadToDeg(math.Asin(math.Sin(epsRad) * math.Sin(sunLonRad)))

	return raDeg, decDeg
}

// SunAltitude returns the Sun's altitude in degrees for an observer.
func SunAltitude(obs Observer, t time.Time) float64 {
	ra, dec := SunPosition(t)
	return AltitudeAt(obs, ra, dec, t)
}

// SunSeparation calculates the angular separation between the Sun and a target.
// Returns the separation angle in degrees.
func SunSeparation(targetRA, targetDec float64, t time.Time) float64 {
	sunRA, sunDec := SunPosition(t)
	return AngularSeparation(sunRA, sunDec, targetRA, targetDec)
}

// SolarNoon returns the instant the Sun crosses the meridian on the UTC
// calendar day of day, using an approximate equation of time.
func SolarNoon(day time.Time, lonDeg float64) time.Time {
	y, m, d := day.UTC().Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	n := DateToJulianDate(midnight.Add(12*time.Hour)) - J2000
	g := DegToRad(NormalizeDegrees(357.528 + 0.9856003*n))

	// Equation of time in minutes
	eot := -7.655*math.Sin(g) + 9.873*math.Sin(2*g+3.588)

	hours := 12.0 - eot/60.0 - lonDeg/15.0
	return midnight.Add(time.Duration(hours * float64(time.Hour)))
}

// meanObliquity is the mean obliquity of the ecliptic in degrees for T
// Julian centuries since J2000.
func meanObliquity(T float64) float64 {
	return 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
}
