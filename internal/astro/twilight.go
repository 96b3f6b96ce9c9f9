package astro

import (
	"time"
)

// TwilightPhase is the sky-brightness phase implied by the Sun's altitude.
type TwilightPhase string

const (
	PhaseDay          TwilightPhase = "day"
	PhaseCivil        TwilightPhase = "civil"
	PhaseNautical     TwilightPhase = "nautical"
	PhaseAstronomical TwilightPhase = "astronomical"
	PhaseNight        TwilightPhase = "night"
)

// PhaseForSunAltitude maps a solar altitude in degrees to a twilight phase.
func PhaseForSunAltitude(altDeg float64) TwilightPhase {
	switch {
	case altDeg > SunriseAltitude:
		return PhaseDay
	case altDeg > CivilAltitude:
		return PhaseCivil
	case altDeg > NauticalAltitude:
		return PhaseNautical
	case altDeg > AstronomicalAltitude:
		return PhaseAstronomical
	default:
		return PhaseNight
	}
}

// TwilightTimes holds the Sun's horizon and twilight crossings for one night:
// the evening events of the night in progress at (or following) the query
// instant, and the morning events that close it. Nil means the Sun does not
// cross that altitude.
type TwilightTimes struct {
	SolarNoon        time.Time  `json:"solar_noon"`
	Sunset           *time.Time `json:"sunset,omitempty"`
	CivilDusk        *time.Time `json:"civil_dusk,omitempty"`
	NauticalDusk     *time.Time `json:"nautical_dusk,omitempty"`
	AstronomicalDusk *time.Time `json:"astronomical_dusk,omitempty"`
	AstronomicalDawn *time.Time `json:"astronomical_dawn,omitempty"`
	NauticalDawn     *time.Time `json:"nautical_dawn,omitempty"`
	CivilDawn        *time.Time `json:"civil_dawn,omitempty"`
	Sunrise          *time.Time `json:"sunrise,omitempty"`

	SunAltitude  float64       `json:"sun_altitude"`
	Phase        TwilightPhase `json:"phase"`
	IsNight      bool          `json:"is_night"`
	IsPolarDay   bool          `json:"is_polar_day"`
	IsPolarNight bool          `json:"is_polar_night"`
	IsAlwaysDark bool          `json:"is_always_dark"` // Sun stays below -18° all day

	nextNoon time.Time
}

// Night returns the astronomical night window. For always-dark days the
// window spans solar noon to the next solar noon.
func (tw TwilightTimes) Night() (Window, bool) {
	if tw.AstronomicalDusk != nil && tw.AstronomicalDawn != nil {
		return Window{Start: *tw.AstronomicalDusk, End: *tw.AstronomicalDawn}, true
	}
	if tw.IsAlwaysDark {
		return Window{Start: tw.SolarNoon, End: tw.nextNoon}, true
	}
	return Window{}, false
}

// Twilight computes sunset/sunrise and the civil, nautical and astronomical
// dusk/dawn pairs bracketing the night in progress at t. Once that night's
// morning has come (astronomical dawn, or sunrise where there is none) the
// coming night is returned instead.
func Twilight(obs Observer, t time.Time) TwilightTimes {
	// Local solar date from longitude; no time zone database needed.
	local := t.UTC().Add(time.Duration(obs.LonDeg / 15 * float64(time.Hour)))
	y, m, d := local.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	noon := SolarNoon(day, obs.LonDeg)
	if t.Before(noon) && t.Before(morningEnd(obs, noon)) {
		// Before dawn: the night started on the previous day
		day = day.AddDate(0, 0, -1)
		noon = SolarNoon(day, obs.LonDeg)
	}
	nextNoon := SolarNoon(day.AddDate(0, 0, 1), obs.LonDeg)

	sunAlt := SunAltitude(obs, t)
	phase := PhaseForSunAltitude(sunAlt)

	tw := TwilightTimes{
		SolarNoon:   noon,
		SunAltitude: sunAlt,
		Phase:       phase,
		IsNight:     phase == PhaseNight,
		nextNoon:    nextNoon,
	}

	_, decNoon := SunPosition(noon)
	switch HourAngleAtAltitude(SunriseAltitude, obs.LatDeg, decNoon).Kind {
	case AlwaysAbove:
		tw.IsPolarDay = true
	case NeverReaches:
		tw.IsPolarNight = true
	}
	if HourAngleAtAltitude(AstronomicalAltitude, obs.LatDeg, decNoon).Kind == NeverReaches {
		tw.IsAlwaysDark = true
	}

	tw.Sunset = sunCrossing(obs, noon, SunriseAltitude, true)
	tw.CivilDusk = sunCrossing(obs, noon, CivilAltitude, true)
	tw.NauticalDusk = sunCrossing(obs, noon, NauticalAltitude, true)
	tw.AstronomicalDusk = sunCrossing(obs, noon, AstronomicalAltitude, true)

	tw.AstronomicalDawn = sunCrossing(obs, nextNoon, AstronomicalAltitude, false)
	tw.NauticalDawn = sunCrossing(obs, nextNoon, NauticalAltitude, false)
	tw.CivilDawn = sunCrossing(obs, nextNoon, CivilAltitude, false)
	tw.Sunrise = sunCrossing(obs, nextNoon, SunriseAltitude, false)

	return tw
}

// morningEnd is when the night closing at noon ends. Without a dawn or a
// sunrise the whole morning counts as night.
func morningEnd(obs Observer, noon time.Time) time.Time {
	if dawn := sunCrossing(obs, noon, AstronomicalAltitude, false); dawn != nil {
		return *dawn
	}
	if rise := sunCrossing(obs, noon, SunriseAltitude, false); rise != nil {
		return *rise
	}
	return noon
}

// sunCrossing finds when the Sun crosses altDeg after (evening) or before
// (morning) the given solar noon. The declination is re-evaluated at the
// estimated crossing a few times to converge.
func sunCrossing(obs Observer, noon time.Time, altDeg float64, evening bool) *time.Time {
	crossing := noon
	for i := 0; i < 4; i++ {
		_, dec := SunPosition(crossing)
		ha := HourAngleAtAltitude(altDeg, obs.LatDeg, dec)
		if ha.Kind != HourAngleNormal {
			return nil
		}

		// The Sun's hour angle advances 15° per solar hour.
		offset := time.Duration(ha.Deg / 15 * float64(time.Hour))
		if evening {
			crossing = noon.Add(offset)
		} else {
			crossing = noon.Add(-offset)
		}
	}
	return &crossing
}
