package astro

import (
	"math"
	"sort"
	"time"

	"github.com/soniakeys/meeus/v3/moonphase"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
)

const (
	// SynodicMonth is the mean length of a lunation in days.
	SynodicMonth = 29.530588853

	// referenceNewMoon is the Julian Date of the new moon of 2000-01-06.
	referenceNewMoon = 2451550.1
)

// MoonPhase describes the lunar phase at an instant.
type MoonPhase struct {
	Phase        float64 `json:"phase"`        // 0 = new, 0.5 = full, [0, 1)
	Illumination float64 `json:"illumination"` // Illuminated fraction [0, 1]
	AgeDays      float64 `json:"age_days"`     // Days since new moon
	Name         string  `json:"name"`
	Waxing       bool    `json:"waxing"`
}

// MoonPosition is the geocentric equatorial position of the Moon.
type MoonPosition struct {
	RAdeg      float64 `json:"ra"`
	DecDeg     float64 `json:"dec"`
	DistanceKm float64 `json:"distance_km"`
}

// MoonPhaseAt computes the lunar phase from the mean synodic month.
func MoonPhaseAt(t time.Time) MoonPhase {
	lunations := (DateToJulianDate(t) - referenceNewMoon) / SynodicMonth
	phase := lunations - math.Floor(lunations)

	return MoonPhase{
		Phase:        phase,
		Illumination: (1 - math.Cos(2*math.Pi*phase)) / 2,
		AgeDays:      phase * SynodicMonth,
		Name:         phaseName(phase),
		Waxing:       phase < 0.5,
	}
}

func phaseName(p float64) string {
	switch {
	case p < 0.0625:
		return "New Moon"
	case p < 0.1875:
		return "Waxing Crescent"
	case p < 0.3125:
		return "First Quarter"
	case p < 0.4375:
		return "Waxing Gibbous"
	case p < 0.5625:
		return "Full Moon"
	case p < 0.6875:
		return "Waning Gibbous"
	case p < 0.8125:
		return "Last Quarter"
	case p < 0.9375:
		return "Waning Crescent"
	default:
		return "New Moon"
	}
}

// MoonPositionAt computes the Moon's geocentric position from the ELP-2000/82
// series of Meeus ch. 47. The Julian Date stands in for JDE; ΔT moves the
// Moon by about a hundredth of a degree.
func MoonPositionAt(t time.Time) MoonPosition {
	jd := DateToJulianDate(t)
	lon, lat, dist := moonposition.Position(jd)

	eq := EclipticToEquatorial(UnitVector(lon.Deg(), lat.Deg()), nutation.MeanObliquity(jd).Deg())
	ra, dec := eq.Spherical()

	return MoonPosition{
		RAdeg:      ra,
		DecDeg:     dec,
		DistanceKm: dist,
	}
}

// MoonSeparation returns the angular distance in degrees between the Moon and a target.
func MoonSeparation(targetRA, targetDec float64, t time.Time) float64 {
	m := MoonPositionAt(t)
	return AngularSeparation(m.RAdeg, m.DecDeg, targetRA, targetDec)
}

// MoonInterference grades how much moonlight is likely to wash out a target.
type MoonInterference string

const (
	MoonNone     MoonInterference = "none"
	MoonLow      MoonInterference = "low"
	MoonModerate MoonInterference = "moderate"
	MoonHigh     MoonInterference = "high"
	MoonSevere   MoonInterference = "severe"
)

// ClassifyMoonInterference grades moon interference from the illuminated
// fraction [0, 1], the Moon-target separation and the Moon's altitude.
func ClassifyMoonInterference(illumination, separationDeg, moonAltDeg float64) MoonInterference {
	switch {
	case illumination < 0.1 || moonAltDeg < 0:
		return MoonNone
	case separationDeg >= 90:
		return MoonLow
	case illumination > 0.75 && separationDeg < 30:
		return MoonSevere
	case illumination > 0.5 && separationDeg < 60:
		return MoonHigh
	case illumination > 0.25 || separationDeg < 30:
		return MoonModerate
	default:
		return MoonLow
	}
}

// SupermoonDistanceKm is the distance inside which a full moon counts as a
// supermoon.
const SupermoonDistanceKm = 360000.0

// Principal lunar phases.
const (
	PhaseNewMoon      = "New Moon"
	PhaseFirstQuarter = "First Quarter"
	PhaseFullMoon     = "Full Moon"
	PhaseLastQuarter  = "Last Quarter"
)

// PhaseEvent is the instant of one principal lunar phase.
type PhaseEvent struct {
	Kind         string    `json:"kind"`
	Time         time.Time `json:"time"`
	Illumination float64   `json:"illumination"`
	DistanceKm   float64   `json:"distance_km"`
	Supermoon    bool      `json:"supermoon"`
}

var principalPhases = []struct {
	kind string
	jde  func(year float64) float64
}{
	{PhaseNewMoon, moonphase.New},
	{PhaseFirstQuarter, moonphase.First},
	{PhaseFullMoon, moonphase.Full},
	{PhaseLastQuarter, moonphase.Last},
}

// MoonPhasesForMonth lists the principal phases that fall in a UTC calendar
// month, in time order. Times are TT, within about a minute of UTC.
func MoonPhasesForMonth(year int, month time.Month) []PhaseEvent {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	seen := make(map[float64]bool)
	events := []PhaseEvent{}
	for _, p := range principalPhases {
		// Each lookup snaps to the nearest lunation, so lookups closer together
		// than a lunation see every phase in the month at least once.
		for d := -15; d <= 45; d += 10 {
			jde := p.jde(decimalYear(start.AddDate(0, 0, d)))
			if seen[jde] {
				continue
			}
			seen[jde] = true

			at := JulianDateToTime(jde)
			if at.Before(start) || !at.Before(end) {
				continue
			}
			dist := MoonPositionAt(at).DistanceKm
			events = append(events, PhaseEvent{
				Kind:         p.kind,
				Time:         at,
				Illumination: MoonPhaseAt(at).Illumination,
				DistanceKm:   dist,
				Supermoon:    p.kind == PhaseFullMoon && dist < SupermoonDistanceKm,
			})
		}
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Time.Before(events[j].Time) })
	return events
}

func decimalYear(t time.Time) float64 {
	return 2000 + (DateToJulianDate(t)-J2000)/365.25
}
