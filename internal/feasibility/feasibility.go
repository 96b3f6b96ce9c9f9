// Package feasibility scores how worthwhile it is to image a target on a
// given night. The score blends four sub-scores, each clamped to [0, 100]:
//
//	altitude  35%  peak (transit) altitude
//	moon      25%  lunar illumination and distance from the target
//	duration  25%  hours of the imaging window inside astronomical night
//	twilight  15%  sky phase at the query instant
package feasibility

import (
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-skyplan/internal/astro"
)

// Sub-score weights.
const (
	AltitudeWeight = 0.35
	MoonWeight     = 0.25
	DurationWeight = 0.25
	TwilightWeight = 0.15
)

// DefaultMinScore is the score ShouldImage requires by default.
const DefaultMinScore = 40

// Recommendation buckets a composite score.
type Recommendation string

const (
	Excellent      Recommendation = "excellent"
	Good           Recommendation = "good"
	Fair           Recommendation = "fair"
	Poor           Recommendation = "poor"
	NotRecommended Recommendation = "not_recommended"
)

// RecommendationFor maps a score to its bucket.
func RecommendationFor(score int) Recommendation {
	switch {
	case score >= 80:
		return Excellent
	case score >= 60:
		return Good
	case score >= 40:
		return Fair
	case score >= 20:
		return Poor
	default:
		return NotRecommended
	}
}

// ImagingFeasibility is the scored assessment of one target for one night.
type ImagingFeasibility struct {
	Score          int            `json:"score"`
	MoonScore      int            `json:"moon_score"`
	AltitudeScore  int            `json:"altitude_score"`
	DurationScore  int            `json:"duration_score"`
	TwilightScore  int            `json:"twilight_score"`
	Recommendation Recommendation `json:"recommendation"`
	Warnings       []string       `json:"warnings"`
	Tips           []string       `json:"tips"`

	// Informational; not part of the score.
	MoonInterference astro.MoonInterference `json:"moon_interference"`
	MoonSeparation   float64                `json:"moon_separation"`
	Moon             astro.MoonPhase        `json:"moon"`

	Visibility astro.TargetVisibility `json:"visibility"`
}

// Scorer evaluates many targets against one observer and night, sharing the
// twilight and Moon calculations between them.
type Scorer struct {
	obs         astro.Observer
	minAltitude float64
	at          time.Time
	twilight    astro.TwilightTimes
	moon        astro.MoonPhase
}

// NewScorer prepares a scorer for an observer, minimum altitude and instant.
func NewScorer(obs astro.Observer, minAltitude float64, t time.Time) *Scorer {
	return &Scorer{
		obs:         obs,
		minAltitude: minAltitude,
		at:          t,
		twilight:    astro.Twilight(obs, t),
		moon:        astro.MoonPhaseAt(t),
	}
}

// Twilight returns the twilight table the scorer uses.
func (s *Scorer) Twilight() astro.TwilightTimes {
	return s.twilight
}

// Calculate scores a target at ra/dec for the observer at t.
func Calculate(raDeg, decDeg float64, obs astro.Observer, minAltitude float64, t time.Time) ImagingFeasibility {
	return NewScorer(obs, minAltitude, t).Score(raDeg, decDeg)
}

// ShouldImage reports whether the target reaches minScore at the default
// minimum altitude.
func ShouldImage(raDeg, decDeg float64, obs astro.Observer, minScore int, t time.Time) bool {
	_, ok := ShouldImageAt(raDeg, decDeg, obs, astro.DefaultMinAltitude, minScore, t)
	return ok
}

// ShouldImageAt is ShouldImage with an explicit minimum altitude. It also
// returns the feasibility the decision was made on.
func ShouldImageAt(raDeg, decDeg float64, obs astro.Observer, minAltitude float64, minScore int, t time.Time) (ImagingFeasibility, bool) {
	f := Calculate(raDeg, decDeg, obs, minAltitude, t)
	return f, f.Score >= minScore
}

// Score evaluates one target.
func (s *Scorer) Score(raDeg, decDeg float64) ImagingFeasibility {
	vis := astro.VisibilityWithTwilight(raDeg, decDeg, s.obs, s.minAltitude, s.at, s.twilight)

	f := ImagingFeasibility{
		Warnings:   []string{},
		Tips:       []string{},
		Moon:       s.moon,
		Visibility: vis,
	}

	// Moon geometry is taken mid-way through the dark window when there is one.
	ref := s.at
	if vis.DarkWindow != nil {
		ref = vis.DarkWindow.Start.Add(vis.DarkWindow.Duration() / 2)
	}
	moonPos := astro.MoonPositionAt(ref)
	f.MoonSeparation = astro.AngularSeparation(moonPos.RAdeg, moonPos.DecDeg, raDeg, decDeg)
	moonAlt := astro.AltitudeAt(s.obs, moonPos.RAdeg, moonPos.DecDeg, ref)
	f.MoonInterference = astro.ClassifyMoonInterference(s.moon.Illumination, f.MoonSeparation, moonAlt)

	f.MoonScore = f.scoreMoon(s.moon.Illumination, f.MoonSeparation)
	f.AltitudeScore = f.scoreAltitude(vis.TransitAltitude)
	f.DurationScore = f.scoreDuration(vis.DarkHours)
	f.TwilightScore = f.scoreTwilight(s.twilight)

	composite := float64(f.AltitudeScore)*AltitudeWeight +
		float64(f.MoonScore)*MoonWeight +
		float64(f.DurationScore)*DurationWeight +
		float64(f.TwilightScore)*TwilightWeight
	f.Score = clampScore(int(math.Round(composite)))
	f.Recommendation = RecommendationFor(f.Score)

	if s.moon.Illumination < 0.1 {
		f.tip("New moon: ideal for faint nebulae and galaxies")
	}
	if vis.IsCircumpolar {
		f.tip("Circumpolar target: can be imaged across multiple nights and sessions")
	}
	if vis.TransitAltitude > 70 {
		f.tip(fmt.Sprintf("Transits at %.0f°, near the zenith: minimal atmospheric extinction", vis.TransitAltitude))
	}

	return f
}

func (f *ImagingFeasibility) scoreMoon(illumination, separation float64) int {
	score := 100
	pct := illumination * 100

	switch {
	case illumination > 0.8:
		score -= 40
		f.warn(fmt.Sprintf("Bright moon (%.0f%% illuminated)", pct))
	case illumination > 0.5:
		score -= 20
		f.warn(fmt.Sprintf("Moon %.0f%% illuminated", pct))
	}

	switch {
	case separation < 30:
		score -= 40
		f.warn(fmt.Sprintf("Moon only %.0f° from target", separation))
	case separation < 60:
		score -= 20
		f.warn(fmt.Sprintf("Moon %.0f° from target", separation))
	}

	return clampScore(score)
}

func (f *ImagingFeasibility) scoreAltitude(transitAlt float64) int {
	switch {
	case transitAlt >= 60:
		return 100
	case transitAlt >= 45:
		return 80
	case transitAlt >= 30:
		f.tip("Image close to transit to minimise atmospheric extinction")
		return 60
	case transitAlt >= 20:
		f.warn(fmt.Sprintf("Low maximum altitude (%.0f°): expect seeing and extinction losses", transitAlt))
		return 40
	default:
		f.warn(fmt.Sprintf("Target peaks at only %.0f°", transitAlt))
		return 20
	}
}

func (f *ImagingFeasibility) scoreDuration(darkHours float64) int {
	switch {
	case darkHours >= 6:
		return 100
	case darkHours >= 4:
		return 80
	case darkHours >= 2:
		f.tip(fmt.Sprintf("%.1f dark hours: consider splitting integration over several nights", darkHours))
		return 60
	case darkHours >= 1:
		f.warn(fmt.Sprintf("Only %.1f hours of dark imaging time", darkHours))
		return 40
	default:
		f.warn("No imaging time during astronomical darkness")
		return 0
	}
}

func (f *ImagingFeasibility) scoreTwilight(tw astro.TwilightTimes) int {
	if tw.IsNight {
		return 100
	}
	switch tw.Phase {
	case astro.PhaseDay:
		f.warn("It is currently daytime")
		return 0
	case astro.PhaseCivil:
		f.warn("Civil twilight: sky too bright for deep-sky imaging")
		return 20
	case astro.PhaseNautical:
		f.tip("Nautical twilight: good time for focusing and framing")
		return 40
	default:
		f.tip("Astronomical twilight: nearly dark, start with brighter targets")
		return 80
	}
}

func (f *ImagingFeasibility) warn(msg string) {
	f.Warnings = append(f.Warnings, msg)
}

func (f *ImagingFeasibility) tip(msg string) {
	f.Tips = append(f.Tips, msg)
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
