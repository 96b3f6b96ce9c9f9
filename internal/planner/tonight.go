package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/litescript/ls-skyplan/internal/astro"
	"github.com/litescript/ls-skyplan/internal/catalog"
	"github.com/litescript/ls-skyplan/internal/feasibility"
)

// Highlight limits.
const (
	MaxHighlightTargets = 3
	MaxUpcomingPhases   = 4
)

// Highlights summarises the sky for the night at t.
type Highlights struct {
	Moon         astro.MoonPhase      `json:"moon"`
	MoonAltitude float64              `json:"moon_altitude"`
	MoonAzimuth  float64              `json:"moon_azimuth"`
	Twilight     astro.TwilightTimes  `json:"twilight"`
	Upcoming     []astro.PhaseEvent   `json:"upcoming_phases"`
	BestTargets  []feasibility.Ranked `json:"best_targets"`
	Lines        []string             `json:"lines"`
}

// TonightHighlights reports the Moon, the sky phase, the night window, the
// next principal lunar phases and the best of targets (if any) at t.
func TonightHighlights(targets []catalog.Target, obs astro.Observer, minAltitude float64, t time.Time) Highlights {
	scorer := feasibility.NewScorer(obs, minAltitude, t)
	moonPos := astro.MoonPositionAt(t)
	moonHz := astro.EquatorialToHorizontal(astro.SkyCoord{RAdeg: moonPos.RAdeg, DecDeg: moonPos.DecDeg}, obs, t)

	h := Highlights{
		Moon:         astro.MoonPhaseAt(t),
		MoonAltitude: moonHz.ElDeg,
		MoonAzimuth:  moonHz.AzDeg,
		Twilight:     scorer.Twilight(),
		Upcoming:     upcomingPhases(t, MaxUpcomingPhases),
		BestTargets:  []feasibility.Ranked{},
	}

	lines := []string{fmt.Sprintf("Moon: %s (%.0f%% illuminated)", h.Moon.Name, h.Moon.Illumination*100)}
	if h.MoonAltitude > 0 {
		lines = append(lines, fmt.Sprintf("Moon altitude: %.1f° (azimuth %.1f°)", h.MoonAltitude, h.MoonAzimuth))
	} else {
		lines = append(lines, "Moon is below the horizon")
	}
	lines = append(lines, skyPhaseLine(h.Twilight.Phase))

	if night, ok := h.Twilight.Night(); ok {
		lines = append(lines, fmt.Sprintf("Astronomical night %s-%s UTC (%.1fh)",
			night.Start.UTC().Format("15:04"), night.End.UTC().Format("15:04"), night.Hours()))
	} else {
		lines = append(lines, "No astronomical darkness tonight")
	}

	for _, ev := range h.Upcoming {
		if ev.Kind == astro.PhaseNewMoon || ev.Kind == astro.PhaseFullMoon {
			lines = append(lines, fmt.Sprintf("Next %s: %s", strings.ToLower(ev.Kind), ev.Time.UTC().Format("Mon Jan 2 15:04 UTC")))
			break
		}
	}

	for _, r := range scorer.Rank(targets) {
		if r.Score < feasibility.DefaultMinScore || len(h.BestTargets) == MaxHighlightTargets {
			break
		}
		h.BestTargets = append(h.BestTargets, r)
		lines = append(lines, fmt.Sprintf("Best tonight: %s %s (score %d, %s)",
			r.ID, r.Name, r.Score, r.Feasibility.Recommendation))
	}
	if len(targets) > 0 && len(h.BestTargets) == 0 {
		lines = append(lines, fmt.Sprintf("No target reaches score %d tonight", feasibility.DefaultMinScore))
	}

	h.Lines = lines
	return h
}

func skyPhaseLine(p astro.TwilightPhase) string {
	switch p {
	case astro.PhaseNight:
		return "Astronomical darkness - ideal for deep sky imaging"
	case astro.PhaseAstronomical:
		return "Astronomical twilight - faint glow on the horizon"
	case astro.PhaseNautical:
		return "Nautical twilight - good for bright objects"
	case astro.PhaseCivil:
		return "Civil twilight - planets and bright stars visible"
	default:
		return "Daytime - wait for sunset"
	}
}

// upcomingPhases returns the next n principal lunar phases after t.
func upcomingPhases(t time.Time, n int) []astro.PhaseEvent {
	out := []astro.PhaseEvent{}
	month := time.Date(t.UTC().Year(), t.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3 && len(out) < n; i++ {
		m := month.AddDate(0, i, 0)
		for _, ev := range astro.MoonPhasesForMonth(m.Year(), m.Month()) {
			if ev.Time.After(t) && len(out) < n {
				out = append(out, ev)
			}
		}
	}
	return out
}

