package planner

import (
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/litescript/ls-skyplan/internal/astro"
	"github.com/litescript/ls-skyplan/internal/catalog"
)

// Mount defaults.
const (
	DefaultSlewSpeed  = 5.0              // degrees per second
	DefaultSettleTime = 10 * time.Second // per slew
)

// Leg is one slew between consecutive targets.
type Leg struct {
	From       catalog.Target `json:"from"`
	To         catalog.Target `json:"to"`
	Separation float64        `json:"separation"` // degrees
}

// SlewLegs returns the slews needed to visit targets in order.
func SlewLegs(ordered []catalog.Target) []Leg {
	if len(ordered) < 2 {
		return nil
	}
	legs := make([]Leg, 0, len(ordered)-1)
	for i := 1; i < len(ordered); i++ {
		a, b := ordered[i-1], ordered[i]
		legs = append(legs, Leg{
			From:       a,
			To:         b,
			Separation: astro.AngularSeparation(a.RA, a.Dec, b.RA, b.Dec),
		})
	}
	return legs
}

// OptimizeTargetOrder reorders targets with a nearest-neighbour tour from
// start, or from the first target when start is nil. Ties go to the target
// listed first. The input slice is not modified.
func OptimizeTargetOrder(targets []catalog.Target, start *catalog.Position) []catalog.Target {
	out := make([]catalog.Target, 0, len(targets))
	if len(targets) == 0 {
		return out
	}

	remaining := make([]catalog.Target, len(targets))
	copy(remaining, targets)

	cur := targets[0].Position()
	if start != nil {
		cur = *start
	}

	for len(remaining) > 0 {
		best := 0
		bestSep := astro.AngularSeparation(cur.RA, cur.Dec, remaining[0].RA, remaining[0].Dec)
		for i := 1; i < len(remaining); i++ {
			if sep := astro.AngularSeparation(cur.RA, cur.Dec, remaining[i].RA, remaining[i].Dec); sep < bestSep {
				best, bestSep = i, sep
			}
		}

		next := remaining[best]
		out = append(out, next)
		cur = next.Position()
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return out
}

// EstimateSlewTime returns seconds of slewing plus settling to visit targets
// in order. A non-positive speed uses DefaultSlewSpeed.
func EstimateSlewTime(ordered []catalog.Target, speedDegPerSec float64) float64 {
	return EstimateSlewTimeWithSettle(ordered, speedDegPerSec, DefaultSettleTime)
}

// EstimateSlewTimeWithSettle is EstimateSlewTime with an explicit settle time per slew.
func EstimateSlewTimeWithSettle(ordered []catalog.Target, speedDegPerSec float64, settle time.Duration) float64 {
	legs := SlewLegs(ordered)
	if len(legs) == 0 {
		return 0
	}
	if speedDegPerSec <= 0 {
		speedDegPerSec = DefaultSlewSpeed
	}

	seps := make([]float64, len(legs))
	for i, leg := range legs {
		seps[i] = leg.Separation
	}
	travel := floats.Sum(seps) / speedDegPerSec
	return travel + float64(len(legs))*settle.Seconds()
}
