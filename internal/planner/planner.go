// Package planner builds multi-target observing plans for one night.
//
// Scheduling is heuristic. PlanMultipleTargets packs dark windows with a
// single left-to-right greedy pass: targets are taken in order of window
// start and each may only be clipped by time already claimed, never
// displace an earlier target. OptimizeTargetOrder is a nearest-neighbour
// tour, a greedy approximation of the shortest slew path. Neither is
// optimal; both keep their signatures if a weighted-interval or proper TSP
// solver is substituted.
package planner

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/litescript/ls-skyplan/internal/astro"
	"github.com/litescript/ls-skyplan/internal/catalog"
	"github.com/litescript/ls-skyplan/internal/feasibility"
)

// Planner thresholds.
const (
	// ConflictThreshold is the dark-window overlap above which two targets conflict.
	ConflictThreshold = 2 * time.Hour

	// BestTargetScore is the score a target needs to be suggested as the opener.
	BestTargetScore = 80

	// SkipScore is the score below which a target is suggested for skipping.
	SkipScore = 40

	// LargeSlewDeg flags consecutive targets further apart than this.
	LargeSlewDeg = 90.0
)

// PlannedTarget is one target's slot in a plan.
type PlannedTarget struct {
	Target      catalog.Target                 `json:"target"`
	Window      *astro.Window                  `json:"window,omitempty"` // Dark imaging window
	Hours       float64                        `json:"hours"`
	Scheduled   *astro.Window                  `json:"scheduled,omitempty"` // Window after clipping by earlier targets
	Feasibility feasibility.ImagingFeasibility `json:"feasibility"`
	Conflicts   []string                       `json:"conflicts"`
}

// Conflict records one pair of targets whose dark windows overlap by more
// than ConflictThreshold.
type Conflict struct {
	A            string  `json:"a"`
	B            string  `json:"b"`
	OverlapHours float64 `json:"overlap_hours"`
}

// MultiTargetPlan is the result of planning a night.
type MultiTargetPlan struct {
	Targets          []PlannedTarget `json:"targets"`
	Conflicts        []Conflict      `json:"conflicts"`
	TotalImagingTime float64         `json:"total_imaging_time"` // Hours, overlaps removed
	NightCoverage    float64         `json:"night_coverage"`     // Percent [0, 100]
	Recommendations  []string        `json:"recommendations"`
}

// PlanMultipleTargets scores each target, detects overlapping dark windows,
// orders targets by window start and greedily packs them into the night.
func PlanMultipleTargets(targets []catalog.Target, obs astro.Observer, minAltitude float64, t time.Time) MultiTargetPlan {
	plan := MultiTargetPlan{
		Targets:         make([]PlannedTarget, 0, len(targets)),
		Conflicts:       []Conflict{},
		Recommendations: []string{},
	}
	if len(targets) == 0 {
		return plan
	}

	scorer := feasibility.NewScorer(obs, minAltitude, t)
	for _, tg := range targets {
		f := scorer.Score(tg.RA, tg.Dec)
		plan.Targets = append(plan.Targets, PlannedTarget{
			Target:      tg,
			Window:      f.Visibility.DarkWindow,
			Hours:       f.Visibility.DarkHours,
			Feasibility: f,
			Conflicts:   []string{},
		})
	}

	plan.Conflicts = detectConflicts(plan.Targets)
	sortByWindowStart(plan.Targets)
	plan.TotalImagingTime = pack(plan.Targets)
	plan.NightCoverage = coverage(plan.Targets, plan.TotalImagingTime)
	plan.Recommendations = recommend(plan.Targets)

	return plan
}

// detectConflicts compares every pair once, appending a message to both
// sides and returning one record per pair.
func detectConflicts(pts []PlannedTarget) []Conflict {
	conflicts := []Conflict{}
	for i := range pts {
		if pts[i].Window == nil {
			continue
		}
		for j := i + 1; j < len(pts); j++ {
			if pts[j].Window == nil {
				continue
			}
			overlap := pts[i].Window.Overlap(*pts[j].Window)
			if overlap <= ConflictThreshold {
				continue
			}

			a, b := &pts[i], &pts[j]
			a.Conflicts = append(a.Conflicts, fmt.Sprintf("Overlaps with %s for %.1fh", b.Target.DisplayName(), overlap.Hours()))
			b.Conflicts = append(b.Conflicts, fmt.Sprintf("Overlaps with %s for %.1fh", a.Target.DisplayName(), overlap.Hours()))
			conflicts = append(conflicts, Conflict{A: a.Target.ID, B: b.Target.ID, OverlapHours: overlap.Hours()})
		}
	}
	return conflicts
}

func sortByWindowStart(pts []PlannedTarget) {
	sort.SliceStable(pts, func(i, j int) bool {
		wi, wj := pts[i].Window, pts[j].Window
		switch {
		case wi == nil:
			return false
		case wj == nil:
			return true
		default:
			return wi.Start.Before(wj.Start)
		}
	})
}

// pack walks targets in window order, moving each start past time already
// claimed, and returns the hours scheduled. pts must be sorted by window start.
func pack(pts []PlannedTarget) float64 {
	var claimed []astro.Window
	hours := make([]float64, 0, len(pts))

	for i := range pts {
		w := pts[i].Window
		if w == nil {
			continue
		}

		// Claimed intervals are disjoint and sorted, so one pass suffices.
		start := w.Start
		for _, c := range claimed {
			if !c.Start.After(start) && c.End.After(start) {
				start = c.End
			}
		}
		if !start.Before(w.End) {
			continue
		}

		slot := astro.Window{Start: start, End: w.End}
		pts[i].Scheduled = &slot
		hours = append(hours, slot.Hours())

		idx := sort.Search(len(claimed), func(k int) bool { return claimed[k].Start.After(slot.Start) })
		claimed = append(claimed, astro.Window{})
		copy(claimed[idx+1:], claimed[idx:])
		claimed[idx] = slot
	}

	if len(hours) == 0 {
		return 0
	}
	return floats.Sum(hours)
}

// coverage is the scheduled time as a percentage of the span from the first
// dark window start to the last dark window end.
func coverage(pts []PlannedTarget, total float64) float64 {
	var first, last time.Time
	for _, pt := range pts {
		if pt.Window == nil {
			continue
		}
		if first.IsZero() || pt.Window.Start.Before(first) {
			first = pt.Window.Start
		}
		if last.IsZero() || pt.Window.End.After(last) {
			last = pt.Window.End
		}
	}

	span := last.Sub(first).Hours()
	if span <= 0 {
		return 0
	}
	return math.Min(100, math.Max(0, total/span*100))
}

func recommend(pts []PlannedTarget) []string {
	recs := []string{}

	best := -1
	for i, pt := range pts {
		if best < 0 || pt.Feasibility.Score > pts[best].Feasibility.Score {
			best = i
		}
	}
	if best >= 0 && pts[best].Feasibility.Score >= BestTargetScore {
		recs = append(recs, fmt.Sprintf("Start with %s (score %d)",
			pts[best].Target.DisplayName(), pts[best].Feasibility.Score))
	}

	for _, pt := range pts {
		if pt.Feasibility.Score < SkipScore {
			recs = append(recs, fmt.Sprintf("Consider skipping %s (score %d)",
				pt.Target.DisplayName(), pt.Feasibility.Score))
		}
	}

	ordered := make([]catalog.Target, len(pts))
	for i, pt := range pts {
		ordered[i] = pt.Target
	}
	for _, leg := range SlewLegs(ordered) {
		if leg.Separation > LargeSlewDeg {
			recs = append(recs, fmt.Sprintf("Large slew of %.0f° from %s to %s",
				leg.Separation, leg.From.DisplayName(), leg.To.DisplayName()))
		}
	}

	return recs
}
