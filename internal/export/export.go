// Package export renders plans, rankings and visibility reports as JSON or
// plain text for headless use.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-skyplan/internal/astro"
	"github.com/litescript/ls-skyplan/internal/catalog"
	"github.com/litescript/ls-skyplan/internal/planner"
	"github.com/litescript/ls-skyplan/internal/state"
)

// PlanExport is the JSON-serializable representation of a plan.
type PlanExport struct {
	PlanID           string             `json:"plan_id"`
	GeneratedAt      time.Time          `json:"generated_at"`
	For              time.Time          `json:"for"`
	Site             astro.Observer     `json:"site"`
	MinAltitude      float64            `json:"min_altitude"`
	Targets          []TargetExport     `json:"targets"`
	Conflicts        []planner.Conflict `json:"conflicts"`
	TotalImagingTime float64            `json:"total_imaging_hours"`
	NightCoverage    float64            `json:"night_coverage_pct"`
	Recommendations  []string           `json:"recommendations"`
	SlewOrder        []string           `json:"slew_order"`
	SlewSeconds      float64            `json:"slew_seconds"`
}

// TargetExport is a JSON-friendly planned target.
type TargetExport struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	RA              string     `json:"ra"`
	Dec             string     `json:"dec"`
	RADeg           float64    `json:"ra_deg"`
	DecDeg          float64    `json:"dec_deg"`
	Score           int        `json:"score"`
	Recommendation  string     `json:"recommendation"`
	Class           string     `json:"class"`
	TransitAltitude float64    `json:"transit_altitude"`
	WindowStart     *time.Time `json:"window_start,omitempty"`
	WindowEnd       *time.Time `json:"window_end,omitempty"`
	Hours           float64    `json:"hours"`
	ScheduledStart  *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd    *time.Time `json:"scheduled_end,omitempty"`
	Warnings        []string   `json:"warnings"`
	Tips            []string   `json:"tips"`
	Conflicts       []string   `json:"conflicts"`
}

// ExportPlan converts a plan record to an exportable format. The slew order
// is a nearest-neighbour tour over the targets that received time.
func ExportPlan(rec state.PlanRecord) *PlanExport {
	plan := rec.Plan
	export := &PlanExport{
		PlanID:           rec.ID,
		GeneratedAt:      rec.GeneratedAt,
		For:              rec.For,
		Site:             rec.Site,
		MinAltitude:      rec.MinAltitude,
		Targets:          make([]TargetExport, 0, len(plan.Targets)),
		Conflicts:        plan.Conflicts,
		TotalImagingTime: plan.TotalImagingTime,
		NightCoverage:    plan.NightCoverage,
		Recommendations:  plan.Recommendations,
		SlewOrder:        []string{},
	}
	if export.Conflicts == nil {
		export.Conflicts = []planner.Conflict{}
	}
	if export.Recommendations == nil {
		export.Recommendations = []string{}
	}

	for _, pt := range plan.Targets {
		f := pt.Feasibility
		te := TargetExport{
			ID:              pt.Target.ID,
			Name:            pt.Target.DisplayName(),
			RA:              astro.FormatRA(pt.Target.RA),
			Dec:             astro.FormatDec(pt.Target.Dec),
			RADeg:           pt.Target.RA,
			DecDeg:          pt.Target.Dec,
			Score:           f.Score,
			Recommendation:  string(f.Recommendation),
			Class:           f.Visibility.Class.String(),
			TransitAltitude: f.Visibility.TransitAltitude,
			Hours:           pt.Hours,
			Warnings:        nonNil(f.Warnings),
			Tips:            nonNil(f.Tips),
			Conflicts:       nonNil(pt.Conflicts),
		}
		if pt.Window != nil {
			te.WindowStart, te.WindowEnd = timePtr(pt.Window.Start), timePtr(pt.Window.End)
		}
		if pt.Scheduled != nil {
			te.ScheduledStart, te.ScheduledEnd = timePtr(pt.Scheduled.Start), timePtr(pt.Scheduled.End)
		}
		export.Targets = append(export.Targets, te)
	}

	var scheduled []planner.PlannedTarget
	for _, pt := range plan.Targets {
		if pt.Scheduled != nil {
			scheduled = append(scheduled, pt)
		}
	}
	if len(scheduled) > 0 {
		targets := make([]catalog.Target, len(scheduled))
		for i, pt := range scheduled {
			targets[i] = pt.Target
		}
		ordered := planner.OptimizeTargetOrder(targets, nil)
		for _, t := range ordered {
			export.SlewOrder = append(export.SlewOrder, t.ID)
		}
		export.SlewSeconds = planner.EstimateSlewTime(ordered, planner.DefaultSlewSpeed)
	}

	return export
}

// WriteJSON writes the plan as JSON to the given writer.
func (p *PlanExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// SummaryRow represents one row in the plan summary table.
type SummaryRow struct {
	Target    string
	RA        string
	Dec       string
	Score     int
	Window    string
	Scheduled string
	Hours     float64
	Conflicts int
}

// GenerateSummaryRows creates summary rows from a plan, in plan order.
func GenerateSummaryRows(plan planner.MultiTargetPlan) []SummaryRow {
	var rows []SummaryRow
	for _, pt := range plan.Targets {
		row := SummaryRow{
			Target:    pt.Target.DisplayName(),
			RA:        astro.FormatRA(pt.Target.RA),
			Dec:       astro.FormatDec(pt.Target.Dec),
			Score:     pt.Feasibility.Score,
			Window:    "-",
			Scheduled: "-",
			Conflicts: len(pt.Conflicts),
		}
		if pt.Window != nil {
			row.Window = formatSpan(*pt.Window)
		}
		if pt.Scheduled != nil {
			row.Scheduled = formatSpan(*pt.Scheduled)
			row.Hours = pt.Scheduled.Hours()
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteSummaryTable writes a text table of a plan to the given writer.
func WriteSummaryTable(w io.Writer, rec state.PlanRecord) {
	rows := GenerateSummaryRows(rec.Plan)

	site := rec.Site.Name
	if site == "" {
		site = fmt.Sprintf("%.4f, %.4f", rec.Site.LatDeg, rec.Site.LonDeg)
	}
	fmt.Fprintf(w, "Session plan for %s @ %s\n", site, rec.For.UTC().Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 96))

	if len(rows) == 0 {
		fmt.Fprintln(w, "No targets")
		return
	}

	fmt.Fprintf(w, "%-18s %-12s %-12s %5s %-13s %-13s %6s %4s\n",
		"Target", "RA", "Dec", "Score", "Dark window", "Scheduled", "Hours", "Conf")
	fmt.Fprintln(w, strings.Repeat("─", 96))

	for _, r := range rows {
		fmt.Fprintf(w, "%-18s %-12s %-12s %5d %-13s %-13s %6.1f %4d\n",
			truncateStr(r.Target, 18),
			truncateStr(r.RA, 12),
			truncateStr(r.Dec, 12),
			r.Score,
			r.Window,
			r.Scheduled,
			r.Hours,
			r.Conflicts,
		)
	}

	fmt.Fprintf(w, "\nTotal: %.1fh imaging, %.0f%% night coverage\n",
		rec.Plan.TotalImagingTime, rec.Plan.NightCoverage)
	for _, s := range rec.Plan.Recommendations {
		fmt.Fprintf(w, "  • %s\n", s)
	}
}

// formatSpan renders a window as HH:MM-HH:MM UTC.
func formatSpan(w astro.Window) string {
	return w.Start.UTC().Format("15:04") + "-" + w.End.UTC().Format("15:04")
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func truncateStr(s string, maxLen int) string {
	if len([]rune(s)) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-2]) + ".."
}
