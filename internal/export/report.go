package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-skyplan/internal/astro"
	"github.com/litescript/ls-skyplan/internal/catalog"
	"github.com/litescript/ls-skyplan/internal/feasibility"
	"github.com/litescript/ls-skyplan/internal/planner"
)

// WriteVisibilityReport writes rise/transit/set and window details for one target.
func WriteVisibilityReport(w io.Writer, t catalog.Target, f feasibility.ImagingFeasibility) {
	v := f.Visibility

	fmt.Fprintf(w, "%s  (RA %s, Dec %s)\n", t.DisplayName(), astro.FormatRA(t.RA), astro.FormatDec(t.Dec))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "%-18s %s\n", "Class", v.Class)
	fmt.Fprintf(w, "%-18s %s\n", "Rise", formatOptTime(v.Rise))
	fmt.Fprintf(w, "%-18s %s (%.1f°)\n", "Transit", formatOptTime(v.Transit), v.TransitAltitude)
	fmt.Fprintf(w, "%-18s %s\n", "Set", formatOptTime(v.Set))
	fmt.Fprintf(w, "%-18s %.1f° az %.0f°\n", "Now", v.CurrentAltitude, v.CurrentAzimuth)
	fmt.Fprintf(w, "%-18s %s (%.1fh)\n", "Imaging window", formatOptWindow(v.ImagingWindow), v.ImagingHours)
	fmt.Fprintf(w, "%-18s %s (%.1fh)\n", "Dark window", formatOptWindow(v.DarkWindow), v.DarkHours)
	fmt.Fprintf(w, "%-18s %s %.0f%%, %.0f° away\n", "Moon", f.Moon.Name, f.Moon.Illumination*100, f.MoonSeparation)
	fmt.Fprintf(w, "%-18s %d (%s)\n", "Score", f.Score, f.Recommendation)
	fmt.Fprintf(w, "%-18s alt %d  moon %d  dark %d  twilight %d\n", "",
		f.AltitudeScore, f.MoonScore, f.DurationScore, f.TwilightScore)

	for _, s := range f.Warnings {
		fmt.Fprintf(w, "  ! %s\n", s)
	}
	for _, s := range f.Tips {
		fmt.Fprintf(w, "  • %s\n", s)
	}
}

// WriteRankTable writes a ranking, best first.
func WriteRankTable(w io.Writer, ranked []feasibility.Ranked, at time.Time) {
	fmt.Fprintf(w, "Target ranking @ %s\n", at.UTC().Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 60))

	if len(ranked) == 0 {
		fmt.Fprintln(w, "No targets")
		return
	}

	fmt.Fprintf(w, "%3s %-10s %-22s %5s %-16s %5s\n", "#", "ID", "Name", "Score", "Recommendation", "Dark")
	for i, r := range ranked {
		fmt.Fprintf(w, "%3d %-10s %-22s %5d %-16s %4.1fh\n",
			i+1,
			truncateStr(r.ID, 10),
			truncateStr(r.Name, 22),
			r.Score,
			r.Feasibility.Recommendation,
			r.Feasibility.Visibility.DarkHours,
		)
	}
}

// WriteSlewOrder writes an observing order with per-leg separations and
// the estimated total slew time.
func WriteSlewOrder(w io.Writer, ordered []catalog.Target, speedDegPerSec float64) {
	fmt.Fprintln(w, "Slew order")
	fmt.Fprintln(w, strings.Repeat("─", 60))

	if len(ordered) == 0 {
		fmt.Fprintln(w, "No targets")
		return
	}

	fmt.Fprintf(w, "%3d %s\n", 1, ordered[0].DisplayName())
	for i, leg := range planner.SlewLegs(ordered) {
		fmt.Fprintf(w, "%3d %-24s %6.1f°\n", i+2, truncateStr(leg.To.DisplayName(), 24), leg.Separation)
	}

	secs := planner.EstimateSlewTime(ordered, speedDegPerSec)
	fmt.Fprintf(w, "\nEstimated slew time: %s\n", (time.Duration(secs * float64(time.Second))).Round(time.Second))
}

func formatOptTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04")
}

func formatOptWindow(w *astro.Window) string {
	if w == nil {
		return "-"
	}
	return w.Start.UTC().Format("01-02 15:04") + " → " + w.End.UTC().Format("01-02 15:04")
}
