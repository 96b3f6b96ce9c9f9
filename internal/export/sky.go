package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-skyplan/internal/astro"
	"github.com/litescript/ls-skyplan/internal/feasibility"
	"github.com/litescript/ls-skyplan/internal/planner"
)

// WriteHighlights writes the tonight summary, one line per highlight.
func WriteHighlights(w io.Writer, h planner.Highlights, at time.Time) {
	fmt.Fprintf(w, "Tonight @ %s\n", at.UTC().Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	for _, l := range h.Lines {
		fmt.Fprintln(w, l)
	}
}

// WriteMoonPhases writes a month's principal lunar phases.
func WriteMoonPhases(w io.Writer, year int, month time.Month, phases []astro.PhaseEvent) {
	fmt.Fprintf(w, "Moon phases, %s %d\n", month, year)
	fmt.Fprintln(w, strings.Repeat("─", 60))

	if len(phases) == 0 {
		fmt.Fprintln(w, "No principal phases")
		return
	}
	for _, p := range phases {
		line := fmt.Sprintf("%-14s %s  %3.0f%%  %6.0f km", p.Kind,
			p.Time.UTC().Format("Mon Jan 02 15:04 UTC"), p.Illumination*100, p.DistanceKm)
		if p.Supermoon {
			line += "  supermoon"
		}
		fmt.Fprintln(w, line)
	}
}

// WriteFOV writes the field of view and, when m is non-nil, the mosaic coverage.
func WriteFOV(w io.Writer, o feasibility.Optics, fov feasibility.FieldOfView, m *feasibility.MosaicCoverage) {
	fmt.Fprintf(w, "Field of view: %.1fx%.1f mm sensor at %.0f mm\n", o.SensorWidth, o.SensorHeight, o.FocalLength)
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "%-18s %.2f° x %.2f° (%.1f' x %.1f')\n", "Frame",
		fov.WidthDeg, fov.HeightDeg, fov.WidthArcmin, fov.HeightArcmin)
	if fov.ImageScale > 0 {
		fmt.Fprintf(w, "%-18s %.2f\"/px\n", "Image scale", fov.ImageScale)
	}
	if fov.FRatio > 0 {
		fmt.Fprintf(w, "%-18s f/%.1f\n", "Focal ratio", fov.FRatio)
	}
	if m != nil {
		fmt.Fprintf(w, "%-18s %dx%d (%d panels, %.0f%% overlap)\n", "Mosaic",
			m.Rows, m.Cols, m.Panels, m.OverlapPercent)
		fmt.Fprintf(w, "%-18s %.2f° x %.2f°\n", "Coverage", m.TotalWidthDeg, m.TotalHeightDeg)
	}
}
