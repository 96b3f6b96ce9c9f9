package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-skyplan/internal/astro"
	"github.com/litescript/ls-skyplan/internal/feasibility"
)

// Visibility display colors
const (
	colorVisHigh   = "#7CFC00" // Lawn green - high altitude
	colorVisMedium = "#FFD700" // Gold - medium altitude
	colorVisLow    = "#FF6347" // Tomato - low altitude
	colorVisNone   = "#444444" // Dark gray - below horizon

	// Moon separation colors
	colorMoonFar   = "#7CFC00" // >= 60°
	colorMoonNear  = "#FFD700" // 30-60°
	colorMoonClose = "#FF4500" // < 30°
)

// RenderVisibilityPanel renders one target's night.
// Format:
//
//	Rise 22:14   Transit 03:02 @ 58°   Set 08:49
//	Imaging 23:40-06:20 (6.7h)   Dark 23:40-04:55 (5.3h)
func RenderVisibilityPanel(v astro.TargetVisibility) string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	tier := astro.GetElevationTier(v.TransitAltitude)

	var first string
	switch {
	case v.NeverRises:
		first = dimStyle.Render("Never rises")
	case v.IsCircumpolar:
		first = colorByTier(tier, fmt.Sprintf("Circumpolar   Transit %s @ %.0f°",
			formatClock(v.Transit), v.TransitAltitude))
	default:
		var parts []string
		if v.Rise != nil {
			parts = append(parts, "Rise "+formatClock(v.Rise))
		}
		if v.Transit != nil {
			parts = append(parts, fmt.Sprintf("Transit %s @ %.0f°", formatClock(v.Transit), v.TransitAltitude))
		}
		if v.Set != nil {
			parts = append(parts, "Set "+formatClock(v.Set))
		}
		if len(parts) == 0 {
			first = dimStyle.Render("No rise or set tonight")
		} else {
			first = colorByTier(tier, strings.Join(parts, "   "))
		}
	}

	second := fmt.Sprintf("Imaging %s   Dark %s",
		formatWindowHours(v.ImagingWindow, v.ImagingHours),
		formatWindowHours(v.DarkWindow, v.DarkHours))

	return first + "\n" + dimStyle.Render(second)
}

// RenderMoonLine renders phase, illumination and separation for a scored target.
func RenderMoonLine(f feasibility.ImagingFeasibility) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	sepStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(moonSeparationColor(f.MoonSeparation)))

	return labelStyle.Render(fmt.Sprintf("Moon %s %.0f%%   ", f.Moon.Name, f.Moon.Illumination*100)) +
		sepStyle.Render(fmt.Sprintf("%.0f° away", f.MoonSeparation))
}

// RenderCurrentAltitude renders the target's altitude at the given sample.
func RenderCurrentAltitude(alt float64) string {
	tier := astro.GetElevationTier(alt)
	if alt <= 0 {
		return colorByTier(tier, "Below horizon")
	}
	return colorByTier(tier, fmt.Sprintf("%.0f°", alt))
}

// renderTierBar renders a labeled 4-character altitude bar.
func renderTierBar(label string, tier astro.ElevationTier) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(tierToColor(tier)))
	return labelStyle.Render(label+" ") + barStyle.Render(tierToBar(tier))
}

// tierToBar converts elevation tier to a 4-character bar representation.
func tierToBar(tier astro.ElevationTier) string {
	switch tier {
	case astro.ElevationHigh:
		return "████"
	case astro.ElevationMedium:
		return "██░░"
	case astro.ElevationLow:
		return "█░░░"
	default:
		return "░░░░"
	}
}

// tierToColor returns the color for an elevation tier.
func tierToColor(tier astro.ElevationTier) string {
	switch tier {
	case astro.ElevationHigh:
		return colorVisHigh
	case astro.ElevationMedium:
		return colorVisMedium
	case astro.ElevationLow:
		return colorVisLow
	default:
		return colorVisNone
	}
}

// colorByTier applies tier-based coloring to text.
func colorByTier(tier astro.ElevationTier, text string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(tierToColor(tier)))
	return style.Render(text)
}

func moonSeparationColor(sepDeg float64) string {
	switch {
	case sepDeg >= 60:
		return colorMoonFar
	case sepDeg >= 30:
		return colorMoonNear
	default:
		return colorMoonClose
	}
}

func formatClock(t *time.Time) string {
	if t == nil {
		return "--:--"
	}
	return t.UTC().Format("15:04")
}

func formatWindowHours(w *astro.Window, hours float64) string {
	if w == nil {
		return "none"
	}
	return fmt.Sprintf("%s-%s (%.1fh)", w.Start.UTC().Format("15:04"), w.End.UTC().Format("15:04"), hours)
}
