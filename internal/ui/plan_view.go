package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-skyplan/internal/astro"
	"github.com/litescript/ls-skyplan/internal/export"
	"github.com/litescript/ls-skyplan/internal/state"
)

// Styles shared by the views
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	coverageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9D4EDD"))
)

// PlanViewModel lists the planned targets for the night.
type PlanViewModel struct {
	width    int
	height   int
	cursor   int
	snapshot state.Snapshot
}

// NewPlanViewModel creates an empty plan view.
func NewPlanViewModel() PlanViewModel {
	return PlanViewModel{}
}

// SetSize updates the view dimensions.
func (m PlanViewModel) SetSize(width, height int) PlanViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData stores a new snapshot and keeps the cursor in range.
func (m PlanViewModel) UpdateData(snapshot state.Snapshot) PlanViewModel {
	m.snapshot = snapshot
	if n := m.rowCount(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	return m
}

func (m PlanViewModel) rowCount() int {
	if m.snapshot.Plan == nil {
		return 0
	}
	return len(m.snapshot.Plan.Plan.Targets)
}

// SelectedID returns the target under the cursor.
func (m PlanViewModel) SelectedID() (string, bool) {
	if m.cursor >= m.rowCount() {
		return "", false
	}
	return m.snapshot.Plan.Plan.Targets[m.cursor].Target.ID, true
}

// Update handles cursor movement.
func (m PlanViewModel) Update(msg tea.Msg) (PlanViewModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		n := m.rowCount()
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < n-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			if n > 0 {
				m.cursor = n - 1
			}
		}
	}
	return m, nil
}

// View renders the plan table, coverage and recommendations.
func (m PlanViewModel) View() string {
	rec := m.snapshot.Plan
	if rec == nil {
		return dimStyle.Render("No plan computed yet. Press r to plan.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Session plan for %s", rec.For.UTC().Format("2006-01-02"))))
	b.WriteString("\n\n")

	plan := rec.Plan
	if len(plan.Targets) == 0 {
		b.WriteString(dimStyle.Render("No targets in session. Add some over the API or with -targets."))
		return b.String()
	}

	header := fmt.Sprintf("%-20s %5s  %-15s %-11s %-11s %-4s %s",
		"Target", "Score", "Rating", "Window", "Scheduled", "Alt", "")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	rows := export.GenerateSummaryRows(plan)
	for i, row := range rows {
		pt := plan.Targets[i]
		flag := ""
		if row.Conflicts > 0 {
			flag = "!"
		}
		line := fmt.Sprintf("%-20s %5d  %-15s %-11s %-11s ",
			truncate(row.Target, 20), row.Score, pt.Feasibility.Recommendation, row.Window, row.Scheduled)
		tier := astro.GetElevationTier(pt.Feasibility.Visibility.TransitAltitude)

		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render(line+tierToBar(tier)+" "+flag))
		} else {
			b.WriteString(rowStyle.Render(line) + colorByTier(tier, tierToBar(tier)) + " " + warnStyle.Render(flag))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Night coverage %s %.0f%%   Total imaging %.1fh\n",
		renderCoverageBar(plan.NightCoverage/100, 20), plan.NightCoverage, plan.TotalImagingTime))

	if len(plan.Conflicts) > 0 {
		b.WriteString("\n")
		for _, c := range plan.Conflicts {
			b.WriteString(warnStyle.Render(fmt.Sprintf("! %s and %s overlap by %s", c.A, c.B, formatOverlap(c.OverlapHours))))
			b.WriteString("\n")
		}
	}

	if len(plan.Recommendations) > 0 {
		b.WriteString("\n")
		for _, r := range plan.Recommendations {
			b.WriteString(dimStyle.Render("• " + r))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderCoverageBar draws a bracketed bar filled to frac of width.
func renderCoverageBar(frac float64, width int) string {
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return "[" + coverageStyle.Render(bar) + "]"
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 2 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-2]) + ".."
}

func formatOverlap(hours float64) string {
	return time.Duration(hours * float64(time.Hour)).Round(time.Minute).String()
}
