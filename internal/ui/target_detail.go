package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-skyplan/internal/astro"
	"github.com/litescript/ls-skyplan/internal/planner"
	"github.com/litescript/ls-skyplan/internal/state"
)

// SparklineWidth is the fixed width of the altitude sparkline.
const SparklineWidth = 48

// sparklineBlocks are the Unicode block characters for sparkline (0 = lowest, 7 = highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

var (
	altColorLow  = [3]uint8{0x1b, 0x2b, 0x4b}
	altColorMid  = [3]uint8{0x34, 0x78, 0xc0}
	altColorHigh = [3]uint8{0x8b, 0xe9, 0xff}
)

// TargetDetailModel shows one planned target with its altitude through the night.
type TargetDetailModel struct {
	width  int
	height int

	snapshot   state.Snapshot
	selectedID string
	now        time.Time

	night astro.Window
	trace []astro.AltitudeSample
}

// NewTargetDetailModel creates an empty detail view.
func NewTargetDetailModel() TargetDetailModel {
	return TargetDetailModel{}
}

// SetSize updates the view dimensions.
func (m TargetDetailModel) SetSize(width, height int) TargetDetailModel {
	m.width = width
	m.height = height
	return m
}

// SetNow sets the instant used for the current altitude marker.
func (m TargetDetailModel) SetNow(t time.Time) TargetDetailModel {
	m.now = t
	return m
}

// UpdateData stores a new snapshot, keeping the selection when the target
// is still planned.
func (m TargetDetailModel) UpdateData(snapshot state.Snapshot) TargetDetailModel {
	m.snapshot = snapshot
	if _, ok := m.selected(); !ok {
		m.selectedID = ""
		if targets := m.planned(); len(targets) > 0 {
			m.selectedID = targets[0].Target.ID
		}
	}
	return m.refreshTrace()
}

// Select focuses the view on a target ID.
func (m TargetDetailModel) Select(id string) TargetDetailModel {
	m.selectedID = id
	return m.refreshTrace()
}

// SelectedID returns the focused target ID.
func (m TargetDetailModel) SelectedID() string {
	return m.selectedID
}

// Update handles target cycling.
func (m TargetDetailModel) Update(msg tea.Msg) (TargetDetailModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "right", "l", "down", "j":
			m = m.step(1)
		case "left", "h", "up", "k":
			m = m.step(-1)
		}
	}
	return m, nil
}

func (m TargetDetailModel) step(delta int) TargetDetailModel {
	targets := m.planned()
	if len(targets) == 0 {
		return m
	}
	idx := 0
	for i, pt := range targets {
		if pt.Target.ID == m.selectedID {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(targets)) % len(targets)
	return m.Select(targets[idx].Target.ID)
}

func (m TargetDetailModel) planned() []planner.PlannedTarget {
	if m.snapshot.Plan == nil {
		return nil
	}
	return m.snapshot.Plan.Plan.Targets
}

func (m TargetDetailModel) selected() (planner.PlannedTarget, bool) {
	for _, pt := range m.planned() {
		if pt.Target.ID == m.selectedID {
			return pt, true
		}
	}
	return planner.PlannedTarget{}, false
}

// refreshTrace samples the selected target across the plan's night.
func (m TargetDetailModel) refreshTrace() TargetDetailModel {
	m.trace = nil
	pt, ok := m.selected()
	if !ok {
		return m
	}
	rec := m.snapshot.Plan
	night, ok := astro.Twilight(rec.Site, rec.For).Night()
	if !ok {
		night = astro.Window{Start: rec.For, End: rec.For.Add(24 * time.Hour)}
	}
	m.night = night
	m.trace = astro.AltitudeTrace(rec.Site, pt.Target.RA, pt.Target.Dec, night, 0)
	return m
}

// View renders the selected target.
func (m TargetDetailModel) View() string {
	pt, ok := m.selected()
	if !ok {
		return dimStyle.Render("No target selected. Plan some targets first.")
	}

	var b strings.Builder
	tg := pt.Target
	f := pt.Feasibility

	title := tg.DisplayName()
	if tg.Name != "" && tg.Name != tg.ID {
		title = fmt.Sprintf("%s (%s)", tg.Name, tg.ID)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("RA %s   Dec %s", astro.FormatRA(tg.RA), astro.FormatDec(tg.Dec)))
	if tg.Type != "" {
		b.WriteString("   " + tg.Type)
	}
	if tg.Mag != 0 {
		b.WriteString(fmt.Sprintf("   mag %.1f", tg.Mag))
	}
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Score %d (%s)   moon %d  altitude %d  duration %d  twilight %d\n",
		f.Score, f.Recommendation, f.MoonScore, f.AltitudeScore, f.DurationScore, f.TwilightScore))
	b.WriteString(RenderVisibilityPanel(f.Visibility))
	b.WriteString("\n")
	b.WriteString(RenderMoonLine(f))
	b.WriteString("\n")
	if pt.Scheduled != nil {
		b.WriteString(fmt.Sprintf("Scheduled %s-%s (%.1fh)\n",
			pt.Scheduled.Start.UTC().Format("15:04"), pt.Scheduled.End.UTC().Format("15:04"), pt.Scheduled.Hours()))
	} else {
		b.WriteString(dimStyle.Render("Not scheduled"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderAltitudeSparkline())
	b.WriteString("\n")

	for _, c := range pt.Conflicts {
		b.WriteString(warnStyle.Render("! " + c))
		b.WriteString("\n")
	}
	for _, w := range f.Warnings {
		b.WriteString(warnStyle.Render("⚠ " + w))
		b.WriteString("\n")
	}
	for _, tip := range f.Tips {
		b.WriteString(dimStyle.Render("• " + tip))
		b.WriteString("\n")
	}

	return b.String()
}

// renderAltitudeSparkline renders the night's altitude trace.
func (m TargetDetailModel) renderAltitudeSparkline() string {
	samples := resampleAltitude(m.trace, SparklineWidth)
	if len(samples) == 0 {
		return dimStyle.Render("No altitude data")
	}

	var sb strings.Builder
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	sb.WriteString(labelStyle.Render(m.night.Start.UTC().Format("15:04") + " "))

	for _, alt := range samples {
		if alt < 0 {
			alt = 0
		}
		if alt > 90 {
			alt = 90
		}
		t := alt / 90.0

		blockIdx := int(t * 7.0)
		if blockIdx > 7 {
			blockIdx = 7
		}

		r, g, bl := interpolateAltColor(t)
		color := fmt.Sprintf("#%02x%02x%02x", r, g, bl)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(sparklineBlocks[blockIdx])))
	}
	sb.WriteString(labelStyle.Render(" " + m.night.End.UTC().Format("15:04")))

	if !m.now.IsZero() {
		pt, _ := m.selected()
		alt := astro.CurrentElevation(m.snapshot.Plan.Site, pt.Target.RA, pt.Target.Dec, m.now)
		sb.WriteString(labelStyle.Render("  now: ") + RenderCurrentAltitude(alt))
	}

	return sb.String()
}

// interpolateAltColor returns RGB for altitude fraction t in [0, 1].
func interpolateAltColor(t float64) (uint8, uint8, uint8) {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	lo, hi := altColorLow, altColorMid
	s := t * 2
	if t >= 0.5 {
		lo, hi = altColorMid, altColorHigh
		s = (t - 0.5) * 2
	}
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-s) + float64(b)*s)
	}
	return mix(lo[0], hi[0]), mix(lo[1], hi[1]), mix(lo[2], hi[2])
}

// resampleAltitude averages samples into width buckets.
func resampleAltitude(samples []astro.AltitudeSample, width int) []float64 {
	if len(samples) == 0 || width <= 0 {
		return nil
	}

	result := make([]float64, width)
	perBucket := float64(len(samples)) / float64(width)

	for i := 0; i < width; i++ {
		start := int(float64(i) * perBucket)
		end := int(float64(i+1) * perBucket)
		if end <= start {
			end = start + 1
		}
		if end > len(samples) {
			end = len(samples)
			start = min(start, end-1)
		}

		sum := 0.0
		for j := start; j < end; j++ {
			sum += samples[j].Altitude
		}
		if n := end - start; n > 0 {
			result[i] = sum / float64(n)
		}
	}

	return result
}
