// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-skyplan/internal/astro"
	"github.com/litescript/ls-skyplan/internal/state"
	"github.com/litescript/ls-skyplan/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewPlan ViewMode = iota
	ViewTarget
	ViewEvents
)

const viewCount = 3

// Msg types for Bubble Tea
type (
	// TickMsg triggers a periodic replan.
	TickMsg time.Time

	// PlanUpdatedMsg signals the session plan was recomputed.
	PlanUpdatedMsg struct {
		Record state.PlanRecord
	}

	// ErrorMsg signals a failure to report in the footer.
	ErrorMsg struct {
		Error error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	state *state.Manager
	clock astro.Clock

	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	lastErr   error

	plan   PlanViewModel
	detail TargetDetailModel
	events EventsViewModel

	snapshot state.Snapshot
}

// New creates a new root UI model. A nil clock uses the system clock.
func New(stateMgr *state.Manager, clock astro.Clock) Model {
	if clock == nil {
		clock = astro.SystemClock{}
	}
	return Model{
		state:    stateMgr,
		clock:    clock,
		viewMode: ViewPlan,
		plan:     NewPlanViewModel(),
		detail:   NewTargetDetailModel().SetNow(clock.Now()),
		events:   NewEventsViewModel(),
		snapshot: stateMgr.Snapshot(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		replanCmd(m.state),
		tickCmd(m.state.RefreshInterval()),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "p":
			m.viewMode = ViewPlan
		case "2", "t":
			m.openSelected()
		case "3", "e":
			m.viewMode = ViewEvents

		case "tab":
			m.viewMode = (m.viewMode + 1) % viewCount

		case "enter":
			if m.viewMode == ViewPlan {
				m.openSelected()
			} else {
				cmds = append(cmds, m.updateActiveView(msg))
			}

		case "r":
			m.statusMsg = "Replanning..."
			cmds = append(cmds, replanCmd(m.state))

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Header takes 4 lines, footer 2
		contentHeight := msg.Height - 6
		m.plan = m.plan.SetSize(msg.Width, contentHeight)
		m.detail = m.detail.SetSize(msg.Width, contentHeight)
		m.events = m.events.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd(m.state.RefreshInterval()), replanCmd(m.state))
		m.detail = m.detail.SetNow(time.Time(msg))

	case PlanUpdatedMsg:
		m.lastErr = nil
		m.snapshot = m.state.Snapshot()
		m.plan = m.plan.UpdateData(m.snapshot)
		m.detail = m.detail.UpdateData(m.snapshot)
		m.events = m.events.UpdateData(m.snapshot)
		m.statusMsg = fmt.Sprintf("Plan %s: %d targets, %.1fh imaging",
			shortID(msg.Record.ID), len(msg.Record.Plan.Targets), msg.Record.Plan.TotalImagingTime)

	case ErrorMsg:
		m.lastErr = msg.Error

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

// openSelected switches to the target view focused on the plan's cursor.
func (m *Model) openSelected() {
	if id, ok := m.plan.SelectedID(); ok {
		m.detail = m.detail.Select(id)
	}
	m.viewMode = ViewTarget
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewPlan:
		m.plan, cmd = m.plan.Update(msg)
	case ViewTarget:
		m.detail, cmd = m.detail.Update(msg)
	case ViewEvents:
		m.events, cmd = m.events.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewPlan:
		content = m.plan.View()
	case ViewTarget:
		content = m.detail.View()
	case ViewEvents:
		content = m.events.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString(renderTitle("ls-skyplan"))

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	site := m.snapshot.Site
	name := site.Name
	if name == "" {
		name = "site"
	}
	b.WriteString(muted.Render(fmt.Sprintf("  v%s · %s %s · min alt %.0f°",
		version.Version, name, formatLatLon(site), m.snapshot.MinAltitude)))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	return b.String()
}

// renderTitle draws text with a horizontal truecolor gradient.
func renderTitle(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.WriteString("  ")
	for i, r := range runes {
		color := gradientColor(i, len(runes))
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(string(r)))
	}
	b.WriteString("\n")
	return b.String()
}

// gradientStops run from deep blue through violet to a pale cyan.
var gradientStops = [][3]float64{
	{0x3B, 0x82, 0xF6},
	{0x8B, 0x5C, 0xF6},
	{0x8B, 0xE9, 0xFF},
}

// gradientColor returns a hex color for position col of width.
func gradientColor(col, width int) string {
	if width <= 1 {
		c := gradientStops[0]
		return fmt.Sprintf("#%02X%02X%02X", int(c[0]), int(c[1]), int(c[2]))
	}
	x := float64(col) / float64(width-1)
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}

	seg := x * float64(len(gradientStops)-1)
	i := int(seg)
	if i >= len(gradientStops)-1 {
		i = len(gradientStops) - 2
	}
	t := seg - float64(i)
	a, c := gradientStops[i], gradientStops[i+1]

	r := a[0] + t*(c[0]-a[0])
	g := a[1] + t*(c[1]-a[1])
	bl := a[2] + t*(c[2]-a[2])
	return fmt.Sprintf("#%02X%02X%02X", int(r), int(g), int(bl))
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Plan", "[2] Target", "[3] Events"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))

	var status string
	switch {
	case m.lastErr != nil:
		status = errStyle.Render("ERROR: " + m.lastErr.Error())
	case m.statusMsg != "":
		status = dimStyle.Render(m.statusMsg)
	default:
		status = dimStyle.Render("No plan yet")
	}

	help := dimStyle.Render("tab: switch view · ↑/↓: select · enter: details · r: replan · q: quit")
	return "  " + status + "\n  " + help
}

func formatLatLon(obs astro.Observer) string {
	ns, ew := "N", "E"
	lat, lon := obs.LatDeg, obs.LonDeg
	if lat < 0 {
		ns, lat = "S", -lat
	}
	if lon < 0 {
		ew, lon = "W", -lon
	}
	return fmt.Sprintf("%.2f°%s %.2f°%s", lat, ns, lon, ew)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func tickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = time.Minute
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// replanCmd recomputes the session plan off the UI goroutine.
func replanCmd(st *state.Manager) tea.Cmd {
	return func() tea.Msg {
		return PlanUpdatedMsg{Record: st.Replan(time.Time{})}
	}
}
