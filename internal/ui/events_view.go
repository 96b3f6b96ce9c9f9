package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-skyplan/internal/state"
)

// EventsViewModel lists recent session events, newest first.
type EventsViewModel struct {
	width  int
	height int
	offset int
	events []state.Event
}

// NewEventsViewModel creates an empty events view.
func NewEventsViewModel() EventsViewModel {
	return EventsViewModel{}
}

// SetSize updates the view dimensions.
func (m EventsViewModel) SetSize(width, height int) EventsViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData replaces the event list.
func (m EventsViewModel) UpdateData(snapshot state.Snapshot) EventsViewModel {
	m.events = snapshot.Events
	if m.offset >= len(m.events) {
		m.offset = max(len(m.events)-1, 0)
	}
	return m
}

// Update scrolls the list.
func (m EventsViewModel) Update(msg tea.Msg) (EventsViewModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "down", "j":
			if m.offset < len(m.events)-1 {
				m.offset++
			}
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		case "home":
			m.offset = 0
		}
	}
	return m, nil
}

// View renders the visible slice of events.
func (m EventsViewModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Session Events"))
	b.WriteString("\n\n")

	if len(m.events) == 0 {
		b.WriteString(dimStyle.Render("No events yet"))
		return b.String()
	}

	rows := m.height - 3
	if rows <= 0 {
		rows = len(m.events)
	}

	shown := 0
	for i := len(m.events) - 1 - m.offset; i >= 0 && shown < rows; i-- {
		e := m.events[i]
		subject := e.TargetID
		if subject == "" && e.PlanID != "" {
			subject = shortID(e.PlanID)
		}
		line := fmt.Sprintf("%s  %-16s %-10s %s",
			e.Timestamp.UTC().Format("15:04:05"), e.Type, subject, e.Detail)
		b.WriteString(rowStyle.Render(strings.TrimRight(line, " ")))
		b.WriteString("\n")
		shown++
	}
	return b.String()
}
