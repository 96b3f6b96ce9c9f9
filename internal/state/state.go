// Package state provides thread-safe session state for the planner.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/litescript/ls-skyplan/internal/astro"
	"github.com/litescript/ls-skyplan/internal/catalog"
	"github.com/litescript/ls-skyplan/internal/planner"
)

// EventType represents the type of session change event.
type EventType string

const (
	EventTargetAdded   EventType = "TARGET_ADDED"
	EventTargetRemoved EventType = "TARGET_REMOVED"
	EventTargetsClear  EventType = "TARGETS_CLEARED"
	EventSiteChanged   EventType = "SITE_CHANGED"
	EventPlanComputed  EventType = "PLAN_COMPUTED"
)

// Event represents a change to the session.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	TargetID  string    `json:"target_id,omitempty"`
	PlanID    string    `json:"plan_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// PlanRecord is a computed plan together with the inputs that produced it.
type PlanRecord struct {
	ID          string                  `json:"plan_id"`
	GeneratedAt time.Time               `json:"generated_at"`
	For         time.Time               `json:"for"`
	Site        astro.Observer          `json:"site"`
	MinAltitude float64                 `json:"min_altitude"`
	Duration    time.Duration           `json:"-"`
	Plan        planner.MultiTargetPlan `json:"plan"`
}

// HistoryEntry summarises one computed plan.
type HistoryEntry struct {
	Timestamp        time.Time
	PlanID           string
	Targets          int
	TotalImagingTime float64
	NightCoverage    float64
}

// Manager handles session state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	clock       astro.Clock
	site        astro.Observer
	minAltitude float64
	targets     *catalog.Catalog

	// Last computed plan; nil until Replan succeeds
	plan *PlanRecord

	history       []HistoryEntry
	maxHistoryLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	refreshInterval time.Duration
}

// Config holds configuration for the session manager.
type Config struct {
	Site            astro.Observer
	MinAltitude     float64
	MaxHistoryLen   int
	MaxEvents       int
	RefreshInterval time.Duration
	Clock           astro.Clock
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MinAltitude:     astro.DefaultMinAltitude,
		MaxHistoryLen:   30,
		MaxEvents:       50,
		RefreshInterval: time.Minute,
		Clock:           astro.SystemClock{},
	}
}

// NewManager creates a new session manager with an empty target list.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	clock := cfg.Clock
	if clock == nil {
		clock = astro.SystemClock{}
	}
	targets, _ := catalog.New()
	return &Manager{
		clock:           clock,
		site:            cfg.Site,
		minAltitude:     cfg.MinAltitude,
		targets:         targets,
		maxHistoryLen:   cfg.MaxHistoryLen,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
	}
}

// SetSite replaces the observing site.
func (m *Manager) SetSite(obs astro.Observer) error {
	if err := obs.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.site = obs
	m.addEvent(Event{
		Type:      EventSiteChanged,
		Timestamp: m.clock.Now(),
		Detail:    fmt.Sprintf("%.4f, %.4f", obs.LatDeg, obs.LonDeg),
	})
	return nil
}

// Site returns the current observing site.
func (m *Manager) Site() astro.Observer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.site
}

// SetMinAltitude changes the altitude limit used for planning.
func (m *Manager) SetMinAltitude(deg float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.minAltitude = deg
}

// MinAltitude returns the altitude limit used for planning.
func (m *Manager) MinAltitude() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.minAltitude
}

// AddTarget appends a target to the session.
func (m *Manager) AddTarget(t catalog.Target) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.targets.Add(t); err != nil {
		return err
	}
	m.addEvent(Event{
		Type:      EventTargetAdded,
		Timestamp: m.clock.Now(),
		TargetID:  t.ID,
		Detail:    t.DisplayName(),
	})
	return nil
}

// RemoveTarget drops a target from the session.
func (m *Manager) RemoveTarget(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.targets.Get(id)
	if err != nil {
		return err
	}
	if err := m.targets.Remove(id); err != nil {
		return err
	}
	m.addEvent(Event{
		Type:      EventTargetRemoved,
		Timestamp: m.clock.Now(),
		TargetID:  t.ID,
	})
	return nil
}

// ClearTargets empties the session target list.
func (m *Manager) ClearTargets() {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.targets.Len()
	m.targets, _ = catalog.New()
	m.addEvent(Event{
		Type:      EventTargetsClear,
		Timestamp: m.clock.Now(),
		Detail:    fmt.Sprintf("%d removed", n),
	})
}

// Targets returns a copy of the session targets in insertion order.
func (m *Manager) Targets() []catalog.Target {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.targets.All()
}

// Replan computes a plan for the night containing t (the clock's time when t
// is zero) and stores it as the current plan.
func (m *Manager) Replan(t time.Time) PlanRecord {
	m.mu.RLock()
	site, minAlt := m.site, m.minAltitude
	targets := m.targets.All()
	m.mu.RUnlock()

	if t.IsZero() {
		t = m.clock.Now()
	}

	rec := NewPlanRecord(targets, site, minAlt, t, m.clock.Now())
	plan := rec.Plan

	m.mu.Lock()
	defer m.mu.Unlock()

	m.plan = &rec
	m.history = append(m.history, HistoryEntry{
		Timestamp:        rec.GeneratedAt,
		PlanID:           rec.ID,
		Targets:          len(plan.Targets),
		TotalImagingTime: plan.TotalImagingTime,
		NightCoverage:    plan.NightCoverage,
	})
	if m.maxHistoryLen > 0 && len(m.history) > m.maxHistoryLen {
		m.history = m.history[1:]
	}
	m.addEvent(Event{
		Type:      EventPlanComputed,
		Timestamp: rec.GeneratedAt,
		PlanID:    rec.ID,
		Detail:    fmt.Sprintf("%d targets, %.1fh", len(plan.Targets), plan.TotalImagingTime),
	})
	return rec
}

// NewPlanRecord plans targets for the night containing t and stamps the
// result with a fresh plan ID.
func NewPlanRecord(targets []catalog.Target, site astro.Observer, minAltitude float64, t, generatedAt time.Time) PlanRecord {
	start := time.Now()
	plan := planner.PlanMultipleTargets(targets, site, minAltitude, t)
	return PlanRecord{
		ID:          uuid.NewString(),
		GeneratedAt: generatedAt,
		For:         t,
		Site:        site,
		MinAltitude: minAltitude,
		Duration:    time.Since(start),
		Plan:        plan,
	}
}

// Plan returns the last computed plan.
func (m *Manager) Plan() (PlanRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.plan == nil {
		return PlanRecord{}, false
	}
	return *m.plan, true
}

// HasPlan returns true once a plan has been computed.
func (m *Manager) HasPlan() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.plan != nil
}

// History returns summaries of recent plans, oldest first.
func (m *Manager) History() []HistoryEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]HistoryEntry, len(m.history))
	copy(out, m.history)
	return out
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of session state.
type Snapshot struct {
	Site        astro.Observer
	MinAltitude float64
	Targets     []catalog.Target
	Plan        *PlanRecord
	Events      []Event
}

// Snapshot returns a consistent snapshot of session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var plan *PlanRecord
	if m.plan != nil {
		p := *m.plan
		plan = &p
	}

	return Snapshot{
		Site:        m.site,
		MinAltitude: m.minAltitude,
		Targets:     m.targets.All(),
		Plan:        plan,
		Events:      m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// RefreshInterval returns how often the plan viewer replans.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}
