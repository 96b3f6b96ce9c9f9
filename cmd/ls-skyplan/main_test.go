package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-skyplan/internal/astro"
	"github.com/litescript/ls-skyplan/internal/catalog"
	"github.com/litescript/ls-skyplan/internal/config"
	"github.com/litescript/ls-skyplan/internal/feasibility"
	"github.com/litescript/ls-skyplan/internal/logging"
	"github.com/litescript/ls-skyplan/internal/state"
)

var madrid = astro.Observer{LatDeg: 40.4314, LonDeg: -4.2481, Name: "Madrid"}

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 10, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      string
		obs     astro.Observer
		want    time.Time
		wantErr bool
	}{
		{"empty is now", "", madrid, now, false},
		{"rfc3339", "2024-10-05T21:30:00Z", madrid, time.Date(2024, 10, 5, 21, 30, 0, 0, time.UTC), false},
		{"date at greenwich", "2024-10-05", astro.Observer{}, time.Date(2024, 10, 5, 18, 0, 0, 0, time.UTC), false},
		{"date east", "2024-10-05", astro.Observer{LonDeg: 90}, time.Date(2024, 10, 5, 12, 0, 0, 0, time.UTC), false},
		{"garbage", "next tuesday", madrid, time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.in, tt.obs, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("parseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveTargets(t *testing.T) {
	cat := catalog.Builtin()
	file := []catalog.Target{{ID: "X1", RA: 10, Dec: 10}}

	got, err := resolveTargets(cat, []string{"M31", "m42"}, file)
	if err != nil {
		t.Fatalf("resolveTargets: %v", err)
	}
	if len(got) != 2 || got[0].ID != "M31" || got[1].ID != "M42" {
		t.Errorf("got %v", got)
	}

	got, err = resolveTargets(cat, nil, file)
	if err != nil || len(got) != 1 || got[0].ID != "X1" {
		t.Errorf("file targets: got %v, %v", got, err)
	}

	if _, err := resolveTargets(cat, nil, nil); !errors.Is(err, errNoTargets) {
		t.Errorf("err = %v, want errNoTargets", err)
	}
	if _, err := resolveTargets(cat, []string{"NOPE"}, nil); !errors.Is(err, catalog.ErrUnknownTarget) {
		t.Errorf("err = %v, want ErrUnknownTarget", err)
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.toml")
	doc := `
[[target]]
id = "M31"
name = "My Andromeda"
ra = "00:42:44.3"
dec = "+41:16:09"

[[target]]
id = "CUSTOM1"
ra = "120.5"
dec = "-10"

[[target]]
id = "BAD"
ra = "400"
dec = "0"
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	cat, fileTargets, err := loadCatalog(path, logging.Discard())
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}
	if len(fileTargets) != 2 {
		t.Fatalf("file targets = %d, want 2", len(fileTargets))
	}
	if _, err := cat.Get("CUSTOM1"); err != nil {
		t.Errorf("CUSTOM1 not merged: %v", err)
	}
	m31, _ := cat.Get("M31")
	if m31.Name != "Andromeda Galaxy" {
		t.Errorf("built-in M31 replaced: %q", m31.Name)
	}

	if _, _, err := loadCatalog(filepath.Join(t.TempDir(), "missing.toml"), logging.Discard()); err == nil {
		t.Error("expected error for missing file")
	}
}

func newHeadless(t *testing.T, ids ...string) (headlessRun, *bytes.Buffer) {
	t.Helper()
	cat := catalog.Builtin()
	targets, err := cat.Lookup(ids...)
	if err != nil {
		t.Fatal(err)
	}

	at := time.Date(2024, 10, 2, 22, 0, 0, 0, time.UTC)
	cfg := config.DefaultConfig()
	st := state.NewManager(state.Config{Site: madrid, MinAltitude: cfg.MinAltitude, Clock: astro.FixedClock(at)})
	for _, tg := range targets {
		if err := st.AddTarget(tg); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	return headlessRun{
		out:     &buf,
		cfg:     cfg,
		obs:     madrid,
		at:      at,
		cat:     cat,
		targets: targets,
		state:   st,
		log:     logging.Discard(),
	}, &buf
}

func TestHeadlessRun_Reports(t *testing.T) {
	h, buf := newHeadless(t, "M31", "M45", "M27")
	h.visibilityID = "M31"
	h.rank = true
	h.plan = true
	h.optimize = true

	if err := h.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Andromeda Galaxy",
		"Target ranking @ 2024-10-02T22:00:00Z",
		"Session plan for",
		"Slew order",
		"Estimated slew time",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if !h.state.HasPlan() {
		t.Error("plan mode should store the plan in the session")
	}
}

func TestHeadlessRun_JSONStdout(t *testing.T) {
	h, buf := newHeadless(t, "M31", "M42")
	h.jsonPath = "-"

	if err := h.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if id, _ := doc["plan_id"].(string); id == "" {
		t.Error("plan_id missing")
	}
	if targets, _ := doc["targets"].([]any); len(targets) != 2 {
		t.Errorf("targets = %v", doc["targets"])
	}
}

func TestHeadlessRun_JSONFile(t *testing.T) {
	h, _ := newHeadless(t, "M31")
	h.jsonPath = filepath.Join(t.TempDir(), "plan.json")

	if err := h.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(h.jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Errorf("invalid JSON in %s", h.jsonPath)
	}
}

func TestHeadlessRun_NoTargets(t *testing.T) {
	h, _ := newHeadless(t)
	h.plan = true
	if err := h.run(context.Background()); !errors.Is(err, errNoTargets) {
		t.Errorf("err = %v, want errNoTargets", err)
	}

	// Visibility alone needs no session targets.
	h, buf := newHeadless(t)
	h.visibilityID = "VEGA"
	if err := h.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(buf.String(), "Vega") {
		t.Error("visibility report missing target name")
	}
}

func TestHeadlessRun_SkyReports(t *testing.T) {
	h, buf := newHeadless(t, "M31")
	h.cfg.Camera = config.Camera{SensorWidth: 23.5, SensorHeight: 15.6, FocalLength: 480, PixelSize: 3.76, Aperture: 80}
	h.fov = true
	h.mosaic = "2x3"
	h.overlap = feasibility.DefaultMosaicOverlap
	h.moonMonth = "2024-10"
	h.tonight = true

	if err := h.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Field of view: 23.5x15.6 mm sensor at 480 mm",
		"2x3 (6 panels, 20% overlap)",
		"Moon phases, October 2024",
		"Tonight @ 2024-10-02T22:00:00Z",
		"Best tonight: M31",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if h.state.HasPlan() {
		t.Error("sky reports should not compute a plan")
	}
}

func TestHeadlessRun_SkyReportErrors(t *testing.T) {
	h, _ := newHeadless(t)
	h.fov = true
	if err := h.run(context.Background()); !errors.Is(err, errNoCamera) {
		t.Errorf("err = %v, want errNoCamera", err)
	}

	h.cfg.Camera = config.Camera{SensorWidth: 36, SensorHeight: 24, FocalLength: 50}
	h.mosaic = "2by3"
	if err := h.run(context.Background()); !errors.Is(err, feasibility.ErrInvalidOptics) {
		t.Errorf("err = %v, want ErrInvalidOptics", err)
	}

	h, _ = newHeadless(t)
	h.moonMonth = "October"
	if err := h.run(context.Background()); err == nil {
		t.Error("expected an error for a malformed month")
	}
}
