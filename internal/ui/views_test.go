package ui

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-skyplan/internal/astro"
	"github.com/litescript/ls-skyplan/internal/state"
)

func TestRenderCoverageBar(t *testing.T) {
	tests := []struct {
		name       string
		frac       float64
		width      int
		wantFilled int
	}{
		{"empty", 0.0, 10, 0},
		{"full", 1.0, 10, 10},
		{"half", 0.5, 10, 5},
		{"quarter", 0.25, 8, 2},
		{"over 100%", 1.5, 10, 10},
		{"negative", -0.2, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := renderCoverageBar(tt.frac, tt.width)

			if !strings.HasPrefix(bar, "[") || !strings.HasSuffix(bar, "]") {
				t.Errorf("bar should have brackets, got %q", bar)
			}
			if got := strings.Count(bar, "█"); got != tt.wantFilled {
				t.Errorf("filled count = %d, want %d", got, tt.wantFilled)
			}
			if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != tt.width {
				t.Errorf("bar width = %d, want %d", got, tt.width)
			}
		})
	}
}

func TestTierToBar(t *testing.T) {
	tests := []struct {
		alt  float64
		want string
	}{
		{-5, "░░░░"},
		{10, "█░░░"},
		{30, "██░░"},
		{70, "████"},
	}
	for _, tt := range tests {
		if got := tierToBar(astro.GetElevationTier(tt.alt)); got != tt.want {
			t.Errorf("tierToBar(%v°) = %q, want %q", tt.alt, got, tt.want)
		}
	}
}

func TestMoonSeparationColor(t *testing.T) {
	tests := []struct {
		sep  float64
		want string
	}{
		{120, colorMoonFar},
		{60, colorMoonFar},
		{45, colorMoonNear},
		{10, colorMoonClose},
	}
	for _, tt := range tests {
		if got := moonSeparationColor(tt.sep); got != tt.want {
			t.Errorf("moonSeparationColor(%v) = %s, want %s", tt.sep, got, tt.want)
		}
	}
}

func TestRenderVisibilityPanel(t *testing.T) {
	rise := time.Date(2024, 10, 2, 18, 14, 0, 0, time.UTC)
	transit := rise.Add(6 * time.Hour)
	set := transit.Add(6 * time.Hour)

	tests := []struct {
		name string
		vis  astro.TargetVisibility
		want []string
	}{
		{
			name: "never rises",
			vis:  astro.TargetVisibility{NeverRises: true},
			want: []string{"Never rises", "Imaging none", "Dark none"},
		},
		{
			name: "circumpolar",
			vis:  astro.TargetVisibility{IsCircumpolar: true, Transit: &transit, TransitAltitude: 71},
			want: []string{"Circumpolar", "Transit 00:14 @ 71°"},
		},
		{
			name: "rise and set",
			vis: astro.TargetVisibility{
				Rise: &rise, Transit: &transit, Set: &set, TransitAltitude: 58,
				DarkWindow: &astro.Window{Start: rise.Add(2 * time.Hour), End: transit}, DarkHours: 4,
			},
			want: []string{"Rise 18:14", "Transit 00:14 @ 58°", "Set 06:14", "Dark 20:14-00:14 (4.0h)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderVisibilityPanel(tt.vis)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("panel missing %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestResampleAltitude(t *testing.T) {
	mk := func(alts ...float64) []astro.AltitudeSample {
		out := make([]astro.AltitudeSample, len(alts))
		for i, a := range alts {
			out[i] = astro.AltitudeSample{Altitude: a}
		}
		return out
	}

	if got := resampleAltitude(nil, 10); got != nil {
		t.Errorf("nil samples = %v, want nil", got)
	}

	// Fewer samples than buckets: every bucket still gets a value.
	got := resampleAltitude(mk(30, 30, 30), 6)
	for i, v := range got {
		if v != 30 {
			t.Errorf("bucket %d = %v, want 30", i, v)
		}
	}

	// More samples than buckets: buckets average.
	got = resampleAltitude(mk(10, 20, 30, 40), 2)
	if len(got) != 2 || math.Abs(got[0]-15) > 1e-9 || math.Abs(got[1]-35) > 1e-9 {
		t.Errorf("resample = %v, want [15 35]", got)
	}
}

func TestInterpolateAltColor(t *testing.T) {
	tests := []struct {
		t    float64
		want [3]uint8
	}{
		{0, altColorLow},
		{-1, altColorLow},
		{0.5, altColorMid},
		{1, altColorHigh},
		{2, altColorHigh},
	}
	for _, tt := range tests {
		r, g, b := interpolateAltColor(tt.t)
		if got := [3]uint8{r, g, b}; got != tt.want {
			t.Errorf("interpolateAltColor(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestTargetDetail_StepWraps(t *testing.T) {
	m, st := newTestModel(t, "M31", "M42", "M45")
	m = planned(t, m)

	rec, _ := st.Plan()
	ids := make([]string, len(rec.Plan.Targets))
	for i, pt := range rec.Plan.Targets {
		ids[i] = pt.Target.ID
	}

	d := m.detail
	if d.SelectedID() != ids[0] {
		t.Fatalf("initial selection = %q, want %q", d.SelectedID(), ids[0])
	}
	d, _ = d.Update(key("left"))
	if d.SelectedID() != ids[len(ids)-1] {
		t.Errorf("left from first = %q, want %q", d.SelectedID(), ids[len(ids)-1])
	}
	d, _ = d.Update(key("right"))
	if d.SelectedID() != ids[0] {
		t.Errorf("right wraps back = %q, want %q", d.SelectedID(), ids[0])
	}
	if len(d.trace) == 0 {
		t.Error("expected an altitude trace for the selected target")
	}
	if !strings.Contains(d.View(), "now:") {
		t.Error("detail view should mark the current altitude")
	}
}

func TestPlanView_CursorClamped(t *testing.T) {
	m, _ := newTestModel(t, "M31", "M42")
	m = planned(t, m)

	p := m.plan
	for i := 0; i < 5; i++ {
		p, _ = p.Update(key("down"))
	}
	if p.cursor != 1 {
		t.Errorf("cursor = %d, want 1", p.cursor)
	}

	p = p.UpdateData(state.Snapshot{})
	if p.cursor != 0 {
		t.Errorf("cursor after empty snapshot = %d, want 0", p.cursor)
	}
	if _, ok := p.SelectedID(); ok {
		t.Error("SelectedID should fail without a plan")
	}
}
