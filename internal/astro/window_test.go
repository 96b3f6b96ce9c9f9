package astro

import (
	"testing"
	"time"
)

func TestWindowIntersect(t *testing.T) {
	base := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	at := func(h float64) time.Time { return base.Add(time.Duration(h * float64(time.Hour))) }

	tests := []struct {
		name   string
		a, b   Window
		wantOK bool
		want   Window
	}{
		{"overlap", Window{at(0), at(4)}, Window{at(2), at(6)}, true, Window{at(2), at(4)}},
		{"contained", Window{at(0), at(10)}, Window{at(3), at(5)}, true, Window{at(3), at(5)}},
		{"disjoint", Window{at(0), at(1)}, Window{at(2), at(3)}, false, Window{}},
		{"touching", Window{at(0), at(2)}, Window{at(2), at(3)}, false, Window{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Intersect(tt.b)
			if ok != tt.wantOK {
				t.Fatalf("Intersect() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (!got.Start.Equal(tt.want.Start) || !got.End.Equal(tt.want.End)) {
				t.Errorf("Intersect() = %v, want %v", got, tt.want)
			}
			if back, _ := tt.b.Intersect(tt.a); ok && back != got {
				t.Errorf("Intersect not symmetric: %v vs %v", got, back)
			}
		})
	}
}

func TestWindowDuration(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	w := Window{Start: start, End: start.Add(90 * time.Minute)}

	if w.Hours() != 1.5 {
		t.Errorf("Hours() = %v, want 1.5", w.Hours())
	}
	if !w.Contains(start) || !w.Contains(w.End) || w.Contains(start.Add(-time.Second)) {
		t.Error("Contains() should be inclusive of both ends only")
	}

	inverted := Window{Start: w.End, End: w.Start}
	if inverted.Duration() != 0 {
		t.Errorf("inverted Duration() = %v, want 0", inverted.Duration())
	}
	if got := w.Overlap(Window{Start: start.Add(time.Hour), End: start.Add(3 * time.Hour)}); got != 30*time.Minute {
		t.Errorf("Overlap() = %v, want 30m", got)
	}
}
