package astro

import (
	"time"
)

// Window is a closed time interval.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the window length, or zero for an inverted window.
func (w Window) Duration() time.Duration {
	if w.End.Before(w.Start) {
		return 0
	}
	return w.End.Sub(w.Start)
}

// Hours returns the window length in hours.
func (w Window) Hours() float64 {
	return w.Duration().Hours()
}

// Contains reports whether t lies within the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Intersect returns the overlap of two windows. The second result is false
// when they do not overlap for a positive duration.
func (w Window) Intersect(o Window) (Window, bool) {
	start := w.Start
	if o.Start.After(start) {
		start = o.Start
	}
	end := w.End
	if o.End.Before(end) {
		end = o.End
	}
	if !end.After(start) {
		return Window{}, false
	}
	return Window{Start: start, End: end}, true
}

// Overlap returns how long two windows overlap.
func (w Window) Overlap(o Window) time.Duration {
	iw, ok := w.Intersect(o)
	if !ok {
		return 0
	}
	return iw.Duration()
}
