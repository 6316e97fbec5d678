// Package booking holds the pure time-window logic the reservation engine is
// built on. Windows are half-open intervals [Start, End): two windows that
// merely touch at an endpoint do not overlap.
package booking

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWindow is returned when a window does not end strictly after it starts.
var ErrInvalidWindow = errors.New("booking: window end must be after start")

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow constructs a validated window.
func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: start, End: end}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// Validate reports whether the window is well formed. Zero bounds and
// inverted or empty ranges are rejected.
func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return ErrInvalidWindow
	}
	if !w.End.After(w.Start) {
		return ErrInvalidWindow
	}
	return nil
}

// Overlaps reports whether two half-open windows intersect. The comparison is
// strict: a window ending exactly when another begins is not an overlap.
func Overlaps(a, b Window) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// Conflicting reports whether the candidate window overlaps any existing
// window. An empty existing list never conflicts.
func Conflicting(existing []Window, candidate Window) bool {
	_, found := FirstConflict(existing, candidate)
	return found
}

// FirstConflict returns the first existing window overlapping the candidate,
// scanning in slice order. The boolean result reports whether one was found.
func FirstConflict(existing []Window, candidate Window) (Window, bool) {
	for _, w := range existing {
		if Overlaps(w, candidate) {
			return w, true
		}
	}
	return Window{}, false
}

// String renders the window for log and audit messages.
func (w Window) String() string {
	return fmt.Sprintf("%s - %s", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}
