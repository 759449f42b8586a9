package timetable

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTime indicates a wall-clock value is not in HH:MM form.
var ErrInvalidTime = errors.New("timetable: invalid time, expected HH:MM")

// ErrEmptyWindow indicates a window whose start does not precede its end.
var ErrEmptyWindow = errors.New("timetable: window start must be before end")

// Window is one wall-clock interval within a single day. The end is
// exclusive, so back-to-back windows do not overlap.
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseWindow parses "15:04" start and end values into a Window.
func ParseWindow(start, end string) (Window, error) {
	startTime, err := time.Parse("15:04", start)
	if err != nil {
		return Window{}, fmt.Errorf("%w: %q", ErrInvalidTime, start)
	}
	endTime, err := time.Parse("15:04", end)
	if err != nil {
		return Window{}, fmt.Errorf("%w: %q", ErrInvalidTime, end)
	}
	window := Window{Start: startTime, End: endTime}
	if !window.Start.Before(window.End) {
		return Window{}, ErrEmptyWindow
	}
	return window, nil
}

// Overlaps reports whether two windows share any instant.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// Conflict identifies a pair of overlapping windows by their positions in
// the input slice.
type Conflict struct {
	First  int
	Second int
}

// FindConflicts returns every overlapping pair among the given windows.
func FindConflicts(windows []Window) []Conflict {
	var conflicts []Conflict
	for i := 0; i < len(windows); i++ {
		for j := i + 1; j < len(windows); j++ {
			if windows[i].Overlaps(windows[j]) {
				conflicts = append(conflicts, Conflict{First: i, Second: j})
			}
		}
	}
	return conflicts
}

// ParseWeekday maps a lowercase English weekday name to time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	}
	return 0, fmt.Errorf("timetable: unknown weekday %q", name)
}
