package timetable

import (
	"errors"
	"fmt"
	"time"
)

// Frequency represents supported repeat intervals for slot generation.
type Frequency int

const (
	// FrequencyUnspecified indicates the pattern frequency is not set.
	FrequencyUnspecified Frequency = iota
	// FrequencyDaily yields every day within the range.
	FrequencyDaily
	// FrequencyWeekly yields only the selected weekdays within the range.
	FrequencyWeekly
)

// Pattern describes a repeating set of calendar dates.
type Pattern struct {
	Frequency Frequency
	Weekdays  []time.Weekday
	From      time.Time
	Until     time.Time
}

// ErrInvalidFrequency indicates the pattern frequency is not supported.
var ErrInvalidFrequency = errors.New("timetable: invalid frequency")

// ErrInvalidRange indicates the expansion range is unbounded or inverted.
var ErrInvalidRange = errors.New("timetable: range start must not be after end")

// ErrRangeTooWide indicates the expansion range exceeds the supported span.
var ErrRangeTooWide = errors.New("timetable: range exceeds the maximum span")

// maxSpanDays bounds expansion so a mistyped year cannot flood the slot
// table.
const maxSpanDays = 92

// ExpandDates expands a pattern into "2006-01-02" dates, inclusive of both
// range bounds.
//
// Weekly patterns require at least one weekday and include only matching
// days. Daily patterns include every day, narrowed to the selected weekdays
// when any are given.
func ExpandDates(pattern Pattern) ([]string, error) {
	if pattern.From.IsZero() || pattern.Until.IsZero() || pattern.From.After(pattern.Until) {
		return nil, ErrInvalidRange
	}

	from := truncateToDay(pattern.From)
	until := truncateToDay(pattern.Until)
	if until.Sub(from) > maxSpanDays*24*time.Hour {
		return nil, fmt.Errorf("%w: %d days", ErrRangeTooWide, maxSpanDays)
	}

	weekdaySet := make(map[time.Weekday]struct{}, len(pattern.Weekdays))
	for _, day := range pattern.Weekdays {
		weekdaySet[day] = struct{}{}
	}

	var dates []string
	for current := from; !current.After(until); current = current.AddDate(0, 0, 1) {
		include, err := shouldInclude(pattern.Frequency, weekdaySet, current.Weekday())
		if err != nil {
			return nil, err
		}
		if include {
			dates = append(dates, current.Format("2006-01-02"))
		}
	}
	return dates, nil
}

func truncateToDay(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func shouldInclude(freq Frequency, weekdaySet map[time.Weekday]struct{}, day time.Weekday) (bool, error) {
	switch freq {
	case FrequencyDaily:
		if len(weekdaySet) == 0 {
			return true, nil
		}
		_, ok := weekdaySet[day]
		return ok, nil
	case FrequencyWeekly:
		if len(weekdaySet) == 0 {
			return false, nil
		}
		_, ok := weekdaySet[day]
		return ok, nil
	case FrequencyUnspecified:
		fallthrough
	default:
		return false, ErrInvalidFrequency
	}
}
