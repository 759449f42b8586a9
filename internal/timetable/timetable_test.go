package timetable

import (
	"errors"
	"testing"
	"time"
)

func TestExpandDates(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC) // a Monday

	t.Run("weekly patterns respect weekday selections", func(t *testing.T) {
		t.Parallel()

		dates, err := ExpandDates(Pattern{
			Frequency: FrequencyWeekly,
			Weekdays:  []time.Weekday{time.Tuesday, time.Thursday},
			From:      from,
			Until:     from.AddDate(0, 0, 13),
		})
		if err != nil {
			t.Fatalf("ExpandDates returned error: %v", err)
		}

		want := []string{"2026-09-08", "2026-09-10", "2026-09-15", "2026-09-17"}
		if len(dates) != len(want) {
			t.Fatalf("expected %d dates, got %v", len(want), dates)
		}
		for i, date := range want {
			if dates[i] != date {
				t.Fatalf("expected %s at position %d, got %s", date, i, dates[i])
			}
		}
	})

	t.Run("daily patterns include every day in the range", func(t *testing.T) {
		t.Parallel()

		dates, err := ExpandDates(Pattern{
			Frequency: FrequencyDaily,
			From:      from,
			Until:     from.AddDate(0, 0, 2),
		})
		if err != nil {
			t.Fatalf("ExpandDates returned error: %v", err)
		}
		if len(dates) != 3 || dates[0] != "2026-09-07" || dates[2] != "2026-09-09" {
			t.Fatalf("unexpected dates: %v", dates)
		}
	})

	t.Run("daily patterns can be narrowed by weekday", func(t *testing.T) {
		t.Parallel()

		dates, err := ExpandDates(Pattern{
			Frequency: FrequencyDaily,
			Weekdays:  []time.Weekday{time.Monday},
			From:      from,
			Until:     from.AddDate(0, 0, 8),
		})
		if err != nil {
			t.Fatalf("ExpandDates returned error: %v", err)
		}
		if len(dates) != 2 || dates[0] != "2026-09-07" || dates[1] != "2026-09-14" {
			t.Fatalf("unexpected dates: %v", dates)
		}
	})

	t.Run("weekly patterns without weekdays yield nothing", func(t *testing.T) {
		t.Parallel()

		dates, err := ExpandDates(Pattern{
			Frequency: FrequencyWeekly,
			From:      from,
			Until:     from.AddDate(0, 0, 7),
		})
		if err != nil {
			t.Fatalf("ExpandDates returned error: %v", err)
		}
		if len(dates) != 0 {
			t.Fatalf("expected no dates, got %v", dates)
		}
	})

	t.Run("rejects unspecified frequency", func(t *testing.T) {
		t.Parallel()

		_, err := ExpandDates(Pattern{From: from, Until: from})
		if !errors.Is(err, ErrInvalidFrequency) {
			t.Fatalf("expected ErrInvalidFrequency, got %v", err)
		}
	})

	t.Run("rejects inverted and unbounded ranges", func(t *testing.T) {
		t.Parallel()

		_, err := ExpandDates(Pattern{Frequency: FrequencyDaily, From: from, Until: from.AddDate(0, 0, -1)})
		if !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("expected ErrInvalidRange for inverted range, got %v", err)
		}

		_, err = ExpandDates(Pattern{Frequency: FrequencyDaily, From: from})
		if !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("expected ErrInvalidRange for missing end, got %v", err)
		}
	})

	t.Run("caps the expansion span", func(t *testing.T) {
		t.Parallel()

		_, err := ExpandDates(Pattern{
			Frequency: FrequencyDaily,
			From:      from,
			Until:     from.AddDate(1, 0, 0),
		})
		if !errors.Is(err, ErrRangeTooWide) {
			t.Fatalf("expected ErrRangeTooWide, got %v", err)
		}
	})
}

func TestParseWindow(t *testing.T) {
	t.Parallel()

	t.Run("parses valid windows", func(t *testing.T) {
		t.Parallel()

		window, err := ParseWindow("09:00", "09:45")
		if err != nil {
			t.Fatalf("ParseWindow returned error: %v", err)
		}
		if !window.Start.Before(window.End) {
			t.Fatalf("unexpected window: %+v", window)
		}
	})

	t.Run("rejects malformed times", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseWindow("9am", "10am"); !errors.Is(err, ErrInvalidTime) {
			t.Fatalf("expected ErrInvalidTime, got %v", err)
		}
	})

	t.Run("rejects empty and inverted windows", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseWindow("10:00", "10:00"); !errors.Is(err, ErrEmptyWindow) {
			t.Fatalf("expected ErrEmptyWindow for zero span, got %v", err)
		}
		if _, err := ParseWindow("11:00", "10:00"); !errors.Is(err, ErrEmptyWindow) {
			t.Fatalf("expected ErrEmptyWindow for inverted span, got %v", err)
		}
	})
}

func TestFindConflicts(t *testing.T) {
	t.Parallel()

	mustWindow := func(start, end string) Window {
		t.Helper()
		window, err := ParseWindow(start, end)
		if err != nil {
			t.Fatalf("ParseWindow(%s, %s): %v", start, end, err)
		}
		return window
	}

	t.Run("overlapping windows produce a conflict pair", func(t *testing.T) {
		t.Parallel()

		conflicts := FindConflicts([]Window{
			mustWindow("09:00", "10:00"),
			mustWindow("09:30", "10:30"),
			mustWindow("11:00", "12:00"),
		})
		if len(conflicts) != 1 {
			t.Fatalf("expected one conflict, got %v", conflicts)
		}
		if conflicts[0].First != 0 || conflicts[0].Second != 1 {
			t.Fatalf("unexpected conflict pair: %+v", conflicts[0])
		}
	})

	t.Run("back-to-back windows do not conflict", func(t *testing.T) {
		t.Parallel()

		conflicts := FindConflicts([]Window{
			mustWindow("09:00", "09:45"),
			mustWindow("09:45", "10:30"),
		})
		if len(conflicts) != 0 {
			t.Fatalf("expected no conflicts, got %v", conflicts)
		}
	})
}

func TestParseWeekday(t *testing.T) {
	t.Parallel()

	day, err := ParseWeekday(" Thursday ")
	if err != nil {
		t.Fatalf("ParseWeekday returned error: %v", err)
	}
	if day != time.Thursday {
		t.Fatalf("expected Thursday, got %v", day)
	}

	if _, err := ParseWeekday("someday"); err == nil {
		t.Fatal("expected error for unknown weekday")
	}
}
