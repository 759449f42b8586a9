package timetable

import (
	"testing"
	"time"
)

func BenchmarkExpandDates(b *testing.B) {
	pattern := Pattern{
		Frequency: FrequencyWeekly,
		Weekdays:  []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		From:      time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC),
		Until:     time.Date(2026, time.December, 4, 0, 0, 0, 0, time.UTC),
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ExpandDates(pattern); err != nil {
			b.Fatalf("ExpandDates returned error: %v", err)
		}
	}
}
