package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNextNumber(t *testing.T) {
	t.Run("formats prefix, day, and sequence", func(t *testing.T) {
		counter := func(ctx context.Context, prefix string) (int, error) {
			if prefix != "RRF-20260901-" {
				t.Fatalf("unexpected counter prefix: %q", prefix)
			}
			return 7, nil
		}

		number, err := nextNumber(context.Background(), counter, NumberPrefixRequest, testTime)
		if err != nil {
			t.Fatalf("nextNumber failed: %v", err)
		}
		if number != "RRF-20260901-0008" {
			t.Fatalf("unexpected number: %q", number)
		}
	})

	t.Run("uses the UTC day", func(t *testing.T) {
		late := time.Date(2026, 9, 1, 23, 30, 0, 0, time.FixedZone("UTC+3", 3*60*60))
		counter := func(ctx context.Context, prefix string) (int, error) {
			if prefix != "CAN-20260901-" {
				t.Fatalf("unexpected counter prefix: %q", prefix)
			}
			return 0, nil
		}

		number, err := nextNumber(context.Background(), counter, NumberPrefixCandidate, late)
		if err != nil {
			t.Fatalf("nextNumber failed: %v", err)
		}
		if number != "CAN-20260901-0001" {
			t.Fatalf("unexpected number: %q", number)
		}
	})

	t.Run("propagates counter failures", func(t *testing.T) {
		boom := errors.New("count failed")
		counter := func(ctx context.Context, prefix string) (int, error) {
			return 0, boom
		}

		_, err := nextNumber(context.Background(), counter, NumberPrefixInterview, testTime)
		if !errors.Is(err, boom) {
			t.Fatalf("expected wrapped counter error, got %v", err)
		}
	})
}
