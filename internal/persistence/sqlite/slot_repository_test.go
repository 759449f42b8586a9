package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/recruitd/internal/persistence"
)

func seedSlots(t *testing.T, pool *ConnectionPool, setupID string, slots ...persistence.InterviewSlot) {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	for i := range slots {
		slots[i].SetupID = setupID
		if slots[i].Status == "" {
			slots[i].Status = persistence.SlotAvailable
		}
		slots[i].CreatedAt = now
		slots[i].UpdatedAt = now
	}
	if err := NewSlotRepository(pool).CreateSlots(context.Background(), slots); err != nil {
		t.Fatalf("failed to seed slots: %v", err)
	}
}

func TestSlotRepository_ListSlots(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	repo := NewSlotRepository(pool)

	request := seedRequest(t, pool, "req-1")
	setup := seedSetup(t, pool, "setup-1", request.ID)

	seedSlots(t, pool, setup.ID,
		persistence.InterviewSlot{ID: "slot-early", SlotDate: "2026-09-02", StartTime: "14:00", EndTime: "15:00", RoundNumber: 1},
		persistence.InterviewSlot{ID: "slot-late", SlotDate: "2026-09-02", StartTime: "09:00", EndTime: "10:00", RoundNumber: 1},
		persistence.InterviewSlot{ID: "slot-past", SlotDate: "2026-08-20", StartTime: "09:00", EndTime: "10:00", RoundNumber: 1},
		persistence.InterviewSlot{ID: "slot-round2", SlotDate: "2026-09-03", StartTime: "09:00", EndTime: "10:00", RoundNumber: 2},
	)

	slots, err := repo.ListSlots(ctx, persistence.SlotFilter{
		SetupID:     setup.ID,
		Status:      persistence.SlotAvailable,
		RoundNumber: 1,
		DateFrom:    "2026-09-01",
	})
	if err != nil {
		t.Fatalf("ListSlots failed: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 upcoming round 1 slots, got %#v", slots)
	}
	// Soonest first: same date orders by start time.
	if slots[0].ID != "slot-late" || slots[1].ID != "slot-early" {
		t.Fatalf("unexpected slot order: %s, %s", slots[0].ID, slots[1].ID)
	}
}

func TestSlotRepository_BookSlot(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	repo := NewSlotRepository(pool)

	request := seedRequest(t, pool, "req-1")
	setup := seedSetup(t, pool, "setup-1", request.ID)
	first := seedCandidate(t, pool, "cand-1", request.ID, "interview")
	second := seedCandidate(t, pool, "cand-2", request.ID, "interview")

	seedSlots(t, pool, setup.ID,
		persistence.InterviewSlot{ID: "slot-1", SlotDate: "2026-09-02", StartTime: "09:00", EndTime: "10:00", RoundNumber: 1},
	)

	bookedAt := time.Now().UTC().Truncate(time.Second)
	if err := repo.BookSlot(ctx, "slot-1", first.ID, bookedAt); err != nil {
		t.Fatalf("BookSlot failed: %v", err)
	}

	slot, err := repo.GetSlot(ctx, "slot-1")
	if err != nil {
		t.Fatalf("GetSlot failed: %v", err)
	}
	if slot.Status != persistence.SlotBooked {
		t.Fatalf("expected booked status, got %q", slot.Status)
	}
	if slot.BookedByCandidateID == nil || *slot.BookedByCandidateID != first.ID {
		t.Fatalf("expected booking attributed to %s, got %#v", first.ID, slot.BookedByCandidateID)
	}
	if slot.BookedAt == nil || !slot.BookedAt.Equal(bookedAt) {
		t.Fatalf("expected booked_at persisted, got %#v", slot.BookedAt)
	}

	// The second attempt loses the guard and must not overwrite the winner.
	if err := repo.BookSlot(ctx, "slot-1", second.ID, bookedAt.Add(time.Second)); !errors.Is(err, persistence.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	slot, err = repo.GetSlot(ctx, "slot-1")
	if err != nil {
		t.Fatalf("GetSlot after losing attempt failed: %v", err)
	}
	if *slot.BookedByCandidateID != first.ID {
		t.Fatalf("losing attempt overwrote booking: %#v", slot)
	}

	if err := repo.BookSlot(ctx, "missing", first.ID, bookedAt); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing slot, got %v", err)
	}
}

func TestSlotRepository_BookSlot_Concurrent(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	repo := NewSlotRepository(pool)

	request := seedRequest(t, pool, "req-1")
	setup := seedSetup(t, pool, "setup-1", request.ID)

	const attempts = 8
	candidates := make([]persistence.Candidate, attempts)
	for i := range candidates {
		candidates[i] = seedCandidate(t, pool, "cand-"+string(rune('a'+i)), request.ID, "interview")
	}

	seedSlots(t, pool, setup.ID,
		persistence.InterviewSlot{ID: "slot-1", SlotDate: "2026-09-02", StartTime: "09:00", EndTime: "10:00", RoundNumber: 1},
	)

	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = repo.BookSlot(ctx, "slot-1", candidates[i].ID, time.Now().UTC())
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range results {
		switch {
		case err == nil:
			won++
		case errors.Is(err, persistence.ErrConflict):
			lost++
		default:
			t.Fatalf("unexpected booking error: %v", err)
		}
	}
	if won != 1 || lost != attempts-1 {
		t.Fatalf("expected exactly one winner, got %d winners and %d losers", won, lost)
	}
}

func TestSlotRepository_ConfirmSlot(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	repo := NewSlotRepository(pool)

	request := seedRequest(t, pool, "req-1")
	setup := seedSetup(t, pool, "setup-1", request.ID)
	candidate := seedCandidate(t, pool, "cand-1", request.ID, "interview")

	seedSlots(t, pool, setup.ID,
		persistence.InterviewSlot{ID: "slot-1", SlotDate: "2026-09-02", StartTime: "09:00", EndTime: "10:00", RoundNumber: 1},
	)
	if err := repo.BookSlot(ctx, "slot-1", candidate.ID, time.Now().UTC()); err != nil {
		t.Fatalf("BookSlot failed: %v", err)
	}

	confirmedAt := time.Now().UTC().Truncate(time.Second)
	if err := repo.ConfirmSlot(ctx, "slot-1", confirmedAt); err != nil {
		t.Fatalf("ConfirmSlot failed: %v", err)
	}

	slot, err := repo.GetSlot(ctx, "slot-1")
	if err != nil {
		t.Fatalf("GetSlot failed: %v", err)
	}
	if !slot.CandidateConfirmed || slot.CandidateConfirmedAt == nil || !slot.CandidateConfirmedAt.Equal(confirmedAt) {
		t.Fatalf("expected confirmation persisted, got %#v", slot)
	}

	// Repeat confirmation keeps the original timestamp.
	if err := repo.ConfirmSlot(ctx, "slot-1", confirmedAt.Add(time.Hour)); err != nil {
		t.Fatalf("repeat ConfirmSlot failed: %v", err)
	}
	slot, err = repo.GetSlot(ctx, "slot-1")
	if err != nil {
		t.Fatalf("GetSlot after repeat failed: %v", err)
	}
	if !slot.CandidateConfirmedAt.Equal(confirmedAt) {
		t.Fatalf("repeat confirmation moved timestamp: %#v", slot.CandidateConfirmedAt)
	}

	if err := repo.ConfirmSlot(ctx, "missing", confirmedAt); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
