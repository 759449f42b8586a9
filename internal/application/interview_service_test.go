package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/recruitd/internal/persistence"
)

type setupRepoStub struct {
	setups    map[string]persistence.InterviewSetup
	createErr error
}

func newSetupRepoStub() *setupRepoStub {
	return &setupRepoStub{setups: make(map[string]persistence.InterviewSetup)}
}

func (s *setupRepoStub) CreateSetup(ctx context.Context, setup persistence.InterviewSetup) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.setups {
		if existing.RequestID == setup.RequestID {
			return persistence.ErrDuplicate
		}
	}
	s.setups[setup.ID] = setup
	return nil
}

func (s *setupRepoStub) GetSetup(ctx context.Context, id string) (persistence.InterviewSetup, error) {
	setup, ok := s.setups[id]
	if !ok {
		return persistence.InterviewSetup{}, persistence.ErrNotFound
	}
	return setup, nil
}

func (s *setupRepoStub) GetSetupByRequest(ctx context.Context, requestID string) (persistence.InterviewSetup, error) {
	for _, setup := range s.setups {
		if setup.RequestID == requestID {
			return setup, nil
		}
	}
	return persistence.InterviewSetup{}, persistence.ErrNotFound
}

func (s *setupRepoStub) UpdateSetup(ctx context.Context, setup persistence.InterviewSetup) error {
	if _, ok := s.setups[setup.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.setups[setup.ID] = setup
	return nil
}

type slotRepoStub struct {
	slots      map[string]persistence.InterviewSlot
	bookErr    error
	confirmErr error
}

func newSlotRepoStub() *slotRepoStub {
	return &slotRepoStub{slots: make(map[string]persistence.InterviewSlot)}
}

func (s *slotRepoStub) CreateSlots(ctx context.Context, slots []persistence.InterviewSlot) error {
	for _, slot := range slots {
		s.slots[slot.ID] = slot
	}
	return nil
}

func (s *slotRepoStub) GetSlot(ctx context.Context, id string) (persistence.InterviewSlot, error) {
	slot, ok := s.slots[id]
	if !ok {
		return persistence.InterviewSlot{}, persistence.ErrNotFound
	}
	return slot, nil
}

func (s *slotRepoStub) ListSlots(ctx context.Context, filter persistence.SlotFilter) ([]persistence.InterviewSlot, error) {
	var out []persistence.InterviewSlot
	for _, slot := range s.slots {
		if filter.SetupID != "" && slot.SetupID != filter.SetupID {
			continue
		}
		if filter.Status != "" && slot.Status != filter.Status {
			continue
		}
		if filter.RoundNumber > 0 && slot.RoundNumber != filter.RoundNumber {
			continue
		}
		if filter.DateFrom != "" && slot.SlotDate < filter.DateFrom {
			continue
		}
		if filter.BookedByCandidateID != "" {
			if slot.BookedByCandidateID == nil || *slot.BookedByCandidateID != filter.BookedByCandidateID {
				continue
			}
		}
		if filter.ConfirmedOnly && !slot.CandidateConfirmed {
			continue
		}
		out = append(out, slot)
	}
	return out, nil
}

func (s *slotRepoStub) BookSlot(ctx context.Context, slotID, candidateID string, bookedAt time.Time) error {
	if s.bookErr != nil {
		return s.bookErr
	}
	slot, ok := s.slots[slotID]
	if !ok {
		return persistence.ErrNotFound
	}
	if slot.Status != persistence.SlotAvailable {
		return persistence.ErrConflict
	}
	slot.Status = persistence.SlotBooked
	slot.BookedByCandidateID = &candidateID
	slot.BookedAt = &bookedAt
	slot.UpdatedAt = bookedAt
	s.slots[slotID] = slot
	return nil
}

func (s *slotRepoStub) ConfirmSlot(ctx context.Context, slotID string, confirmedAt time.Time) error {
	if s.confirmErr != nil {
		return s.confirmErr
	}
	slot, ok := s.slots[slotID]
	if !ok {
		return persistence.ErrNotFound
	}
	if !slot.CandidateConfirmed {
		slot.CandidateConfirmed = true
		slot.CandidateConfirmedAt = &confirmedAt
		slot.UpdatedAt = confirmedAt
		s.slots[slotID] = slot
	}
	return nil
}

type interviewRepoStub struct {
	interviews map[string]persistence.Interview
	createErr  error
}

func newInterviewRepoStub() *interviewRepoStub {
	return &interviewRepoStub{interviews: make(map[string]persistence.Interview)}
}

func (s *interviewRepoStub) CreateInterview(ctx context.Context, interview persistence.Interview) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.interviews {
		if existing.SlotID == interview.SlotID {
			return persistence.ErrDuplicate
		}
	}
	s.interviews[interview.ID] = interview
	return nil
}

func (s *interviewRepoStub) GetInterview(ctx context.Context, id string) (persistence.Interview, error) {
	interview, ok := s.interviews[id]
	if !ok {
		return persistence.Interview{}, persistence.ErrNotFound
	}
	return interview, nil
}

func (s *interviewRepoStub) ListInterviews(ctx context.Context, filter persistence.InterviewFilter) ([]persistence.Interview, error) {
	var out []persistence.Interview
	for _, interview := range s.interviews {
		if filter.RequestID != "" && interview.RequestID != filter.RequestID {
			continue
		}
		if filter.CandidateID != "" && interview.CandidateID != filter.CandidateID {
			continue
		}
		out = append(out, interview)
	}
	return out, nil
}

func (s *interviewRepoStub) CountInterviewNumbers(ctx context.Context, prefix string) (int, error) {
	return len(s.interviews), nil
}

type interviewFixture struct {
	setups     *setupRepoStub
	slots      *slotRepoStub
	interviews *interviewRepoStub
	candidates *candidateRepoStub
	requests   *requestDirStub
	service    *InterviewService
}

func newInterviewFixture() *interviewFixture {
	f := &interviewFixture{
		setups:     newSetupRepoStub(),
		slots:      newSlotRepoStub(),
		interviews: newInterviewRepoStub(),
		candidates: newCandidateRepoStub(),
		requests: &requestDirStub{requests: map[string]persistence.RecruitmentRequest{
			"req-1": {ID: "req-1", PositionTitle: "Site Engineer"},
		}},
	}
	f.service = NewInterviewService(f.setups, f.slots, f.interviews, f.candidates, f.requests, nil, sequenceIDs("iv"), fixedNow, nil)
	return f
}

func (f *interviewFixture) seedSetup(id string, rounds int) persistence.InterviewSetup {
	setup := persistence.InterviewSetup{
		ID:        id,
		RequestID: "req-1",
		Rounds:    rounds,
		Format:    "online",
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
	f.setups.setups[id] = setup
	return setup
}

func (f *interviewFixture) seedSlot(id, setupID, date, start string, round int) persistence.InterviewSlot {
	slot := persistence.InterviewSlot{
		ID:          id,
		SetupID:     setupID,
		SlotDate:    date,
		StartTime:   start,
		EndTime:     start[:3] + "45",
		RoundNumber: round,
		Status:      persistence.SlotAvailable,
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
	}
	f.slots.slots[id] = slot
	return slot
}

func TestInterviewService_CreateSetup(t *testing.T) {
	t.Run("validates rounds", func(t *testing.T) {
		f := newInterviewFixture()

		_, err := f.service.CreateSetup(context.Background(), "req-1", SetupInput{Rounds: 0})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["rounds"]; !ok {
			t.Fatalf("expected rounds validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects unknown requisition", func(t *testing.T) {
		f := newInterviewFixture()

		_, err := f.service.CreateSetup(context.Background(), "missing", SetupInput{Rounds: 2})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("one setup per requisition", func(t *testing.T) {
		f := newInterviewFixture()

		if _, err := f.service.CreateSetup(context.Background(), "req-1", SetupInput{Rounds: 2, Format: "online"}); err != nil {
			t.Fatalf("first CreateSetup failed: %v", err)
		}
		_, err := f.service.CreateSetup(context.Background(), "req-1", SetupInput{Rounds: 3, Format: "onsite"})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestInterviewService_CreateSlotsBulk(t *testing.T) {
	t.Run("generates the date by window cross-product", func(t *testing.T) {
		f := newInterviewFixture()
		f.seedSetup("setup-1", 2)

		slots, err := f.service.CreateSlotsBulk(context.Background(), "setup-1", SlotBatchInput{
			Dates: []string{"2026-09-10", "2026-09-11"},
			Windows: []TimeWindow{
				{StartTime: "09:00", EndTime: "09:45"},
				{StartTime: "10:00", EndTime: "10:45"},
				{StartTime: "14:00", EndTime: "14:45"},
			},
			RoundNumber: 1,
		})
		if err != nil {
			t.Fatalf("CreateSlotsBulk failed: %v", err)
		}

		if len(slots) != 6 {
			t.Fatalf("expected 6 slots, got %d", len(slots))
		}
		for _, slot := range slots {
			if slot.Status != persistence.SlotAvailable {
				t.Fatalf("expected available slot, got %q", slot.Status)
			}
			if slot.RoundNumber != 1 {
				t.Fatalf("expected round 1, got %d", slot.RoundNumber)
			}
		}
		if len(f.slots.slots) != 6 {
			t.Fatalf("expected 6 slots persisted, got %d", len(f.slots.slots))
		}
	})

	t.Run("rejects malformed dates and windows", func(t *testing.T) {
		f := newInterviewFixture()
		f.seedSetup("setup-1", 2)

		_, err := f.service.CreateSlotsBulk(context.Background(), "setup-1", SlotBatchInput{
			Dates:       []string{"10/09/2026"},
			Windows:     []TimeWindow{{StartTime: "10:00", EndTime: "09:00"}},
			RoundNumber: 1,
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["dates"]; !ok {
			t.Fatalf("expected dates validation error, got %v", vErr.FieldErrors)
		}
		if _, ok := vErr.FieldErrors["windows"]; !ok {
			t.Fatalf("expected windows validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("expands a weekly repeat rule into dates", func(t *testing.T) {
		f := newInterviewFixture()
		f.seedSetup("setup-1", 2)

		slots, err := f.service.CreateSlotsBulk(context.Background(), "setup-1", SlotBatchInput{
			Windows:     []TimeWindow{{StartTime: "09:00", EndTime: "09:45"}},
			RoundNumber: 1,
			Repeat: &RepeatInput{
				// 2026-09-07 is a Monday.
				Weekdays:  []string{"monday", "wednesday"},
				DateFrom:  "2026-09-07",
				DateUntil: "2026-09-13",
			},
		})
		if err != nil {
			t.Fatalf("CreateSlotsBulk failed: %v", err)
		}

		if len(slots) != 2 {
			t.Fatalf("expected 2 slots, got %d", len(slots))
		}
		if slots[0].SlotDate != "2026-09-07" || slots[1].SlotDate != "2026-09-09" {
			t.Fatalf("unexpected slot dates: %q, %q", slots[0].SlotDate, slots[1].SlotDate)
		}
	})

	t.Run("merges repeat dates with explicit dates", func(t *testing.T) {
		f := newInterviewFixture()
		f.seedSetup("setup-1", 2)

		slots, err := f.service.CreateSlotsBulk(context.Background(), "setup-1", SlotBatchInput{
			Dates:       []string{"2026-09-07", "2026-09-20"},
			Windows:     []TimeWindow{{StartTime: "09:00", EndTime: "09:45"}},
			RoundNumber: 1,
			Repeat: &RepeatInput{
				Weekdays:  []string{"monday"},
				DateFrom:  "2026-09-07",
				DateUntil: "2026-09-13",
			},
		})
		if err != nil {
			t.Fatalf("CreateSlotsBulk failed: %v", err)
		}

		// The explicit Monday duplicates the expanded one.
		if len(slots) != 2 {
			t.Fatalf("expected 2 slots, got %d", len(slots))
		}
		if slots[0].SlotDate != "2026-09-07" || slots[1].SlotDate != "2026-09-20" {
			t.Fatalf("unexpected slot dates: %q, %q", slots[0].SlotDate, slots[1].SlotDate)
		}
	})

	t.Run("rejects invalid repeat rules", func(t *testing.T) {
		f := newInterviewFixture()
		f.seedSetup("setup-1", 2)

		_, err := f.service.CreateSlotsBulk(context.Background(), "setup-1", SlotBatchInput{
			Windows:     []TimeWindow{{StartTime: "09:00", EndTime: "09:45"}},
			RoundNumber: 1,
			Repeat: &RepeatInput{
				Weekdays:  []string{"someday"},
				DateFrom:  "2026-09-07",
				DateUntil: "2026-09-13",
			},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["repeat"]; !ok {
			t.Fatalf("expected repeat validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects overlapping windows", func(t *testing.T) {
		f := newInterviewFixture()
		f.seedSetup("setup-1", 2)

		_, err := f.service.CreateSlotsBulk(context.Background(), "setup-1", SlotBatchInput{
			Dates: []string{"2026-09-10"},
			Windows: []TimeWindow{
				{StartTime: "09:00", EndTime: "10:00"},
				{StartTime: "09:30", EndTime: "10:30"},
			},
			RoundNumber: 1,
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if vErr.FieldErrors["windows"] != "time windows must not overlap" {
			t.Fatalf("unexpected windows error: %v", vErr.FieldErrors)
		}
	})

	t.Run("round must exist in setup", func(t *testing.T) {
		f := newInterviewFixture()
		f.seedSetup("setup-1", 2)

		_, err := f.service.CreateSlotsBulk(context.Background(), "setup-1", SlotBatchInput{
			Dates:       []string{"2026-09-10"},
			Windows:     []TimeWindow{{StartTime: "09:00", EndTime: "09:45"}},
			RoundNumber: 3,
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if vErr.FieldErrors["round_number"] != "setup has 2 rounds" {
			t.Fatalf("unexpected round_number error: %v", vErr.FieldErrors)
		}
	})
}

func TestInterviewService_AvailableSlots(t *testing.T) {
	f := newInterviewFixture()
	f.seedSetup("setup-1", 2)
	f.seedSlot("slot-past", "setup-1", "2026-08-20", "09:00", 1)
	f.seedSlot("slot-open", "setup-1", "2026-09-10", "09:00", 1)
	other := f.seedSlot("slot-taken", "setup-1", "2026-09-11", "09:00", 1)
	other.Status = persistence.SlotBooked
	f.slots.slots[other.ID] = other

	slots, err := f.service.AvailableSlots(context.Background(), "req-1", 1)
	if err != nil {
		t.Fatalf("AvailableSlots failed: %v", err)
	}
	if len(slots) != 1 || slots[0].ID != "slot-open" {
		t.Fatalf("expected only slot-open, got %#v", slots)
	}
}

func TestInterviewService_BookSlot(t *testing.T) {
	t.Run("claims an available slot", func(t *testing.T) {
		f := newInterviewFixture()
		f.seedSetup("setup-1", 2)
		f.seedSlot("slot-1", "setup-1", "2026-09-10", "09:00", 1)
		seedStubCandidate(f.candidates, "cand-1", "req-1", "interview")

		slot, err := f.service.BookSlot(context.Background(), "slot-1", "cand-1")
		if err != nil {
			t.Fatalf("BookSlot failed: %v", err)
		}
		if slot.Status != persistence.SlotBooked {
			t.Fatalf("expected booked status, got %q", slot.Status)
		}
		if slot.BookedByCandidateID == nil || *slot.BookedByCandidateID != "cand-1" {
			t.Fatalf("expected booking candidate recorded, got %#v", slot.BookedByCandidateID)
		}
	})

	t.Run("losing a race maps to slot unavailable", func(t *testing.T) {
		f := newInterviewFixture()
		f.seedSetup("setup-1", 2)
		f.seedSlot("slot-1", "setup-1", "2026-09-10", "09:00", 1)
		seedStubCandidate(f.candidates, "cand-1", "req-1", "interview")
		seedStubCandidate(f.candidates, "cand-2", "req-1", "interview")

		if _, err := f.service.BookSlot(context.Background(), "slot-1", "cand-1"); err != nil {
			t.Fatalf("winning booking failed: %v", err)
		}
		_, err := f.service.BookSlot(context.Background(), "slot-1", "cand-2")
		if !errors.Is(err, ErrSlotUnavailable) {
			t.Fatalf("expected ErrSlotUnavailable, got %v", err)
		}

		slot := f.slots.slots["slot-1"]
		if *slot.BookedByCandidateID != "cand-1" {
			t.Fatalf("expected winner preserved, got %q", *slot.BookedByCandidateID)
		}
	})

	t.Run("unknown candidate maps to not found", func(t *testing.T) {
		f := newInterviewFixture()
		f.seedSetup("setup-1", 2)
		f.seedSlot("slot-1", "setup-1", "2026-09-10", "09:00", 1)

		_, err := f.service.BookSlot(context.Background(), "slot-1", "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestInterviewService_ConfirmSlot(t *testing.T) {
	book := func(t *testing.T, f *interviewFixture) {
		t.Helper()
		f.seedSetup("setup-1", 2)
		f.seedSlot("slot-1", "setup-1", "2026-09-10", "09:00", 1)
		seedStubCandidate(f.candidates, "cand-1", "req-1", "interview")
		if _, err := f.service.BookSlot(context.Background(), "slot-1", "cand-1"); err != nil {
			t.Fatalf("BookSlot failed: %v", err)
		}
	}

	t.Run("creates the interview appointment", func(t *testing.T) {
		f := newInterviewFixture()
		book(t, f)

		slot, err := f.service.ConfirmSlot(context.Background(), "slot-1", "cand-1")
		if err != nil {
			t.Fatalf("ConfirmSlot failed: %v", err)
		}
		if !slot.CandidateConfirmed {
			t.Fatalf("expected confirmed slot")
		}

		if len(f.interviews.interviews) != 1 {
			t.Fatalf("expected one interview record, got %d", len(f.interviews.interviews))
		}
		for _, interview := range f.interviews.interviews {
			if interview.Number != "INT-20260901-0001" {
				t.Fatalf("unexpected interview number: %q", interview.Number)
			}
			if interview.RequestID != "req-1" || interview.CandidateID != "cand-1" {
				t.Fatalf("unexpected interview linkage: %#v", interview)
			}
			want := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
			if !interview.ScheduledAt.Equal(want) {
				t.Fatalf("expected schedule %v, got %v", want, interview.ScheduledAt)
			}
			if interview.RoundType != "round_1" {
				t.Fatalf("unexpected round type: %q", interview.RoundType)
			}
		}
	})

	t.Run("wrong owner reads as not found", func(t *testing.T) {
		f := newInterviewFixture()
		book(t, f)

		_, err := f.service.ConfirmSlot(context.Background(), "slot-1", "cand-other")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("repeat confirmation is a no-op", func(t *testing.T) {
		f := newInterviewFixture()
		book(t, f)

		if _, err := f.service.ConfirmSlot(context.Background(), "slot-1", "cand-1"); err != nil {
			t.Fatalf("first ConfirmSlot failed: %v", err)
		}
		if _, err := f.service.ConfirmSlot(context.Background(), "slot-1", "cand-1"); err != nil {
			t.Fatalf("repeat ConfirmSlot failed: %v", err)
		}
		if len(f.interviews.interviews) != 1 {
			t.Fatalf("expected one interview record after repeat, got %d", len(f.interviews.interviews))
		}
	})

	t.Run("unbooked slot reads as not found", func(t *testing.T) {
		f := newInterviewFixture()
		f.seedSetup("setup-1", 2)
		f.seedSlot("slot-1", "setup-1", "2026-09-10", "09:00", 1)

		_, err := f.service.ConfirmSlot(context.Background(), "slot-1", "cand-1")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestInterviewService_ConfirmedInterviews(t *testing.T) {
	t.Run("joins confirmed slots with candidates", func(t *testing.T) {
		f := newInterviewFixture()
		f.seedSetup("setup-1", 2)
		f.seedSlot("slot-1", "setup-1", "2026-09-10", "09:00", 1)
		f.seedSlot("slot-2", "setup-1", "2026-09-11", "10:00", 1)
		seedStubCandidate(f.candidates, "cand-1", "req-1", "interview")

		if _, err := f.service.BookSlot(context.Background(), "slot-1", "cand-1"); err != nil {
			t.Fatalf("BookSlot failed: %v", err)
		}
		if _, err := f.service.ConfirmSlot(context.Background(), "slot-1", "cand-1"); err != nil {
			t.Fatalf("ConfirmSlot failed: %v", err)
		}

		confirmed, err := f.service.ConfirmedInterviews(context.Background(), "req-1")
		if err != nil {
			t.Fatalf("ConfirmedInterviews failed: %v", err)
		}
		if len(confirmed) != 1 {
			t.Fatalf("expected one confirmed interview, got %d", len(confirmed))
		}
		if confirmed[0].CandidateID != "cand-1" || confirmed[0].CandidateName != "A. Khan" {
			t.Fatalf("unexpected join: %#v", confirmed[0])
		}
		if confirmed[0].Slot.Date != "2026-09-10" || !confirmed[0].Slot.Confirmed {
			t.Fatalf("unexpected slot view: %#v", confirmed[0].Slot)
		}
	})

	t.Run("no setup yields an empty list", func(t *testing.T) {
		f := newInterviewFixture()

		confirmed, err := f.service.ConfirmedInterviews(context.Background(), "req-without-setup")
		if err != nil {
			t.Fatalf("ConfirmedInterviews failed: %v", err)
		}
		if len(confirmed) != 0 {
			t.Fatalf("expected empty result, got %#v", confirmed)
		}
	})
}
