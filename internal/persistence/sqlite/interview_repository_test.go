package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/recruitd/internal/persistence"
)

func TestInterviewRepository(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	repo := NewInterviewRepository(pool)

	request := seedRequest(t, pool, "req-1")
	setup := seedSetup(t, pool, "setup-1", request.ID)
	candidate := seedCandidate(t, pool, "cand-1", request.ID, "interview")
	seedSlots(t, pool, setup.ID,
		persistence.InterviewSlot{ID: "slot-1", SlotDate: "2026-09-02", StartTime: "09:00", EndTime: "10:00", RoundNumber: 1},
		persistence.InterviewSlot{ID: "slot-2", SlotDate: "2026-09-03", StartTime: "09:00", EndTime: "10:00", RoundNumber: 2},
	)

	now := time.Now().UTC().Truncate(time.Second)
	first := persistence.Interview{
		ID:          "int-1",
		Number:      "INT-20260901-0001",
		CandidateID: candidate.ID,
		RequestID:   request.ID,
		SlotID:      "slot-1",
		RoundType:   "technical",
		ScheduledAt: now.Add(24 * time.Hour),
		CreatedAt:   now,
	}
	if err := repo.CreateInterview(ctx, first); err != nil {
		t.Fatalf("CreateInterview failed: %v", err)
	}

	second := first
	second.ID = "int-2"
	second.Number = "INT-20260901-0002"
	second.SlotID = "slot-2"
	second.ScheduledAt = now.Add(48 * time.Hour)
	if err := repo.CreateInterview(ctx, second); err != nil {
		t.Fatalf("CreateInterview second failed: %v", err)
	}

	// One interview per slot.
	duplicate := first
	duplicate.ID = "int-3"
	duplicate.Number = "INT-20260901-0003"
	if err := repo.CreateInterview(ctx, duplicate); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for reused slot, got %v", err)
	}

	fetched, err := repo.GetInterviewBySlot(ctx, "slot-1")
	if err != nil {
		t.Fatalf("GetInterviewBySlot failed: %v", err)
	}
	if fetched.ID != first.ID || fetched.RoundType != "technical" {
		t.Fatalf("unexpected interview retrieved: %#v", fetched)
	}

	interviews, err := repo.ListInterviews(ctx, persistence.InterviewFilter{CandidateID: candidate.ID})
	if err != nil {
		t.Fatalf("ListInterviews failed: %v", err)
	}
	if len(interviews) != 2 || interviews[0].ID != first.ID || interviews[1].ID != second.ID {
		t.Fatalf("expected interviews in schedule order, got %#v", interviews)
	}

	count, err := repo.CountInterviewNumbers(ctx, "INT-20260901-")
	if err != nil {
		t.Fatalf("CountInterviewNumbers failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 numbered interviews, got %d", count)
	}

	if _, err := repo.GetInterview(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEvaluationRepository(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	repo := NewEvaluationRepository(pool)

	request := seedRequest(t, pool, "req-1")
	setup := seedSetup(t, pool, "setup-1", request.ID)
	candidate := seedCandidate(t, pool, "cand-1", request.ID, "interview")
	seedSlots(t, pool, setup.ID,
		persistence.InterviewSlot{ID: "slot-1", SlotDate: "2026-09-02", StartTime: "09:00", EndTime: "10:00", RoundNumber: 1},
	)

	now := time.Now().UTC().Truncate(time.Second)
	interview := persistence.Interview{
		ID:          "int-1",
		Number:      "INT-20260901-0001",
		CandidateID: candidate.ID,
		RequestID:   request.ID,
		SlotID:      "slot-1",
		ScheduledAt: now.Add(24 * time.Hour),
		CreatedAt:   now,
	}
	if err := NewInterviewRepository(pool).CreateInterview(ctx, interview); err != nil {
		t.Fatalf("failed to seed interview: %v", err)
	}

	evaluation := persistence.Evaluation{
		ID:                 "eval-1",
		Number:             "EVL-20260901-0001",
		InterviewID:        interview.ID,
		CandidateID:        candidate.ID,
		Evaluator:          "lee@example.com",
		TechnicalScore:     4,
		CommunicationScore: 5,
		CultureScore:       4,
		OverallScore:       4,
		Recommendation:     "hire",
		Notes:              "Strong systems background.",
		CreatedAt:          now,
	}
	if err := repo.CreateEvaluation(ctx, evaluation); err != nil {
		t.Fatalf("CreateEvaluation failed: %v", err)
	}

	second := evaluation
	second.ID = "eval-2"
	second.Number = "EVL-20260901-0002"
	second.Evaluator = "pat@example.com"
	second.Recommendation = "strong_hire"
	second.CreatedAt = now.Add(time.Minute)
	if err := repo.CreateEvaluation(ctx, second); err != nil {
		t.Fatalf("CreateEvaluation second failed: %v", err)
	}

	// Scores outside 1..5 are rejected by the store.
	invalid := evaluation
	invalid.ID = "eval-3"
	invalid.Number = "EVL-20260901-0003"
	invalid.OverallScore = 6
	if err := repo.CreateEvaluation(ctx, invalid); !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation for out of range score, got %v", err)
	}

	evaluations, err := repo.ListEvaluations(ctx, interview.ID)
	if err != nil {
		t.Fatalf("ListEvaluations failed: %v", err)
	}
	if len(evaluations) != 2 || evaluations[0].ID != "eval-1" || evaluations[1].ID != "eval-2" {
		t.Fatalf("expected evaluations in submission order, got %#v", evaluations)
	}

	count, err := repo.CountEvaluationNumbers(ctx, "EVL-20260901-")
	if err != nil {
		t.Fatalf("CountEvaluationNumbers failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 numbered evaluations, got %d", count)
	}
}
