package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/recruitd/internal/persistence"
)

func newTestPool(t *testing.T) *ConnectionPool {
	t.Helper()

	dir := t.TempDir()
	config := DefaultConfig(filepath.Join(dir, "recruitd.db"))
	// A single connection makes concurrent repository calls serialize at the
	// pool instead of surfacing driver busy errors.
	config.MaxOpenConns = 1

	pool, err := NewConnectionPool(config)
	if err != nil {
		t.Fatalf("failed to open pool: %v", err)
	}
	t.Cleanup(func() {
		_ = pool.Close()
	})

	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return pool
}

func seedRequest(t *testing.T, pool *ConnectionPool, id string) persistence.RecruitmentRequest {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	request := persistence.RecruitmentRequest{
		ID:             id,
		Number:         "RRF-20260901-" + id,
		PositionTitle:  "Backend Engineer",
		Department:     "Engineering",
		EmploymentType: "full_time",
		Headcount:      1,
		SalaryBand:     "B3",
		Status:         "pending",
		Approvals: []persistence.Approval{
			{Type: "requisition", Status: "pending"},
			{Type: "budget", Status: "pending"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := NewRequestRepository(pool).CreateRequest(context.Background(), request); err != nil {
		t.Fatalf("failed to seed request %s: %v", id, err)
	}
	return request
}

func seedCandidate(t *testing.T, pool *ConnectionPool, id, requestID, stage string) persistence.Candidate {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	candidate := persistence.Candidate{
		ID:             id,
		Number:         "CAN-20260901-" + id,
		RequestID:      requestID,
		FullName:       "Jordan Reyes",
		Email:          id + "@example.com",
		Stage:          stage,
		Status:         "applied",
		StageChangedAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := NewCandidateRepository(pool).CreateCandidate(context.Background(), candidate); err != nil {
		t.Fatalf("failed to seed candidate %s: %v", id, err)
	}
	return candidate
}

func seedSetup(t *testing.T, pool *ConnectionPool, id, requestID string) persistence.InterviewSetup {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	setup := persistence.InterviewSetup{
		ID:                 id,
		RequestID:          requestID,
		Rounds:             2,
		Format:             "online",
		AssessmentRequired: true,
		ExtraInterviewers:  []string{"sam@example.com"},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := NewSetupRepository(pool).CreateSetup(context.Background(), setup); err != nil {
		t.Fatalf("failed to seed setup %s: %v", id, err)
	}
	return setup
}

func TestRequestRepository(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	repo := NewRequestRepository(pool)

	seeded := seedRequest(t, pool, "req-1")

	fetched, err := repo.GetRequest(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetRequest failed: %v", err)
	}
	if fetched.PositionTitle != seeded.PositionTitle || fetched.Status != "pending" {
		t.Fatalf("unexpected request retrieved: %#v", fetched)
	}
	if len(fetched.Approvals) != 2 {
		t.Fatalf("expected 2 seeded approvals, got %#v", fetched.Approvals)
	}

	fetched.Status = "approved"
	fetched.Headcount = 2
	if err := repo.UpdateRequest(ctx, fetched); err != nil {
		t.Fatalf("UpdateRequest failed: %v", err)
	}

	decidedAt := time.Now().UTC().Truncate(time.Second)
	approval := persistence.Approval{
		Type:      "requisition",
		Status:    "approved",
		Approver:  "dana@example.com",
		DecidedAt: &decidedAt,
	}
	if err := repo.UpsertApproval(ctx, seeded.ID, approval); err != nil {
		t.Fatalf("UpsertApproval failed: %v", err)
	}

	fetched, err = repo.GetRequest(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetRequest after update failed: %v", err)
	}
	if fetched.Status != "approved" || fetched.Headcount != 2 {
		t.Fatalf("unexpected request after update: %#v", fetched)
	}
	var requisition *persistence.Approval
	for i := range fetched.Approvals {
		if fetched.Approvals[i].Type == "requisition" {
			requisition = &fetched.Approvals[i]
		}
	}
	if requisition == nil || requisition.Status != "approved" || requisition.DecidedAt == nil {
		t.Fatalf("expected decided requisition approval, got %#v", fetched.Approvals)
	}

	seedRequest(t, pool, "req-2")
	requests, err := repo.ListRequests(ctx, persistence.RequestFilter{Status: "approved"})
	if err != nil {
		t.Fatalf("ListRequests failed: %v", err)
	}
	if len(requests) != 1 || requests[0].ID != seeded.ID {
		t.Fatalf("expected only the approved request, got %#v", requests)
	}

	count, err := repo.CountRequestNumbers(ctx, "RRF-20260901-")
	if err != nil {
		t.Fatalf("CountRequestNumbers failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 numbered requests, got %d", count)
	}

	if _, err := repo.GetRequest(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.UpsertApproval(ctx, "missing", approval); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing request, got %v", err)
	}
}

func TestRequestRepository_DuplicateNumber(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	repo := NewRequestRepository(pool)

	seeded := seedRequest(t, pool, "req-1")
	seeded.ID = "req-copy"
	if err := repo.CreateRequest(ctx, seeded); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for reused number, got %v", err)
	}
}

func TestCandidateRepository(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	repo := NewCandidateRepository(pool)

	request := seedRequest(t, pool, "req-1")
	seeded := seedCandidate(t, pool, "cand-1", request.ID, "applied")
	seedCandidate(t, pool, "cand-2", request.ID, "screening")
	seedCandidate(t, pool, "cand-3", request.ID, "screening")

	fetched, err := repo.GetCandidate(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetCandidate failed: %v", err)
	}
	if fetched.FullName != seeded.FullName || fetched.RejectionReason != nil {
		t.Fatalf("unexpected candidate retrieved: %#v", fetched)
	}

	reason := "position filled"
	rating := 4
	fetched.Stage = "rejected"
	fetched.Status = "rejected"
	fetched.RejectionReason = &reason
	fetched.HRRating = &rating
	if err := repo.UpdateCandidate(ctx, fetched); err != nil {
		t.Fatalf("UpdateCandidate failed: %v", err)
	}

	fetched, err = repo.GetCandidate(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetCandidate after update failed: %v", err)
	}
	if fetched.RejectionReason == nil || *fetched.RejectionReason != reason {
		t.Fatalf("expected rejection reason persisted, got %#v", fetched)
	}
	if fetched.HRRating == nil || *fetched.HRRating != 4 {
		t.Fatalf("expected HR rating persisted, got %#v", fetched)
	}

	screening, err := repo.ListCandidates(ctx, persistence.CandidateFilter{RequestID: request.ID, Stage: "screening"})
	if err != nil {
		t.Fatalf("ListCandidates failed: %v", err)
	}
	if len(screening) != 2 {
		t.Fatalf("expected 2 screening candidates, got %#v", screening)
	}

	counts, err := repo.CountCandidatesByStage(ctx, request.ID)
	if err != nil {
		t.Fatalf("CountCandidatesByStage failed: %v", err)
	}
	if counts["screening"] != 2 || counts["rejected"] != 1 {
		t.Fatalf("unexpected stage counts: %#v", counts)
	}

	if _, err := repo.GetCandidate(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetupRepository(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	repo := NewSetupRepository(pool)

	request := seedRequest(t, pool, "req-1")
	seeded := seedSetup(t, pool, "setup-1", request.ID)

	fetched, err := repo.GetSetupByRequest(ctx, request.ID)
	if err != nil {
		t.Fatalf("GetSetupByRequest failed: %v", err)
	}
	if fetched.ID != seeded.ID || fetched.Rounds != 2 || !fetched.AssessmentRequired {
		t.Fatalf("unexpected setup retrieved: %#v", fetched)
	}
	if len(fetched.ExtraInterviewers) != 1 || fetched.ExtraInterviewers[0] != "sam@example.com" {
		t.Fatalf("unexpected interviewers: %#v", fetched.ExtraInterviewers)
	}

	fetched.Rounds = 3
	fetched.ExtraInterviewers = []string{"lee@example.com", "pat@example.com"}
	if err := repo.UpdateSetup(ctx, fetched); err != nil {
		t.Fatalf("UpdateSetup failed: %v", err)
	}

	fetched, err = repo.GetSetup(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetSetup failed: %v", err)
	}
	if fetched.Rounds != 3 || len(fetched.ExtraInterviewers) != 2 {
		t.Fatalf("unexpected setup after update: %#v", fetched)
	}

	// One setup per requisition.
	duplicate := seeded
	duplicate.ID = "setup-2"
	if err := repo.CreateSetup(ctx, duplicate); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for second setup, got %v", err)
	}

	if _, err := repo.GetSetupByRequest(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
