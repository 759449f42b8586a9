package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/recruitd/internal/persistence"
	"github.com/example/recruitd/internal/pipeline"
)

// CandidateRepository captures the persistence interactions needed by the service.
type CandidateRepository interface {
	CreateCandidate(ctx context.Context, candidate persistence.Candidate) error
	GetCandidate(ctx context.Context, id string) (persistence.Candidate, error)
	UpdateCandidate(ctx context.Context, candidate persistence.Candidate) error
	ListCandidates(ctx context.Context, filter persistence.CandidateFilter) ([]persistence.Candidate, error)
	CountCandidatesByStage(ctx context.Context, requestID string) (map[string]int, error)
	CountCandidateNumbers(ctx context.Context, prefix string) (int, error)
}

// RequestDirectory exposes requisition lookups to collaborating services.
type RequestDirectory interface {
	GetRequest(ctx context.Context, id string) (persistence.RecruitmentRequest, error)
}

// PassRegistrar issues the companion pass record for a new candidate. Pass
// issuance is access-credential bookkeeping, not pipeline logic, so it sits
// behind this narrow interface.
type PassRegistrar interface {
	RegisterCandidatePass(ctx context.Context, candidateID string) (string, error)
}

// PipelineService owns the candidate stage state machine.
type PipelineService struct {
	candidates  CandidateRepository
	requests    RequestDirectory
	passes      PassRegistrar
	activity    *ActivityLog
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewPipelineService wires dependencies for candidate pipeline operations.
func NewPipelineService(candidates CandidateRepository, requests RequestDirectory, passes PassRegistrar, activity *ActivityLog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *PipelineService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &PipelineService{
		candidates:  candidates,
		requests:    requests,
		passes:      passes,
		activity:    activity,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// AddCandidate registers an application against a requisition. The candidate
// enters at the applied stage and receives a companion pass record.
func (s *PipelineService) AddCandidate(ctx context.Context, input CandidateInput) (persistence.Candidate, error) {
	if s == nil || s.candidates == nil {
		return persistence.Candidate{}, fmt.Errorf("candidate repository not configured")
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(input.RequestID) == "" {
		vErr.add("request_id", "request id is required")
	}
	if strings.TrimSpace(input.FullName) == "" {
		vErr.add("full_name", "full name is required")
	}
	if vErr.HasErrors() {
		return persistence.Candidate{}, vErr
	}

	logger := serviceLogger(ctx, s.logger, "pipeline", "add_candidate", "request_id", input.RequestID)

	if s.requests != nil {
		if _, err := s.requests.GetRequest(ctx, input.RequestID); err != nil {
			return persistence.Candidate{}, mapCandidateRepoError(err)
		}
	}

	now := s.now()
	number, err := nextNumber(ctx, s.candidates.CountCandidateNumbers, NumberPrefixCandidate, now)
	if err != nil {
		return persistence.Candidate{}, err
	}

	candidate := persistence.Candidate{
		ID:             s.idGenerator(),
		Number:         number,
		RequestID:      input.RequestID,
		FullName:       strings.TrimSpace(input.FullName),
		Email:          strings.TrimSpace(input.Email),
		Phone:          strings.TrimSpace(input.Phone),
		Stage:          string(pipeline.StageApplied),
		Status:         pipeline.StatusFor(pipeline.StageApplied),
		StageChangedAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Pass issuance is best effort: a candidate without a pass can still be
	// managed internally and issued one later.
	if s.passes != nil {
		passNumber, err := s.passes.RegisterCandidatePass(ctx, candidate.ID)
		if err != nil {
			logger.WarnContext(ctx, "candidate pass issuance failed", "candidate_id", candidate.ID, "error", err)
		} else {
			candidate.PassNumber = &passNumber
		}
	}

	if err := s.candidates.CreateCandidate(ctx, candidate); err != nil {
		return persistence.Candidate{}, mapCandidateRepoError(err)
	}

	logger.InfoContext(ctx, "candidate added", "candidate_id", candidate.ID, "number", candidate.Number)

	recordActivity(ctx, s.activity, logger, RecordActivityParams{
		EntityType:  EntityCandidate,
		EntityID:    candidate.ID,
		Stage:       candidate.Stage,
		ActionType:  "candidate_added",
		Description: "Application received",
		Visibility:  VisibilityCandidate,
	})

	return candidate, nil
}

// GetCandidate retrieves one candidate.
func (s *PipelineService) GetCandidate(ctx context.Context, id string) (persistence.Candidate, error) {
	if s == nil || s.candidates == nil {
		return persistence.Candidate{}, fmt.Errorf("candidate repository not configured")
	}

	candidate, err := s.candidates.GetCandidate(ctx, id)
	if err != nil {
		return persistence.Candidate{}, mapCandidateRepoError(err)
	}
	return candidate, nil
}

// ListCandidates enumerates candidates matching the optional filters.
func (s *PipelineService) ListCandidates(ctx context.Context, requestID, stage string) ([]persistence.Candidate, error) {
	if s == nil || s.candidates == nil {
		return nil, fmt.Errorf("candidate repository not configured")
	}

	return s.candidates.ListCandidates(ctx, persistence.CandidateFilter{
		RequestID: requestID,
		Stage:     stage,
	})
}

// UpdateCandidate applies contact and scoring field changes. Stage and status
// mutate only through MoveStage and RejectCandidate.
func (s *PipelineService) UpdateCandidate(ctx context.Context, candidateID string, input CandidateUpdateInput) (persistence.Candidate, error) {
	if s == nil || s.candidates == nil {
		return persistence.Candidate{}, fmt.Errorf("candidate repository not configured")
	}

	existing, err := s.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return persistence.Candidate{}, mapCandidateRepoError(err)
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(input.FullName) == "" {
		vErr.add("full_name", "full name is required")
	}
	for field, score := range map[string]*int{
		"cv_match":     input.CVMatch,
		"skills_match": input.SkillsMatch,
	} {
		if score != nil && (*score < 0 || *score > 100) {
			vErr.add(field, "must be between 0 and 100")
		}
	}
	for field, rating := range map[string]*int{
		"hr_rating":      input.HRRating,
		"manager_rating": input.ManagerRating,
	} {
		if rating != nil && (*rating < 1 || *rating > 5) {
			vErr.add(field, "must be between 1 and 5")
		}
	}
	if vErr.HasErrors() {
		return persistence.Candidate{}, vErr
	}

	updated := existing
	updated.FullName = strings.TrimSpace(input.FullName)
	updated.Email = strings.TrimSpace(input.Email)
	updated.Phone = strings.TrimSpace(input.Phone)
	updated.CVMatch = input.CVMatch
	updated.SkillsMatch = input.SkillsMatch
	updated.HRRating = input.HRRating
	updated.ManagerRating = input.ManagerRating
	updated.UpdatedAt = s.now()

	if err := s.candidates.UpdateCandidate(ctx, updated); err != nil {
		return persistence.Candidate{}, mapCandidateRepoError(err)
	}
	return updated, nil
}

// MoveStage applies a stage transition. Status follows the stage through the
// fixed lockstep map; terminal stages admit no further transitions.
func (s *PipelineService) MoveStage(ctx context.Context, candidateID, rawStage string) (persistence.Candidate, error) {
	if s == nil || s.candidates == nil {
		return persistence.Candidate{}, fmt.Errorf("candidate repository not configured")
	}

	stage, ok := pipeline.Normalize(rawStage)
	if !ok {
		return persistence.Candidate{}, ErrInvalidStage
	}

	logger := serviceLogger(ctx, s.logger, "pipeline", "move_stage", "candidate_id", candidateID)

	existing, err := s.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return persistence.Candidate{}, mapCandidateRepoError(err)
	}

	current, _ := pipeline.Normalize(existing.Stage)
	if pipeline.IsTerminal(current) {
		return persistence.Candidate{}, ErrTerminalStage
	}

	now := s.now()
	updated := existing
	updated.Stage = string(stage)
	updated.Status = pipeline.StatusFor(stage)
	updated.StageChangedAt = now
	updated.UpdatedAt = now

	if err := s.candidates.UpdateCandidate(ctx, updated); err != nil {
		return persistence.Candidate{}, mapCandidateRepoError(err)
	}

	logger.InfoContext(ctx, "stage moved", "from", existing.Stage, "to", updated.Stage)

	recordActivity(ctx, s.activity, logger, RecordActivityParams{
		EntityType:  EntityCandidate,
		EntityID:    updated.ID,
		Stage:       updated.Stage,
		ActionType:  "stage_change",
		Description: fmt.Sprintf("Moved to %s stage", updated.Stage),
		Visibility:  VisibilityCandidate,
	})

	return updated, nil
}

// RejectCandidate moves a candidate into the terminal rejected stage.
// Rejecting an already rejected candidate is a no-op success.
func (s *PipelineService) RejectCandidate(ctx context.Context, candidateID, reason string) (persistence.Candidate, error) {
	if s == nil || s.candidates == nil {
		return persistence.Candidate{}, fmt.Errorf("candidate repository not configured")
	}

	logger := serviceLogger(ctx, s.logger, "pipeline", "reject_candidate", "candidate_id", candidateID)

	existing, err := s.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return persistence.Candidate{}, mapCandidateRepoError(err)
	}

	current, _ := pipeline.Normalize(existing.Stage)
	if current == pipeline.StageRejected {
		return existing, nil
	}
	if pipeline.IsTerminal(current) {
		return persistence.Candidate{}, ErrTerminalStage
	}

	now := s.now()
	updated := existing
	updated.Stage = string(pipeline.StageRejected)
	updated.Status = pipeline.StatusFor(pipeline.StageRejected)
	updated.StageChangedAt = now
	updated.UpdatedAt = now
	trimmed := strings.TrimSpace(reason)
	if trimmed != "" {
		updated.RejectionReason = &trimmed
	}

	if err := s.candidates.UpdateCandidate(ctx, updated); err != nil {
		return persistence.Candidate{}, mapCandidateRepoError(err)
	}

	logger.InfoContext(ctx, "candidate rejected", "number", updated.Number)

	// The reason stays internal; candidates see only the stage change.
	recordActivity(ctx, s.activity, logger, RecordActivityParams{
		EntityType:  EntityCandidate,
		EntityID:    updated.ID,
		Stage:       updated.Stage,
		ActionType:  "candidate_rejected",
		Description: fmt.Sprintf("Rejected: %s", trimmed),
		Visibility:  VisibilityInternal,
	})

	return updated, nil
}

// PipelineCounts aggregates candidate counts per stage, zero-filled so
// callers always receive every defined stage key.
func (s *PipelineService) PipelineCounts(ctx context.Context, requestID string) (map[string]int, error) {
	if s == nil || s.candidates == nil {
		return nil, fmt.Errorf("candidate repository not configured")
	}

	counted, err := s.candidates.CountCandidatesByStage(ctx, requestID)
	if err != nil {
		return nil, mapCandidateRepoError(err)
	}

	counts := make(map[string]int, len(pipeline.Stages()))
	for _, stage := range pipeline.Stages() {
		counts[string(stage)] = counted[string(stage)]
	}
	return counts, nil
}

func mapCandidateRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("candidate", "related records are missing or invalid")
		return vErr
	}
	return err
}
