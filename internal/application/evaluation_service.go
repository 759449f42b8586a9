package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/recruitd/internal/persistence"
)

// Evaluation recommendation values.
var recommendations = []string{"strong_hire", "hire", "maybe", "no_hire"}

// EvaluationRepository captures the persistence interactions needed by the service.
type EvaluationRepository interface {
	CreateEvaluation(ctx context.Context, evaluation persistence.Evaluation) error
	ListEvaluations(ctx context.Context, interviewID string) ([]persistence.Evaluation, error)
	CountEvaluationNumbers(ctx context.Context, prefix string) (int, error)
}

// InterviewDirectory exposes interview lookups to collaborating services.
type InterviewDirectory interface {
	GetInterview(ctx context.Context, id string) (persistence.Interview, error)
}

// EvaluationService records and lists scored interviewer feedback.
type EvaluationService struct {
	evaluations EvaluationRepository
	interviews  InterviewDirectory
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewEvaluationService wires dependencies for evaluation operations.
func NewEvaluationService(evaluations EvaluationRepository, interviews InterviewDirectory, idGenerator func() string, now func() time.Time, logger *slog.Logger) *EvaluationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &EvaluationService{
		evaluations: evaluations,
		interviews:  interviews,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateEvaluation validates and persists interviewer feedback. Many
// evaluations may reference one interview.
func (s *EvaluationService) CreateEvaluation(ctx context.Context, input EvaluationInput) (persistence.Evaluation, error) {
	if s == nil || s.evaluations == nil {
		return persistence.Evaluation{}, fmt.Errorf("evaluation repository not configured")
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(input.InterviewID) == "" {
		vErr.add("interview_id", "interview id is required")
	}
	if strings.TrimSpace(input.Evaluator) == "" {
		vErr.add("evaluator", "evaluator is required")
	}
	for field, score := range map[string]int{
		"technical_score":     input.TechnicalScore,
		"communication_score": input.CommunicationScore,
		"culture_score":       input.CultureScore,
		"overall_score":       input.OverallScore,
	} {
		if score < 1 || score > 5 {
			vErr.add(field, "must be between 1 and 5")
		}
	}
	if !validRecommendation(input.Recommendation) {
		vErr.add("recommendation", "must be one of strong_hire, hire, maybe, no_hire")
	}
	if vErr.HasErrors() {
		return persistence.Evaluation{}, vErr
	}

	interview, err := s.interviews.GetInterview(ctx, input.InterviewID)
	if err != nil {
		return persistence.Evaluation{}, mapSlotRepoError(err)
	}

	now := s.now()
	number, err := nextNumber(ctx, s.evaluations.CountEvaluationNumbers, NumberPrefixEvaluation, now)
	if err != nil {
		return persistence.Evaluation{}, err
	}

	evaluation := persistence.Evaluation{
		ID:                 s.idGenerator(),
		Number:             number,
		InterviewID:        interview.ID,
		CandidateID:        interview.CandidateID,
		Evaluator:          strings.TrimSpace(input.Evaluator),
		TechnicalScore:     input.TechnicalScore,
		CommunicationScore: input.CommunicationScore,
		CultureScore:       input.CultureScore,
		OverallScore:       input.OverallScore,
		Recommendation:     input.Recommendation,
		Notes:              input.Notes,
		CreatedAt:          now,
	}

	if err := s.evaluations.CreateEvaluation(ctx, evaluation); err != nil {
		return persistence.Evaluation{}, mapSlotRepoError(err)
	}

	serviceLogger(ctx, s.logger, "evaluation", "create", "interview_id", interview.ID).
		InfoContext(ctx, "evaluation recorded", "number", evaluation.Number, "recommendation", evaluation.Recommendation)

	return evaluation, nil
}

// ListEvaluations returns an interview's feedback in submission order.
func (s *EvaluationService) ListEvaluations(ctx context.Context, interviewID string) ([]persistence.Evaluation, error) {
	if s == nil || s.evaluations == nil {
		return nil, fmt.Errorf("evaluation repository not configured")
	}

	evaluations, err := s.evaluations.ListEvaluations(ctx, interviewID)
	if err != nil {
		return nil, mapSlotRepoError(err)
	}
	return evaluations, nil
}

func validRecommendation(value string) bool {
	for _, known := range recommendations {
		if value == known {
			return true
		}
	}
	return false
}
