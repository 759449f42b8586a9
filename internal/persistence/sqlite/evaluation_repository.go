package sqlite

import (
	"context"

	"github.com/example/recruitd/internal/persistence"
)

// EvaluationRepository implements persistence.EvaluationRepository using SQLite.
type EvaluationRepository struct {
	pool *ConnectionPool
}

// NewEvaluationRepository creates a new SQLite evaluation repository.
func NewEvaluationRepository(pool *ConnectionPool) *EvaluationRepository {
	return &EvaluationRepository{pool: pool}
}

// CreateEvaluation inserts an interviewer feedback record.
func (r *EvaluationRepository) CreateEvaluation(ctx context.Context, evaluation persistence.Evaluation) error {
	if evaluation.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO evaluations
			(id, number, interview_id, candidate_id, evaluator, technical_score, communication_score,
			 culture_score, overall_score, recommendation, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		evaluation.ID,
		evaluation.Number,
		evaluation.InterviewID,
		evaluation.CandidateID,
		evaluation.Evaluator,
		evaluation.TechnicalScore,
		evaluation.CommunicationScore,
		evaluation.CultureScore,
		evaluation.OverallScore,
		evaluation.Recommendation,
		evaluation.Notes,
		formatTimestamp(evaluation.CreatedAt),
	)
	return mapError(err)
}

// ListEvaluations returns the evaluations recorded for one interview, oldest
// first so reviewers read feedback in submission order.
func (r *EvaluationRepository) ListEvaluations(ctx context.Context, interviewID string) ([]persistence.Evaluation, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT id, number, interview_id, candidate_id, evaluator, technical_score, communication_score,
			culture_score, overall_score, recommendation, notes, created_at
		FROM evaluations
		WHERE interview_id = ?
		ORDER BY created_at ASC, id ASC`, interviewID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var evaluations []persistence.Evaluation
	for rows.Next() {
		var evaluation persistence.Evaluation
		var createdAt string
		err := rows.Scan(
			&evaluation.ID,
			&evaluation.Number,
			&evaluation.InterviewID,
			&evaluation.CandidateID,
			&evaluation.Evaluator,
			&evaluation.TechnicalScore,
			&evaluation.CommunicationScore,
			&evaluation.CultureScore,
			&evaluation.OverallScore,
			&evaluation.Recommendation,
			&evaluation.Notes,
			&createdAt,
		)
		if err != nil {
			return nil, mapError(err)
		}
		if evaluation.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		evaluations = append(evaluations, evaluation)
	}
	return evaluations, rows.Err()
}

// CountEvaluationNumbers counts evaluation numbers starting with the prefix.
func (r *EvaluationRepository) CountEvaluationNumbers(ctx context.Context, prefix string) (int, error) {
	return countNumbers(ctx, r.pool, "evaluations", prefix)
}
