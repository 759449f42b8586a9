package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/example/recruitd/internal/persistence"
)

// CandidateRepository implements persistence.CandidateRepository using SQLite.
type CandidateRepository struct {
	pool *ConnectionPool
}

// NewCandidateRepository creates a new SQLite candidate repository.
func NewCandidateRepository(pool *ConnectionPool) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

const candidateColumns = `id, number, request_id, full_name, email, phone, stage, status, stage_changed_at,
	rejection_reason, cv_match, skills_match, hr_rating, manager_rating, pass_number, created_at, updated_at`

// CreateCandidate inserts a new candidate record.
func (r *CandidateRepository) CreateCandidate(ctx context.Context, candidate persistence.Candidate) error {
	if candidate.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO candidates (`+candidateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		candidate.ID,
		candidate.Number,
		candidate.RequestID,
		candidate.FullName,
		candidate.Email,
		candidate.Phone,
		candidate.Stage,
		candidate.Status,
		formatTimestamp(candidate.StageChangedAt),
		nullString(candidate.RejectionReason),
		nullInt(candidate.CVMatch),
		nullInt(candidate.SkillsMatch),
		nullInt(candidate.HRRating),
		nullInt(candidate.ManagerRating),
		nullString(candidate.PassNumber),
		formatTimestamp(candidate.CreatedAt),
		formatTimestamp(candidate.UpdatedAt),
	)
	return mapError(err)
}

// GetCandidate retrieves a candidate by ID.
func (r *CandidateRepository) GetCandidate(ctx context.Context, id string) (persistence.Candidate, error) {
	if id == "" {
		return persistence.Candidate{}, persistence.ErrNotFound
	}

	row := r.pool.db.QueryRowContext(ctx,
		"SELECT "+candidateColumns+" FROM candidates WHERE id = ?", id)
	candidate, err := scanCandidate(row.Scan)
	if err != nil {
		return persistence.Candidate{}, mapError(err)
	}
	return candidate, nil
}

// UpdateCandidate persists the full candidate record.
func (r *CandidateRepository) UpdateCandidate(ctx context.Context, candidate persistence.Candidate) error {
	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE candidates
		SET full_name = ?, email = ?, phone = ?, stage = ?, status = ?, stage_changed_at = ?,
			rejection_reason = ?, cv_match = ?, skills_match = ?, hr_rating = ?, manager_rating = ?,
			pass_number = ?, updated_at = ?
		WHERE id = ?`,
		candidate.FullName,
		candidate.Email,
		candidate.Phone,
		candidate.Stage,
		candidate.Status,
		formatTimestamp(candidate.StageChangedAt),
		nullString(candidate.RejectionReason),
		nullInt(candidate.CVMatch),
		nullInt(candidate.SkillsMatch),
		nullInt(candidate.HRRating),
		nullInt(candidate.ManagerRating),
		nullString(candidate.PassNumber),
		formatTimestamp(candidate.UpdatedAt),
		candidate.ID,
	)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListCandidates returns candidates matching the filter ordered by creation.
func (r *CandidateRepository) ListCandidates(ctx context.Context, filter persistence.CandidateFilter) ([]persistence.Candidate, error) {
	query := "SELECT " + candidateColumns + " FROM candidates"

	var conditions []string
	var args []any
	if filter.RequestID != "" {
		conditions = append(conditions, "request_id = ?")
		args = append(args, filter.RequestID)
	}
	if filter.Stage != "" {
		conditions = append(conditions, "stage = ?")
		args = append(args, filter.Stage)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var candidates []persistence.Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows.Scan)
		if err != nil {
			return nil, mapError(err)
		}
		candidates = append(candidates, candidate)
	}
	return candidates, rows.Err()
}

// CountCandidatesByStage aggregates candidate counts per stage. When
// requestID is empty the whole store is counted. Stages without candidates
// are absent from the result; zero filling happens at the service layer.
func (r *CandidateRepository) CountCandidatesByStage(ctx context.Context, requestID string) (map[string]int, error) {
	query := "SELECT stage, COUNT(*) FROM candidates"
	var args []any
	if requestID != "" {
		query += " WHERE request_id = ?"
		args = append(args, requestID)
	}
	query += " GROUP BY stage"

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var stage string
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			return nil, mapError(err)
		}
		counts[stage] = count
	}
	return counts, rows.Err()
}

// CountCandidateNumbers counts candidate numbers starting with the prefix.
func (r *CandidateRepository) CountCandidateNumbers(ctx context.Context, prefix string) (int, error) {
	return countNumbers(ctx, r.pool, "candidates", prefix)
}

func scanCandidate(scan func(dest ...any) error) (persistence.Candidate, error) {
	var candidate persistence.Candidate
	var stageChangedAt, createdAt, updatedAt string
	var rejectionReason, passNumber sql.NullString
	var cvMatch, skillsMatch, hrRating, managerRating sql.NullInt64

	err := scan(
		&candidate.ID,
		&candidate.Number,
		&candidate.RequestID,
		&candidate.FullName,
		&candidate.Email,
		&candidate.Phone,
		&candidate.Stage,
		&candidate.Status,
		&stageChangedAt,
		&rejectionReason,
		&cvMatch,
		&skillsMatch,
		&hrRating,
		&managerRating,
		&passNumber,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Candidate{}, err
	}

	candidate.RejectionReason = stringPtr(rejectionReason)
	candidate.PassNumber = stringPtr(passNumber)
	candidate.CVMatch = intPtr(cvMatch)
	candidate.SkillsMatch = intPtr(skillsMatch)
	candidate.HRRating = intPtr(hrRating)
	candidate.ManagerRating = intPtr(managerRating)

	if candidate.StageChangedAt, err = parseTimestamp(stageChangedAt); err != nil {
		return persistence.Candidate{}, err
	}
	if candidate.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Candidate{}, err
	}
	if candidate.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Candidate{}, err
	}
	return candidate, nil
}
