package sqlite

import (
	"context"
	"strings"

	"github.com/example/recruitd/internal/persistence"
)

// InterviewRepository implements persistence.InterviewRepository using SQLite.
type InterviewRepository struct {
	pool *ConnectionPool
}

// NewInterviewRepository creates a new SQLite interview repository.
func NewInterviewRepository(pool *ConnectionPool) *InterviewRepository {
	return &InterviewRepository{pool: pool}
}

const interviewColumns = `id, number, candidate_id, request_id, slot_id, round_type, scheduled_at, created_at`

// CreateInterview inserts an interview appointment. The UNIQUE constraint on
// slot_id guarantees at most one interview per slot.
func (r *InterviewRepository) CreateInterview(ctx context.Context, interview persistence.Interview) error {
	if interview.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO interviews (`+interviewColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		interview.ID,
		interview.Number,
		interview.CandidateID,
		interview.RequestID,
		interview.SlotID,
		interview.RoundType,
		formatTimestamp(interview.ScheduledAt),
		formatTimestamp(interview.CreatedAt),
	)
	return mapError(err)
}

// GetInterview retrieves an interview by ID.
func (r *InterviewRepository) GetInterview(ctx context.Context, id string) (persistence.Interview, error) {
	return r.getInterviewWhere(ctx, "id = ?", id)
}

// GetInterviewBySlot retrieves the interview created for a confirmed slot.
func (r *InterviewRepository) GetInterviewBySlot(ctx context.Context, slotID string) (persistence.Interview, error) {
	return r.getInterviewWhere(ctx, "slot_id = ?", slotID)
}

// ListInterviews returns interviews matching the filter ordered by schedule.
func (r *InterviewRepository) ListInterviews(ctx context.Context, filter persistence.InterviewFilter) ([]persistence.Interview, error) {
	query := "SELECT " + interviewColumns + " FROM interviews"

	var conditions []string
	var args []any
	if filter.RequestID != "" {
		conditions = append(conditions, "request_id = ?")
		args = append(args, filter.RequestID)
	}
	if filter.CandidateID != "" {
		conditions = append(conditions, "candidate_id = ?")
		args = append(args, filter.CandidateID)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY scheduled_at ASC, id ASC"

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var interviews []persistence.Interview
	for rows.Next() {
		interview, err := scanInterview(rows.Scan)
		if err != nil {
			return nil, mapError(err)
		}
		interviews = append(interviews, interview)
	}
	return interviews, rows.Err()
}

// CountInterviewNumbers counts interview numbers starting with the prefix.
func (r *InterviewRepository) CountInterviewNumbers(ctx context.Context, prefix string) (int, error) {
	return countNumbers(ctx, r.pool, "interviews", prefix)
}

func (r *InterviewRepository) getInterviewWhere(ctx context.Context, where string, arg any) (persistence.Interview, error) {
	if arg == "" {
		return persistence.Interview{}, persistence.ErrNotFound
	}

	row := r.pool.db.QueryRowContext(ctx,
		"SELECT "+interviewColumns+" FROM interviews WHERE "+where, arg)
	interview, err := scanInterview(row.Scan)
	if err != nil {
		return persistence.Interview{}, mapError(err)
	}
	return interview, nil
}

func scanInterview(scan func(dest ...any) error) (persistence.Interview, error) {
	var interview persistence.Interview
	var scheduledAt, createdAt string

	err := scan(
		&interview.ID,
		&interview.Number,
		&interview.CandidateID,
		&interview.RequestID,
		&interview.SlotID,
		&interview.RoundType,
		&scheduledAt,
		&createdAt,
	)
	if err != nil {
		return persistence.Interview{}, err
	}

	if interview.ScheduledAt, err = parseTimestamp(scheduledAt); err != nil {
		return persistence.Interview{}, err
	}
	if interview.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Interview{}, err
	}
	return interview, nil
}
