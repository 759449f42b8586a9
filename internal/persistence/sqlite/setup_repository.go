package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/recruitd/internal/persistence"
)

// SetupRepository implements persistence.SetupRepository using SQLite.
type SetupRepository struct {
	pool *ConnectionPool
}

// NewSetupRepository creates a new SQLite interview setup repository.
func NewSetupRepository(pool *ConnectionPool) *SetupRepository {
	return &SetupRepository{pool: pool}
}

// CreateSetup inserts an interview setup with its extra interviewer list.
// The UNIQUE constraint on request_id enforces one setup per requisition.
func (r *SetupRepository) CreateSetup(ctx context.Context, setup persistence.InterviewSetup) error {
	if setup.ID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO interview_setups (id, request_id, rounds, format, assessment_required, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			setup.ID,
			setup.RequestID,
			setup.Rounds,
			setup.Format,
			boolToInt(setup.AssessmentRequired),
			formatTimestamp(setup.CreatedAt),
			formatTimestamp(setup.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}
		return insertInterviewersTx(ctx, tx, setup.ID, setup.ExtraInterviewers)
	})
}

// GetSetup retrieves a setup by ID.
func (r *SetupRepository) GetSetup(ctx context.Context, id string) (persistence.InterviewSetup, error) {
	return r.getSetupWhere(ctx, "id = ?", id)
}

// GetSetupByRequest retrieves the setup configured for a requisition.
func (r *SetupRepository) GetSetupByRequest(ctx context.Context, requestID string) (persistence.InterviewSetup, error) {
	return r.getSetupWhere(ctx, "request_id = ?", requestID)
}

// UpdateSetup replaces setup configuration and its interviewer list.
func (r *SetupRepository) UpdateSetup(ctx context.Context, setup persistence.InterviewSetup) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE interview_setups
			SET rounds = ?, format = ?, assessment_required = ?, updated_at = ?
			WHERE id = ?`,
			setup.Rounds,
			setup.Format,
			boolToInt(setup.AssessmentRequired),
			formatTimestamp(setup.UpdatedAt),
			setup.ID,
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

		if _, err := tx.ExecContext(ctx, "DELETE FROM setup_interviewers WHERE setup_id = ?", setup.ID); err != nil {
			return mapError(err)
		}
		return insertInterviewersTx(ctx, tx, setup.ID, setup.ExtraInterviewers)
	})
}

func (r *SetupRepository) getSetupWhere(ctx context.Context, where string, arg any) (persistence.InterviewSetup, error) {
	if arg == "" {
		return persistence.InterviewSetup{}, persistence.ErrNotFound
	}

	var setup persistence.InterviewSetup
	var assessment int
	var createdAt, updatedAt string

	err := r.pool.db.QueryRowContext(ctx, `
		SELECT id, request_id, rounds, format, assessment_required, created_at, updated_at
		FROM interview_setups
		WHERE `+where, arg).Scan(
		&setup.ID,
		&setup.RequestID,
		&setup.Rounds,
		&setup.Format,
		&assessment,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.InterviewSetup{}, mapError(err)
	}

	setup.AssessmentRequired = assessment != 0
	if setup.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.InterviewSetup{}, err
	}
	if setup.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.InterviewSetup{}, err
	}

	setup.ExtraInterviewers, err = r.loadInterviewers(ctx, setup.ID)
	if err != nil {
		return persistence.InterviewSetup{}, err
	}
	return setup, nil
}

func (r *SetupRepository) loadInterviewers(ctx context.Context, setupID string) ([]string, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT interviewer FROM setup_interviewers WHERE setup_id = ? ORDER BY interviewer ASC", setupID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var interviewers []string
	for rows.Next() {
		var interviewer string
		if err := rows.Scan(&interviewer); err != nil {
			return nil, mapError(err)
		}
		interviewers = append(interviewers, interviewer)
	}
	return interviewers, rows.Err()
}

func insertInterviewersTx(ctx context.Context, tx *sql.Tx, setupID string, interviewers []string) error {
	seen := make(map[string]struct{}, len(interviewers))
	for _, interviewer := range interviewers {
		if interviewer == "" {
			continue
		}
		if _, ok := seen[interviewer]; ok {
			continue
		}
		seen[interviewer] = struct{}{}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO setup_interviewers (setup_id, interviewer) VALUES (?, ?)",
			setupID, interviewer); err != nil {
			return mapError(err)
		}
	}
	return nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
