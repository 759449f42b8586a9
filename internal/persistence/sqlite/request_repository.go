package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/example/recruitd/internal/persistence"
)

// RequestRepository implements persistence.RequestRepository using SQLite.
type RequestRepository struct {
	pool *ConnectionPool
}

// NewRequestRepository creates a new SQLite requisition repository.
func NewRequestRepository(pool *ConnectionPool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

// CreateRequest inserts a requisition together with its approval records.
func (r *RequestRepository) CreateRequest(ctx context.Context, request persistence.RecruitmentRequest) error {
	if request.ID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recruitment_requests
				(id, number, position_title, department, employment_type, headcount, salary_band, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			request.ID,
			request.Number,
			request.PositionTitle,
			request.Department,
			request.EmploymentType,
			request.Headcount,
			request.SalaryBand,
			request.Status,
			formatTimestamp(request.CreatedAt),
			formatTimestamp(request.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}

		for _, approval := range request.Approvals {
			if err := upsertApprovalTx(ctx, tx, request.ID, approval); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetRequest retrieves a requisition by ID including its approvals.
func (r *RequestRepository) GetRequest(ctx context.Context, id string) (persistence.RecruitmentRequest, error) {
	if id == "" {
		return persistence.RecruitmentRequest{}, persistence.ErrNotFound
	}

	row := r.pool.db.QueryRowContext(ctx, `
		SELECT id, number, position_title, department, employment_type, headcount, salary_band, status, created_at, updated_at
		FROM recruitment_requests
		WHERE id = ?`, id)

	request, err := scanRequest(row.Scan)
	if err != nil {
		return persistence.RecruitmentRequest{}, mapError(err)
	}

	approvals, err := r.loadApprovals(ctx, id)
	if err != nil {
		return persistence.RecruitmentRequest{}, err
	}
	request.Approvals = approvals

	return request, nil
}

// UpdateRequest updates requisition fields. Approval rows are managed
// exclusively through UpsertApproval.
func (r *RequestRepository) UpdateRequest(ctx context.Context, request persistence.RecruitmentRequest) error {
	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE recruitment_requests
		SET position_title = ?, department = ?, employment_type = ?, headcount = ?, salary_band = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		request.PositionTitle,
		request.Department,
		request.EmploymentType,
		request.Headcount,
		request.SalaryBand,
		request.Status,
		formatTimestamp(request.UpdatedAt),
		request.ID,
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

// ListRequests returns requisitions matching the filter, newest first.
func (r *RequestRepository) ListRequests(ctx context.Context, filter persistence.RequestFilter) ([]persistence.RecruitmentRequest, error) {
	query := `
		SELECT id, number, position_title, department, employment_type, headcount, salary_band, status, created_at, updated_at
		FROM recruitment_requests`

	var conditions []string
	var args []any

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Department != "" {
		conditions = append(conditions, "department = ?")
		args = append(args, filter.Department)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id ASC"

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var requests []persistence.RecruitmentRequest
	for rows.Next() {
		request, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, mapError(err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range requests {
		approvals, err := r.loadApprovals(ctx, requests[i].ID)
		if err != nil {
			return nil, err
		}
		requests[i].Approvals = approvals
	}

	return requests, nil
}

// UpsertApproval creates or replaces one approval record for a requisition.
func (r *RequestRepository) UpsertApproval(ctx context.Context, requestID string, approval persistence.Approval) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var exists string
		err := tx.QueryRowContext(ctx, "SELECT id FROM recruitment_requests WHERE id = ?", requestID).Scan(&exists)
		if err == sql.ErrNoRows {
			return persistence.ErrNotFound
		}
		if err != nil {
			return mapError(err)
		}
		return upsertApprovalTx(ctx, tx, requestID, approval)
	})
}

// CountRequestNumbers counts requisition numbers starting with the prefix.
func (r *RequestRepository) CountRequestNumbers(ctx context.Context, prefix string) (int, error) {
	return countNumbers(ctx, r.pool, "recruitment_requests", prefix)
}

func upsertApprovalTx(ctx context.Context, tx *sql.Tx, requestID string, approval persistence.Approval) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO request_approvals (request_id, approval_type, status, approver, decided_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (request_id, approval_type)
		DO UPDATE SET status = excluded.status, approver = excluded.approver, decided_at = excluded.decided_at`,
		requestID,
		approval.Type,
		approval.Status,
		approval.Approver,
		nullTime(approval.DecidedAt),
	)
	return mapError(err)
}

func (r *RequestRepository) loadApprovals(ctx context.Context, requestID string) ([]persistence.Approval, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT approval_type, status, approver, decided_at
		FROM request_approvals
		WHERE request_id = ?
		ORDER BY approval_type ASC`, requestID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var approvals []persistence.Approval
	for rows.Next() {
		var approval persistence.Approval
		var decidedAt sql.NullString
		if err := rows.Scan(&approval.Type, &approval.Status, &approval.Approver, &decidedAt); err != nil {
			return nil, mapError(err)
		}
		if approval.DecidedAt, err = timePtr(decidedAt); err != nil {
			return nil, err
		}
		approvals = append(approvals, approval)
	}
	return approvals, rows.Err()
}

func scanRequest(scan func(dest ...any) error) (persistence.RecruitmentRequest, error) {
	var request persistence.RecruitmentRequest
	var createdAt, updatedAt string

	err := scan(
		&request.ID,
		&request.Number,
		&request.PositionTitle,
		&request.Department,
		&request.EmploymentType,
		&request.Headcount,
		&request.SalaryBand,
		&request.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.RecruitmentRequest{}, err
	}

	if request.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.RecruitmentRequest{}, err
	}
	if request.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.RecruitmentRequest{}, err
	}
	return request, nil
}

func countNumbers(ctx context.Context, pool *ConnectionPool, table, prefix string) (int, error) {
	var count int
	// The prefix never carries user input, only generated PREFIX-date values.
	err := pool.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+table+" WHERE number LIKE ?", prefix+"%").Scan(&count)
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}
