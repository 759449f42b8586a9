package sqlite

import (
	"context"
	"strings"

	"github.com/example/recruitd/internal/persistence"
)

// ActivityLogRepository implements persistence.ActivityLogRepository using
// SQLite. The table is append-only; this type deliberately exposes no update
// or delete operation.
type ActivityLogRepository struct {
	pool *ConnectionPool
}

// NewActivityLogRepository creates a new SQLite activity log repository.
func NewActivityLogRepository(pool *ConnectionPool) *ActivityLogRepository {
	return &ActivityLogRepository{pool: pool}
}

// AppendEntry writes one audit trail record.
func (r *ActivityLogRepository) AppendEntry(ctx context.Context, entry persistence.ActivityEntry) error {
	if entry.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO activity_log
			(id, entity_type, entity_id, stage, action_type, description, performed_by, visibility, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.EntityType,
		entry.EntityID,
		entry.Stage,
		entry.ActionType,
		entry.Description,
		entry.PerformedBy,
		entry.Visibility,
		formatTimestamp(entry.CreatedAt),
	)
	return mapError(err)
}

// ListEntries returns audit records matching the filter, most recent first.
func (r *ActivityLogRepository) ListEntries(ctx context.Context, filter persistence.ActivityFilter) ([]persistence.ActivityEntry, error) {
	query := `
		SELECT id, entity_type, entity_id, stage, action_type, description, performed_by, visibility, created_at
		FROM activity_log`

	var conditions []string
	var args []any
	if filter.EntityType != "" {
		conditions = append(conditions, "entity_type = ?")
		args = append(args, filter.EntityType)
	}
	if filter.EntityID != "" {
		conditions = append(conditions, "entity_id = ?")
		args = append(args, filter.EntityID)
	}
	if filter.Visibility != "" {
		conditions = append(conditions, "visibility = ?")
		args = append(args, filter.Visibility)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var entries []persistence.ActivityEntry
	for rows.Next() {
		var entry persistence.ActivityEntry
		var createdAt string
		err := rows.Scan(
			&entry.ID,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Stage,
			&entry.ActionType,
			&entry.Description,
			&entry.PerformedBy,
			&entry.Visibility,
			&createdAt,
		)
		if err != nil {
			return nil, mapError(err)
		}
		if entry.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
