package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/recruitd/internal/persistence"
)

// MailboxRepository implements persistence.MessageRepository using SQLite.
type MailboxRepository struct {
	pool *ConnectionPool
}

// NewMailboxRepository creates a new SQLite message repository.
func NewMailboxRepository(pool *ConnectionPool) *MailboxRepository {
	return &MailboxRepository{pool: pool}
}

// CreateMessage inserts an inbox entry for a holder.
func (r *MailboxRepository) CreateMessage(ctx context.Context, message persistence.Message) error {
	if message.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO messages (id, holder_type, holder_id, subject, body, read_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		message.ID,
		message.HolderType,
		message.HolderID,
		message.Subject,
		message.Body,
		nullTime(message.ReadAt),
		formatTimestamp(message.CreatedAt),
	)
	return mapError(err)
}

// UnreadCount returns the number of unread messages held by one inbox.
func (r *MailboxRepository) UnreadCount(ctx context.Context, holderType, holderID string) (int, error) {
	var count int
	err := r.pool.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM messages WHERE holder_type = ? AND holder_id = ? AND read_at IS NULL",
		holderType, holderID).Scan(&count)
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// ListInbox returns a holder's messages, most recent first.
func (r *MailboxRepository) ListInbox(ctx context.Context, holderType, holderID string) ([]persistence.Message, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT id, holder_type, holder_id, subject, body, read_at, created_at
		FROM messages
		WHERE holder_type = ? AND holder_id = ?
		ORDER BY created_at DESC, id DESC`, holderType, holderID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var messages []persistence.Message
	for rows.Next() {
		var message persistence.Message
		var readAt sql.NullString
		var createdAt string
		err := rows.Scan(
			&message.ID,
			&message.HolderType,
			&message.HolderID,
			&message.Subject,
			&message.Body,
			&readAt,
			&createdAt,
		)
		if err != nil {
			return nil, mapError(err)
		}
		if message.ReadAt, err = timePtr(readAt); err != nil {
			return nil, err
		}
		if message.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

// MarkRead stamps a message as read. Marking a read message again keeps the
// original timestamp.
func (r *MailboxRepository) MarkRead(ctx context.Context, messageID string, readAt time.Time) error {
	result, err := r.pool.db.ExecContext(ctx,
		"UPDATE messages SET read_at = ? WHERE id = ? AND read_at IS NULL",
		formatTimestamp(readAt), messageID)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 1 {
		return nil
	}

	var exists string
	err = r.pool.db.QueryRowContext(ctx, "SELECT id FROM messages WHERE id = ?", messageID).Scan(&exists)
	if err == sql.ErrNoRows {
		return persistence.ErrNotFound
	}
	return mapError(err)
}
