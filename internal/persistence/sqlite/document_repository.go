package sqlite

import (
	"context"

	"github.com/example/recruitd/internal/persistence"
)

// DocumentRepository implements persistence.DocumentRepository using SQLite.
type DocumentRepository struct {
	pool *ConnectionPool
}

// NewDocumentRepository creates a new SQLite document repository.
func NewDocumentRepository(pool *ConnectionPool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

// CreateDocument inserts a typed document record for a requisition.
func (r *DocumentRepository) CreateDocument(ctx context.Context, document persistence.Document) error {
	if document.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO documents (id, request_id, doc_type, title, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		document.ID,
		document.RequestID,
		document.DocType,
		document.Title,
		document.Status,
		formatTimestamp(document.CreatedAt),
		formatTimestamp(document.UpdatedAt),
	)
	return mapError(err)
}

// ListDocumentsForRequest returns the documents attached to a requisition.
func (r *DocumentRepository) ListDocumentsForRequest(ctx context.Context, requestID string) ([]persistence.Document, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT id, request_id, doc_type, title, status, created_at, updated_at
		FROM documents
		WHERE request_id = ?
		ORDER BY doc_type ASC, created_at ASC`, requestID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var documents []persistence.Document
	for rows.Next() {
		var document persistence.Document
		var createdAt, updatedAt string
		err := rows.Scan(
			&document.ID,
			&document.RequestID,
			&document.DocType,
			&document.Title,
			&document.Status,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, mapError(err)
		}
		if document.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		if document.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}
	return documents, rows.Err()
}
