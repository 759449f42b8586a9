package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/recruitd/internal/persistence"
)

// PassRepository implements persistence.PassRepository using SQLite.
type PassRepository struct {
	pool *ConnectionPool
}

// NewPassRepository creates a new SQLite pass credential repository.
func NewPassRepository(pool *ConnectionPool) *PassRepository {
	return &PassRepository{pool: pool}
}

// CreateCredential persists a new pass credential.
func (r *PassRepository) CreateCredential(ctx context.Context, credential persistence.PassCredential) error {
	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO pass_credentials (id, kind, subject_id, secret_digest, expires_at, revoked_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		credential.ID,
		credential.Kind,
		credential.SubjectID,
		credential.SecretDigest,
		formatTimestamp(credential.ExpiresAt),
		nullTime(credential.RevokedAt),
		formatTimestamp(credential.CreatedAt),
		formatTimestamp(credential.UpdatedAt),
	)
	return mapError(err)
}

// GetCredential retrieves a credential by ID.
func (r *PassRepository) GetCredential(ctx context.Context, id string) (persistence.PassCredential, error) {
	row := r.pool.db.QueryRowContext(ctx, `
		SELECT id, kind, subject_id, secret_digest, expires_at, revoked_at, created_at, updated_at
		FROM pass_credentials
		WHERE id = ?`, id)

	var credential persistence.PassCredential
	var expiresAt, createdAt, updatedAt string
	var revokedAt sql.NullString
	err := row.Scan(
		&credential.ID,
		&credential.Kind,
		&credential.SubjectID,
		&credential.SecretDigest,
		&expiresAt,
		&revokedAt,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.PassCredential{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.PassCredential{}, mapError(err)
	}
	if credential.ExpiresAt, err = parseTimestamp(expiresAt); err != nil {
		return persistence.PassCredential{}, err
	}
	if credential.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.PassCredential{}, err
	}
	if credential.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.PassCredential{}, err
	}
	if revokedAt.Valid {
		t, err := parseTimestamp(revokedAt.String)
		if err != nil {
			return persistence.PassCredential{}, err
		}
		credential.RevokedAt = &t
	}
	return credential, nil
}

// RevokeCredential stamps a credential revoked. Revoking an already revoked
// credential leaves the original revocation time in place.
func (r *PassRepository) RevokeCredential(ctx context.Context, id string, revokedAt time.Time) error {
	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE pass_credentials
		SET revoked_at = ?, updated_at = ?
		WHERE id = ? AND revoked_at IS NULL`,
		formatTimestamp(revokedAt), formatTimestamp(revokedAt), id)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists int
		err := r.pool.db.QueryRowContext(ctx,
			`SELECT 1 FROM pass_credentials WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.ErrNotFound
		}
		if err != nil {
			return mapError(err)
		}
	}
	return nil
}

// DeleteExpiredCredentials removes credentials whose expiry has passed.
func (r *PassRepository) DeleteExpiredCredentials(ctx context.Context, reference time.Time) error {
	_, err := r.pool.db.ExecContext(ctx,
		`DELETE FROM pass_credentials WHERE expires_at < ?`, formatTimestamp(reference))
	return mapError(err)
}
