package persistence

import "errors"

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when an insert collides with an existing record.
	ErrDuplicate = errors.New("persistence: duplicate")
	// ErrConflict is returned when a conditional update matched an existing
	// row whose state no longer satisfies the guard, e.g. booking a slot that
	// is not available.
	ErrConflict = errors.New("persistence: state conflict")
	// ErrConstraintViolation is returned when a record violates a CHECK constraint.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrForeignKeyViolation is returned when a record references missing rows.
	ErrForeignKeyViolation = errors.New("persistence: foreign key violation")
)
