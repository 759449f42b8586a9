package application

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist. It
	// also masks ownership failures on slot confirmation so callers cannot
	// probe who holds a booking.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a uniqueness rule is violated, such as
	// a second interview setup for the same requisition.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrUnauthorized is returned when the presented pass credential is
	// missing, expired, or revoked.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrInvalidStage is returned when a stage transition names an
	// unrecognized stage key.
	ErrInvalidStage = errors.New("application: invalid stage")
	// ErrTerminalStage is returned when a transition is attempted on a
	// candidate already in a terminal stage.
	ErrTerminalStage = errors.New("application: terminal stage")
	// ErrSlotUnavailable is returned when a booking attempt loses to an
	// earlier booking. The slot list the caller holds is stale; refetch.
	ErrSlotUnavailable = errors.New("application: slot unavailable")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
